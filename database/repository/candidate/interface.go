package candidateRepo

import "meditravel/models"

// CandidateRepository provides access to scored provider/treatment candidates.
type CandidateRepository interface {
	GetByKindAndSpecialty(kind, specialty string) ([]models.Candidate, error)
	GetByID(id string) (*models.Candidate, error)
}
