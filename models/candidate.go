package models

// Candidate kinds.
const (
	CandidateProvider  = "provider"
	CandidateTreatment = "treatment"
)

// Sort keys for the recommendation filter.
const (
	SortByMatch      = "match"
	SortByExperience = "experience"
	SortByRating     = "rating"
)

// Candidate is a provider or treatment with a server-computed match score.
// The score is in [0,100]; consumers filter and sort but never recompute it.
type Candidate struct {
	ID              string   `bson:"id" json:"id"`
	Kind            string   `bson:"kind" json:"kind"`
	Name            string   `bson:"name" json:"name"`
	Specialty       string   `bson:"specialty" json:"specialty"`
	Country         string   `bson:"country" json:"country"`
	City            string   `bson:"city" json:"city"`
	MatchScore      float64  `bson:"match_score" json:"matchScore"`
	ExperienceYears int      `bson:"experience_years" json:"experienceYears"`
	// Rating is nil when the candidate has no reviews yet; filters and sorts
	// treat a missing rating as 0.
	Rating          *float64 `bson:"rating,omitempty" json:"rating,omitempty"`
	Languages       []string `bson:"languages" json:"languages"`
	PriceUSD        float64  `bson:"price_usd" json:"priceUsd"`
	Accreditations  []string `bson:"accreditations" json:"accreditations,omitempty"`
	CompletedCases  int      `bson:"completed_cases" json:"completedCases"`
}

// RatingOrZero returns the rating with missing values mapped to 0.
func (c Candidate) RatingOrZero() float64 {
	if c.Rating == nil {
		return 0
	}
	return *c.Rating
}

// FilterOptions are the client-side filter predicates. Categories combine
// conjunctively; the language set matches disjunctively (ANY selected
// language).
type FilterOptions struct {
	MinExperience int      `json:"minExperience" form:"minExperience"`
	MinRating     float64  `json:"minRating" form:"minRating"`
	Languages     []string `json:"languages" form:"languages"`
	SortBy        string   `json:"sortBy" form:"sortBy"`
}

// MatchQuery describes what the patient is looking for; scoring inputs.
type MatchQuery struct {
	Kind      string  `json:"kind" form:"kind"`
	Specialty string  `json:"specialty" form:"specialty"`
	Country   string  `json:"country" form:"country"`
	Budget    float64 `json:"budget" form:"budget"`
}
