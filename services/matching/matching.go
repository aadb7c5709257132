package matching

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	candidateRepo "meditravel/database/repository/candidate"
	"meditravel/models"

	"github.com/go-redis/redis/v8"
)

// MatchingService scores and returns candidate providers or treatments for a
// patient query. Scores are computed here, server-side; consumers only filter
// and sort the returned list.
type MatchingService interface {
	MatchCandidates(query models.MatchQuery) ([]models.Candidate, error)
	GetCandidate(id string) (*models.Candidate, error)
}

// DefaultMatchingService is our robust implementation.
type DefaultMatchingService struct {
	CandidateRepo candidateRepo.CandidateRepository
	CacheClient   *redis.Client
}

// GetCandidate returns one candidate profile by ID.
func (s *DefaultMatchingService) GetCandidate(id string) (*models.Candidate, error) {
	c, err := s.CandidateRepo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve candidate: %w", err)
	}
	if c == nil {
		return nil, fmt.Errorf("candidate %s not found", id)
	}
	return c, nil
}

// MatchCandidates retrieves a ranked list of candidates for the given query.
// It first attempts to retrieve the result from cache; if not found, it
// computes the match and caches it.
func (s *DefaultMatchingService) MatchCandidates(query models.MatchQuery) ([]models.Candidate, error) {
	ctx := context.Background()

	queryBytes, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal match query: %w", err)
	}
	cacheKey := fmt.Sprintf("match:%x", queryBytes)

	if s.CacheClient != nil {
		cached, err := s.CacheClient.Get(ctx, cacheKey).Result()
		if err == nil && cached != "" {
			var candidates []models.Candidate
			if err := json.Unmarshal([]byte(cached), &candidates); err == nil {
				return candidates, nil
			}
			// If unmarshal fails, we fall through to re-computation.
		}
	}

	kind := query.Kind
	if kind == "" {
		kind = models.CandidateProvider
	}
	all, err := s.CandidateRepo.GetByKindAndSpecialty(kind, query.Specialty)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve candidates: %w", err)
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("no candidates found for specialty '%s'", query.Specialty)
	}

	// Scoring constants.
	const (
		RatingWeight     = 12.0
		ExperienceWeight = 2.5
		CaseloadWeight   = 4.0
		BudgetWeight     = 20.0
		CountryBonus     = 10.0
	)

	scored := make([]models.Candidate, 0, len(all))
	for _, c := range all {
		score := c.RatingOrZero()*RatingWeight +
			math.Min(float64(c.ExperienceYears), 20)*ExperienceWeight +
			math.Log(float64(c.CompletedCases)+1)*CaseloadWeight

		if query.Budget > 0 && c.PriceUSD > 0 && c.PriceUSD <= query.Budget {
			score += BudgetWeight * (1 - c.PriceUSD/query.Budget)
		}
		if query.Country != "" && strings.EqualFold(c.Country, query.Country) {
			score += CountryBonus
		}

		c.MatchScore = math.Min(math.Round(score), 100)
		scored = append(scored, c)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].MatchScore > scored[j].MatchScore
	})

	if s.CacheClient != nil {
		if matchedBytes, err := json.Marshal(scored); err == nil {
			s.CacheClient.Set(ctx, cacheKey, matchedBytes, 5*time.Minute)
		}
	}

	return scored, nil
}
