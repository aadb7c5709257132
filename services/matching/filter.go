package matching

import (
	"sort"

	"meditravel/models"
)

// Filter derives a filtered, sorted view of a candidate list without mutating
// the source. Predicates combine conjunctively across categories; the
// language set matches disjunctively (a candidate passes with ANY selected
// language). A missing rating counts as 0. The function is total and
// deterministic: identical inputs yield identical output ordering, and the
// pre-sort order preserves the source's relative order.
func Filter(candidates []models.Candidate, opts models.FilterOptions) []models.Candidate {
	filtered := make([]models.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.ExperienceYears < opts.MinExperience {
			continue
		}
		if c.RatingOrZero() < opts.MinRating {
			continue
		}
		if len(opts.Languages) > 0 && !speaksAny(c, opts.Languages) {
			continue
		}
		filtered = append(filtered, c)
	}

	switch opts.SortBy {
	case models.SortByExperience:
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].ExperienceYears > filtered[j].ExperienceYears
		})
	case models.SortByRating:
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].RatingOrZero() > filtered[j].RatingOrZero()
		})
	default:
		// Match score descending, ties kept in original order.
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].MatchScore > filtered[j].MatchScore
		})
	}

	return filtered
}

func speaksAny(c models.Candidate, languages []string) bool {
	for _, want := range languages {
		for _, have := range c.Languages {
			if have == want {
				return true
			}
		}
	}
	return false
}
