package matching

import (
	"testing"

	"meditravel/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ratingOf(v float64) *float64 { return &v }

func sampleCandidates() []models.Candidate {
	return []models.Candidate{
		{ID: "c1", Name: "Clinic One", MatchScore: 90, ExperienceYears: 12, Rating: ratingOf(5), Languages: []string{"en", "tr"}},
		{ID: "c2", Name: "Clinic Two", MatchScore: 85, ExperienceYears: 8, Rating: ratingOf(3), Languages: []string{"es"}},
		{ID: "c3", Name: "Clinic Three", MatchScore: 85, ExperienceYears: 15, Rating: ratingOf(4), Languages: []string{"en", "de"}},
		{ID: "c4", Name: "Clinic Four", MatchScore: 70, ExperienceYears: 20, Rating: nil, Languages: []string{"tr"}},
	}
}

func ids(candidates []models.Candidate) []string {
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.ID
	}
	return out
}

func TestFilterPredicates(t *testing.T) {
	t.Run("categories combine conjunctively", func(t *testing.T) {
		got := Filter(sampleCandidates(), models.FilterOptions{
			MinExperience: 10,
			MinRating:     4,
		})
		// Only candidates with both 10+ years and rating >= 4 pass.
		assert.Equal(t, []string{"c1", "c3"}, ids(got))
	})

	t.Run("missing rating counts as zero", func(t *testing.T) {
		got := Filter(sampleCandidates(), models.FilterOptions{MinRating: 4})
		assert.Equal(t, []string{"c1", "c3"}, ids(got))

		// With no rating floor the unrated candidate passes.
		got = Filter(sampleCandidates(), models.FilterOptions{})
		assert.Contains(t, ids(got), "c4")
	})

	t.Run("languages match disjunctively", func(t *testing.T) {
		got := Filter(sampleCandidates(), models.FilterOptions{
			Languages: []string{"es", "de"},
		})
		assert.Equal(t, []string{"c2", "c3"}, ids(got))
	})

	t.Run("empty language set matches everyone", func(t *testing.T) {
		got := Filter(sampleCandidates(), models.FilterOptions{})
		assert.Len(t, got, 4)
	})
}

func TestFilterSorting(t *testing.T) {
	t.Run("default sort is match score descending with stable ties", func(t *testing.T) {
		got := Filter(sampleCandidates(), models.FilterOptions{})
		// c2 and c3 tie on score; their source order is preserved.
		assert.Equal(t, []string{"c1", "c2", "c3", "c4"}, ids(got))
	})

	t.Run("sort by experience", func(t *testing.T) {
		got := Filter(sampleCandidates(), models.FilterOptions{SortBy: models.SortByExperience})
		assert.Equal(t, []string{"c4", "c3", "c1", "c2"}, ids(got))
	})

	t.Run("sort by rating treats missing as zero", func(t *testing.T) {
		got := Filter(sampleCandidates(), models.FilterOptions{SortBy: models.SortByRating})
		assert.Equal(t, []string{"c1", "c3", "c2", "c4"}, ids(got))
	})

	t.Run("identical inputs produce identical output ordering", func(t *testing.T) {
		opts := models.FilterOptions{MinRating: 3, SortBy: models.SortByRating}
		first := Filter(sampleCandidates(), opts)
		for i := 0; i < 10; i++ {
			assert.Equal(t, ids(first), ids(Filter(sampleCandidates(), opts)))
		}
	})
}

func TestFilterDoesNotMutateSource(t *testing.T) {
	source := sampleCandidates()
	original := ids(source)

	got := Filter(source, models.FilterOptions{SortBy: models.SortByExperience, MinRating: 3})
	require.NotEqual(t, ids(got), original)

	// The source slice keeps its order and contents.
	assert.Equal(t, original, ids(source))
	assert.Len(t, source, 4)
}
