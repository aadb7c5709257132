package handlers

import (
	"net/http"

	"meditravel/models"
	"meditravel/services/matching"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MatchHandler scores candidates for the query and applies the caller's
// filter options to the result. The unfiltered match list is never mutated by
// filtering; filters derive a new view on every request.
func (h *HandlerBundle) MatchHandler(c *gin.Context) {
	logger := getLogger(c)

	var query models.MatchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query: " + err.Error()})
		return
	}
	if query.Specialty == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "specialty is required"})
		return
	}

	var opts models.FilterOptions
	if err := c.ShouldBindQuery(&opts); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid filter options: " + err.Error()})
		return
	}

	candidates, err := h.Matching.MatchCandidates(query)
	if err != nil {
		logger.Error("Candidate matching failed", zap.Error(err))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	filtered := matching.Filter(candidates, opts)
	c.JSON(http.StatusOK, gin.H{
		"total":      len(candidates),
		"matched":    len(filtered),
		"candidates": filtered,
	})
}

// CandidateHandler returns one candidate profile.
func (h *HandlerBundle) CandidateHandler(c *gin.Context) {
	candidate, err := h.Matching.GetCandidate(c.Param("candidateID"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, candidate)
}
