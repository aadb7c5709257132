package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CatalogHandler serves the translation catalog for a language. Unknown
// languages fall back to the default catalog rather than erroring.
func (h *HandlerBundle) CatalogHandler(c *gin.Context) {
	lang := c.Param("lang")
	c.JSON(http.StatusOK, gin.H{
		"lang":      lang,
		"available": h.Translator.Languages(),
		"catalog":   h.Translator.CatalogFor(lang),
	})
}
