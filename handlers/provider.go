package handlers

import (
	"net/http"
	"os"
	"path/filepath"

	"meditravel/config"
	"meditravel/middleware"
	"meditravel/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ApplyProviderHandler submits a provider application for the caller.
func (h *HandlerBundle) ApplyProviderHandler(c *gin.Context) {
	logger := getLogger(c)

	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req models.ProviderApplicationInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	app, err := h.Providers.Apply(c.Request.Context(), identity.UserID, req)
	if err != nil {
		logger.Error("Provider application failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit application"})
		return
	}
	c.JSON(http.StatusCreated, app)
}

// UploadCredentialHandler accepts a credential document for a pending
// application. The file is encrypted before leaving the server and the
// resulting storage ID is attached to the application.
func (h *HandlerBundle) UploadCredentialHandler(c *gin.Context) {
	logger := getLogger(c)

	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	file, err := c.FormFile("document")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "document file is required"})
		return
	}

	tempPath := filepath.Join(os.TempDir(), uuid.New().String()+filepath.Ext(file.Filename))
	if err := c.SaveUploadedFile(file, tempPath); err != nil {
		logger.Error("Failed to stage uploaded credential", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store document"})
		return
	}
	defer os.Remove(tempPath)

	publicID, err := h.Storage.UploadCredentialFile(c.Request.Context(), tempPath, config.AppConfig.DocumentEncryptionKey)
	if err != nil {
		logger.Error("Credential upload failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store document"})
		return
	}

	app, err := h.Providers.AttachDocument(c.Request.Context(), identity.UserID, c.Param("applicationID"), publicID)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app)
}
