package handlers

import (
	"net/http"
	"time"

	"meditravel/middleware"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// ListApplicationsHandler lists provider applications, optionally filtered by
// status via ?status=pending.
func (h *HandlerBundle) ListApplicationsHandler(c *gin.Context) {
	apps, err := h.Providers.ListApplications(c.Request.Context(), c.Query("status"))
	if err != nil {
		getLogger(c).Error("Application listing failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list applications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"applications": apps})
}

// ApproveApplicationHandler approves a pending application, granting the
// applicant the healthcare_provider role.
func (h *HandlerBundle) ApproveApplicationHandler(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	app, err := h.Providers.Approve(c.Request.Context(), identity.UserID, c.Param("applicationID"))
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app)
}

// RejectApplicationHandler rejects a pending application with a reason.
func (h *HandlerBundle) RejectApplicationHandler(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req struct {
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	app, err := h.Providers.Reject(c.Request.Context(), identity.UserID, c.Param("applicationID"), req.Reason)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app)
}

// RevokeProviderHandler strips the provider role from a user account.
func (h *HandlerBundle) RevokeProviderHandler(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	if err := h.Providers.RevokeProvider(c.Request.Context(), identity.UserID, c.Param("userID")); err != nil {
		getLogger(c).Error("Provider revocation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to revoke provider role"})
		return
	}
	c.Status(http.StatusNoContent)
}

// CredentialURLHandler issues a short-lived signed URL for a stored credential
// document so a reviewer can inspect it.
func (h *HandlerBundle) CredentialURLHandler(c *gin.Context) {
	publicID := c.Query("publicId")
	if publicID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "publicId is required"})
		return
	}

	url, err := h.Storage.GetSecureDownloadURL(c.Request.Context(), "raw", publicID, 10*time.Minute)
	if err != nil {
		getLogger(c).Error("Failed to sign credential URL", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate download URL"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url, "expiresIn": "10m"})
}

// ListUsersHandler returns all accounts with sensitive fields projected out.
func (h *HandlerBundle) ListUsersHandler(c *gin.Context) {
	users, err := h.UserRepo.GetAllWithProjection(bson.M{
		"password_hash": 0,
		"token_hash":    0,
		"fcm_token":     0,
	})
	if err != nil {
		getLogger(c).Error("User listing failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list users"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}
