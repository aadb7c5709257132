package handlers

import (
	"net/http"

	"meditravel/middleware"
	"meditravel/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SignUpHandler registers a new account and signs it in.
func (h *HandlerBundle) SignUpHandler(c *gin.Context) {
	logger := getLogger(c)

	var req models.UserRegistrationData
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Invalid sign-up request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	result := h.Sessions.SignUp(c.Request.Context(), req)
	if !result.OK {
		c.JSON(http.StatusBadRequest, gin.H{"error": result.Message})
		return
	}
	c.JSON(http.StatusCreated, result)
}

// SignInHandler authenticates credentials and returns a session token.
func (h *HandlerBundle) SignInHandler(c *gin.Context) {
	logger := getLogger(c)

	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Invalid sign-in request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	result := h.Sessions.SignIn(c.Request.Context(), req.Email, req.Password)
	if !result.OK {
		c.JSON(http.StatusUnauthorized, gin.H{"error": result.Message})
		return
	}
	c.JSON(http.StatusOK, result)
}

// SignOutHandler revokes the caller's session.
func (h *HandlerBundle) SignOutHandler(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	result := h.Sessions.SignOut(c.Request.Context(), identity.UserID)
	if !result.OK {
		c.JSON(http.StatusInternalServerError, gin.H{"error": result.Message})
		return
	}
	c.JSON(http.StatusOK, result)
}

// ResetPasswordHandler starts a password reset. The response is identical
// whether or not the email has an account.
func (h *HandlerBundle) ResetPasswordHandler(c *gin.Context) {
	logger := getLogger(c)

	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Invalid reset request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	result := h.Sessions.ResetPassword(c.Request.Context(), req.Email)
	c.JSON(http.StatusOK, result)
}

// UpdatePasswordHandler changes the caller's password after verifying the
// current one. All existing sessions are revoked on success.
func (h *HandlerBundle) UpdatePasswordHandler(c *gin.Context) {
	logger := getLogger(c)

	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req struct {
		CurrentPassword string `json:"currentPassword" binding:"required"`
		NewPassword     string `json:"newPassword" binding:"required,min=8"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Invalid password update request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	result := h.Sessions.UpdatePassword(c.Request.Context(), identity.UserID, req.CurrentPassword, req.NewPassword)
	if !result.OK {
		c.JSON(http.StatusBadRequest, gin.H{"error": result.Message})
		return
	}
	c.JSON(http.StatusOK, result)
}

// MeHandler returns the caller's resolved identity.
func (h *HandlerBundle) MeHandler(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}
	c.JSON(http.StatusOK, identity)
}
