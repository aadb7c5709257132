package handlers

import (
	"net/http"
	"time"

	"meditravel/middleware"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// ListNotificationsHandler returns the caller's notifications, newest first.
// ?unread=true limits to unread ones.
func (h *HandlerBundle) ListNotificationsHandler(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	unreadOnly := c.Query("unread") == "true"
	notifications, err := h.Notifications.ListNotifications(c.Request.Context(), identity.UserID, unreadOnly)
	if err != nil {
		getLogger(c).Error("Notification listing failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list notifications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

// MarkNotificationReadHandler marks one of the caller's notifications read.
func (h *HandlerBundle) MarkNotificationReadHandler(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	if err := h.Notifications.MarkRead(c.Request.Context(), identity.UserID, c.Param("notificationID")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// RegisterDeviceHandler stores the caller's FCM device token for pushes.
func (h *HandlerBundle) RegisterDeviceHandler(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req struct {
		FCMToken string `json:"fcmToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	update := bson.M{"$set": bson.M{"fcm_token": req.FCMToken, "updated_at": time.Now()}}
	if err := h.UserRepo.UpdateWithDocument(identity.UserID, update); err != nil {
		getLogger(c).Error("Device registration failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register device"})
		return
	}
	c.Status(http.StatusNoContent)
}
