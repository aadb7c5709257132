package notificationRepo

import "meditravel/models"

// NotificationRepository defines persistence operations for in-app
// notifications.
type NotificationRepository interface {
	Create(n *models.Notification) error
	GetByUser(userID string, unreadOnly bool) ([]models.Notification, error)
	MarkRead(userID, notificationID string) error
}
