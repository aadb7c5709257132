package notification

import (
	"context"

	bookingRepo "meditravel/database/repository/booking"
	notificationRepo "meditravel/database/repository/notification"
	userRepo "meditravel/database/repository/user"
	"meditravel/models"
)

// NotificationService records in-app notifications and mirrors them as FCM
// pushes when the user has a registered device token. Delivery failures are
// logged, never surfaced to the flow that triggered them.
type NotificationService interface {
	Notify(ctx context.Context, userID, notifType, title, message string, data map[string]string) error
	ListNotifications(ctx context.Context, userID string, unreadOnly bool) ([]models.Notification, error)
	MarkRead(ctx context.Context, userID, notificationID string) error

	// PaymentCompleted satisfies the payment completion callback.
	PaymentCompleted(ctx context.Context, receipt models.Receipt)
}

// DefaultNotificationService is the production implementation.
type DefaultNotificationService struct {
	Notifications notificationRepo.NotificationRepository
	Users         userRepo.UserRepository
	Bookings      bookingRepo.BookingRepository
}
