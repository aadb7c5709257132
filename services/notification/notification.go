package notification

import (
	"context"
	"fmt"
	"time"

	"meditravel/models"
	"meditravel/utils"

	"firebase.google.com/go/v4/messaging"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// Notify records an in-app notification and attempts an FCM push. The push is
// best-effort: a missing token or a send failure only logs.
func (s *DefaultNotificationService) Notify(ctx context.Context, userID, notifType, title, message string, data map[string]string) error {
	n := &models.Notification{
		ID:        uuid.New().String(),
		UserID:    userID,
		Type:      notifType,
		Title:     title,
		Message:   message,
		Data:      data,
		Read:      false,
		CreatedAt: time.Now(),
	}
	if err := s.Notifications.Create(n); err != nil {
		return fmt.Errorf("failed to record notification: %w", err)
	}

	s.sendPush(ctx, userID, title, message, data)
	return nil
}

// ListNotifications returns a user's notifications, newest first.
func (s *DefaultNotificationService) ListNotifications(ctx context.Context, userID string, unreadOnly bool) ([]models.Notification, error) {
	return s.Notifications.GetByUser(userID, unreadOnly)
}

// MarkRead marks one of the user's notifications as read.
func (s *DefaultNotificationService) MarkRead(ctx context.Context, userID, notificationID string) error {
	return s.Notifications.MarkRead(userID, notificationID)
}

// PaymentCompleted notifies the booking's owner that their payment went
// through. It is invoked from the payment flow, so any failure here is logged
// rather than returned.
func (s *DefaultNotificationService) PaymentCompleted(ctx context.Context, receipt models.Receipt) {
	logger := utils.GetLogger()

	booking, err := s.Bookings.GetByID(receipt.BookingID)
	if err != nil || booking == nil {
		logger.Error("payment notification: booking lookup failed",
			zap.String("bookingID", receipt.BookingID), zap.Error(err))
		return
	}

	title := "Payment received"
	message := fmt.Sprintf("Your payment of %.2f %s for booking %s is confirmed.",
		receipt.Amount, receipt.Currency, receipt.BookingID)
	data := map[string]string{
		"type":      "payment_completed",
		"bookingId": receipt.BookingID,
		"reference": receipt.Reference,
		"method":    receipt.Method,
	}

	if err := s.Notify(ctx, booking.UserID, "payment_completed", title, message, data); err != nil {
		logger.Error("payment notification: failed to notify user",
			zap.String("userID", booking.UserID),
			zap.String("bookingID", receipt.BookingID),
			zap.Error(err))
	}
}

// sendPush delivers an FCM push if the user has a device token. Absence of a
// token or of an initialized FCM client is not an error.
func (s *DefaultNotificationService) sendPush(ctx context.Context, userID, title, body string, data map[string]string) {
	logger := utils.GetLogger()
	if utils.FCMClient == nil {
		return
	}

	u, err := s.Users.GetByIDWithProjection(userID, bson.M{"id": 1, "fcm_token": 1})
	if err != nil || u == nil {
		logger.Warn("push skipped: user lookup failed",
			zap.String("userID", userID), zap.Error(err))
		return
	}
	if u.FCMToken == "" {
		return
	}

	msg := &messaging.Message{
		Token: u.FCMToken,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: "high_priority",
				Sound:     "default",
			},
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{
				"apns-priority":  "10",
				"apns-push-type": "alert",
			},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Sound: "default",
				},
			},
		},
	}

	if _, err := utils.FCMClient.Send(ctx, msg); err != nil {
		logger.Warn("push delivery failed",
			zap.String("userID", userID), zap.Error(err))
	}
}
