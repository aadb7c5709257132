package handlers

import (
	userRepoPkg "meditravel/database/repository/user"
	"meditravel/i18n"
	"meditravel/services/booking"
	"meditravel/services/matching"
	"meditravel/services/notification"
	"meditravel/services/payment"
	"meditravel/services/provider"
	"meditravel/services/session"
	"meditravel/services/storage"
)

// HandlerBundle groups all endpoint handlers with their injected services.
type HandlerBundle struct {
	Sessions      session.SessionService
	Payments      payment.PaymentService
	Bookings      booking.BookingService
	Matching      matching.MatchingService
	Providers     provider.ProviderService
	Notifications notification.NotificationService
	Storage       storage.StorageService
	Translator    *i18n.Translator
	UserRepo      userRepoPkg.UserRepository
}
