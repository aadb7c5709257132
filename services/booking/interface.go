package booking

import (
	bookingRepo "meditravel/database/repository/booking"
	"meditravel/models"

	"github.com/hibiken/asynq"
)

// BookingService manages treatment bookings. Payment flows reference bookings
// by ID; completed payments confirm them through the repository.
type BookingService interface {
	CreateBooking(userID string, input models.BookingInput) (*models.Booking, error)
	GetBooking(userID, bookingID string) (*models.Booking, error)
	ListBookings(userID string) ([]models.Booking, error)
	CancelBooking(userID, bookingID string) (*models.Booking, error)
}

// DefaultBookingService is the production implementation. Queue is optional;
// when set, a treatment reminder is scheduled at booking creation.
type DefaultBookingService struct {
	Repo  bookingRepo.BookingRepository
	Queue *asynq.Client
}
