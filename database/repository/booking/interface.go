package bookingRepo

import "meditravel/models"

// BookingRepository defines persistence operations for bookings.
type BookingRepository interface {
	Create(booking *models.Booking) error
	GetByID(id string) (*models.Booking, error)
	GetByUser(userID string) ([]models.Booking, error)
	UpdateStatus(id, status, paymentRef string) error
}
