package booking

import (
	"fmt"
	"time"

	"meditravel/models"
	"meditravel/services/tasks"
	"meditravel/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateBooking records a pending booking for the user.
func (s *DefaultBookingService) CreateBooking(userID string, input models.BookingInput) (*models.Booking, error) {
	now := time.Now()
	b := &models.Booking{
		ID:          uuid.New().String(),
		UserID:      userID,
		ProviderID:  input.ProviderID,
		TreatmentID: input.TreatmentID,
		Amount:      input.Amount,
		Currency:    input.Currency,
		Status:      models.BookingStatusPending,
		ScheduledAt: input.ScheduledAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Repo.Create(b); err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	// Refresh rather than trust the in-memory copy.
	created, err := s.Repo.GetByID(b.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to refresh booking after create: %w", err)
	}
	if created == nil {
		return nil, fmt.Errorf("booking %s missing after create", b.ID)
	}

	s.scheduleReminder(created)

	utils.GetLogger().Info("booking created",
		zap.String("bookingID", created.ID),
		zap.String("userID", userID))
	return created, nil
}

// scheduleReminder queues a push reminder 24 hours before the treatment. A
// queue failure only logs; the booking itself already succeeded.
func (s *DefaultBookingService) scheduleReminder(b *models.Booking) {
	if s.Queue == nil {
		return
	}
	fireAt := b.ScheduledAt.Add(-24 * time.Hour)
	if !fireAt.After(time.Now()) {
		return
	}

	task, opts, err := tasks.NewBookingReminderTask(tasks.BookingReminderPayload{
		BookingID:   b.ID,
		UserID:      b.UserID,
		ScheduledAt: b.ScheduledAt,
	}, fireAt)
	if err != nil {
		utils.GetLogger().Warn("failed to build booking reminder task",
			zap.String("bookingID", b.ID), zap.Error(err))
		return
	}
	if _, err := s.Queue.Enqueue(task, opts...); err != nil {
		utils.GetLogger().Warn("failed to enqueue booking reminder",
			zap.String("bookingID", b.ID), zap.Error(err))
	}
}

// GetBooking returns a booking the user owns.
func (s *DefaultBookingService) GetBooking(userID, bookingID string) (*models.Booking, error) {
	b, err := s.Repo.GetByID(bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch booking: %w", err)
	}
	if b == nil || b.UserID != userID {
		return nil, fmt.Errorf("booking %s not found", bookingID)
	}
	return b, nil
}

// ListBookings returns all of the user's bookings.
func (s *DefaultBookingService) ListBookings(userID string) ([]models.Booking, error) {
	return s.Repo.GetByUser(userID)
}

// CancelBooking cancels a pending booking and returns the refreshed record.
func (s *DefaultBookingService) CancelBooking(userID, bookingID string) (*models.Booking, error) {
	b, err := s.GetBooking(userID, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Status != models.BookingStatusPending {
		return nil, fmt.Errorf("only pending bookings can be cancelled")
	}

	if err := s.Repo.UpdateStatus(bookingID, models.BookingStatusCancelled, ""); err != nil {
		return nil, fmt.Errorf("failed to cancel booking: %w", err)
	}

	refreshed, err := s.Repo.GetByID(bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to refresh booking after cancel: %w", err)
	}
	return refreshed, nil
}
