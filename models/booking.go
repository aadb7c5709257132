package models

import "time"

// Booking statuses.
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
)

// Booking ties a patient to a treatment at a provider. Payment flows reference
// bookings by ID; a completed payment confirms the booking.
type Booking struct {
	ID          string    `bson:"id" json:"id"`
	UserID      string    `bson:"user_id" json:"userId"`
	ProviderID  string    `bson:"provider_id" json:"providerId"`
	TreatmentID string    `bson:"treatment_id" json:"treatmentId"`
	Amount      float64   `bson:"amount" json:"amount"`
	Currency    string    `bson:"currency" json:"currency"`
	Status      string    `bson:"status" json:"status"`
	ScheduledAt time.Time `bson:"scheduled_at" json:"scheduledAt"`
	PaymentRef  string    `bson:"payment_ref,omitempty" json:"paymentRef,omitempty"`
	CreatedAt   time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updatedAt"`
}

// BookingInput is the payload for creating a booking.
type BookingInput struct {
	ProviderID  string    `json:"providerId" binding:"required"`
	TreatmentID string    `json:"treatmentId" binding:"required"`
	Amount      float64   `json:"amount" binding:"required,gt=0"`
	Currency    string    `json:"currency" binding:"required"`
	ScheduledAt time.Time `json:"scheduledAt" binding:"required"`
}
