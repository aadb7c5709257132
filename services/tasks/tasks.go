// Package tasks defines the asynq task types processed by the background
// worker, and constructors for enqueuing them.
package tasks

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// TypeCryptoSweep marks pending crypto payment requests as expired once
	// their countdown elapses. Scheduled periodically.
	TypeCryptoSweep = "payment:crypto-sweep"

	// TypeBookingReminder delivers an upcoming-treatment reminder to the
	// booking's owner. Enqueued at booking creation, processed near the
	// scheduled date.
	TypeBookingReminder = "booking:reminder"
)

// BookingReminderPayload carries what the reminder handler needs.
type BookingReminderPayload struct {
	BookingID   string    `json:"bookingId"`
	UserID      string    `json:"userId"`
	ScheduledAt time.Time `json:"scheduledAt"`
}

// NewBookingReminderTask builds a reminder task deferred until fireAt.
func NewBookingReminderTask(payload BookingReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeBookingReminder, b)
	opts := []asynq.Option{asynq.ProcessAt(fireAt)}
	return task, opts, nil
}

// NewCryptoSweepTask builds a sweep task; the scheduler enqueues it on a
// fixed cadence.
func NewCryptoSweepTask() *asynq.Task {
	return asynq.NewTask(TypeCryptoSweep, nil)
}
