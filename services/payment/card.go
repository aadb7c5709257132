package payment

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"meditravel/models"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"go.uber.org/zap"
)

// CardHandler charges cards through Stripe PaymentIntents.
type CardHandler struct {
	Logger *zap.Logger
	// CreateIntent is swappable for tests; defaults to the Stripe API call.
	CreateIntent func(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
}

// NewCardHandler creates a card handler backed by the Stripe API.
func NewCardHandler(logger *zap.Logger) *CardHandler {
	return &CardHandler{
		Logger:       logger,
		CreateIntent: paymentintent.New,
	}
}

// Process creates and confirms a PaymentIntent for the wizard's amount. The
// receipt carries the intent ID as reference plus the client secret for any
// additional on-device authentication step.
func (h *CardHandler) Process(ctx context.Context, w *models.WizardSession, p models.CardParams) (*models.Receipt, error) {
	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(toMinorUnits(w.Amount)),
		Currency:      stripe.String(strings.ToLower(w.Currency)),
		PaymentMethod: stripe.String(p.CardToken),
		Confirm:       stripe.Bool(true),
		Metadata: map[string]string{
			"bookingId": w.BookingID,
		},
	}
	params.Context = ctx

	intent, err := h.CreateIntent(params)
	if err != nil {
		h.Logger.Warn("card payment failed", zap.String("bookingID", w.BookingID), zap.Error(err))
		return nil, fmt.Errorf("card payment was declined or could not be processed")
	}

	return &models.Receipt{
		Reference:    intent.ID,
		Method:       models.MethodCard,
		BookingID:    w.BookingID,
		Amount:       w.Amount,
		Currency:     w.Currency,
		Status:       string(intent.Status),
		ClientSecret: intent.ClientSecret,
		CreatedAt:    time.Now(),
	}, nil
}

// toMinorUnits converts a decimal amount to the smallest currency unit.
func toMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
