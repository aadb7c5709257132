package payment

import (
	"context"
	"testing"

	"meditravel/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInstallmentQuote(t *testing.T) {
	h := NewInstallmentHandler(zap.NewNop())

	t.Run("derives every figure from the inputs", func(t *testing.T) {
		quote, err := h.Quote(1000, "plan-6", 200)
		require.NoError(t, err)

		assert.Equal(t, 1080.0, quote.TotalWithInterest)
		assert.Equal(t, 880.0, quote.Remaining)
		assert.Equal(t, 146.67, quote.MonthlyPayment)
		assert.Equal(t, 6, quote.Installments)
	})

	t.Run("changing the plan recomputes the quote from scratch", func(t *testing.T) {
		six, err := h.Quote(1000, "plan-6", 200)
		require.NoError(t, err)
		twelve, err := h.Quote(1000, "plan-12", 200)
		require.NoError(t, err)

		assert.Equal(t, 1150.0, twelve.TotalWithInterest)
		assert.Equal(t, 79.17, twelve.MonthlyPayment)
		assert.NotEqual(t, six.MonthlyPayment, twelve.MonthlyPayment)
	})

	t.Run("enforces the plan's minimum down payment", func(t *testing.T) {
		// plan-3 requires at least 25% down.
		_, err := h.Quote(1000, "plan-3", 100)
		assert.Error(t, err)

		quote, err := h.Quote(1000, "plan-3", 250)
		require.NoError(t, err)
		assert.Equal(t, 1050.0, quote.TotalWithInterest)
	})

	t.Run("rejects a down payment above the amount", func(t *testing.T) {
		_, err := h.Quote(1000, "plan-6", 1001)
		assert.Error(t, err)
	})

	t.Run("rejects an unknown plan", func(t *testing.T) {
		_, err := h.Quote(1000, "plan-99", 200)
		assert.ErrorIs(t, err, ErrUnknownPlan)
	})
}

func TestInstallmentSchedule(t *testing.T) {
	h := NewInstallmentHandler(zap.NewNop())
	w := &models.WizardSession{ID: "wz", BookingID: "bk-1", Amount: 1000, Currency: "USD"}

	receipt, err := h.Process(context.Background(), w, models.InstallmentParams{PlanID: "plan-6", DownPayment: 200})
	require.NoError(t, err)

	require.Len(t, receipt.Schedule, 6)
	for i, due := range receipt.Schedule {
		assert.Equal(t, i+1, due.Sequence)
		assert.Equal(t, 146.67, due.Amount)
		if i > 0 {
			assert.True(t, due.DueDate.After(receipt.Schedule[i-1].DueDate))
		}
	}
	assert.Equal(t, models.MethodInstallment, receipt.Method)
}
