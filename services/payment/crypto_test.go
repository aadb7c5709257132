package payment

import (
	"context"
	"testing"
	"time"

	"meditravel/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openCryptoWizard drives a wizard to a pending crypto request and returns a
// swappable clock.
func openCryptoWizard(t *testing.T, svc *DefaultPaymentService) (string, *time.Time) {
	t.Helper()
	ctx := context.Background()

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	svc.Crypto.Now = func() time.Time { return now }

	w, err := svc.OpenWizard(ctx, "user-1", "bk-1")
	require.NoError(t, err)
	w, err = svc.SelectMethod(ctx, w.ID, models.MethodCrypto, "")
	require.NoError(t, err)
	_, err = svc.Submit(ctx, w.ID, w.Epoch, models.CryptoParams{Symbol: "BTC"})
	require.NoError(t, err)

	return w.ID, &now
}

func TestCryptoExpiry(t *testing.T) {
	ctx := context.Background()

	t.Run("poll keeps a request pending inside the countdown", func(t *testing.T) {
		svc, _, _, _ := newTestService(t)
		wizardID, now := openCryptoWizard(t, svc)

		*now = now.Add(14 * time.Minute)
		req, err := svc.PollCrypto(ctx, wizardID)
		require.NoError(t, err)
		assert.Equal(t, models.CryptoStatusPending, req.Status)
	})

	t.Run("poll expires a request past the countdown", func(t *testing.T) {
		svc, store, _, _ := newTestService(t)
		wizardID, now := openCryptoWizard(t, svc)

		*now = now.Add(15 * time.Minute)
		req, err := svc.PollCrypto(ctx, wizardID)
		require.NoError(t, err)
		assert.Equal(t, models.CryptoStatusExpired, req.Status)

		// The expiry is persisted, not just reported.
		stored, err := store.GetCryptoRequest(ctx, wizardID)
		require.NoError(t, err)
		assert.Equal(t, models.CryptoStatusExpired, stored.Status)
	})

	t.Run("late confirmation is ignored and completes nothing", func(t *testing.T) {
		svc, _, bookings, listener := newTestService(t)
		wizardID, now := openCryptoWizard(t, svc)

		*now = now.Add(16 * time.Minute)
		_, err := svc.ConfirmCrypto(ctx, wizardID, "0xabc")
		assert.ErrorIs(t, err, ErrCryptoRequestExpired)

		b, _ := bookings.GetByID("bk-1")
		assert.Equal(t, models.BookingStatusPending, b.Status)
		assert.Zero(t, listener.count())
	})

	t.Run("expired state is terminal for repeated confirmations", func(t *testing.T) {
		svc, _, _, _ := newTestService(t)
		wizardID, now := openCryptoWizard(t, svc)

		*now = now.Add(20 * time.Minute)
		_, err := svc.PollCrypto(ctx, wizardID)
		require.NoError(t, err)

		// Even after the clock is irrelevant, the stored state stays expired.
		_, err = svc.ConfirmCrypto(ctx, wizardID, "0xabc")
		assert.ErrorIs(t, err, ErrCryptoRequestExpired)
		_, err = svc.ConfirmCrypto(ctx, wizardID, "0xdef")
		assert.ErrorIs(t, err, ErrCryptoRequestExpired)
	})
}

func TestCryptoConfirmation(t *testing.T) {
	ctx := context.Background()

	t.Run("timely confirmation completes the payment", func(t *testing.T) {
		svc, _, bookings, listener := newTestService(t)
		wizardID, now := openCryptoWizard(t, svc)

		*now = now.Add(5 * time.Minute)
		receipt, err := svc.ConfirmCrypto(ctx, wizardID, "0xabc")
		require.NoError(t, err)
		assert.Equal(t, models.CryptoStatusConfirmed, receipt.Status)

		b, _ := bookings.GetByID("bk-1")
		assert.Equal(t, models.BookingStatusConfirmed, b.Status)
		assert.Equal(t, 1, listener.count())
	})

	t.Run("regenerate issues a fresh request after expiry", func(t *testing.T) {
		svc, store, _, _ := newTestService(t)
		wizardID, now := openCryptoWizard(t, svc)

		first, err := store.GetCryptoRequest(ctx, wizardID)
		require.NoError(t, err)

		*now = now.Add(30 * time.Minute)
		_, err = svc.PollCrypto(ctx, wizardID)
		require.NoError(t, err)

		receipt, err := svc.RegenerateCrypto(ctx, wizardID)
		require.NoError(t, err)
		assert.Equal(t, models.CryptoStatusPending, receipt.Status)
		assert.NotEqual(t, first.ID, receipt.Reference)

		fresh, err := store.GetCryptoRequest(ctx, wizardID)
		require.NoError(t, err)
		assert.Equal(t, models.CryptoStatusPending, fresh.Status)
		assert.True(t, fresh.ExpiresAt.After(*now))
	})
}
