package payment

import (
	"context"
	"fmt"
	"time"

	"meditravel/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OpenWizard creates a fresh wizard session for a pending booking owned by
// the user. The session starts at method selection and lives only until the
// flow completes or is closed.
func (s *DefaultPaymentService) OpenWizard(ctx context.Context, userID, bookingID string) (*models.WizardSession, error) {
	booking, err := s.Bookings.GetByID(bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to load booking: %w", err)
	}
	if booking == nil || booking.UserID != userID {
		return nil, fmt.Errorf("booking %s not found", bookingID)
	}
	if booking.Status != models.BookingStatusPending {
		return nil, fmt.Errorf("booking %s is not awaiting payment", bookingID)
	}

	now := time.Now()
	w := &models.WizardSession{
		ID:        uuid.New().String(),
		UserID:    userID,
		BookingID: booking.ID,
		Amount:    booking.Amount,
		Currency:  booking.Currency,
		Step:      models.StepMethodSelection,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Store.SaveWizard(ctx, w, s.WizardTTL); err != nil {
		return nil, fmt.Errorf("failed to save payment session: %w", err)
	}
	return w, nil
}

// GetWizard returns the live wizard session.
func (s *DefaultPaymentService) GetWizard(ctx context.Context, wizardID string) (*models.WizardSession, error) {
	w, err := s.Store.GetWizard(ctx, wizardID)
	if err != nil {
		return nil, fmt.Errorf("failed to load payment session: %w", err)
	}
	if w == nil {
		return nil, ErrWizardNotFound
	}
	return w, nil
}

// CloseWizard destroys the wizard session and any pending crypto request.
func (s *DefaultPaymentService) CloseWizard(ctx context.Context, wizardID string) error {
	if err := s.Store.DeleteCryptoRequest(ctx, wizardID); err != nil {
		s.Logger.Warn("failed to delete crypto request on close", zap.Error(err))
	}
	return s.Store.DeleteWizard(ctx, wizardID)
}

// SelectMethod records the chosen payment method and advances the wizard.
// Card and bank-transfer pass through currency selection; mobile-money skips
// it (the operator sub-choice is required and fixes the rail); crypto and
// installment-plan manage currency internally and go straight to the detail
// step.
func (s *DefaultPaymentService) SelectMethod(ctx context.Context, wizardID, method, provider string) (*models.WizardSession, error) {
	w, err := s.GetWizard(ctx, wizardID)
	if err != nil {
		return nil, err
	}
	if w.Step != models.StepMethodSelection {
		return nil, ErrInvalidTransition
	}

	switch method {
	case models.MethodCard, models.MethodBankTransfer:
		w.Method = method
		w.Step = models.StepCurrencySelection
	case models.MethodMobileMoney:
		if !s.MobileMoney.KnownOperator(provider) {
			return nil, fmt.Errorf("unknown mobile money operator: %s", provider)
		}
		w.Method = method
		w.Provider = provider
		w.Step = models.StepPaymentDetail
	case models.MethodCrypto, models.MethodInstallment:
		w.Method = method
		w.Step = models.StepPaymentDetail
	default:
		return nil, fmt.Errorf("unsupported payment method: %s", method)
	}

	return s.advance(ctx, w)
}

// SelectCurrency records the currency and advances to the detail step. Only
// card and bank-transfer ever visit this step.
func (s *DefaultPaymentService) SelectCurrency(ctx context.Context, wizardID, currency string) (*models.WizardSession, error) {
	w, err := s.GetWizard(ctx, wizardID)
	if err != nil {
		return nil, err
	}
	if w.Step != models.StepCurrencySelection {
		return nil, ErrInvalidTransition
	}
	if len(currency) != 3 {
		return nil, fmt.Errorf("invalid currency code: %s", currency)
	}

	w.Currency = currency
	w.Step = models.StepPaymentDetail
	return s.advance(ctx, w)
}

// Back returns to the prior step only. From the detail step, card and
// bank-transfer return to currency selection; every other method returns to
// method selection (mobile-money skipped currency selection on the way in).
func (s *DefaultPaymentService) Back(ctx context.Context, wizardID string) (*models.WizardSession, error) {
	w, err := s.GetWizard(ctx, wizardID)
	if err != nil {
		return nil, err
	}

	switch w.Step {
	case models.StepPaymentDetail:
		if w.Method == models.MethodCrypto {
			// Leaving the detail step abandons any pending on-chain request.
			if err := s.Store.DeleteCryptoRequest(ctx, wizardID); err != nil {
				s.Logger.Warn("failed to delete crypto request on back", zap.Error(err))
			}
		}
		switch w.Method {
		case models.MethodCard, models.MethodBankTransfer:
			w.Step = models.StepCurrencySelection
		default:
			w.Step = models.StepMethodSelection
			w.Method = ""
			w.Provider = ""
		}
	case models.StepCurrencySelection:
		w.Step = models.StepMethodSelection
		w.Method = ""
	default:
		return nil, ErrInvalidTransition
	}

	return s.advance(ctx, w)
}

// advance bumps the epoch and persists the wizard. Every step change goes
// through here so in-flight submissions from the previous step turn stale.
func (s *DefaultPaymentService) advance(ctx context.Context, w *models.WizardSession) (*models.WizardSession, error) {
	w.Epoch++
	w.UpdatedAt = time.Now()
	if err := s.Store.SaveWizard(ctx, w, s.WizardTTL); err != nil {
		return nil, fmt.Errorf("failed to save payment session: %w", err)
	}
	return w, nil
}

// Submit dispatches the detail-step submission to the handler matching the
// selected method. Dispatch over the params union is exhaustive; a submission
// carrying a stale epoch is discarded without touching wizard state. Handler
// failure leaves the wizard step intact so the user can correct and retry.
func (s *DefaultPaymentService) Submit(ctx context.Context, wizardID string, epoch int64, params models.MethodParams) (*models.Receipt, error) {
	w, err := s.GetWizard(ctx, wizardID)
	if err != nil {
		return nil, err
	}
	if w.Step != models.StepPaymentDetail {
		return nil, ErrInvalidTransition
	}
	if epoch != w.Epoch {
		s.Logger.Info("discarding stale payment submission",
			zap.String("wizardID", wizardID),
			zap.Int64("submittedEpoch", epoch),
			zap.Int64("currentEpoch", w.Epoch))
		return nil, ErrStaleSubmission
	}
	if params.Kind() != w.Method {
		return nil, ErrMethodMismatch
	}

	var receipt *models.Receipt
	var cryptoRequest *models.CryptoPaymentRequest
	switch p := params.(type) {
	case models.CardParams:
		receipt, err = s.Card.Process(ctx, w, p)
	case models.MobileMoneyParams:
		receipt, err = s.MobileMoney.Process(ctx, w, p)
	case models.BankTransferParams:
		receipt, err = s.BankTransfer.Process(ctx, w, p)
	case models.CryptoParams:
		cryptoRequest, receipt, err = s.Crypto.Generate(ctx, w, p)
	case models.InstallmentParams:
		receipt, err = s.Installment.Process(ctx, w, p)
	default:
		return nil, fmt.Errorf("unsupported payment params: %T", params)
	}
	if err != nil {
		// Reported inline; the wizard keeps its position for retry.
		return nil, err
	}

	// The handler's remote work may have raced a back-navigation. Re-read the
	// wizard and discard the result if the step moved on: a late-arriving
	// result must not override a newer step's state.
	current, err := s.Store.GetWizard(ctx, wizardID)
	if err != nil {
		return nil, fmt.Errorf("failed to load payment session: %w", err)
	}
	if current == nil || current.Epoch != w.Epoch || current.Step != models.StepPaymentDetail {
		s.Logger.Info("discarding late payment result for a superseded step",
			zap.String("wizardID", wizardID),
			zap.Int64("submittedEpoch", epoch))
		return nil, ErrStaleSubmission
	}

	if cryptoRequest != nil {
		if serr := s.Store.SaveCryptoRequest(ctx, cryptoRequest, s.WizardTTL); serr != nil {
			return nil, fmt.Errorf("failed to save crypto request: %w", serr)
		}
	}

	// Crypto completes later, on confirmation of the generated request.
	if w.Method != models.MethodCrypto {
		if err := s.complete(ctx, w, receipt); err != nil {
			return nil, err
		}
	}
	return receipt, nil
}

// complete is the single shared success path: the booking is confirmed with
// an awaited, error-checked refresh, the wizard is destroyed, and the
// completion listener is invoked.
func (s *DefaultPaymentService) complete(ctx context.Context, w *models.WizardSession, receipt *models.Receipt) error {
	if err := s.Bookings.UpdateStatus(w.BookingID, models.BookingStatusConfirmed, receipt.Reference); err != nil {
		return fmt.Errorf("payment succeeded but booking update failed: %w", err)
	}

	// Refresh and verify rather than fire-and-forget.
	refreshed, err := s.Bookings.GetByID(w.BookingID)
	if err != nil {
		return fmt.Errorf("failed to refresh booking after payment: %w", err)
	}
	if refreshed == nil || refreshed.Status != models.BookingStatusConfirmed {
		return fmt.Errorf("booking %s did not reach confirmed state", w.BookingID)
	}

	if err := s.CloseWizard(ctx, w.ID); err != nil {
		s.Logger.Warn("failed to close wizard after completion", zap.Error(err))
	}

	if s.Listener != nil {
		s.Listener.PaymentCompleted(ctx, *receipt)
	}

	s.Logger.Info("payment completed",
		zap.String("bookingID", w.BookingID),
		zap.String("method", receipt.Method),
		zap.String("reference", receipt.Reference))
	return nil
}
