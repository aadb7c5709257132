package payment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"meditravel/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Fiat-per-coin quotes used to size payment requests. A production deployment
// would refresh these from a rate feed.
var cryptoRates = map[string]float64{
	"BTC":  64000,
	"ETH":  3100,
	"USDT": 1,
	"USDC": 1,
}

// CryptoHandler generates on-chain payment requests with a fixed client-side
// expiry. The countdown is wall-clock local: once it elapses the request is
// terminal and confirmations are ignored, even if a confirming response
// arrives later.
type CryptoHandler struct {
	Logger     *zap.Logger
	RequestTTL time.Duration
	// Now is swappable for tests; defaults to time.Now.
	Now func() time.Time
}

func NewCryptoHandler(logger *zap.Logger, requestTTL time.Duration) *CryptoHandler {
	return &CryptoHandler{
		Logger:     logger,
		RequestTTL: requestTTL,
		Now:        time.Now,
	}
}

// Generate creates a fresh payment request for the wizard and the pending
// receipt describing it. The orchestrator owns persisting the request.
func (h *CryptoHandler) Generate(ctx context.Context, w *models.WizardSession, p models.CryptoParams) (*models.CryptoPaymentRequest, *models.Receipt, error) {
	symbol := strings.ToUpper(p.Symbol)
	rate, ok := cryptoRates[symbol]
	if !ok {
		return nil, nil, fmt.Errorf("unsupported crypto symbol: %s", p.Symbol)
	}

	coinAmount := decimal.NewFromFloat(w.Amount).
		Div(decimal.NewFromFloat(rate)).
		Round(8).
		String()

	now := h.Now()
	request := &models.CryptoPaymentRequest{
		ID:            uuid.New().String(),
		WizardID:      w.ID,
		BookingID:     w.BookingID,
		Symbol:        symbol,
		WalletAddress: "mt1" + strings.ReplaceAll(uuid.New().String(), "-", ""),
		CoinAmount:    coinAmount,
		Amount:        w.Amount,
		Currency:      w.Currency,
		Status:        models.CryptoStatusPending,
		CreatedAt:     now,
		ExpiresAt:     now.Add(h.RequestTTL),
	}

	h.Logger.Info("crypto payment request generated",
		zap.String("bookingID", w.BookingID),
		zap.String("symbol", symbol),
		zap.Time("expiresAt", request.ExpiresAt))

	expiresAt := request.ExpiresAt
	receipt := &models.Receipt{
		Reference:     request.ID,
		Method:        models.MethodCrypto,
		BookingID:     w.BookingID,
		Amount:        w.Amount,
		Currency:      w.Currency,
		Status:        models.CryptoStatusPending,
		WalletAddress: request.WalletAddress,
		CoinAmount:    request.CoinAmount,
		ExpiresAt:     &expiresAt,
		CreatedAt:     now,
	}
	return request, receipt, nil
}

// PollCrypto returns the current request state, transitioning it to expired
// when the countdown has elapsed.
func (s *DefaultPaymentService) PollCrypto(ctx context.Context, wizardID string) (*models.CryptoPaymentRequest, error) {
	request, err := s.Store.GetCryptoRequest(ctx, wizardID)
	if err != nil {
		return nil, fmt.Errorf("failed to load crypto request: %w", err)
	}
	if request == nil {
		return nil, ErrWizardNotFound
	}

	if request.Status == models.CryptoStatusPending && request.Expired(s.Crypto.Now()) {
		request.Status = models.CryptoStatusExpired
		if err := s.Store.SaveCryptoRequest(ctx, request, s.WizardTTL); err != nil {
			s.Logger.Warn("failed to persist crypto expiry", zap.Error(err))
		}
	}
	return request, nil
}

// ConfirmCrypto handles a confirmation for the wizard's payment request. A
// request past its countdown is moved to the expired state and the
// confirmation is ignored: no receipt, no completion. Only a pending,
// unexpired request completes the payment.
func (s *DefaultPaymentService) ConfirmCrypto(ctx context.Context, wizardID, txHash string) (*models.Receipt, error) {
	request, err := s.Store.GetCryptoRequest(ctx, wizardID)
	if err != nil {
		return nil, fmt.Errorf("failed to load crypto request: %w", err)
	}
	if request == nil {
		return nil, ErrWizardNotFound
	}

	if request.Status == models.CryptoStatusExpired {
		return nil, ErrCryptoRequestExpired
	}
	if request.Expired(s.Crypto.Now()) {
		request.Status = models.CryptoStatusExpired
		if err := s.Store.SaveCryptoRequest(ctx, request, s.WizardTTL); err != nil {
			s.Logger.Warn("failed to persist crypto expiry", zap.Error(err))
		}
		s.Logger.Info("ignoring confirmation for expired crypto request",
			zap.String("wizardID", wizardID))
		return nil, ErrCryptoRequestExpired
	}
	if request.Status == models.CryptoStatusConfirmed {
		return nil, fmt.Errorf("crypto request already confirmed")
	}

	w, err := s.GetWizard(ctx, wizardID)
	if err != nil {
		return nil, err
	}

	request.Status = models.CryptoStatusConfirmed
	if err := s.Store.SaveCryptoRequest(ctx, request, s.WizardTTL); err != nil {
		return nil, fmt.Errorf("failed to persist crypto confirmation: %w", err)
	}

	receipt := &models.Receipt{
		Reference:     request.ID,
		Method:        models.MethodCrypto,
		BookingID:     request.BookingID,
		Amount:        request.Amount,
		Currency:      request.Currency,
		Status:        models.CryptoStatusConfirmed,
		WalletAddress: request.WalletAddress,
		CoinAmount:    request.CoinAmount,
		CreatedAt:     s.Crypto.Now(),
	}
	if err := s.complete(ctx, w, receipt); err != nil {
		return nil, err
	}
	return receipt, nil
}

// RegenerateCrypto explicitly replaces an expired (or pending) request with a
// fresh one. This is the only way out of the expired state.
func (s *DefaultPaymentService) RegenerateCrypto(ctx context.Context, wizardID string) (*models.Receipt, error) {
	w, err := s.GetWizard(ctx, wizardID)
	if err != nil {
		return nil, err
	}
	if w.Method != models.MethodCrypto || w.Step != models.StepPaymentDetail {
		return nil, ErrInvalidTransition
	}

	previous, err := s.Store.GetCryptoRequest(ctx, wizardID)
	if err != nil {
		return nil, fmt.Errorf("failed to load crypto request: %w", err)
	}
	if previous == nil {
		return nil, ErrWizardNotFound
	}

	request, receipt, err := s.Crypto.Generate(ctx, w, models.CryptoParams{Symbol: previous.Symbol})
	if err != nil {
		return nil, err
	}
	if err := s.Store.SaveCryptoRequest(ctx, request, s.WizardTTL); err != nil {
		return nil, fmt.Errorf("failed to save crypto request: %w", err)
	}
	return receipt, nil
}
