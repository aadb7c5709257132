package payment

import (
	"context"
	"time"

	bookingRepo "meditravel/database/repository/booking"
	"meditravel/models"

	"go.uber.org/zap"
)

// PaymentService drives the payment wizard: method selection, optional
// currency selection, then delegation to one of five method handlers, with a
// single unified completion path regardless of method.
type PaymentService interface {
	OpenWizard(ctx context.Context, userID, bookingID string) (*models.WizardSession, error)
	SelectMethod(ctx context.Context, wizardID, method, provider string) (*models.WizardSession, error)
	SelectCurrency(ctx context.Context, wizardID, currency string) (*models.WizardSession, error)
	Back(ctx context.Context, wizardID string) (*models.WizardSession, error)
	GetWizard(ctx context.Context, wizardID string) (*models.WizardSession, error)
	CloseWizard(ctx context.Context, wizardID string) error

	// Submit dispatches to the handler matching the wizard's method. The epoch
	// must match the wizard's current epoch; a submission issued under an
	// earlier step is discarded. On handler failure the wizard step is
	// preserved so the user can retry in place.
	Submit(ctx context.Context, wizardID string, epoch int64, params models.MethodParams) (*models.Receipt, error)

	// Installment-plan support: plans catalog and derived-figure quotes.
	ListPlans() []models.InstallmentPlan
	QuoteInstallment(amount float64, planID string, downPayment float64) (*models.InstallmentQuote, error)

	// Crypto support: confirmation polling and explicit regeneration.
	PollCrypto(ctx context.Context, wizardID string) (*models.CryptoPaymentRequest, error)
	ConfirmCrypto(ctx context.Context, wizardID, txHash string) (*models.Receipt, error)
	RegenerateCrypto(ctx context.Context, wizardID string) (*models.Receipt, error)
}

// CompletionListener receives the unified success callback once a payment
// completes, whichever method produced it.
type CompletionListener interface {
	PaymentCompleted(ctx context.Context, receipt models.Receipt)
}

// DefaultPaymentService is the production implementation.
type DefaultPaymentService struct {
	Store     WizardStore
	Bookings  bookingRepo.BookingRepository
	Listener  CompletionListener
	WizardTTL time.Duration

	Card         *CardHandler
	MobileMoney  *MobileMoneyHandler
	BankTransfer *BankTransferHandler
	Crypto       *CryptoHandler
	Installment  *InstallmentHandler

	Logger *zap.Logger
}

// WizardStore persists in-flight wizard sessions and crypto payment requests.
// Both live only for the duration of the flow.
type WizardStore interface {
	SaveWizard(ctx context.Context, w *models.WizardSession, ttl time.Duration) error
	// GetWizard returns nil when no session exists.
	GetWizard(ctx context.Context, id string) (*models.WizardSession, error)
	DeleteWizard(ctx context.Context, id string) error

	SaveCryptoRequest(ctx context.Context, r *models.CryptoPaymentRequest, ttl time.Duration) error
	// GetCryptoRequest returns nil when no request exists for the wizard.
	GetCryptoRequest(ctx context.Context, wizardID string) (*models.CryptoPaymentRequest, error)
	DeleteCryptoRequest(ctx context.Context, wizardID string) error
}
