package models

import "time"

// Wizard steps. The flow is strictly linear except that mobile-money skips
// currency selection (the operator sub-choice fixes the currency).
const (
	StepMethodSelection   = "method-selection"
	StepCurrencySelection = "currency-selection"
	StepPaymentDetail     = "payment-detail"
)

// Payment methods.
const (
	MethodCard         = "card"
	MethodMobileMoney  = "mobile-money"
	MethodBankTransfer = "bank-transfer"
	MethodCrypto       = "crypto"
	MethodInstallment  = "installment-plan"
)

// Crypto request states.
const (
	CryptoStatusPending   = "pending"
	CryptoStatusConfirmed = "confirmed"
	CryptoStatusExpired   = "expired"
)

// WizardSession is the in-flight state of one payment flow. It lives only for
// the duration of the wizard; it is never persisted past completion.
type WizardSession struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	BookingID string    `json:"bookingId"`
	Amount    float64   `json:"amount"`
	Currency  string    `json:"currency"`
	Step      string    `json:"step"`
	Method    string    `json:"method,omitempty"`
	// Provider names the mobile-money operator; set only for that method.
	Provider  string    `json:"provider,omitempty"`
	// Epoch increments on every step change. Submissions carry the epoch they
	// were issued under; completions with a stale epoch are discarded.
	Epoch     int64     `json:"epoch"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// MethodParams is the tagged union of per-method submission parameters.
// Dispatch over Kind() is exhaustive in the orchestrator.
type MethodParams interface {
	Kind() string
}

type CardParams struct {
	CardToken string `json:"cardToken" binding:"required"`
}

func (CardParams) Kind() string { return MethodCard }

type MobileMoneyParams struct {
	Provider    string `json:"provider" binding:"required"`
	PhoneNumber string `json:"phoneNumber" binding:"required"`
}

func (MobileMoneyParams) Kind() string { return MethodMobileMoney }

type BankTransferParams struct {
	AccountHolder string `json:"accountHolder" binding:"required"`
}

func (BankTransferParams) Kind() string { return MethodBankTransfer }

type CryptoParams struct {
	Symbol string `json:"symbol" binding:"required"`
}

func (CryptoParams) Kind() string { return MethodCrypto }

type InstallmentParams struct {
	PlanID      string  `json:"planId" binding:"required"`
	DownPayment float64 `json:"downPayment" binding:"required,gt=0"`
}

func (InstallmentParams) Kind() string { return MethodInstallment }

// Receipt is the unified completion payload every method handler produces.
// Reference is always set and unambiguously signals completion.
type Receipt struct {
	Reference string  `json:"reference"`
	Method    string  `json:"method"`
	BookingID string  `json:"bookingId"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	Status    string  `json:"status"`

	// Method-specific fields.
	ClientSecret  string           `json:"clientSecret,omitempty"`  // card
	WalletAddress string           `json:"walletAddress,omitempty"` // crypto
	CoinAmount    string           `json:"coinAmount,omitempty"`    // crypto
	ExpiresAt     *time.Time       `json:"expiresAt,omitempty"`     // crypto
	Schedule      []InstallmentDue `json:"schedule,omitempty"`      // installment-plan

	CreatedAt time.Time `json:"createdAt"`
}

// CryptoPaymentRequest is a generated on-chain payment request with a fixed
// client-visible expiry. Once expired it is terminal: confirmations are
// ignored and a new request must be generated.
type CryptoPaymentRequest struct {
	ID            string    `json:"id"`
	WizardID      string    `json:"wizardId"`
	BookingID     string    `json:"bookingId"`
	Symbol        string    `json:"symbol"`
	WalletAddress string    `json:"walletAddress"`
	CoinAmount    string    `json:"coinAmount"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
	ExpiresAt     time.Time `json:"expiresAt"`
}

// Expired reports whether the request's countdown has elapsed at t.
func (r CryptoPaymentRequest) Expired(t time.Time) bool {
	return !t.Before(r.ExpiresAt)
}

// InstallmentPlan describes a financing plan offered for a booking.
type InstallmentPlan struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Installments      int     `json:"installments"`
	InterestRate      float64 `json:"interestRate"`
	MinDownPaymentPct float64 `json:"minDownPaymentPct"`
}

// InstallmentQuote is the fully derived figure set for a plan and down
// payment. It is recomputed from scratch on every input change.
type InstallmentQuote struct {
	PlanID            string  `json:"planId"`
	Amount            float64 `json:"amount"`
	DownPayment       float64 `json:"downPayment"`
	TotalWithInterest float64 `json:"totalWithInterest"`
	Remaining         float64 `json:"remaining"`
	MonthlyPayment    float64 `json:"monthlyPayment"`
	Installments      int     `json:"installments"`
}

// InstallmentDue is one scheduled installment in a receipt.
type InstallmentDue struct {
	Sequence int       `json:"sequence"`
	Amount   float64   `json:"amount"`
	DueDate  time.Time `json:"dueDate"`
}
