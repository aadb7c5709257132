package payment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"meditravel/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BankTransferHandler issues a transfer reference the payer quotes when
// wiring the funds.
type BankTransferHandler struct {
	Logger *zap.Logger
}

func NewBankTransferHandler(logger *zap.Logger) *BankTransferHandler {
	return &BankTransferHandler{Logger: logger}
}

// Process registers the intended transfer and returns the reference code.
func (h *BankTransferHandler) Process(ctx context.Context, w *models.WizardSession, p models.BankTransferParams) (*models.Receipt, error) {
	if strings.TrimSpace(p.AccountHolder) == "" {
		return nil, fmt.Errorf("account holder name is required")
	}

	reference := "bt_" + uuid.New().String()
	h.Logger.Info("bank transfer registered",
		zap.String("bookingID", w.BookingID),
		zap.String("reference", reference))

	return &models.Receipt{
		Reference: reference,
		Method:    models.MethodBankTransfer,
		BookingID: w.BookingID,
		Amount:    w.Amount,
		Currency:  w.Currency,
		Status:    "succeeded",
		CreatedAt: time.Now(),
	}, nil
}
