package payment

import (
	"context"
	"fmt"
	"time"

	"meditravel/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ListPlans exposes the financing plan catalog through the service.
func (s *DefaultPaymentService) ListPlans() []models.InstallmentPlan {
	return s.Installment.Plans()
}

// QuoteInstallment recomputes the derived figures for a plan and down payment.
func (s *DefaultPaymentService) QuoteInstallment(amount float64, planID string, downPayment float64) (*models.InstallmentQuote, error) {
	return s.Installment.Quote(amount, planID, downPayment)
}

// Financing plans offered per booking. Rates and minimum down payments are
// plan terms, not computed.
var installmentPlans = []models.InstallmentPlan{
	{ID: "plan-3", Name: "3-month plan", Installments: 3, InterestRate: 0.05, MinDownPaymentPct: 0.25},
	{ID: "plan-6", Name: "6-month plan", Installments: 6, InterestRate: 0.08, MinDownPaymentPct: 0.15},
	{ID: "plan-12", Name: "12-month plan", Installments: 12, InterestRate: 0.15, MinDownPaymentPct: 0.10},
}

// InstallmentHandler quotes and opens financing plans. All money math goes
// through decimals; every quote is derived from scratch so no figure can go
// stale when the plan or down payment changes.
type InstallmentHandler struct {
	Logger *zap.Logger
}

func NewInstallmentHandler(logger *zap.Logger) *InstallmentHandler {
	return &InstallmentHandler{Logger: logger}
}

// Plans returns the financing plan catalog.
func (h *InstallmentHandler) Plans() []models.InstallmentPlan {
	return append([]models.InstallmentPlan(nil), installmentPlans...)
}

func (h *InstallmentHandler) planByID(planID string) (*models.InstallmentPlan, bool) {
	for i := range installmentPlans {
		if installmentPlans[i].ID == planID {
			return &installmentPlans[i], true
		}
	}
	return nil, false
}

// Quote computes the full derived figure set for an amount, plan, and down
// payment: totalWithInterest = amount x (1 + rate), and monthly =
// (totalWithInterest - downPayment) / installments. The down payment must be
// at least the plan minimum percentage of the base amount and at most the
// base amount.
func (h *InstallmentHandler) Quote(amount float64, planID string, downPayment float64) (*models.InstallmentQuote, error) {
	plan, ok := h.planByID(planID)
	if !ok {
		return nil, ErrUnknownPlan
	}
	if amount <= 0 {
		return nil, fmt.Errorf("invalid amount")
	}

	base := decimal.NewFromFloat(amount)
	down := decimal.NewFromFloat(downPayment)
	minDown := base.Mul(decimal.NewFromFloat(plan.MinDownPaymentPct))

	if down.LessThan(minDown) {
		return nil, fmt.Errorf("down payment must be at least %s (%.0f%% of the amount)",
			minDown.StringFixed(2), plan.MinDownPaymentPct*100)
	}
	if down.GreaterThan(base) {
		return nil, fmt.Errorf("down payment cannot exceed the amount")
	}

	total := base.Mul(decimal.NewFromFloat(1).Add(decimal.NewFromFloat(plan.InterestRate)))
	remaining := total.Sub(down)
	monthly := remaining.Div(decimal.NewFromInt(int64(plan.Installments))).Round(2)

	totalF, _ := total.Round(2).Float64()
	remainingF, _ := remaining.Round(2).Float64()
	monthlyF, _ := monthly.Float64()
	downF, _ := down.Round(2).Float64()

	return &models.InstallmentQuote{
		PlanID:            plan.ID,
		Amount:            amount,
		DownPayment:       downF,
		TotalWithInterest: totalF,
		Remaining:         remainingF,
		MonthlyPayment:    monthlyF,
		Installments:      plan.Installments,
	}, nil
}

// Process opens the financing plan: the quote is recomputed from the
// submitted inputs and the receipt carries the resulting schedule.
func (h *InstallmentHandler) Process(ctx context.Context, w *models.WizardSession, p models.InstallmentParams) (*models.Receipt, error) {
	quote, err := h.Quote(w.Amount, p.PlanID, p.DownPayment)
	if err != nil {
		return nil, err
	}

	schedule := make([]models.InstallmentDue, quote.Installments)
	firstDue := time.Now().AddDate(0, 1, 0)
	for i := 0; i < quote.Installments; i++ {
		schedule[i] = models.InstallmentDue{
			Sequence: i + 1,
			Amount:   quote.MonthlyPayment,
			DueDate:  firstDue.AddDate(0, i, 0),
		}
	}

	reference := "ip_" + uuid.New().String()
	h.Logger.Info("installment plan opened",
		zap.String("bookingID", w.BookingID),
		zap.String("plan", quote.PlanID),
		zap.String("reference", reference))

	return &models.Receipt{
		Reference: reference,
		Method:    models.MethodInstallment,
		BookingID: w.BookingID,
		Amount:    w.Amount,
		Currency:  w.Currency,
		Status:    "succeeded",
		Schedule:  schedule,
		CreatedAt: time.Now(),
	}, nil
}
