package handlers

import (
	"errors"
	"net/http"

	"meditravel/middleware"
	"meditravel/models"
	"meditravel/services/payment"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// paymentStatus maps orchestrator errors onto HTTP codes. Unknown errors stay
// a 500 with a generic message; their detail goes to the log only.
func paymentStatus(err error) (int, string) {
	switch {
	case errors.Is(err, payment.ErrWizardNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, payment.ErrInvalidTransition):
		return http.StatusConflict, err.Error()
	case errors.Is(err, payment.ErrStaleSubmission):
		return http.StatusConflict, err.Error()
	case errors.Is(err, payment.ErrMethodMismatch):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, payment.ErrCryptoRequestExpired):
		return http.StatusGone, err.Error()
	case errors.Is(err, payment.ErrUnknownPlan):
		return http.StatusBadRequest, err.Error()
	default:
		return http.StatusInternalServerError, "payment processing failed"
	}
}

// OpenWizardHandler opens a payment wizard for one of the caller's bookings.
func (h *HandlerBundle) OpenWizardHandler(c *gin.Context) {
	logger := getLogger(c)

	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req struct {
		BookingID string `json:"bookingId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	wizard, err := h.Payments.OpenWizard(c.Request.Context(), identity.UserID, req.BookingID)
	if err != nil {
		logger.Error("Failed to open payment wizard", zap.Error(err))
		status, msg := paymentStatus(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}
	c.JSON(http.StatusCreated, wizard)
}

// GetWizardHandler returns the current wizard state.
func (h *HandlerBundle) GetWizardHandler(c *gin.Context) {
	wizard, err := h.Payments.GetWizard(c.Request.Context(), c.Param("wizardID"))
	if err != nil {
		status, msg := paymentStatus(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}
	c.JSON(http.StatusOK, wizard)
}

// SelectMethodHandler records the chosen payment method and advances the
// wizard. Mobile money also carries the operator.
func (h *HandlerBundle) SelectMethodHandler(c *gin.Context) {
	logger := getLogger(c)

	var req struct {
		Method   string `json:"method" binding:"required"`
		Provider string `json:"provider"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	wizard, err := h.Payments.SelectMethod(c.Request.Context(), c.Param("wizardID"), req.Method, req.Provider)
	if err != nil {
		logger.Error("Method selection failed", zap.Error(err))
		status, msg := paymentStatus(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}
	c.JSON(http.StatusOK, wizard)
}

// SelectCurrencyHandler records the chosen currency and advances the wizard.
func (h *HandlerBundle) SelectCurrencyHandler(c *gin.Context) {
	var req struct {
		Currency string `json:"currency" binding:"required,len=3"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	wizard, err := h.Payments.SelectCurrency(c.Request.Context(), c.Param("wizardID"), req.Currency)
	if err != nil {
		status, msg := paymentStatus(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}
	c.JSON(http.StatusOK, wizard)
}

// BackHandler steps the wizard back one step, clearing what the step ahead
// had recorded.
func (h *HandlerBundle) BackHandler(c *gin.Context) {
	wizard, err := h.Payments.Back(c.Request.Context(), c.Param("wizardID"))
	if err != nil {
		status, msg := paymentStatus(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}
	c.JSON(http.StatusOK, wizard)
}

// CloseWizardHandler abandons a wizard.
func (h *HandlerBundle) CloseWizardHandler(c *gin.Context) {
	if err := h.Payments.CloseWizard(c.Request.Context(), c.Param("wizardID")); err != nil {
		status, msg := paymentStatus(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}
	c.Status(http.StatusNoContent)
}

// SubmitHandler dispatches a payment-detail submission. The params payload is
// bound by the wizard's selected method; the epoch guards against submissions
// issued under an earlier step.
func (h *HandlerBundle) SubmitHandler(c *gin.Context) {
	logger := getLogger(c)
	wizardID := c.Param("wizardID")

	wizard, err := h.Payments.GetWizard(c.Request.Context(), wizardID)
	if err != nil {
		status, msg := paymentStatus(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	var req struct {
		Epoch  int64                  `json:"epoch"`
		Params map[string]interface{} `json:"params" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	params, err := bindMethodParams(wizard.Method, req.Params)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	receipt, err := h.Payments.Submit(c.Request.Context(), wizardID, req.Epoch, params)
	if err != nil {
		logger.Error("Payment submission failed",
			zap.String("wizardID", wizardID), zap.Error(err))
		status, msg := paymentStatus(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}
	c.JSON(http.StatusOK, receipt)
}

// ListPlansHandler returns the installment plan catalog.
func (h *HandlerBundle) ListPlansHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"plans": h.Payments.ListPlans()})
}

// QuoteInstallmentHandler recomputes the derived installment figures.
func (h *HandlerBundle) QuoteInstallmentHandler(c *gin.Context) {
	var req struct {
		Amount      float64 `json:"amount" binding:"required,gt=0"`
		PlanID      string  `json:"planId" binding:"required"`
		DownPayment float64 `json:"downPayment" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	quote, err := h.Payments.QuoteInstallment(req.Amount, req.PlanID, req.DownPayment)
	if err != nil {
		status, msg := paymentStatus(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}
	c.JSON(http.StatusOK, quote)
}

// PollCryptoHandler returns the live crypto request state, expiring it if its
// countdown has elapsed.
func (h *HandlerBundle) PollCryptoHandler(c *gin.Context) {
	req, err := h.Payments.PollCrypto(c.Request.Context(), c.Param("wizardID"))
	if err != nil {
		status, msg := paymentStatus(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}
	c.JSON(http.StatusOK, req)
}

// ConfirmCryptoHandler reports an on-chain confirmation. Confirmations for an
// expired request are rejected; the expiry is terminal.
func (h *HandlerBundle) ConfirmCryptoHandler(c *gin.Context) {
	var req struct {
		TxHash string `json:"txHash" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	receipt, err := h.Payments.ConfirmCrypto(c.Request.Context(), c.Param("wizardID"), req.TxHash)
	if err != nil {
		status, msg := paymentStatus(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}
	c.JSON(http.StatusOK, receipt)
}

// RegenerateCryptoHandler issues a fresh crypto payment request after expiry.
func (h *HandlerBundle) RegenerateCryptoHandler(c *gin.Context) {
	receipt, err := h.Payments.RegenerateCrypto(c.Request.Context(), c.Param("wizardID"))
	if err != nil {
		status, msg := paymentStatus(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}
	c.JSON(http.StatusOK, receipt)
}

// bindMethodParams decodes the free-form params object into the typed params
// for the wizard's selected method.
func bindMethodParams(method string, raw map[string]interface{}) (models.MethodParams, error) {
	str := func(key string) string {
		v, _ := raw[key].(string)
		return v
	}
	num := func(key string) float64 {
		v, _ := raw[key].(float64)
		return v
	}

	switch method {
	case models.MethodCard:
		p := models.CardParams{CardToken: str("cardToken")}
		if p.CardToken == "" {
			return nil, errors.New("cardToken is required")
		}
		return p, nil
	case models.MethodMobileMoney:
		p := models.MobileMoneyParams{Provider: str("provider"), PhoneNumber: str("phoneNumber")}
		if p.Provider == "" || p.PhoneNumber == "" {
			return nil, errors.New("provider and phoneNumber are required")
		}
		return p, nil
	case models.MethodBankTransfer:
		p := models.BankTransferParams{AccountHolder: str("accountHolder")}
		if p.AccountHolder == "" {
			return nil, errors.New("accountHolder is required")
		}
		return p, nil
	case models.MethodCrypto:
		p := models.CryptoParams{Symbol: str("symbol")}
		if p.Symbol == "" {
			return nil, errors.New("symbol is required")
		}
		return p, nil
	case models.MethodInstallment:
		p := models.InstallmentParams{PlanID: str("planId"), DownPayment: num("downPayment")}
		if p.PlanID == "" || p.DownPayment <= 0 {
			return nil, errors.New("planId and a positive downPayment are required")
		}
		return p, nil
	default:
		return nil, errors.New("no payment method selected")
	}
}
