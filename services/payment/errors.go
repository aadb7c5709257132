package payment

import "errors"

var (
	// ErrWizardNotFound marks a wizard ID with no live session.
	ErrWizardNotFound = errors.New("payment session not found or expired")
	// ErrInvalidTransition marks a step change the wizard does not permit.
	ErrInvalidTransition = errors.New("invalid wizard step transition")
	// ErrStaleSubmission marks a submission issued under an earlier step; its
	// result must not override newer wizard state.
	ErrStaleSubmission = errors.New("stale submission discarded: wizard step has changed")
	// ErrMethodMismatch marks params whose kind differs from the selected method.
	ErrMethodMismatch = errors.New("submission params do not match selected payment method")
	// ErrCryptoRequestExpired marks a crypto request past its countdown. The
	// state is terminal; a new request must be generated explicitly.
	ErrCryptoRequestExpired = errors.New("crypto payment request expired, generate a new one")
	// ErrUnknownPlan marks an installment plan ID not in the catalog.
	ErrUnknownPlan = errors.New("unknown installment plan")
)
