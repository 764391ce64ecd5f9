package domain

import "errors"

var (
	// Balance errors
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrBalanceNotFound   = errors.New("balance not found")

	// Drawer errors
	ErrDrawerNotFound = errors.New("drawer not found")
	ErrDrawerInactive = errors.New("drawer is inactive")
	ErrNoActiveDrawer = errors.New("operator has no active drawer")
	ErrDrawerOccupied = errors.New("drawer is already assigned to another operator")

	// Settlement errors
	ErrSameCurrency        = errors.New("incoming and outgoing currencies must differ")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrInvalidRate         = errors.New("rate must be positive")
	ErrTransactionNotFound = errors.New("transaction not found")

	// Ledger errors
	ErrInvalidEntryType = errors.New("unknown ledger entry type")

	// Closing errors
	ErrClosingSubmitted   = errors.New("closing has already been submitted")
	ErrInvalidClosingStep = errors.New("closing step transition is not allowed")
	ErrClosingNotFound    = errors.New("closing report not found")

	// Customer errors
	ErrCustomerNotFound = errors.New("customer not found")

	// Access errors
	ErrUnauthorized     = errors.New("unauthorized")
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInsufficientRole = errors.New("insufficient role for this operation")

	// Storage errors. ErrConcurrencyConflict is transient and safe to retry
	// by the caller; everything above is permanent.
	ErrConcurrencyConflict = errors.New("concurrent update conflict")
)
