package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidDrawerName = errors.New("invalid drawer name")
	ErrInvalidCurrency   = errors.New("invalid currency code")
	ErrAmountTooLarge    = errors.New("amount exceeds maximum allowed")
	ErrReasonRequired    = errors.New("adjustment reason is required")
	ErrInvalidPhone      = errors.New("invalid phone number")
)

// Validation constants
const (
	MaxDrawerNameLength = 255
	MaxAmount           = "1000000000000" // 1 trillion
	MinReasonLength     = 5
)

var (
	currencyRegex = regexp.MustCompile(`^[A-Z]{3}$`)
	phoneRegex    = regexp.MustCompile(`^\+?[0-9]{7,15}$`)
)

// ValidateDrawerName validates a drawer name.
func ValidateDrawerName(name string) error {
	name = strings.TrimSpace(name)

	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidDrawerName)
	}

	if len(name) > MaxDrawerNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidDrawerName, MaxDrawerNameLength)
	}

	return nil
}

// ValidateCurrency validates a three-letter currency code. The desk trades
// whatever currencies the administrator configures, so only the ISO 4217
// shape is checked, not membership in a fixed list.
func ValidateCurrency(currency string) error {
	if !currencyRegex.MatchString(currency) {
		return fmt.Errorf("%w: %q is not a three-letter code", ErrInvalidCurrency, currency)
	}

	return nil
}

// ValidateAmount validates a cash movement amount.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	maxAmount, _ := decimal.NewFromString(MaxAmount)
	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxAmount)
	}

	return nil
}

// ValidateAdjustmentReason enforces the justification required for setting
// an absolute balance.
func ValidateAdjustmentReason(reason string) error {
	reason = strings.TrimSpace(reason)

	if len(reason) < MinReasonLength {
		return fmt.Errorf("%w: at least %d characters", ErrReasonRequired, MinReasonLength)
	}

	return nil
}

// ValidatePhone validates a customer phone number.
func ValidatePhone(phone string) error {
	if !phoneRegex.MatchString(strings.TrimSpace(phone)) {
		return ErrInvalidPhone
	}

	return nil
}

// ValidatePagination clamps pagination parameters to sane bounds.
func ValidatePagination(limit, offset int) (int, int) {
	const maxPageSize = 1000
	const defaultPageSize = 50

	if limit <= 0 {
		limit = defaultPageSize
	}

	if limit > maxPageSize {
		limit = maxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
