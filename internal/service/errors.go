package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrForbidden is returned when a record exists but belongs to another
	// user. Surfaced distinctly from ErrNotFound.
	ErrForbidden = errors.New("access denied")
	// ErrRateLimited is returned when a user exhausted the daily
	// currency-change quota.
	ErrRateLimited = errors.New("daily currency change limit reached")
	// ErrUnknownCurrency is returned for currency codes the rate table does
	// not recognize.
	ErrUnknownCurrency = errors.New("unknown currency code")
	// ErrRateUnavailable is returned when no conversion rate exists for the
	// requested currency pair.
	ErrRateUnavailable = errors.New("exchange rate unavailable")
	// ErrNoData is returned by min/max year lookups when the user has no
	// transactions of the requested type. Distinct from zero.
	ErrNoData = errors.New("no data")
)

// ValidationError reports a request rejected before any mutation.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func NewValidationError(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

func IsValidationError(err error) bool {
	var validationError *ValidationError
	return errors.As(err, &validationError)
}
