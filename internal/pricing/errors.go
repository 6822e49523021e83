package pricing

import (
	"errors"
	"fmt"
)

var (
	ErrRateNotFound                  = errors.New("currency conversion rate not found")
	ErrPartnerNotFound               = errors.New("removal partner not found")
	ErrCurrencyConversionUnavailable = errors.New("currency conversion unavailable")
	ErrInvalidFeePercentage          = errors.New("fee percentage must be between 0 and 100 exclusive")
	ErrAmountOverflow                = errors.New("amount too large")
)

// ValidationError identifies the request field that caused a basket to be
// rejected. Index is the basket position for item-level fields and -1
// otherwise.
type ValidationError struct {
	Index   int
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func fieldError(field, message string) *ValidationError {
	return &ValidationError{Index: -1, Field: field, Message: message}
}

func itemError(index int, field, message string, err error) *ValidationError {
	return &ValidationError{
		Index:   index,
		Field:   fmt.Sprintf("items.%d.%s", index, field),
		Message: message,
		Err:     err,
	}
}
