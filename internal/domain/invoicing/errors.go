package invoicing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// OverpayNotAllowedError is returned when a paid amount would violate the
// 0 <= paid <= total invariant. It carries both values so the boundary layer
// can report them.
type OverpayNotAllowedError struct {
	Paid  decimal.Decimal
	Total decimal.Decimal
}

func (e *OverpayNotAllowedError) Error() string {
	return fmt.Sprintf("paid amount %s exceeds allowed range [0, %s]", e.Paid.StringFixed(2), e.Total.StringFixed(2))
}

// NewOverpayNotAllowedError creates an OverpayNotAllowedError.
func NewOverpayNotAllowedError(paid, total decimal.Decimal) *OverpayNotAllowedError {
	return &OverpayNotAllowedError{Paid: paid, Total: total}
}

// AllocationExhaustedError is returned when the sequence allocator runs out of
// retry attempts. It is an infrastructure failure, not a user error.
type AllocationExhaustedError struct {
	DateKey  string
	Attempts int
}

func (e *AllocationExhaustedError) Error() string {
	return fmt.Sprintf("invoice number allocation for %s exhausted after %d attempts", e.DateKey, e.Attempts)
}

// NewAllocationExhaustedError creates an AllocationExhaustedError.
func NewAllocationExhaustedError(dateKey string, attempts int) *AllocationExhaustedError {
	return &AllocationExhaustedError{DateKey: dateKey, Attempts: attempts}
}
