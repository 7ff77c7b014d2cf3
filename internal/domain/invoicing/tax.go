package invoicing

import (
	"github.com/invo/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// ComputeTax computes the tax amount and total for a base amount at the given
// percentage rate. Both results are rounded half away from zero to 2 decimal
// places. The function is pure; recomputing with the same inputs always
// yields the same outputs.
func ComputeTax(base, ratePercent decimal.Decimal) (taxAmount, totalAmount decimal.Decimal, err error) {
	if base.IsNegative() {
		return decimal.Zero, decimal.Zero, shared.NewDomainError("INVALID_AMOUNT", "Base amount cannot be negative")
	}
	if err := ValidateTaxRate(ratePercent); err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	taxAmount = base.Mul(ratePercent).Div(oneHundred).Round(2)
	totalAmount = base.Add(taxAmount).Round(2)
	return taxAmount, totalAmount, nil
}

// ValidateTaxRate checks that a percentage rate lies within [0, 100].
func ValidateTaxRate(ratePercent decimal.Decimal) error {
	if ratePercent.IsNegative() || ratePercent.GreaterThan(oneHundred) {
		return shared.NewDomainError("INVALID_TAX_RATE", "Tax rate must be between 0 and 100")
	}
	return nil
}
