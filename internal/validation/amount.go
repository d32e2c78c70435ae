package validation

import (
	apperr "contractpay/internal/errors"

	"github.com/shopspring/decimal"
)

// Amount checks that a money amount is positive and has at most two decimal
// places.
func Amount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return apperr.ErrInvalidAmount
	}
	if amount.Exponent() < -MaxAmountScale && !amount.Equal(amount.Round(MaxAmountScale)) {
		return apperr.New(apperr.KindValidation, "amount must have at most %d decimal places", MaxAmountScale)
	}
	return nil
}
