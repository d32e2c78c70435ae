package deposit

import (
	"context"

	"contractpay/internal/models"

	"github.com/shopspring/decimal"
)

// Service tops up client balances within the outstanding-obligations cap.
type Service interface {
	// Deposit credits amount to the depositor when it does not exceed a
	// quarter of the client's outstanding obligations. The cap is computed and
	// the credit applied in the same unit of work, with the client's profile
	// row locked first so deposits by one client serialize.
	Deposit(ctx context.Context, amount decimal.Decimal, depositor *models.Profile) (*models.Transfer, error)
	// MaxDeposit returns the current cap for clientID without changing
	// anything.
	MaxDeposit(ctx context.Context, clientID uint) (decimal.Decimal, error)
}
