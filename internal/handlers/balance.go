package handlers

import (
	"contractpay/internal/middleware"
	"contractpay/internal/services/deposit"
	"contractpay/internal/utils/response"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type BalanceHandler struct {
	deposits deposit.Service
}

func NewBalanceHandler(deposits deposit.Service) *BalanceHandler {
	return &BalanceHandler{deposits: deposits}
}

// Deposit tops up the authenticated client's balance.
func (h *BalanceHandler) Deposit(c *fiber.Ctx) error {
	var input struct {
		Amount decimal.Decimal `json:"amount"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	transfer, err := h.deposits.Deposit(c.UserContext(), input.Amount, middleware.Profile(c))
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "Deposit successful", transfer)
}

// DepositLimit reports how much the authenticated client may deposit now.
func (h *BalanceHandler) DepositLimit(c *fiber.Ctx) error {
	limit, err := h.deposits.MaxDeposit(c.UserContext(), middleware.Profile(c).ID)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "Deposit limit", fiber.Map{"limit": limit})
}
