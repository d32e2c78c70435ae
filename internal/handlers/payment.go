package handlers

import (
	"contractpay/internal/middleware"
	"contractpay/internal/services/payment"
	"contractpay/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type PaymentHandler struct {
	payments payment.Service
}

func NewPaymentHandler(payments payment.Service) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// PayJob pays the job named in the path on behalf of the authenticated
// client.
func (h *PaymentHandler) PayJob(c *fiber.Ctx) error {
	jobID, err := c.ParamsInt("job_id")
	if err != nil || jobID <= 0 {
		return response.BadRequest(c, "invalid job id")
	}

	transfer, err := h.payments.PayJob(c.UserContext(), uint(jobID), middleware.Profile(c))
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "Payment successful", transfer)
}
