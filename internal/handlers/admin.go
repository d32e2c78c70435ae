package handlers

import (
	"strconv"

	"contractpay/internal/services/report"
	"contractpay/internal/utils/response"
	"contractpay/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	reports report.Service
}

func NewAdminHandler(reports report.Service) *AdminHandler {
	return &AdminHandler{reports: reports}
}

// BestProfession handles GET /admin/best-profession?start=&end=
func (h *AdminHandler) BestProfession(c *fiber.Ctx) error {
	start, end, err := validation.Period(c.Query("start"), c.Query("end"))
	if err != nil {
		return response.FromError(c, err)
	}

	best, err := h.reports.BestProfession(c.UserContext(), start, end)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "Best profession", best)
}

// BestClients handles GET /admin/best-clients?start=&end=&limit=
func (h *AdminHandler) BestClients(c *fiber.Ctx) error {
	start, end, err := validation.Period(c.Query("start"), c.Query("end"))
	if err != nil {
		return response.FromError(c, err)
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			return response.BadRequest(c, "limit must be a positive integer")
		}
	}

	clients, err := h.reports.BestClients(c.UserContext(), start, end, limit)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "Best clients", clients)
}
