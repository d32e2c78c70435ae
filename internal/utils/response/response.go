package response

import (
	apperr "contractpay/internal/errors"

	"github.com/gofiber/fiber/v2"
)

func Success(c *fiber.Ctx, message string, data interface{}) error {
	return c.JSON(fiber.Map{
		"message": message,
		"data":    data,
	})
}

func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": message,
	})
}

func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, message)
}

func Unauthorized(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusUnauthorized, message)
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindNotFound:
		return fiber.StatusNotFound
	case apperr.KindForbidden:
		return fiber.StatusForbidden
	case apperr.KindConflict:
		return fiber.StatusConflict
	case apperr.KindInsufficientFunds:
		return fiber.StatusNotAcceptable
	case apperr.KindDepositLimitExceeded:
		return fiber.StatusUnprocessableEntity
	case apperr.KindValidation:
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// FromError writes err with the status of its kind and a caller-safe message.
func FromError(c *fiber.Ctx, err error) error {
	kind := apperr.KindOf(err)
	return c.Status(StatusFor(kind)).JSON(fiber.Map{
		"error": apperr.Message(err),
		"code":  kind,
	})
}
