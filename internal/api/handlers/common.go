package handlers

import (
	"errors"
	"strconv"

	"finman/internal/models"
	"finman/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func getUserID(c *fiber.Ctx) (uuid.UUID, error) {
	userID, ok := c.Locals("userID").(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, errors.New("user ID not found in context")
	}
	return userID, nil
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": "Unauthorized",
	})
}

// serviceError maps domain errors onto HTTP responses. Unexpected errors
// become opaque 500s.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case service.IsValidationError(err):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, service.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Not found",
		})
	case errors.Is(err, service.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Access denied",
		})
	case errors.Is(err, service.ErrRateLimited):
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"error": "Daily currency change limit reached",
		})
	case errors.Is(err, service.ErrUnknownCurrency):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unknown currency code",
		})
	case errors.Is(err, service.ErrRateUnavailable):
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Exchange rate unavailable",
		})
	case errors.Is(err, service.ErrNoData):
		return c.SendStatus(fiber.StatusNoContent)
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}
}

func parseTransactionType(raw string) (models.TransactionType, error) {
	switch raw {
	case string(models.TypeExpense):
		return models.TypeExpense, nil
	case string(models.TypeIncome):
		return models.TypeIncome, nil
	}
	return "", errors.New("transaction type must be expense or income")
}

func intParam(c *fiber.Ctx, name string) (int, error) {
	return strconv.Atoi(c.Params(name))
}
