package handlers

import (
	"errors"
	"net/http/httptest"
	"testing"

	"finman/internal/models"
	"finman/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", service.NewValidationError("bad input"), fiber.StatusBadRequest},
		{"not found", service.ErrNotFound, fiber.StatusNotFound},
		{"forbidden", service.ErrForbidden, fiber.StatusForbidden},
		{"rate limited", service.ErrRateLimited, fiber.StatusTooManyRequests},
		{"unknown currency", service.ErrUnknownCurrency, fiber.StatusBadRequest},
		{"rate unavailable", service.ErrRateUnavailable, fiber.StatusBadGateway},
		{"no data", service.ErrNoData, fiber.StatusNoContent},
		{"wrapped no data", errors.New("min year: " + service.ErrNoData.Error()), fiber.StatusInternalServerError},
		{"unexpected", errors.New("pg down"), fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/t", func(c *fiber.Ctx) error {
				return serviceError(c, tt.err)
			})

			resp, err := app.Test(httptest.NewRequest("GET", "/t", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestParseTransactionType(t *testing.T) {
	txType, err := parseTransactionType("expense")
	require.NoError(t, err)
	assert.Equal(t, models.TypeExpense, txType)

	txType, err = parseTransactionType("income")
	require.NoError(t, err)
	assert.Equal(t, models.TypeIncome, txType)

	_, err = parseTransactionType("transfer")
	assert.Error(t, err)
	_, err = parseTransactionType("")
	assert.Error(t, err)
}
