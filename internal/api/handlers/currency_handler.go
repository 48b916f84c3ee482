package handlers

import (
	"finman/internal/dto"
	"finman/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type CurrencyHandler struct {
	currency *service.CurrencyService
	logger   *zap.Logger
}

func NewCurrencyHandler(currency *service.CurrencyService, logger *zap.Logger) *CurrencyHandler {
	return &CurrencyHandler{currency: currency, logger: logger}
}

// ListCurrencies handles GET /api/v1/currencies.
func (h *CurrencyHandler) ListCurrencies(c *fiber.Ctx) error {
	if _, err := getUserID(c); err != nil {
		return unauthorized(c)
	}

	currencies, err := h.currency.GetCurrencies(c.Context())
	if err != nil {
		h.logger.Error("Currency listing failed", zap.Error(err))
		return serviceError(c, err)
	}

	responses := make([]*dto.CurrencyResponse, 0, len(currencies))
	for _, currency := range currencies {
		responses = append(responses, dto.NewCurrencyResponse(currency))
	}
	return c.JSON(responses)
}

// UpdateCurrency handles PUT /api/v1/currencies. It changes the caller's
// preferred currency and optionally rewrites stored amounts.
func (h *CurrencyHandler) UpdateCurrency(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.CurrencyUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := h.currency.ChangeCurrency(c.Context(), userID, req.CurrencyCode, req.ConvertAmounts); err != nil {
		h.logger.Warn("Currency change rejected",
			zap.String("user_id", userID.String()),
			zap.String("currency_code", req.CurrencyCode),
			zap.Error(err),
		)
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"currencyCode": req.CurrencyCode,
	})
}
