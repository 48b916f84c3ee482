package handlers

import (
	"context"

	"finman/internal/models"
	"finman/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type StatsHandler struct {
	stats  *service.StatsService
	logger *zap.Logger
}

func NewStatsHandler(stats *service.StatsService, logger *zap.Logger) *StatsHandler {
	return &StatsHandler{stats: stats, logger: logger}
}

// GetYearlySummary handles GET /api/v1/stats/:type/yearly/:year.
func (h *StatsHandler) GetYearlySummary(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	txType, err := parseTransactionType(c.Params("type"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	year, err := intParam(c, "year")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid year"})
	}

	summary, err := h.stats.GetYearlySummary(c.Context(), userID, txType, year)
	if err != nil {
		h.logger.Error("Yearly summary failed", zap.Error(err))
		return serviceError(c, err)
	}
	return c.JSON(summary)
}

// GetMonthlySummary handles GET /api/v1/stats/:type/monthly/:year/:month.
func (h *StatsHandler) GetMonthlySummary(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	txType, err := parseTransactionType(c.Params("type"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	year, err := intParam(c, "year")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid year"})
	}
	month, err := intParam(c, "month")
	if err != nil || month < 1 || month > 12 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid month"})
	}

	summary, err := h.stats.GetMonthlySummary(c.Context(), userID, txType, year, month)
	if err != nil {
		h.logger.Error("Monthly summary failed", zap.Error(err))
		return serviceError(c, err)
	}
	return c.JSON(summary)
}

// GetMinYear handles GET /api/v1/stats/:type/min-year. Responds 204 when
// the user has no transactions of the type.
func (h *StatsHandler) GetMinYear(c *fiber.Ctx) error {
	return h.yearBound(c, h.stats.GetMinYear)
}

// GetMaxYear handles GET /api/v1/stats/:type/max-year.
func (h *StatsHandler) GetMaxYear(c *fiber.Ctx) error {
	return h.yearBound(c, h.stats.GetMaxYear)
}

func (h *StatsHandler) yearBound(c *fiber.Ctx, fetch func(ctx context.Context, userID uuid.UUID, txType models.TransactionType) (int, error)) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	txType, err := parseTransactionType(c.Params("type"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	year, err := fetch(c.Context(), userID, txType)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"year": year})
}

// GetCombinedYearly handles GET /api/v1/stats/combined/yearly/:year.
func (h *StatsHandler) GetCombinedYearly(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	year, err := intParam(c, "year")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid year"})
	}

	summary, err := h.stats.GetCombinedYearly(c.Context(), userID, year)
	if err != nil {
		h.logger.Error("Combined yearly summary failed", zap.Error(err))
		return serviceError(c, err)
	}
	return c.JSON(summary)
}

// GetCombinedMonthly handles GET /api/v1/stats/combined/monthly/:year/:month.
func (h *StatsHandler) GetCombinedMonthly(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	year, err := intParam(c, "year")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid year"})
	}
	month, err := intParam(c, "month")
	if err != nil || month < 1 || month > 12 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid month"})
	}

	summary, err := h.stats.GetCombinedMonthly(c.Context(), userID, year, month)
	if err != nil {
		h.logger.Error("Combined monthly summary failed", zap.Error(err))
		return serviceError(c, err)
	}
	return c.JSON(summary)
}

// GetCategoryBreakdown handles GET /api/v1/stats/categories/:year.
func (h *StatsHandler) GetCategoryBreakdown(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	year, err := intParam(c, "year")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid year"})
	}

	summary, err := h.stats.GetCategoryBreakdown(c.Context(), userID, year)
	if err != nil {
		h.logger.Error("Category breakdown failed", zap.Error(err))
		return serviceError(c, err)
	}
	return c.JSON(summary)
}

// GetComparison handles GET /api/v1/stats/comparison/:year/:month.
func (h *StatsHandler) GetComparison(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	year, err := intParam(c, "year")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid year"})
	}
	month, err := intParam(c, "month")
	if err != nil || month < 1 || month > 12 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid month"})
	}

	summary, err := h.stats.GetComparison(c.Context(), userID, year, month)
	if err != nil {
		h.logger.Error("Comparison summary failed", zap.Error(err))
		return serviceError(c, err)
	}
	return c.JSON(summary)
}

// GetSavingsRate handles GET /api/v1/stats/savings/:year.
func (h *StatsHandler) GetSavingsRate(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	year, err := intParam(c, "year")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid year"})
	}

	summary, err := h.stats.GetSavingsRate(c.Context(), userID, year)
	if err != nil {
		h.logger.Error("Savings rate failed", zap.Error(err))
		return serviceError(c, err)
	}
	return c.JSON(summary)
}

// GetGrandTotals handles GET /api/v1/stats/totals.
func (h *StatsHandler) GetGrandTotals(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	summary, err := h.stats.GetGrandTotals(c.Context(), userID)
	if err != nil {
		h.logger.Error("Grand totals failed", zap.Error(err))
		return serviceError(c, err)
	}
	return c.JSON(summary)
}
