package api

import (
	"finman/internal/api/handlers"
	"finman/pkg/auth"
	"finman/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

func SetupRouter(
	statsHandler *handlers.StatsHandler,
	currencyHandler *handlers.CurrencyHandler,
	transactionHandler *handlers.TransactionHandler,
	subCategoryHandler *handlers.SubCategoryHandler,
	jwtManager *auth.JWTManager,
	appLogger *zap.Logger,
) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))
	app.Use(logger.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Protected routes
	protected := app.Group("/api/v1", middleware.AuthMiddleware(jwtManager, appLogger))

	expenses := protected.Group("/expenses")
	expenses.Post("", transactionHandler.CreateExpense)
	expenses.Get("", transactionHandler.ListExpenses)
	expenses.Put("/:id", transactionHandler.UpdateExpense)
	expenses.Delete("/:id", transactionHandler.DeleteExpense)

	incomes := protected.Group("/incomes")
	incomes.Post("", transactionHandler.CreateIncome)
	incomes.Get("", transactionHandler.ListIncomes)
	incomes.Put("/:id", transactionHandler.UpdateIncome)
	incomes.Delete("/:id", transactionHandler.DeleteIncome)

	subCategories := protected.Group("/subcategories")
	subCategories.Post("", subCategoryHandler.Create)
	subCategories.Get("", subCategoryHandler.List)
	subCategories.Delete("/:id", subCategoryHandler.Delete)

	currencies := protected.Group("/currencies")
	currencies.Get("", currencyHandler.ListCurrencies)
	currencies.Put("", currencyHandler.UpdateCurrency)

	stats := protected.Group("/stats")
	stats.Get("/totals", statsHandler.GetGrandTotals)
	stats.Get("/savings/:year", statsHandler.GetSavingsRate)
	stats.Get("/categories/:year", statsHandler.GetCategoryBreakdown)
	stats.Get("/comparison/:year/:month", statsHandler.GetComparison)
	stats.Get("/combined/yearly/:year", statsHandler.GetCombinedYearly)
	stats.Get("/combined/monthly/:year/:month", statsHandler.GetCombinedMonthly)
	stats.Get("/:type/yearly/:year", statsHandler.GetYearlySummary)
	stats.Get("/:type/monthly/:year/:month", statsHandler.GetMonthlySummary)
	stats.Get("/:type/min-year", statsHandler.GetMinYear)
	stats.Get("/:type/max-year", statsHandler.GetMaxYear)

	return app
}
