package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"finman/internal/api"
	"finman/internal/api/handlers"
	"finman/internal/database"
	"finman/internal/exchange"
	"finman/internal/repository"
	"finman/internal/scheduler"
	"finman/internal/service"
	"finman/pkg/auth"
	"finman/pkg/config"
	"finman/pkg/logger"
	"finman/pkg/postgres"

	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	if err := logger.Init(cfg.Logger.Level); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting finman service")

	// Initialize database
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := database.Migrate(ctx, db, appLogger); err != nil {
		appLogger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db, appLogger)
	expenseRepo := repository.NewExpenseRepository(db, appLogger)
	incomeRepo := repository.NewIncomeRepository(db, appLogger)
	currencyRepo := repository.NewCurrencyRepository(db, appLogger)
	subCategoryRepo := repository.NewSubCategoryRepository(db, appLogger)

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.Expiration)

	// Initialize services
	rateSource := exchange.NewClient(&cfg.Exchange, appLogger)
	limiter := service.NewRateLimiter(service.MaxDailyCurrencyChanges)

	recurrenceService := service.NewRecurrenceService(expenseRepo, incomeRepo, appLogger)
	currencyService := service.NewCurrencyService(userRepo, currencyRepo, expenseRepo, incomeRepo, rateSource, limiter, appLogger)
	statsService := service.NewStatsService(expenseRepo, incomeRepo, subCategoryRepo, appLogger)
	transactionService := service.NewTransactionService(expenseRepo, incomeRepo, currencyRepo, subCategoryRepo, appLogger)
	subCategoryService := service.NewSubCategoryService(subCategoryRepo, expenseRepo, appLogger)

	// Initialize handlers
	statsHandler := handlers.NewStatsHandler(statsService, appLogger)
	currencyHandler := handlers.NewCurrencyHandler(currencyService, appLogger)
	transactionHandler := handlers.NewTransactionHandler(transactionService, appLogger)
	subCategoryHandler := handlers.NewSubCategoryHandler(subCategoryService, appLogger)

	// Setup router
	app := api.SetupRouter(statsHandler, currencyHandler, transactionHandler, subCategoryHandler, jwtManager, appLogger)

	// Start daily job scheduler
	sched := scheduler.New(recurrenceService, currencyService, limiter, cfg.Exchange.BaseCurrency, cfg.Scheduler.CheckInterval, appLogger)
	go sched.Start(ctx)

	// Start server
	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	cancel()
	if err := app.Shutdown(); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
}
