package main

import (
	"context"
	"errors"
	"log"

	"finman/internal/database"
	"finman/internal/exchange"
	"finman/internal/models"
	"finman/internal/repository"
	"finman/internal/service"
	"finman/pkg/auth"
	"finman/pkg/config"
	"finman/pkg/logger"
	"finman/pkg/postgres"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	demoUsername = "demo"
	demoEmail    = "demo@finman.local"
	demoPassword = "demo-password"
)

var defaultSubCategories = []struct {
	category models.ExpenseCategory
	name     string
}{
	{models.CategoryFood, "Groceries"},
	{models.CategoryFood, "Restaurants"},
	{models.CategorySubscription, "Streaming"},
	{models.CategoryUtilities, "Electricity"},
	{models.CategoryTransportation, "Public Transport"},
	{models.CategoryHealthcare, "Pharmacy"},
	{models.CategoryEntertainment, "Cinema"},
	{models.CategoryOther, "Miscellaneous"},
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logger.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	appLogger := logger.Get()

	// Connect to database
	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := database.Migrate(ctx, db, appLogger); err != nil {
		appLogger.Fatal("Failed to run migrations", zap.Error(err))
	}

	userRepo := repository.NewUserRepository(db, appLogger)
	expenseRepo := repository.NewExpenseRepository(db, appLogger)
	incomeRepo := repository.NewIncomeRepository(db, appLogger)
	currencyRepo := repository.NewCurrencyRepository(db, appLogger)
	subCategoryRepo := repository.NewSubCategoryRepository(db, appLogger)

	appLogger.Info("Starting database seeding")

	// Seed the currency table from the live rate source.
	rateSource := exchange.NewClient(&cfg.Exchange, appLogger)
	limiter := service.NewRateLimiter(service.MaxDailyCurrencyChanges)
	currencyService := service.NewCurrencyService(userRepo, currencyRepo, expenseRepo, incomeRepo, rateSource, limiter, appLogger)
	if err := currencyService.FetchAndSaveCurrencies(ctx, cfg.Exchange.BaseCurrency); err != nil {
		appLogger.Fatal("Failed to seed currencies", zap.Error(err))
	}

	user, err := seedDemoUser(ctx, userRepo, cfg.Exchange.BaseCurrency, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to seed demo user", zap.Error(err))
	}

	if err := seedSubCategories(ctx, subCategoryRepo, user, appLogger); err != nil {
		appLogger.Fatal("Failed to seed subcategories", zap.Error(err))
	}

	// Print a ready-to-use token for manual API exploration.
	jwtManager := auth.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.Expiration)
	token, err := jwtManager.GenerateToken(user.ID, user.Username, user.Email)
	if err != nil {
		appLogger.Fatal("Failed to generate demo token", zap.Error(err))
	}

	appLogger.Info("Database seeding completed",
		zap.String("demo_user_id", user.ID.String()),
		zap.String("demo_token", token),
	)
}

func seedDemoUser(ctx context.Context, users *repository.UserRepository, preferredCurrency string, appLogger *zap.Logger) (*models.User, error) {
	existing, err := users.GetByEmail(ctx, demoEmail)
	if err == nil {
		appLogger.Info("Demo user already exists", zap.String("user_id", existing.ID.String()))
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(demoPassword)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:                uuid.New(),
		Username:          demoUsername,
		Email:             demoEmail,
		Password:          hash,
		PreferredCurrency: preferredCurrency,
	}
	if err := users.Create(ctx, user); err != nil {
		return nil, err
	}
	appLogger.Info("Demo user created", zap.String("user_id", user.ID.String()))
	return user, nil
}

func seedSubCategories(ctx context.Context, subCategories *repository.SubCategoryRepository, user *models.User, appLogger *zap.Logger) error {
	existing, err := subCategories.FindByUser(ctx, user.ID)
	if err != nil {
		return err
	}
	present := make(map[string]bool, len(existing))
	for _, sub := range existing {
		present[string(sub.Category)+"/"+sub.Name] = true
	}

	created := 0
	for _, def := range defaultSubCategories {
		if present[string(def.category)+"/"+def.name] {
			continue
		}
		sub := &models.SubCategory{
			UserID:   user.ID,
			Category: def.category,
			Name:     def.name,
		}
		if err := subCategories.Create(ctx, sub); err != nil {
			return err
		}
		created++
	}

	appLogger.Info("Subcategories seeded", zap.Int("created", created))
	return nil
}
