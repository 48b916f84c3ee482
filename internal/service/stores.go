package service

import (
	"context"
	"time"

	"finman/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// The services consume the ledger through these interfaces so the engines
// stay independent of the persistence mechanics. The pgx repositories in
// internal/repository satisfy them; the tests use in-memory fakes.

type ExpenseStore interface {
	Save(ctx context.Context, expense *models.Expense) error
	Update(ctx context.Context, expense *models.Expense) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Expense, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*models.Expense, error)
	FindRecurring(ctx context.Context) ([]*models.Expense, error)
	FindByYear(ctx context.Context, year int, userID uuid.UUID) ([]*models.Expense, error)
	FindByYearAndMonth(ctx context.Context, year, month int, userID uuid.UUID) ([]*models.Expense, error)
	FindAll(ctx context.Context) ([]*models.Expense, error)
	MinYear(ctx context.Context, userID uuid.UUID) (int, error)
	MaxYear(ctx context.Context, userID uuid.UUID) (int, error)
}

type IncomeStore interface {
	Save(ctx context.Context, income *models.Income) error
	Update(ctx context.Context, income *models.Income) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Income, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*models.Income, error)
	FindRecurring(ctx context.Context) ([]*models.Income, error)
	FindByYear(ctx context.Context, year int, userID uuid.UUID) ([]*models.Income, error)
	FindByYearAndMonth(ctx context.Context, year, month int, userID uuid.UUID) ([]*models.Income, error)
	FindAll(ctx context.Context) ([]*models.Income, error)
	MinYear(ctx context.Context, userID uuid.UUID) (int, error)
	MaxYear(ctx context.Context, userID uuid.UUID) (int, error)
}

type UserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdatePreferredCurrency(ctx context.Context, id uuid.UUID, code string) error
}

type CurrencyStore interface {
	Upsert(ctx context.Context, currency *models.Currency) error
	FindByCode(ctx context.Context, code string) (*models.Currency, error)
	FindAll(ctx context.Context) ([]*models.Currency, error)
}

type SubCategoryStore interface {
	Create(ctx context.Context, sub *models.SubCategory) error
	FindByID(ctx context.Context, id int64) (*models.SubCategory, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*models.SubCategory, error)
	Delete(ctx context.Context, id int64) error
}

// RateSource supplies a base-currency-relative exchange-rate table.
type RateSource interface {
	FetchRates(ctx context.Context, baseCode string) (map[string]decimal.Decimal, time.Time, error)
}
