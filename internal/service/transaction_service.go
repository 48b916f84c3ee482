package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"finman/internal/dto"
	"finman/internal/models"
	"finman/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// TransactionService owns the write path for expenses and incomes: request
// validation, ownership checks and persistence.
type TransactionService struct {
	expenses      ExpenseStore
	incomes       IncomeStore
	currencies    CurrencyStore
	subCategories SubCategoryStore
	logger        *zap.Logger
}

func NewTransactionService(expenses ExpenseStore, incomes IncomeStore, currencies CurrencyStore, subCategories SubCategoryStore, logger *zap.Logger) *TransactionService {
	return &TransactionService{
		expenses:      expenses,
		incomes:       incomes,
		currencies:    currencies,
		subCategories: subCategories,
		logger:        logger,
	}
}

func (s *TransactionService) CreateExpense(ctx context.Context, userID uuid.UUID, req *dto.ExpenseRequest) (*models.Expense, error) {
	date, period, err := s.validateCommon(ctx, req.Amount, req.Date, req.Recurring, req.RecurrencePeriod, req.CurrencyCode)
	if err != nil {
		return nil, err
	}
	if err := s.checkSubCategory(ctx, userID, req.SubCategoryID); err != nil {
		return nil, err
	}

	expense := &models.Expense{
		UserID:           userID,
		Description:      req.Description,
		Amount:           req.Amount,
		SubCategoryID:    req.SubCategoryID,
		Date:             date,
		Recurring:        req.Recurring,
		RecurrencePeriod: period,
		CurrencyCode:     req.CurrencyCode,
	}
	if err := s.expenses.Save(ctx, expense); err != nil {
		return nil, fmt.Errorf("save expense: %w", err)
	}

	s.logger.Info("Expense created",
		zap.String("expense_id", expense.ID.String()),
		zap.String("user_id", userID.String()),
	)
	return expense, nil
}

func (s *TransactionService) UpdateExpense(ctx context.Context, userID, id uuid.UUID, req *dto.ExpenseRequest) (*models.Expense, error) {
	expense, err := s.ownedExpense(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	date, period, err := s.validateCommon(ctx, req.Amount, req.Date, req.Recurring, req.RecurrencePeriod, req.CurrencyCode)
	if err != nil {
		return nil, err
	}
	if err := s.checkSubCategory(ctx, userID, req.SubCategoryID); err != nil {
		return nil, err
	}

	expense.Description = req.Description
	expense.Amount = req.Amount
	expense.SubCategoryID = req.SubCategoryID
	expense.Date = date
	expense.Recurring = req.Recurring
	expense.RecurrencePeriod = period
	expense.CurrencyCode = req.CurrencyCode

	if err := s.expenses.Update(ctx, expense); err != nil {
		return nil, fmt.Errorf("update expense: %w", err)
	}
	return expense, nil
}

func (s *TransactionService) DeleteExpense(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.ownedExpense(ctx, userID, id); err != nil {
		return err
	}
	if err := s.expenses.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	s.logger.Info("Expense deleted",
		zap.String("expense_id", id.String()),
		zap.String("user_id", userID.String()),
	)
	return nil
}

func (s *TransactionService) GetExpenses(ctx context.Context, userID uuid.UUID) ([]*models.Expense, error) {
	expenses, err := s.expenses.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return expenses, nil
}

func (s *TransactionService) CreateIncome(ctx context.Context, userID uuid.UUID, req *dto.IncomeRequest) (*models.Income, error) {
	date, period, err := s.validateCommon(ctx, req.Amount, req.Date, req.Recurring, req.RecurrencePeriod, req.CurrencyCode)
	if err != nil {
		return nil, err
	}
	if req.Source == "" {
		return nil, NewValidationError("income source is required")
	}

	income := &models.Income{
		UserID:           userID,
		Source:           req.Source,
		Description:      req.Description,
		Amount:           req.Amount,
		Date:             date,
		Recurring:        req.Recurring,
		RecurrencePeriod: period,
		CurrencyCode:     req.CurrencyCode,
	}
	if err := s.incomes.Save(ctx, income); err != nil {
		return nil, fmt.Errorf("save income: %w", err)
	}

	s.logger.Info("Income created",
		zap.String("income_id", income.ID.String()),
		zap.String("user_id", userID.String()),
	)
	return income, nil
}

func (s *TransactionService) UpdateIncome(ctx context.Context, userID, id uuid.UUID, req *dto.IncomeRequest) (*models.Income, error) {
	income, err := s.ownedIncome(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	date, period, err := s.validateCommon(ctx, req.Amount, req.Date, req.Recurring, req.RecurrencePeriod, req.CurrencyCode)
	if err != nil {
		return nil, err
	}
	if req.Source == "" {
		return nil, NewValidationError("income source is required")
	}

	income.Source = req.Source
	income.Description = req.Description
	income.Amount = req.Amount
	income.Date = date
	income.Recurring = req.Recurring
	income.RecurrencePeriod = period
	income.CurrencyCode = req.CurrencyCode

	if err := s.incomes.Update(ctx, income); err != nil {
		return nil, fmt.Errorf("update income: %w", err)
	}
	return income, nil
}

func (s *TransactionService) DeleteIncome(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.ownedIncome(ctx, userID, id); err != nil {
		return err
	}
	if err := s.incomes.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete income: %w", err)
	}
	s.logger.Info("Income deleted",
		zap.String("income_id", id.String()),
		zap.String("user_id", userID.String()),
	)
	return nil
}

func (s *TransactionService) GetIncomes(ctx context.Context, userID uuid.UUID) ([]*models.Income, error) {
	incomes, err := s.incomes.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list incomes: %w", err)
	}
	return incomes, nil
}

// validateCommon checks the fields shared by expense and income requests
// and parses the submitted date. Nothing is persisted before it passes.
func (s *TransactionService) validateCommon(ctx context.Context, amount decimal.Decimal, dateStr string, recurring bool, periodStr, currencyCode string) (time.Time, models.RecurrencePeriod, error) {
	if !amount.IsPositive() {
		return time.Time{}, "", NewValidationError("amount must be greater than zero")
	}

	date, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		return time.Time{}, "", NewValidationError("date must be in YYYY-MM-DD format")
	}

	period := models.RecurrencePeriod(periodStr)
	if recurring {
		if !period.Valid() {
			return time.Time{}, "", NewValidationError("recurring transactions require a period of WEEKLY, MONTHLY or YEARLY")
		}
	} else if periodStr != "" {
		return time.Time{}, "", NewValidationError("recurrence period is only valid on recurring transactions")
	}

	if len(currencyCode) != 3 {
		return time.Time{}, "", NewValidationError("currency code must be a 3-letter ISO code")
	}
	if _, err := s.currencies.FindByCode(ctx, currencyCode); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return time.Time{}, "", NewValidationError("unknown currency code %q", currencyCode)
		}
		return time.Time{}, "", fmt.Errorf("currency lookup: %w", err)
	}

	return date, period, nil
}

func (s *TransactionService) checkSubCategory(ctx context.Context, userID uuid.UUID, subCategoryID int64) error {
	sub, err := s.subCategories.FindByID(ctx, subCategoryID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return NewValidationError("subcategory %d does not exist", subCategoryID)
		}
		return fmt.Errorf("subcategory lookup: %w", err)
	}
	if sub.UserID != userID {
		return ErrForbidden
	}
	return nil
}

func (s *TransactionService) ownedExpense(ctx context.Context, userID, id uuid.UUID) (*models.Expense, error) {
	expense, err := s.expenses.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find expense: %w", err)
	}
	if expense.UserID != userID {
		return nil, ErrForbidden
	}
	return expense, nil
}

func (s *TransactionService) ownedIncome(ctx context.Context, userID, id uuid.UUID) (*models.Income, error) {
	income, err := s.incomes.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find income: %w", err)
	}
	if income.UserID != userID {
		return nil, ErrForbidden
	}
	return income, nil
}
