package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"finman/internal/exchange"
	"finman/internal/models"
	"finman/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CurrencyService owns the currency table, the per-base rate cache and the
// preferred-currency change flow including the optional bulk re-denomination
// of stored amounts.
type CurrencyService struct {
	users      UserStore
	currencies CurrencyStore
	expenses   ExpenseStore
	incomes    IncomeStore
	rateSource RateSource
	limiter    *RateLimiter
	logger     *zap.Logger

	cacheMu   sync.RWMutex
	rateCache map[string]map[string]decimal.Decimal
}

func NewCurrencyService(
	users UserStore,
	currencies CurrencyStore,
	expenses ExpenseStore,
	incomes IncomeStore,
	rateSource RateSource,
	limiter *RateLimiter,
	logger *zap.Logger,
) *CurrencyService {
	return &CurrencyService{
		users:      users,
		currencies: currencies,
		expenses:   expenses,
		incomes:    incomes,
		rateSource: rateSource,
		limiter:    limiter,
		logger:     logger,
		rateCache:  make(map[string]map[string]decimal.Decimal),
	}
}

// ChangeCurrency updates the user's preferred currency and, when
// convertAmounts is set, rewrites every stored transaction amount at the
// old-to-new exchange rate.
//
// The rewrite deliberately spans the whole ledger, not just the requesting
// user's records; scoping it is a one-line change in convertAllAmounts.
func (s *CurrencyService) ChangeCurrency(ctx context.Context, userID uuid.UUID, newCode string, convertAmounts bool) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("load user %s: %w", userID, err)
	}

	if s.limiter.Limited(userID) {
		return ErrRateLimited
	}

	if len(newCode) != 3 {
		return ErrUnknownCurrency
	}
	if _, err := s.currencies.FindByCode(ctx, newCode); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUnknownCurrency
		}
		return fmt.Errorf("look up currency %s: %w", newCode, err)
	}

	oldCode := user.PreferredCurrency
	if err := s.users.UpdatePreferredCurrency(ctx, userID, newCode); err != nil {
		return fmt.Errorf("update preferred currency for user %s: %w", userID, err)
	}
	// The quota counts accepted currency changes, not conversion attempts,
	// so it bumps here and never on a later conversion failure.
	s.limiter.Increment(userID)

	s.logger.Info("Preferred currency changed",
		zap.String("user_id", userID.String()),
		zap.String("old_code", oldCode),
		zap.String("new_code", newCode),
	)

	if !convertAmounts {
		return nil
	}

	rate, err := s.exchangeRate(ctx, oldCode, newCode)
	if err != nil {
		return err
	}

	return s.convertAllAmounts(ctx, rate, newCode)
}

// exchangeRate returns how many units of currency b one unit of currency a
// is worth. Rate tables are fetched per base code and cached until the
// scheduler invalidates them.
func (s *CurrencyService) exchangeRate(ctx context.Context, a, b string) (decimal.Decimal, error) {
	if a == b {
		return decimal.NewFromInt(1), nil
	}

	s.cacheMu.RLock()
	table, ok := s.rateCache[a]
	s.cacheMu.RUnlock()

	if !ok {
		fetched, _, err := s.rateSource.FetchRates(ctx, a)
		if err != nil {
			return decimal.Decimal{}, fmt.Errorf("fetch rates for base %s: %w", a, err)
		}
		s.cacheMu.Lock()
		s.rateCache[a] = fetched
		s.cacheMu.Unlock()
		table = fetched
	}

	rate, ok := table[b]
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("no rate from %s to %s: %w", a, b, ErrRateUnavailable)
	}
	return rate, nil
}

// convertAllAmounts multiplies every expense and income amount by rate and
// stamps the new currency code. Each record is touched exactly once; a
// failure part-way leaves earlier records converted, which is logged and
// reported, not rolled back.
func (s *CurrencyService) convertAllAmounts(ctx context.Context, rate decimal.Decimal, newCode string) error {
	expenses, err := s.expenses.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("load expenses for conversion: %w", err)
	}
	for _, expense := range expenses {
		expense.Amount = expense.Amount.Mul(rate).Round(2)
		expense.CurrencyCode = newCode
		if err := s.expenses.Update(ctx, expense); err != nil {
			s.logger.Error("Currency conversion aborted part-way through expenses",
				zap.String("expense_id", expense.ID.String()),
				zap.String("user_id", expense.UserID.String()),
				zap.Error(err),
			)
			return fmt.Errorf("convert expense %s: %w", expense.ID, err)
		}
	}

	incomes, err := s.incomes.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("load incomes for conversion: %w", err)
	}
	for _, income := range incomes {
		income.Amount = income.Amount.Mul(rate).Round(2)
		income.CurrencyCode = newCode
		if err := s.incomes.Update(ctx, income); err != nil {
			s.logger.Error("Currency conversion aborted part-way through incomes",
				zap.String("income_id", income.ID.String()),
				zap.String("user_id", income.UserID.String()),
				zap.Error(err),
			)
			return fmt.Errorf("convert income %s: %w", income.ID, err)
		}
	}

	s.logger.Info("Converted ledger amounts",
		zap.String("new_code", newCode),
		zap.Int("expenses", len(expenses)),
		zap.Int("incomes", len(incomes)),
	)
	return nil
}

// InvalidateRateCache drops all cached rate tables. Called daily by the
// scheduler.
func (s *CurrencyService) InvalidateRateCache() {
	s.cacheMu.Lock()
	s.rateCache = make(map[string]map[string]decimal.Decimal)
	s.cacheMu.Unlock()
}

// FetchAndSaveCurrencies refreshes the currency table from the rate source
// using the given base code. Rows are upserted, never deleted.
func (s *CurrencyService) FetchAndSaveCurrencies(ctx context.Context, baseCode string) error {
	rates, lastUpdated, err := s.rateSource.FetchRates(ctx, baseCode)
	if err != nil {
		return fmt.Errorf("fetch currencies for base %s: %w", baseCode, err)
	}

	for code, rate := range rates {
		currency := &models.Currency{
			Code:            code,
			Name:            exchange.CurrencyName(code),
			Rate:            rate,
			LastTimeUpdated: lastUpdated,
		}
		if err := s.currencies.Upsert(ctx, currency); err != nil {
			return fmt.Errorf("upsert currency %s: %w", code, err)
		}
	}

	s.logger.Info("Currency table refreshed",
		zap.String("base", baseCode),
		zap.Int("count", len(rates)),
	)
	return nil
}

// GetCurrencies lists the known currencies.
func (s *CurrencyService) GetCurrencies(ctx context.Context) ([]*models.Currency, error) {
	currencies, err := s.currencies.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list currencies: %w", err)
	}
	return currencies, nil
}
