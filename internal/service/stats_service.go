package service

import (
	"context"
	"errors"
	"fmt"

	"finman/internal/dto"
	"finman/internal/models"
	"finman/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var oneHundred = decimal.NewFromInt(100)

// StatsService derives read-only summaries from a user's transactions.
// Every operation is a pure function of the fetched records; a store
// failure aborts the whole request, no partial summary is returned.
type StatsService struct {
	expenses      ExpenseStore
	incomes       IncomeStore
	subCategories SubCategoryStore
	logger        *zap.Logger
}

func NewStatsService(expenses ExpenseStore, incomes IncomeStore, subCategories SubCategoryStore, logger *zap.Logger) *StatsService {
	return &StatsService{
		expenses:      expenses,
		incomes:       incomes,
		subCategories: subCategories,
		logger:        logger,
	}
}

// GetYearlySummary buckets one transaction type by calendar month within
// the year and totals the buckets. The per-transaction detail rides along.
func (s *StatsService) GetYearlySummary(ctx context.Context, userID uuid.UUID, txType models.TransactionType, year int) (*dto.YearlySummary, error) {
	records, err := s.recordsByYear(ctx, userID, txType, year)
	if err != nil {
		return nil, err
	}

	monthlyTotals := make(map[int]decimal.Decimal)
	yearlyTotal := decimal.Zero
	for _, record := range records {
		month := int(record.Date.Month())
		monthlyTotals[month] = monthlyTotals[month].Add(record.Amount)
		yearlyTotal = yearlyTotal.Add(record.Amount)
	}

	return &dto.YearlySummary{
		Records:       records,
		MonthlyTotals: monthlyTotals,
		YearlyTotal:   yearlyTotal,
	}, nil
}

// GetMonthlySummary totals one transaction type for a single month.
func (s *StatsService) GetMonthlySummary(ctx context.Context, userID uuid.UUID, txType models.TransactionType, year, month int) (*dto.MonthlySummary, error) {
	var records []dto.TransactionRecord
	var err error

	if txType == models.TypeIncome {
		incomes, ferr := s.incomes.FindByYearAndMonth(ctx, year, month, userID)
		if ferr != nil {
			return nil, s.storeFailure("monthly summary", userID, ferr)
		}
		records = s.incomeRecords(incomes)
	} else {
		expenses, ferr := s.expenses.FindByYearAndMonth(ctx, year, month, userID)
		if ferr != nil {
			return nil, s.storeFailure("monthly summary", userID, ferr)
		}
		records, err = s.expenseRecords(ctx, userID, expenses)
		if err != nil {
			return nil, err
		}
	}

	monthlyTotal := decimal.Zero
	for _, record := range records {
		monthlyTotal = monthlyTotal.Add(record.Amount)
	}

	return &dto.MonthlySummary{
		Records:      records,
		MonthlyTotal: monthlyTotal,
	}, nil
}

// GetMinYear returns the earliest calendar year with a transaction of the
// given type, or ErrNoData when the user has none.
func (s *StatsService) GetMinYear(ctx context.Context, userID uuid.UUID, txType models.TransactionType) (int, error) {
	return s.yearBound(ctx, userID, txType, true)
}

// GetMaxYear returns the latest calendar year with a transaction of the
// given type, or ErrNoData when the user has none.
func (s *StatsService) GetMaxYear(ctx context.Context, userID uuid.UUID, txType models.TransactionType) (int, error) {
	return s.yearBound(ctx, userID, txType, false)
}

func (s *StatsService) yearBound(ctx context.Context, userID uuid.UUID, txType models.TransactionType, min bool) (int, error) {
	var year int
	var err error
	switch {
	case txType == models.TypeIncome && min:
		year, err = s.incomes.MinYear(ctx, userID)
	case txType == models.TypeIncome:
		year, err = s.incomes.MaxYear(ctx, userID)
	case min:
		year, err = s.expenses.MinYear(ctx, userID)
	default:
		year, err = s.expenses.MaxYear(ctx, userID)
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, ErrNoData
		}
		return 0, s.storeFailure("min/max year", userID, err)
	}
	return year, nil
}

// GetCombinedYearly buckets both types by month with per-month transaction
// counts. Min/max year derive from the records actually returned, not from
// a global scan.
func (s *StatsService) GetCombinedYearly(ctx context.Context, userID uuid.UUID, year int) (*dto.CombinedYearlySummary, error) {
	expenses, err := s.expenses.FindByYear(ctx, year, userID)
	if err != nil {
		return nil, s.storeFailure("combined yearly summary", userID, err)
	}
	incomes, err := s.incomes.FindByYear(ctx, year, userID)
	if err != nil {
		return nil, s.storeFailure("combined yearly summary", userID, err)
	}

	summary := &dto.CombinedYearlySummary{
		MonthlyExpenses:            make(map[int]decimal.Decimal),
		MonthlyIncomes:             make(map[int]decimal.Decimal),
		MonthlyExpenseTransactions: make(map[int]int64),
		MonthlyIncomeTransactions:  make(map[int]int64),
	}

	for _, expense := range expenses {
		observeYear(summary, expense.Date.Year())
		month := int(expense.Date.Month())
		summary.MonthlyExpenses[month] = summary.MonthlyExpenses[month].Add(expense.Amount)
		summary.MonthlyExpenseTransactions[month]++
	}
	for _, income := range incomes {
		observeYear(summary, income.Date.Year())
		month := int(income.Date.Month())
		summary.MonthlyIncomes[month] = summary.MonthlyIncomes[month].Add(income.Amount)
		summary.MonthlyIncomeTransactions[month]++
	}

	return summary, nil
}

func observeYear(summary *dto.CombinedYearlySummary, year int) {
	if summary.MinYear == nil || year < *summary.MinYear {
		y := year
		summary.MinYear = &y
	}
	if summary.MaxYear == nil || year > *summary.MaxYear {
		y := year
		summary.MaxYear = &y
	}
}

// GetCombinedMonthly buckets both types by day-of-month for one month.
func (s *StatsService) GetCombinedMonthly(ctx context.Context, userID uuid.UUID, year, month int) (*dto.CombinedMonthlySummary, error) {
	expenses, err := s.expenses.FindByYearAndMonth(ctx, year, month, userID)
	if err != nil {
		return nil, s.storeFailure("combined monthly summary", userID, err)
	}
	incomes, err := s.incomes.FindByYearAndMonth(ctx, year, month, userID)
	if err != nil {
		return nil, s.storeFailure("combined monthly summary", userID, err)
	}

	summary := &dto.CombinedMonthlySummary{
		DailyExpenses:            make(map[int]decimal.Decimal),
		DailyIncomes:             make(map[int]decimal.Decimal),
		DailyExpenseTransactions: make(map[int]int64),
		DailyIncomeTransactions:  make(map[int]int64),
	}

	for _, expense := range expenses {
		day := expense.Date.Day()
		summary.DailyExpenses[day] = summary.DailyExpenses[day].Add(expense.Amount)
		summary.DailyExpenseTransactions[day]++
	}
	for _, income := range incomes {
		day := income.Date.Day()
		summary.DailyIncomes[day] = summary.DailyIncomes[day].Add(income.Amount)
		summary.DailyIncomeTransactions[day]++
	}

	return summary, nil
}

// GetCategoryBreakdown groups the year's expenses by category display name
// and its incomes by source string.
func (s *StatsService) GetCategoryBreakdown(ctx context.Context, userID uuid.UUID, year int) (*dto.CategoryBreakdownSummary, error) {
	expenses, err := s.expenses.FindByYear(ctx, year, userID)
	if err != nil {
		return nil, s.storeFailure("category breakdown", userID, err)
	}
	incomes, err := s.incomes.FindByYear(ctx, year, userID)
	if err != nil {
		return nil, s.storeFailure("category breakdown", userID, err)
	}

	subCategories, err := s.subCategoryIndex(ctx, userID)
	if err != nil {
		return nil, err
	}

	expensesByCategory := make(map[string]decimal.Decimal)
	for _, expense := range expenses {
		sub, ok := subCategories[expense.SubCategoryID]
		if !ok {
			// An expense pointing at a missing subcategory is a
			// data-integrity violation upstream.
			return nil, s.storeFailure("category breakdown", userID,
				fmt.Errorf("expense %s references unknown subcategory %d", expense.ID, expense.SubCategoryID))
		}
		name := sub.Category.DisplayName()
		expensesByCategory[name] = expensesByCategory[name].Add(expense.Amount)
	}

	incomesBySource := make(map[string]decimal.Decimal)
	for _, income := range incomes {
		incomesBySource[income.Source] = incomesBySource[income.Source].Add(income.Amount)
	}

	return &dto.CategoryBreakdownSummary{
		ExpensesByCategory: expensesByCategory,
		IncomesBySource:    incomesBySource,
	}, nil
}

// GetComparison totals current and previous month and year for both types.
// When month is 1 the "previous month" is month 12 of the same year; the
// wrap never crosses the year boundary.
func (s *StatsService) GetComparison(ctx context.Context, userID uuid.UUID, year, month int) (*dto.ComparisonSummary, error) {
	previousMonth := month - 1
	if month == 1 {
		previousMonth = 12
	}

	currentMonthExpenses, err := s.expenses.FindByYearAndMonth(ctx, year, month, userID)
	if err != nil {
		return nil, s.storeFailure("comparison summary", userID, err)
	}
	currentMonthIncomes, err := s.incomes.FindByYearAndMonth(ctx, year, month, userID)
	if err != nil {
		return nil, s.storeFailure("comparison summary", userID, err)
	}
	previousMonthExpenses, err := s.expenses.FindByYearAndMonth(ctx, year, previousMonth, userID)
	if err != nil {
		return nil, s.storeFailure("comparison summary", userID, err)
	}
	previousMonthIncomes, err := s.incomes.FindByYearAndMonth(ctx, year, previousMonth, userID)
	if err != nil {
		return nil, s.storeFailure("comparison summary", userID, err)
	}
	currentYearExpenses, err := s.expenses.FindByYear(ctx, year, userID)
	if err != nil {
		return nil, s.storeFailure("comparison summary", userID, err)
	}
	currentYearIncomes, err := s.incomes.FindByYear(ctx, year, userID)
	if err != nil {
		return nil, s.storeFailure("comparison summary", userID, err)
	}
	previousYearExpenses, err := s.expenses.FindByYear(ctx, year-1, userID)
	if err != nil {
		return nil, s.storeFailure("comparison summary", userID, err)
	}
	previousYearIncomes, err := s.incomes.FindByYear(ctx, year-1, userID)
	if err != nil {
		return nil, s.storeFailure("comparison summary", userID, err)
	}

	return &dto.ComparisonSummary{
		CurrentMonthExpenses:  sumExpenses(currentMonthExpenses),
		PreviousMonthExpenses: sumExpenses(previousMonthExpenses),
		CurrentMonthIncomes:   sumIncomes(currentMonthIncomes),
		PreviousMonthIncomes:  sumIncomes(previousMonthIncomes),
		CurrentYearExpenses:   sumExpenses(currentYearExpenses),
		PreviousYearExpenses:  sumExpenses(previousYearExpenses),
		CurrentYearIncomes:    sumIncomes(currentYearIncomes),
		PreviousYearIncomes:   sumIncomes(previousYearIncomes),
	}, nil
}

// GetSavingsRate computes ((income − expense) / income) × 100 per month,
// rounded to two decimal places half-up. Months with zero or negative
// income get exactly 0.
func (s *StatsService) GetSavingsRate(ctx context.Context, userID uuid.UUID, year int) (*dto.SavingsSummary, error) {
	expenses, err := s.expenses.FindByYear(ctx, year, userID)
	if err != nil {
		return nil, s.storeFailure("savings rate", userID, err)
	}
	incomes, err := s.incomes.FindByYear(ctx, year, userID)
	if err != nil {
		return nil, s.storeFailure("savings rate", userID, err)
	}

	monthlyIncomeTotals := make(map[int]decimal.Decimal)
	for _, income := range incomes {
		month := int(income.Date.Month())
		monthlyIncomeTotals[month] = monthlyIncomeTotals[month].Add(income.Amount)
	}
	monthlyExpenseTotals := make(map[int]decimal.Decimal)
	for _, expense := range expenses {
		month := int(expense.Date.Month())
		monthlyExpenseTotals[month] = monthlyExpenseTotals[month].Add(expense.Amount)
	}

	monthlySavingsRate := make(map[int]decimal.Decimal, 12)
	for month := 1; month <= 12; month++ {
		income := monthlyIncomeTotals[month]
		expense := monthlyExpenseTotals[month]
		if income.IsPositive() {
			rate := income.Sub(expense).Mul(oneHundred).DivRound(income, 2)
			monthlySavingsRate[month] = rate
		} else {
			monthlySavingsRate[month] = decimal.Zero
		}
	}

	return &dto.SavingsSummary{MonthlySavingsRate: monthlySavingsRate}, nil
}

// GetGrandTotals sums all of the user's incomes and expenses with no time
// filtering.
func (s *StatsService) GetGrandTotals(ctx context.Context, userID uuid.UUID) (*dto.GrandTotalSummary, error) {
	expenses, err := s.expenses.FindByUser(ctx, userID)
	if err != nil {
		return nil, s.storeFailure("grand totals", userID, err)
	}
	incomes, err := s.incomes.FindByUser(ctx, userID)
	if err != nil {
		return nil, s.storeFailure("grand totals", userID, err)
	}

	totalExpenses := sumExpenses(expenses)
	totalIncomes := sumIncomes(incomes)

	return &dto.GrandTotalSummary{
		TotalIncomes:  totalIncomes,
		TotalExpenses: totalExpenses,
		NetBalance:    totalIncomes.Sub(totalExpenses),
	}, nil
}

func (s *StatsService) recordsByYear(ctx context.Context, userID uuid.UUID, txType models.TransactionType, year int) ([]dto.TransactionRecord, error) {
	if txType == models.TypeIncome {
		incomes, err := s.incomes.FindByYear(ctx, year, userID)
		if err != nil {
			return nil, s.storeFailure("yearly summary", userID, err)
		}
		return s.incomeRecords(incomes), nil
	}

	expenses, err := s.expenses.FindByYear(ctx, year, userID)
	if err != nil {
		return nil, s.storeFailure("yearly summary", userID, err)
	}
	return s.expenseRecords(ctx, userID, expenses)
}

func (s *StatsService) expenseRecords(ctx context.Context, userID uuid.UUID, expenses []*models.Expense) ([]dto.TransactionRecord, error) {
	subCategories, err := s.subCategoryIndex(ctx, userID)
	if err != nil {
		return nil, err
	}

	records := make([]dto.TransactionRecord, 0, len(expenses))
	for _, expense := range expenses {
		record := dto.TransactionRecord{
			ID:               expense.ID.String(),
			Type:             string(models.TypeExpense),
			Description:      expense.Description,
			Amount:           expense.Amount,
			Date:             expense.Date,
			Recurring:        expense.Recurring,
			RecurrencePeriod: string(expense.RecurrencePeriod),
			CurrencyCode:     expense.CurrencyCode,
			SubCategoryID:    expense.SubCategoryID,
		}
		if sub, ok := subCategories[expense.SubCategoryID]; ok {
			record.Category = sub.Category.DisplayName()
			record.SubCategory = sub.Name
		}
		records = append(records, record)
	}
	return records, nil
}

func (s *StatsService) incomeRecords(incomes []*models.Income) []dto.TransactionRecord {
	records := make([]dto.TransactionRecord, 0, len(incomes))
	for _, income := range incomes {
		records = append(records, dto.TransactionRecord{
			ID:               income.ID.String(),
			Type:             string(models.TypeIncome),
			Description:      income.Description,
			Amount:           income.Amount,
			Date:             income.Date,
			Recurring:        income.Recurring,
			RecurrencePeriod: string(income.RecurrencePeriod),
			CurrencyCode:     income.CurrencyCode,
			Source:           income.Source,
		})
	}
	return records
}

func (s *StatsService) subCategoryIndex(ctx context.Context, userID uuid.UUID) (map[int64]*models.SubCategory, error) {
	subs, err := s.subCategories.FindByUser(ctx, userID)
	if err != nil {
		return nil, s.storeFailure("subcategory lookup", userID, err)
	}
	index := make(map[int64]*models.SubCategory, len(subs))
	for _, sub := range subs {
		index[sub.ID] = sub
	}
	return index, nil
}

func (s *StatsService) storeFailure(operation string, userID uuid.UUID, err error) error {
	s.logger.Error("Aggregation aborted on store failure",
		zap.String("operation", operation),
		zap.String("user_id", userID.String()),
		zap.Error(err),
	)
	return fmt.Errorf("%s for user %s: %w", operation, userID, err)
}

func sumExpenses(expenses []*models.Expense) decimal.Decimal {
	total := decimal.Zero
	for _, expense := range expenses {
		total = total.Add(expense.Amount)
	}
	return total
}

func sumIncomes(incomes []*models.Income) decimal.Decimal {
	total := decimal.Zero
	for _, income := range incomes {
		total = total.Add(income.Amount)
	}
	return total
}
