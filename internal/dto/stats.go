package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionRecord is the per-transaction detail carried inside summary
// responses.
type TransactionRecord struct {
	ID               string          `json:"id"`
	Type             string          `json:"type"`
	Description      string          `json:"description"`
	Amount           decimal.Decimal `json:"amount"`
	Date             time.Time       `json:"date"`
	Recurring        bool            `json:"recurring"`
	RecurrencePeriod string          `json:"recurrencePeriod,omitempty"`
	CurrencyCode     string          `json:"currencyCode"`
	// Expense-only fields
	Category      string `json:"category,omitempty"`
	SubCategory   string `json:"subCategory,omitempty"`
	SubCategoryID int64  `json:"subCategoryId,omitempty"`
	// Income-only field
	Source string `json:"source,omitempty"`
}

type YearlySummary struct {
	Records       []TransactionRecord     `json:"records"`
	MonthlyTotals map[int]decimal.Decimal `json:"monthlyTotals"`
	YearlyTotal   decimal.Decimal         `json:"yearlyTotal"`
}

type MonthlySummary struct {
	Records      []TransactionRecord `json:"records"`
	MonthlyTotal decimal.Decimal     `json:"monthlyTotal"`
}

type CombinedYearlySummary struct {
	MonthlyExpenses            map[int]decimal.Decimal `json:"monthlyExpenses"`
	MonthlyIncomes             map[int]decimal.Decimal `json:"monthlyIncomes"`
	MonthlyExpenseTransactions map[int]int64           `json:"monthlyExpenseTransactions"`
	MonthlyIncomeTransactions  map[int]int64           `json:"monthlyIncomeTransactions"`
	MinYear                    *int                    `json:"minYear"`
	MaxYear                    *int                    `json:"maxYear"`
}

type CombinedMonthlySummary struct {
	DailyExpenses            map[int]decimal.Decimal `json:"dailyExpenses"`
	DailyIncomes             map[int]decimal.Decimal `json:"dailyIncomes"`
	DailyExpenseTransactions map[int]int64           `json:"dailyExpenseTransactions"`
	DailyIncomeTransactions  map[int]int64           `json:"dailyIncomeTransactions"`
}

type CategoryBreakdownSummary struct {
	ExpensesByCategory map[string]decimal.Decimal `json:"expensesByCategory"`
	IncomesBySource    map[string]decimal.Decimal `json:"incomesBySource"`
}

type ComparisonSummary struct {
	CurrentMonthExpenses  decimal.Decimal `json:"currentMonthExpenses"`
	PreviousMonthExpenses decimal.Decimal `json:"previousMonthExpenses"`
	CurrentMonthIncomes   decimal.Decimal `json:"currentMonthIncomes"`
	PreviousMonthIncomes  decimal.Decimal `json:"previousMonthIncomes"`
	CurrentYearExpenses   decimal.Decimal `json:"currentYearExpenses"`
	PreviousYearExpenses  decimal.Decimal `json:"previousYearExpenses"`
	CurrentYearIncomes    decimal.Decimal `json:"currentYearIncomes"`
	PreviousYearIncomes   decimal.Decimal `json:"previousYearIncomes"`
}

type SavingsSummary struct {
	MonthlySavingsRate map[int]decimal.Decimal `json:"monthlySavingsRate"`
}

type GrandTotalSummary struct {
	TotalIncomes  decimal.Decimal `json:"totalIncomes"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
	NetBalance    decimal.Decimal `json:"netBalance"`
}
