package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"finman/internal/models"
)

type ExpenseRequest struct {
	Description      string          `json:"description"`
	Amount           decimal.Decimal `json:"amount"`
	SubCategoryID    int64           `json:"subCategoryId"`
	Date             string          `json:"date"`
	Recurring        bool            `json:"recurring"`
	RecurrencePeriod string          `json:"recurrencePeriod"`
	CurrencyCode     string          `json:"currencyCode"`
}

type IncomeRequest struct {
	Source           string          `json:"source"`
	Description      string          `json:"description"`
	Amount           decimal.Decimal `json:"amount"`
	Date             string          `json:"date"`
	Recurring        bool            `json:"recurring"`
	RecurrencePeriod string          `json:"recurrencePeriod"`
	CurrencyCode     string          `json:"currencyCode"`
}

type ExpenseResponse struct {
	ID               string          `json:"id"`
	Description      string          `json:"description"`
	Amount           decimal.Decimal `json:"amount"`
	SubCategoryID    int64           `json:"subCategoryId"`
	Date             string          `json:"date"`
	Recurring        bool            `json:"recurring"`
	RecurrencePeriod string          `json:"recurrencePeriod,omitempty"`
	CurrencyCode     string          `json:"currencyCode"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

func NewExpenseResponse(e *models.Expense) *ExpenseResponse {
	return &ExpenseResponse{
		ID:               e.ID.String(),
		Description:      e.Description,
		Amount:           e.Amount,
		SubCategoryID:    e.SubCategoryID,
		Date:             e.Date.Format("2006-01-02"),
		Recurring:        e.Recurring,
		RecurrencePeriod: string(e.RecurrencePeriod),
		CurrencyCode:     e.CurrencyCode,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
}

type IncomeResponse struct {
	ID               string          `json:"id"`
	Source           string          `json:"source"`
	Description      string          `json:"description"`
	Amount           decimal.Decimal `json:"amount"`
	Date             string          `json:"date"`
	Recurring        bool            `json:"recurring"`
	RecurrencePeriod string          `json:"recurrencePeriod,omitempty"`
	CurrencyCode     string          `json:"currencyCode"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

func NewIncomeResponse(i *models.Income) *IncomeResponse {
	return &IncomeResponse{
		ID:               i.ID.String(),
		Source:           i.Source,
		Description:      i.Description,
		Amount:           i.Amount,
		Date:             i.Date.Format("2006-01-02"),
		Recurring:        i.Recurring,
		RecurrencePeriod: string(i.RecurrencePeriod),
		CurrencyCode:     i.CurrencyCode,
		CreatedAt:        i.CreatedAt,
		UpdatedAt:        i.UpdatedAt,
	}
}

type SubCategoryRequest struct {
	Category string `json:"category"`
	Name     string `json:"name"`
}

type SubCategoryResponse struct {
	ID       int64  `json:"id"`
	Category string `json:"category"`
	Name     string `json:"name"`
}

func NewSubCategoryResponse(sub *models.SubCategory) *SubCategoryResponse {
	return &SubCategoryResponse{
		ID:       sub.ID,
		Category: string(sub.Category),
		Name:     sub.Name,
	}
}
