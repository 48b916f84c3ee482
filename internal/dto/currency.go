package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"finman/internal/models"
)

type CurrencyResponse struct {
	ID              int64           `json:"id"`
	Code            string          `json:"code"`
	Name            string          `json:"name"`
	Rate            decimal.Decimal `json:"rate"`
	LastTimeUpdated time.Time       `json:"lastTimeUpdated"`
}

func NewCurrencyResponse(c *models.Currency) *CurrencyResponse {
	return &CurrencyResponse{
		ID:              c.ID,
		Code:            c.Code,
		Name:            c.Name,
		Rate:            c.Rate,
		LastTimeUpdated: c.LastTimeUpdated,
	}
}

type CurrencyUpdateRequest struct {
	CurrencyCode   string `json:"currencyCode"`
	ConvertAmounts bool   `json:"convertAmounts"`
}
