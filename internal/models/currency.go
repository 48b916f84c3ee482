package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Currency is one row of the base-currency-relative rate table. Rows are
// upserted whenever fresh rates are fetched and never deleted.
type Currency struct {
	ID              int64           `db:"id"`
	Code            string          `db:"code"`
	Name            string          `db:"name"`
	Rate            decimal.Decimal `db:"rate"`
	LastTimeUpdated time.Time       `db:"last_time_updated"`
}
