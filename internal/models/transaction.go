package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TypeExpense TransactionType = "expense"
	TypeIncome  TransactionType = "income"
)

type RecurrencePeriod string

const (
	PeriodWeekly  RecurrencePeriod = "WEEKLY"
	PeriodMonthly RecurrencePeriod = "MONTHLY"
	PeriodYearly  RecurrencePeriod = "YEARLY"
)

// Valid reports whether the period is one of the recognized values.
func (p RecurrencePeriod) Valid() bool {
	switch p {
	case PeriodWeekly, PeriodMonthly, PeriodYearly:
		return true
	}
	return false
}

// Advance returns the date one period after d, preserving time-of-day.
// Calendar overflow normalizes the way time.AddDate does (Jan 31 + 1 month
// lands on Mar 2 or Mar 3). ok is false for unrecognized periods.
func (p RecurrencePeriod) Advance(d time.Time) (next time.Time, ok bool) {
	switch p {
	case PeriodWeekly:
		return d.AddDate(0, 0, 7), true
	case PeriodMonthly:
		return d.AddDate(0, 1, 0), true
	case PeriodYearly:
		return d.AddDate(1, 0, 0), true
	}
	return time.Time{}, false
}

// Occurrence IDs are derived from the source transaction and the occurrence
// date, so re-creating the same occurrence after a partial failure hits the
// same primary key and inserts nothing.
var occurrenceNamespace = uuid.MustParse("6f1c24b8-9d73-4dd0-a6a8-2f22c9e3a41d")

func occurrenceID(sourceID uuid.UUID, date time.Time) uuid.UUID {
	return uuid.NewSHA1(occurrenceNamespace, []byte(sourceID.String()+"|"+date.UTC().Format(time.RFC3339)))
}

// Transaction is the shared view over Expense and Income used by the
// recurrence, conversion and statistics engines.
type Transaction interface {
	GetID() uuid.UUID
	GetUserID() uuid.UUID
	GetAmount() decimal.Decimal
	SetAmount(decimal.Decimal)
	GetDate() time.Time
	SetDate(time.Time)
	GetCurrency() string
	SetCurrency(string)
	IsRecurring() bool
	GetPeriod() RecurrencePeriod
	Type() TransactionType
	// WithDate returns a copy of the transaction dated at t under a
	// deterministic occurrence ID, ready to be persisted as a new
	// occurrence.
	WithDate(t time.Time) Transaction
}

type Expense struct {
	ID               uuid.UUID        `db:"id"`
	UserID           uuid.UUID        `db:"user_id"`
	Description      string           `db:"description"`
	Amount           decimal.Decimal  `db:"amount"`
	SubCategoryID    int64            `db:"subcategory_id"`
	Date             time.Time        `db:"date"`
	Recurring        bool             `db:"recurring"`
	RecurrencePeriod RecurrencePeriod `db:"recurrence_period"`
	CurrencyCode     string           `db:"currency_code"`
	CreatedAt        time.Time        `db:"created_at"`
	UpdatedAt        time.Time        `db:"updated_at"`
}

func (e *Expense) GetID() uuid.UUID            { return e.ID }
func (e *Expense) GetUserID() uuid.UUID        { return e.UserID }
func (e *Expense) GetAmount() decimal.Decimal  { return e.Amount }
func (e *Expense) SetAmount(a decimal.Decimal) { e.Amount = a }
func (e *Expense) GetDate() time.Time          { return e.Date }
func (e *Expense) SetDate(t time.Time)         { e.Date = t }
func (e *Expense) GetCurrency() string         { return e.CurrencyCode }
func (e *Expense) SetCurrency(code string)     { e.CurrencyCode = code }
func (e *Expense) IsRecurring() bool           { return e.Recurring }
func (e *Expense) GetPeriod() RecurrencePeriod { return e.RecurrencePeriod }
func (e *Expense) Type() TransactionType       { return TypeExpense }

func (e *Expense) WithDate(t time.Time) Transaction {
	copied := *e
	copied.ID = occurrenceID(e.ID, t)
	copied.Date = t
	copied.CreatedAt = time.Time{}
	copied.UpdatedAt = time.Time{}
	return &copied
}

type Income struct {
	ID               uuid.UUID        `db:"id"`
	UserID           uuid.UUID        `db:"user_id"`
	Source           string           `db:"source"`
	Description      string           `db:"description"`
	Amount           decimal.Decimal  `db:"amount"`
	Date             time.Time        `db:"date"`
	Recurring        bool             `db:"recurring"`
	RecurrencePeriod RecurrencePeriod `db:"recurrence_period"`
	CurrencyCode     string           `db:"currency_code"`
	CreatedAt        time.Time        `db:"created_at"`
	UpdatedAt        time.Time        `db:"updated_at"`
}

func (i *Income) GetID() uuid.UUID            { return i.ID }
func (i *Income) GetUserID() uuid.UUID        { return i.UserID }
func (i *Income) GetAmount() decimal.Decimal  { return i.Amount }
func (i *Income) SetAmount(a decimal.Decimal) { i.Amount = a }
func (i *Income) GetDate() time.Time          { return i.Date }
func (i *Income) SetDate(t time.Time)         { i.Date = t }
func (i *Income) GetCurrency() string         { return i.CurrencyCode }
func (i *Income) SetCurrency(code string)     { i.CurrencyCode = code }
func (i *Income) IsRecurring() bool           { return i.Recurring }
func (i *Income) GetPeriod() RecurrencePeriod { return i.RecurrencePeriod }
func (i *Income) Type() TransactionType       { return TypeIncome }

func (i *Income) WithDate(t time.Time) Transaction {
	copied := *i
	copied.ID = occurrenceID(i.ID, t)
	copied.Date = t
	copied.CreatedAt = time.Time{}
	copied.UpdatedAt = time.Time{}
	return &copied
}
