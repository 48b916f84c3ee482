package models

import (
	"github.com/google/uuid"
)

type ExpenseCategory string

const (
	CategorySubscription   ExpenseCategory = "SUBSCRIPTION"
	CategoryFood           ExpenseCategory = "FOOD"
	CategoryUtilities      ExpenseCategory = "UTILITIES"
	CategoryEntertainment  ExpenseCategory = "ENTERTAINMENT"
	CategoryTransportation ExpenseCategory = "TRANSPORTATION"
	CategoryHealthcare     ExpenseCategory = "HEALTHCARE"
	CategoryOther          ExpenseCategory = "OTHER"
)

var categoryDisplayNames = map[ExpenseCategory]string{
	CategorySubscription:   "Subscription",
	CategoryFood:           "Food",
	CategoryUtilities:      "Utilities",
	CategoryEntertainment:  "Entertainment",
	CategoryTransportation: "Transportation",
	CategoryHealthcare:     "Healthcare",
	CategoryOther:          "Other",
}

// DisplayName returns the human-readable category name used in the
// category-breakdown report.
func (c ExpenseCategory) DisplayName() string {
	if name, ok := categoryDisplayNames[c]; ok {
		return name
	}
	return string(c)
}

func (c ExpenseCategory) Valid() bool {
	_, ok := categoryDisplayNames[c]
	return ok
}

// SubCategory is a user-defined grouping under one of the fixed expense
// categories. Every expense references exactly one subcategory.
type SubCategory struct {
	ID       int64           `db:"id"`
	UserID   uuid.UUID       `db:"user_id"`
	Category ExpenseCategory `db:"category"`
	Name     string          `db:"name"`
}
