package service

import (
	"context"
	"testing"

	"finman/internal/dto"
	"finman/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type txFixture struct {
	svc           *TransactionService
	expenses      *memExpenseStore
	incomes       *memIncomeStore
	subCategories *memSubCategoryStore
	userID        uuid.UUID
	subID         int64
}

func newTxFixture(t *testing.T) *txFixture {
	t.Helper()

	f := &txFixture{
		expenses:      newMemExpenseStore(),
		incomes:       newMemIncomeStore(),
		subCategories: newMemSubCategoryStore(),
		userID:        uuid.New(),
	}
	currencies := newMemCurrencyStore("USD", "EUR")
	f.svc = NewTransactionService(f.expenses, f.incomes, currencies, f.subCategories, testLogger())

	sub := &models.SubCategory{UserID: f.userID, Category: models.CategoryFood, Name: "Groceries"}
	require.NoError(t, f.subCategories.Create(context.Background(), sub))
	f.subID = sub.ID
	return f
}

func validExpenseRequest(subID int64) *dto.ExpenseRequest {
	return &dto.ExpenseRequest{
		Description:   "Weekly shop",
		Amount:        mustDecimal("45.50"),
		SubCategoryID: subID,
		Date:          "2024-05-11",
		CurrencyCode:  "USD",
	}
}

func TestCreateExpense(t *testing.T) {
	f := newTxFixture(t)

	expense, err := f.svc.CreateExpense(context.Background(), f.userID, validExpenseRequest(f.subID))
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, expense.ID)
	assert.True(t, expense.Date.Equal(date(2024, 5, 11)))
	assert.False(t, expense.Recurring)

	stored := f.expenses.get(expense.ID)
	require.NotNil(t, stored)
	assert.True(t, stored.Amount.Equal(mustDecimal("45.50")))
}

func TestCreateExpenseValidation(t *testing.T) {
	f := newTxFixture(t)

	tests := []struct {
		name   string
		mutate func(*dto.ExpenseRequest)
	}{
		{"zero amount", func(r *dto.ExpenseRequest) { r.Amount = mustDecimal("0") }},
		{"negative amount", func(r *dto.ExpenseRequest) { r.Amount = mustDecimal("-5.00") }},
		{"bad date", func(r *dto.ExpenseRequest) { r.Date = "11/05/2024" }},
		{"recurring without period", func(r *dto.ExpenseRequest) { r.Recurring = true }},
		{"recurring with bad period", func(r *dto.ExpenseRequest) {
			r.Recurring = true
			r.RecurrencePeriod = "DAILY"
		}},
		{"period without recurring", func(r *dto.ExpenseRequest) { r.RecurrencePeriod = "MONTHLY" }},
		{"short currency code", func(r *dto.ExpenseRequest) { r.CurrencyCode = "US" }},
		{"unknown currency", func(r *dto.ExpenseRequest) { r.CurrencyCode = "XAU" }},
		{"missing subcategory", func(r *dto.ExpenseRequest) { r.SubCategoryID = 999 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validExpenseRequest(f.subID)
			tt.mutate(req)
			_, err := f.svc.CreateExpense(context.Background(), f.userID, req)
			assert.True(t, IsValidationError(err), "expected validation error, got %v", err)
		})
	}

	all, _ := f.expenses.FindAll(context.Background())
	assert.Empty(t, all, "rejected requests persist nothing")
}

func TestCreateRecurringExpense(t *testing.T) {
	f := newTxFixture(t)

	req := validExpenseRequest(f.subID)
	req.Recurring = true
	req.RecurrencePeriod = "MONTHLY"

	expense, err := f.svc.CreateExpense(context.Background(), f.userID, req)
	require.NoError(t, err)
	assert.True(t, expense.Recurring)
	assert.Equal(t, models.PeriodMonthly, expense.RecurrencePeriod)
}

func TestCreateExpenseForeignSubCategory(t *testing.T) {
	f := newTxFixture(t)

	foreign := &models.SubCategory{UserID: uuid.New(), Category: models.CategoryFood, Name: "Their groceries"}
	require.NoError(t, f.subCategories.Create(context.Background(), foreign))

	req := validExpenseRequest(foreign.ID)
	_, err := f.svc.CreateExpense(context.Background(), f.userID, req)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestUpdateExpenseOwnership(t *testing.T) {
	f := newTxFixture(t)

	expense, err := f.svc.CreateExpense(context.Background(), f.userID, validExpenseRequest(f.subID))
	require.NoError(t, err)

	_, err = f.svc.UpdateExpense(context.Background(), uuid.New(), expense.ID, validExpenseRequest(f.subID))
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.svc.UpdateExpense(context.Background(), f.userID, uuid.New(), validExpenseRequest(f.subID))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateExpense(t *testing.T) {
	f := newTxFixture(t)

	expense, err := f.svc.CreateExpense(context.Background(), f.userID, validExpenseRequest(f.subID))
	require.NoError(t, err)

	req := validExpenseRequest(f.subID)
	req.Amount = mustDecimal("60.00")
	req.Description = "Bigger shop"

	updated, err := f.svc.UpdateExpense(context.Background(), f.userID, expense.ID, req)
	require.NoError(t, err)
	assert.True(t, updated.Amount.Equal(mustDecimal("60.00")))
	assert.Equal(t, "Bigger shop", updated.Description)
}

func TestDeleteExpense(t *testing.T) {
	f := newTxFixture(t)

	expense, err := f.svc.CreateExpense(context.Background(), f.userID, validExpenseRequest(f.subID))
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.DeleteExpense(context.Background(), uuid.New(), expense.ID), ErrForbidden)
	require.NoError(t, f.svc.DeleteExpense(context.Background(), f.userID, expense.ID))
	assert.ErrorIs(t, f.svc.DeleteExpense(context.Background(), f.userID, expense.ID), ErrNotFound)
}

func TestCreateIncomeRequiresSource(t *testing.T) {
	f := newTxFixture(t)

	req := &dto.IncomeRequest{
		Description:  "Monthly pay",
		Amount:       mustDecimal("2500.00"),
		Date:         "2024-05-01",
		CurrencyCode: "EUR",
	}
	_, err := f.svc.CreateIncome(context.Background(), f.userID, req)
	assert.True(t, IsValidationError(err))

	req.Source = "Salary"
	income, err := f.svc.CreateIncome(context.Background(), f.userID, req)
	require.NoError(t, err)
	assert.Equal(t, "Salary", income.Source)
	assert.Equal(t, "EUR", income.CurrencyCode)
}

func TestSubCategoryLifecycle(t *testing.T) {
	f := newTxFixture(t)
	subSvc := NewSubCategoryService(f.subCategories, f.expenses, testLogger())

	sub, err := subSvc.Create(context.Background(), f.userID, &dto.SubCategoryRequest{
		Category: "ENTERTAINMENT",
		Name:     "Concerts",
	})
	require.NoError(t, err)
	assert.Equal(t, models.CategoryEntertainment, sub.Category)

	_, err = subSvc.Create(context.Background(), f.userID, &dto.SubCategoryRequest{Category: "GAMBLING", Name: "Casino"})
	assert.True(t, IsValidationError(err))

	subs, err := subSvc.List(context.Background(), f.userID)
	require.NoError(t, err)
	assert.Len(t, subs, 2)

	// A subcategory referenced by an expense cannot be deleted.
	req := validExpenseRequest(sub.ID)
	_, err = f.svc.CreateExpense(context.Background(), f.userID, req)
	require.NoError(t, err)
	err = subSvc.Delete(context.Background(), f.userID, sub.ID)
	assert.True(t, IsValidationError(err))

	require.NoError(t, subSvc.Delete(context.Background(), f.userID, f.subID))
	assert.ErrorIs(t, subSvc.Delete(context.Background(), f.userID, f.subID), ErrNotFound)
	assert.ErrorIs(t, subSvc.Delete(context.Background(), uuid.New(), sub.ID), ErrForbidden)
}
