package service

import (
	"context"
	"errors"
	"testing"

	"finman/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdvanceDueGeneratesDueOccurrence(t *testing.T) {
	expenses := newMemExpenseStore()
	incomes := newMemIncomeStore()
	svc := NewRecurrenceService(expenses, incomes, testLogger())

	userID := uuid.New()
	source := &models.Expense{
		ID:               uuid.New(),
		UserID:           userID,
		Description:      "Insurance",
		Amount:           mustDecimal("50.00"),
		SubCategoryID:    1,
		Date:             date(2023, 6, 1),
		Recurring:        true,
		RecurrencePeriod: models.PeriodYearly,
		CurrencyCode:     "USD",
	}
	require.NoError(t, expenses.Save(context.Background(), source))

	// 2024-06-01 is strictly before 2024-06-02, so one occurrence is due.
	generated := svc.AdvanceDue(context.Background(), date(2024, 6, 2))
	assert.Equal(t, 1, generated)

	all, err := expenses.FindByUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, all, 2)

	updated := expenses.get(source.ID)
	require.NotNil(t, updated)
	assert.True(t, updated.Date.Equal(date(2024, 6, 1)), "source date advances to the occurrence date")

	var occurrence *models.Expense
	for _, e := range all {
		if e.ID != source.ID {
			occurrence = e
		}
	}
	require.NotNil(t, occurrence)
	assert.True(t, occurrence.Date.Equal(date(2024, 6, 1)))
	assert.True(t, occurrence.Amount.Equal(mustDecimal("50.00")))
	assert.True(t, occurrence.Recurring)
	assert.Equal(t, models.PeriodYearly, occurrence.RecurrencePeriod)
}

func TestAdvanceDueSkipsNotYetDue(t *testing.T) {
	expenses := newMemExpenseStore()
	incomes := newMemIncomeStore()
	svc := NewRecurrenceService(expenses, incomes, testLogger())

	source := &models.Expense{
		ID:               uuid.New(),
		UserID:           uuid.New(),
		Amount:           mustDecimal("12.50"),
		SubCategoryID:    1,
		Date:             date(2024, 6, 1),
		Recurring:        true,
		RecurrencePeriod: models.PeriodMonthly,
		CurrencyCode:     "USD",
	}
	require.NoError(t, expenses.Save(context.Background(), source))

	// Next occurrence 2024-07-01 is not strictly before now.
	assert.Equal(t, 0, svc.AdvanceDue(context.Background(), date(2024, 7, 1)))

	all, _ := expenses.FindAll(context.Background())
	assert.Len(t, all, 1)
	assert.True(t, expenses.get(source.ID).Date.Equal(date(2024, 6, 1)))
}

func TestAdvanceDueSkipsInvalidPeriod(t *testing.T) {
	expenses := newMemExpenseStore()
	incomes := newMemIncomeStore()
	svc := NewRecurrenceService(expenses, incomes, testLogger())

	source := &models.Expense{
		ID:               uuid.New(),
		UserID:           uuid.New(),
		Amount:           mustDecimal("5.00"),
		SubCategoryID:    1,
		Date:             date(2020, 1, 1),
		Recurring:        true,
		RecurrencePeriod: models.RecurrencePeriod("DAILY"),
		CurrencyCode:     "USD",
	}
	require.NoError(t, expenses.Save(context.Background(), source))

	assert.Equal(t, 0, svc.AdvanceDue(context.Background(), date(2024, 1, 1)))

	all, _ := expenses.FindAll(context.Background())
	assert.Len(t, all, 1)
}

func TestAdvanceDueAtMostOnePeriodPerSourcePerRun(t *testing.T) {
	expenses := newMemExpenseStore()
	incomes := newMemIncomeStore()
	svc := NewRecurrenceService(expenses, incomes, testLogger())

	// Several months behind; each run moves this source one period only.
	source := &models.Expense{
		ID:               uuid.New(),
		UserID:           uuid.New(),
		Amount:           mustDecimal("9.99"),
		SubCategoryID:    1,
		Date:             date(2024, 1, 15),
		Recurring:        true,
		RecurrencePeriod: models.PeriodMonthly,
		CurrencyCode:     "USD",
	}
	require.NoError(t, expenses.Save(context.Background(), source))

	now := date(2024, 6, 1)
	assert.Equal(t, 1, svc.AdvanceDue(context.Background(), now))
	assert.True(t, expenses.get(source.ID).Date.Equal(date(2024, 2, 15)))

	// Occurrences copy the recurrence metadata, so the one generated above
	// is itself a recurring source from here on: the second run advances
	// both it and the original, one period each.
	assert.Equal(t, 2, svc.AdvanceDue(context.Background(), now))
	assert.True(t, expenses.get(source.ID).Date.Equal(date(2024, 3, 15)))
}

func TestAdvanceDueIdempotentForFixedNowAfterCatchUp(t *testing.T) {
	expenses := newMemExpenseStore()
	incomes := newMemIncomeStore()
	svc := NewRecurrenceService(expenses, incomes, testLogger())

	// One period behind: a single run catches up, further runs are no-ops.
	source := &models.Expense{
		ID:               uuid.New(),
		UserID:           uuid.New(),
		Amount:           mustDecimal("9.99"),
		SubCategoryID:    1,
		Date:             date(2024, 4, 15),
		Recurring:        true,
		RecurrencePeriod: models.PeriodMonthly,
		CurrencyCode:     "USD",
	}
	require.NoError(t, expenses.Save(context.Background(), source))

	now := date(2024, 6, 1)
	assert.Equal(t, 1, svc.AdvanceDue(context.Background(), now))
	assert.Equal(t, 0, svc.AdvanceDue(context.Background(), now))
	assert.Equal(t, 0, svc.AdvanceDue(context.Background(), now))

	all, _ := expenses.FindAll(context.Background())
	assert.Len(t, all, 2)
	assert.True(t, expenses.get(source.ID).Date.Equal(date(2024, 5, 15)))
}

func TestAdvanceDueContinuesAfterSaveFailure(t *testing.T) {
	expenses := newMemExpenseStore()
	incomes := newMemIncomeStore()
	svc := NewRecurrenceService(expenses, incomes, testLogger())

	expenses.saveErr = errors.New("disk full")

	expenseSource := &models.Expense{
		ID:               uuid.New(),
		UserID:           uuid.New(),
		Amount:           mustDecimal("3.00"),
		SubCategoryID:    1,
		Date:             date(2024, 1, 1),
		Recurring:        true,
		RecurrencePeriod: models.PeriodWeekly,
		CurrencyCode:     "USD",
	}
	expenses.mu.Lock()
	expenses.items[expenseSource.ID] = expenseSource
	expenses.mu.Unlock()

	incomeSource := &models.Income{
		ID:               uuid.New(),
		UserID:           uuid.New(),
		Source:           "Salary",
		Amount:           mustDecimal("1000.00"),
		Date:             date(2024, 1, 1),
		Recurring:        true,
		RecurrencePeriod: models.PeriodMonthly,
		CurrencyCode:     "USD",
	}
	require.NoError(t, incomes.Save(context.Background(), incomeSource))

	// The expense write fails but the income still advances.
	generated := svc.AdvanceDue(context.Background(), date(2024, 3, 1))
	assert.Equal(t, 1, generated)
	assert.True(t, expenses.get(expenseSource.ID).Date.Equal(date(2024, 1, 1)))
	assert.True(t, incomes.get(incomeSource.ID).Date.Equal(date(2024, 2, 1)))
}

func TestAdvanceDueRecoversWithoutDuplicateAfterUpdateFailure(t *testing.T) {
	expenses := newMemExpenseStore()
	incomes := newMemIncomeStore()
	svc := NewRecurrenceService(expenses, incomes, testLogger())

	source := &models.Expense{
		ID:               uuid.New(),
		UserID:           uuid.New(),
		Amount:           mustDecimal("20.00"),
		SubCategoryID:    1,
		Date:             date(2024, 1, 1),
		Recurring:        true,
		RecurrencePeriod: models.PeriodMonthly,
		CurrencyCode:     "USD",
	}
	require.NoError(t, expenses.Save(context.Background(), source))
	expenses.updateErr[source.ID] = errors.New("connection reset")

	// Occurrence is written, source stays behind, run reports nothing
	// generated.
	generated := svc.AdvanceDue(context.Background(), date(2024, 3, 1))
	assert.Equal(t, 0, generated)

	all, _ := expenses.FindAll(context.Background())
	assert.Len(t, all, 2)
	assert.True(t, expenses.get(source.ID).Date.Equal(date(2024, 1, 1)))

	// Once updates work again the same occurrence is re-created under its
	// deterministic ID, which the store ignores, and the source advances.
	delete(expenses.updateErr, source.ID)
	generated = svc.AdvanceDue(context.Background(), date(2024, 3, 1))
	assert.Equal(t, 1, generated)

	all, _ = expenses.FindAll(context.Background())
	assert.Len(t, all, 2, "retry does not duplicate the occurrence")
	assert.True(t, expenses.get(source.ID).Date.Equal(date(2024, 2, 1)))
}
