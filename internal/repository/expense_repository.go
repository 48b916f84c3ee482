package repository

import (
	"context"
	"errors"
	"time"

	"finman/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var ErrNotFound = errors.New("record not found")

var expenseColumns = []string{
	"id", "user_id", "description", "amount", "subcategory_id", "date",
	"recurring", "recurrence_period", "currency_code", "created_at", "updated_at",
}

type ExpenseRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewExpenseRepository(db *pgxpool.Pool, logger *zap.Logger) *ExpenseRepository {
	return &ExpenseRepository{
		db:     db,
		logger: logger,
	}
}

func (r *ExpenseRepository) Save(ctx context.Context, expense *models.Expense) error {
	now := time.Now()
	if expense.ID == uuid.Nil {
		expense.ID = uuid.New()
	}
	if expense.CreatedAt.IsZero() {
		expense.CreatedAt = now
	}
	expense.UpdatedAt = now

	// Recurrence occurrences arrive under deterministic IDs; re-inserting
	// one after a partial failure is a no-op.
	query := squirrel.Insert("expenses").
		Columns(expenseColumns...).
		Values(expense.ID, expense.UserID, expense.Description, expense.Amount,
			expense.SubCategoryID, expense.Date, expense.Recurring,
			nullablePeriod(expense.RecurrencePeriod), expense.CurrencyCode,
			expense.CreatedAt, expense.UpdatedAt).
		Suffix("ON CONFLICT (id) DO NOTHING").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *ExpenseRepository) Update(ctx context.Context, expense *models.Expense) error {
	expense.UpdatedAt = time.Now()

	query := squirrel.Update("expenses").
		Set("description", expense.Description).
		Set("amount", expense.Amount).
		Set("subcategory_id", expense.SubCategoryID).
		Set("date", expense.Date).
		Set("recurring", expense.Recurring).
		Set("recurrence_period", nullablePeriod(expense.RecurrencePeriod)).
		Set("currency_code", expense.CurrencyCode).
		Set("updated_at", expense.UpdatedAt).
		Where(squirrel.Eq{"id": expense.ID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ExpenseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := squirrel.Delete("expenses").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ExpenseRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Expense, error) {
	query := squirrel.Select(expenseColumns...).
		From("expenses").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	row := r.db.QueryRow(ctx, sql, args...)
	expense, err := scanExpense(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return expense, nil
}

func (r *ExpenseRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*models.Expense, error) {
	return r.findWhere(ctx, squirrel.Eq{"user_id": userID})
}

// FindRecurring returns recurring expenses across all users. The recurrence
// engine runs once per day over the whole ledger.
func (r *ExpenseRepository) FindRecurring(ctx context.Context) ([]*models.Expense, error) {
	return r.findWhere(ctx, squirrel.Eq{"recurring": true})
}

func (r *ExpenseRepository) FindByYear(ctx context.Context, year int, userID uuid.UUID) ([]*models.Expense, error) {
	return r.findWhere(ctx,
		squirrel.And{
			squirrel.Eq{"user_id": userID},
			squirrel.Expr("EXTRACT(YEAR FROM date) = ?", year),
		})
}

func (r *ExpenseRepository) FindByYearAndMonth(ctx context.Context, year, month int, userID uuid.UUID) ([]*models.Expense, error) {
	return r.findWhere(ctx,
		squirrel.And{
			squirrel.Eq{"user_id": userID},
			squirrel.Expr("EXTRACT(YEAR FROM date) = ?", year),
			squirrel.Expr("EXTRACT(MONTH FROM date) = ?", month),
		})
}

// FindAll returns every expense in the ledger, for the bulk currency rewrite.
func (r *ExpenseRepository) FindAll(ctx context.Context) ([]*models.Expense, error) {
	return r.findWhere(ctx, nil)
}

func (r *ExpenseRepository) MinYear(ctx context.Context, userID uuid.UUID) (int, error) {
	return r.yearBound(ctx, "MIN", userID)
}

func (r *ExpenseRepository) MaxYear(ctx context.Context, userID uuid.UUID) (int, error) {
	return r.yearBound(ctx, "MAX", userID)
}

func (r *ExpenseRepository) yearBound(ctx context.Context, fn string, userID uuid.UUID) (int, error) {
	query := squirrel.Select(fn + "(EXTRACT(YEAR FROM date))::int").
		From("expenses").
		Where(squirrel.Eq{"user_id": userID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, err
	}

	var year *int
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&year); err != nil {
		return 0, err
	}
	if year == nil {
		return 0, ErrNotFound
	}
	return *year, nil
}

func (r *ExpenseRepository) findWhere(ctx context.Context, pred interface{}) ([]*models.Expense, error) {
	query := squirrel.Select(expenseColumns...).
		From("expenses").
		OrderBy("date DESC").
		PlaceholderFormat(squirrel.Dollar)
	if pred != nil {
		query = query.Where(pred)
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, expense)
	}
	return expenses, rows.Err()
}

func scanExpense(row pgx.Row) (*models.Expense, error) {
	var expense models.Expense
	var period *string
	if err := row.Scan(
		&expense.ID, &expense.UserID, &expense.Description, &expense.Amount,
		&expense.SubCategoryID, &expense.Date, &expense.Recurring, &period,
		&expense.CurrencyCode, &expense.CreatedAt, &expense.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if period != nil {
		expense.RecurrencePeriod = models.RecurrencePeriod(*period)
	}
	return &expense, nil
}

// nullablePeriod maps the empty period to NULL so non-recurring rows carry
// no period value.
func nullablePeriod(p models.RecurrencePeriod) *string {
	if p == "" {
		return nil
	}
	s := string(p)
	return &s
}
