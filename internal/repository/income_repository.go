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

var incomeColumns = []string{
	"id", "user_id", "source", "description", "amount", "date",
	"recurring", "recurrence_period", "currency_code", "created_at", "updated_at",
}

type IncomeRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewIncomeRepository(db *pgxpool.Pool, logger *zap.Logger) *IncomeRepository {
	return &IncomeRepository{
		db:     db,
		logger: logger,
	}
}

func (r *IncomeRepository) Save(ctx context.Context, income *models.Income) error {
	now := time.Now()
	if income.ID == uuid.Nil {
		income.ID = uuid.New()
	}
	if income.CreatedAt.IsZero() {
		income.CreatedAt = now
	}
	income.UpdatedAt = now

	query := squirrel.Insert("incomes").
		Columns(incomeColumns...).
		Values(income.ID, income.UserID, income.Source, income.Description,
			income.Amount, income.Date, income.Recurring,
			nullablePeriod(income.RecurrencePeriod), income.CurrencyCode,
			income.CreatedAt, income.UpdatedAt).
		Suffix("ON CONFLICT (id) DO NOTHING").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *IncomeRepository) Update(ctx context.Context, income *models.Income) error {
	income.UpdatedAt = time.Now()

	query := squirrel.Update("incomes").
		Set("source", income.Source).
		Set("description", income.Description).
		Set("amount", income.Amount).
		Set("date", income.Date).
		Set("recurring", income.Recurring).
		Set("recurrence_period", nullablePeriod(income.RecurrencePeriod)).
		Set("currency_code", income.CurrencyCode).
		Set("updated_at", income.UpdatedAt).
		Where(squirrel.Eq{"id": income.ID}).
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

func (r *IncomeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := squirrel.Delete("incomes").
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

func (r *IncomeRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Income, error) {
	query := squirrel.Select(incomeColumns...).
		From("incomes").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	row := r.db.QueryRow(ctx, sql, args...)
	income, err := scanIncome(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return income, nil
}

func (r *IncomeRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*models.Income, error) {
	return r.findWhere(ctx, squirrel.Eq{"user_id": userID})
}

// FindRecurring returns recurring incomes across all users.
func (r *IncomeRepository) FindRecurring(ctx context.Context) ([]*models.Income, error) {
	return r.findWhere(ctx, squirrel.Eq{"recurring": true})
}

func (r *IncomeRepository) FindByYear(ctx context.Context, year int, userID uuid.UUID) ([]*models.Income, error) {
	return r.findWhere(ctx,
		squirrel.And{
			squirrel.Eq{"user_id": userID},
			squirrel.Expr("EXTRACT(YEAR FROM date) = ?", year),
		})
}

func (r *IncomeRepository) FindByYearAndMonth(ctx context.Context, year, month int, userID uuid.UUID) ([]*models.Income, error) {
	return r.findWhere(ctx,
		squirrel.And{
			squirrel.Eq{"user_id": userID},
			squirrel.Expr("EXTRACT(YEAR FROM date) = ?", year),
			squirrel.Expr("EXTRACT(MONTH FROM date) = ?", month),
		})
}

// FindAll returns every income in the ledger, for the bulk currency rewrite.
func (r *IncomeRepository) FindAll(ctx context.Context) ([]*models.Income, error) {
	return r.findWhere(ctx, nil)
}

func (r *IncomeRepository) MinYear(ctx context.Context, userID uuid.UUID) (int, error) {
	return r.yearBound(ctx, "MIN", userID)
}

func (r *IncomeRepository) MaxYear(ctx context.Context, userID uuid.UUID) (int, error) {
	return r.yearBound(ctx, "MAX", userID)
}

func (r *IncomeRepository) yearBound(ctx context.Context, fn string, userID uuid.UUID) (int, error) {
	query := squirrel.Select(fn + "(EXTRACT(YEAR FROM date))::int").
		From("incomes").
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

func (r *IncomeRepository) findWhere(ctx context.Context, pred interface{}) ([]*models.Income, error) {
	query := squirrel.Select(incomeColumns...).
		From("incomes").
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

	var incomes []*models.Income
	for rows.Next() {
		income, err := scanIncome(rows)
		if err != nil {
			return nil, err
		}
		incomes = append(incomes, income)
	}
	return incomes, rows.Err()
}

func scanIncome(row pgx.Row) (*models.Income, error) {
	var income models.Income
	var period *string
	if err := row.Scan(
		&income.ID, &income.UserID, &income.Source, &income.Description,
		&income.Amount, &income.Date, &income.Recurring, &period,
		&income.CurrencyCode, &income.CreatedAt, &income.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if period != nil {
		income.RecurrencePeriod = models.RecurrencePeriod(*period)
	}
	return &income, nil
}
