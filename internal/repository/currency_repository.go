package repository

import (
	"context"
	"errors"

	"finman/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type CurrencyRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewCurrencyRepository(db *pgxpool.Pool, logger *zap.Logger) *CurrencyRepository {
	return &CurrencyRepository{
		db:     db,
		logger: logger,
	}
}

// Upsert inserts or refreshes a currency row keyed by code. Currency rows
// are never deleted, only refreshed.
func (r *CurrencyRepository) Upsert(ctx context.Context, currency *models.Currency) error {
	query := squirrel.Insert("currencies").
		Columns("code", "name", "rate", "last_time_updated").
		Values(currency.Code, currency.Name, currency.Rate, currency.LastTimeUpdated).
		Suffix("ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name, rate = EXCLUDED.rate, last_time_updated = EXCLUDED.last_time_updated").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *CurrencyRepository) FindByCode(ctx context.Context, code string) (*models.Currency, error) {
	query := squirrel.Select("id", "code", "name", "rate", "last_time_updated").
		From("currencies").
		Where(squirrel.Eq{"code": code}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var currency models.Currency
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&currency.ID, &currency.Code, &currency.Name, &currency.Rate, &currency.LastTimeUpdated,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &currency, nil
}

func (r *CurrencyRepository) FindAll(ctx context.Context) ([]*models.Currency, error) {
	query := squirrel.Select("id", "code", "name", "rate", "last_time_updated").
		From("currencies").
		OrderBy("code").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var currencies []*models.Currency
	for rows.Next() {
		var currency models.Currency
		if err := rows.Scan(
			&currency.ID, &currency.Code, &currency.Name, &currency.Rate, &currency.LastTimeUpdated,
		); err != nil {
			return nil, err
		}
		currencies = append(currencies, &currency)
	}
	return currencies, rows.Err()
}
