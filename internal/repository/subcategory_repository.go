package repository

import (
	"context"
	"errors"

	"finman/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type SubCategoryRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewSubCategoryRepository(db *pgxpool.Pool, logger *zap.Logger) *SubCategoryRepository {
	return &SubCategoryRepository{
		db:     db,
		logger: logger,
	}
}

func (r *SubCategoryRepository) Create(ctx context.Context, sub *models.SubCategory) error {
	query := squirrel.Insert("expense_subcategories").
		Columns("user_id", "category", "name").
		Values(sub.UserID, sub.Category, sub.Name).
		Suffix("RETURNING id").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	return r.db.QueryRow(ctx, sql, args...).Scan(&sub.ID)
}

func (r *SubCategoryRepository) FindByID(ctx context.Context, id int64) (*models.SubCategory, error) {
	query := squirrel.Select("id", "user_id", "category", "name").
		From("expense_subcategories").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var sub models.SubCategory
	err = r.db.QueryRow(ctx, sql, args...).Scan(&sub.ID, &sub.UserID, &sub.Category, &sub.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &sub, nil
}

func (r *SubCategoryRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*models.SubCategory, error) {
	query := squirrel.Select("id", "user_id", "category", "name").
		From("expense_subcategories").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("name").
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

	var subs []*models.SubCategory
	for rows.Next() {
		var sub models.SubCategory
		if err := rows.Scan(&sub.ID, &sub.UserID, &sub.Category, &sub.Name); err != nil {
			return nil, err
		}
		subs = append(subs, &sub)
	}
	return subs, rows.Err()
}

func (r *SubCategoryRepository) Delete(ctx context.Context, id int64) error {
	query := squirrel.Delete("expense_subcategories").
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
