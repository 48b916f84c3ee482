package service

import (
	"context"
	"errors"
	"fmt"

	"finman/internal/dto"
	"finman/internal/models"
	"finman/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SubCategoryService manages per-user expense subcategories.
type SubCategoryService struct {
	subCategories SubCategoryStore
	expenses      ExpenseStore
	logger        *zap.Logger
}

func NewSubCategoryService(subCategories SubCategoryStore, expenses ExpenseStore, logger *zap.Logger) *SubCategoryService {
	return &SubCategoryService{
		subCategories: subCategories,
		expenses:      expenses,
		logger:        logger,
	}
}

func (s *SubCategoryService) Create(ctx context.Context, userID uuid.UUID, req *dto.SubCategoryRequest) (*models.SubCategory, error) {
	category := models.ExpenseCategory(req.Category)
	if !category.Valid() {
		return nil, NewValidationError("unknown expense category %q", req.Category)
	}
	if req.Name == "" {
		return nil, NewValidationError("subcategory name is required")
	}

	sub := &models.SubCategory{
		UserID:   userID,
		Category: category,
		Name:     req.Name,
	}
	if err := s.subCategories.Create(ctx, sub); err != nil {
		return nil, fmt.Errorf("create subcategory: %w", err)
	}

	s.logger.Info("Subcategory created",
		zap.Int64("subcategory_id", sub.ID),
		zap.String("user_id", userID.String()),
	)
	return sub, nil
}

func (s *SubCategoryService) List(ctx context.Context, userID uuid.UUID) ([]*models.SubCategory, error) {
	subs, err := s.subCategories.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list subcategories: %w", err)
	}
	return subs, nil
}

// Delete removes a subcategory after checking that no expense still
// references it.
func (s *SubCategoryService) Delete(ctx context.Context, userID uuid.UUID, id int64) error {
	sub, err := s.subCategories.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("find subcategory: %w", err)
	}
	if sub.UserID != userID {
		return ErrForbidden
	}

	expenses, err := s.expenses.FindByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("check subcategory usage: %w", err)
	}
	for _, expense := range expenses {
		if expense.SubCategoryID == id {
			return NewValidationError("subcategory %d is still referenced by expenses", id)
		}
	}

	if err := s.subCategories.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete subcategory: %w", err)
	}
	return nil
}
