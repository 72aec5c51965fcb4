package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"blogsphere/internal/common"
	"blogsphere/internal/domain/model"
	"blogsphere/internal/domain/repository"

	"github.com/google/uuid"
)

type CategoryService struct {
	categoryRepo repository.CategoryRepository
}

func NewCategoryService(categoryRepo repository.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

type CategoryRequest struct {
	Name string `json:"name"`
}

func (s *CategoryService) List(ctx context.Context) ([]model.Category, error) {
	return s.categoryRepo.List(ctx)
}

func (s *CategoryService) Create(ctx context.Context, req CategoryRequest) (*model.Category, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, common.Errorf("category name is required: %w", common.ErrValidation)
	}
	if _, err := s.categoryRepo.FindByName(ctx, name); err == nil {
		return nil, common.Errorf("category with this name already exists: %w", common.ErrValidation)
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("failed to check category name: %w", err)
	}

	category := &model.Category{
		ID:   uuid.NewString(),
		Name: name,
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return category, nil
}

func (s *CategoryService) Update(ctx context.Context, id string, req CategoryRequest) (*model.Category, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, common.Errorf("category name is required: %w", common.ErrValidation)
	}

	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if other, err := s.categoryRepo.FindByName(ctx, name); err == nil && other.ID != id {
		return nil, common.Errorf("category with this name already exists: %w", common.ErrValidation)
	} else if err != nil && !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("failed to check category name: %w", err)
	}

	category.Name = name
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return category, nil
}

// Delete removes the category without touching posts that reference it;
// those posts resolve to a null category afterwards.
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	return s.categoryRepo.Delete(ctx, id)
}
