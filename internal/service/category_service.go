package service

import (
	"context"
	"strings"

	"catalog-api/internal/repository"
)

// CategoryService exposes the categories currently used by the catalog
type CategoryService interface {
	List(ctx context.Context) ([]repository.CategorySummary, error)
	Get(ctx context.Context, name string) (repository.CategorySummary, error)
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
}

// NewCategoryService creates a new instance of CategoryService
func NewCategoryService(categoryRepo repository.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

func (s *categoryService) List(ctx context.Context) ([]repository.CategorySummary, error) {
	return s.categoryRepo.List(ctx)
}

// Get looks a category up by name. Names are matched after trimming, the same
// way product categories are stored.
func (s *categoryService) Get(ctx context.Context, name string) (repository.CategorySummary, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return repository.CategorySummary{}, repository.ErrCategoryNotFound
	}
	return s.categoryRepo.FindByName(ctx, name)
}
