package services

import (
	"context"
	"fmt"
	"log/slog"

	"resource_hub/internal/cache"
	"resource_hub/internal/domain/models"
	"resource_hub/internal/lib/logger/sl"
	"resource_hub/internal/repository"
)

type CategoryService struct {
	log   *slog.Logger
	repo  repository.CategoryRepository
	cache cache.Cache
}

func NewCategoryService(log *slog.Logger, repo repository.CategoryRepository, contentCache cache.Cache) *CategoryService {
	return &CategoryService{log: log, repo: repo, cache: contentCache}
}

// ListCategories returns every category ordered by name.
func (s *CategoryService) ListCategories(ctx context.Context) ([]models.Category, error) {
	const op = "category_service.ListCategories"

	categories, err := s.repo.ListAll(ctx)
	if err != nil {
		s.log.Error("failed to list categories", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return categories, nil
}

// GetAllCategoriesWithCounts returns every category with its published
// resource count, zero-count categories included, ordered by count
// descending then name ascending. Cached under the categories and
// resources tags.
func (s *CategoryService) GetAllCategoriesWithCounts(ctx context.Context) ([]models.CategoryWithCount, error) {
	const op = "category_service.GetAllCategoriesWithCounts"

	categories, err := cache.GetOrFetch(ctx, s.cache, "categories:counts",
		[]string{cache.TagCategories, cache.TagResources},
		func(ctx context.Context) ([]models.CategoryWithCount, error) {
			return s.repo.ListWithCounts(ctx)
		})
	if err != nil {
		s.log.Error("failed to list categories with counts", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return categories, nil
}
