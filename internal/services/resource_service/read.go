package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"resource_hub/internal/cache"
	"resource_hub/internal/domain/models"
	"resource_hub/internal/lib/logger/sl"
	"resource_hub/internal/metrics"
	"resource_hub/internal/repository"

	"github.com/google/uuid"
)

// GetResourceBySlug returns the resource with full relations, or nil when
// no resource matches. As a side effect it increments the view counter by
// one; the increment is best effort and the returned object carries the
// optimistically bumped count even if persisting it failed.
func (s *ResourceService) GetResourceBySlug(ctx context.Context, slug string) (*models.ResourceWithRelations, error) {
	const op = "resource_service.GetResourceBySlug"
	log := s.log.With(
		slog.String("op", op),
		slog.String("slug", slug),
	)

	resource, err := s.resources.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repository.ErrResourceNotFound) {
			return nil, nil
		}
		log.Error("failed to get resource", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.resources.IncrementViews(ctx, resource.ID); err != nil {
		log.Warn("failed to persist view increment", sl.Err(err))
	} else {
		metrics.ViewIncrements.Inc()
	}
	resource.Views++

	return resource, nil
}

// GetResourceBySlugForMetadata performs the identical lookup without
// touching the view counter, so metadata passes never double-count views.
func (s *ResourceService) GetResourceBySlugForMetadata(ctx context.Context, slug string) (*models.ResourceWithRelations, error) {
	const op = "resource_service.GetResourceBySlugForMetadata"

	resource, err := s.resources.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repository.ErrResourceNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return resource, nil
}

// GetPaginatedResources returns one page of resources ordered by date
// descending, plus total counts. Results are cached under the resources
// tag.
func (s *ResourceService) GetPaginatedResources(ctx context.Context, page, pageSize int) (*ResourcePage, error) {
	const op = "resource_service.GetPaginatedResources"

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}

	key := fmt.Sprintf("resources:page:%d:%d", page, pageSize)
	result, err := cache.GetOrFetch(ctx, s.cache, key, []string{cache.TagResources},
		func(ctx context.Context) (ResourcePage, error) {
			return s.fetchResourcePage(ctx, page, pageSize)
		})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &result, nil
}

func (s *ResourceService) fetchResourcePage(ctx context.Context, page, pageSize int) (ResourcePage, error) {
	totalCount, err := s.resources.Count(ctx)
	if err != nil {
		return ResourcePage{}, err
	}

	resources, err := s.resources.ListPage(ctx, pageSize, (page-1)*pageSize)
	if err != nil {
		return ResourcePage{}, err
	}

	return ResourcePage{
		Resources:  resources,
		TotalCount: totalCount,
		TotalPages: totalPages(totalCount, pageSize),
	}, nil
}

// GetResourcesByCategory resolves the category by slug and returns its
// page of published resources. A missing category yields a nil Category
// and an empty page rather than an error.
func (s *ResourceService) GetResourcesByCategory(ctx context.Context, slug string, page, pageSize int) (*CategoryPage, error) {
	const op = "resource_service.GetResourcesByCategory"

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}

	key := fmt.Sprintf("categories:%s:page:%d:%d", slug, page, pageSize)
	result, err := cache.GetOrFetch(ctx, s.cache, key, []string{cache.TagCategories, cache.TagResources},
		func(ctx context.Context) (CategoryPage, error) {
			return s.fetchCategoryPage(ctx, slug, page, pageSize)
		})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &result, nil
}

func (s *ResourceService) fetchCategoryPage(ctx context.Context, slug string, page, pageSize int) (CategoryPage, error) {
	empty := CategoryPage{
		ResourcePage: ResourcePage{Resources: []models.ResourceWithRelations{}},
	}

	category, err := s.categories.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return empty, nil
		}
		return empty, err
	}

	totalCount, err := s.resources.CountPublishedByCategory(ctx, category.ID)
	if err != nil {
		return empty, err
	}

	ids, err := s.resources.ListPublishedIDsByCategory(ctx, category.ID, pageSize, (page-1)*pageSize)
	if err != nil {
		return empty, err
	}

	// Refetching by ID does not preserve order; GetManyWithRelations
	// re-sorts by date descending.
	resources, err := s.resources.GetManyWithRelations(ctx, ids, 0)
	if err != nil {
		return empty, err
	}

	return CategoryPage{
		ResourcePage: ResourcePage{
			Resources:  resources,
			TotalCount: totalCount,
			TotalPages: totalPages(totalCount, pageSize),
		},
		Category: category,
	}, nil
}

// GetRelatedResources returns up to limit resources sharing any of the
// given categories or tags, excluding currentResourceID, newest first.
// This is a plain set union: there is no similarity ranking and no
// fallback to latest resources when the union is empty.
func (s *ResourceService) GetRelatedResources(ctx context.Context, currentResourceID uuid.UUID, categoryIDs, tagIDs []uuid.UUID, limit int) ([]models.ResourceWithRelations, error) {
	const op = "resource_service.GetRelatedResources"

	if limit < 1 {
		limit = 3
	}
	if len(categoryIDs) == 0 && len(tagIDs) == 0 {
		return []models.ResourceWithRelations{}, nil
	}

	byCategory, err := s.resources.ListIDsByCategories(ctx, categoryIDs, currentResourceID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	byTag, err := s.resources.ListIDsByTags(ctx, tagIDs, currentResourceID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	union := unionIDs(byCategory, byTag)
	if len(union) == 0 {
		return []models.ResourceWithRelations{}, nil
	}

	resources, err := s.resources.GetManyWithRelations(ctx, union, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return resources, nil
}

// ListPublishedForSitemap returns every published resource's slug and
// date, cached under the sitemap tag.
func (s *ResourceService) ListPublishedForSitemap(ctx context.Context) ([]models.SitemapEntry, error) {
	const op = "resource_service.ListPublishedForSitemap"

	entries, err := cache.GetOrFetch(ctx, s.cache, "sitemap:entries", []string{cache.TagSitemap},
		func(ctx context.Context) ([]models.SitemapEntry, error) {
			return s.resources.ListPublishedForSitemap(ctx)
		})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return entries, nil
}

func totalPages(totalCount, pageSize int) int {
	return (totalCount + pageSize - 1) / pageSize
}

func unionIDs(a, b []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(a)+len(b))
	union := make([]uuid.UUID, 0, len(a)+len(b))
	for _, id := range a {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			union = append(union, id)
		}
	}
	for _, id := range b {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			union = append(union, id)
		}
	}
	return union
}
