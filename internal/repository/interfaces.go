package repository

import (
	"context"

	"resource_hub/internal/domain/models"

	"github.com/google/uuid"
)

// ResourceUpdate carries a sparse patch for a resource. Fields describes
// only the columns explicitly present in the request; a nil CategoryIDs or
// TagIDs leaves the corresponding associations untouched, while a non-nil
// (possibly empty) slice replaces the full set.
type ResourceUpdate struct {
	Fields      map[string]interface{}
	CategoryIDs *[]uuid.UUID
	TagIDs      *[]uuid.UUID
}

type ResourceRepository interface {
	GetBySlug(ctx context.Context, slug string) (*models.ResourceWithRelations, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Resource, error)
	IncrementViews(ctx context.Context, id uuid.UUID) error
	ListPage(ctx context.Context, limit, offset int) ([]models.ResourceWithRelations, error)
	Count(ctx context.Context) (int, error)
	CountPublishedByCategory(ctx context.Context, categoryID uuid.UUID) (int, error)
	ListPublishedIDsByCategory(ctx context.Context, categoryID uuid.UUID, limit, offset int) ([]uuid.UUID, error)
	ListIDsByCategories(ctx context.Context, categoryIDs []uuid.UUID, exclude uuid.UUID) ([]uuid.UUID, error)
	ListIDsByTags(ctx context.Context, tagIDs []uuid.UUID, exclude uuid.UUID) ([]uuid.UUID, error)
	GetManyWithRelations(ctx context.Context, ids []uuid.UUID, limit int) ([]models.ResourceWithRelations, error)
	ListPublishedForSitemap(ctx context.Context) ([]models.SitemapEntry, error)
	CreateWithRelations(ctx context.Context, resource models.Resource, categoryIDs, tagIDs []uuid.UUID) (uuid.UUID, error)
	UpdateWithRelations(ctx context.Context, id uuid.UUID, update ResourceUpdate) error
}

type CategoryRepository interface {
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
	ListAll(ctx context.Context) ([]models.Category, error)
	ListWithCounts(ctx context.Context) ([]models.CategoryWithCount, error)
	CountExisting(ctx context.Context, ids []uuid.UUID) (int, error)
}

type TagRepository interface {
	CountExisting(ctx context.Context, ids []uuid.UUID) (int, error)
}

type AuthorRepository interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type ImageRepository interface {
	Create(ctx context.Context, image models.Image) (uuid.UUID, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Image, error)
	UpdateMetadata(ctx context.Context, id uuid.UUID, alt, title, description string) error
	Delete(ctx context.Context, id uuid.UUID) error
}
