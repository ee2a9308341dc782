package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"resource_hub/internal/cache"
	"resource_hub/internal/domain/models"
	"resource_hub/internal/lib/logger/sl"
	"resource_hub/internal/repository"

	imageservice "resource_hub/internal/services/image_service"

	"github.com/google/uuid"
)

const DefaultPageSize = 6

var (
	ErrAuthorNotFound     = errors.New("author not found")
	ErrCategoriesNotFound = errors.New("one or more categories not found")
	ErrTagsNotFound       = errors.New("one or more tags not found")
	ErrResourceNotFound   = errors.New("resource not found")
	ErrDuplicateSlug      = errors.New("resource slug already exists")
)

// ImageError marks a failure in the image side-effect. The write path
// surfaces it as a 400 with the underlying message and aborts the whole
// request, unrelated fields included.
type ImageError struct {
	Err error
}

func (e *ImageError) Error() string { return e.Err.Error() }
func (e *ImageError) Unwrap() error { return e.Err }

// ImageManager is the image pipeline the write path drives.
type ImageManager interface {
	DownloadAndUpload(ctx context.Context, input imageservice.ImageInput, resourceSlug string) (uuid.UUID, error)
	HandleFeaturedImageUpdate(ctx context.Context, existingImageID *uuid.UUID, input imageservice.ImageInput, resourceSlug string) (uuid.UUID, bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// IndexNotifier pings the external indexing service. Implementations must
// never surface failures.
type IndexNotifier interface {
	ResourceUpdated(ctx context.Context, slug string)
}

// ResourcePage is one page of the resource listing.
type ResourcePage struct {
	Resources  []models.ResourceWithRelations `json:"resources"`
	TotalCount int                            `json:"totalCount"`
	TotalPages int                            `json:"totalPages"`
}

// CategoryPage is a page of resources within one category. Category is
// nil when the slug resolves to nothing.
type CategoryPage struct {
	ResourcePage
	Category *models.Category `json:"category"`
}

type ResourceService struct {
	log        *slog.Logger
	resources  repository.ResourceRepository
	categories repository.CategoryRepository
	tags       repository.TagRepository
	authors    repository.AuthorRepository
	images     ImageManager
	cache      cache.Cache
	notifier   IndexNotifier
}

func NewResourceService(
	log *slog.Logger,
	resources repository.ResourceRepository,
	categories repository.CategoryRepository,
	tags repository.TagRepository,
	authors repository.AuthorRepository,
	images ImageManager,
	contentCache cache.Cache,
	notifier IndexNotifier,
) *ResourceService {
	return &ResourceService{
		log:        log,
		resources:  resources,
		categories: categories,
		tags:       tags,
		authors:    authors,
		images:     images,
		cache:      contentCache,
		notifier:   notifier,
	}
}

// invalidateContentCaches evicts every cached read after a successful
// write. Best effort: a failure is logged, never surfaced.
func (s *ResourceService) invalidateContentCaches(ctx context.Context) {
	if err := s.cache.InvalidateTags(ctx, cache.TagResources, cache.TagCategories, cache.TagSitemap); err != nil {
		s.log.Warn("cache invalidation failed", sl.Err(err))
	}
}

// notifyAsync fires the indexer notification detached from the request.
func (s *ResourceService) notifyAsync(slug string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		s.notifier.ResourceUpdated(ctx, slug)
	}()
}
