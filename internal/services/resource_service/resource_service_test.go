package services

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"resource_hub/internal/domain/models"
	"resource_hub/internal/repository"
	"resource_hub/internal/transport/http/dto"

	imageservice "resource_hub/internal/services/image_service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockResourceRepository struct {
	mock.Mock
}

func (m *MockResourceRepository) GetBySlug(ctx context.Context, slug string) (*models.ResourceWithRelations, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ResourceWithRelations), args.Error(1)
}

func (m *MockResourceRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Resource, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Resource), args.Error(1)
}

func (m *MockResourceRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockResourceRepository) ListPage(ctx context.Context, limit, offset int) ([]models.ResourceWithRelations, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]models.ResourceWithRelations), args.Error(1)
}

func (m *MockResourceRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockResourceRepository) CountPublishedByCategory(ctx context.Context, categoryID uuid.UUID) (int, error) {
	args := m.Called(ctx, categoryID)
	return args.Int(0), args.Error(1)
}

func (m *MockResourceRepository) ListPublishedIDsByCategory(ctx context.Context, categoryID uuid.UUID, limit, offset int) ([]uuid.UUID, error) {
	args := m.Called(ctx, categoryID, limit, offset)
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockResourceRepository) ListIDsByCategories(ctx context.Context, categoryIDs []uuid.UUID, exclude uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, categoryIDs, exclude)
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockResourceRepository) ListIDsByTags(ctx context.Context, tagIDs []uuid.UUID, exclude uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, tagIDs, exclude)
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockResourceRepository) GetManyWithRelations(ctx context.Context, ids []uuid.UUID, limit int) ([]models.ResourceWithRelations, error) {
	args := m.Called(ctx, ids, limit)
	return args.Get(0).([]models.ResourceWithRelations), args.Error(1)
}

func (m *MockResourceRepository) ListPublishedForSitemap(ctx context.Context) ([]models.SitemapEntry, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.SitemapEntry), args.Error(1)
}

func (m *MockResourceRepository) CreateWithRelations(ctx context.Context, resource models.Resource, categoryIDs, tagIDs []uuid.UUID) (uuid.UUID, error) {
	args := m.Called(ctx, resource, categoryIDs, tagIDs)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockResourceRepository) UpdateWithRelations(ctx context.Context, id uuid.UUID, update repository.ResourceUpdate) error {
	args := m.Called(ctx, id, update)
	return args.Error(0)
}

type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCategoryRepository) ListAll(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Category), args.Error(1)
}

func (m *MockCategoryRepository) ListWithCounts(ctx context.Context) ([]models.CategoryWithCount, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.CategoryWithCount), args.Error(1)
}

func (m *MockCategoryRepository) CountExisting(ctx context.Context, ids []uuid.UUID) (int, error) {
	args := m.Called(ctx, ids)
	return args.Int(0), args.Error(1)
}

type MockTagRepository struct {
	mock.Mock
}

func (m *MockTagRepository) CountExisting(ctx context.Context, ids []uuid.UUID) (int, error) {
	args := m.Called(ctx, ids)
	return args.Int(0), args.Error(1)
}

type MockAuthorRepository struct {
	mock.Mock
}

func (m *MockAuthorRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type MockImageManager struct {
	mock.Mock
}

func (m *MockImageManager) DownloadAndUpload(ctx context.Context, input imageservice.ImageInput, resourceSlug string) (uuid.UUID, error) {
	args := m.Called(ctx, input, resourceSlug)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockImageManager) HandleFeaturedImageUpdate(ctx context.Context, existingImageID *uuid.UUID, input imageservice.ImageInput, resourceSlug string) (uuid.UUID, bool, error) {
	args := m.Called(ctx, existingImageID, input, resourceSlug)
	return args.Get(0).(uuid.UUID), args.Bool(1), args.Error(2)
}

func (m *MockImageManager) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// stubCache is a pass-through cache: always a miss on Get, remembers
// which tags were invalidated.
type stubCache struct {
	mu          sync.Mutex
	invalidated []string
}

func (c *stubCache) Get(_ context.Context, _ string) ([]byte, bool) { return nil, false }

func (c *stubCache) Set(_ context.Context, _ string, _ []byte, _ []string) error { return nil }

func (c *stubCache) InvalidateTags(_ context.Context, tags ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, tags...)
	return nil
}

func (c *stubCache) invalidatedTags() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.invalidated...)
}

type stubNotifier struct {
	mu    sync.Mutex
	slugs []string
}

func (n *stubNotifier) ResourceUpdated(_ context.Context, slug string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.slugs = append(n.slugs, slug)
}

type serviceFixture struct {
	resources  *MockResourceRepository
	categories *MockCategoryRepository
	tags       *MockTagRepository
	authors    *MockAuthorRepository
	images     *MockImageManager
	cache      *stubCache
	notifier   *stubNotifier
	service    *ResourceService
}

func newFixture() *serviceFixture {
	f := &serviceFixture{
		resources:  new(MockResourceRepository),
		categories: new(MockCategoryRepository),
		tags:       new(MockTagRepository),
		authors:    new(MockAuthorRepository),
		images:     new(MockImageManager),
		cache:      &stubCache{},
		notifier:   &stubNotifier{},
	}
	f.service = NewResourceService(
		slog.Default(),
		f.resources, f.categories, f.tags, f.authors,
		f.images, f.cache, f.notifier,
	)
	return f
}

func validCreateRequest(authorID uuid.UUID) dto.CreateResourceRequest {
	return dto.CreateResourceRequest{
		Slug:     "early-signs-guide",
		Title:    "Early Signs Guide",
		Content:  "Some long form content about early intervention.",
		AuthorID: authorID,
		Status:   "published",
		Date:     time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
	}
}

func TestResourceService_CreateResource(t *testing.T) {
	ctx := context.Background()

	authorID := uuid.New()
	categoryID := uuid.New()
	tagID := uuid.New()
	imageID := uuid.New()
	resourceID := uuid.New()

	t.Run("happy path with image and associations", func(t *testing.T) {
		f := newFixture()

		req := validCreateRequest(authorID)
		req.CategoryIDs = []uuid.UUID{categoryID}
		req.TagIDs = []uuid.UUID{tagID}
		req.FeaturedImage = &dto.FeaturedImagePayload{URL: "https://cdn.example.com/a.jpg", Alt: "cover"}

		f.authors.On("Exists", ctx, authorID).Return(true, nil).Once()
		f.categories.On("CountExisting", ctx, req.CategoryIDs).Return(1, nil).Once()
		f.tags.On("CountExisting", ctx, req.TagIDs).Return(1, nil).Once()
		f.images.On("DownloadAndUpload", ctx, mock.AnythingOfType("services.ImageInput"), req.Slug).
			Return(imageID, nil).Once()
		f.resources.On("CreateWithRelations", ctx, mock.AnythingOfType("models.Resource"), req.CategoryIDs, req.TagIDs).
			Return(resourceID, nil).Once()

		summary, err := f.service.CreateResource(ctx, req)
		require.NoError(t, err)
		require.NotNil(t, summary)

		assert.Equal(t, resourceID, summary.ID)
		assert.Equal(t, req.Slug, summary.Slug)
		assert.Equal(t, "published", summary.Status)
		require.NotNil(t, summary.FeaturedImageID)
		assert.Equal(t, imageID, *summary.FeaturedImageID)
		assert.NotNil(t, summary.CreatedAt)

		assert.ElementsMatch(t, []string{"resources", "categories", "sitemap"}, f.cache.invalidatedTags())

		f.resources.AssertExpectations(t)
		f.images.AssertExpectations(t)
	})

	t.Run("fills in reading time when absent", func(t *testing.T) {
		f := newFixture()

		req := validCreateRequest(authorID)
		req.ReadingTime = ""

		f.authors.On("Exists", ctx, authorID).Return(true, nil).Once()
		f.resources.On("CreateWithRelations", ctx, mock.MatchedBy(func(r models.Resource) bool {
			return r.ReadingTime == "1 min read"
		}), req.CategoryIDs, req.TagIDs).Return(resourceID, nil).Once()

		_, err := f.service.CreateResource(ctx, req)
		require.NoError(t, err)
		f.resources.AssertExpectations(t)
	})

	t.Run("unknown author stops before image work", func(t *testing.T) {
		f := newFixture()

		req := validCreateRequest(authorID)
		req.FeaturedImageURL = "https://cdn.example.com/a.jpg"

		f.authors.On("Exists", ctx, authorID).Return(false, nil).Once()

		_, err := f.service.CreateResource(ctx, req)
		require.ErrorIs(t, err, ErrAuthorNotFound)

		f.images.AssertNotCalled(t, "DownloadAndUpload", mock.Anything, mock.Anything, mock.Anything)
		f.resources.AssertNotCalled(t, "CreateWithRelations", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown categories", func(t *testing.T) {
		f := newFixture()

		req := validCreateRequest(authorID)
		req.CategoryIDs = []uuid.UUID{categoryID, uuid.New()}

		f.authors.On("Exists", ctx, authorID).Return(true, nil).Once()
		f.categories.On("CountExisting", ctx, req.CategoryIDs).Return(1, nil).Once()

		_, err := f.service.CreateResource(ctx, req)
		require.ErrorIs(t, err, ErrCategoriesNotFound)
	})

	t.Run("unknown tags", func(t *testing.T) {
		f := newFixture()

		req := validCreateRequest(authorID)
		req.TagIDs = []uuid.UUID{tagID}

		f.authors.On("Exists", ctx, authorID).Return(true, nil).Once()
		f.tags.On("CountExisting", ctx, req.TagIDs).Return(0, nil).Once()

		_, err := f.service.CreateResource(ctx, req)
		require.ErrorIs(t, err, ErrTagsNotFound)
	})

	t.Run("repeated category id is rejected", func(t *testing.T) {
		f := newFixture()

		req := validCreateRequest(authorID)
		req.CategoryIDs = []uuid.UUID{categoryID, categoryID}

		f.authors.On("Exists", ctx, authorID).Return(true, nil).Once()
		f.categories.On("CountExisting", ctx, req.CategoryIDs).Return(1, nil).Once()

		_, err := f.service.CreateResource(ctx, req)
		require.ErrorIs(t, err, ErrCategoriesNotFound)

		f.resources.AssertNotCalled(t, "CreateWithRelations", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("repeated tag id is rejected", func(t *testing.T) {
		f := newFixture()

		req := validCreateRequest(authorID)
		req.TagIDs = []uuid.UUID{tagID, tagID}

		f.authors.On("Exists", ctx, authorID).Return(true, nil).Once()
		f.tags.On("CountExisting", ctx, req.TagIDs).Return(1, nil).Once()

		_, err := f.service.CreateResource(ctx, req)
		require.ErrorIs(t, err, ErrTagsNotFound)

		f.resources.AssertNotCalled(t, "CreateWithRelations", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("image failure aborts the create", func(t *testing.T) {
		f := newFixture()

		req := validCreateRequest(authorID)
		req.FeaturedImageURL = "https://cdn.example.com/broken.jpg"

		f.authors.On("Exists", ctx, authorID).Return(true, nil).Once()
		f.images.On("DownloadAndUpload", ctx, mock.AnythingOfType("services.ImageInput"), req.Slug).
			Return(uuid.Nil, errors.New("unsupported image format")).Once()

		_, err := f.service.CreateResource(ctx, req)

		var imageErr *ImageError
		require.ErrorAs(t, err, &imageErr)
		assert.Equal(t, "unsupported image format", imageErr.Error())

		f.resources.AssertNotCalled(t, "CreateWithRelations", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		assert.Empty(t, f.cache.invalidatedTags())
	})

	t.Run("duplicate slug", func(t *testing.T) {
		f := newFixture()

		req := validCreateRequest(authorID)

		f.authors.On("Exists", ctx, authorID).Return(true, nil).Once()
		f.resources.On("CreateWithRelations", ctx, mock.AnythingOfType("models.Resource"), req.CategoryIDs, req.TagIDs).
			Return(uuid.Nil, repository.ErrDuplicateSlug).Once()

		_, err := f.service.CreateResource(ctx, req)
		require.ErrorIs(t, err, ErrDuplicateSlug)
		assert.Empty(t, f.cache.invalidatedTags())
	})
}

func TestResourceService_UpdateResource(t *testing.T) {
	ctx := context.Background()

	resourceID := uuid.New()
	oldImageID := uuid.New()

	existing := func() *models.Resource {
		return &models.Resource{
			ID:          resourceID,
			Slug:        "early-signs-guide",
			Title:       "Early Signs Guide",
			Status:      models.StatusPublished,
			ReadingTime: "4 min read",
			UpdatedAt:   time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC),
		}
	}

	t.Run("missing resource", func(t *testing.T) {
		f := newFixture()

		f.resources.On("GetByID", ctx, resourceID).Return(nil, repository.ErrResourceNotFound).Once()

		_, err := f.service.UpdateResource(ctx, dto.UpdateResourceRequest{PostID: resourceID})
		require.ErrorIs(t, err, ErrResourceNotFound)
	})

	t.Run("sparse patch writes only provided fields", func(t *testing.T) {
		f := newFixture()

		title := "Renamed"
		req := dto.UpdateResourceRequest{PostID: resourceID, Title: &title}

		f.resources.On("GetByID", ctx, resourceID).Return(existing(), nil).Twice()
		f.resources.On("UpdateWithRelations", ctx, resourceID, mock.MatchedBy(func(u repository.ResourceUpdate) bool {
			_, hasTitle := u.Fields["title"]
			return hasTitle && len(u.Fields) == 1 && u.CategoryIDs == nil && u.TagIDs == nil
		})).Return(nil).Once()

		summary, err := f.service.UpdateResource(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, resourceID, summary.ID)
		assert.NotNil(t, summary.UpdatedAt)
		assert.ElementsMatch(t, []string{"resources", "categories", "sitemap"}, f.cache.invalidatedTags())

		f.resources.AssertExpectations(t)
	})

	t.Run("empty category list clears associations", func(t *testing.T) {
		f := newFixture()

		empty := []uuid.UUID{}
		req := dto.UpdateResourceRequest{PostID: resourceID, CategoryIDs: &empty}

		f.resources.On("GetByID", ctx, resourceID).Return(existing(), nil).Twice()
		f.resources.On("UpdateWithRelations", ctx, resourceID, mock.MatchedBy(func(u repository.ResourceUpdate) bool {
			return u.CategoryIDs != nil && len(*u.CategoryIDs) == 0 && u.TagIDs == nil
		})).Return(nil).Once()

		_, err := f.service.UpdateResource(ctx, req)
		require.NoError(t, err)

		// an explicitly empty list never hits the existence check
		f.categories.AssertNotCalled(t, "CountExisting", mock.Anything, mock.Anything)
		f.resources.AssertExpectations(t)
	})

	t.Run("content change recomputes reading time", func(t *testing.T) {
		f := newFixture()

		content := "short"
		req := dto.UpdateResourceRequest{PostID: resourceID, Content: &content}

		f.resources.On("GetByID", ctx, resourceID).Return(existing(), nil).Twice()
		f.resources.On("UpdateWithRelations", ctx, resourceID, mock.MatchedBy(func(u repository.ResourceUpdate) bool {
			return u.Fields["reading_time"] == "1 min read"
		})).Return(nil).Once()

		_, err := f.service.UpdateResource(ctx, req)
		require.NoError(t, err)
		f.resources.AssertExpectations(t)
	})

	t.Run("image failure aborts unrelated field changes", func(t *testing.T) {
		f := newFixture()

		title := "Renamed"
		url := "https://cdn.example.com/new.jpg"
		req := dto.UpdateResourceRequest{PostID: resourceID, Title: &title, FeaturedImageURL: &url}

		f.resources.On("GetByID", ctx, resourceID).Return(existing(), nil).Once()
		f.images.On("DownloadAndUpload", ctx, imageservice.ImageInput{SourceURL: url}, "early-signs-guide").
			Return(uuid.Nil, errors.New("download failed")).Once()

		_, err := f.service.UpdateResource(ctx, req)

		var imageErr *ImageError
		require.ErrorAs(t, err, &imageErr)
		f.resources.AssertNotCalled(t, "UpdateWithRelations", mock.Anything, mock.Anything, mock.Anything)
		assert.Empty(t, f.cache.invalidatedTags())
	})

	t.Run("structured image with unchanged source keeps the current image", func(t *testing.T) {
		f := newFixture()

		current := existing()
		current.FeaturedImageID = &oldImageID
		payload := &dto.FeaturedImagePayload{URL: "https://cdn.example.com/same.jpg", Alt: "updated alt"}
		req := dto.UpdateResourceRequest{PostID: resourceID, FeaturedImage: payload}

		f.resources.On("GetByID", ctx, resourceID).Return(current, nil).Twice()
		f.images.On("HandleFeaturedImageUpdate", ctx, &oldImageID, mock.AnythingOfType("services.ImageInput"), "early-signs-guide").
			Return(oldImageID, false, nil).Once()
		f.resources.On("UpdateWithRelations", ctx, resourceID, mock.MatchedBy(func(u repository.ResourceUpdate) bool {
			_, touched := u.Fields["featured_image_id"]
			return !touched
		})).Return(nil).Once()

		_, err := f.service.UpdateResource(ctx, req)
		require.NoError(t, err)

		f.images.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
		f.resources.AssertExpectations(t)
	})
}

func TestResourceService_GetResourceBySlug(t *testing.T) {
	ctx := context.Background()

	t.Run("missing resource returns nil without error", func(t *testing.T) {
		f := newFixture()

		f.resources.On("GetBySlug", ctx, "nope").Return(nil, repository.ErrResourceNotFound).Once()

		resource, err := f.service.GetResourceBySlug(ctx, "nope")
		require.NoError(t, err)
		assert.Nil(t, resource)
	})

	t.Run("bumps the view counter optimistically", func(t *testing.T) {
		f := newFixture()

		id := uuid.New()
		stored := &models.ResourceWithRelations{Resource: models.Resource{ID: id, Slug: "guide", Views: 41}}

		f.resources.On("GetBySlug", ctx, "guide").Return(stored, nil).Once()
		f.resources.On("IncrementViews", ctx, id).Return(errors.New("db busy")).Once()

		resource, err := f.service.GetResourceBySlug(ctx, "guide")
		require.NoError(t, err)
		assert.Equal(t, 42, resource.Views)
	})

	t.Run("metadata variant leaves views alone", func(t *testing.T) {
		f := newFixture()

		id := uuid.New()
		stored := &models.ResourceWithRelations{Resource: models.Resource{ID: id, Slug: "guide", Views: 41}}

		f.resources.On("GetBySlug", ctx, "guide").Return(stored, nil).Once()

		resource, err := f.service.GetResourceBySlugForMetadata(ctx, "guide")
		require.NoError(t, err)
		assert.Equal(t, 41, resource.Views)
		f.resources.AssertNotCalled(t, "IncrementViews", mock.Anything, mock.Anything)
	})
}

func TestResourceService_GetPaginatedResources(t *testing.T) {
	ctx := context.Background()

	t.Run("first page", func(t *testing.T) {
		f := newFixture()

		f.resources.On("Count", ctx).Return(7, nil).Once()
		f.resources.On("ListPage", ctx, 6, 0).Return([]models.ResourceWithRelations{}, nil).Once()

		page, err := f.service.GetPaginatedResources(ctx, 1, 6)
		require.NoError(t, err)
		assert.Equal(t, 7, page.TotalCount)
		assert.Equal(t, 2, page.TotalPages)
	})

	t.Run("page beyond the last keeps the totals", func(t *testing.T) {
		f := newFixture()

		f.resources.On("Count", ctx).Return(7, nil).Once()
		f.resources.On("ListPage", ctx, 6, 24).Return([]models.ResourceWithRelations{}, nil).Once()

		page, err := f.service.GetPaginatedResources(ctx, 5, 6)
		require.NoError(t, err)
		assert.Empty(t, page.Resources)
		assert.Equal(t, 7, page.TotalCount)
		assert.Equal(t, 2, page.TotalPages)
	})
}

func TestResourceService_GetResourcesByCategory(t *testing.T) {
	ctx := context.Background()

	t.Run("missing category yields an empty page", func(t *testing.T) {
		f := newFixture()

		f.categories.On("GetBySlug", ctx, "nope").Return(nil, repository.ErrCategoryNotFound).Once()

		page, err := f.service.GetResourcesByCategory(ctx, "nope", 1, 6)
		require.NoError(t, err)
		assert.Nil(t, page.Category)
		assert.Empty(t, page.Resources)
		assert.Zero(t, page.TotalCount)
	})

	t.Run("resolves the category and pages published resources", func(t *testing.T) {
		f := newFixture()

		category := &models.Category{ID: uuid.New(), Slug: "guides", Name: "Guides"}
		ids := []uuid.UUID{uuid.New(), uuid.New()}

		f.categories.On("GetBySlug", ctx, "guides").Return(category, nil).Once()
		f.resources.On("CountPublishedByCategory", ctx, category.ID).Return(13, nil).Once()
		f.resources.On("ListPublishedIDsByCategory", ctx, category.ID, 6, 6).Return(ids, nil).Once()
		f.resources.On("GetManyWithRelations", ctx, ids, 0).
			Return([]models.ResourceWithRelations{{}, {}}, nil).Once()

		page, err := f.service.GetResourcesByCategory(ctx, "guides", 2, 6)
		require.NoError(t, err)
		require.NotNil(t, page.Category)
		assert.Equal(t, "Guides", page.Category.Name)
		assert.Equal(t, 13, page.TotalCount)
		assert.Equal(t, 3, page.TotalPages)
		assert.Len(t, page.Resources, 2)
	})
}

func TestResourceService_GetRelatedResources(t *testing.T) {
	ctx := context.Background()

	current := uuid.New()

	t.Run("no categories and no tags short-circuits", func(t *testing.T) {
		f := newFixture()

		related, err := f.service.GetRelatedResources(ctx, current, nil, nil, 3)
		require.NoError(t, err)
		assert.Empty(t, related)
		f.resources.AssertNotCalled(t, "ListIDsByCategories", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unions category and tag matches without duplicates", func(t *testing.T) {
		f := newFixture()

		categoryIDs := []uuid.UUID{uuid.New()}
		tagIDs := []uuid.UUID{uuid.New()}
		shared := uuid.New()
		tagOnly := uuid.New()

		f.resources.On("ListIDsByCategories", ctx, categoryIDs, current).
			Return([]uuid.UUID{shared}, nil).Once()
		f.resources.On("ListIDsByTags", ctx, tagIDs, current).
			Return([]uuid.UUID{shared, tagOnly}, nil).Once()
		f.resources.On("GetManyWithRelations", ctx, []uuid.UUID{shared, tagOnly}, 3).
			Return([]models.ResourceWithRelations{{}, {}}, nil).Once()

		related, err := f.service.GetRelatedResources(ctx, current, categoryIDs, tagIDs, 3)
		require.NoError(t, err)
		assert.Len(t, related, 2)
		f.resources.AssertExpectations(t)
	})

	t.Run("empty union returns an empty list, no fallback", func(t *testing.T) {
		f := newFixture()

		categoryIDs := []uuid.UUID{uuid.New()}

		f.resources.On("ListIDsByCategories", ctx, categoryIDs, current).
			Return([]uuid.UUID{}, nil).Once()
		f.resources.On("ListIDsByTags", ctx, []uuid.UUID(nil), current).
			Return([]uuid.UUID{}, nil).Once()

		related, err := f.service.GetRelatedResources(ctx, current, categoryIDs, nil, 3)
		require.NoError(t, err)
		assert.Empty(t, related)
		f.resources.AssertNotCalled(t, "GetManyWithRelations", mock.Anything, mock.Anything, mock.Anything)
	})
}
