package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"resource_hub/internal/domain/models"
	"resource_hub/internal/lib/logger/sl"
	"resource_hub/internal/transport/http/dto"
	"resource_hub/internal/transport/http/dto/response"

	resourceservice "resource_hub/internal/services/resource_service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type ResourceService interface {
	GetResourceBySlug(ctx context.Context, slug string) (*models.ResourceWithRelations, error)
	GetResourceBySlugForMetadata(ctx context.Context, slug string) (*models.ResourceWithRelations, error)
	GetPaginatedResources(ctx context.Context, page, pageSize int) (*resourceservice.ResourcePage, error)
	GetResourcesByCategory(ctx context.Context, slug string, page, pageSize int) (*resourceservice.CategoryPage, error)
	GetRelatedResources(ctx context.Context, currentResourceID uuid.UUID, categoryIDs, tagIDs []uuid.UUID, limit int) ([]models.ResourceWithRelations, error)
	ListPublishedForSitemap(ctx context.Context) ([]models.SitemapEntry, error)
	CreateResource(ctx context.Context, req dto.CreateResourceRequest) (*dto.ResourceSummary, error)
	UpdateResource(ctx context.Context, req dto.UpdateResourceRequest) (*dto.ResourceSummary, error)
}

type CategoryService interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	GetAllCategoriesWithCounts(ctx context.Context) ([]models.CategoryWithCount, error)
}

type Routers struct {
	log             *slog.Logger
	siteURL         string
	pageSize        int
	ResourceService ResourceService
	CategoryService CategoryService
}

func NewRouter(log *slog.Logger, siteURL string, pageSize int, resourceService ResourceService, categoryService CategoryService) *Routers {
	if pageSize < 1 {
		pageSize = resourceservice.DefaultPageSize
	}

	return &Routers{
		log:             log,
		siteURL:         siteURL,
		pageSize:        pageSize,
		ResourceService: resourceService,
		CategoryService: categoryService,
	}
}

// CreateResource godoc
// @Summary Create a resource
// @Description Creates a resource with its category/tag associations and optional featured image.
// @Tags resources
// @Accept json
// @Produce json
// @Success 200 {object} response.Response{data=dto.ResourceSummary}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/resources [post]
func (r *Routers) CreateResource(c echo.Context) error {
	const op = "http.routers.CreateResource"

	log := r.log.With(
		slog.String("op", op),
	)

	var req dto.CreateResourceRequest

	if err := c.Bind(&req); err != nil {
		log.Warn("failed to bind request", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.Fail(response.MsgInvalidRequest))
	}

	if err := c.Validate(req); err != nil {
		log.Warn("validation failed", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.Fail(err.Error()))
	}

	summary, err := r.ResourceService.CreateResource(c.Request().Context(), req)
	if err != nil {
		return r.writeServiceError(c, log, err)
	}

	return c.JSON(http.StatusOK, response.OK(summary, "Resource created"))
}

// UpdateResource godoc
// @Summary Update a resource
// @Description Applies a sparse patch identified by postId. Category/tag lists, when present, replace the full set.
// @Tags resources
// @Accept json
// @Produce json
// @Success 200 {object} response.Response{data=dto.ResourceSummary}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/resources [patch]
func (r *Routers) UpdateResource(c echo.Context) error {
	const op = "http.routers.UpdateResource"

	log := r.log.With(
		slog.String("op", op),
	)

	var req dto.UpdateResourceRequest

	if err := c.Bind(&req); err != nil {
		log.Warn("failed to bind request", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.Fail(response.MsgInvalidRequest))
	}

	if err := c.Validate(req); err != nil {
		log.Warn("validation failed", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.Fail(err.Error()))
	}

	summary, err := r.ResourceService.UpdateResource(c.Request().Context(), req)
	if err != nil {
		return r.writeServiceError(c, log, err)
	}

	return c.JSON(http.StatusOK, response.OK(summary, "Resource updated"))
}

// ListCategories godoc
// @Summary List categories
// @Produce json
// @Success 200 {object} response.Response{data=[]dto.CategoryResponse}
// @Router /api/categories [get]
func (r *Routers) ListCategories(c echo.Context) error {
	const op = "http.routers.ListCategories"

	log := r.log.With(
		slog.String("op", op),
	)

	categories, err := r.CategoryService.ListCategories(c.Request().Context())
	if err != nil {
		return r.writeServiceError(c, log, err)
	}

	out := make([]dto.CategoryResponse, 0, len(categories))
	for _, cat := range categories {
		out = append(out, dto.CategoryResponse{ID: cat.ID, Name: cat.Name})
	}

	return c.JSON(http.StatusOK, response.OK(out, ""))
}

func (r *Routers) CategoryCounts(c echo.Context) error {
	const op = "http.routers.CategoryCounts"

	log := r.log.With(
		slog.String("op", op),
	)

	categories, err := r.CategoryService.GetAllCategoriesWithCounts(c.Request().Context())
	if err != nil {
		return r.writeServiceError(c, log, err)
	}

	return c.JSON(http.StatusOK, response.OK(dto.NewCategoryWithCountResponses(categories), ""))
}

func (r *Routers) ListResources(c echo.Context) error {
	const op = "http.routers.ListResources"

	log := r.log.With(
		slog.String("op", op),
	)

	page := queryInt(c, "page", 1)
	pageSize := queryInt(c, "pageSize", r.pageSize)

	result, err := r.ResourceService.GetPaginatedResources(c.Request().Context(), page, pageSize)
	if err != nil {
		return r.writeServiceError(c, log, err)
	}

	return c.JSON(http.StatusOK, response.OK(dto.ResourceListResponse{
		Resources:  dto.NewResourceResponses(result.Resources),
		TotalCount: result.TotalCount,
		TotalPages: result.TotalPages,
		Page:       page,
		PageSize:   pageSize,
	}, ""))
}

func (r *Routers) GetResource(c echo.Context) error {
	const op = "http.routers.GetResource"

	log := r.log.With(
		slog.String("op", op),
		slog.String("slug", c.Param("slug")),
	)

	resource, err := r.ResourceService.GetResourceBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return r.writeServiceError(c, log, err)
	}
	if resource == nil {
		return c.JSON(http.StatusNotFound, response.Fail(response.MsgResourceNotFound))
	}

	resp := dto.NewResourceResponse(*resource)
	return c.JSON(http.StatusOK, response.OK(resp, ""))
}

// RelatedResources looks up the resource without bumping its view counter
// and returns resources sharing any of its categories or tags.
func (r *Routers) RelatedResources(c echo.Context) error {
	const op = "http.routers.RelatedResources"

	log := r.log.With(
		slog.String("op", op),
		slog.String("slug", c.Param("slug")),
	)

	resource, err := r.ResourceService.GetResourceBySlugForMetadata(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return r.writeServiceError(c, log, err)
	}
	if resource == nil {
		return c.JSON(http.StatusNotFound, response.Fail(response.MsgResourceNotFound))
	}

	categoryIDs := make([]uuid.UUID, 0, len(resource.Categories))
	for _, cat := range resource.Categories {
		categoryIDs = append(categoryIDs, cat.ID)
	}
	tagIDs := make([]uuid.UUID, 0, len(resource.Tags))
	for _, tag := range resource.Tags {
		tagIDs = append(tagIDs, tag.ID)
	}

	related, err := r.ResourceService.GetRelatedResources(
		c.Request().Context(), resource.ID, categoryIDs, tagIDs, queryInt(c, "limit", 3),
	)
	if err != nil {
		return r.writeServiceError(c, log, err)
	}

	return c.JSON(http.StatusOK, response.OK(dto.NewResourceResponses(related), ""))
}

func (r *Routers) ResourcesByCategory(c echo.Context) error {
	const op = "http.routers.ResourcesByCategory"

	log := r.log.With(
		slog.String("op", op),
		slog.String("slug", c.Param("slug")),
	)

	page := queryInt(c, "page", 1)
	pageSize := queryInt(c, "pageSize", r.pageSize)

	result, err := r.ResourceService.GetResourcesByCategory(c.Request().Context(), c.Param("slug"), page, pageSize)
	if err != nil {
		return r.writeServiceError(c, log, err)
	}

	resp := dto.CategoryResourceListResponse{
		ResourceListResponse: dto.ResourceListResponse{
			Resources:  dto.NewResourceResponses(result.Resources),
			TotalCount: result.TotalCount,
			TotalPages: result.TotalPages,
			Page:       page,
			PageSize:   pageSize,
		},
	}
	if result.Category != nil {
		cat := dto.NewCategoryResponse(*result.Category)
		resp.Category = &cat
	}

	return c.JSON(http.StatusOK, response.OK(resp, ""))
}

// writeServiceError maps service failures onto the error taxonomy:
// referential misses are 404, validation and image side-effect failures
// are 400, anything else is a logged 500 with a generic message.
func (r *Routers) writeServiceError(c echo.Context, log *slog.Logger, err error) error {
	var imageErr *resourceservice.ImageError

	switch {
	case errors.Is(err, resourceservice.ErrAuthorNotFound):
		return c.JSON(http.StatusNotFound, response.Fail(response.MsgAuthorNotFound))
	case errors.Is(err, resourceservice.ErrCategoriesNotFound):
		return c.JSON(http.StatusNotFound, response.Fail(response.MsgCategoriesNotFound))
	case errors.Is(err, resourceservice.ErrTagsNotFound):
		return c.JSON(http.StatusNotFound, response.Fail(response.MsgTagsNotFound))
	case errors.Is(err, resourceservice.ErrResourceNotFound):
		return c.JSON(http.StatusNotFound, response.Fail(response.MsgResourceNotFound))
	case errors.Is(err, resourceservice.ErrDuplicateSlug):
		return c.JSON(http.StatusBadRequest, response.Fail(response.MsgDuplicateSlug))
	case errors.As(err, &imageErr):
		msg := imageErr.Error()
		if msg == "" {
			msg = "Image processing failed"
		}
		return c.JSON(http.StatusBadRequest, response.Fail(msg))
	default:
		log.Error("request failed", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.Fail(response.MsgInternalError))
	}
}

func queryInt(c echo.Context, name string, fallback int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return fallback
	}
	return value
}
