package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"resource_hub/internal/domain/models"
	"resource_hub/internal/lib/logger/sl"
	"resource_hub/internal/lib/readingtime"
	"resource_hub/internal/repository"
	"resource_hub/internal/transport/http/dto"

	imageservice "resource_hub/internal/services/image_service"

	"github.com/google/uuid"
)

// CreateResource validates referenced entities, runs the optional image
// side-effect, persists the resource with its associations in one
// transaction, then invalidates caches and notifies the indexer.
func (s *ResourceService) CreateResource(ctx context.Context, req dto.CreateResourceRequest) (*dto.ResourceSummary, error) {
	const op = "resource_service.CreateResource"
	log := s.log.With(
		slog.String("op", op),
		slog.String("slug", req.Slug),
	)

	log.Info("creating resource", slog.String("title", req.Title))

	if err := s.checkAuthor(ctx, req.AuthorID); err != nil {
		return nil, err
	}
	if err := s.checkCategories(ctx, req.CategoryIDs); err != nil {
		return nil, err
	}
	if err := s.checkTags(ctx, req.TagIDs); err != nil {
		return nil, err
	}

	var featuredImageID *uuid.UUID
	if input, ok := imageInputFromCreate(req); ok {
		imageID, err := s.images.DownloadAndUpload(ctx, input, req.Slug)
		if err != nil {
			log.Error("image processing failed", sl.Err(err))
			return nil, &ImageError{Err: err}
		}
		featuredImageID = &imageID
	}

	readingTime := req.ReadingTime
	if readingTime == "" {
		readingTime = readingtime.Estimate(req.Content)
	}

	now := time.Now().UTC()
	authorID := req.AuthorID
	resource := models.Resource{
		Slug:            req.Slug,
		Title:           req.Title,
		Excerpt:         req.Excerpt,
		Content:         req.Content,
		MetaTitle:       req.MetaTitle,
		MetaDescription: req.MetaDescription,
		MetaKeywords:    req.MetaKeywords,
		Status:          models.ResourceStatus(req.Status),
		Date:            req.Date,
		ReadingTime:     readingTime,
		AuthorID:        &authorID,
		FeaturedImageID: featuredImageID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	id, err := s.resources.CreateWithRelations(ctx, resource, req.CategoryIDs, req.TagIDs)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateSlug) {
			log.Warn("slug already exists")
			return nil, ErrDuplicateSlug
		}
		log.Error("failed to create resource", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.invalidateContentCaches(ctx)
	s.notifyAsync(req.Slug)

	log.Info("resource created", slog.String("resource_id", id.String()))

	createdAt := now
	return &dto.ResourceSummary{
		ID:              id,
		Slug:            req.Slug,
		Title:           req.Title,
		Status:          req.Status,
		FeaturedImageID: featuredImageID,
		CreatedAt:       &createdAt,
	}, nil
}

// UpdateResource applies a sparse patch to an existing resource. An image
// failure aborts the entire update, unrelated fields included; category
// and tag ID lists, when present, replace the full association set.
func (s *ResourceService) UpdateResource(ctx context.Context, req dto.UpdateResourceRequest) (*dto.ResourceSummary, error) {
	const op = "resource_service.UpdateResource"
	log := s.log.With(
		slog.String("op", op),
		slog.String("post_id", req.PostID.String()),
	)

	log.Info("updating resource")

	existing, err := s.resources.GetByID(ctx, req.PostID)
	if err != nil {
		if errors.Is(err, repository.ErrResourceNotFound) {
			return nil, ErrResourceNotFound
		}
		log.Error("failed to load resource", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if req.AuthorID != nil {
		if err := s.checkAuthor(ctx, *req.AuthorID); err != nil {
			return nil, err
		}
	}
	if req.CategoryIDs != nil {
		if err := s.checkCategories(ctx, *req.CategoryIDs); err != nil {
			return nil, err
		}
	}
	if req.TagIDs != nil {
		if err := s.checkTags(ctx, *req.TagIDs); err != nil {
			return nil, err
		}
	}

	updates := buildUpdateFields(req)

	if req.Content != nil && req.ReadingTime == nil {
		updates["reading_time"] = readingtime.Estimate(*req.Content)
	}

	slug := existing.Slug
	if req.Slug != nil {
		slug = *req.Slug
	}

	// Two image paths, mutually exclusive: the legacy flat URL always
	// replaces, the structured payload delegates the replacement decision
	// to the image service.
	switch {
	case req.FeaturedImageURL != nil:
		newID, err := s.images.DownloadAndUpload(ctx, imageservice.ImageInput{SourceURL: *req.FeaturedImageURL}, slug)
		if err != nil {
			log.Error("image processing failed", sl.Err(err))
			return nil, &ImageError{Err: err}
		}
		updates["featured_image_id"] = newID
		if old := existing.FeaturedImageID; old != nil && *old != newID {
			s.deleteImageAsync(*old)
		}
	case req.FeaturedImage != nil:
		newID, shouldUpdate, err := s.images.HandleFeaturedImageUpdate(ctx, existing.FeaturedImageID, imageInputFromPayload(*req.FeaturedImage), slug)
		if err != nil {
			log.Error("image processing failed", sl.Err(err))
			return nil, &ImageError{Err: err}
		}
		if shouldUpdate {
			updates["featured_image_id"] = newID
			if old := existing.FeaturedImageID; old != nil {
				s.deleteImageAsync(*old)
			}
		}
	}

	update := repository.ResourceUpdate{
		Fields:      updates,
		CategoryIDs: req.CategoryIDs,
		TagIDs:      req.TagIDs,
	}
	if err := s.resources.UpdateWithRelations(ctx, req.PostID, update); err != nil {
		if errors.Is(err, repository.ErrResourceNotFound) {
			return nil, ErrResourceNotFound
		}
		if errors.Is(err, repository.ErrDuplicateSlug) {
			return nil, ErrDuplicateSlug
		}
		log.Error("failed to update resource", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// TODO: when the slug changes, readers of the old slug keep whatever
	// the host cached for it; per-slug reads are uncached here so nothing
	// needs evicting yet, revisit if GetResourceBySlug grows a cache.
	s.invalidateContentCaches(ctx)
	s.notifyAsync(slug)

	updated, err := s.resources.GetByID(ctx, req.PostID)
	if err != nil {
		log.Error("failed to reload updated resource", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("resource updated")

	updatedAt := updated.UpdatedAt
	return &dto.ResourceSummary{
		ID:              updated.ID,
		Slug:            updated.Slug,
		Title:           updated.Title,
		Status:          string(updated.Status),
		FeaturedImageID: updated.FeaturedImageID,
		UpdatedAt:       &updatedAt,
	}, nil
}

func (s *ResourceService) checkAuthor(ctx context.Context, id uuid.UUID) error {
	exists, err := s.authors.Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to verify author: %w", err)
	}
	if !exists {
		return ErrAuthorNotFound
	}
	return nil
}

// checkCategories requires every requested id to match a distinct row, so
// a payload repeating an id fails here instead of dying later on the join
// table's unique constraint.
func (s *ResourceService) checkCategories(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	count, err := s.categories.CountExisting(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to verify categories: %w", err)
	}
	if count != len(ids) {
		return ErrCategoriesNotFound
	}
	return nil
}

func (s *ResourceService) checkTags(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	count, err := s.tags.CountExisting(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to verify tags: %w", err)
	}
	if count != len(ids) {
		return ErrTagsNotFound
	}
	return nil
}

// deleteImageAsync schedules removal of a replaced image. Fire and
// forget: a failed deletion leaves an orphaned image row, there is no
// reconciliation.
func (s *ResourceService) deleteImageAsync(id uuid.UUID) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := s.images.Delete(ctx, id); err != nil {
			s.log.Warn("failed to delete replaced image",
				slog.String("image_id", id.String()), sl.Err(err))
		}
	}()
}

func buildUpdateFields(req dto.UpdateResourceRequest) map[string]interface{} {
	updates := make(map[string]interface{})
	if req.Slug != nil {
		updates["slug"] = *req.Slug
	}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Excerpt != nil {
		updates["excerpt"] = *req.Excerpt
	}
	if req.Content != nil {
		updates["content"] = *req.Content
	}
	if req.MetaTitle != nil {
		updates["meta_title"] = *req.MetaTitle
	}
	if req.MetaDescription != nil {
		updates["meta_description"] = *req.MetaDescription
	}
	if req.MetaKeywords != nil {
		updates["meta_keywords"] = *req.MetaKeywords
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.Date != nil {
		updates["date"] = *req.Date
	}
	if req.ReadingTime != nil {
		updates["reading_time"] = *req.ReadingTime
	}
	if req.AuthorID != nil {
		updates["author_id"] = *req.AuthorID
	}
	return updates
}

func imageInputFromCreate(req dto.CreateResourceRequest) (imageservice.ImageInput, bool) {
	if req.FeaturedImage != nil {
		return imageInputFromPayload(*req.FeaturedImage), true
	}
	if req.FeaturedImageURL != "" {
		return imageservice.ImageInput{SourceURL: req.FeaturedImageURL}, true
	}
	return imageservice.ImageInput{}, false
}

func imageInputFromPayload(p dto.FeaturedImagePayload) imageservice.ImageInput {
	return imageservice.ImageInput{
		SourceURL:        p.URL,
		Alt:              p.Alt,
		Title:            p.Title,
		Description:      p.Description,
		Width:            p.Width,
		Height:           p.Height,
		MimeType:         p.MimeType,
		OriginalFilename: p.OriginalFilename,
		BlurDataURL:      p.BlurDataURL,
	}
}
