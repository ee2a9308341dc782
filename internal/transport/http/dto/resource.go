package dto

import (
	"time"

	"resource_hub/internal/domain/models"

	"github.com/google/uuid"
)

// FeaturedImagePayload is the structured image attachment of a create or
// update request. URL points at the source to download and re-host.
type FeaturedImagePayload struct {
	URL              string `json:"url" validate:"required,url"`
	Alt              string `json:"alt"`
	Title            string `json:"title,omitempty"`
	Description      string `json:"description,omitempty"`
	Width            int    `json:"width,omitempty"`
	Height           int    `json:"height,omitempty"`
	MimeType         string `json:"mimeType,omitempty"`
	OriginalFilename string `json:"originalFilename,omitempty"`
	BlurDataURL      string `json:"blurDataUrl,omitempty"`
}

type CreateResourceRequest struct {
	Slug             string                `json:"slug" validate:"required"`
	Title            string                `json:"title" validate:"required"`
	Excerpt          string                `json:"excerpt,omitempty"`
	Content          string                `json:"content" validate:"required"`
	MetaTitle        string                `json:"metaTitle,omitempty"`
	MetaDescription  string                `json:"metaDescription,omitempty"`
	MetaKeywords     string                `json:"metaKeywords,omitempty"`
	AuthorID         uuid.UUID             `json:"authorId" validate:"required"`
	CategoryIDs      []uuid.UUID           `json:"categoryIds"`
	TagIDs           []uuid.UUID           `json:"tagIds"`
	Status           string                `json:"status" validate:"required,oneof=draft readyToPublish published"`
	Date             time.Time             `json:"date" validate:"required"`
	ReadingTime      string                `json:"readingTime,omitempty"`
	FeaturedImageURL string                `json:"featuredImageUrl,omitempty" validate:"omitempty,url"`
	FeaturedImage    *FeaturedImagePayload `json:"featuredImage,omitempty"`
}

// UpdateResourceRequest identifies the target by PostID; every other field
// is optional. A nil field is never written, which distinguishes "not
// provided" from "explicitly cleared": a non-nil empty CategoryIDs or
// TagIDs removes all associations.
type UpdateResourceRequest struct {
	PostID           uuid.UUID             `json:"postId" validate:"required"`
	Slug             *string               `json:"slug,omitempty"`
	Title            *string               `json:"title,omitempty"`
	Excerpt          *string               `json:"excerpt,omitempty"`
	Content          *string               `json:"content,omitempty"`
	MetaTitle        *string               `json:"metaTitle,omitempty"`
	MetaDescription  *string               `json:"metaDescription,omitempty"`
	MetaKeywords     *string               `json:"metaKeywords,omitempty"`
	AuthorID         *uuid.UUID            `json:"authorId,omitempty"`
	CategoryIDs      *[]uuid.UUID          `json:"categoryIds,omitempty"`
	TagIDs           *[]uuid.UUID          `json:"tagIds,omitempty"`
	Status           *string               `json:"status,omitempty" validate:"omitempty,oneof=draft readyToPublish published"`
	Date             *time.Time            `json:"date,omitempty"`
	ReadingTime      *string               `json:"readingTime,omitempty"`
	FeaturedImageURL *string               `json:"featuredImageUrl,omitempty" validate:"omitempty,url"`
	FeaturedImage    *FeaturedImagePayload `json:"featuredImage,omitempty"`
}

// ResourceSummary is the projection returned by the write endpoints.
type ResourceSummary struct {
	ID              uuid.UUID  `json:"id"`
	Slug            string     `json:"slug"`
	Title           string     `json:"title"`
	Status          string     `json:"status"`
	FeaturedImageID *uuid.UUID `json:"featuredImageId,omitempty"`
	CreatedAt       *time.Time `json:"createdAt,omitempty"`
	UpdatedAt       *time.Time `json:"updatedAt,omitempty"`
}

type AuthorResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Bio       string    `json:"bio,omitempty"`
	AvatarURL string    `json:"avatarUrl,omitempty"`
}

type ImageResponse struct {
	ID          uuid.UUID `json:"id"`
	URL         string    `json:"url"`
	Alt         string    `json:"alt"`
	Title       string    `json:"title,omitempty"`
	Width       int       `json:"width,omitempty"`
	Height      int       `json:"height,omitempty"`
	BlurDataURL string    `json:"blurDataUrl,omitempty"`
}

type TagResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

type ResourceResponse struct {
	ID              uuid.UUID          `json:"id"`
	Slug            string             `json:"slug"`
	Title           string             `json:"title"`
	Excerpt         string             `json:"excerpt,omitempty"`
	Content         string             `json:"content"`
	MetaTitle       string             `json:"metaTitle,omitempty"`
	MetaDescription string             `json:"metaDescription,omitempty"`
	MetaKeywords    string             `json:"metaKeywords,omitempty"`
	Status          string             `json:"status"`
	Date            time.Time          `json:"date"`
	ReadingTime     string             `json:"readingTime,omitempty"`
	Views           int                `json:"views"`
	Author          *AuthorResponse    `json:"author,omitempty"`
	FeaturedImage   *ImageResponse     `json:"featuredImage,omitempty"`
	Categories      []CategoryResponse `json:"categories"`
	Tags            []TagResponse      `json:"tags"`
	CreatedAt       time.Time          `json:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt"`
}

type ResourceListResponse struct {
	Resources  []ResourceResponse `json:"resources"`
	TotalCount int                `json:"totalCount"`
	TotalPages int                `json:"totalPages"`
	Page       int                `json:"page"`
	PageSize   int                `json:"pageSize"`
}

type CategoryResourceListResponse struct {
	ResourceListResponse
	Category *CategoryResponse `json:"category"`
}

// NewResourceResponse maps a joined domain resource onto the wire shape.
func NewResourceResponse(r models.ResourceWithRelations) ResourceResponse {
	resp := ResourceResponse{
		ID:              r.ID,
		Slug:            r.Slug,
		Title:           r.Title,
		Excerpt:         r.Excerpt,
		Content:         r.Content,
		MetaTitle:       r.MetaTitle,
		MetaDescription: r.MetaDescription,
		MetaKeywords:    r.MetaKeywords,
		Status:          string(r.Status),
		Date:            r.Date,
		ReadingTime:     r.ReadingTime,
		Views:           r.Views,
		Categories:      make([]CategoryResponse, 0, len(r.Categories)),
		Tags:            make([]TagResponse, 0, len(r.Tags)),
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}

	if r.Author != nil {
		resp.Author = &AuthorResponse{
			ID:        r.Author.ID,
			Name:      r.Author.Name,
			Email:     r.Author.Email,
			Bio:       r.Author.Bio,
			AvatarURL: r.Author.AvatarURL,
		}
	}
	if r.FeaturedImage != nil {
		resp.FeaturedImage = &ImageResponse{
			ID:          r.FeaturedImage.ID,
			URL:         r.FeaturedImage.URL,
			Alt:         r.FeaturedImage.Alt,
			Title:       r.FeaturedImage.Title,
			Width:       r.FeaturedImage.Width,
			Height:      r.FeaturedImage.Height,
			BlurDataURL: r.FeaturedImage.BlurDataURL,
		}
	}
	for _, c := range r.Categories {
		resp.Categories = append(resp.Categories, NewCategoryResponse(c))
	}
	for _, t := range r.Tags {
		resp.Tags = append(resp.Tags, TagResponse{ID: t.ID, Name: t.Name, Slug: t.Slug})
	}

	return resp
}

func NewResourceResponses(resources []models.ResourceWithRelations) []ResourceResponse {
	out := make([]ResourceResponse, 0, len(resources))
	for _, r := range resources {
		out = append(out, NewResourceResponse(r))
	}
	return out
}
