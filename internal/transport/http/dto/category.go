package dto

import (
	"resource_hub/internal/domain/models"

	"github.com/google/uuid"
)

type CategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug,omitempty"`
	Description string    `json:"description,omitempty"`
}

type CategoryWithCountResponse struct {
	CategoryResponse
	ResourceCount int `json:"resourceCount"`
}

func NewCategoryResponse(c models.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
	}
}

func NewCategoryWithCountResponses(categories []models.CategoryWithCount) []CategoryWithCountResponse {
	out := make([]CategoryWithCountResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, CategoryWithCountResponse{
			CategoryResponse: NewCategoryResponse(c.Category),
			ResourceCount:    c.ResourceCount,
		})
	}
	return out
}
