package models

import (
	"time"

	"github.com/google/uuid"
)

// Category is a broad topical grouping of resources. It exists
// independently of resources and may have zero of them.
type Category struct {
	ID          uuid.UUID
	Name        string
	Slug        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CategoryWithCount carries the number of published resources attached to
// the category. Zero is a valid count, not an omission.
type CategoryWithCount struct {
	Category
	ResourceCount int
}
