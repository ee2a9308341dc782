package models

import "github.com/google/uuid"

// Tag is a lightweight label on a resource.
type Tag struct {
	ID   uuid.UUID
	Name string
	Slug string
}
