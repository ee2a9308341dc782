package models

import "github.com/google/uuid"

// Author owns resources. A resource without an author ("no byline") is
// valid.
type Author struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Bio       string
	AvatarURL string
}
