package models

import (
	"time"

	"github.com/google/uuid"
)

// Image is a stored featured image. SourceURL records where the image was
// originally downloaded from; the smart-update path uses it to decide
// whether an incoming payload refers to the same picture.
type Image struct {
	ID               uuid.UUID
	URL              string
	SourceURL        string
	Alt              string
	Title            string
	Description      string
	Width            int
	Height           int
	MimeType         string
	OriginalFilename string
	BlurDataURL      string
	CreatedAt        time.Time
}
