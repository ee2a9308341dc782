package models

import (
	"time"

	"github.com/google/uuid"
)

// ResourceStatus gates visibility: only published resources appear in
// public listings, category counts and the sitemap.
type ResourceStatus string

const (
	StatusDraft          ResourceStatus = "draft"
	StatusReadyToPublish ResourceStatus = "readyToPublish"
	StatusPublished      ResourceStatus = "published"
)

func (s ResourceStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusReadyToPublish, StatusPublished:
		return true
	}
	return false
}

// Resource is a single content item (the site's "post"). Slug is the
// public-facing identifier and is globally unique.
type Resource struct {
	ID              uuid.UUID
	Slug            string
	Title           string
	Excerpt         string
	Content         string
	MetaTitle       string
	MetaDescription string
	MetaKeywords    string
	Status          ResourceStatus
	Date            time.Time
	ReadingTime     string
	Views           int
	AuthorID        *uuid.UUID
	FeaturedImageID *uuid.UUID
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// SitemapEntry is the slice of a published resource the sitemap needs.
type SitemapEntry struct {
	Slug string
	Date time.Time
}

// ResourceWithRelations is a resource joined with its author, featured
// image and the full category/tag sets.
type ResourceWithRelations struct {
	Resource
	Author        *Author
	FeaturedImage *Image
	Categories    []Category
	Tags          []Tag
}
