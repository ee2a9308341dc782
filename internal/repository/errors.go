package repository

import "errors"

var (
	ErrResourceNotFound = errors.New("resource not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrImageNotFound    = errors.New("image not found")
	ErrDuplicateSlug    = errors.New("resource slug already exists")
)
