package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
)

type Repository struct {
	db       *pgxpool.Pool
	Resource ResourceRepository
	Category CategoryRepository
	Tag      TagRepository
	Author   AuthorRepository
	Image    ImageRepository
}

func NewRepository(ctx context.Context, dsn string) (*Repository, error) {
	db, err := pgxpool.Connect(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return NewRepositoryWithPool(db), nil
}

func NewRepositoryWithPool(db *pgxpool.Pool) *Repository {
	return &Repository{
		db:       db,
		Resource: NewResourceRepository(db),
		Category: NewCategoryRepository(db),
		Tag:      NewTagRepository(db),
		Author:   NewAuthorRepository(db),
		Image:    NewImageRepository(db),
	}
}

func (r *Repository) Close() {
	r.db.Close()
}
