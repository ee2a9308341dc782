package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"resource_hub/internal/domain/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

var imageColumns = []string{
	"id", "url", "source_url", "alt", "title", "description",
	"width", "height", "mime_type", "original_filename", "blur_data_url",
	"created_at",
}

type ImageRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewImageRepository(db *pgxpool.Pool) *ImageRepo {
	return &ImageRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func scanImage(row pgx.Row) (models.Image, error) {
	var img models.Image
	err := row.Scan(
		&img.ID,
		&img.URL,
		&img.SourceURL,
		&img.Alt,
		&img.Title,
		&img.Description,
		&img.Width,
		&img.Height,
		&img.MimeType,
		&img.OriginalFilename,
		&img.BlurDataURL,
		&img.CreatedAt,
	)
	return img, err
}

func (r *ImageRepo) Create(ctx context.Context, image models.Image) (uuid.UUID, error) {
	const op = "repository.image_repository.Create"

	if image.CreatedAt.IsZero() {
		image.CreatedAt = time.Now().UTC()
	}

	query, args, err := r.sb.Insert("images").
		Columns(
			"url", "source_url", "alt", "title", "description",
			"width", "height", "mime_type", "original_filename", "blur_data_url",
			"created_at",
		).
		Values(
			image.URL,
			image.SourceURL,
			image.Alt,
			image.Title,
			image.Description,
			image.Width,
			image.Height,
			image.MimeType,
			image.OriginalFilename,
			image.BlurDataURL,
			image.CreatedAt,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	var id uuid.UUID
	if err := r.db.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (r *ImageRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Image, error) {
	const op = "repository.image_repository.GetByID"

	query, args, err := r.sb.Select(imageColumns...).
		From("images").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	img, err := scanImage(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrImageNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &img, nil
}

func (r *ImageRepo) UpdateMetadata(ctx context.Context, id uuid.UUID, alt, title, description string) error {
	const op = "repository.image_repository.UpdateMetadata"

	query, args, err := r.sb.Update("images").
		Set("alt", alt).
		Set("title", title).
		Set("description", description).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	_, err = r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *ImageRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "repository.image_repository.Delete"

	query, args, err := r.sb.Delete("images").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	_, err = r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
