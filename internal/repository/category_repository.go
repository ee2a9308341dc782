package repository

import (
	"context"
	"errors"
	"fmt"

	"resource_hub/internal/domain/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

type CategoryRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewCategoryRepository(db *pgxpool.Pool) *CategoryRepo {
	return &CategoryRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *CategoryRepo) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	const op = "repository.category_repository.GetBySlug"

	query, args, err := r.sb.Select("id", "name", "slug", "description", "created_at", "updated_at").
		From("categories").
		Where(sq.Eq{"slug": slug}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var c models.Category
	err = r.db.QueryRow(ctx, query, args...).Scan(
		&c.ID, &c.Name, &c.Slug, &c.Description, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrCategoryNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &c, nil
}

func (r *CategoryRepo) ListAll(ctx context.Context) ([]models.Category, error) {
	const op = "repository.category_repository.ListAll"

	query, args, err := r.sb.Select("id", "name", "slug", "description", "created_at", "updated_at").
		From("categories").
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		categories = append(categories, c)
	}

	return categories, rows.Err()
}

// ListWithCounts returns every category with its published resource count.
// Categories with no published resources come back with a zero count, not
// omitted. Ordered by count descending, then name ascending.
func (r *CategoryRepo) ListWithCounts(ctx context.Context) ([]models.CategoryWithCount, error) {
	const op = "repository.category_repository.ListWithCounts"

	query, args, err := r.sb.Select(
		"c.id", "c.name", "c.slug", "c.description", "c.created_at", "c.updated_at",
		"COUNT(r.id) AS resource_count",
	).
		From("categories c").
		LeftJoin("resource_categories rc ON rc.category_id = c.id").
		LeftJoin("resources r ON r.id = rc.resource_id AND r.status = ?", models.StatusPublished).
		GroupBy("c.id", "c.name", "c.slug", "c.description", "c.created_at", "c.updated_at").
		OrderBy("resource_count DESC", "c.name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var categories []models.CategoryWithCount
	for rows.Next() {
		var c models.CategoryWithCount
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.CreatedAt, &c.UpdatedAt, &c.ResourceCount); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		categories = append(categories, c)
	}

	return categories, rows.Err()
}

func (r *CategoryRepo) CountExisting(ctx context.Context, ids []uuid.UUID) (int, error) {
	const op = "repository.category_repository.CountExisting"

	return countExistingIDs(ctx, r.db, r.sb, op, "categories", ids)
}

func countExistingIDs(ctx context.Context, db *pgxpool.Pool, sb sq.StatementBuilderType, op, table string, ids []uuid.UUID) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query, args, err := sb.Select("COUNT(*)").
		From(table).
		Where(sq.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	var count int
	if err := db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return count, nil
}
