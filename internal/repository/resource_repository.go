package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"resource_hub/internal/domain/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

var resourceColumns = []string{
	"id", "slug", "title", "excerpt", "content",
	"meta_title", "meta_description", "meta_keywords",
	"status", "date", "reading_time", "views",
	"author_id", "featured_image_id", "created_at", "updated_at",
}

type ResourceRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewResourceRepository(db *pgxpool.Pool) *ResourceRepo {
	return &ResourceRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func scanResource(row pgx.Row) (models.Resource, error) {
	var r models.Resource
	var authorID, imageID uuid.NullUUID

	err := row.Scan(
		&r.ID,
		&r.Slug,
		&r.Title,
		&r.Excerpt,
		&r.Content,
		&r.MetaTitle,
		&r.MetaDescription,
		&r.MetaKeywords,
		&r.Status,
		&r.Date,
		&r.ReadingTime,
		&r.Views,
		&authorID,
		&imageID,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	if err != nil {
		return models.Resource{}, err
	}

	if authorID.Valid {
		r.AuthorID = &authorID.UUID
	}
	if imageID.Valid {
		r.FeaturedImageID = &imageID.UUID
	}

	return r, nil
}

func (b *ResourceRepo) GetBySlug(ctx context.Context, slug string) (*models.ResourceWithRelations, error) {
	const op = "repository.resource_repository.GetBySlug"

	query, args, err := b.sb.Select(resourceColumns...).
		From("resources").
		Where(sq.Eq{"slug": slug}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	resource, err := scanResource(b.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrResourceNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	withRelations, err := b.loadRelations(ctx, []models.Resource{resource})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &withRelations[0], nil
}

func (b *ResourceRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Resource, error) {
	const op = "repository.resource_repository.GetByID"

	query, args, err := b.sb.Select(resourceColumns...).
		From("resources").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	resource, err := scanResource(b.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrResourceNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &resource, nil
}

// IncrementViews bumps the view counter with a database-side expression so
// concurrent increments never lose updates.
func (b *ResourceRepo) IncrementViews(ctx context.Context, id uuid.UUID) error {
	const op = "repository.resource_repository.IncrementViews"

	query, args, err := b.sb.Update("resources").
		Set("views", sq.Expr("views + 1")).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	_, err = b.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (b *ResourceRepo) ListPage(ctx context.Context, limit, offset int) ([]models.ResourceWithRelations, error) {
	const op = "repository.resource_repository.ListPage"

	query, args, err := b.sb.Select(resourceColumns...).
		From("resources").
		OrderBy("date DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	resources, err := b.queryResources(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return b.loadRelations(ctx, resources)
}

func (b *ResourceRepo) Count(ctx context.Context) (int, error) {
	const op = "repository.resource_repository.Count"

	query, args, err := b.sb.Select("COUNT(*)").From("resources").ToSql()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	var count int
	if err := b.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return count, nil
}

func (b *ResourceRepo) CountPublishedByCategory(ctx context.Context, categoryID uuid.UUID) (int, error) {
	const op = "repository.resource_repository.CountPublishedByCategory"

	query, args, err := b.sb.Select("COUNT(*)").
		From("resources r").
		Join("resource_categories rc ON rc.resource_id = r.id").
		Where(sq.Eq{"rc.category_id": categoryID, "r.status": models.StatusPublished}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	var count int
	if err := b.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return count, nil
}

func (b *ResourceRepo) ListPublishedIDsByCategory(ctx context.Context, categoryID uuid.UUID, limit, offset int) ([]uuid.UUID, error) {
	const op = "repository.resource_repository.ListPublishedIDsByCategory"

	query, args, err := b.sb.Select("r.id").
		From("resources r").
		Join("resource_categories rc ON rc.resource_id = r.id").
		Where(sq.Eq{"rc.category_id": categoryID, "r.status": models.StatusPublished}).
		OrderBy("r.date DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return b.queryIDs(ctx, op, query, args)
}

func (b *ResourceRepo) ListIDsByCategories(ctx context.Context, categoryIDs []uuid.UUID, exclude uuid.UUID) ([]uuid.UUID, error) {
	const op = "repository.resource_repository.ListIDsByCategories"

	if len(categoryIDs) == 0 {
		return nil, nil
	}

	query, args, err := b.sb.Select("DISTINCT resource_id").
		From("resource_categories").
		Where(sq.Eq{"category_id": categoryIDs}).
		Where(sq.NotEq{"resource_id": exclude}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return b.queryIDs(ctx, op, query, args)
}

func (b *ResourceRepo) ListIDsByTags(ctx context.Context, tagIDs []uuid.UUID, exclude uuid.UUID) ([]uuid.UUID, error) {
	const op = "repository.resource_repository.ListIDsByTags"

	if len(tagIDs) == 0 {
		return nil, nil
	}

	query, args, err := b.sb.Select("DISTINCT resource_id").
		From("resource_tags").
		Where(sq.Eq{"tag_id": tagIDs}).
		Where(sq.NotEq{"resource_id": exclude}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return b.queryIDs(ctx, op, query, args)
}

// GetManyWithRelations fetches the given resources with full relations,
// ordered by date descending. A limit of 0 means no limit.
func (b *ResourceRepo) GetManyWithRelations(ctx context.Context, ids []uuid.UUID, limit int) ([]models.ResourceWithRelations, error) {
	const op = "repository.resource_repository.GetManyWithRelations"

	if len(ids) == 0 {
		return []models.ResourceWithRelations{}, nil
	}

	builder := b.sb.Select(resourceColumns...).
		From("resources").
		Where(sq.Eq{"id": ids}).
		OrderBy("date DESC")
	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	resources, err := b.queryResources(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	withRelations, err := b.loadRelations(ctx, resources)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// The relation load does not guarantee order, re-sort by date.
	sort.SliceStable(withRelations, func(i, j int) bool {
		return withRelations[i].Date.After(withRelations[j].Date)
	})

	return withRelations, nil
}

// ListPublishedForSitemap returns slug and date of every published
// resource, newest first.
func (b *ResourceRepo) ListPublishedForSitemap(ctx context.Context) ([]models.SitemapEntry, error) {
	const op = "repository.resource_repository.ListPublishedForSitemap"

	query, args, err := b.sb.Select("slug", "date").
		From("resources").
		Where(sq.Eq{"status": models.StatusPublished}).
		OrderBy("date DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := b.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var entries []models.SitemapEntry
	for rows.Next() {
		var e models.SitemapEntry
		if err := rows.Scan(&e.Slug, &e.Date); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// CreateWithRelations inserts the resource row and its category/tag join
// rows in a single transaction. All three inserts succeed or roll back
// together.
func (b *ResourceRepo) CreateWithRelations(ctx context.Context, resource models.Resource, categoryIDs, tagIDs []uuid.UUID) (uuid.UUID, error) {
	const op = "repository.resource_repository.CreateWithRelations"

	tx, err := b.db.Begin(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}
	defer tx.Rollback(ctx)

	query, args, err := b.sb.Insert("resources").
		Columns(
			"slug", "title", "excerpt", "content",
			"meta_title", "meta_description", "meta_keywords",
			"status", "date", "reading_time",
			"author_id", "featured_image_id",
			"created_at", "updated_at",
		).
		Values(
			resource.Slug,
			resource.Title,
			resource.Excerpt,
			resource.Content,
			resource.MetaTitle,
			resource.MetaDescription,
			resource.MetaKeywords,
			resource.Status,
			resource.Date,
			resource.ReadingTime,
			resource.AuthorID,
			resource.FeaturedImageID,
			resource.CreatedAt,
			resource.UpdatedAt,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	var id uuid.UUID
	if err := tx.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		if strings.Contains(err.Error(), "duplicate key value violates unique constraint") {
			return uuid.Nil, fmt.Errorf("%s: %w", op, ErrDuplicateSlug)
		}
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := insertJoinRows(ctx, tx, b.sb, "resource_categories", "category_id", id, categoryIDs); err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := insertJoinRows(ctx, tx, b.sb, "resource_tags", "tag_id", id, tagIDs); err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

var allowedResourceFields = map[string]bool{
	"slug":              true,
	"title":             true,
	"excerpt":           true,
	"content":           true,
	"meta_title":        true,
	"meta_description":  true,
	"meta_keywords":     true,
	"status":            true,
	"date":              true,
	"reading_time":      true,
	"author_id":         true,
	"featured_image_id": true,
}

// UpdateWithRelations applies a sparse field update and, when a category or
// tag ID list is present, replaces the full association set
// (delete-then-insert) inside one transaction. An empty non-nil list
// removes all associations.
func (b *ResourceRepo) UpdateWithRelations(ctx context.Context, id uuid.UUID, update ResourceUpdate) error {
	const op = "repository.resource_repository.UpdateWithRelations"

	for field := range update.Fields {
		if !allowedResourceFields[field] {
			return fmt.Errorf("%s: field '%s' is not allowed for update", op, field)
		}
	}

	tx, err := b.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer tx.Rollback(ctx)

	updateBuilder := b.sb.Update("resources").
		Set("updated_at", time.Now().UTC())
	for field, value := range update.Fields {
		updateBuilder = updateBuilder.Set(field, value)
	}

	query, args, err := updateBuilder.Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	result, err := tx.Exec(ctx, query, args...)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key value violates unique constraint") {
			return fmt.Errorf("%s: %w", op, ErrDuplicateSlug)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, ErrResourceNotFound)
	}

	if update.CategoryIDs != nil {
		if err := replaceJoinRows(ctx, tx, b.sb, "resource_categories", "category_id", id, *update.CategoryIDs); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	if update.TagIDs != nil {
		if err := replaceJoinRows(ctx, tx, b.sb, "resource_tags", "tag_id", id, *update.TagIDs); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func insertJoinRows(ctx context.Context, tx pgx.Tx, sb sq.StatementBuilderType, table, column string, resourceID uuid.UUID, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	builder := sb.Insert(table).Columns("resource_id", column)
	for _, relID := range ids {
		builder = builder.Values(resourceID, relID)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, query, args...)
	return err
}

func replaceJoinRows(ctx context.Context, tx pgx.Tx, sb sq.StatementBuilderType, table, column string, resourceID uuid.UUID, ids []uuid.UUID) error {
	query, args, err := sb.Delete(table).
		Where(sq.Eq{"resource_id": resourceID}).
		ToSql()
	if err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return err
	}

	return insertJoinRows(ctx, tx, sb, table, column, resourceID, ids)
}

func (b *ResourceRepo) queryResources(ctx context.Context, query string, args []interface{}) ([]models.Resource, error) {
	rows, err := b.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var resources []models.Resource
	for rows.Next() {
		resource, err := scanResource(rows)
		if err != nil {
			return nil, err
		}
		resources = append(resources, resource)
	}

	return resources, rows.Err()
}

func (b *ResourceRepo) queryIDs(ctx context.Context, op, query string, args []interface{}) ([]uuid.UUID, error) {
	rows, err := b.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// loadRelations attaches authors, featured images, categories and tags to
// the given resources in bulk.
func (b *ResourceRepo) loadRelations(ctx context.Context, resources []models.Resource) ([]models.ResourceWithRelations, error) {
	const op = "repository.resource_repository.loadRelations"

	result := make([]models.ResourceWithRelations, 0, len(resources))
	if len(resources) == 0 {
		return result, nil
	}

	resourceIDs := make([]uuid.UUID, 0, len(resources))
	authorIDs := make([]uuid.UUID, 0, len(resources))
	imageIDs := make([]uuid.UUID, 0, len(resources))
	for _, r := range resources {
		resourceIDs = append(resourceIDs, r.ID)
		if r.AuthorID != nil {
			authorIDs = append(authorIDs, *r.AuthorID)
		}
		if r.FeaturedImageID != nil {
			imageIDs = append(imageIDs, *r.FeaturedImageID)
		}
	}

	authors, err := b.authorsByID(ctx, authorIDs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	images, err := b.imagesByID(ctx, imageIDs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	categories, err := b.categoriesByResource(ctx, resourceIDs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	tags, err := b.tagsByResource(ctx, resourceIDs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, r := range resources {
		rel := models.ResourceWithRelations{
			Resource:   r,
			Categories: []models.Category{},
			Tags:       []models.Tag{},
		}
		if r.AuthorID != nil {
			if author, ok := authors[*r.AuthorID]; ok {
				rel.Author = &author
			}
		}
		if r.FeaturedImageID != nil {
			if image, ok := images[*r.FeaturedImageID]; ok {
				rel.FeaturedImage = &image
			}
		}
		if cats, ok := categories[r.ID]; ok {
			rel.Categories = cats
		}
		if resTags, ok := tags[r.ID]; ok {
			rel.Tags = resTags
		}
		result = append(result, rel)
	}

	return result, nil
}

func (b *ResourceRepo) authorsByID(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Author, error) {
	authors := make(map[uuid.UUID]models.Author)
	if len(ids) == 0 {
		return authors, nil
	}

	query, args, err := b.sb.Select("id", "name", "email", "bio", "avatar_url").
		From("authors").
		Where(sq.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := b.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var a models.Author
		if err := rows.Scan(&a.ID, &a.Name, &a.Email, &a.Bio, &a.AvatarURL); err != nil {
			return nil, err
		}
		authors[a.ID] = a
	}

	return authors, rows.Err()
}

func (b *ResourceRepo) imagesByID(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Image, error) {
	images := make(map[uuid.UUID]models.Image)
	if len(ids) == 0 {
		return images, nil
	}

	query, args, err := b.sb.Select(imageColumns...).
		From("images").
		Where(sq.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := b.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		img, err := scanImage(rows)
		if err != nil {
			return nil, err
		}
		images[img.ID] = img
	}

	return images, rows.Err()
}

func (b *ResourceRepo) categoriesByResource(ctx context.Context, resourceIDs []uuid.UUID) (map[uuid.UUID][]models.Category, error) {
	query, args, err := b.sb.Select(
		"rc.resource_id",
		"c.id", "c.name", "c.slug", "c.description", "c.created_at", "c.updated_at",
	).
		From("resource_categories rc").
		Join("categories c ON c.id = rc.category_id").
		Where(sq.Eq{"rc.resource_id": resourceIDs}).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := b.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := make(map[uuid.UUID][]models.Category)
	for rows.Next() {
		var resourceID uuid.UUID
		var c models.Category
		if err := rows.Scan(&resourceID, &c.ID, &c.Name, &c.Slug, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		categories[resourceID] = append(categories[resourceID], c)
	}

	return categories, rows.Err()
}

func (b *ResourceRepo) tagsByResource(ctx context.Context, resourceIDs []uuid.UUID) (map[uuid.UUID][]models.Tag, error) {
	query, args, err := b.sb.Select("rt.resource_id", "t.id", "t.name", "t.slug").
		From("resource_tags rt").
		Join("tags t ON t.id = rt.tag_id").
		Where(sq.Eq{"rt.resource_id": resourceIDs}).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := b.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := make(map[uuid.UUID][]models.Tag)
	for rows.Next() {
		var resourceID uuid.UUID
		var t models.Tag
		if err := rows.Scan(&resourceID, &t.ID, &t.Name, &t.Slug); err != nil {
			return nil, err
		}
		tags[resourceID] = append(tags[resourceID], t)
	}

	return tags, rows.Err()
}
