package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4/pgxpool"
)

type TagRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewTagRepository(db *pgxpool.Pool) *TagRepo {
	return &TagRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *TagRepo) CountExisting(ctx context.Context, ids []uuid.UUID) (int, error) {
	const op = "repository.tag_repository.CountExisting"

	return countExistingIDs(ctx, r.db, r.sb, op, "tags", ids)
}
