package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4/pgxpool"
)

type AuthorRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewAuthorRepository(db *pgxpool.Pool) *AuthorRepo {
	return &AuthorRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *AuthorRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	const op = "repository.author_repository.Exists"

	query, args, err := r.sb.Select("1").
		From("authors").
		Where(sq.Eq{"id": id}).
		Prefix("SELECT EXISTS (").
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	var exists bool
	if err := r.db.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return exists, nil
}
