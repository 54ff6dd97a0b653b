package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/gabojait/gabojait-spring-sub005/internal/entities"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

const (
	favoriteColumns     = `id, owner_id, kind, target_id, is_deleted, created_at, updated_at`
	selectFavoriteQuery = `SELECT ` + favoriteColumns + ` FROM favorites WHERE owner_id=$1 AND kind=$2 AND target_id=$3`
	insertFavoriteQuery = `
INSERT INTO favorites(owner_id, kind, target_id)
VALUES ($1, $2, $3)
ON CONFLICT (owner_id, kind, target_id) DO UPDATE SET is_deleted=false, updated_at=NOW()
RETURNING ` + favoriteColumns
	toggleFavoriteQuery = `UPDATE favorites SET is_deleted=$2, updated_at=NOW() WHERE id=$1 RETURNING ` + favoriteColumns
)

// GetFavorite returns the favorite row for a target including soft-deleted ones, nil when absent.
func (p *Postgres) GetFavorite(ctx context.Context, ownerID int64, kind entities.FavoriteKind, targetID int64) (*entities.Favorite, error) {
	f, err := scanFavorite(p.db.QueryRow(ctx, selectFavoriteQuery, ownerID, kind.Code(), targetID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get favorite: %w", err)
	}
	return f, nil
}

// CreateFavorite inserts an active favorite. A concurrent insert of the same target
// converges on the single row instead of failing.
func (p *Postgres) CreateFavorite(ctx context.Context, fav entities.Favorite) (*entities.Favorite, error) {
	f, err := scanFavorite(p.db.QueryRow(ctx, insertFavoriteQuery, fav.OwnerID, fav.Kind.Code(), fav.TargetID))
	if err != nil {
		return nil, fmt.Errorf("insert favorite: %w", err)
	}
	p.log.Debugw("favorite added", "favorite_id", f.ID, "owner_id", f.OwnerID)
	return f, nil
}

// SetFavoriteDeleted toggles the visibility flag of a favorite.
func (p *Postgres) SetFavoriteDeleted(ctx context.Context, favoriteID int64, deleted bool) (*entities.Favorite, error) {
	f, err := scanFavorite(p.db.QueryRow(ctx, toggleFavoriteQuery, favoriteID, deleted))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("toggle favorite: %w", err)
	}
	return f, nil
}

// ListFavorites returns active favorites of an owner, newest first.
func (p *Postgres) ListFavorites(ctx context.Context, ownerID int64, kind entities.FavoriteKind) ([]entities.Favorite, error) {
	q := psql.Select(favoriteColumns).From("favorites").
		Where(sq.Eq{"owner_id": ownerID, "is_deleted": false}).
		OrderBy("updated_at DESC", "id DESC")
	if kind != entities.FavoriteUnknown {
		q = q.Where(sq.Eq{"kind": kind.Code()})
	}

	rows, err := qQuery(ctx, p.db, q)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	defer rows.Close()

	res := make([]entities.Favorite, 0)
	for rows.Next() {
		f, err := scanFavorite(rows)
		if err != nil {
			return nil, fmt.Errorf("scan favorite: %w", err)
		}
		res = append(res, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate favorites: %w", err)
	}
	return res, nil
}

func scanFavorite(row pgx.Row) (*entities.Favorite, error) {
	var (
		f    entities.Favorite
		kind string
	)
	if err := row.Scan(&f.ID, &f.OwnerID, &kind, &f.TargetID, &f.IsDeleted, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return nil, err
	}
	k, err := entities.ParseFavoriteKind(kind)
	if err != nil {
		return nil, fmt.Errorf("stored favorite kind: %v", err)
	}
	f.Kind = k
	return &f, nil
}
