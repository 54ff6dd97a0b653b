package memory

import (
	"context"
	"sort"

	"github.com/gabojait/gabojait-spring-sub005/internal/entities"

	"github.com/hashicorp/go-memdb"
)

// GetFavorite returns the favorite row for a target including soft-deleted ones, nil when absent.
func (m *Memory) GetFavorite(_ context.Context, ownerID int64, kind entities.FavoriteKind, targetID int64) (*entities.Favorite, error) {
	return first[entities.Favorite](m.read(), tableFavorites, "target", ownerID, kind, targetID)
}

// CreateFavorite inserts an active favorite, reviving the existing row of the same target.
func (m *Memory) CreateFavorite(_ context.Context, fav entities.Favorite) (*entities.Favorite, error) {
	var created *entities.Favorite
	err := m.write(func(txn *memdb.Txn) error {
		now := m.now()
		existing, err := first[entities.Favorite](txn, tableFavorites, "target", fav.OwnerID, fav.Kind, fav.TargetID)
		if err != nil {
			return err
		}
		if existing != nil {
			existing.IsDeleted = false
			existing.UpdatedAt = now
			created = existing
			return put(txn, tableFavorites, existing)
		}

		id, err := nextID(txn, tableFavorites)
		if err != nil {
			return err
		}
		created = &entities.Favorite{
			ID:        id,
			OwnerID:   fav.OwnerID,
			Kind:      fav.Kind,
			TargetID:  fav.TargetID,
			CreatedAt: now,
			UpdatedAt: now,
		}
		return put(txn, tableFavorites, created)
	})
	if err != nil {
		return nil, err
	}
	m.log.Debugw("favorite added", "favorite_id", created.ID, "owner_id", created.OwnerID)
	return created, nil
}

// SetFavoriteDeleted toggles the visibility flag of a favorite.
func (m *Memory) SetFavoriteDeleted(_ context.Context, favoriteID int64, deleted bool) (*entities.Favorite, error) {
	var updated *entities.Favorite
	err := m.write(func(txn *memdb.Txn) error {
		f, err := first[entities.Favorite](txn, tableFavorites, pk, favoriteID)
		if err != nil || f == nil {
			return err
		}
		f.IsDeleted = deleted
		f.UpdatedAt = m.now()
		updated = f
		return put(txn, tableFavorites, f)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ListFavorites returns active favorites of an owner, newest first.
func (m *Memory) ListFavorites(_ context.Context, ownerID int64, kind entities.FavoriteKind) ([]entities.Favorite, error) {
	favs, err := all[entities.Favorite](m.read(), tableFavorites, "owner", ownerID)
	if err != nil {
		return nil, err
	}
	res := make([]entities.Favorite, 0, len(favs))
	for _, f := range favs {
		if f.IsDeleted || (kind != entities.FavoriteUnknown && f.Kind != kind) {
			continue
		}
		res = append(res, f)
	}
	sort.Slice(res, func(i, j int) bool {
		if !res[i].UpdatedAt.Equal(res[j].UpdatedAt) {
			return res[i].UpdatedAt.After(res[j].UpdatedAt)
		}
		return res[i].ID > res[j].ID
	})
	return res, nil
}
