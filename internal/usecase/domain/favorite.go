package domain

import (
	"context"
	"fmt"

	"github.com/gabojait/gabojait-spring-sub005/internal/entities"
)

// SetFavorite adds or removes a bookmark. Repeating the same request is a no-op.
// The returned favorite has IsDeleted set when the target is not bookmarked.
func (u *Usecase) SetFavorite(ctx context.Context, owner int64, kind entities.FavoriteKind, targetID int64, add bool) (entities.Favorite, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	state := entities.Favorite{OwnerID: owner, Kind: kind, TargetID: targetID, IsDeleted: true}
	if targetID <= 0 {
		return state, fmt.Errorf("%w: target id is required", entities.ErrValidation)
	}

	switch kind {
	case entities.FavoriteUser:
		if targetID == owner {
			return state, fmt.Errorf("%w: cannot favorite yourself", entities.ErrValidation)
		}
		if add {
			if _, err := u.liveUser(ctx, targetID); err != nil {
				return state, err
			}
		}
	case entities.FavoriteTeam:
		if add {
			if _, err := u.liveTeam(ctx, targetID); err != nil {
				return state, err
			}
		}
	default:
		return state, fmt.Errorf("%w: unknown favorite kind", entities.ErrValidation)
	}

	fav, err := u.repo.GetFavorite(ctx, owner, kind, targetID)
	if err != nil {
		return state, u.fail("get favorite", err)
	}

	var changed *entities.Favorite
	switch {
	case add && fav == nil:
		changed, err = u.repo.CreateFavorite(ctx, state)
	case add && fav.IsDeleted:
		changed, err = u.repo.SetFavoriteDeleted(ctx, fav.ID, false)
	case !add && fav != nil && !fav.IsDeleted:
		changed, err = u.repo.SetFavoriteDeleted(ctx, fav.ID, true)
	case fav != nil:
		return *fav, nil
	default:
		return state, nil
	}
	if err != nil {
		return state, u.fail("set favorite", err)
	}
	if changed == nil {
		return state, fmt.Errorf("set favorite: %w: favorite vanished", entities.ErrInternal)
	}
	return *changed, nil
}

// ListFavorites returns the owner's active bookmarks, optionally of one kind.
func (u *Usecase) ListFavorites(ctx context.Context, owner int64, kind entities.FavoriteKind) ([]entities.Favorite, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	res, err := u.repo.ListFavorites(ctx, owner, kind)
	if err != nil {
		return nil, u.fail("list favorites", err)
	}
	return res, nil
}
