package entities

import "time"

// Favorite is a bookmark from a user to a team or another user.
// IsDeleted toggles the bookmark so history is retained.
type Favorite struct {
	ID        int64
	OwnerID   int64
	Kind      FavoriteKind
	TargetID  int64
	IsDeleted bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
