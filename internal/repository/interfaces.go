// Package repository contains repository interfaces for persistence layers.
//
// Lookups of a single entity return (nil, nil) when it does not exist.
// Methods that touch several entities run as one storage transaction.
package repository

import (
	"context"
	"time"

	"github.com/gabojait/gabojait-spring-sub005/internal/entities"
)

// LifecycleInterface describes storage startup/shutdown hooks.
type LifecycleInterface interface {
	OnStart(_ context.Context) error
	OnStop(_ context.Context) error
}

// UserInterface exposes user-related operations.
type UserInterface interface {
	CreateUser(ctx context.Context, user entities.User) (*entities.User, error)
	GetUser(ctx context.Context, userID int64) (*entities.User, error)
	UpdateProfile(ctx context.Context, user entities.User) (*entities.User, error)
	DeleteUser(ctx context.Context, userID int64) error
}

// TeamInterface exposes team and membership operations.
type TeamInterface interface {
	// CreateTeam inserts the team, its openings and the leader membership.
	CreateTeam(ctx context.Context, team entities.Team, leader entities.TeamMember) (*entities.Team, error)
	GetTeam(ctx context.Context, teamID int64) (*entities.Team, error)
	ListMembers(ctx context.Context, teamID int64) ([]entities.TeamMember, error)
	GetMember(ctx context.Context, memberID int64) (*entities.TeamMember, error)
	// ActiveMember returns the membership of userID in teamID that has not been left.
	ActiveMember(ctx context.Context, teamID, userID int64) (*entities.TeamMember, error)
	// LeaveTeam marks the membership left and frees its opening slot.
	LeaveTeam(ctx context.Context, memberID int64, at time.Time) error
	// CompleteTeam ends the engagement and withdraws live offers of the team.
	CompleteTeam(ctx context.Context, teamID int64, at time.Time) (*entities.Team, error)
	// DisbandTeam soft-deletes the team, marks members left and withdraws live offers.
	DisbandTeam(ctx context.Context, teamID int64, at time.Time) (int, error)
}

// OfferInterface exposes offer lifecycle operations.
type OfferInterface interface {
	// CreateOffer fails with entities.ErrOfferExists on a second live pending offer for the tuple.
	CreateOffer(ctx context.Context, offer entities.Offer) (*entities.Offer, error)
	GetOffer(ctx context.Context, offerID int64) (*entities.Offer, error)
	// LivePendingOffer returns the live pending offer for the tuple, if any.
	LivePendingOffer(ctx context.Context, userID, teamID int64, position entities.Position) (*entities.Offer, error)
	// AcceptOffer resolves the offer, fills one slot with a conditional write and creates the membership.
	// Nothing is applied when any step fails; entities.ErrPositionFull leaves the offer pending.
	AcceptOffer(ctx context.Context, cmd entities.AcceptOffer) (*entities.Offer, *entities.TeamMember, error)
	// DeclineOffer resolves a live pending offer as declined.
	DeclineOffer(ctx context.Context, offerID int64, at time.Time) (*entities.Offer, error)
	// WithdrawOffer hides a live pending offer without changing its status.
	WithdrawOffer(ctx context.Context, offerID int64) (*entities.Offer, error)
	ListOffers(ctx context.Context, filter entities.OfferFilter) (entities.OfferPage, error)
}

// ReviewInterface exposes review operations.
type ReviewInterface interface {
	// CreateReview stores the review and folds its score into the reviewee rating.
	CreateReview(ctx context.Context, review entities.Review) (*entities.Review, entities.Rating, error)
	// ReviewExists reports whether reviewerUserID already reviewed revieweeUserID for teamID,
	// whichever memberships were used.
	ReviewExists(ctx context.Context, teamID, reviewerUserID, revieweeUserID int64) (bool, error)
	ListReviews(ctx context.Context, revieweeUserID int64, page entities.Page) (entities.ReviewPage, error)
}

// FavoriteInterface exposes bookmark operations.
type FavoriteInterface interface {
	// GetFavorite returns the row for the target including soft-deleted ones.
	GetFavorite(ctx context.Context, ownerID int64, kind entities.FavoriteKind, targetID int64) (*entities.Favorite, error)
	CreateFavorite(ctx context.Context, fav entities.Favorite) (*entities.Favorite, error)
	SetFavoriteDeleted(ctx context.Context, favoriteID int64, deleted bool) (*entities.Favorite, error)
	ListFavorites(ctx context.Context, ownerID int64, kind entities.FavoriteKind) ([]entities.Favorite, error)
}

// StatsInterface exposes aggregated review statistics.
type StatsInterface interface {
	ReviewSummary(ctx context.Context, userID int64) (entities.ReviewSummary, error)
}
