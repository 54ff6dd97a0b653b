package usecase

import (
	"context"

	"github.com/gabojait/gabojait-spring-sub005/internal/entities"
)

// UserUsecaseInterface abstracts user-related operations for delivery layer.
type UserUsecaseInterface interface {
	CreateUser(ctx context.Context, user entities.User) (*entities.User, error)
	GetUser(ctx context.Context, userID int64) (*entities.User, error)
	UpdateProfile(ctx context.Context, actor int64, user entities.User) (*entities.User, error)
	DeleteUser(ctx context.Context, actor int64) error
}

// TeamUsecaseInterface abstracts team-related operations.
type TeamUsecaseInterface interface {
	CreateTeam(ctx context.Context, actor int64, team entities.Team, leaderPosition entities.Position) (*entities.Team, error)
	GetTeam(ctx context.Context, teamID int64) (*entities.Team, error)
	ListMembers(ctx context.Context, teamID int64) ([]entities.TeamMember, error)
	LeaveTeam(ctx context.Context, actor, teamID int64) error
	CompleteTeam(ctx context.Context, actor, teamID int64) (*entities.Team, error)
	DisbandTeam(ctx context.Context, actor, teamID int64) (int, error)
}

// OfferUsecaseInterface abstracts the offer lifecycle.
type OfferUsecaseInterface interface {
	CreateOffer(ctx context.Context, actor, userID, teamID int64, position entities.Position) (*entities.Offer, error)
	AcceptOffer(ctx context.Context, actor, offerID int64) (*entities.Offer, *entities.TeamMember, error)
	DeclineOffer(ctx context.Context, actor, offerID int64) (*entities.Offer, error)
	WithdrawOffer(ctx context.Context, actor, offerID int64) (*entities.Offer, error)
	ListOffers(ctx context.Context, actor int64, filter entities.OfferFilter) (entities.OfferPage, error)
}

// ReviewUsecaseInterface abstracts review operations.
type ReviewUsecaseInterface interface {
	CreateReview(ctx context.Context, actor int64, review entities.Review) (*entities.Review, entities.Rating, error)
	ListReviews(ctx context.Context, userID int64, page entities.Page) (entities.ReviewPage, error)
}

// FavoriteUsecaseInterface abstracts bookmark operations.
type FavoriteUsecaseInterface interface {
	SetFavorite(ctx context.Context, owner int64, kind entities.FavoriteKind, targetID int64, add bool) (entities.Favorite, error)
	ListFavorites(ctx context.Context, owner int64, kind entities.FavoriteKind) ([]entities.Favorite, error)
}

// StatsUsecaseInterface abstracts statistics operations.
type StatsUsecaseInterface interface {
	ReviewSummary(ctx context.Context, userID int64) (entities.ReviewSummary, error)
}
