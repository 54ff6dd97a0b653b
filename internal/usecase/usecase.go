package usecase

import (
	"context"
	"time"

	"github.com/gabojait/gabojait-spring-sub005/internal/repository"
	"github.com/gabojait/gabojait-spring-sub005/internal/usecase/domain"

	"go.uber.org/zap"
)

// InterfaceUsecase aggregates all usecase interfaces.
type InterfaceUsecase interface {
	UserUsecaseInterface
	TeamUsecaseInterface
	OfferUsecaseInterface
	ReviewUsecaseInterface
	FavoriteUsecaseInterface
	StatsUsecaseInterface
}

// New constructs a new usecase layer with its dependencies.
func New(log *zap.SugaredLogger, ctx context.Context, repo repository.Repository, notifier domain.Notifier, timeout time.Duration) InterfaceUsecase {
	return domain.New(log, ctx, repo, notifier, timeout)
}
