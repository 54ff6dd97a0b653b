package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gabojait/gabojait-spring-sub005/internal/entities"
	"github.com/gabojait/gabojait-spring-sub005/internal/repository"

	"go.uber.org/zap"
)

// Notifier delivers best-effort notifications to users.
type Notifier interface {
	Notify(ctx context.Context, userID int64, kind string, payload map[string]any)
}

// Usecase struct implements all usecase interfaces.
type Usecase struct {
	ctx      context.Context
	log      *zap.SugaredLogger
	repo     repository.Repository
	notifier Notifier
	timeout  time.Duration
	now      func() time.Time
}

// New constructs a new usecase layer with its dependencies.
func New(
	log *zap.SugaredLogger,
	ctx context.Context,
	repo repository.Repository,
	notifier Notifier,
	timeout time.Duration,
) *Usecase {
	return &Usecase{
		ctx:      ctx,
		log:      log,
		repo:     repo,
		notifier: notifier,
		timeout:  timeout,
		now:      time.Now,
	}
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

var classes = []error{
	entities.ErrValidation,
	entities.ErrConflict,
	entities.ErrAuthorization,
	entities.ErrNotFound,
	entities.ErrCapacity,
	entities.ErrInternal,
}

// fail passes classified errors through and turns anything else into ErrInternal.
func (u *Usecase) fail(op string, err error) error {
	for _, c := range classes {
		if errors.Is(err, c) {
			return err
		}
	}
	u.log.Errorw(op+" failed", "error", err)
	return fmt.Errorf("%s: %w: %w", op, entities.ErrInternal, err)
}

func (u *Usecase) notify(ctx context.Context, userID int64, kind string, payload map[string]any) {
	if u.notifier == nil {
		return
	}
	u.notifier.Notify(context.WithoutCancel(ctx), userID, kind, payload)
}

// liveUser loads a user that has not been deleted.
func (u *Usecase) liveUser(ctx context.Context, userID int64) (*entities.User, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("%w: user id is required", entities.ErrValidation)
	}
	user, err := u.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, u.fail("get user", err)
	}
	if user == nil || user.IsDeleted {
		return nil, entities.ErrUserNotFound
	}
	return user, nil
}

// liveTeam loads a team that has not been disbanded. Completed teams are returned.
func (u *Usecase) liveTeam(ctx context.Context, teamID int64) (*entities.Team, error) {
	if teamID <= 0 {
		return nil, fmt.Errorf("%w: team id is required", entities.ErrValidation)
	}
	team, err := u.repo.GetTeam(ctx, teamID)
	if err != nil {
		return nil, u.fail("get team", err)
	}
	if team == nil || team.IsDeleted {
		return nil, entities.ErrTeamNotFound
	}
	return team, nil
}

// activeTeam loads a team that is neither disbanded nor completed.
func (u *Usecase) activeTeam(ctx context.Context, teamID int64) (*entities.Team, error) {
	team, err := u.liveTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if team.IsCompleted() {
		return nil, entities.ErrTeamNotFound
	}
	return team, nil
}
