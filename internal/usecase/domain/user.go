// Package domain contains application Usecases orchestrating domain logic by user.
package domain

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/gabojait/gabojait-spring-sub005/internal/entities"
)

const (
	maxUsernameLength = 15
	maxNicknameLength = 8
)

// CreateUser registers a user with an empty rating.
func (u *Usecase) CreateUser(ctx context.Context, user entities.User) (*entities.User, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	user.Username = strings.TrimSpace(user.Username)
	if user.Username == "" || utf8.RuneCountInString(user.Username) > maxUsernameLength {
		return nil, fmt.Errorf("%w: username must be 1-%d characters", entities.ErrValidation, maxUsernameLength)
	}
	if err := validateProfile(user); err != nil {
		return nil, err
	}

	created, err := u.repo.CreateUser(ctx, user)
	if err != nil {
		return nil, u.fail("create user", err)
	}
	u.log.Infow("user create", "user_id", created.ID)
	return created, nil
}

// GetUser returns a live user.
func (u *Usecase) GetUser(ctx context.Context, userID int64) (*entities.User, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	return u.liveUser(ctx, userID)
}

// UpdateProfile replaces the editable fields of the actor's profile.
func (u *Usecase) UpdateProfile(ctx context.Context, actor int64, user entities.User) (*entities.User, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := validateProfile(user); err != nil {
		return nil, err
	}
	user.ID = actor
	updated, err := u.repo.UpdateProfile(ctx, user)
	if err != nil {
		return nil, u.fail("update profile", err)
	}
	if updated == nil {
		return nil, entities.ErrUserNotFound
	}
	return updated, nil
}

// DeleteUser soft-deletes the actor.
func (u *Usecase) DeleteUser(ctx context.Context, actor int64) error {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := u.repo.DeleteUser(ctx, actor); err != nil {
		return u.fail("delete user", err)
	}
	return nil
}

func validateProfile(user entities.User) error {
	nick := strings.TrimSpace(user.Nickname)
	if nick == "" || utf8.RuneCountInString(nick) > maxNicknameLength {
		return fmt.Errorf("%w: nickname must be 1-%d characters", entities.ErrValidation, maxNicknameLength)
	}
	if user.Gender == entities.GenderUnknown {
		return fmt.Errorf("%w: gender is required", entities.ErrValidation)
	}
	if user.Position != entities.PositionUnknown && !user.Position.Valid() {
		return fmt.Errorf("%w: unknown position", entities.ErrValidation)
	}
	return nil
}
