package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/gabojait/gabojait-spring-sub005/internal/entities"

	"github.com/jackc/pgx/v5"
)

const (
	userColumns     = `id, username, nickname, gender, position, profile, rating, review_cnt, is_deleted, created_at, updated_at`
	insertUserQuery = `
INSERT INTO users(username, nickname, gender, position, profile)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + userColumns
	selectUserQuery        = `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	selectUserForUpdate    = `SELECT ` + userColumns + ` FROM users WHERE id=$1 FOR UPDATE`
	updateUserProfileQuery = `
UPDATE users SET nickname=$2, gender=$3, position=$4, profile=$5, updated_at=NOW()
WHERE id=$1 AND is_deleted=false
RETURNING ` + userColumns
	updateUserRatingQuery = `UPDATE users SET rating=$2, review_cnt=$3, updated_at=NOW() WHERE id=$1`
	deleteUserQuery       = `UPDATE users SET is_deleted=true, updated_at=NOW() WHERE id=$1 AND is_deleted=false`
)

// CreateUser inserts a user with an empty rating.
func (p *Postgres) CreateUser(ctx context.Context, user entities.User) (*entities.User, error) {
	row := p.db.QueryRow(ctx, insertUserQuery,
		user.Username, user.Nickname, user.Gender.Code(), nullablePosition(user.Position), user.Profile)
	created, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err, "") {
			return nil, entities.ErrUsernameTaken
		}
		p.log.Errorw("failed to insert user", "error", err, "username", user.Username)
		return nil, fmt.Errorf("insert user: %w", err)
	}

	p.log.Infow("user created", "user_id", created.ID)
	return created, nil
}

// GetUser returns the user including soft-deleted ones, nil when missing.
func (p *Postgres) GetUser(ctx context.Context, userID int64) (*entities.User, error) {
	u, err := scanUser(p.db.QueryRow(ctx, selectUserQuery, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// UpdateProfile replaces the editable profile fields of a live user.
func (p *Postgres) UpdateProfile(ctx context.Context, user entities.User) (*entities.User, error) {
	row := p.db.QueryRow(ctx, updateUserProfileQuery,
		user.ID, user.Nickname, user.Gender.Code(), nullablePosition(user.Position), user.Profile)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return u, nil
}

// DeleteUser soft-deletes a user.
func (p *Postgres) DeleteUser(ctx context.Context, userID int64) error {
	tag, err := p.db.Exec(ctx, deleteUserQuery, userID)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return entities.ErrUserNotFound
	}
	p.log.Infow("user deleted", "user_id", userID)
	return nil
}

func scanUser(row pgx.Row) (*entities.User, error) {
	var (
		u        entities.User
		gender   string
		position *string
	)
	if err := row.Scan(&u.ID, &u.Username, &u.Nickname, &gender, &position, &u.Profile,
		&u.Rating.Average, &u.Rating.Count, &u.IsDeleted, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	g, err := entities.ParseGender(gender)
	if err != nil {
		return nil, fmt.Errorf("stored gender: %v", err)
	}
	u.Gender = g
	if position != nil {
		pos, err := entities.ParsePosition(*position)
		if err != nil {
			return nil, fmt.Errorf("stored position: %v", err)
		}
		u.Position = pos
	}
	return &u, nil
}

func nullablePosition(p entities.Position) *string {
	if !p.Valid() {
		return nil
	}
	code := p.Code()
	return &code
}
