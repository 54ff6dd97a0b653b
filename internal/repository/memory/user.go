package memory

import (
	"context"

	"github.com/gabojait/gabojait-spring-sub005/internal/entities"

	"github.com/hashicorp/go-memdb"
)

// CreateUser inserts a user with an empty rating.
func (m *Memory) CreateUser(_ context.Context, user entities.User) (*entities.User, error) {
	var created entities.User
	err := m.write(func(txn *memdb.Txn) error {
		taken, err := first[entities.User](txn, tableUsers, "username", user.Username)
		if err != nil {
			return err
		}
		if taken != nil {
			return entities.ErrUsernameTaken
		}

		id, err := nextID(txn, tableUsers)
		if err != nil {
			return err
		}
		now := m.now()
		created = user
		created.ID = id
		created.Rating = entities.Rating{}
		created.IsDeleted = false
		created.CreatedAt, created.UpdatedAt = now, now
		return put(txn, tableUsers, &created)
	})
	if err != nil {
		return nil, err
	}

	m.log.Infow("user created", "user_id", created.ID)
	return &created, nil
}

// GetUser returns the user including soft-deleted ones, nil when missing.
func (m *Memory) GetUser(_ context.Context, userID int64) (*entities.User, error) {
	return first[entities.User](m.read(), tableUsers, pk, userID)
}

// UpdateProfile replaces the editable profile fields of a live user.
func (m *Memory) UpdateProfile(_ context.Context, user entities.User) (*entities.User, error) {
	var updated *entities.User
	err := m.write(func(txn *memdb.Txn) error {
		u, err := first[entities.User](txn, tableUsers, pk, user.ID)
		if err != nil || u == nil || u.IsDeleted {
			return err
		}
		u.Nickname, u.Gender, u.Position, u.Profile = user.Nickname, user.Gender, user.Position, user.Profile
		u.UpdatedAt = m.now()
		updated = u
		return put(txn, tableUsers, u)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteUser soft-deletes a user.
func (m *Memory) DeleteUser(_ context.Context, userID int64) error {
	err := m.write(func(txn *memdb.Txn) error {
		u, err := first[entities.User](txn, tableUsers, pk, userID)
		if err != nil {
			return err
		}
		if u == nil || u.IsDeleted {
			return entities.ErrUserNotFound
		}
		u.IsDeleted = true
		u.UpdatedAt = m.now()
		return put(txn, tableUsers, u)
	})
	if err != nil {
		return err
	}
	m.log.Infow("user deleted", "user_id", userID)
	return nil
}
