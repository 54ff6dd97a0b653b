// Package entities contains core business entities and errors.
package entities

import (
	"errors"
	"fmt"
)

// Error classes. Every error returned by the usecase layer wraps exactly one of them.
var (
	// ErrValidation signals malformed or out-of-range input.
	ErrValidation = errors.New("invalid argument")
	// ErrConflict signals a duplicate or unique-constraint violation.
	ErrConflict = errors.New("conflict")
	// ErrAuthorization signals an actor not permitted for the transition.
	ErrAuthorization = errors.New("not permitted")
	// ErrNotFound signals a missing, resolved or deleted entity.
	ErrNotFound = errors.New("not found")
	// ErrCapacity signals a resource exhausted by a concurrent writer.
	ErrCapacity = errors.New("capacity exhausted")
	// ErrInternal signals a storage or infrastructure failure.
	ErrInternal = errors.New("internal error")
)

var (
	// ErrUserNotFound is returned when a user does not exist or is deleted.
	ErrUserNotFound = fmt.Errorf("user %w", ErrNotFound)
	// ErrTeamNotFound signals a missing, disbanded or completed team.
	ErrTeamNotFound = fmt.Errorf("team %w", ErrNotFound)
	// ErrMemberNotFound signals a missing team membership.
	ErrMemberNotFound = fmt.Errorf("team member %w", ErrNotFound)
	// ErrOfferNotFound signals a missing or already resolved offer.
	ErrOfferNotFound = fmt.Errorf("offer %w", ErrNotFound)
	// ErrNoOpening signals a position without remaining capacity at offer time.
	ErrNoOpening = fmt.Errorf("open position %w", ErrNotFound)

	// ErrUsernameTaken signals a username conflict.
	ErrUsernameTaken = fmt.Errorf("username taken: %w", ErrConflict)
	// ErrOfferExists signals a live pending offer for the same user, team and position.
	ErrOfferExists = fmt.Errorf("pending offer exists: %w", ErrConflict)
	// ErrAlreadyMember signals an active membership in the same team.
	ErrAlreadyMember = fmt.Errorf("already a team member: %w", ErrConflict)
	// ErrReviewExists signals a second review between the same two users of a team.
	ErrReviewExists = fmt.Errorf("review exists: %w", ErrConflict)

	// ErrNotOfferParty signals an actor that is neither the user nor the team leader of an offer.
	ErrNotOfferParty = fmt.Errorf("actor is not a party of the offer: %w", ErrAuthorization)
	// ErrSelfResolve signals the initiating side trying to accept or decline its own offer.
	ErrSelfResolve = fmt.Errorf("initiating side cannot resolve its own offer: %w", ErrAuthorization)
	// ErrNotInitiator signals a withdrawal by the receiving side.
	ErrNotInitiator = fmt.Errorf("only the initiating side can withdraw: %w", ErrAuthorization)
	// ErrNotLeader signals a leader-only team operation attempted by someone else.
	ErrNotLeader = fmt.Errorf("team leader required: %w", ErrAuthorization)
	// ErrNotTeammates signals a review between users that never shared a team.
	ErrNotTeammates = fmt.Errorf("members did not share a team: %w", ErrAuthorization)
	// ErrEngagementOpen signals a review for a team that has not completed its project.
	ErrEngagementOpen = fmt.Errorf("team engagement not completed: %w", ErrAuthorization)

	// ErrPositionFull signals the last slot being taken by a concurrent acceptance.
	ErrPositionFull = fmt.Errorf("position filled, offer remains pending: %w", ErrCapacity)
)
