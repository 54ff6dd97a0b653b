// Package domain contains application Usecases orchestrating domain logic by team.
package domain

import (
	"context"
	"fmt"
	"strings"

	"github.com/gabojait/gabojait-spring-sub005/internal/entities"
)

// MaxOpeningCapacity bounds the slots of a single position.
const MaxOpeningCapacity = 10

// CreateTeam creates a team led by the actor. The leader takes one slot of leaderPosition.
func (u *Usecase) CreateTeam(ctx context.Context, actor int64, team entities.Team, leaderPosition entities.Position) (*entities.Team, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	team.Name = strings.TrimSpace(team.Name)
	if team.Name == "" {
		u.log.Errorw("failed to create team: missing name")
		return nil, fmt.Errorf("%w: team name is required", entities.ErrValidation)
	}
	if !leaderPosition.Valid() {
		return nil, fmt.Errorf("%w: leader position is required", entities.ErrValidation)
	}

	openings, err := leaderOpenings(team.Openings, leaderPosition)
	if err != nil {
		return nil, err
	}
	if _, err := u.liveUser(ctx, actor); err != nil {
		return nil, err
	}

	team.LeaderID = actor
	team.Openings = openings
	leader := entities.TeamMember{UserID: actor, Position: leaderPosition, IsLeader: true, JoinedAt: u.now()}

	created, err := u.repo.CreateTeam(ctx, team, leader)
	if err != nil {
		return nil, u.fail("create team", err)
	}
	return created, nil
}

// GetTeam returns a team with its active members.
func (u *Usecase) GetTeam(ctx context.Context, teamID int64) (*entities.Team, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	team, err := u.liveTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	members, err := u.repo.ListMembers(ctx, teamID)
	if err != nil {
		return nil, u.fail("list members", err)
	}
	for _, m := range members {
		if m.Active() {
			team.Members = append(team.Members, m)
		}
	}
	return team, nil
}

// ListMembers returns current and former members of a team.
func (u *Usecase) ListMembers(ctx context.Context, teamID int64) ([]entities.TeamMember, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if _, err := u.liveTeam(ctx, teamID); err != nil {
		return nil, err
	}
	members, err := u.repo.ListMembers(ctx, teamID)
	if err != nil {
		return nil, u.fail("list members", err)
	}
	return members, nil
}

// LeaveTeam ends the actor's membership and frees its slot. Leaders disband instead.
func (u *Usecase) LeaveTeam(ctx context.Context, actor, teamID int64) error {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if _, err := u.activeTeam(ctx, teamID); err != nil {
		return err
	}
	member, err := u.repo.ActiveMember(ctx, teamID, actor)
	if err != nil {
		return u.fail("get member", err)
	}
	if member == nil {
		return entities.ErrMemberNotFound
	}
	if member.IsLeader {
		return fmt.Errorf("%w: leader cannot leave, disband the team instead", entities.ErrAuthorization)
	}

	if err := u.repo.LeaveTeam(ctx, member.ID, u.now()); err != nil {
		return u.fail("leave team", err)
	}
	return nil
}

// CompleteTeam ends the project engagement, which opens peer reviews.
func (u *Usecase) CompleteTeam(ctx context.Context, actor, teamID int64) (*entities.Team, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	team, err := u.activeTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if team.LeaderID != actor {
		return nil, entities.ErrNotLeader
	}

	completed, err := u.repo.CompleteTeam(ctx, teamID, u.now())
	if err != nil {
		return nil, u.fail("complete team", err)
	}
	return completed, nil
}

// DisbandTeam soft-deletes the team, releases members and withdraws live offers.
func (u *Usecase) DisbandTeam(ctx context.Context, actor, teamID int64) (int, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	team, err := u.liveTeam(ctx, teamID)
	if err != nil {
		return 0, err
	}
	if team.LeaderID != actor {
		return 0, entities.ErrNotLeader
	}

	released, err := u.repo.DisbandTeam(ctx, teamID, u.now())
	if err != nil {
		return 0, u.fail("disband team", err)
	}
	return released, nil
}

// leaderOpenings validates requested openings and reserves the leader's slot.
func leaderOpenings(requested []entities.Opening, leaderPosition entities.Position) ([]entities.Opening, error) {
	seen := make(map[entities.Position]bool, len(requested))
	res := make([]entities.Opening, 0, len(requested)+1)
	for _, o := range requested {
		if !o.Position.Valid() {
			return nil, fmt.Errorf("%w: unknown opening position", entities.ErrValidation)
		}
		if seen[o.Position] {
			return nil, fmt.Errorf("%w: duplicate opening %s", entities.ErrValidation, o.Position)
		}
		if o.Capacity < 1 || o.Capacity > MaxOpeningCapacity {
			return nil, fmt.Errorf("%w: capacity of %s must be 1-%d", entities.ErrValidation, o.Position, MaxOpeningCapacity)
		}
		seen[o.Position] = true
		res = append(res, entities.Opening{Position: o.Position, Capacity: o.Capacity})
	}

	for i := range res {
		if res[i].Position == leaderPosition {
			res[i].Filled = 1
			return res, nil
		}
	}
	return append(res, entities.Opening{Position: leaderPosition, Capacity: 1, Filled: 1}), nil
}
