package memory

import (
	"context"
	"sort"
	"time"

	"github.com/gabojait/gabojait-spring-sub005/internal/entities"

	"github.com/hashicorp/go-memdb"
)

// opening is the stored capacity counter of one team position.
type opening struct {
	TeamID   int64
	Position entities.Position
	Capacity int
	Filled   int
}

// CreateTeam inserts the team with its openings and the leader membership.
func (m *Memory) CreateTeam(_ context.Context, team entities.Team, leader entities.TeamMember) (*entities.Team, error) {
	var created entities.Team
	err := m.write(func(txn *memdb.Txn) error {
		id, err := nextID(txn, tableTeams)
		if err != nil {
			return err
		}
		now := m.now()
		created = entities.Team{
			ID:          id,
			LeaderID:    team.LeaderID,
			Name:        team.Name,
			Description: team.Description,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := put(txn, tableTeams, &created); err != nil {
			return err
		}

		for _, o := range team.Openings {
			row := &opening{TeamID: id, Position: o.Position, Capacity: o.Capacity, Filled: o.Filled}
			if err := put(txn, tableOpenings, row); err != nil {
				return err
			}
		}

		member, err := m.insertMember(txn, id, leader.UserID, leader.Position, true, leader.JoinedAt)
		if err != nil {
			return err
		}
		created.Openings = append([]entities.Opening(nil), team.Openings...)
		created.Members = []entities.TeamMember{*member}
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.log.Infow("team created", "team_id", created.ID, "leader_id", team.LeaderID, "openings", len(team.Openings))
	return &created, nil
}

// GetTeam fetches team with openings, nil when missing.
func (m *Memory) GetTeam(_ context.Context, teamID int64) (*entities.Team, error) {
	txn := m.read()
	t, err := first[entities.Team](txn, tableTeams, pk, teamID)
	if err != nil || t == nil {
		return nil, err
	}
	rows, err := all[opening](txn, tableOpenings, "team", teamID)
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		t.Openings = append(t.Openings, entities.Opening{Position: r.Position, Capacity: r.Capacity, Filled: r.Filled})
	}
	sort.Slice(t.Openings, func(i, j int) bool {
		return t.Openings[i].Position.Code() < t.Openings[j].Position.Code()
	})
	return t, nil
}

// ListMembers returns current and past members ordered by join.
func (m *Memory) ListMembers(_ context.Context, teamID int64) ([]entities.TeamMember, error) {
	members, err := all[entities.TeamMember](m.read(), tableMembers, "team", teamID)
	if err != nil {
		return nil, err
	}
	sort.Slice(members, func(i, j int) bool { return members[i].ID < members[j].ID })
	return members, nil
}

// GetMember returns a membership by id, nil when missing.
func (m *Memory) GetMember(_ context.Context, memberID int64) (*entities.TeamMember, error) {
	return first[entities.TeamMember](m.read(), tableMembers, pk, memberID)
}

// ActiveMember returns the active membership of a user in a team, nil when absent.
func (m *Memory) ActiveMember(_ context.Context, teamID, userID int64) (*entities.TeamMember, error) {
	return activeMember(m.read(), teamID, userID)
}

// LeaveTeam marks the membership left and frees its slot.
func (m *Memory) LeaveTeam(_ context.Context, memberID int64, at time.Time) error {
	var teamID int64
	err := m.write(func(txn *memdb.Txn) error {
		member, err := first[entities.TeamMember](txn, tableMembers, pk, memberID)
		if err != nil {
			return err
		}
		if member == nil || !member.Active() {
			return entities.ErrMemberNotFound
		}
		left := at
		member.LeftAt = &left
		if err := put(txn, tableMembers, member); err != nil {
			return err
		}
		teamID = member.TeamID
		return releaseSlot(txn, member.TeamID, member.Position)
	})
	if err != nil {
		return err
	}
	m.log.Infow("member left", "member_id", memberID, "team_id", teamID)
	return nil
}

// CompleteTeam ends the engagement and withdraws pending offers.
func (m *Memory) CompleteTeam(_ context.Context, teamID int64, at time.Time) (*entities.Team, error) {
	var (
		completed *entities.Team
		withdrawn int
	)
	err := m.write(func(txn *memdb.Txn) error {
		t, err := first[entities.Team](txn, tableTeams, pk, teamID)
		if err != nil {
			return err
		}
		if t == nil || t.IsDeleted || t.IsCompleted() {
			return entities.ErrTeamNotFound
		}
		done := at
		t.CompletedAt = &done
		t.UpdatedAt = at
		if err := put(txn, tableTeams, t); err != nil {
			return err
		}
		completed = t
		withdrawn, err = withdrawTeamOffers(txn, teamID)
		return err
	})
	if err != nil {
		return nil, err
	}
	m.log.Infow("team completed", "team_id", teamID, "withdrawn_offers", withdrawn)
	return completed, nil
}

// DisbandTeam soft-deletes the team, releases members and withdraws live offers.
func (m *Memory) DisbandTeam(_ context.Context, teamID int64, at time.Time) (int, error) {
	var released, withdrawn int
	err := m.write(func(txn *memdb.Txn) error {
		t, err := first[entities.Team](txn, tableTeams, pk, teamID)
		if err != nil {
			return err
		}
		if t == nil || t.IsDeleted {
			return entities.ErrTeamNotFound
		}
		t.IsDeleted = true
		t.UpdatedAt = at
		if err := put(txn, tableTeams, t); err != nil {
			return err
		}

		members, err := all[entities.TeamMember](txn, tableMembers, "team", teamID)
		if err != nil {
			return err
		}
		for i := range members {
			if !members[i].Active() {
				continue
			}
			left := at
			members[i].LeftAt = &left
			if err := put(txn, tableMembers, &members[i]); err != nil {
				return err
			}
			released++
		}

		withdrawn, err = withdrawTeamOffers(txn, teamID)
		return err
	})
	if err != nil {
		return 0, err
	}

	m.log.Infow("team disbanded", "team_id", teamID, "released_members", released, "withdrawn_offers", withdrawn)
	return released, nil
}

func (m *Memory) insertMember(txn *memdb.Txn, teamID, userID int64, position entities.Position, leader bool, at time.Time) (*entities.TeamMember, error) {
	existing, err := activeMember(txn, teamID, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, entities.ErrAlreadyMember
	}
	id, err := nextID(txn, tableMembers)
	if err != nil {
		return nil, err
	}
	member := &entities.TeamMember{
		ID:       id,
		TeamID:   teamID,
		UserID:   userID,
		Position: position,
		IsLeader: leader,
		JoinedAt: at,
	}
	if err := put(txn, tableMembers, member); err != nil {
		return nil, err
	}
	cp := *member
	return &cp, nil
}

func activeMember(txn *memdb.Txn, teamID, userID int64) (*entities.TeamMember, error) {
	members, err := all[entities.TeamMember](txn, tableMembers, "team_user", teamID, userID)
	if err != nil {
		return nil, err
	}
	for i := range members {
		if members[i].Active() {
			return &members[i], nil
		}
	}
	return nil, nil
}

func releaseSlot(txn *memdb.Txn, teamID int64, position entities.Position) error {
	o, err := first[opening](txn, tableOpenings, pk, teamID, position)
	if err != nil || o == nil || o.Filled == 0 {
		return err
	}
	o.Filled--
	return put(txn, tableOpenings, o)
}

func withdrawTeamOffers(txn *memdb.Txn, teamID int64) (int, error) {
	offers, err := all[entities.Offer](txn, tableOffers, "team", teamID)
	if err != nil {
		return 0, err
	}
	n := 0
	for i := range offers {
		if !offers[i].Live() {
			continue
		}
		offers[i].IsDeleted = true
		if err := put(txn, tableOffers, &offers[i]); err != nil {
			return 0, err
		}
		n++
	}
	return n, nil
}
