package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gabojait/gabojait-spring-sub005/internal/entities"

	"github.com/jackc/pgx/v5"
)

const (
	teamColumns     = `id, leader_id, name, description, completed_at, is_deleted, created_at, updated_at`
	memberColumns   = `id, team_id, user_id, position, is_leader, joined_at, left_at`
	insertTeamQuery = `
INSERT INTO teams(leader_id, name, description)
VALUES ($1, $2, $3)
RETURNING ` + teamColumns
	insertOpeningQuery  = `INSERT INTO team_openings(team_id, position, capacity, filled) VALUES ($1, $2, $3, $4)`
	insertMemberQuery   = `INSERT INTO team_members(team_id, user_id, position, is_leader, joined_at) VALUES ($1, $2, $3, $4, $5) RETURNING ` + memberColumns
	selectTeamQuery     = `SELECT ` + teamColumns + ` FROM teams WHERE id=$1`
	selectOpeningsQuery = `SELECT position, capacity, filled FROM team_openings WHERE team_id=$1 ORDER BY position`
	selectMembersQuery  = `SELECT ` + memberColumns + ` FROM team_members WHERE team_id=$1 ORDER BY id`
	selectMemberQuery   = `SELECT ` + memberColumns + ` FROM team_members WHERE id=$1`
	selectActiveMember  = `SELECT ` + memberColumns + ` FROM team_members WHERE team_id=$1 AND user_id=$2 AND left_at IS NULL`
	leaveMemberQuery    = `UPDATE team_members SET left_at=$2 WHERE id=$1 AND left_at IS NULL RETURNING team_id, position`
	releaseSlotQuery    = `UPDATE team_openings SET filled = filled - 1 WHERE team_id=$1 AND position=$2 AND filled > 0`
	completeTeamQuery   = `
UPDATE teams SET completed_at=$2, updated_at=$2
WHERE id=$1 AND is_deleted=false AND completed_at IS NULL
RETURNING ` + teamColumns
	disbandTeamQuery        = `UPDATE teams SET is_deleted=true, updated_at=$2 WHERE id=$1 AND is_deleted=false`
	releaseMembersQuery     = `UPDATE team_members SET left_at=$2 WHERE team_id=$1 AND left_at IS NULL RETURNING id`
	withdrawTeamOffersQuery = `UPDATE offers SET is_deleted=true WHERE team_id=$1 AND status='PENDING' AND is_deleted=false`
)

// CreateTeam inserts the team with its openings and the leader membership.
func (p *Postgres) CreateTeam(ctx context.Context, team entities.Team, leader entities.TeamMember) (*entities.Team, error) {
	tx, err := p.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	created, err := scanTeam(tx.QueryRow(ctx, insertTeamQuery, team.LeaderID, team.Name, team.Description))
	if err != nil {
		p.log.Errorw("failed to insert team", "error", err, "leader_id", team.LeaderID)
		return nil, fmt.Errorf("insert team: %w", err)
	}

	for _, o := range team.Openings {
		if _, err := tx.Exec(ctx, insertOpeningQuery, created.ID, o.Position.Code(), o.Capacity, o.Filled); err != nil {
			return nil, fmt.Errorf("insert opening: %w", err)
		}
	}
	created.Openings = append([]entities.Opening(nil), team.Openings...)

	m, err := scanMember(tx.QueryRow(ctx, insertMemberQuery, created.ID, leader.UserID, leader.Position.Code(), true, leader.JoinedAt))
	if err != nil {
		return nil, fmt.Errorf("insert leader: %w", err)
	}
	created.Members = []entities.TeamMember{*m}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	p.log.Infow("team created", "team_id", created.ID, "leader_id", team.LeaderID, "openings", len(team.Openings))
	return created, nil
}

// GetTeam fetches team with openings, nil when missing.
func (p *Postgres) GetTeam(ctx context.Context, teamID int64) (*entities.Team, error) {
	t, err := scanTeam(p.db.QueryRow(ctx, selectTeamQuery, teamID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get team: %w", err)
	}

	rows, err := p.db.Query(ctx, selectOpeningsQuery, teamID)
	if err != nil {
		return nil, fmt.Errorf("get openings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			o    entities.Opening
			code string
		)
		if err := rows.Scan(&code, &o.Capacity, &o.Filled); err != nil {
			return nil, fmt.Errorf("scan opening: %w", err)
		}
		if o.Position, err = entities.ParsePosition(code); err != nil {
			return nil, fmt.Errorf("stored opening position: %v", err)
		}
		t.Openings = append(t.Openings, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate openings: %w", err)
	}
	return t, nil
}

// ListMembers returns current and past members ordered by join.
func (p *Postgres) ListMembers(ctx context.Context, teamID int64) ([]entities.TeamMember, error) {
	rows, err := p.db.Query(ctx, selectMembersQuery, teamID)
	if err != nil {
		return nil, fmt.Errorf("get team members: %w", err)
	}
	defer rows.Close()

	members := make([]entities.TeamMember, 0)
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("scan members: %w", err)
		}
		members = append(members, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate members: %w", err)
	}
	return members, nil
}

// GetMember returns a membership by id, nil when missing.
func (p *Postgres) GetMember(ctx context.Context, memberID int64) (*entities.TeamMember, error) {
	m, err := scanMember(p.db.QueryRow(ctx, selectMemberQuery, memberID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get member: %w", err)
	}
	return m, nil
}

// ActiveMember returns the active membership of a user in a team, nil when absent.
func (p *Postgres) ActiveMember(ctx context.Context, teamID, userID int64) (*entities.TeamMember, error) {
	m, err := scanMember(p.db.QueryRow(ctx, selectActiveMember, teamID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get active member: %w", err)
	}
	return m, nil
}

// LeaveTeam marks the membership left and frees its slot.
func (p *Postgres) LeaveTeam(ctx context.Context, memberID int64, at time.Time) error {
	tx, err := p.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var (
		teamID int64
		code   string
	)
	if err := tx.QueryRow(ctx, leaveMemberQuery, memberID, at).Scan(&teamID, &code); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entities.ErrMemberNotFound
		}
		return fmt.Errorf("leave team: %w", err)
	}
	if _, err := tx.Exec(ctx, releaseSlotQuery, teamID, code); err != nil {
		return fmt.Errorf("release slot: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}
	p.log.Infow("member left", "member_id", memberID, "team_id", teamID)
	return nil
}

// CompleteTeam ends the engagement and withdraws pending offers.
func (p *Postgres) CompleteTeam(ctx context.Context, teamID int64, at time.Time) (*entities.Team, error) {
	tx, err := p.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	t, err := scanTeam(tx.QueryRow(ctx, completeTeamQuery, teamID, at))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrTeamNotFound
		}
		return nil, fmt.Errorf("complete team: %w", err)
	}
	tag, err := tx.Exec(ctx, withdrawTeamOffersQuery, teamID)
	if err != nil {
		return nil, fmt.Errorf("withdraw offers: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	p.log.Infow("team completed", "team_id", teamID, "withdrawn_offers", tag.RowsAffected())
	return t, nil
}

// DisbandTeam soft-deletes the team, releases members and withdraws live offers.
func (p *Postgres) DisbandTeam(ctx context.Context, teamID int64, at time.Time) (int, error) {
	tx, err := p.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, disbandTeamQuery, teamID, at)
	if err != nil {
		return 0, fmt.Errorf("disband team: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return 0, entities.ErrTeamNotFound
	}

	rows, err := tx.Query(ctx, releaseMembersQuery, teamID, at)
	if err != nil {
		return 0, fmt.Errorf("release members: %w", err)
	}
	released := 0
	for rows.Next() {
		released++
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("iterate released members: %w", err)
	}

	offers, err := tx.Exec(ctx, withdrawTeamOffersQuery, teamID)
	if err != nil {
		return 0, fmt.Errorf("withdraw offers: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}

	p.log.Infow("team disbanded", "team_id", teamID, "released_members", released, "withdrawn_offers", offers.RowsAffected())
	return released, nil
}

func scanTeam(row pgx.Row) (*entities.Team, error) {
	var t entities.Team
	if err := row.Scan(&t.ID, &t.LeaderID, &t.Name, &t.Description, &t.CompletedAt, &t.IsDeleted, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

func scanMember(row pgx.Row) (*entities.TeamMember, error) {
	var (
		m    entities.TeamMember
		code string
	)
	if err := row.Scan(&m.ID, &m.TeamID, &m.UserID, &code, &m.IsLeader, &m.JoinedAt, &m.LeftAt); err != nil {
		return nil, err
	}
	pos, err := entities.ParsePosition(code)
	if err != nil {
		return nil, fmt.Errorf("stored member position: %v", err)
	}
	m.Position = pos
	return &m, nil
}
