// Package entities contains core business entities.
package entities

import "time"

// Team is a project team recruiting members for positions.
type Team struct {
	ID          int64
	LeaderID    int64
	Name        string
	Description string
	Openings    []Opening
	Members     []TeamMember
	CompletedAt *time.Time
	IsDeleted   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Opening is the capacity counter of one position.
type Opening struct {
	Position Position
	Capacity int
	Filled   int
}

// Remaining returns the number of free slots.
func (o Opening) Remaining() int {
	if o.Filled >= o.Capacity {
		return 0
	}
	return o.Capacity - o.Filled
}

// Opening returns the counter for a position.
func (t *Team) Opening(p Position) (Opening, bool) {
	for _, o := range t.Openings {
		if o.Position == p {
			return o, true
		}
	}
	return Opening{}, false
}

// IsCompleted reports whether the project engagement has ended.
func (t *Team) IsCompleted() bool { return t.CompletedAt != nil }

// IsRecruiting reports whether the team still accepts offers.
func (t *Team) IsRecruiting() bool {
	if t.IsDeleted || t.IsCompleted() {
		return false
	}
	for _, o := range t.Openings {
		if o.Remaining() > 0 {
			return true
		}
	}
	return false
}

// TeamMember links a user to a team under a position.
type TeamMember struct {
	ID       int64
	TeamID   int64
	UserID   int64
	Position Position
	IsLeader bool
	JoinedAt time.Time
	LeftAt   *time.Time
}

// Active reports whether the member has not left.
func (m *TeamMember) Active() bool { return m.LeftAt == nil }
