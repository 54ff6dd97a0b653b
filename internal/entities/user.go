// Package entities contains core business entities.
package entities

import "time"

// User is a domain representation of a member of the platform.
type User struct {
	ID        int64
	Username  string
	Nickname  string
	Gender    Gender
	Position  Position
	Profile   Profile
	Rating    Rating
	IsDeleted bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Profile groups the free-form parts of a user profile.
type Profile struct {
	Bio        string      `json:"bio,omitempty"`
	Educations []Education `json:"educations,omitempty"`
	Portfolios []Portfolio `json:"portfolios,omitempty"`
	Skills     []Skill     `json:"skills,omitempty"`
	Works      []Work      `json:"works,omitempty"`
}

// Education is a school record.
type Education struct {
	Institution string     `json:"institution"`
	StartedAt   time.Time  `json:"started_at"`
	EndedAt     *time.Time `json:"ended_at,omitempty"`
	IsCurrent   bool       `json:"is_current"`
}

// Portfolio is a link to previous work.
type Portfolio struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Skill is a self-assessed skill.
type Skill struct {
	Name          string `json:"name"`
	Level         int    `json:"level"`
	IsExperienced bool   `json:"is_experienced"`
}

// Work is a job record.
type Work struct {
	Corporation string     `json:"corporation"`
	Description string     `json:"description,omitempty"`
	StartedAt   time.Time  `json:"started_at"`
	EndedAt     *time.Time `json:"ended_at,omitempty"`
}
