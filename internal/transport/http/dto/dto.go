// Package dto contains HTTP request and response bodies.
package dto

import "time"

// ErrorCode is a machine readable error class.
type ErrorCode string

// Error codes.
const (
	InvalidArgument ErrorCode = "INVALID_ARGUMENT"
	Unauthorized    ErrorCode = "UNAUTHORIZED"
	Forbidden       ErrorCode = "FORBIDDEN"
	NotFound        ErrorCode = "NOT_FOUND"
	Conflict        ErrorCode = "CONFLICT"
	CapacityFull    ErrorCode = "CAPACITY_EXHAUSTED"
	Internal        ErrorCode = "INTERNAL"
)

// ErrorBody is the payload of ErrorResponse.
type ErrorBody struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// ErrorResponse is returned for every failed request.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
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

// Work is a career record.
type Work struct {
	Corporation string     `json:"corporation"`
	Description string     `json:"description,omitempty"`
	StartedAt   time.Time  `json:"started_at"`
	EndedAt     *time.Time `json:"ended_at,omitempty"`
}

// Profile is the editable part of a user.
type Profile struct {
	Nickname   string      `json:"nickname"`
	Gender     string      `json:"gender"`
	Position   string      `json:"position,omitempty"`
	Bio        string      `json:"bio,omitempty"`
	Educations []Education `json:"educations,omitempty"`
	Portfolios []Portfolio `json:"portfolios,omitempty"`
	Skills     []Skill     `json:"skills,omitempty"`
	Works      []Work      `json:"works,omitempty"`
}

// CreateUserRequest registers a user.
type CreateUserRequest struct {
	Username string `json:"username"`
	Profile
}

// Rating is a running average.
type Rating struct {
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}

// User is a user as seen by clients.
type User struct {
	ID       int64  `json:"user_id"`
	Username string `json:"username"`
	Profile
	Rating    Rating    `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateUserResponse carries the new user and a bearer token.
type CreateUserResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// Opening is a position of a team.
type Opening struct {
	Position string `json:"position"`
	Capacity int    `json:"capacity"`
	Filled   int    `json:"filled"`
}

// TeamMember is a membership.
type TeamMember struct {
	ID       int64      `json:"member_id"`
	UserID   int64      `json:"user_id"`
	Position string     `json:"position"`
	IsLeader bool       `json:"is_leader"`
	JoinedAt time.Time  `json:"joined_at"`
	LeftAt   *time.Time `json:"left_at,omitempty"`
}

// Team is a team with its openings and active members.
type Team struct {
	ID          int64        `json:"team_id"`
	LeaderID    int64        `json:"leader_id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Openings    []Opening    `json:"openings"`
	Members     []TeamMember `json:"members"`
	CompletedAt *time.Time   `json:"completed_at,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
}

// CreateTeamRequest creates a team led by the caller.
type CreateTeamRequest struct {
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	LeaderPosition string    `json:"leader_position"`
	Openings       []Opening `json:"openings"`
}

// DisbandTeamResponse reports released memberships.
type DisbandTeamResponse struct {
	TeamID          int64 `json:"team_id"`
	ReleasedMembers int   `json:"released_members"`
}

// CreateOfferRequest proposes a user for a team position.
type CreateOfferRequest struct {
	UserID   int64  `json:"user_id"`
	TeamID   int64  `json:"team_id"`
	Position string `json:"position"`
}

// Offer is an offer as seen by clients.
type Offer struct {
	ID         int64      `json:"offer_id"`
	UserID     int64      `json:"user_id"`
	TeamID     int64      `json:"team_id"`
	Position   string     `json:"position"`
	OfferedBy  string     `json:"offered_by"`
	Status     string     `json:"status"`
	IsDeleted  bool       `json:"is_deleted"`
	CreatedAt  time.Time  `json:"created_at"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
}

// AcceptOfferResponse carries the accepted offer and the new membership.
type AcceptOfferResponse struct {
	Offer  Offer      `json:"offer"`
	Member TeamMember `json:"member"`
}

// OfferPage is one page of offers.
type OfferPage struct {
	Offers     []Offer `json:"offers"`
	NextCursor int64   `json:"next_cursor,omitempty"`
}

// CreateReviewRequest reviews a teammate.
type CreateReviewRequest struct {
	ReviewerMemberID int64  `json:"reviewer_member_id"`
	RevieweeMemberID int64  `json:"reviewee_member_id"`
	Rating           int    `json:"rating"`
	Comment          string `json:"comment"`
}

// Review is a review as seen by clients.
type Review struct {
	ID             int64     `json:"review_id"`
	TeamID         int64     `json:"team_id"`
	ReviewerUserID int64     `json:"reviewer_user_id"`
	RevieweeUserID int64     `json:"reviewee_user_id"`
	Rating         int       `json:"rating"`
	Comment        string    `json:"comment,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// CreateReviewResponse carries the review and the reviewee's new rating.
type CreateReviewResponse struct {
	Review Review `json:"review"`
	Rating Rating `json:"reviewee_rating"`
}

// ReviewPage is one page of reviews.
type ReviewPage struct {
	Reviews    []Review `json:"reviews"`
	NextCursor int64    `json:"next_cursor,omitempty"`
}

// ReviewSummary aggregates received reviews.
type ReviewSummary struct {
	UserID       int64            `json:"user_id"`
	Rating       Rating           `json:"rating"`
	Distribution map[string]int64 `json:"distribution"`
}

// SetFavoriteRequest adds or removes a bookmark.
type SetFavoriteRequest struct {
	Add bool `json:"add"`
}

// Favorite is a bookmark state.
type Favorite struct {
	Kind     string    `json:"kind"`
	TargetID int64     `json:"target_id"`
	Active   bool      `json:"active"`
	Updated  time.Time `json:"updated_at,omitempty"`
}
