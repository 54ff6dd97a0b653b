package entities

import (
	"fmt"
	"time"
	"unicode/utf8"
)

// MaxCommentLength bounds a review comment, in characters.
const MaxCommentLength = 200

// Review is a score and comment left by one teammate for another.
type Review struct {
	ID               int64
	TeamID           int64
	ReviewerMemberID int64
	RevieweeMemberID int64
	ReviewerUserID   int64
	RevieweeUserID   int64
	Rating           int
	Comment          string
	IsDeleted        bool
	CreatedAt        time.Time
}

// Validate checks score range and comment length.
func (r *Review) Validate() error {
	if err := ValidateScore(r.Rating); err != nil {
		return err
	}
	if utf8.RuneCountInString(r.Comment) > MaxCommentLength {
		return fmt.Errorf("%w: comment exceeds %d characters", ErrValidation, MaxCommentLength)
	}
	return nil
}

// ReviewSummary aggregates the reviews a user received.
type ReviewSummary struct {
	UserID       int64
	Rating       Rating
	Distribution map[int]int64
}
