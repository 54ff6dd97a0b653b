package domain

import (
	"context"
	"fmt"

	"github.com/gabojait/gabojait-spring-sub005/internal/entities"
	"github.com/gabojait/gabojait-spring-sub005/internal/notify"
)

// CreateReview records a review from the actor's membership for a teammate of a completed team
// and returns the reviewee's updated rating.
func (u *Usecase) CreateReview(ctx context.Context, actor int64, review entities.Review) (*entities.Review, entities.Rating, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := review.Validate(); err != nil {
		return nil, entities.Rating{}, err
	}

	reviewer, err := u.member(ctx, review.ReviewerMemberID)
	if err != nil {
		return nil, entities.Rating{}, err
	}
	reviewee, err := u.member(ctx, review.RevieweeMemberID)
	if err != nil {
		return nil, entities.Rating{}, err
	}
	if reviewer.UserID != actor {
		return nil, entities.Rating{}, fmt.Errorf("%w: reviewer membership belongs to another user", entities.ErrAuthorization)
	}
	if reviewer.TeamID != reviewee.TeamID || reviewer.UserID == reviewee.UserID {
		return nil, entities.Rating{}, entities.ErrNotTeammates
	}

	team, err := u.liveTeam(ctx, reviewer.TeamID)
	if err != nil {
		return nil, entities.Rating{}, err
	}
	if !team.IsCompleted() {
		return nil, entities.Rating{}, entities.ErrEngagementOpen
	}

	exists, err := u.repo.ReviewExists(ctx, reviewer.TeamID, reviewer.UserID, reviewee.UserID)
	if err != nil {
		return nil, entities.Rating{}, u.fail("review exists", err)
	}
	if exists {
		return nil, entities.Rating{}, entities.ErrReviewExists
	}

	review.TeamID = team.ID
	review.ReviewerUserID = reviewer.UserID
	review.RevieweeUserID = reviewee.UserID
	created, rating, err := u.repo.CreateReview(ctx, review)
	if err != nil {
		return nil, entities.Rating{}, u.fail("create review", err)
	}

	u.log.Infow("review create", "review_id", created.ID, "reviewee_user_id", created.RevieweeUserID)
	u.notify(ctx, created.RevieweeUserID, notify.KindReviewReceived, map[string]any{
		"review_id": created.ID,
		"team_id":   created.TeamID,
		"rating":    created.Rating,
	})
	return created, rating, nil
}

// ListReviews returns reviews received by a user, newest first.
func (u *Usecase) ListReviews(ctx context.Context, userID int64, page entities.Page) (entities.ReviewPage, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if _, err := u.liveUser(ctx, userID); err != nil {
		return entities.ReviewPage{}, err
	}
	res, err := u.repo.ListReviews(ctx, userID, page.Normalize())
	if err != nil {
		return entities.ReviewPage{}, u.fail("list reviews", err)
	}
	return res, nil
}

func (u *Usecase) member(ctx context.Context, memberID int64) (*entities.TeamMember, error) {
	if memberID <= 0 {
		return nil, fmt.Errorf("%w: member id is required", entities.ErrValidation)
	}
	m, err := u.repo.GetMember(ctx, memberID)
	if err != nil {
		return nil, u.fail("get member", err)
	}
	if m == nil {
		return nil, entities.ErrMemberNotFound
	}
	return m, nil
}
