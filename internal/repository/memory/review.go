package memory

import (
	"context"
	"sort"

	"github.com/gabojait/gabojait-spring-sub005/internal/entities"

	"github.com/hashicorp/go-memdb"
)

// CreateReview inserts the review and folds its score into the reviewee rating.
func (m *Memory) CreateReview(_ context.Context, review entities.Review) (*entities.Review, entities.Rating, error) {
	var (
		created entities.Review
		rating  entities.Rating
	)
	err := m.write(func(txn *memdb.Txn) error {
		reviewee, err := first[entities.User](txn, tableUsers, pk, review.RevieweeUserID)
		if err != nil {
			return err
		}
		if reviewee == nil {
			return entities.ErrUserNotFound
		}

		dup, err := first[entities.Review](txn, tableReviews, "pair", review.TeamID, review.ReviewerUserID, review.RevieweeUserID)
		if err != nil {
			return err
		}
		if dup != nil {
			return entities.ErrReviewExists
		}

		id, err := nextID(txn, tableReviews)
		if err != nil {
			return err
		}
		created = review
		created.ID = id
		created.IsDeleted = false
		created.CreatedAt = m.now()
		if err := put(txn, tableReviews, &created); err != nil {
			return err
		}

		rating = reviewee.Rating.Apply(created.Rating)
		reviewee.Rating = rating
		reviewee.UpdatedAt = created.CreatedAt
		return put(txn, tableUsers, reviewee)
	})
	if err != nil {
		return nil, entities.Rating{}, err
	}

	m.log.Infow("review created", "review_id", created.ID, "reviewee_user_id", created.RevieweeUserID, "rating", rating.Average, "count", rating.Count)
	return &created, rating, nil
}

// ReviewExists reports whether the reviewer already reviewed the reviewee in the team.
func (m *Memory) ReviewExists(_ context.Context, teamID, reviewerUserID, revieweeUserID int64) (bool, error) {
	r, err := first[entities.Review](m.read(), tableReviews, "pair", teamID, reviewerUserID, revieweeUserID)
	return r != nil, err
}

// ListReviews returns reviews received by a user, newest first, keyed by id.
func (m *Memory) ListReviews(_ context.Context, revieweeUserID int64, page entities.Page) (entities.ReviewPage, error) {
	page = page.Normalize()

	reviews, err := all[entities.Review](m.read(), tableReviews, "reviewee", revieweeUserID)
	if err != nil {
		return entities.ReviewPage{}, err
	}
	sort.Slice(reviews, func(i, j int) bool { return reviews[i].ID > reviews[j].ID })

	res := entities.ReviewPage{Reviews: make([]entities.Review, 0, page.Limit)}
	for _, r := range reviews {
		if len(res.Reviews) == page.Limit {
			break
		}
		if r.ID >= page.Before() || r.IsDeleted {
			continue
		}
		res.Reviews = append(res.Reviews, r)
	}

	if n := len(res.Reviews); n > 0 {
		res.NextCursor = entities.NextCursor(n, page.Limit, res.Reviews[n-1].ID)
	}
	return res, nil
}
