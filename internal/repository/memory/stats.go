package memory

import (
	"context"

	"github.com/gabojait/gabojait-spring-sub005/internal/entities"
)

// ReviewSummary returns the stored running rating and the score distribution of a user.
func (m *Memory) ReviewSummary(_ context.Context, userID int64) (entities.ReviewSummary, error) {
	res := entities.ReviewSummary{UserID: userID, Distribution: make(map[int]int64)}

	txn := m.read()
	u, err := first[entities.User](txn, tableUsers, pk, userID)
	if err != nil {
		return res, err
	}
	if u == nil {
		return res, entities.ErrUserNotFound
	}
	res.Rating = u.Rating

	reviews, err := all[entities.Review](txn, tableReviews, "reviewee", userID)
	if err != nil {
		return res, err
	}
	for _, r := range reviews {
		if !r.IsDeleted {
			res.Distribution[r.Rating]++
		}
	}
	return res, nil
}
