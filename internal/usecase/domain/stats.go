// Package domain contains application services orchestrating domain logic by statistics.
package domain

import (
	"context"

	"github.com/gabojait/gabojait-spring-sub005/internal/entities"
)

// ReviewSummary returns the rating and score distribution of a user.
func (u *Usecase) ReviewSummary(ctx context.Context, userID int64) (entities.ReviewSummary, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if _, err := u.liveUser(ctx, userID); err != nil {
		return entities.ReviewSummary{}, err
	}
	res, err := u.repo.ReviewSummary(ctx, userID)
	if err != nil {
		return entities.ReviewSummary{}, u.fail("review summary", err)
	}
	return res, nil
}
