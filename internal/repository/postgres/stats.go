package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/gabojait/gabojait-spring-sub005/internal/entities"

	"github.com/jackc/pgx/v5"
)

const (
	userRatingQuery         = `SELECT rating, review_cnt FROM users WHERE id=$1`
	ratingDistributionQuery = `
SELECT rating, COUNT(*)
FROM reviews
WHERE reviewee_user_id=$1 AND is_deleted=false
GROUP BY rating
ORDER BY rating`
)

// ReviewSummary returns the stored running rating and the score distribution of a user.
func (p *Postgres) ReviewSummary(ctx context.Context, userID int64) (entities.ReviewSummary, error) {
	res := entities.ReviewSummary{UserID: userID, Distribution: make(map[int]int64)}

	if err := p.db.QueryRow(ctx, userRatingQuery, userID).Scan(&res.Rating.Average, &res.Rating.Count); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return res, entities.ErrUserNotFound
		}
		return res, fmt.Errorf("user rating: %w", err)
	}

	rows, err := p.db.Query(ctx, ratingDistributionQuery, userID)
	if err != nil {
		return res, fmt.Errorf("rating distribution: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			score int
			cnt   int64
		)
		if err := rows.Scan(&score, &cnt); err != nil {
			return res, fmt.Errorf("scan rating distribution: %w", err)
		}
		res.Distribution[score] = cnt
	}
	if err := rows.Err(); err != nil {
		return res, fmt.Errorf("iterate rating distribution: %w", err)
	}
	return res, nil
}
