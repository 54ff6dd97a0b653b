package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/gabojait/gabojait-spring-sub005/internal/entities"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

const (
	reviewColumns     = `id, team_id, reviewer_member_id, reviewee_member_id, reviewer_user_id, reviewee_user_id, rating, comment, is_deleted, created_at`
	insertReviewQuery = `
INSERT INTO reviews(team_id, reviewer_member_id, reviewee_member_id, reviewer_user_id, reviewee_user_id, rating, comment)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + reviewColumns
	reviewExistsQuery = `SELECT EXISTS(SELECT 1 FROM reviews WHERE team_id=$1 AND reviewer_user_id=$2 AND reviewee_user_id=$3)`
)

// CreateReview inserts the review and folds its score into the reviewee rating.
// The reviewee row is locked so concurrent reviews of one user apply in sequence.
func (p *Postgres) CreateReview(ctx context.Context, review entities.Review) (*entities.Review, entities.Rating, error) {
	tx, err := p.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, entities.Rating{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	reviewee, err := scanUser(tx.QueryRow(ctx, selectUserForUpdate, review.RevieweeUserID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.Rating{}, entities.ErrUserNotFound
		}
		return nil, entities.Rating{}, fmt.Errorf("lock reviewee: %w", err)
	}

	created, err := scanReview(tx.QueryRow(ctx, insertReviewQuery,
		review.TeamID, review.ReviewerMemberID, review.RevieweeMemberID,
		review.ReviewerUserID, review.RevieweeUserID, review.Rating, review.Comment))
	if err != nil {
		if isUniqueViolation(err, "") {
			return nil, entities.Rating{}, entities.ErrReviewExists
		}
		p.log.Errorw("failed to insert review", "error", err, "reviewer_member_id", review.ReviewerMemberID)
		return nil, entities.Rating{}, fmt.Errorf("insert review: %w", err)
	}

	rating := reviewee.Rating.Apply(created.Rating)
	if _, err := tx.Exec(ctx, updateUserRatingQuery, reviewee.ID, rating.Average, rating.Count); err != nil {
		return nil, entities.Rating{}, fmt.Errorf("update rating: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, entities.Rating{}, err
	}

	p.log.Infow("review created", "review_id", created.ID, "reviewee_user_id", reviewee.ID, "rating", rating.Average, "count", rating.Count)
	return created, rating, nil
}

// ReviewExists reports whether the reviewer already reviewed the reviewee in the team.
func (p *Postgres) ReviewExists(ctx context.Context, teamID, reviewerUserID, revieweeUserID int64) (bool, error) {
	var exists bool
	if err := p.db.QueryRow(ctx, reviewExistsQuery, teamID, reviewerUserID, revieweeUserID).Scan(&exists); err != nil {
		return false, fmt.Errorf("review exists: %w", err)
	}
	return exists, nil
}

// ListReviews returns reviews received by a user, newest first, keyed by id.
func (p *Postgres) ListReviews(ctx context.Context, revieweeUserID int64, page entities.Page) (entities.ReviewPage, error) {
	page = page.Normalize()

	q := psql.Select(reviewColumns).From("reviews").
		Where(sq.Eq{"reviewee_user_id": revieweeUserID, "is_deleted": false}).
		Where(sq.Lt{"id": page.Before()}).
		OrderBy("id DESC").
		Limit(uint64(page.Limit))

	rows, err := qQuery(ctx, p.db, q)
	if err != nil {
		return entities.ReviewPage{}, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	res := entities.ReviewPage{Reviews: make([]entities.Review, 0, page.Limit)}
	for rows.Next() {
		r, err := scanReview(rows)
		if err != nil {
			p.log.Errorw("failed to scan review", "error", err, "user_id", revieweeUserID)
			return entities.ReviewPage{}, fmt.Errorf("scan review: %w", err)
		}
		res.Reviews = append(res.Reviews, *r)
	}
	if err := rows.Err(); err != nil {
		return entities.ReviewPage{}, fmt.Errorf("iterate reviews: %w", err)
	}

	if n := len(res.Reviews); n > 0 {
		res.NextCursor = entities.NextCursor(n, page.Limit, res.Reviews[n-1].ID)
	}
	return res, nil
}

func scanReview(row pgx.Row) (*entities.Review, error) {
	var r entities.Review
	if err := row.Scan(&r.ID, &r.TeamID, &r.ReviewerMemberID, &r.RevieweeMemberID, &r.ReviewerUserID,
		&r.RevieweeUserID, &r.Rating, &r.Comment, &r.IsDeleted, &r.CreatedAt); err != nil {
		return nil, err
	}
	return &r, nil
}
