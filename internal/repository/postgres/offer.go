package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gabojait/gabojait-spring-sub005/internal/entities"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

const (
	offerColumns     = `id, user_id, team_id, position, offered_by, status, is_deleted, created_at, resolved_at`
	offerUniqueIndex = "offers_live_pending_uq"
	insertOfferQuery = `
INSERT INTO offers(user_id, team_id, position, offered_by)
VALUES ($1, $2, $3, $4)
RETURNING ` + offerColumns
	selectOfferQuery       = `SELECT ` + offerColumns + ` FROM offers WHERE id=$1`
	selectLivePendingQuery = `SELECT ` + offerColumns + ` FROM offers WHERE user_id=$1 AND team_id=$2 AND position=$3 AND status='PENDING' AND is_deleted=false`
	resolveOfferQuery      = `
UPDATE offers SET status=$2, is_deleted=true, resolved_at=$3
WHERE id=$1 AND status='PENDING' AND is_deleted=false
RETURNING ` + offerColumns
	withdrawOfferQuery = `
UPDATE offers SET is_deleted=true
WHERE id=$1 AND status='PENDING' AND is_deleted=false
RETURNING ` + offerColumns
	fillSlotQuery = `UPDATE team_openings SET filled = filled + 1 WHERE team_id=$1 AND position=$2 AND filled < capacity`
	activeTeam    = `SELECT true FROM teams WHERE id=$1 AND is_deleted=false AND completed_at IS NULL FOR SHARE`
)

// CreateOffer inserts a pending offer; the partial unique index rejects a second live one.
func (p *Postgres) CreateOffer(ctx context.Context, offer entities.Offer) (*entities.Offer, error) {
	created, err := scanOffer(p.db.QueryRow(ctx, insertOfferQuery,
		offer.UserID, offer.TeamID, offer.Position.Code(), offer.OfferedBy.Code()))
	if err != nil {
		if isUniqueViolation(err, offerUniqueIndex) {
			return nil, entities.ErrOfferExists
		}
		p.log.Errorw("failed to insert offer", "error", err, "user_id", offer.UserID, "team_id", offer.TeamID)
		return nil, fmt.Errorf("insert offer: %w", err)
	}

	p.log.Infow("offer created", "offer_id", created.ID, "offered_by", created.OfferedBy.String())
	return created, nil
}

// GetOffer returns an offer in any state, nil when missing.
func (p *Postgres) GetOffer(ctx context.Context, offerID int64) (*entities.Offer, error) {
	o, err := scanOffer(p.db.QueryRow(ctx, selectOfferQuery, offerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get offer: %w", err)
	}
	return o, nil
}

// LivePendingOffer returns the live pending offer of the tuple, nil when none.
func (p *Postgres) LivePendingOffer(ctx context.Context, userID, teamID int64, position entities.Position) (*entities.Offer, error) {
	o, err := scanOffer(p.db.QueryRow(ctx, selectLivePendingQuery, userID, teamID, position.Code()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get live offer: %w", err)
	}
	return o, nil
}

// AcceptOffer resolves the offer, takes one slot and inserts the membership in one transaction.
// Concurrent acceptors of the last slot serialize on the opening row; the loser sees
// filled = capacity, gets ErrPositionFull, and its offer stays pending after rollback.
func (p *Postgres) AcceptOffer(ctx context.Context, cmd entities.AcceptOffer) (*entities.Offer, *entities.TeamMember, error) {
	tx, err := p.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var ok bool
	if err := tx.QueryRow(ctx, activeTeam, cmd.TeamID).Scan(&ok); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, entities.ErrTeamNotFound
		}
		return nil, nil, fmt.Errorf("lock team: %w", err)
	}

	offer, err := scanOffer(tx.QueryRow(ctx, resolveOfferQuery, cmd.OfferID, string(entities.OfferAccepted), cmd.At))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, entities.ErrOfferNotFound
		}
		return nil, nil, fmt.Errorf("resolve offer: %w", err)
	}

	tag, err := tx.Exec(ctx, fillSlotQuery, cmd.TeamID, cmd.Position.Code())
	if err != nil {
		return nil, nil, fmt.Errorf("fill slot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		p.log.Infow("offer lost capacity race", "offer_id", cmd.OfferID, "team_id", cmd.TeamID, "position", cmd.Position.String())
		return nil, nil, entities.ErrPositionFull
	}

	member, err := scanMember(tx.QueryRow(ctx, insertMemberQuery, cmd.TeamID, cmd.UserID, cmd.Position.Code(), false, cmd.At))
	if err != nil {
		if isUniqueViolation(err, "team_members_active_uq") {
			return nil, nil, entities.ErrAlreadyMember
		}
		return nil, nil, fmt.Errorf("insert member: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}

	p.log.Infow("offer accepted", "offer_id", offer.ID, "member_id", member.ID)
	return offer, member, nil
}

// DeclineOffer resolves a live pending offer as declined.
func (p *Postgres) DeclineOffer(ctx context.Context, offerID int64, at time.Time) (*entities.Offer, error) {
	o, err := scanOffer(p.db.QueryRow(ctx, resolveOfferQuery, offerID, string(entities.OfferDeclined), at))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrOfferNotFound
		}
		return nil, fmt.Errorf("decline offer: %w", err)
	}
	p.log.Infow("offer declined", "offer_id", offerID)
	return o, nil
}

// WithdrawOffer hides a live pending offer.
func (p *Postgres) WithdrawOffer(ctx context.Context, offerID int64) (*entities.Offer, error) {
	o, err := scanOffer(p.db.QueryRow(ctx, withdrawOfferQuery, offerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrOfferNotFound
		}
		return nil, fmt.Errorf("withdraw offer: %w", err)
	}
	p.log.Infow("offer withdrawn", "offer_id", offerID)
	return o, nil
}

// ListOffers returns live pending offers newest first using an id cursor.
func (p *Postgres) ListOffers(ctx context.Context, filter entities.OfferFilter) (entities.OfferPage, error) {
	page := filter.Page.Normalize()

	q := psql.Select(offerColumns).From("offers").
		Where(sq.Eq{"status": string(entities.OfferPending), "is_deleted": false}).
		Where(sq.Lt{"id": page.Before()}).
		OrderBy("id DESC").
		Limit(uint64(page.Limit))

	switch {
	case filter.UserID != 0:
		q = q.Where(sq.Eq{"user_id": filter.UserID})
		if filter.Direction == entities.OffersReceived {
			q = q.Where(sq.Eq{"offered_by": entities.PartyLeader.Code()})
		} else {
			q = q.Where(sq.Eq{"offered_by": entities.PartyUser.Code()})
		}
	case filter.TeamID != 0:
		q = q.Where(sq.Eq{"team_id": filter.TeamID})
		if filter.Direction == entities.OffersReceived {
			q = q.Where(sq.Eq{"offered_by": entities.PartyUser.Code()})
		} else {
			q = q.Where(sq.Eq{"offered_by": entities.PartyLeader.Code()})
		}
	default:
		return entities.OfferPage{}, fmt.Errorf("%w: offer filter needs a user or a team", entities.ErrValidation)
	}

	rows, err := qQuery(ctx, p.db, q)
	if err != nil {
		return entities.OfferPage{}, fmt.Errorf("list offers: %w", err)
	}
	defer rows.Close()

	res := entities.OfferPage{Offers: make([]entities.Offer, 0, page.Limit)}
	for rows.Next() {
		o, err := scanOffer(rows)
		if err != nil {
			return entities.OfferPage{}, fmt.Errorf("scan offer: %w", err)
		}
		res.Offers = append(res.Offers, *o)
	}
	if err := rows.Err(); err != nil {
		return entities.OfferPage{}, fmt.Errorf("iterate offers: %w", err)
	}

	if n := len(res.Offers); n > 0 {
		res.NextCursor = entities.NextCursor(n, page.Limit, res.Offers[n-1].ID)
	}
	return res, nil
}

func scanOffer(row pgx.Row) (*entities.Offer, error) {
	var (
		o               entities.Offer
		position, party string
		status          string
	)
	if err := row.Scan(&o.ID, &o.UserID, &o.TeamID, &position, &party, &status, &o.IsDeleted, &o.CreatedAt, &o.ResolvedAt); err != nil {
		return nil, err
	}
	pos, err := entities.ParsePosition(position)
	if err != nil {
		return nil, fmt.Errorf("stored offer position: %v", err)
	}
	by, err := entities.ParseParty(party)
	if err != nil {
		return nil, fmt.Errorf("stored offer party: %v", err)
	}
	o.Position, o.OfferedBy, o.Status = pos, by, entities.OfferStatus(status)
	return &o, nil
}
