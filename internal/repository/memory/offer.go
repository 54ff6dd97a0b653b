package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/gabojait/gabojait-spring-sub005/internal/entities"

	"github.com/hashicorp/go-memdb"
)

// CreateOffer inserts a pending offer unless a live one exists for the same tuple.
func (m *Memory) CreateOffer(_ context.Context, offer entities.Offer) (*entities.Offer, error) {
	var created entities.Offer
	err := m.write(func(txn *memdb.Txn) error {
		live, err := livePending(txn, offer.UserID, offer.TeamID, offer.Position)
		if err != nil {
			return err
		}
		if live != nil {
			return entities.ErrOfferExists
		}
		id, err := nextID(txn, tableOffers)
		if err != nil {
			return err
		}
		created = entities.Offer{
			ID:        id,
			UserID:    offer.UserID,
			TeamID:    offer.TeamID,
			Position:  offer.Position,
			OfferedBy: offer.OfferedBy,
			Status:    entities.OfferPending,
			CreatedAt: m.now(),
		}
		return put(txn, tableOffers, &created)
	})
	if err != nil {
		return nil, err
	}

	m.log.Infow("offer created", "offer_id", created.ID, "offered_by", created.OfferedBy.String())
	return &created, nil
}

// GetOffer returns an offer in any state, nil when missing.
func (m *Memory) GetOffer(_ context.Context, offerID int64) (*entities.Offer, error) {
	return first[entities.Offer](m.read(), tableOffers, pk, offerID)
}

// LivePendingOffer returns the live pending offer of the tuple, nil when none.
func (m *Memory) LivePendingOffer(_ context.Context, userID, teamID int64, position entities.Position) (*entities.Offer, error) {
	return livePending(m.read(), userID, teamID, position)
}

// AcceptOffer resolves the offer, takes one slot and inserts the membership.
// Write transactions are serialized, so the capacity check and the increment cannot interleave.
func (m *Memory) AcceptOffer(_ context.Context, cmd entities.AcceptOffer) (*entities.Offer, *entities.TeamMember, error) {
	var (
		offer  *entities.Offer
		member *entities.TeamMember
	)
	err := m.write(func(txn *memdb.Txn) error {
		t, err := first[entities.Team](txn, tableTeams, pk, cmd.TeamID)
		if err != nil {
			return err
		}
		if t == nil || t.IsDeleted || t.IsCompleted() {
			return entities.ErrTeamNotFound
		}

		offer, err = resolve(txn, cmd.OfferID, entities.OfferAccepted, cmd.At)
		if err != nil {
			return err
		}

		slot, err := first[opening](txn, tableOpenings, pk, cmd.TeamID, cmd.Position)
		if err != nil {
			return err
		}
		if slot == nil || slot.Filled >= slot.Capacity {
			m.log.Infow("offer lost capacity race", "offer_id", cmd.OfferID, "team_id", cmd.TeamID, "position", cmd.Position.String())
			return entities.ErrPositionFull
		}
		slot.Filled++
		if err := put(txn, tableOpenings, slot); err != nil {
			return err
		}

		member, err = m.insertMember(txn, cmd.TeamID, cmd.UserID, cmd.Position, false, cmd.At)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	m.log.Infow("offer accepted", "offer_id", offer.ID, "member_id", member.ID)
	return offer, member, nil
}

// DeclineOffer resolves a live pending offer as declined.
func (m *Memory) DeclineOffer(_ context.Context, offerID int64, at time.Time) (*entities.Offer, error) {
	var declined *entities.Offer
	err := m.write(func(txn *memdb.Txn) error {
		var err error
		declined, err = resolve(txn, offerID, entities.OfferDeclined, at)
		return err
	})
	if err != nil {
		return nil, err
	}
	m.log.Infow("offer declined", "offer_id", offerID)
	return declined, nil
}

// WithdrawOffer hides a live pending offer.
func (m *Memory) WithdrawOffer(_ context.Context, offerID int64) (*entities.Offer, error) {
	var withdrawn *entities.Offer
	err := m.write(func(txn *memdb.Txn) error {
		o, err := first[entities.Offer](txn, tableOffers, pk, offerID)
		if err != nil {
			return err
		}
		if o == nil || !o.Live() {
			return entities.ErrOfferNotFound
		}
		o.IsDeleted = true
		withdrawn = o
		return put(txn, tableOffers, o)
	})
	if err != nil {
		return nil, err
	}
	m.log.Infow("offer withdrawn", "offer_id", offerID)
	return withdrawn, nil
}

// ListOffers returns live pending offers newest first using an id cursor.
func (m *Memory) ListOffers(_ context.Context, filter entities.OfferFilter) (entities.OfferPage, error) {
	page := filter.Page.Normalize()

	var (
		index string
		key   int64
		from  entities.Party
	)
	switch {
	case filter.UserID != 0:
		index, key, from = "user", filter.UserID, entities.PartyLeader
	case filter.TeamID != 0:
		index, key, from = "team", filter.TeamID, entities.PartyUser
	default:
		return entities.OfferPage{}, fmt.Errorf("%w: offer filter needs a user or a team", entities.ErrValidation)
	}
	if filter.Direction == entities.OffersSent {
		from = from.Other()
	}

	offers, err := all[entities.Offer](m.read(), tableOffers, index, key)
	if err != nil {
		return entities.OfferPage{}, err
	}
	sort.Slice(offers, func(i, j int) bool { return offers[i].ID > offers[j].ID })

	res := entities.OfferPage{Offers: make([]entities.Offer, 0, page.Limit)}
	for _, o := range offers {
		if len(res.Offers) == page.Limit {
			break
		}
		if o.ID >= page.Before() || !o.Live() || o.OfferedBy != from {
			continue
		}
		res.Offers = append(res.Offers, o)
	}

	if n := len(res.Offers); n > 0 {
		res.NextCursor = entities.NextCursor(n, page.Limit, res.Offers[n-1].ID)
	}
	return res, nil
}

func livePending(txn *memdb.Txn, userID, teamID int64, position entities.Position) (*entities.Offer, error) {
	offers, err := all[entities.Offer](txn, tableOffers, "tuple", userID, teamID, position)
	if err != nil {
		return nil, err
	}
	for i := range offers {
		if offers[i].Live() {
			return &offers[i], nil
		}
	}
	return nil, nil
}

func resolve(txn *memdb.Txn, offerID int64, status entities.OfferStatus, at time.Time) (*entities.Offer, error) {
	o, err := first[entities.Offer](txn, tableOffers, pk, offerID)
	if err != nil {
		return nil, err
	}
	if o == nil || !o.Live() {
		return nil, entities.ErrOfferNotFound
	}
	resolved := at
	o.Status, o.IsDeleted, o.ResolvedAt = status, true, &resolved
	if err := put(txn, tableOffers, o); err != nil {
		return nil, err
	}
	return o, nil
}
