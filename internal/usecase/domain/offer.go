// Package domain contains application services orchestrating the offer lifecycle.
package domain

import (
	"context"
	"fmt"

	"github.com/gabojait/gabojait-spring-sub005/internal/entities"
	"github.com/gabojait/gabojait-spring-sub005/internal/notify"
)

// CreateOffer proposes userID for a position of teamID. The initiating side follows from the actor:
// the user applying, or the team leader inviting.
func (u *Usecase) CreateOffer(ctx context.Context, actor, userID, teamID int64, position entities.Position) (*entities.Offer, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if !position.Valid() {
		return nil, fmt.Errorf("%w: unknown position", entities.ErrValidation)
	}
	if _, err := u.liveUser(ctx, userID); err != nil {
		return nil, err
	}
	team, err := u.activeTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}

	var by entities.Party
	switch {
	case actor == userID && actor != team.LeaderID:
		by = entities.PartyUser
	case actor == team.LeaderID && userID != actor:
		by = entities.PartyLeader
	default:
		return nil, entities.ErrNotOfferParty
	}

	if o, ok := team.Opening(position); !ok || o.Remaining() == 0 {
		return nil, entities.ErrNoOpening
	}
	member, err := u.repo.ActiveMember(ctx, teamID, userID)
	if err != nil {
		return nil, u.fail("get member", err)
	}
	if member != nil {
		return nil, entities.ErrAlreadyMember
	}
	live, err := u.repo.LivePendingOffer(ctx, userID, teamID, position)
	if err != nil {
		return nil, u.fail("get live offer", err)
	}
	if live != nil {
		return nil, entities.ErrOfferExists
	}

	offer, err := u.repo.CreateOffer(ctx, entities.Offer{
		UserID:    userID,
		TeamID:    teamID,
		Position:  position,
		OfferedBy: by,
	})
	if err != nil {
		return nil, u.fail("create offer", err)
	}

	u.log.Infow("offer create", "offer_id", offer.ID, "offered_by", by.String(), "team_id", teamID, "user_id", userID)
	u.notify(ctx, counterparty(offer, team), notify.KindOfferReceived, offerPayload(offer))
	return offer, nil
}

// AcceptOffer turns a live offer into a membership. Only the receiving side may accept.
// When the position was filled meanwhile the offer stays pending and ErrPositionFull is returned.
func (u *Usecase) AcceptOffer(ctx context.Context, actor, offerID int64) (*entities.Offer, *entities.TeamMember, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	offer, team, err := u.resolvable(ctx, actor, offerID)
	if err != nil {
		return nil, nil, err
	}
	if _, err := u.liveUser(ctx, offer.UserID); err != nil {
		return nil, nil, err
	}

	accepted, member, err := u.repo.AcceptOffer(ctx, entities.AcceptOffer{
		OfferID:  offer.ID,
		TeamID:   offer.TeamID,
		UserID:   offer.UserID,
		Position: offer.Position,
		At:       u.now(),
	})
	if err != nil {
		return nil, nil, u.fail("accept offer", err)
	}

	u.log.Infow("offer accept", "offer_id", offerID, "member_id", member.ID)
	u.notify(ctx, initiator(offer, team), notify.KindOfferAccepted, offerPayload(accepted))
	return accepted, member, nil
}

// DeclineOffer refuses a live offer. Only the receiving side may decline.
func (u *Usecase) DeclineOffer(ctx context.Context, actor, offerID int64) (*entities.Offer, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	offer, team, err := u.resolvable(ctx, actor, offerID)
	if err != nil {
		return nil, err
	}

	declined, err := u.repo.DeclineOffer(ctx, offer.ID, u.now())
	if err != nil {
		return nil, u.fail("decline offer", err)
	}

	u.notify(ctx, initiator(offer, team), notify.KindOfferDeclined, offerPayload(declined))
	return declined, nil
}

// WithdrawOffer hides a live offer. Only the initiating side may withdraw; the status stays pending.
func (u *Usecase) WithdrawOffer(ctx context.Context, actor, offerID int64) (*entities.Offer, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	offer, team, err := u.liveOffer(ctx, offerID)
	if err != nil {
		return nil, err
	}
	side, err := sideOf(actor, offer, team)
	if err != nil {
		return nil, err
	}
	if side != offer.OfferedBy {
		return nil, entities.ErrNotInitiator
	}

	withdrawn, err := u.repo.WithdrawOffer(ctx, offer.ID)
	if err != nil {
		return nil, u.fail("withdraw offer", err)
	}
	return withdrawn, nil
}

// ListOffers returns live offers of the actor, or of a team the actor leads when filter.TeamID is set.
func (u *Usecase) ListOffers(ctx context.Context, actor int64, filter entities.OfferFilter) (entities.OfferPage, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if filter.TeamID != 0 {
		team, err := u.liveTeam(ctx, filter.TeamID)
		if err != nil {
			return entities.OfferPage{}, err
		}
		if team.LeaderID != actor {
			return entities.OfferPage{}, entities.ErrNotLeader
		}
		filter.UserID = 0
	} else {
		filter.UserID = actor
	}
	filter.Page = filter.Page.Normalize()

	page, err := u.repo.ListOffers(ctx, filter)
	if err != nil {
		return entities.OfferPage{}, u.fail("list offers", err)
	}
	return page, nil
}

func (u *Usecase) liveOffer(ctx context.Context, offerID int64) (*entities.Offer, *entities.Team, error) {
	if offerID <= 0 {
		return nil, nil, fmt.Errorf("%w: offer id is required", entities.ErrValidation)
	}
	offer, err := u.repo.GetOffer(ctx, offerID)
	if err != nil {
		return nil, nil, u.fail("get offer", err)
	}
	if offer == nil || !offer.Live() {
		return nil, nil, entities.ErrOfferNotFound
	}
	team, err := u.liveTeam(ctx, offer.TeamID)
	if err != nil {
		return nil, nil, err
	}
	return offer, team, nil
}

// resolvable loads a live offer the actor may accept or decline.
func (u *Usecase) resolvable(ctx context.Context, actor, offerID int64) (*entities.Offer, *entities.Team, error) {
	offer, team, err := u.liveOffer(ctx, offerID)
	if err != nil {
		return nil, nil, err
	}
	side, err := sideOf(actor, offer, team)
	if err != nil {
		return nil, nil, err
	}
	if side == offer.OfferedBy {
		return nil, nil, entities.ErrSelfResolve
	}
	return offer, team, nil
}

func sideOf(actor int64, offer *entities.Offer, team *entities.Team) (entities.Party, error) {
	switch actor {
	case offer.UserID:
		return entities.PartyUser, nil
	case team.LeaderID:
		return entities.PartyLeader, nil
	default:
		return entities.PartyUnknown, entities.ErrNotOfferParty
	}
}

func initiator(offer *entities.Offer, team *entities.Team) int64 {
	if offer.OfferedBy == entities.PartyUser {
		return offer.UserID
	}
	return team.LeaderID
}

func counterparty(offer *entities.Offer, team *entities.Team) int64 {
	if offer.OfferedBy == entities.PartyUser {
		return team.LeaderID
	}
	return offer.UserID
}

func offerPayload(o *entities.Offer) map[string]any {
	return map[string]any{
		"offer_id": o.ID,
		"team_id":  o.TeamID,
		"user_id":  o.UserID,
		"position": o.Position.String(),
	}
}
