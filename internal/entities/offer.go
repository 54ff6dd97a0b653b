package entities

import "time"

// OfferStatus enumerates offer resolution states.
type OfferStatus string

const (
	// OfferPending marks an unresolved offer.
	OfferPending OfferStatus = "PENDING"
	// OfferAccepted marks an offer turned into a membership.
	OfferAccepted OfferStatus = "ACCEPTED"
	// OfferDeclined marks an offer refused by the receiving side.
	OfferDeclined OfferStatus = "DECLINED"
)

// Offer is a proposal between a user and a team for a position.
// Status records the resolution; IsDeleted only controls visibility.
type Offer struct {
	ID         int64
	UserID     int64
	TeamID     int64
	Position   Position
	OfferedBy  Party
	Status     OfferStatus
	IsDeleted  bool
	CreatedAt  time.Time
	ResolvedAt *time.Time
}

// Live reports whether the offer is still pending and visible.
func (o *Offer) Live() bool { return !o.IsDeleted && o.Status == OfferPending }

// OfferDirection selects offers by who receives them.
type OfferDirection uint8

const (
	// OffersReceived selects offers the owner has to answer.
	OffersReceived OfferDirection = iota
	// OffersSent selects offers the owner initiated.
	OffersSent
)

// OfferFilter selects live offers of a user or of a team.
type OfferFilter struct {
	UserID    int64
	TeamID    int64
	Direction OfferDirection
	Page      Page
}

// AcceptOffer is the unit of work for an offer acceptance.
type AcceptOffer struct {
	OfferID  int64
	TeamID   int64
	UserID   int64
	Position Position
	At       time.Time
}
