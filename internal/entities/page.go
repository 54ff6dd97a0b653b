package entities

import "math"

const (
	// DefaultPageLimit is used when a caller passes no limit.
	DefaultPageLimit = 20
	// MaxPageLimit caps a single page.
	MaxPageLimit = 100
)

// Page is a keyset cursor over strictly decreasing ids.
// Cursor 0 starts from the newest row.
type Page struct {
	Cursor int64
	Limit  int
}

// Normalize applies defaults and caps.
func (p Page) Normalize() Page {
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	if p.Cursor < 0 {
		p.Cursor = 0
	}
	return p
}

// Before returns the exclusive upper bound for ids on this page.
func (p Page) Before() int64 {
	if p.Cursor == 0 {
		return math.MaxInt64
	}
	return p.Cursor
}

// ReviewPage is one page of reviews, newest first.
type ReviewPage struct {
	Reviews    []Review
	NextCursor int64
}

// OfferPage is one page of offers, newest first.
type OfferPage struct {
	Offers     []Offer
	NextCursor int64
}

// NextCursor returns the cursor following a page whose last id is lastID.
func NextCursor(n, limit int, lastID int64) int64 {
	if n < limit || n == 0 {
		return 0
	}
	return lastID
}
