package entities

import (
	"fmt"
	"strings"
)

// Position is a recruiting role inside a team.
type Position uint8

const (
	PositionUnknown Position = iota
	PositionDesigner
	PositionBackend
	PositionFrontend
	PositionManager
)

// Positions lists every assignable position.
var Positions = []Position{PositionDesigner, PositionBackend, PositionFrontend, PositionManager}

var positionCodes = map[Position][2]string{
	PositionDesigner: {"D", "DESIGNER"},
	PositionBackend:  {"B", "BACKEND"},
	PositionFrontend: {"F", "FRONTEND"},
	PositionManager:  {"M", "MANAGER"},
}

// ParsePosition accepts a storage code ("B") or a name ("BACKEND"), case-insensitive.
func ParsePosition(s string) (Position, error) {
	v := strings.ToUpper(strings.TrimSpace(s))
	for p, c := range positionCodes {
		if v == c[0] || v == c[1] {
			return p, nil
		}
	}
	return PositionUnknown, fmt.Errorf("%w: unknown position %q", ErrValidation, s)
}

// Code returns the single-letter storage code.
func (p Position) Code() string { return positionCodes[p][0] }

// String returns the position name.
func (p Position) String() string {
	if c, ok := positionCodes[p]; ok {
		return c[1]
	}
	return "UNKNOWN"
}

// Valid reports whether p is one of Positions.
func (p Position) Valid() bool {
	_, ok := positionCodes[p]
	return ok
}

// Gender is a profile attribute.
type Gender uint8

const (
	GenderUnknown Gender = iota
	GenderMale
	GenderFemale
	GenderNone
)

var genderCodes = map[Gender][2]string{
	GenderMale:   {"M", "MALE"},
	GenderFemale: {"F", "FEMALE"},
	GenderNone:   {"N", "NONE"},
}

// ParseGender accepts a code or a name. An empty value means GenderNone.
func ParseGender(s string) (Gender, error) {
	v := strings.ToUpper(strings.TrimSpace(s))
	if v == "" {
		return GenderNone, nil
	}
	for g, c := range genderCodes {
		if v == c[0] || v == c[1] {
			return g, nil
		}
	}
	return GenderUnknown, fmt.Errorf("%w: unknown gender %q", ErrValidation, s)
}

// Code returns the single-letter storage code.
func (g Gender) Code() string { return genderCodes[g][0] }

func (g Gender) String() string {
	if c, ok := genderCodes[g]; ok {
		return c[1]
	}
	return "UNKNOWN"
}

// Party is the side of an offer.
type Party uint8

const (
	PartyUnknown Party = iota
	// PartyUser is a user applying to a team (USER_INITIATED).
	PartyUser
	// PartyLeader is a team leader inviting a user (TEAM_INITIATED).
	PartyLeader
)

var partyCodes = map[Party][2]string{
	PartyUser:   {"U", "USER"},
	PartyLeader: {"L", "LEADER"},
}

// ParseParty accepts a code or a name.
func ParseParty(s string) (Party, error) {
	v := strings.ToUpper(strings.TrimSpace(s))
	for p, c := range partyCodes {
		if v == c[0] || v == c[1] {
			return p, nil
		}
	}
	return PartyUnknown, fmt.Errorf("%w: unknown offering party %q", ErrValidation, s)
}

// Code returns the single-letter storage code.
func (p Party) Code() string { return partyCodes[p][0] }

func (p Party) String() string {
	if c, ok := partyCodes[p]; ok {
		return c[1]
	}
	return "UNKNOWN"
}

// Other returns the opposite side.
func (p Party) Other() Party {
	switch p {
	case PartyUser:
		return PartyLeader
	case PartyLeader:
		return PartyUser
	default:
		return PartyUnknown
	}
}

// FavoriteKind is the type of a bookmarked target.
type FavoriteKind uint8

const (
	FavoriteUnknown FavoriteKind = iota
	FavoriteUser
	FavoriteTeam
)

var favoriteCodes = map[FavoriteKind][2]string{
	FavoriteUser: {"U", "USER"},
	FavoriteTeam: {"T", "TEAM"},
}

// ParseFavoriteKind accepts a code or a name.
func ParseFavoriteKind(s string) (FavoriteKind, error) {
	v := strings.ToUpper(strings.TrimSpace(s))
	for k, c := range favoriteCodes {
		if v == c[0] || v == c[1] {
			return k, nil
		}
	}
	return FavoriteUnknown, fmt.Errorf("%w: unknown favorite kind %q", ErrValidation, s)
}

// Code returns the single-letter storage code.
func (k FavoriteKind) Code() string { return favoriteCodes[k][0] }

func (k FavoriteKind) String() string {
	if c, ok := favoriteCodes[k]; ok {
		return c[1]
	}
	return "UNKNOWN"
}
