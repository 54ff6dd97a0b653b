// Package mapper converts between domain models and transport DTOs.
package mapper

import (
	"fmt"
	"strconv"

	"github.com/gabojait/gabojait-spring-sub005/internal/entities"
	"github.com/gabojait/gabojait-spring-sub005/internal/transport/http/dto"
)

// FromProfile builds the editable user fields from a transport profile.
func FromProfile(src dto.Profile) (entities.User, error) {
	gender, err := entities.ParseGender(src.Gender)
	if err != nil {
		return entities.User{}, err
	}
	var position entities.Position
	if src.Position != "" {
		if position, err = entities.ParsePosition(src.Position); err != nil {
			return entities.User{}, err
		}
	}

	p := entities.Profile{Bio: src.Bio}
	for _, e := range src.Educations {
		p.Educations = append(p.Educations, entities.Education{
			Institution: e.Institution, StartedAt: e.StartedAt, EndedAt: e.EndedAt, IsCurrent: e.IsCurrent,
		})
	}
	for _, pf := range src.Portfolios {
		p.Portfolios = append(p.Portfolios, entities.Portfolio{Name: pf.Name, URL: pf.URL})
	}
	for _, s := range src.Skills {
		p.Skills = append(p.Skills, entities.Skill{Name: s.Name, Level: s.Level, IsExperienced: s.IsExperienced})
	}
	for _, w := range src.Works {
		p.Works = append(p.Works, entities.Work{
			Corporation: w.Corporation, Description: w.Description, StartedAt: w.StartedAt, EndedAt: w.EndedAt,
		})
	}

	return entities.User{
		Nickname: src.Nickname,
		Gender:   gender,
		Position: position,
		Profile:  p,
	}, nil
}

// ToUser maps entities.User to transport model.
func ToUser(u entities.User) dto.User {
	res := dto.User{
		ID:        u.ID,
		Username:  u.Username,
		Rating:    ToRating(u.Rating),
		CreatedAt: u.CreatedAt,
		Profile: dto.Profile{
			Nickname: u.Nickname,
			Gender:   u.Gender.String(),
			Bio:      u.Profile.Bio,
		},
	}
	if u.Position.Valid() {
		res.Position = u.Position.String()
	}
	for _, e := range u.Profile.Educations {
		res.Educations = append(res.Educations, dto.Education{
			Institution: e.Institution, StartedAt: e.StartedAt, EndedAt: e.EndedAt, IsCurrent: e.IsCurrent,
		})
	}
	for _, pf := range u.Profile.Portfolios {
		res.Portfolios = append(res.Portfolios, dto.Portfolio{Name: pf.Name, URL: pf.URL})
	}
	for _, s := range u.Profile.Skills {
		res.Skills = append(res.Skills, dto.Skill{Name: s.Name, Level: s.Level, IsExperienced: s.IsExperienced})
	}
	for _, w := range u.Profile.Works {
		res.Works = append(res.Works, dto.Work{
			Corporation: w.Corporation, Description: w.Description, StartedAt: w.StartedAt, EndedAt: w.EndedAt,
		})
	}
	return res
}

// ToRating maps a running rating.
func ToRating(r entities.Rating) dto.Rating {
	return dto.Rating{Average: r.Average, Count: r.Count}
}

// FromCreateTeam builds a team and the leader position from a request.
func FromCreateTeam(src dto.CreateTeamRequest) (entities.Team, entities.Position, error) {
	leaderPosition, err := entities.ParsePosition(src.LeaderPosition)
	if err != nil {
		return entities.Team{}, entities.PositionUnknown, err
	}
	team := entities.Team{Name: src.Name, Description: src.Description}
	for _, o := range src.Openings {
		p, err := entities.ParsePosition(o.Position)
		if err != nil {
			return entities.Team{}, entities.PositionUnknown, err
		}
		team.Openings = append(team.Openings, entities.Opening{Position: p, Capacity: o.Capacity})
	}
	return team, leaderPosition, nil
}

// ToTeam maps entities.Team to transport model.
func ToTeam(team entities.Team) dto.Team {
	res := dto.Team{
		ID:          team.ID,
		LeaderID:    team.LeaderID,
		Name:        team.Name,
		Description: team.Description,
		Openings:    make([]dto.Opening, 0, len(team.Openings)),
		Members:     ToMembers(team.Members),
		CompletedAt: team.CompletedAt,
		CreatedAt:   team.CreatedAt,
	}
	for _, o := range team.Openings {
		res.Openings = append(res.Openings, dto.Opening{Position: o.Position.String(), Capacity: o.Capacity, Filled: o.Filled})
	}
	return res
}

// ToMember maps a membership.
func ToMember(m entities.TeamMember) dto.TeamMember {
	return dto.TeamMember{
		ID:       m.ID,
		UserID:   m.UserID,
		Position: m.Position.String(),
		IsLeader: m.IsLeader,
		JoinedAt: m.JoinedAt,
		LeftAt:   m.LeftAt,
	}
}

// ToMembers maps a membership list.
func ToMembers(src []entities.TeamMember) []dto.TeamMember {
	res := make([]dto.TeamMember, 0, len(src))
	for _, m := range src {
		res = append(res, ToMember(m))
	}
	return res
}

// ToOffer maps entities.Offer to transport model.
func ToOffer(o entities.Offer) dto.Offer {
	return dto.Offer{
		ID:         o.ID,
		UserID:     o.UserID,
		TeamID:     o.TeamID,
		Position:   o.Position.String(),
		OfferedBy:  o.OfferedBy.String(),
		Status:     string(o.Status),
		IsDeleted:  o.IsDeleted,
		CreatedAt:  o.CreatedAt,
		ResolvedAt: o.ResolvedAt,
	}
}

// ToOfferPage maps a page of offers.
func ToOfferPage(p entities.OfferPage) dto.OfferPage {
	res := dto.OfferPage{Offers: make([]dto.Offer, 0, len(p.Offers)), NextCursor: p.NextCursor}
	for _, o := range p.Offers {
		res.Offers = append(res.Offers, ToOffer(o))
	}
	return res
}

// FromCreateReview builds a review from a request.
func FromCreateReview(src dto.CreateReviewRequest) entities.Review {
	return entities.Review{
		ReviewerMemberID: src.ReviewerMemberID,
		RevieweeMemberID: src.RevieweeMemberID,
		Rating:           src.Rating,
		Comment:          src.Comment,
	}
}

// ToReview maps entities.Review to transport model.
func ToReview(r entities.Review) dto.Review {
	return dto.Review{
		ID:             r.ID,
		TeamID:         r.TeamID,
		ReviewerUserID: r.ReviewerUserID,
		RevieweeUserID: r.RevieweeUserID,
		Rating:         r.Rating,
		Comment:        r.Comment,
		CreatedAt:      r.CreatedAt,
	}
}

// ToReviewPage maps a page of reviews.
func ToReviewPage(p entities.ReviewPage) dto.ReviewPage {
	res := dto.ReviewPage{Reviews: make([]dto.Review, 0, len(p.Reviews)), NextCursor: p.NextCursor}
	for _, r := range p.Reviews {
		res.Reviews = append(res.Reviews, ToReview(r))
	}
	return res
}

// ToReviewSummary maps review statistics. Every score appears in the distribution.
func ToReviewSummary(s entities.ReviewSummary) dto.ReviewSummary {
	res := dto.ReviewSummary{
		UserID:       s.UserID,
		Rating:       ToRating(s.Rating),
		Distribution: make(map[string]int64, entities.MaxRating),
	}
	for score := entities.MinRating; score <= entities.MaxRating; score++ {
		res.Distribution[strconv.Itoa(score)] = s.Distribution[score]
	}
	return res
}

// ToFavorite maps a bookmark state.
func ToFavorite(f entities.Favorite) dto.Favorite {
	return dto.Favorite{
		Kind:     f.Kind.String(),
		TargetID: f.TargetID,
		Active:   !f.IsDeleted,
		Updated:  f.UpdatedAt,
	}
}

// ToFavorites maps a bookmark list.
func ToFavorites(src []entities.Favorite) []dto.Favorite {
	res := make([]dto.Favorite, 0, len(src))
	for _, f := range src {
		res = append(res, ToFavorite(f))
	}
	return res
}

// ParseDirection maps the direction query value; empty means received.
func ParseDirection(s string) (entities.OfferDirection, error) {
	switch s {
	case "", "received":
		return entities.OffersReceived, nil
	case "sent":
		return entities.OffersSent, nil
	default:
		return entities.OffersReceived, fmt.Errorf("%w: direction must be received or sent", entities.ErrValidation)
	}
}
