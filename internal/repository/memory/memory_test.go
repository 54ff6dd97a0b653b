package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/gabojait/gabojait-spring-sub005/internal/entities"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newStore(t *testing.T) *Memory {
	t.Helper()
	m := New(zap.NewNop().Sugar())
	require.NoError(t, m.OnStart(context.Background()))
	return m
}

func seedTeam(t *testing.T, m *Memory, capacity int) (*entities.Team, *entities.User) {
	t.Helper()
	ctx := context.Background()
	leader, err := m.CreateUser(ctx, entities.User{Username: "leader", Nickname: "lead", Gender: entities.GenderNone})
	require.NoError(t, err)
	team, err := m.CreateTeam(ctx, entities.Team{
		LeaderID: leader.ID,
		Name:     "gabojait",
		Openings: []entities.Opening{
			{Position: entities.PositionManager, Capacity: 1, Filled: 1},
			{Position: entities.PositionBackend, Capacity: capacity},
		},
	}, entities.TeamMember{UserID: leader.ID, Position: entities.PositionManager, JoinedAt: time.Now()})
	require.NoError(t, err)
	return team, leader
}

func TestMemory_CreateUserUniqueUsername(t *testing.T) {
	m := newStore(t)
	ctx := context.Background()

	u, err := m.CreateUser(ctx, entities.User{Username: "kim"})
	require.NoError(t, err)
	require.Equal(t, int64(1), u.ID)

	_, err = m.CreateUser(ctx, entities.User{Username: "kim"})
	require.ErrorIs(t, err, entities.ErrUsernameTaken)

	missing, err := m.GetUser(ctx, 42)
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestMemory_ReturnedObjectsDoNotAliasStore(t *testing.T) {
	m := newStore(t)
	ctx := context.Background()

	u, err := m.CreateUser(ctx, entities.User{Username: "kim", Nickname: "k"})
	require.NoError(t, err)
	u.Nickname = "changed"

	stored, err := m.GetUser(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "k", stored.Nickname)
}

func TestMemory_OfferUniquePerTuple(t *testing.T) {
	m := newStore(t)
	ctx := context.Background()
	team, _ := seedTeam(t, m, 2)
	user, err := m.CreateUser(ctx, entities.User{Username: "applicant"})
	require.NoError(t, err)

	offer := entities.Offer{UserID: user.ID, TeamID: team.ID, Position: entities.PositionBackend, OfferedBy: entities.PartyUser}
	first, err := m.CreateOffer(ctx, offer)
	require.NoError(t, err)
	require.Equal(t, entities.OfferPending, first.Status)

	_, err = m.CreateOffer(ctx, offer)
	require.ErrorIs(t, err, entities.ErrOfferExists)

	_, err = m.WithdrawOffer(ctx, first.ID)
	require.NoError(t, err)

	second, err := m.CreateOffer(ctx, offer)
	require.NoError(t, err)
	require.NotEqual(t, first.ID, second.ID)

	live, err := m.LivePendingOffer(ctx, user.ID, team.ID, entities.PositionBackend)
	require.NoError(t, err)
	require.Equal(t, second.ID, live.ID)
}

func TestMemory_AcceptCreatesMembership(t *testing.T) {
	m := newStore(t)
	ctx := context.Background()
	team, _ := seedTeam(t, m, 1)
	user, err := m.CreateUser(ctx, entities.User{Username: "applicant"})
	require.NoError(t, err)

	offer, err := m.CreateOffer(ctx, entities.Offer{UserID: user.ID, TeamID: team.ID, Position: entities.PositionBackend, OfferedBy: entities.PartyLeader})
	require.NoError(t, err)

	accepted, member, err := m.AcceptOffer(ctx, entities.AcceptOffer{
		OfferID: offer.ID, TeamID: team.ID, UserID: user.ID, Position: entities.PositionBackend, At: time.Now(),
	})
	require.NoError(t, err)
	require.Equal(t, entities.OfferAccepted, accepted.Status)
	require.True(t, accepted.IsDeleted)
	require.NotNil(t, accepted.ResolvedAt)
	require.Equal(t, user.ID, member.UserID)

	got, err := m.GetTeam(ctx, team.ID)
	require.NoError(t, err)
	o, ok := got.Opening(entities.PositionBackend)
	require.True(t, ok)
	require.Equal(t, 1, o.Filled)

	members, err := m.ListMembers(ctx, team.ID)
	require.NoError(t, err)
	require.Len(t, members, 2)

	_, err = m.DeclineOffer(ctx, offer.ID, time.Now())
	require.ErrorIs(t, err, entities.ErrOfferNotFound)
}

func TestMemory_ConcurrentAcceptLastSlot(t *testing.T) {
	m := newStore(t)
	ctx := context.Background()
	team, _ := seedTeam(t, m, 1)

	offers := make([]*entities.Offer, 2)
	for i := range offers {
		u, err := m.CreateUser(ctx, entities.User{Username: []string{"a", "b"}[i]})
		require.NoError(t, err)
		offers[i], err = m.CreateOffer(ctx, entities.Offer{UserID: u.ID, TeamID: team.ID, Position: entities.PositionBackend, OfferedBy: entities.PartyLeader})
		require.NoError(t, err)
	}

	errs := make([]error, len(offers))
	var wg sync.WaitGroup
	for i, o := range offers {
		wg.Add(1)
		go func(i int, o *entities.Offer) {
			defer wg.Done()
			_, _, errs[i] = m.AcceptOffer(ctx, entities.AcceptOffer{
				OfferID: o.ID, TeamID: team.ID, UserID: o.UserID, Position: o.Position, At: time.Now(),
			})
		}(i, o)
	}
	wg.Wait()

	var ok, full int
	for i, err := range errs {
		if err == nil {
			ok++
			continue
		}
		require.ErrorIs(t, err, entities.ErrCapacity)
		full++
		loser, gerr := m.GetOffer(ctx, offers[i].ID)
		require.NoError(t, gerr)
		require.True(t, loser.Live())
	}
	require.Equal(t, 1, ok)
	require.Equal(t, 1, full)

	got, err := m.GetTeam(ctx, team.ID)
	require.NoError(t, err)
	o, _ := got.Opening(entities.PositionBackend)
	require.Equal(t, 1, o.Filled)
}

func TestMemory_ReviewRatingAndDuplicate(t *testing.T) {
	m := newStore(t)
	ctx := context.Background()
	reviewee, err := m.CreateUser(ctx, entities.User{Username: "reviewee"})
	require.NoError(t, err)

	var rating entities.Rating
	for i, score := range []int{5, 3, 4} {
		_, rating, err = m.CreateReview(ctx, entities.Review{
			TeamID: 1, ReviewerMemberID: int64(10 + i), RevieweeMemberID: 1,
			ReviewerUserID: int64(100 + i), RevieweeUserID: reviewee.ID, Rating: score,
		})
		require.NoError(t, err)
	}
	require.InDelta(t, 4.0, rating.Average, 1e-9)
	require.Equal(t, int64(3), rating.Count)

	_, _, err = m.CreateReview(ctx, entities.Review{
		TeamID: 1, ReviewerMemberID: 10, RevieweeMemberID: 1, ReviewerUserID: 100, RevieweeUserID: reviewee.ID, Rating: 1,
	})
	require.ErrorIs(t, err, entities.ErrConflict)

	summary, err := m.ReviewSummary(ctx, reviewee.ID)
	require.NoError(t, err)
	require.Equal(t, int64(3), summary.Rating.Count)
	require.Equal(t, map[int]int64{3: 1, 4: 1, 5: 1}, summary.Distribution)
}

func TestMemory_ReviewUniquePerTeamUsers(t *testing.T) {
	m := newStore(t)
	ctx := context.Background()
	reviewee, err := m.CreateUser(ctx, entities.User{Username: "reviewee"})
	require.NoError(t, err)

	_, _, err = m.CreateReview(ctx, entities.Review{
		TeamID: 1, ReviewerMemberID: 2, RevieweeMemberID: 3, ReviewerUserID: 9, RevieweeUserID: reviewee.ID, Rating: 5,
	})
	require.NoError(t, err)

	_, _, err = m.CreateReview(ctx, entities.Review{
		TeamID: 1, ReviewerMemberID: 4, RevieweeMemberID: 3, ReviewerUserID: 9, RevieweeUserID: reviewee.ID, Rating: 5,
	})
	require.ErrorIs(t, err, entities.ErrReviewExists)

	exists, err := m.ReviewExists(ctx, 1, 9, reviewee.ID)
	require.NoError(t, err)
	require.True(t, exists)

	_, rating, err := m.CreateReview(ctx, entities.Review{
		TeamID: 2, ReviewerMemberID: 5, RevieweeMemberID: 6, ReviewerUserID: 9, RevieweeUserID: reviewee.ID, Rating: 3,
	})
	require.NoError(t, err)
	require.Equal(t, int64(2), rating.Count)
}

func TestMemory_ListReviewsKeyset(t *testing.T) {
	m := newStore(t)
	ctx := context.Background()
	reviewee, err := m.CreateUser(ctx, entities.User{Username: "reviewee"})
	require.NoError(t, err)

	add := func(reviewer int64) {
		_, _, err := m.CreateReview(ctx, entities.Review{
			ReviewerMemberID: reviewer, RevieweeMemberID: 1, ReviewerUserID: 100 + reviewer, RevieweeUserID: reviewee.ID, Rating: 5,
		})
		require.NoError(t, err)
	}
	for i := int64(1); i <= 5; i++ {
		add(i)
	}

	p1, err := m.ListReviews(ctx, reviewee.ID, entities.Page{Limit: 2})
	require.NoError(t, err)
	require.Len(t, p1.Reviews, 2)
	require.Equal(t, int64(5), p1.Reviews[0].ID)

	add(6)

	p2, err := m.ListReviews(ctx, reviewee.ID, entities.Page{Cursor: p1.NextCursor, Limit: 2})
	require.NoError(t, err)
	require.Equal(t, []int64{3, 2}, []int64{p2.Reviews[0].ID, p2.Reviews[1].ID})

	p3, err := m.ListReviews(ctx, reviewee.ID, entities.Page{Cursor: p2.NextCursor, Limit: 2})
	require.NoError(t, err)
	require.Len(t, p3.Reviews, 1)
	require.Zero(t, p3.NextCursor)
}

func TestMemory_FavoriteRevivesRow(t *testing.T) {
	m := newStore(t)
	ctx := context.Background()

	f, err := m.CreateFavorite(ctx, entities.Favorite{OwnerID: 1, Kind: entities.FavoriteTeam, TargetID: 7})
	require.NoError(t, err)

	_, err = m.SetFavoriteDeleted(ctx, f.ID, true)
	require.NoError(t, err)
	list, err := m.ListFavorites(ctx, 1, entities.FavoriteUnknown)
	require.NoError(t, err)
	require.Empty(t, list)

	again, err := m.CreateFavorite(ctx, entities.Favorite{OwnerID: 1, Kind: entities.FavoriteTeam, TargetID: 7})
	require.NoError(t, err)
	require.Equal(t, f.ID, again.ID)
	require.False(t, again.IsDeleted)

	list, err = m.ListFavorites(ctx, 1, entities.FavoriteUser)
	require.NoError(t, err)
	require.Empty(t, list)
	list, err = m.ListFavorites(ctx, 1, entities.FavoriteTeam)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestMemory_DisbandReleasesAndWithdraws(t *testing.T) {
	m := newStore(t)
	ctx := context.Background()
	team, _ := seedTeam(t, m, 2)
	user, err := m.CreateUser(ctx, entities.User{Username: "applicant"})
	require.NoError(t, err)
	offer, err := m.CreateOffer(ctx, entities.Offer{UserID: user.ID, TeamID: team.ID, Position: entities.PositionBackend, OfferedBy: entities.PartyUser})
	require.NoError(t, err)

	released, err := m.DisbandTeam(ctx, team.ID, time.Now())
	require.NoError(t, err)
	require.Equal(t, 1, released)

	o, err := m.GetOffer(ctx, offer.ID)
	require.NoError(t, err)
	require.False(t, o.Live())
	require.Equal(t, entities.OfferPending, o.Status)

	_, err = m.DisbandTeam(ctx, team.ID, time.Now())
	require.ErrorIs(t, err, entities.ErrTeamNotFound)
}
