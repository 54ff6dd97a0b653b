package domain

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gabojait/gabojait-spring-sub005/internal/entities"
	"github.com/gabojait/gabojait-spring-sub005/internal/repository"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type repoMock struct{ mock.Mock }

var _ repository.Repository = (*repoMock)(nil)

func (m *repoMock) OnStart(_ context.Context) error { return nil }
func (m *repoMock) OnStop(_ context.Context) error  { return nil }

func (m *repoMock) CreateUser(ctx context.Context, user entities.User) (*entities.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *repoMock) GetUser(ctx context.Context, userID int64) (*entities.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *repoMock) UpdateProfile(ctx context.Context, user entities.User) (*entities.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *repoMock) DeleteUser(ctx context.Context, userID int64) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *repoMock) CreateTeam(ctx context.Context, team entities.Team, leader entities.TeamMember) (*entities.Team, error) {
	args := m.Called(ctx, team, leader)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Team), args.Error(1)
}

func (m *repoMock) GetTeam(ctx context.Context, teamID int64) (*entities.Team, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Team), args.Error(1)
}

func (m *repoMock) ListMembers(ctx context.Context, teamID int64) ([]entities.TeamMember, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.TeamMember), args.Error(1)
}

func (m *repoMock) GetMember(ctx context.Context, memberID int64) (*entities.TeamMember, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.TeamMember), args.Error(1)
}

func (m *repoMock) ActiveMember(ctx context.Context, teamID, userID int64) (*entities.TeamMember, error) {
	args := m.Called(ctx, teamID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.TeamMember), args.Error(1)
}

func (m *repoMock) LeaveTeam(ctx context.Context, memberID int64, at time.Time) error {
	return m.Called(ctx, memberID, at).Error(0)
}

func (m *repoMock) CompleteTeam(ctx context.Context, teamID int64, at time.Time) (*entities.Team, error) {
	args := m.Called(ctx, teamID, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Team), args.Error(1)
}

func (m *repoMock) DisbandTeam(ctx context.Context, teamID int64, at time.Time) (int, error) {
	args := m.Called(ctx, teamID, at)
	return args.Int(0), args.Error(1)
}

func (m *repoMock) CreateOffer(ctx context.Context, offer entities.Offer) (*entities.Offer, error) {
	args := m.Called(ctx, offer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Offer), args.Error(1)
}

func (m *repoMock) GetOffer(ctx context.Context, offerID int64) (*entities.Offer, error) {
	args := m.Called(ctx, offerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Offer), args.Error(1)
}

func (m *repoMock) LivePendingOffer(ctx context.Context, userID, teamID int64, position entities.Position) (*entities.Offer, error) {
	args := m.Called(ctx, userID, teamID, position)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Offer), args.Error(1)
}

func (m *repoMock) AcceptOffer(ctx context.Context, cmd entities.AcceptOffer) (*entities.Offer, *entities.TeamMember, error) {
	args := m.Called(ctx, cmd)
	var (
		o   *entities.Offer
		mem *entities.TeamMember
	)
	if args.Get(0) != nil {
		o = args.Get(0).(*entities.Offer)
	}
	if args.Get(1) != nil {
		mem = args.Get(1).(*entities.TeamMember)
	}
	return o, mem, args.Error(2)
}

func (m *repoMock) DeclineOffer(ctx context.Context, offerID int64, at time.Time) (*entities.Offer, error) {
	args := m.Called(ctx, offerID, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Offer), args.Error(1)
}

func (m *repoMock) WithdrawOffer(ctx context.Context, offerID int64) (*entities.Offer, error) {
	args := m.Called(ctx, offerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Offer), args.Error(1)
}

func (m *repoMock) ListOffers(ctx context.Context, filter entities.OfferFilter) (entities.OfferPage, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(entities.OfferPage), args.Error(1)
}

func (m *repoMock) CreateReview(ctx context.Context, review entities.Review) (*entities.Review, entities.Rating, error) {
	args := m.Called(ctx, review)
	var r *entities.Review
	if args.Get(0) != nil {
		r = args.Get(0).(*entities.Review)
	}
	return r, args.Get(1).(entities.Rating), args.Error(2)
}

func (m *repoMock) ReviewExists(ctx context.Context, teamID, reviewerUserID, revieweeUserID int64) (bool, error) {
	args := m.Called(ctx, teamID, reviewerUserID, revieweeUserID)
	return args.Bool(0), args.Error(1)
}

func (m *repoMock) ListReviews(ctx context.Context, revieweeUserID int64, page entities.Page) (entities.ReviewPage, error) {
	args := m.Called(ctx, revieweeUserID, page)
	return args.Get(0).(entities.ReviewPage), args.Error(1)
}

func (m *repoMock) GetFavorite(ctx context.Context, ownerID int64, kind entities.FavoriteKind, targetID int64) (*entities.Favorite, error) {
	args := m.Called(ctx, ownerID, kind, targetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Favorite), args.Error(1)
}

func (m *repoMock) CreateFavorite(ctx context.Context, fav entities.Favorite) (*entities.Favorite, error) {
	args := m.Called(ctx, fav)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Favorite), args.Error(1)
}

func (m *repoMock) SetFavoriteDeleted(ctx context.Context, favoriteID int64, deleted bool) (*entities.Favorite, error) {
	args := m.Called(ctx, favoriteID, deleted)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Favorite), args.Error(1)
}

func (m *repoMock) ListFavorites(ctx context.Context, ownerID int64, kind entities.FavoriteKind) ([]entities.Favorite, error) {
	args := m.Called(ctx, ownerID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Favorite), args.Error(1)
}

func (m *repoMock) ReviewSummary(ctx context.Context, userID int64) (entities.ReviewSummary, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(entities.ReviewSummary), args.Error(1)
}

func newMocked() (*Usecase, *repoMock) {
	repo := &repoMock{}
	return New(zap.NewNop().Sugar(), context.Background(), repo, nil, time.Second), repo
}

func TestUsecase_CreateUserValidation(t *testing.T) {
	uc, repo := newMocked()

	_, err := uc.CreateUser(context.Background(), entities.User{Nickname: "kim", Gender: entities.GenderNone})
	require.ErrorIs(t, err, entities.ErrValidation)

	_, err = uc.CreateUser(context.Background(), entities.User{Username: "kim", Gender: entities.GenderNone})
	require.ErrorIs(t, err, entities.ErrValidation)
	repo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
}

func TestUsecase_CreateUserDelegates(t *testing.T) {
	uc, repo := newMocked()

	expected := &entities.User{ID: 1, Username: "kim", Nickname: "k"}
	repo.On("CreateUser", mock.Anything, mock.MatchedBy(func(u entities.User) bool {
		return u.Username == "kim"
	})).Return(expected, nil)

	u, err := uc.CreateUser(context.Background(), entities.User{Username: " kim ", Nickname: "k", Gender: entities.GenderMale})
	require.NoError(t, err)
	require.Equal(t, expected, u)
	repo.AssertExpectations(t)
}

func TestUsecase_StorageErrorsBecomeInternal(t *testing.T) {
	uc, repo := newMocked()

	boom := errors.New("connection reset")
	repo.On("GetUser", mock.Anything, int64(1)).Return(nil, boom)

	_, err := uc.GetUser(context.Background(), 1)
	require.ErrorIs(t, err, entities.ErrInternal)
	require.ErrorIs(t, err, boom)
}

func TestUsecase_GetUserHidesDeleted(t *testing.T) {
	uc, repo := newMocked()
	repo.On("GetUser", mock.Anything, int64(1)).Return(&entities.User{ID: 1, IsDeleted: true}, nil)

	_, err := uc.GetUser(context.Background(), 1)
	require.ErrorIs(t, err, entities.ErrUserNotFound)
}

func TestUsecase_CreateOfferRejectsUnknownPosition(t *testing.T) {
	uc, repo := newMocked()

	_, err := uc.CreateOffer(context.Background(), 1, 1, 2, entities.PositionUnknown)
	require.ErrorIs(t, err, entities.ErrValidation)
	repo.AssertNotCalled(t, "CreateOffer", mock.Anything, mock.Anything)
}

func TestUsecase_CreateOfferRejectsThirdParty(t *testing.T) {
	uc, repo := newMocked()
	repo.On("GetUser", mock.Anything, int64(2)).Return(&entities.User{ID: 2}, nil)
	repo.On("GetTeam", mock.Anything, int64(7)).Return(&entities.Team{
		ID: 7, LeaderID: 1,
		Openings: []entities.Opening{{Position: entities.PositionBackend, Capacity: 2}},
	}, nil)

	_, err := uc.CreateOffer(context.Background(), 3, 2, 7, entities.PositionBackend)
	require.ErrorIs(t, err, entities.ErrAuthorization)
	repo.AssertNotCalled(t, "CreateOffer", mock.Anything, mock.Anything)
}

func TestUsecase_CreateOfferNeedsRemainingCapacity(t *testing.T) {
	uc, repo := newMocked()
	repo.On("GetUser", mock.Anything, int64(2)).Return(&entities.User{ID: 2}, nil)
	repo.On("GetTeam", mock.Anything, int64(7)).Return(&entities.Team{
		ID: 7, LeaderID: 1,
		Openings: []entities.Opening{{Position: entities.PositionBackend, Capacity: 1, Filled: 1}},
	}, nil)

	_, err := uc.CreateOffer(context.Background(), 2, 2, 7, entities.PositionBackend)
	require.ErrorIs(t, err, entities.ErrNotFound)

	_, err = uc.CreateOffer(context.Background(), 2, 2, 7, entities.PositionDesigner)
	require.ErrorIs(t, err, entities.ErrNoOpening)
}

func TestUsecase_AcceptOfferByInitiatorIsRejected(t *testing.T) {
	uc, repo := newMocked()
	repo.On("GetOffer", mock.Anything, int64(5)).Return(&entities.Offer{
		ID: 5, UserID: 2, TeamID: 7, Position: entities.PositionBackend,
		OfferedBy: entities.PartyUser, Status: entities.OfferPending,
	}, nil)
	repo.On("GetTeam", mock.Anything, int64(7)).Return(&entities.Team{ID: 7, LeaderID: 1}, nil)

	_, _, err := uc.AcceptOffer(context.Background(), 2, 5)
	require.ErrorIs(t, err, entities.ErrSelfResolve)
	require.ErrorIs(t, err, entities.ErrAuthorization)

	_, err = uc.DeclineOffer(context.Background(), 9, 5)
	require.ErrorIs(t, err, entities.ErrNotOfferParty)

	_, err = uc.WithdrawOffer(context.Background(), 1, 5)
	require.ErrorIs(t, err, entities.ErrNotInitiator)
	repo.AssertNotCalled(t, "AcceptOffer", mock.Anything, mock.Anything)
}

func TestUsecase_AcceptResolvedOfferIsNotFound(t *testing.T) {
	uc, repo := newMocked()
	repo.On("GetOffer", mock.Anything, int64(5)).Return(&entities.Offer{
		ID: 5, Status: entities.OfferDeclined, IsDeleted: true,
	}, nil)

	_, _, err := uc.AcceptOffer(context.Background(), 1, 5)
	require.ErrorIs(t, err, entities.ErrOfferNotFound)
}

func TestUsecase_AcceptPassesCapacityError(t *testing.T) {
	uc, repo := newMocked()
	repo.On("GetOffer", mock.Anything, int64(5)).Return(&entities.Offer{
		ID: 5, UserID: 2, TeamID: 7, Position: entities.PositionBackend,
		OfferedBy: entities.PartyLeader, Status: entities.OfferPending,
	}, nil)
	repo.On("GetTeam", mock.Anything, int64(7)).Return(&entities.Team{ID: 7, LeaderID: 1}, nil)
	repo.On("GetUser", mock.Anything, int64(2)).Return(&entities.User{ID: 2}, nil)
	repo.On("AcceptOffer", mock.Anything, mock.MatchedBy(func(cmd entities.AcceptOffer) bool {
		return cmd.OfferID == 5 && cmd.UserID == 2 && cmd.TeamID == 7
	})).Return(nil, nil, entities.ErrPositionFull)

	_, _, err := uc.AcceptOffer(context.Background(), 2, 5)
	require.ErrorIs(t, err, entities.ErrCapacity)
	repo.AssertExpectations(t)
}

func TestUsecase_AcceptOfferForDeletedUser(t *testing.T) {
	uc, repo := newMocked()
	repo.On("GetOffer", mock.Anything, int64(5)).Return(&entities.Offer{
		ID: 5, UserID: 2, TeamID: 7, Position: entities.PositionBackend,
		OfferedBy: entities.PartyUser, Status: entities.OfferPending,
	}, nil)
	repo.On("GetTeam", mock.Anything, int64(7)).Return(&entities.Team{ID: 7, LeaderID: 1}, nil)
	repo.On("GetUser", mock.Anything, int64(2)).Return(&entities.User{ID: 2, IsDeleted: true}, nil)

	_, _, err := uc.AcceptOffer(context.Background(), 1, 5)
	require.ErrorIs(t, err, entities.ErrUserNotFound)
	repo.AssertNotCalled(t, "AcceptOffer", mock.Anything, mock.Anything)
}

func TestUsecase_CreateReviewDuplicateAcrossMemberships(t *testing.T) {
	uc, repo := newMocked()
	repo.On("GetMember", mock.Anything, int64(3)).Return(&entities.TeamMember{ID: 3, TeamID: 7, UserID: 10}, nil)
	repo.On("GetMember", mock.Anything, int64(2)).Return(&entities.TeamMember{ID: 2, TeamID: 7, UserID: 11}, nil)
	completed := time.Now()
	repo.On("GetTeam", mock.Anything, int64(7)).Return(&entities.Team{ID: 7, LeaderID: 11, CompletedAt: &completed}, nil)
	repo.On("ReviewExists", mock.Anything, int64(7), int64(10), int64(11)).Return(true, nil)

	_, _, err := uc.CreateReview(context.Background(), 10, entities.Review{ReviewerMemberID: 3, RevieweeMemberID: 2, Rating: 5})
	require.ErrorIs(t, err, entities.ErrReviewExists)
	repo.AssertNotCalled(t, "CreateReview", mock.Anything, mock.Anything)
}

func TestUsecase_CreateReviewValidation(t *testing.T) {
	uc, repo := newMocked()

	_, _, err := uc.CreateReview(context.Background(), 1, entities.Review{ReviewerMemberID: 1, RevieweeMemberID: 2, Rating: 6})
	require.ErrorIs(t, err, entities.ErrValidation)

	long := make([]rune, entities.MaxCommentLength+1)
	for i := range long {
		long[i] = '가'
	}
	_, _, err = uc.CreateReview(context.Background(), 1, entities.Review{ReviewerMemberID: 1, RevieweeMemberID: 2, Rating: 3, Comment: string(long)})
	require.ErrorIs(t, err, entities.ErrValidation)
	repo.AssertNotCalled(t, "CreateReview", mock.Anything, mock.Anything)
}

func TestUsecase_CreateReviewRequiresSameTeam(t *testing.T) {
	uc, repo := newMocked()
	repo.On("GetMember", mock.Anything, int64(1)).Return(&entities.TeamMember{ID: 1, TeamID: 7, UserID: 10}, nil)
	repo.On("GetMember", mock.Anything, int64(2)).Return(&entities.TeamMember{ID: 2, TeamID: 8, UserID: 11}, nil)

	_, _, err := uc.CreateReview(context.Background(), 10, entities.Review{ReviewerMemberID: 1, RevieweeMemberID: 2, Rating: 4})
	require.ErrorIs(t, err, entities.ErrNotTeammates)

	_, _, err = uc.CreateReview(context.Background(), 11, entities.Review{ReviewerMemberID: 1, RevieweeMemberID: 2, Rating: 4})
	require.ErrorIs(t, err, entities.ErrAuthorization)
}

func TestUsecase_SetFavoriteSelf(t *testing.T) {
	uc, repo := newMocked()

	_, err := uc.SetFavorite(context.Background(), 1, entities.FavoriteUser, 1, true)
	require.ErrorIs(t, err, entities.ErrValidation)
	repo.AssertNotCalled(t, "GetFavorite", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUsecase_SetFavoriteRemoveMissingIsNoop(t *testing.T) {
	uc, repo := newMocked()
	repo.On("GetFavorite", mock.Anything, int64(1), entities.FavoriteTeam, int64(7)).Return(nil, nil)

	fav, err := uc.SetFavorite(context.Background(), 1, entities.FavoriteTeam, 7, false)
	require.NoError(t, err)
	require.True(t, fav.IsDeleted)
	repo.AssertNotCalled(t, "SetFavoriteDeleted", mock.Anything, mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "CreateFavorite", mock.Anything, mock.Anything)
}

func TestUsecase_CompleteTeamLeaderOnly(t *testing.T) {
	uc, repo := newMocked()
	repo.On("GetTeam", mock.Anything, int64(7)).Return(&entities.Team{ID: 7, LeaderID: 1}, nil)

	_, err := uc.CompleteTeam(context.Background(), 2, 7)
	require.ErrorIs(t, err, entities.ErrNotLeader)

	_, err = uc.DisbandTeam(context.Background(), 2, 7)
	require.ErrorIs(t, err, entities.ErrNotLeader)
	repo.AssertNotCalled(t, "CompleteTeam", mock.Anything, mock.Anything, mock.Anything)
}

func TestLeaderOpenings(t *testing.T) {
	res, err := leaderOpenings([]entities.Opening{{Position: entities.PositionBackend, Capacity: 2}}, entities.PositionBackend)
	require.NoError(t, err)
	require.Equal(t, []entities.Opening{{Position: entities.PositionBackend, Capacity: 2, Filled: 1}}, res)

	res, err = leaderOpenings([]entities.Opening{{Position: entities.PositionBackend, Capacity: 2}}, entities.PositionManager)
	require.NoError(t, err)
	require.Len(t, res, 2)
	require.Equal(t, entities.Opening{Position: entities.PositionManager, Capacity: 1, Filled: 1}, res[1])

	_, err = leaderOpenings([]entities.Opening{
		{Position: entities.PositionBackend, Capacity: 2},
		{Position: entities.PositionBackend, Capacity: 1},
	}, entities.PositionManager)
	require.ErrorIs(t, err, entities.ErrValidation)

	_, err = leaderOpenings([]entities.Opening{{Position: entities.PositionBackend}}, entities.PositionManager)
	require.ErrorIs(t, err, entities.ErrValidation)
}
