package handlers_fiber

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gabojait/gabojait-spring-sub005/internal/auth"
	"github.com/gabojait/gabojait-spring-sub005/internal/repository/memory"
	"github.com/gabojait/gabojait-spring-sub005/internal/transport/http/dto"
	"github.com/gabojait/gabojait-spring-sub005/internal/transport/http/middleware"
	"github.com/gabojait/gabojait-spring-sub005/internal/usecase"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type apiClient struct {
	t   *testing.T
	app *fiber.App
}

func newAPI(t *testing.T) *apiClient {
	t.Helper()
	log := zap.NewNop().Sugar()
	tokens := auth.NewIssuer("test-secret-0123456789", time.Hour)
	uc := usecase.New(log, context.Background(), memory.New(log), nil, time.Second)

	app := fiber.New()
	RegisterHandlers(app, NewHandler(log, uc, tokens), middleware.Auth(tokens))
	return &apiClient{t: t, app: app}
}

func (a *apiClient) do(method, path, token string, body any, out any) int {
	a.t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := a.app.Test(req, -1)
	require.NoError(a.t, err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode < http.StatusMultipleChoices {
		require.NoError(a.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (a *apiClient) signup(name string) dto.CreateUserResponse {
	a.t.Helper()
	var res dto.CreateUserResponse
	status := a.do(http.MethodPost, "/api/users", "", dto.CreateUserRequest{
		Username: name,
		Profile:  dto.Profile{Nickname: name, Gender: "N", Position: "BACKEND"},
	}, &res)
	require.Equal(a.t, http.StatusCreated, status)
	require.NotEmpty(a.t, res.Token)
	return res
}

func TestAPI_RequiresToken(t *testing.T) {
	api := newAPI(t)
	require.Equal(t, http.StatusUnauthorized, api.do(http.MethodGet, "/api/users/1", "", nil, nil))
	require.Equal(t, http.StatusUnauthorized, api.do(http.MethodGet, "/api/users/1", "garbage", nil, nil))
}

func TestAPI_OfferReviewFavoriteFlow(t *testing.T) {
	api := newAPI(t)
	leader := api.signup("leader")
	member := api.signup("member")

	var team dto.Team
	status := api.do(http.MethodPost, "/api/teams", leader.Token, dto.CreateTeamRequest{
		Name:           "gabojait",
		LeaderPosition: "MANAGER",
		Openings:       []dto.Opening{{Position: "BACKEND", Capacity: 1}},
	}, &team)
	require.Equal(t, http.StatusCreated, status)
	require.Len(t, team.Members, 1)

	var offer dto.Offer
	status = api.do(http.MethodPost, "/api/offers", member.Token, dto.CreateOfferRequest{
		UserID: member.User.ID, TeamID: team.ID, Position: "B",
	}, &offer)
	require.Equal(t, http.StatusCreated, status)
	require.Equal(t, "USER", offer.OfferedBy)
	require.Equal(t, "PENDING", offer.Status)

	require.Equal(t, http.StatusConflict, api.do(http.MethodPost, "/api/offers", member.Token, dto.CreateOfferRequest{
		UserID: member.User.ID, TeamID: team.ID, Position: "B",
	}, nil))

	var received dto.OfferPage
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, fmt.Sprintf("/api/teams/%d/offers", team.ID), leader.Token, nil, &received))
	require.Len(t, received.Offers, 1)
	require.Equal(t, http.StatusForbidden, api.do(http.MethodGet, fmt.Sprintf("/api/teams/%d/offers", team.ID), member.Token, nil, nil))

	acceptPath := fmt.Sprintf("/api/offers/%d/accept", offer.ID)
	require.Equal(t, http.StatusForbidden, api.do(http.MethodPost, acceptPath, member.Token, nil, nil))

	var accepted dto.AcceptOfferResponse
	require.Equal(t, http.StatusOK, api.do(http.MethodPost, acceptPath, leader.Token, nil, &accepted))
	require.Equal(t, "ACCEPTED", accepted.Offer.Status)
	require.Equal(t, member.User.ID, accepted.Member.UserID)
	require.Equal(t, http.StatusNotFound, api.do(http.MethodPost, acceptPath, leader.Token, nil, nil))

	var completed dto.Team
	require.Equal(t, http.StatusOK, api.do(http.MethodPost, fmt.Sprintf("/api/teams/%d/complete", team.ID), leader.Token, nil, &completed))
	require.NotNil(t, completed.CompletedAt)

	var review dto.CreateReviewResponse
	status = api.do(http.MethodPost, "/api/reviews", member.Token, dto.CreateReviewRequest{
		ReviewerMemberID: accepted.Member.ID,
		RevieweeMemberID: team.Members[0].ID,
		Rating:           5,
		Comment:          "great leader",
	}, &review)
	require.Equal(t, http.StatusCreated, status)
	require.Equal(t, dto.Rating{Average: 5, Count: 1}, review.Rating)

	require.Equal(t, http.StatusConflict, api.do(http.MethodPost, "/api/reviews", member.Token, dto.CreateReviewRequest{
		ReviewerMemberID: accepted.Member.ID, RevieweeMemberID: team.Members[0].ID, Rating: 1,
	}, nil))

	var reviews dto.ReviewPage
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, fmt.Sprintf("/api/users/%d/reviews?limit=10", leader.User.ID), member.Token, nil, &reviews))
	require.Len(t, reviews.Reviews, 1)
	require.Zero(t, reviews.NextCursor)

	var summary dto.ReviewSummary
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, fmt.Sprintf("/api/users/%d/reviews/summary", leader.User.ID), member.Token, nil, &summary))
	require.Equal(t, int64(1), summary.Distribution["5"])

	var fav dto.Favorite
	favPath := fmt.Sprintf("/api/favorites/teams/%d", team.ID)
	require.Equal(t, http.StatusOK, api.do(http.MethodPut, favPath, member.Token, dto.SetFavoriteRequest{Add: true}, &fav))
	require.True(t, fav.Active)
	require.Equal(t, http.StatusOK, api.do(http.MethodPut, favPath, member.Token, dto.SetFavoriteRequest{Add: true}, &fav))

	var favs []dto.Favorite
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/users/me/favorites?kind=team", member.Token, nil, &favs))
	require.Len(t, favs, 1)

	require.Equal(t, http.StatusBadRequest, api.do(http.MethodPut,
		fmt.Sprintf("/api/favorites/users/%d", member.User.ID), member.Token, dto.SetFavoriteRequest{Add: true}, nil))
}

func TestAPI_ProfileAndDelete(t *testing.T) {
	api := newAPI(t)
	u := api.signup("kim")

	var updated dto.User
	status := api.do(http.MethodPut, "/api/users/me/profile", u.Token, dto.Profile{
		Nickname: "kimmy", Gender: "F", Bio: "hello",
		Portfolios: []dto.Portfolio{{Name: "blog", URL: "https://example.com"}},
	}, &updated)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "kimmy", updated.Nickname)
	require.Equal(t, "FEMALE", updated.Gender)
	require.Len(t, updated.Portfolios, 1)

	require.Equal(t, http.StatusBadRequest, api.do(http.MethodPut, "/api/users/me/profile", u.Token, dto.Profile{Nickname: "x", Gender: "Q"}, nil))

	require.Equal(t, http.StatusNoContent, api.do(http.MethodDelete, "/api/users/me", u.Token, nil, nil))
	require.Equal(t, http.StatusNotFound, api.do(http.MethodGet, fmt.Sprintf("/api/users/%d", u.User.ID), u.Token, nil, nil))
}
