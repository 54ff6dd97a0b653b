package handlers_fiber

import "github.com/gofiber/fiber/v2"

// RegisterHandlers mounts the API under /api. Every route except user registration runs behind auth.
func RegisterHandlers(router fiber.Router, h *Handler, auth fiber.Handler) {
	api := router.Group("/api")
	api.Post("/users", h.CreateUser)

	secured := api.Group("", auth)

	secured.Put("/users/me/profile", h.UpdateProfile)
	secured.Delete("/users/me", h.DeleteUser)
	secured.Get("/users/me/offers", h.ListMyOffers)
	secured.Get("/users/me/favorites", h.ListFavorites)
	secured.Get("/users/:id", h.GetUser)
	secured.Get("/users/:id/reviews", h.ListReviews)
	secured.Get("/users/:id/reviews/summary", h.ReviewSummary)

	secured.Post("/teams", h.CreateTeam)
	secured.Get("/teams/:id", h.GetTeam)
	secured.Get("/teams/:id/offers", h.ListTeamOffers)
	secured.Post("/teams/:id/leave", h.LeaveTeam)
	secured.Post("/teams/:id/complete", h.CompleteTeam)
	secured.Delete("/teams/:id", h.DisbandTeam)

	secured.Post("/offers", h.CreateOffer)
	secured.Post("/offers/:id/accept", h.AcceptOffer)
	secured.Post("/offers/:id/decline", h.DeclineOffer)
	secured.Delete("/offers/:id", h.WithdrawOffer)

	secured.Post("/reviews", h.CreateReview)

	secured.Put("/favorites/users/:id", h.SetUserFavorite)
	secured.Put("/favorites/teams/:id", h.SetTeamFavorite)
}
