package handlers_fiber

import (
	"net/http"

	"github.com/gabojait/gabojait-spring-sub005/internal/entities"
	"github.com/gabojait/gabojait-spring-sub005/internal/mapper"
	"github.com/gabojait/gabojait-spring-sub005/internal/transport/http/dto"

	"github.com/gofiber/fiber/v2"
)

// SetUserFavorite adds or removes a user bookmark.
func (h *Handler) SetUserFavorite(c *fiber.Ctx) error {
	return h.setFavorite(c, entities.FavoriteUser)
}

// SetTeamFavorite adds or removes a team bookmark.
func (h *Handler) SetTeamFavorite(c *fiber.Ctx) error {
	return h.setFavorite(c, entities.FavoriteTeam)
}

func (h *Handler) setFavorite(c *fiber.Ctx, kind entities.FavoriteKind) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var body dto.SetFavoriteRequest
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "invalid body")
	}

	fav, err := h.uc.SetFavorite(c.Context(), actor(c), kind, id, body.Add)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToFavorite(fav))
}

// ListFavorites returns the caller's active bookmarks.
func (h *Handler) ListFavorites(c *fiber.Ctx) error {
	kind := entities.FavoriteUnknown
	if v := c.Query("kind"); v != "" {
		k, err := entities.ParseFavoriteKind(v)
		if err != nil {
			return writeError(c, err)
		}
		kind = k
	}

	favs, err := h.uc.ListFavorites(c.Context(), actor(c), kind)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToFavorites(favs))
}
