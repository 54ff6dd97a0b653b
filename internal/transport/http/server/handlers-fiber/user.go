package handlers_fiber

import (
	"net/http"

	"github.com/gabojait/gabojait-spring-sub005/internal/mapper"
	"github.com/gabojait/gabojait-spring-sub005/internal/transport/http/dto"

	"github.com/gofiber/fiber/v2"
)

// CreateUser registers a user and returns a bearer token for it.
func (h *Handler) CreateUser(c *fiber.Ctx) error {
	var body dto.CreateUserRequest
	if err := c.BodyParser(&body); err != nil {
		h.log.Errorw("failed to parse body", "error", err.Error())
		return badRequest(c, "invalid body")
	}

	user, err := mapper.FromProfile(body.Profile)
	if err != nil {
		return writeError(c, err)
	}
	user.Username = body.Username

	created, err := h.uc.CreateUser(c.Context(), user)
	if err != nil {
		return writeError(c, err)
	}
	token, err := h.tokens.Issue(created.ID)
	if err != nil {
		h.log.Errorw("failed to issue token", "error", err.Error(), "user_id", created.ID)
		return writeError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(dto.CreateUserResponse{User: mapper.ToUser(*created), Token: token})
}

// GetUser returns a user profile.
func (h *Handler) GetUser(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	user, err := h.uc.GetUser(c.Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToUser(*user))
}

// UpdateProfile replaces the caller's profile.
func (h *Handler) UpdateProfile(c *fiber.Ctx) error {
	var body dto.Profile
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "invalid body")
	}
	user, err := mapper.FromProfile(body)
	if err != nil {
		return writeError(c, err)
	}

	updated, err := h.uc.UpdateProfile(c.Context(), actor(c), user)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToUser(*updated))
}

// DeleteUser soft-deletes the caller.
func (h *Handler) DeleteUser(c *fiber.Ctx) error {
	if err := h.uc.DeleteUser(c.Context(), actor(c)); err != nil {
		h.log.Errorw("failed to delete user", "error", err.Error())
		return writeError(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}
