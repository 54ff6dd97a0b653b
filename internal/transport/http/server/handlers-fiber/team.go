package handlers_fiber

import (
	"net/http"

	"github.com/gabojait/gabojait-spring-sub005/internal/mapper"
	"github.com/gabojait/gabojait-spring-sub005/internal/transport/http/dto"

	"github.com/gofiber/fiber/v2"
)

// CreateTeam creates a team led by the caller.
func (h *Handler) CreateTeam(c *fiber.Ctx) error {
	var body dto.CreateTeamRequest
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "invalid body")
	}
	team, leaderPosition, err := mapper.FromCreateTeam(body)
	if err != nil {
		return writeError(c, err)
	}

	created, err := h.uc.CreateTeam(c.Context(), actor(c), team, leaderPosition)
	if err != nil {
		h.log.Infow(err.Error())
		return writeError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(mapper.ToTeam(*created))
}

// GetTeam returns a team with its openings and active members.
func (h *Handler) GetTeam(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	team, err := h.uc.GetTeam(c.Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToTeam(*team))
}

// LeaveTeam ends the caller's membership.
func (h *Handler) LeaveTeam(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	if err := h.uc.LeaveTeam(c.Context(), actor(c), id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// CompleteTeam ends the project of a team led by the caller.
func (h *Handler) CompleteTeam(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	team, err := h.uc.CompleteTeam(c.Context(), actor(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToTeam(*team))
}

// DisbandTeam soft-deletes a team led by the caller.
func (h *Handler) DisbandTeam(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	released, err := h.uc.DisbandTeam(c.Context(), actor(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(dto.DisbandTeamResponse{TeamID: id, ReleasedMembers: released})
}
