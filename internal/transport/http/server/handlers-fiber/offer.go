package handlers_fiber

import (
	"net/http"

	"github.com/gabojait/gabojait-spring-sub005/internal/entities"
	"github.com/gabojait/gabojait-spring-sub005/internal/mapper"
	"github.com/gabojait/gabojait-spring-sub005/internal/transport/http/dto"

	"github.com/gofiber/fiber/v2"
)

// CreateOffer applies to a team or invites a user, depending on the caller.
func (h *Handler) CreateOffer(c *fiber.Ctx) error {
	var body dto.CreateOfferRequest
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "invalid body")
	}
	position, err := entities.ParsePosition(body.Position)
	if err != nil {
		return writeError(c, err)
	}

	offer, err := h.uc.CreateOffer(c.Context(), actor(c), body.UserID, body.TeamID, position)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(mapper.ToOffer(*offer))
}

// AcceptOffer accepts an offer addressed to the caller.
func (h *Handler) AcceptOffer(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	offer, member, err := h.uc.AcceptOffer(c.Context(), actor(c), id)
	if err != nil {
		h.log.Infow("offer not accepted", "offer_id", id, "error", err.Error())
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(dto.AcceptOfferResponse{
		Offer:  mapper.ToOffer(*offer),
		Member: mapper.ToMember(*member),
	})
}

// DeclineOffer declines an offer addressed to the caller.
func (h *Handler) DeclineOffer(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	offer, err := h.uc.DeclineOffer(c.Context(), actor(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToOffer(*offer))
}

// WithdrawOffer withdraws an offer the caller initiated.
func (h *Handler) WithdrawOffer(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	offer, err := h.uc.WithdrawOffer(c.Context(), actor(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToOffer(*offer))
}

// ListMyOffers lists live offers received or sent by the caller.
func (h *Handler) ListMyOffers(c *fiber.Ctx) error {
	return h.listOffers(c, 0)
}

// ListTeamOffers lists live offers of a team led by the caller.
func (h *Handler) ListTeamOffers(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	return h.listOffers(c, id)
}

func (h *Handler) listOffers(c *fiber.Ctx, teamID int64) error {
	direction, err := mapper.ParseDirection(c.Query("direction"))
	if err != nil {
		return writeError(c, err)
	}
	page, err := queryPage(c)
	if err != nil {
		return writeError(c, err)
	}

	res, err := h.uc.ListOffers(c.Context(), actor(c), entities.OfferFilter{
		TeamID:    teamID,
		Direction: direction,
		Page:      page,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToOfferPage(res))
}
