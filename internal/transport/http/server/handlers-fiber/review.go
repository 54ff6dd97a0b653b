package handlers_fiber

import (
	"net/http"

	"github.com/gabojait/gabojait-spring-sub005/internal/mapper"
	"github.com/gabojait/gabojait-spring-sub005/internal/transport/http/dto"

	"github.com/gofiber/fiber/v2"
)

// CreateReview reviews a teammate of a completed team.
func (h *Handler) CreateReview(c *fiber.Ctx) error {
	var body dto.CreateReviewRequest
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "invalid body")
	}

	review, rating, err := h.uc.CreateReview(c.Context(), actor(c), mapper.FromCreateReview(body))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(dto.CreateReviewResponse{
		Review: mapper.ToReview(*review),
		Rating: mapper.ToRating(rating),
	})
}

// ListReviews returns reviews received by a user, newest first.
func (h *Handler) ListReviews(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	page, err := queryPage(c)
	if err != nil {
		return writeError(c, err)
	}

	res, err := h.uc.ListReviews(c.Context(), id, page)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToReviewPage(res))
}
