package handlers_fiber

import (
	"net/http"

	"github.com/gabojait/gabojait-spring-sub005/internal/mapper"

	"github.com/gofiber/fiber/v2"
)

// ReviewSummary returns the rating and score distribution of a user.
func (h *Handler) ReviewSummary(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	res, err := h.uc.ReviewSummary(c.Context(), id)
	if err != nil {
		h.log.Errorw("failed to get review summary", "error", err.Error(), "user_id", id)
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToReviewSummary(res))
}
