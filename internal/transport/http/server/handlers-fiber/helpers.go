package handlers_fiber

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gabojait/gabojait-spring-sub005/internal/entities"
	"github.com/gabojait/gabojait-spring-sub005/internal/transport/http/dto"
	"github.com/gabojait/gabojait-spring-sub005/internal/transport/http/middleware"

	"github.com/gofiber/fiber/v2"
)

func writeError(c *fiber.Ctx, err error) error {
	status := http.StatusInternalServerError
	code := dto.Internal
	msg := "internal error"

	switch {
	case errors.Is(err, entities.ErrInternal):
	case errors.Is(err, entities.ErrValidation):
		status, code, msg = http.StatusBadRequest, dto.InvalidArgument, err.Error()
	case errors.Is(err, entities.ErrAuthorization):
		status, code, msg = http.StatusForbidden, dto.Forbidden, err.Error()
	case errors.Is(err, entities.ErrNotFound):
		status, code, msg = http.StatusNotFound, dto.NotFound, err.Error()
	case errors.Is(err, entities.ErrCapacity):
		status, code, msg = http.StatusConflict, dto.CapacityFull, err.Error()
	case errors.Is(err, entities.ErrConflict):
		status, code, msg = http.StatusConflict, dto.Conflict, err.Error()
	}

	return c.Status(status).JSON(errorResponse(code, msg))
}

func errorResponse(code dto.ErrorCode, msg string) dto.ErrorResponse {
	return dto.ErrorResponse{Error: dto.ErrorBody{Code: code, Message: msg}}
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(http.StatusBadRequest).JSON(errorResponse(dto.InvalidArgument, msg))
}

// actor returns the authenticated user. Routes without auth never call it.
func actor(c *fiber.Ctx) int64 {
	uid, _ := middleware.UserID(c)
	return uid
}

func pathID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", entities.ErrValidation, name)
	}
	return id, nil
}

func queryPage(c *fiber.Ctx) (entities.Page, error) {
	var (
		page entities.Page
		err  error
	)
	if v := c.Query("cursor"); v != "" {
		if page.Cursor, err = strconv.ParseInt(v, 10, 64); err != nil || page.Cursor < 0 {
			return page, fmt.Errorf("%w: cursor must be a non-negative integer", entities.ErrValidation)
		}
	}
	if v := c.Query("limit"); v != "" {
		if page.Limit, err = strconv.Atoi(v); err != nil || page.Limit < 0 {
			return page, fmt.Errorf("%w: limit must be a non-negative integer", entities.ErrValidation)
		}
	}
	return page.Normalize(), nil
}
