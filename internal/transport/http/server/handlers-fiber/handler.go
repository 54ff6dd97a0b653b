// Package handlers_fiber wires HTTP delivery components.
package handlers_fiber

import (
	"github.com/gabojait/gabojait-spring-sub005/internal/usecase"

	"go.uber.org/zap"
)

// TokenIssuer mints bearer tokens for new users.
type TokenIssuer interface {
	Issue(userID int64) (string, error)
}

// Handler serves the HTTP API using service layer interfaces.
type Handler struct {
	log    *zap.SugaredLogger
	uc     usecase.InterfaceUsecase
	tokens TokenIssuer
}

// NewHandler constructs an HTTP server with service dependencies.
func NewHandler(log *zap.SugaredLogger, usecase usecase.InterfaceUsecase, tokens TokenIssuer) *Handler {
	return &Handler{
		log:    log,
		uc:     usecase,
		tokens: tokens,
	}
}
