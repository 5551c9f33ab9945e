package handler

import (
	"net/http"

	"squadup/backend/internal/auth"
	"squadup/backend/internal/catalog"
	"squadup/backend/internal/lobby"
	apperr "squadup/backend/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Handler serves the HTTP API on top of the lobby service and the account store.
type Handler struct {
	lobbies  *lobby.Service
	accounts *auth.Accounts
	catalog  *catalog.Catalog
	log      zerolog.Logger
}

func New(lobbies *lobby.Service, accounts *auth.Accounts, cat *catalog.Catalog, log zerolog.Logger) *Handler {
	return &Handler{
		lobbies:  lobbies,
		accounts: accounts,
		catalog:  cat,
		log:      log.With().Str("component", "http").Logger(),
	}
}

// ErrorResponse represents a generic error response.
type ErrorResponse struct {
	Error string      `json:"error" example:"lobby is full"`
	Code  apperr.Code `json:"code" example:"LOBBY_FULL"`
}

// statusFor maps an error code to its HTTP status.
func statusFor(code apperr.Code) int {
	switch code {
	case apperr.CodeInvalidArgument:
		return http.StatusBadRequest
	case apperr.CodeUnauthenticated:
		return http.StatusUnauthorized
	case apperr.CodePermissionDenied:
		return http.StatusForbidden
	case apperr.CodeNotFound:
		return http.StatusNotFound
	case apperr.CodeAlreadyExists, apperr.CodeAlreadyMember, apperr.CodeLobbyFull:
		return http.StatusConflict
	case apperr.CodeDeadlineExceeded:
		return http.StatusServiceUnavailable
	case apperr.CodeCanceled:
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) respondError(c *gin.Context, err error) {
	code := apperr.CodeOf(err)
	status := statusFor(code)

	msg := err.Error()
	if status == http.StatusInternalServerError {
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		msg = "internal server error"
		code = apperr.CodeInternal
	}
	if status == http.StatusServiceUnavailable {
		c.Header("Retry-After", "1")
	}
	c.AbortWithStatusJSON(status, ErrorResponse{Error: msg, Code: code})
}

func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: apperr.CodeInvalidArgument})
}
