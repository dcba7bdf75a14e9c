package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/prospira/edi-portal/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// userMessenger is implemented by errors whose text is meant for the user.
type userMessenger interface {
	UserMessage() string
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
//
// Page requests that hit no route get the HTML not-found page instead.
func NewHTTPErrorHandler(log zerolog.Logger, notFoundPage echo.HandlerFunc) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if code == http.StatusNotFound && notFoundPage != nil && !isAPIPath(c.Request().URL.Path) {
			if rerr := notFoundPage(c); rerr != nil {
				log.Error().Err(rerr).Msg("render not found page")
			}
			return
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func isAPIPath(p string) bool {
	return p == "/api" || strings.HasPrefix(p, "/api/")
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	msg := func(def string) string {
		var um userMessenger
		if errors.As(err, &um) && um.UserMessage() != "" {
			return um.UserMessage()
		}
		return def
	}

	// Known domain errors → deterministic HTTP codes. Login errors wrap the
	// upstream cause, so they are matched first.
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, msg("invalid input")
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, msg("invalid credentials")
	case errors.Is(err, domain.ErrCodeRejected):
		return http.StatusUnauthorized, msg("code rejected")
	case errors.Is(err, domain.ErrResendThrottled):
		return http.StatusTooManyRequests, msg("resend throttled")
	case errors.Is(err, domain.ErrChallengeNotFound):
		return http.StatusNotFound, msg("login challenge not found")
	case errors.Is(err, domain.ErrWrongStep), errors.Is(err, domain.ErrBusy):
		return http.StatusConflict, msg("login is in another state")
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, msg("not authenticated")
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, msg("access forbidden")
	case errors.Is(err, domain.ErrUpstream):
		log.Warn().Err(err).Str("path", c.Path()).Msg("upstream failure")
		return http.StatusBadGateway, msg("EDI API unavailable")
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
