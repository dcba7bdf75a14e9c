package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/prospira/edi-portal/internal/core/domain"
)

type shownError struct {
	msg string
	err error
}

func (e *shownError) Error() string       { return e.msg + ": " + e.err.Error() }
func (e *shownError) Unwrap() error       { return e.err }
func (e *shownError) UserMessage() string { return e.msg }

func TestHTTPErrorHandler_StatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"invalid input", fmt.Errorf("bind: %w", domain.ErrInvalidInput), http.StatusBadRequest, "invalid input"},
		{"bad credentials with message", &shownError{msg: "Invalid email or password", err: domain.ErrInvalidCredentials}, http.StatusUnauthorized, "Invalid email or password"},
		{"code rejected", domain.ErrCodeRejected, http.StatusUnauthorized, "code rejected"},
		{"throttled", &shownError{msg: "Please wait 42s", err: domain.ErrResendThrottled}, http.StatusTooManyRequests, "Please wait 42s"},
		{"challenge missing", domain.ErrChallengeNotFound, http.StatusNotFound, "login challenge not found"},
		{"busy", domain.ErrBusy, http.StatusConflict, "login is in another state"},
		{"wrong step", domain.ErrWrongStep, http.StatusConflict, "login is in another state"},
		{"unauthenticated", domain.ErrUnauthenticated, http.StatusUnauthorized, "not authenticated"},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden, "access forbidden"},
		{"upstream", fmt.Errorf("%w: timeout", domain.ErrUpstream), http.StatusBadGateway, "EDI API unavailable"},
		{"echo error", echo.NewHTTPError(http.StatusTooManyRequests, "too many requests"), http.StatusTooManyRequests, "too many requests"},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "internal server error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodPost, "/api/login/start", nil), rec)

			NewHTTPErrorHandler(zerolog.Nop(), nil)(tc.err, c)

			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, rec.Code)
			}
			var resp errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if resp.Error != tc.msg {
				t.Fatalf("expected %q, got %q", tc.msg, resp.Error)
			}
		})
	}
}

func TestHTTPErrorHandler_NotFoundPage(t *testing.T) {
	rendered := false
	page := func(c echo.Context) error {
		rendered = true
		return c.String(http.StatusNotFound, "page")
	}
	handler := NewHTTPErrorHandler(zerolog.Nop(), page)
	e := echo.New()

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/en/nowhere", nil), rec)
	handler(echo.ErrNotFound, c)
	if !rendered || rec.Body.String() != "page" {
		t.Fatalf("expected the not found page for a page path")
	}

	rendered = false
	rec = httptest.NewRecorder()
	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/api/nowhere", nil), rec)
	handler(echo.ErrNotFound, c)
	if rendered || rec.Code != http.StatusNotFound {
		t.Fatalf("expected a json 404 for an api path")
	}
}

func TestHTTPErrorHandler_CommittedResponse(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/session", nil), rec)
	_ = c.String(http.StatusOK, "done")

	NewHTTPErrorHandler(zerolog.Nop(), nil)(errors.New("late"), c)
	if rec.Body.String() != "done" {
		t.Fatalf("expected the committed response to be left alone, got %q", rec.Body.String())
	}
}
