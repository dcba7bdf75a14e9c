package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/prospira/edi-portal/internal/api/cookies"
	"github.com/prospira/edi-portal/internal/api/middleware"
	"github.com/prospira/edi-portal/internal/core/domain"
	"github.com/prospira/edi-portal/internal/core/session"
)

type stubProfiles struct {
	fetchFn func(ctx context.Context, token string) (*domain.User, error)
}

func (s *stubProfiles) FetchProfile(ctx context.Context, token string) (*domain.User, error) {
	return s.fetchFn(ctx, token)
}

type stubGateway struct {
	startFn  func(ctx context.Context, category domain.LoginCategory, identifier, secret string) (*domain.LoginResult, error)
	verifyFn func(ctx context.Context, category domain.LoginCategory, identifier, code string) (*domain.LoginResult, error)
}

func (s *stubGateway) StartLogin(ctx context.Context, category domain.LoginCategory, identifier, secret string) (*domain.LoginResult, error) {
	return s.startFn(ctx, category, identifier, secret)
}

func (s *stubGateway) VerifyLogin(ctx context.Context, category domain.LoginCategory, identifier, code string) (*domain.LoginResult, error) {
	return s.verifyFn(ctx, category, identifier, code)
}

// remoteErr mimics an EDI API error body.
type remoteErr struct {
	status  int
	errMsg  string
	message string
}

func (e *remoteErr) Error() string         { return "remote: " + e.errMsg + e.message }
func (e *remoteErr) Unwrap() error         { return domain.ErrUpstream }
func (e *remoteErr) StatusCode() int       { return e.status }
func (e *remoteErr) RemoteError() string   { return e.errMsg }
func (e *remoteErr) RemoteMessage() string { return e.message }

func vendorUser() *domain.User {
	return &domain.User{
		Username:     "acme",
		DisplayName:  "Acme Supply",
		RoleName:     domain.RoleVendor,
		Group:        "V1001",
		SourceSystem: domain.SourceVendor,
	}
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func newRequest(method, target, body string, cks ...*http.Cookie) *http.Request {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for _, ck := range cks {
		req.AddCookie(ck)
	}
	return req
}

// withSession runs h behind the session middleware.
func withSession(profiles *stubProfiles, ck *cookies.Manager, h echo.HandlerFunc) echo.HandlerFunc {
	return middleware.Session(session.NewProvider(profiles, zerolog.Nop()), ck)(h)
}

func testCookies() *cookies.Manager {
	return cookies.NewManager(false, time.Hour)
}

func tokenCookie(v string) *http.Cookie {
	return &http.Cookie{Name: cookies.TokenCookie, Value: v}
}

func browserCookie(v string) *http.Cookie {
	return &http.Cookie{Name: cookies.BrowserCookie, Value: v}
}

// responseCookie returns the Set-Cookie named name, or nil.
func responseCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	return nil
}

func mustStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}
