// Package cookies owns the cookies the portal sets on the browser.
package cookies

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/prospira/edi-portal/internal/core/ports"
)

const (
	// TokenCookie holds the EDI API bearer token.
	TokenCookie = "auth_token"
	// BrowserCookie identifies the browser for one-time notices.
	BrowserCookie = "edi_bid"
	// ChallengeCookie points at the login challenge in progress.
	ChallengeCookie = "edi_login"
)

const browserTTL = 365 * 24 * time.Hour

// Manager reads and writes the portal cookies.
type Manager struct {
	secure   bool
	tokenTTL time.Duration
}

// NewManager returns a Manager. tokenTTL is the lifetime of the session cookie.
func NewManager(secure bool, tokenTTL time.Duration) *Manager {
	return &Manager{secure: secure, tokenTTL: tokenTTL}
}

func (m *Manager) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		Secure:   m.secure,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	}
}

func read(c echo.Context, name string) (string, bool) {
	ck, err := c.Cookie(name)
	if err != nil {
		return "", false
	}
	v := strings.TrimSpace(ck.Value)
	return v, v != ""
}

// ReadToken returns the session token of the request.
func (m *Manager) ReadToken(c echo.Context) (string, bool) {
	return read(c, TokenCookie)
}

// SetToken stores the session token for tokenTTL.
func (m *Manager) SetToken(c echo.Context, token string) {
	c.SetCookie(m.cookie(TokenCookie, token, int(m.tokenTTL.Seconds())))
}

// ClearToken deletes the session cookie.
func (m *Manager) ClearToken(c echo.Context) {
	c.SetCookie(m.cookie(TokenCookie, "", -1))
}

// ClearTokenHeader adds the deletion of the session cookie to h.
func (m *Manager) ClearTokenHeader(h http.Header) {
	h.Add(echo.HeaderSetCookie, m.cookie(TokenCookie, "", -1).String())
}

// BrowserID returns the browser id of the request, issuing one when missing.
func (m *Manager) BrowserID(c echo.Context) string {
	if id, ok := read(c, BrowserCookie); ok {
		return id
	}
	if id, ok := c.Get(BrowserCookie).(string); ok {
		return id
	}
	id := uuid.NewString()
	c.Set(BrowserCookie, id)
	c.SetCookie(m.cookie(BrowserCookie, id, int(browserTTL.Seconds())))
	return id
}

// ChallengeID returns the login challenge id of the request.
func (m *Manager) ChallengeID(c echo.Context) (string, bool) {
	return read(c, ChallengeCookie)
}

// SetChallengeID points the browser at a login challenge. The cookie lives
// for the browser session only.
func (m *Manager) SetChallengeID(c echo.Context, id string) {
	c.SetCookie(m.cookie(ChallengeCookie, id, 0))
}

// ClearChallengeID forgets the login challenge.
func (m *Manager) ClearChallengeID(c echo.Context) {
	c.SetCookie(m.cookie(ChallengeCookie, "", -1))
}

// Tokens adapts the session cookie of one request to ports.TokenStore.
func (m *Manager) Tokens(c echo.Context) ports.TokenStore {
	token, _ := m.ReadToken(c)
	return &requestTokens{m: m, c: c, token: token}
}

// requestTokens sees its own writes within the request.
type requestTokens struct {
	m     *Manager
	c     echo.Context
	token string
}

func (t *requestTokens) Token() (string, bool) {
	return t.token, t.token != ""
}

func (t *requestTokens) SetToken(token string) {
	t.token = token
	t.m.SetToken(t.c, token)
}

func (t *requestTokens) DeleteToken() {
	t.token = ""
	t.m.ClearToken(t.c)
}
