package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/prospira/edi-portal/internal/api/middleware"
	"github.com/prospira/edi-portal/internal/core/access"
	"github.com/prospira/edi-portal/internal/core/domain"
	"github.com/prospira/edi-portal/internal/core/session"
)

// SessionHandler reports and ends the session of the browser.
type SessionHandler struct {
	wait        time.Duration
	defaultLang string
}

func NewSessionHandler(wait time.Duration, defaultLang string) *SessionHandler {
	return &SessionHandler{wait: wait, defaultLang: defaultLang}
}

type sessionResponse struct {
	Authenticated bool             `json:"authenticated"`
	Loading       bool             `json:"loading"`
	User          *domain.User     `json:"user,omitempty"`
	Initials      string           `json:"initials"`
	Menu          []access.NavItem `json:"menu"`
	CanConfirm    bool             `json:"can_confirm"`
	Error         string           `json:"error,omitempty"`
}

type logoutResponse struct {
	Redirect string `json:"redirect"`
}

// Get refreshes and returns the identity of the browser.
//
// @Summary      Current session
// @Tags         session
// @Produce      json
// @Param        lang  query     string  false  "Language of menu links"
// @Param        path  query     string  false  "Current page path, marks the active menu item"
// @Success      200   {object}  sessionResponse
// @Router       /api/session [get]
func (h *SessionHandler) Get(c echo.Context) error {
	store, err := middleware.StoreFrom(c)
	if err != nil {
		return err
	}
	middleware.Refresh(c, store, h.wait)

	st := store.State()
	lang := c.QueryParam("lang")
	if lang == "" {
		lang = h.defaultLang
	}
	return c.JSON(http.StatusOK, sessionResponse{
		Authenticated: st.User != nil,
		Loading:       st.Loading,
		User:          st.User,
		Initials:      session.Initials(st.User),
		Menu:          access.Menu(st.User, lang, c.QueryParam("path")),
		CanConfirm:    access.CanConfirm(st.User),
		Error:         st.Error,
	})
}

// Logout drops the session cookie. The EDI API is not called.
//
// @Summary      Logout
// @Tags         session
// @Produce      json
// @Success      200  {object}  logoutResponse
// @Router       /api/session/logout [post]
func (h *SessionHandler) Logout(c echo.Context) error {
	store, err := middleware.StoreFrom(c)
	if err != nil {
		return err
	}
	store.Logout()

	lang := c.QueryParam("lang")
	if lang == "" {
		lang = h.defaultLang
	}
	return c.JSON(http.StatusOK, logoutResponse{Redirect: access.LoginPath(lang)})
}
