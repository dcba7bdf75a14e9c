package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/prospira/edi-portal/internal/api/cookies"
	"github.com/prospira/edi-portal/internal/api/middleware"
	"github.com/prospira/edi-portal/internal/api/web"
	"github.com/prospira/edi-portal/internal/core/access"
	"github.com/prospira/edi-portal/internal/core/domain"
	"github.com/prospira/edi-portal/internal/core/login"
	"github.com/prospira/edi-portal/internal/core/ports"
	"github.com/prospira/edi-portal/internal/core/session"
)

// PageHandler renders the HTML shell of the portal.
type PageHandler struct {
	notices     ports.NoticeStore
	cookies     *cookies.Manager
	defaultLang string
	log         zerolog.Logger
}

func NewPageHandler(notices ports.NoticeStore, ck *cookies.Manager, defaultLang string, log zerolog.Logger) *PageHandler {
	return &PageHandler{notices: notices, cookies: ck, defaultLang: defaultLang, log: log}
}

func (h *PageHandler) page(c echo.Context, title string) web.Page {
	notices, err := h.notices.Pop(c.Request().Context(), h.cookies.BrowserID(c))
	if err != nil {
		h.log.Error().Err(err).Msg("failed to read notices")
	}
	return web.Page{
		Lang:    middleware.Lang(c, h.defaultLang),
		Title:   title,
		Notices: notices,
	}
}

// Root sends / to the default language.
func (h *PageHandler) Root(c echo.Context) error {
	return c.Redirect(http.StatusFound, "/"+h.defaultLang)
}

// Home sends /:lang to the landing page.
func (h *PageHandler) Home(c echo.Context) error {
	return c.Redirect(http.StatusFound, "/"+middleware.Lang(c, h.defaultLang)+"/"+access.HomePath)
}

func (h *PageHandler) Login(c echo.Context) error {
	p := h.page(c, "Sign in")
	p.CodeSlots = make([]int, login.CodeLength)
	for i := range p.CodeSlots {
		p.CodeSlots[i] = i
	}
	return c.Render(http.StatusOK, web.PageLogin, p)
}

func (h *PageHandler) ForgotPassword(c echo.Context) error {
	return c.Render(http.StatusOK, web.PageForgotPassword, h.page(c, "Forgot password"))
}

func (h *PageHandler) ResetPassword(c echo.Context) error {
	p := h.page(c, "Reset password")
	p.ResetToken = c.QueryParam("token")
	return c.Render(http.StatusOK, web.PageResetPassword, p)
}

// Loading is shown while the session is still resolving; the page reloads
// itself.
func (h *PageHandler) Loading(c echo.Context) error {
	return c.Render(http.StatusOK, web.PageLoading, web.Page{
		Lang:       middleware.Lang(c, h.defaultLang),
		AutoReload: true,
	})
}

// NotFound renders the 404 page.
func (h *PageHandler) NotFound(c echo.Context) error {
	return c.Render(http.StatusNotFound, web.PageNotFound, web.Page{
		Lang:  middleware.Lang(c, h.defaultLang),
		Title: "Not found",
	})
}

// Screen renders a guarded page. It runs behind Guard.Require, which stores
// the route and has already resolved the session.
func (h *PageHandler) Screen(c echo.Context) error {
	route, ok := c.Get(middleware.RouteKey).(access.Route)
	if !ok {
		return echo.NewHTTPError(http.StatusInternalServerError, "route not resolved")
	}
	store, err := middleware.StoreFrom(c)
	if err != nil {
		return err
	}
	u := store.User()
	if u == nil {
		return domain.ErrUnauthenticated
	}

	p := h.page(c, route.Title)
	p.User = u
	p.Initials = session.Initials(u)
	p.Menu = access.Menu(u, p.Lang, c.Request().URL.Path)
	p.Screen = route.Key
	p.Number = c.Param("number")
	p.CanConfirm = access.CanConfirm(u)
	return c.Render(http.StatusOK, web.PageApp, p)
}
