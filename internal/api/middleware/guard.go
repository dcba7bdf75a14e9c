package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/prospira/edi-portal/internal/api/cookies"
	"github.com/prospira/edi-portal/internal/api/metrics"
	"github.com/prospira/edi-portal/internal/core/access"
	"github.com/prospira/edi-portal/internal/core/domain"
	"github.com/prospira/edi-portal/internal/core/ports"
)

// RouteKey is where the guarded route is stored on the context.
const RouteKey = "route"

// Guard enforces the role allow-lists of portal pages.
type Guard struct {
	wait        time.Duration
	notices     ports.NoticeStore
	cookies     *cookies.Manager
	defaultLang string
	loading     echo.HandlerFunc
	log         zerolog.Logger
}

// NewGuard returns a Guard. loading renders the placeholder shown while the
// session is still resolving.
func NewGuard(wait time.Duration, notices ports.NoticeStore, ck *cookies.Manager, defaultLang string, loading echo.HandlerFunc, log zerolog.Logger) *Guard {
	return &Guard{
		wait:        wait,
		notices:     notices,
		cookies:     ck,
		defaultLang: defaultLang,
		loading:     loading,
		log:         log,
	}
}

// Require refreshes the session and admits the request only when the user
// holds one of the roles of route.
func (g *Guard) Require(route access.Route) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			store, err := StoreFrom(c)
			if err != nil {
				return err
			}
			Refresh(c, store, g.wait)

			st := store.State()
			decision := access.Decide(st, route.Allow)
			metrics.GuardDecisionsTotal.WithLabelValues(route.Key, decision.String()).Inc()

			switch decision {
			case access.Wait:
				return g.loading(c)
			case access.Redirect:
				// Only a signed-in user lacking the role is told why.
				if st.User != nil {
					if err := g.notices.Push(c.Request().Context(), g.cookies.BrowserID(c), domain.UnauthorizedNotice); err != nil {
						g.log.Error().Err(err).Msg("failed to queue unauthorized notice")
					}
				}
				return c.Redirect(http.StatusFound, access.LoginPath(Lang(c, g.defaultLang)))
			}

			c.Set(RouteKey, route)
			return next(c)
		}
	}
}
