package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/prospira/edi-portal/internal/api/cookies"
	"github.com/prospira/edi-portal/internal/core/session"
)

const storeKey = "session_store"

// Session gives every request its own session store bound to the request's
// auth cookie.
func Session(provider *session.Provider, ck *cookies.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(storeKey, provider.New(ck.Tokens(c)))
			return next(c)
		}
	}
}

// StoreFrom returns the session store installed by Session.
func StoreFrom(c echo.Context) (*session.Store, error) {
	store, ok := c.Get(storeKey).(*session.Store)
	if !ok || store == nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "session not initialised")
	}
	return store, nil
}

// Refresh resolves the identity of the request, waiting at most wait.
func Refresh(c echo.Context, store *session.Store, wait time.Duration) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), wait)
	defer cancel()
	store.Refresh(ctx)
}

// Lang returns the language segment of the route, or fallback.
func Lang(c echo.Context, fallback string) string {
	if l := strings.TrimSpace(c.Param("lang")); l != "" {
		return l
	}
	return fallback
}
