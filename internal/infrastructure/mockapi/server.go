package mockapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

// NewServer mounts the mock endpoints on the same paths as the EDI API.
func NewServer(svc *Service, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.Recover())
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod: true,
		LogURI:    true,
		LogStatus: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			log.Debug().Str("method", v.Method).Str("uri", v.URI).Int("status", v.Status).Msg("mock request")
			return nil
		},
	}))

	h := NewHandler(svc)

	e.Match([]string{http.MethodGet, http.MethodHead}, "/", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	api := e.Group("/api")
	api.POST("/user/login/start", h.VendorStart)
	api.POST("/user/login/verify", h.VendorVerify)
	api.POST("/employee/login/ldap", h.EmployeeStart)
	api.POST("/employee/login/verify-code", h.EmployeeVerify)
	api.POST("/user/request-password-reset", h.ForgotPassword)
	api.POST("/user/reset-password", h.ResetPassword)

	authed := api.Group("", Bearer())
	authed.GET("/user/get-by-profile", h.Profile)
	authed.GET("/summary-data/get-vendor-flat-summary", h.FlatSummary)

	return e
}
