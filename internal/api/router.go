package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/prospira/edi-portal/docs"
	"github.com/prospira/edi-portal/internal/api/cookies"
	"github.com/prospira/edi-portal/internal/api/handler"
	"github.com/prospira/edi-portal/internal/api/metrics"
	"github.com/prospira/edi-portal/internal/api/middleware"
	"github.com/prospira/edi-portal/internal/api/web"
	"github.com/prospira/edi-portal/internal/core/access"
	"github.com/prospira/edi-portal/internal/core/login"
	"github.com/prospira/edi-portal/internal/core/ports"
	"github.com/prospira/edi-portal/internal/core/session"
	"github.com/prospira/edi-portal/internal/infrastructure/config"
)

// EDI is everything the portal needs from the remote EDI API.
type EDI interface {
	ports.ProfileFetcher
	ports.PasswordGateway
	ports.SummaryFetcher
}

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	Config   *config.Config
	EDI      EDI
	Proxy    handler.Forwarder
	Notices  ports.NoticeStore
	Registry *login.Registry
	Cookies  *cookies.Manager
	Checks   map[string]handler.Check
	Log      zerolog.Logger

	// Registerer receives the HTTP metrics. Nil means the default registry.
	Registerer prometheus.Registerer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) (*echo.Echo, error) {
	renderer, err := web.NewRenderer()
	if err != nil {
		return nil, err
	}

	cfg := d.Config
	lang := cfg.DefaultLang
	wait := cfg.Session.RefreshWait

	e := echo.New()
	e.HideBanner = true
	e.Renderer = renderer
	e.Validator = handler.NewValidator()

	// --- Dependencies ---
	provider := session.NewProvider(d.EDI, d.Log, session.WithObserver(metrics.SessionRecorder{}))
	pages := handler.NewPageHandler(d.Notices, d.Cookies, lang, d.Log)
	guard := middleware.NewGuard(wait, d.Notices, d.Cookies, lang, pages.Loading, d.Log)
	sessionMW := middleware.Session(provider, d.Cookies)
	limit := middleware.RateLimit(cfg.Login.RateRPS, cfg.Login.RateBurst, d.Log)

	loginHandler := handler.NewLoginHandler(d.Registry, d.Cookies, d.Notices, lang, d.Log)
	sessionHandler := handler.NewSessionHandler(wait, lang)
	notificationHandler := handler.NewNotificationHandler(d.EDI, d.Cookies, wait, lang, d.Log)
	noticeHandler := handler.NewNoticeHandler(d.Notices, d.Cookies)
	passwordHandler := handler.NewPasswordHandler(d.EDI, d.Log)
	proxyHandler := handler.NewProxyHandler(d.Proxy, d.Cookies)

	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log, pages.NotFound)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := d.Log.Info()
			if v.Error != nil {
				ev = d.Log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "edi_portal",
		Registerer: d.Registerer,
	}))

	// --- Operations ---
	e.GET("/health", handler.NewHealthHandler().Liveness)
	e.GET("/health/ready", handler.NewHealthDependenciesHandler(d.Checks).Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Portal API ---
	apiGroup := e.Group("/api", sessionMW)

	loginGroup := apiGroup.Group("/login")
	loginGroup.GET("", loginHandler.State)
	loginGroup.POST("/start", loginHandler.Start, limit)
	loginGroup.POST("/code", loginHandler.Code, limit)
	loginGroup.POST("/key", loginHandler.Key, limit)
	loginGroup.POST("/verify", loginHandler.Verify, limit)
	loginGroup.POST("/resend", loginHandler.Resend, limit)
	loginGroup.POST("/back", loginHandler.Back, limit)

	apiGroup.POST("/password/forgot", passwordHandler.Forgot, limit)
	apiGroup.POST("/password/reset", passwordHandler.Reset, limit)

	apiGroup.GET("/session", sessionHandler.Get)
	apiGroup.POST("/session/logout", sessionHandler.Logout)
	apiGroup.GET("/notifications", notificationHandler.List)
	apiGroup.GET("/notices", noticeHandler.Pop)
	apiGroup.Any("/edi/*", proxyHandler.Forward)

	// --- Pages ---
	e.GET("/", pages.Root)
	pageGroup := e.Group("/:lang", sessionMW)
	pageGroup.GET("", pages.Home)
	pageGroup.GET("/login", pages.Login)
	pageGroup.GET("/forgot-password", pages.ForgotPassword)
	pageGroup.GET("/reset-password", pages.ResetPassword)
	for _, route := range access.Routes {
		pageGroup.GET("/"+route.Path, pages.Screen, guard.Require(route))
	}

	return e, nil
}
