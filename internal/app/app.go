// Package app wires the portal together and runs its HTTP server.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/prospira/edi-portal/internal/api"
	"github.com/prospira/edi-portal/internal/api/cookies"
	"github.com/prospira/edi-portal/internal/api/handler"
	"github.com/prospira/edi-portal/internal/api/metrics"
	"github.com/prospira/edi-portal/internal/core/login"
	"github.com/prospira/edi-portal/internal/core/ports"
	"github.com/prospira/edi-portal/internal/infrastructure/config"
	"github.com/prospira/edi-portal/internal/infrastructure/db/memory"
	mongostore "github.com/prospira/edi-portal/internal/infrastructure/db/mongo"
	redisstore "github.com/prospira/edi-portal/internal/infrastructure/db/redis"
	"github.com/prospira/edi-portal/internal/infrastructure/queue"
	"github.com/prospira/edi-portal/internal/infrastructure/upstream"
	"github.com/prospira/edi-portal/pkg/logger"
)

const noticeTTL = 10 * time.Minute

// App owns the HTTP server and the background workers of the portal.
type App struct {
	cfg        *config.Config
	log        zerolog.Logger
	httpServer *http.Server
	registry   *login.Registry
	audit      *queue.Dispatcher
	closers    []func() error
}

// New connects the notice store and the optional audit trail, builds the
// EDI API client and proxy and registers every route.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	a := &App{cfg: cfg, log: log}

	ck := cookies.NewManager(cfg.Session.CookieSecure, cfg.Session.CookieTTL)

	client := upstream.New(upstream.Config{
		BaseURL: cfg.Upstream.BaseURL,
		Timeout: cfg.Upstream.Timeout,
	}, logger.Component(log, "upstream"))

	proxy, err := upstream.NewProxy(cfg.Upstream.BaseURL, "/api/edi", logger.Component(log, "proxy"), func(resp *http.Response) {
		ck.ClearTokenHeader(resp.Header)
	})
	if err != nil {
		return nil, err
	}

	checks := map[string]handler.Check{
		"edi_api": client.Ping,
	}

	var notices ports.NoticeStore
	if cfg.Redis.Addr != "" {
		rdb, err := redisstore.Connect(ctx, redisstore.Config{
			Addr:      cfg.Redis.Addr,
			DB:        cfg.Redis.DB,
			OpTimeout: 2 * time.Second,
		})
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		store := redisstore.NewNoticeStore(rdb, noticeTTL)
		notices = store
		checks["redis"] = store.Ping
		a.closers = append(a.closers, rdb.Close)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("notices stored in redis")
	} else {
		notices = memory.NewNoticeStore(noticeTTL)
		log.Info().Msg("notices stored in memory")
	}

	loginOpts := []login.Option{login.WithAuditor(metrics.LoginRecorder{})}
	if cfg.Audit.MongoURI != "" {
		mc, db, err := mongostore.Connect(ctx, mongostore.Config{
			URI:      cfg.Audit.MongoURI,
			Database: cfg.Audit.Database,
		})
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		a.closers = append(a.closers, func() error {
			dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return mc.Disconnect(dctx)
		})
		repo := mongostore.NewAuditRepository(db, cfg.Audit.Retention)
		if err := repo.EnsureIndexes(ctx); err != nil {
			return nil, fmt.Errorf("audit indexes: %w", err)
		}
		checks["mongo"] = mongostore.Pinger(mc)
		a.audit = queue.NewDispatcher(cfg.Audit.Workers, repo, logger.Component(log, "audit"))
		loginOpts = append(loginOpts, login.WithAuditor(a.audit))
		log.Info().Str("database", cfg.Audit.Database).Msg("login audit enabled")
	}

	a.registry = login.NewRegistry(client, logger.Component(log, "login"), cfg.Login.ChallengeTTL, loginOpts...)

	router, err := api.NewRouter(api.Deps{
		Config:   cfg,
		EDI:      client,
		Proxy:    proxy,
		Notices:  notices,
		Registry: a.registry,
		Cookies:  ck,
		Checks:   checks,
		Log:      log,
	})
	if err != nil {
		return nil, fmt.Errorf("build router: %w", err)
	}

	a.httpServer = &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return a, nil
}

// Run starts the HTTP server and blocks until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go a.registry.Run(ctx)
	if a.audit != nil {
		// Shutdown drains the audit queue, so saves outlive the signal.
		a.audit.Start(context.WithoutCancel(ctx))
	}

	go func() {
		a.log.Info().Str("addr", a.httpServer.Addr).Msg("starting HTTP server")
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown drains in-flight requests, then the audit queue, then closes the
// stores.
func (a *App) Shutdown() error {
	a.log.Info().Msg("shutting down portal")

	var errs []error

	httpCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.httpServer.Shutdown(httpCtx); err != nil {
		a.log.Error().Err(err).Msg("http server shutdown error")
		errs = append(errs, err)
	}

	if a.audit != nil {
		auditCtx, cancelAudit := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancelAudit()
		if err := a.audit.Close(auditCtx); err != nil {
			a.log.Error().Err(err).Msg("audit queue not drained")
			errs = append(errs, err)
		}
	}

	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			errs = append(errs, err)
		}
	}

	a.log.Info().Msg("portal shutdown complete")
	return errors.Join(errs...)
}
