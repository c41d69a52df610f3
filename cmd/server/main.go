// Command server is a demo service persisting HTTP sessions in MongoDB,
// Redis, Postgres or memory, selected by SESSION_BACKEND.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrymomot/mongosession/pkg/config"
	"github.com/dmitrymomot/mongosession/pkg/cookie"
	"github.com/dmitrymomot/mongosession/pkg/httpserver"
	"github.com/dmitrymomot/mongosession/pkg/logger"
	"github.com/dmitrymomot/mongosession/pkg/requestid"
	"github.com/dmitrymomot/mongosession/pkg/session"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		slog.Error("server exited", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var cfg appConfig
	if err := config.Load(&cfg); err != nil {
		return err
	}

	log, err := logger.NewFromConfig(cfg.Log,
		logger.WithContextExtractors(requestid.LoggerExtractor()),
	)
	if err != nil {
		return err
	}
	logger.SetAsDefault(log)

	be, err := openBackend(ctx, cfg.Backend, cfg.Session, log)
	if err != nil {
		return err
	}

	store, err := session.NewStoreFromConfig(be.collection, cfg.Session, session.WithLogger(log))
	if err != nil {
		return errors.Join(err, be.close(context.WithoutCancel(ctx)))
	}
	if err := store.Init(ctx); err != nil {
		return errors.Join(err, be.close(context.WithoutCancel(ctx)))
	}

	cookies, err := cookie.NewFromConfig(cfg.Cookie)
	if err != nil {
		return errors.Join(err, be.close(context.WithoutCancel(ctx)))
	}
	transport := session.NewCompositeTransport(
		session.NewCookieTransportWithSecurity(cookies, cfg.Session.CookieName, cfg.Session.SecureCookies),
		session.NewHeaderTransport(cfg.Session.HeaderName),
	)
	interceptor := session.NewInterceptor(store, transport, session.WithInterceptorLogger(log))

	sweepCtx, stopSweeper := context.WithCancel(ctx)
	defer stopSweeper()
	sweeper := session.NewSweeper(store,
		session.WithSweepInterval(cfg.Session.SweepInterval),
		session.WithSweeperLogger(log),
	)
	go func() { _ = sweeper.Start(sweepCtx) }()

	srv := httpserver.NewFromConfig(cfg.HTTP,
		httpserver.WithLogger(log),
		httpserver.WithShutdownHook(func(ctx context.Context) error {
			stopSweeper()
			return be.close(ctx)
		}),
	)

	err = srv.Run(ctx, newRouter(interceptor, log, be.checks...))
	if errors.Is(err, httpserver.ErrStart) {
		// Shutdown hooks only run after a successful start.
		stopSweeper()
		err = errors.Join(err, be.close(context.WithoutCancel(ctx)))
	}
	return err
}
