package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/dmitrymomot/mongosession/pkg/logger"
)

// DefaultSweepInterval is the period between expired-session sweeps
const DefaultSweepInterval = time.Minute

// ExpiredSweeper is implemented by Store
type ExpiredSweeper interface {
	SweepExpired(ctx context.Context, ttl time.Duration) int64
	TTL() time.Duration
}

// Sweeper periodically removes expired session documents. It runs on its
// own ticker, independent of request handling, sharing the store client.
type Sweeper struct {
	store    ExpiredSweeper
	interval time.Duration
	ttl      time.Duration
	logger   *slog.Logger
}

// SweeperOption is a functional option for configuring the Sweeper
type SweeperOption func(*Sweeper)

// WithSweepInterval sets the sweep period
func WithSweepInterval(d time.Duration) SweeperOption {
	return func(s *Sweeper) {
		s.interval = d
	}
}

// WithSweepTTL overrides the store TTL used as the expiry cutoff
func WithSweepTTL(ttl time.Duration) SweeperOption {
	return func(s *Sweeper) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithSweeperLogger sets the sweeper logger
func WithSweeperLogger(l *slog.Logger) SweeperOption {
	return func(s *Sweeper) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewSweeper creates a sweeper for store. The cutoff defaults to the store TTL.
func NewSweeper(store ExpiredSweeper, opts ...SweeperOption) *Sweeper {
	s := &Sweeper{
		store:    store,
		interval: DefaultSweepInterval,
		ttl:      store.TTL(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(logger.Component("session.sweeper"))
	return s
}

// SweepOnce runs a single sweep and returns the number of removed documents
func (s *Sweeper) SweepOnce(ctx context.Context) int64 {
	removed := s.store.SweepExpired(ctx, s.ttl)
	if removed > 0 {
		s.logger.InfoContext(ctx, "expired sessions swept", logger.Count(removed))
	}
	return removed
}

// Start sweeps every interval until ctx is done. A non-positive interval
// disables sweeping and Start returns immediately.
func (s *Sweeper) Start(ctx context.Context) error {
	if s.interval <= 0 {
		s.logger.InfoContext(ctx, "session sweeping disabled")
		return nil
	}

	s.logger.InfoContext(ctx, "session sweeper started",
		slog.Duration("interval", s.interval),
		slog.Duration("ttl", s.ttl),
	)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.InfoContext(ctx, "session sweeper shutting down")
			return ctx.Err()
		case <-ticker.C:
			s.SweepOnce(ctx)
		}
	}
}
