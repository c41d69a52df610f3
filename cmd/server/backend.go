package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/mongosession/pkg/config"
	"github.com/dmitrymomot/mongosession/pkg/httpserver"
	"github.com/dmitrymomot/mongosession/pkg/logger"
	"github.com/dmitrymomot/mongosession/pkg/mongo"
	"github.com/dmitrymomot/mongosession/pkg/pg"
	"github.com/dmitrymomot/mongosession/pkg/redis"
	"github.com/dmitrymomot/mongosession/pkg/session"
)

// backend is an opened session collection with its probes and cleanup
type backend struct {
	collection session.Collection
	checks     []httpserver.Check
	close      func(context.Context) error
}

func noopClose(context.Context) error { return nil }

// openBackend connects to the document store selected by name
func openBackend(ctx context.Context, name string, sessCfg session.Config, log *slog.Logger) (*backend, error) {
	log = log.With(logger.Backend(name))

	switch name {
	case backendMongo:
		var cfg mongo.Config
		if err := config.Load(&cfg); err != nil {
			return nil, err
		}
		db, err := mongo.NewWithDatabase(ctx, cfg)
		if err != nil {
			return nil, err
		}
		log.InfoContext(ctx, "connected to session store",
			slog.String("database", cfg.Database),
			slog.Bool("replica_reads", cfg.AllowReplicaReads),
		)
		return &backend{
			collection: session.NewMongoCollection(db, sessCfg.Collection),
			checks:     []httpserver.Check{{Name: backendMongo, Probe: mongo.Healthcheck(db.Client())}},
			close:      db.Client().Disconnect,
		}, nil

	case backendRedis:
		var cfg redis.Config
		if err := config.Load(&cfg); err != nil {
			return nil, err
		}
		client, err := redis.Connect(ctx, cfg)
		if err != nil {
			return nil, err
		}
		log.InfoContext(ctx, "connected to session store", slog.String("prefix", cfg.KeyPrefix))
		return &backend{
			collection: session.NewRedisCollection(client, cfg.KeyPrefix),
			checks:     []httpserver.Check{{Name: backendRedis, Probe: redis.Healthcheck(client)}},
			close:      func(context.Context) error { return client.Close() },
		}, nil

	case backendPostgres:
		var cfg pg.Config
		if err := config.Load(&cfg); err != nil {
			return nil, err
		}
		pool, err := pg.Connect(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if err := pg.Migrate(ctx, pool, cfg, log); err != nil {
			pool.Close()
			return nil, err
		}
		log.InfoContext(ctx, "connected to session store")
		return &backend{
			// The migrated table name is fixed.
			collection: session.NewPostgresCollection(pool, pg.SessionsTable),
			checks:     []httpserver.Check{{Name: backendPostgres, Probe: pg.Healthcheck(pool)}},
			close: func(context.Context) error {
				pool.Close()
				return nil
			},
		}, nil

	case backendMemory:
		log.WarnContext(ctx, "using in-memory session store, sessions are lost on restart")
		return &backend{
			collection: session.NewMemoryCollection(),
			close:      noopClose,
		}, nil

	default:
		return nil, fmt.Errorf("unknown session backend %q", name)
	}
}
