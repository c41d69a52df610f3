package main

import (
	"github.com/dmitrymomot/mongosession/pkg/cookie"
	"github.com/dmitrymomot/mongosession/pkg/httpserver"
	"github.com/dmitrymomot/mongosession/pkg/logger"
	"github.com/dmitrymomot/mongosession/pkg/session"
)

// Supported SESSION_BACKEND values
const (
	backendMongo    = "mongo"
	backendRedis    = "redis"
	backendPostgres = "postgres"
	backendMemory   = "memory"
)

// appConfig is the backend independent part of the configuration.
// Backend connection settings are loaded only for the selected backend.
type appConfig struct {
	Backend string `env:"SESSION_BACKEND" envDefault:"mongo"`

	Log     logger.Config
	HTTP    httpserver.Config
	Session session.Config
	Cookie  cookie.Config
}
