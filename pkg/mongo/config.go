package mongo

import "time"

// Config represents the configuration for the session database.
type Config struct {
	ConnectionURL string `env:"MONGODB_URL,required"`                  // ConnectionURL is the MongoDB connection string.
	Database      string `env:"MONGODB_DATABASE" envDefault:"sessions"` // Database holds the sessions collection.

	// Credentials override the ones in ConnectionURL when Username is set.
	Username   string `env:"MONGODB_USERNAME"`
	Password   string `env:"MONGODB_PASSWORD"`
	AuthSource string `env:"MONGODB_AUTH_SOURCE"`

	// AllowReplicaReads routes reads to secondaries when available.
	AllowReplicaReads bool `env:"MONGODB_ALLOW_REPLICA_READS" envDefault:"false"`

	ConnectTimeout  time.Duration `env:"MONGODB_CONNECT_TIMEOUT" envDefault:"10s"`
	MaxPoolSize     uint64        `env:"MONGODB_MAX_POOL_SIZE" envDefault:"100"`
	MinPoolSize     uint64        `env:"MONGODB_MIN_POOL_SIZE" envDefault:"1"`
	MaxConnIdleTime time.Duration `env:"MONGODB_MAX_CONN_IDLE_TIME" envDefault:"300s"`
	RetryWrites     bool          `env:"MONGODB_RETRY_WRITES" envDefault:"true"`
	RetryReads      bool          `env:"MONGODB_RETRY_READS" envDefault:"true"`
	RetryAttempts   int           `env:"MONGODB_RETRY_ATTEMPTS" envDefault:"3"`  // RetryAttempts is the number of connection attempts.
	RetryInterval   time.Duration `env:"MONGODB_RETRY_INTERVAL" envDefault:"5s"` // RetryInterval is the pause between attempts.
}
