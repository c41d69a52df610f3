package session

import "time"

// Config holds session configuration
type Config struct {
	// MaxInactiveInterval is the session time-to-live in seconds (default: 30 minutes).
	// Documents not saved within this window are swept.
	MaxInactiveInterval int `env:"SESSION_MAX_INACTIVE_INTERVAL" envDefault:"1800"`

	// Codec selects the serialization format: "bson" or "gob"
	Codec string `env:"SESSION_CODEC" envDefault:"bson"`

	// Collection is the collection (or table) name holding session documents
	Collection string `env:"SESSION_COLLECTION" envDefault:"sessions"`

	// SweepInterval is the period of the expired-session sweep (0 to disable)
	SweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL" envDefault:"1m"`

	CookieName    string `env:"SESSION_COOKIE_NAME" envDefault:"sid"`
	HeaderName    string `env:"SESSION_HEADER_NAME" envDefault:"X-Session-ID"`
	SecureCookies bool   `env:"SESSION_SECURE_COOKIES" envDefault:"false"`
}

// DefaultConfig returns default session configuration
func DefaultConfig() Config {
	return Config{
		MaxInactiveInterval: 30 * 60,
		Codec:               CodecBSON,
		Collection:          DefaultCollectionName,
		SweepInterval:       time.Minute,
		CookieName:          "sid",
		HeaderName:          "X-Session-ID",
	}
}

// TTL returns the max inactive interval as a duration
func (c Config) TTL() time.Duration {
	return time.Duration(c.MaxInactiveInterval) * time.Second
}

// NewStoreFromConfig creates a Store using the codec and TTL from cfg.
// Explicit options override configuration.
func NewStoreFromConfig(collection Collection, cfg Config, opts ...Option) (*Store, error) {
	codec, err := NewCodec(cfg.Codec)
	if err != nil {
		return nil, err
	}

	configOpts := []Option{
		WithCodec(codec),
	}
	if cfg.MaxInactiveInterval > 0 {
		configOpts = append(configOpts, WithMaxInactiveInterval(cfg.MaxInactiveInterval))
	}
	configOpts = append(configOpts, opts...)

	return NewStore(collection, configOpts...), nil
}
