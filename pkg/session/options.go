package session

import (
	"log/slog"
	"time"
)

// Option is a functional option for configuring the Store
type Option func(*Store)

// WithCodec sets the serialization codec (default: BSONCodec)
func WithCodec(codec Codec) Option {
	return func(s *Store) {
		if codec != nil {
			s.codec = codec
		}
	}
}

// WithRegistry sets the attribute type registry used by the codec
func WithRegistry(types *Registry) Option {
	return func(s *Store) {
		if types != nil {
			s.types = types
		}
	}
}

// WithLogger sets the store logger
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMaxInactiveInterval sets the session time-to-live in seconds
func WithMaxInactiveInterval(seconds int) Option {
	return func(s *Store) {
		s.maxInactiveInterval = seconds
	}
}

// WithClock overrides the time source, mainly for tests
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides session id generation (default: random UUID)
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) {
		if gen != nil {
			s.newID = gen
		}
	}
}
