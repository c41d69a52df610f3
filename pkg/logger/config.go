package logger

import (
	"fmt"
	"log/slog"
	"strings"
)

// Config holds logger configuration
type Config struct {
	Env     string `env:"APP_ENV" envDefault:"development"`
	Service string `env:"SERVICE_NAME" envDefault:"mongosession"`
	// Level overrides the environment default: debug, info, warn or error
	Level string `env:"LOG_LEVEL"`
	// Format overrides the environment default: json or text
	Format string `env:"LOG_FORMAT"`
}

// NewFromConfig creates a logger from cfg. Explicit options are applied last.
func NewFromConfig(cfg Config, opts ...Option) (*slog.Logger, error) {
	configOpts := []Option{WithEnvironment(cfg.Env, cfg.Service)}

	if cfg.Level != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		configOpts = append(configOpts, WithLevel(level))
	}

	if cfg.Format != "" {
		format := Format(strings.ToLower(cfg.Format))
		if format != FormatJSON && format != FormatText {
			return nil, fmt.Errorf("invalid log format %q: must be %q or %q", cfg.Format, FormatJSON, FormatText)
		}
		configOpts = append(configOpts, WithFormat(format))
	}

	return New(append(configOpts, opts...)...), nil
}
