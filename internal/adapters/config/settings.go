// Package config reads flock settings from the environment.
package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"go.trai.ch/flock/internal/core/domain"
	"go.trai.ch/zerr"
)

// Prefix is prepended to every environment variable name.
const Prefix = "FLOCK_"

// Settings holds the process-wide settings.
type Settings struct {
	// LogJSON switches the logger to JSON output.
	LogJSON bool `env:"LOG_JSON"`
	// Trace logs every finished span, not only failed ones.
	Trace bool `env:"TRACE"`
	// TablePath overrides the embedded attribute table.
	TablePath string `env:"TABLE_PATH"`
	// StoreDir is the snapshot store directory.
	StoreDir string `env:"STORE_DIR" envDefault:".flock/store"`
	// Debounce is the quiet period before a watched sheet is reloaded.
	Debounce time.Duration `env:"WATCH_DEBOUNCE" envDefault:"50ms"`
}

// Load parses Settings from the process environment.
func Load() (*Settings, error) {
	var s Settings
	if err := env.ParseWithOptions(&s, env.Options{Prefix: Prefix}); err != nil {
		return nil, zerr.Wrap(err, domain.ErrConfigParseFailed.Error())
	}
	if s.Debounce <= 0 {
		return nil, zerr.With(
			zerr.Wrap(domain.ErrConfigParseFailed, "debounce must be positive"),
			"value", s.Debounce.String(),
		)
	}
	if s.StoreDir == "" {
		s.StoreDir = domain.DefaultStorePath()
	}
	return &s, nil
}
