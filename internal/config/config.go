// Package config defines the configuration structures of the molrad service.
// No I/O or parsing logic lives here, only plain data types, conversion to
// the radial core's types, and validation.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/turtacn/molrad/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molrad/internal/intelligence/radial"
	"github.com/turtacn/molrad/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// RadialConfig sizes the radial filter bank.  MaxSH and NumChannels hold one
// entry per CG level; a single entry is repeated for every level.  BasisSet
// is the shared (trig_basis, rpow) pair.
type RadialConfig struct {
	NumCGLevels int    `mapstructure:"num_cg_levels"`
	MaxSH       []int  `mapstructure:"max_sh"`
	NumChannels []int  `mapstructure:"num_channels"`
	BasisSet    []int  `mapstructure:"basis_set"`
	Mix         bool   `mapstructure:"mix"`
	DType       string `mapstructure:"dtype"`  // "float" | "double"
	Device      string `mapstructure:"device"` // "cpu"
	Seed        int64  `mapstructure:"seed"`
}

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // "debug" | "release" | "test"
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxPairs        int           `mapstructure:"max_pairs"`
}

// MetricsConfig controls the prometheus endpoint.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
	Path      string `mapstructure:"path"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Root Config
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration structure.
type Config struct {
	Radial  RadialConfig      `mapstructure:"radial"`
	Server  ServerConfig      `mapstructure:"server"`
	Metrics MetricsConfig     `mapstructure:"metrics"`
	Log     logging.LogConfig `mapstructure:"log"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Conversion
// ─────────────────────────────────────────────────────────────────────────────

// Basis returns the shared basis pair.  It assumes Validate has passed.
func (r RadialConfig) Basis() radial.BasisSet {
	return radial.BasisSet{TrigBasis: r.BasisSet[0], RPow: r.BasisSet[1]}
}

// FilterBankConfig converts the section into the core's per-level config.
func (r RadialConfig) FilterBankConfig() radial.FilterBankConfig {
	levels := make([]radial.LevelConfig, r.NumCGLevels)
	for i := range levels {
		levels[i] = radial.LevelConfig{
			MaxSH:       r.MaxSH[i],
			BasisSet:    r.Basis(),
			NumChannels: r.NumChannels[i],
			Mix:         r.Mix,
		}
	}
	return radial.FilterBankConfig{NumLevels: r.NumCGLevels, Levels: levels}
}

// Options returns the precision, device and seed as construction options.
func (r RadialConfig) Options() ([]radial.Option, error) {
	prec, err := radial.ParsePrecision(r.DType)
	if err != nil {
		return nil, err
	}
	dev, err := radial.ParseDevice(r.Device)
	if err != nil {
		return nil, err
	}
	return []radial.Option{radial.WithPrecision(prec), radial.WithDevice(dev), radial.WithSeed(r.Seed)}, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Validation
// ─────────────────────────────────────────────────────────────────────────────

// Validate performs semantic validation of the fully-populated Config.  It
// returns the first error encountered as a configuration error.
func (c *Config) Validate() error {
	if err := c.Radial.Validate(); err != nil {
		return err
	}

	// Server
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return invalid("server.port %d is out of range [1, 65535]", c.Server.Port)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return invalid("server.mode %q is invalid; expected debug|release|test", c.Server.Mode)
	}
	if c.Server.MaxPairs < 1 {
		return invalid("server.max_pairs must be >= 1, got %d", c.Server.MaxPairs)
	}

	// Metrics
	if c.Metrics.Enabled {
		if c.Metrics.Namespace == "" {
			return invalid("metrics.namespace is required when metrics are enabled")
		}
		if !strings.HasPrefix(c.Metrics.Path, "/") {
			return invalid("metrics.path %q must start with /", c.Metrics.Path)
		}
	}

	// Log
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return invalid("log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return invalid("log.format %q is invalid; expected json|console", c.Log.Format)
	}
	return nil
}

// Validate checks the radial section after list expansion.
func (r RadialConfig) Validate() error {
	if r.NumCGLevels < 1 {
		return invalid("radial.num_cg_levels must be >= 1, got %d", r.NumCGLevels)
	}
	if len(r.MaxSH) != r.NumCGLevels {
		return invalid("radial.max_sh has %d entries, want 1 or %d", len(r.MaxSH), r.NumCGLevels)
	}
	if len(r.NumChannels) != r.NumCGLevels {
		return invalid("radial.num_channels has %d entries, want 1 or %d", len(r.NumChannels), r.NumCGLevels)
	}
	if len(r.BasisSet) != 2 {
		return invalid("radial.basis_set must be [trig_basis, rpow], got %v", r.BasisSet)
	}
	if err := r.Basis().Validate(); err != nil {
		return err
	}
	for i, l := range r.MaxSH {
		if l < 0 {
			return invalid("radial.max_sh[%d] must be >= 0, got %d", i, l)
		}
	}
	if r.Mix {
		for i, n := range r.NumChannels {
			if n < 1 {
				return invalid("radial.num_channels[%d] must be >= 1 when mixing, got %d", i, n)
			}
		}
	}
	if _, err := r.Options(); err != nil {
		return err
	}
	return nil
}

func invalid(format string, args ...interface{}) error {
	return errors.NewConfigurationError(fmt.Sprintf("config: "+format, args...))
}

//Personal.AI order the ending
