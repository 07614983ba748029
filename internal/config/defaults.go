package config

import "time"

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultNumCGLevels = 4
	DefaultMaxSH       = 3
	DefaultNumChannels = 10
	DefaultTrigBasis   = 3
	DefaultRPow        = 3
	DefaultDType       = "float"
	DefaultDevice      = "cpu"
	DefaultSeed        = 1

	DefaultServerPort     = 8090
	DefaultServerMode     = "release"
	DefaultServerMaxPairs = 1 << 20

	DefaultMetricsNamespace = "molrad"
	DefaultMetricsPath      = "/metrics"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// ApplyDefaults fills every zero-value field in cfg with its default and
// expands single-entry per-level lists to num_cg_levels entries.  Explicit
// values always win; a zero seed is treated as unset.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Radial ────────────────────────────────────────────────────────────────
	r := &cfg.Radial
	if r.NumCGLevels == 0 {
		r.NumCGLevels = DefaultNumCGLevels
	}
	if len(r.MaxSH) == 0 {
		r.MaxSH = []int{DefaultMaxSH}
	}
	if len(r.NumChannels) == 0 {
		r.NumChannels = []int{DefaultNumChannels}
	}
	if len(r.BasisSet) == 0 {
		r.BasisSet = []int{DefaultTrigBasis, DefaultRPow}
	}
	if r.DType == "" {
		r.DType = DefaultDType
	}
	if r.Device == "" {
		r.Device = DefaultDevice
	}
	if r.Seed == 0 {
		r.Seed = DefaultSeed
	}
	r.MaxSH = expand(r.MaxSH, r.NumCGLevels)
	r.NumChannels = expand(r.NumChannels, r.NumCGLevels)

	// ── Server ────────────────────────────────────────────────────────────────
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = DefaultServerMode
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 10 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 30 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 15 * time.Second
	}
	if cfg.Server.MaxPairs == 0 {
		cfg.Server.MaxPairs = DefaultServerMaxPairs
	}

	// ── Metrics ───────────────────────────────────────────────────────────────
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}

	// ── Log ───────────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
}

// expand repeats a single-entry list n times.  Other lengths are left for
// Validate to reject.
func expand(xs []int, n int) []int {
	if len(xs) != 1 || n <= 1 {
		return xs
	}
	out := make([]int, n)
	for i := range out {
		out[i] = xs[0]
	}
	return out
}

//Personal.AI order the ending
