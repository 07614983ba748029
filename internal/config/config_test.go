package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/molrad/internal/intelligence/radial"
	"github.com/turtacn/molrad/pkg/errors"
)

func validConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

func TestConfig_Validate_Defaults(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestConfig_Validate_Invalid(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"zero levels", func(c *Config) { c.Radial.NumCGLevels = -1 }},
		{"max_sh length", func(c *Config) { c.Radial.MaxSH = []int{1, 2} }},
		{"num_channels length", func(c *Config) { c.Radial.NumChannels = []int{1, 2, 3} }},
		{"basis_set arity", func(c *Config) { c.Radial.BasisSet = []int{3} }},
		{"zero trig", func(c *Config) { c.Radial.BasisSet = []int{0, 3} }},
		{"zero rpow", func(c *Config) { c.Radial.BasisSet = []int{3, 0} }},
		{"negative max_sh", func(c *Config) { c.Radial.MaxSH[2] = -1 }},
		{"mixing without channels", func(c *Config) { c.Radial.Mix = true; c.Radial.NumChannels[0] = 0 }},
		{"bad dtype", func(c *Config) { c.Radial.DType = "half" }},
		{"bad device", func(c *Config) { c.Radial.Device = "cuda" }},
		{"port", func(c *Config) { c.Server.Port = 70000 }},
		{"mode", func(c *Config) { c.Server.Mode = "prod" }},
		{"max pairs", func(c *Config) { c.Server.MaxPairs = -1 }},
		{"metrics path", func(c *Config) { c.Metrics.Enabled = true; c.Metrics.Path = "metrics" }},
		{"log level", func(c *Config) { c.Log.Level = "trace" }},
		{"log format", func(c *Config) { c.Log.Format = "xml" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.IsConfigurationError(err), err.Error())
		})
	}
}

func TestConfig_ZeroChannelsAllowedWithoutMixing(t *testing.T) {
	cfg := validConfig()
	cfg.Radial.NumChannels = []int{0, 0, 0, 0}
	assert.NoError(t, cfg.Validate())
}

func TestRadialConfig_FilterBankConfig(t *testing.T) {
	r := RadialConfig{
		NumCGLevels: 3,
		MaxSH:       []int{1, 2, 3},
		NumChannels: []int{4, 5, 6},
		BasisSet:    []int{2, 1},
		Mix:         true,
	}
	fb := r.FilterBankConfig()
	assert.Equal(t, 3, fb.NumLevels)
	require.Len(t, fb.Levels, 3)
	assert.Equal(t, radial.LevelConfig{
		MaxSH:       2,
		BasisSet:    radial.BasisSet{TrigBasis: 2, RPow: 1},
		NumChannels: 5,
		Mix:         true,
	}, fb.Levels[1])

	bank, err := radial.NewFilterBank(fb)
	require.NoError(t, err)
	assert.Equal(t, [][]int{{4, 4}, {5, 5, 5}, {6, 6, 6, 6}}, bank.RadialTypes())
}

func TestRadialConfig_Options(t *testing.T) {
	r := validConfig().Radial
	opts, err := r.Options()
	require.NoError(t, err)
	assert.Len(t, opts, 3)

	r.DType = "double"
	_, err = r.Options()
	assert.NoError(t, err)

	r.Device = "tpu"
	_, err = r.Options()
	assert.True(t, errors.IsCode(err, errors.CodeUnsupportedBackend))
}

//Personal.AI order the ending
