package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestApplyDefaults_EmptyConfig(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	assert.Equal(t, DefaultNumCGLevels, cfg.Radial.NumCGLevels)
	assert.Equal(t, []int{3, 3, 3, 3}, cfg.Radial.MaxSH)
	assert.Equal(t, []int{10, 10, 10, 10}, cfg.Radial.NumChannels)
	assert.Equal(t, []int{3, 3}, cfg.Radial.BasisSet)
	assert.False(t, cfg.Radial.Mix)
	assert.Equal(t, "float", cfg.Radial.DType)
	assert.Equal(t, "cpu", cfg.Radial.Device)
	assert.Equal(t, int64(1), cfg.Radial.Seed)

	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "molrad", cfg.Metrics.Namespace)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestApplyDefaults_PreserveExistingValues(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Port = 9999
	cfg.Radial.NumCGLevels = 2
	cfg.Radial.MaxSH = []int{1, 4}
	cfg.Radial.NumChannels = []int{7}
	ApplyDefaults(cfg)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, []int{1, 4}, cfg.Radial.MaxSH)
	assert.Equal(t, []int{7, 7}, cfg.Radial.NumChannels)
}

func TestApplyDefaults_LeavesMismatchedListsForValidate(t *testing.T) {
	cfg := &Config{}
	cfg.Radial.NumCGLevels = 3
	cfg.Radial.MaxSH = []int{1, 2}
	ApplyDefaults(cfg)
	assert.Equal(t, []int{1, 2}, cfg.Radial.MaxSH)
	assert.Error(t, cfg.Validate())
}

func TestApplyDefaults_Nil(t *testing.T) {
	assert.NotPanics(t, func() { ApplyDefaults(nil) })
}

//Personal.AI order the ending
