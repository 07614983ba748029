package config

import (
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/turtacn/molrad/pkg/errors"
)

// envPrefix is the environment variable prefix used by all settings.
const envPrefix = "MOLRAD"

// envKeys lists every key bound to an environment variable, so LoadFromEnv
// sees overrides even when no file mentions the key.
var envKeys = []string{
	"radial.num_cg_levels", "radial.max_sh", "radial.num_channels", "radial.basis_set",
	"radial.mix", "radial.dtype", "radial.device", "radial.seed",
	"server.port", "server.mode", "server.read_timeout", "server.write_timeout",
	"server.shutdown_timeout", "server.max_pairs",
	"metrics.enabled", "metrics.namespace", "metrics.path",
	"log.level", "log.format", "log.output_paths", "log.error_output_paths",
}

// newViper builds a Viper instance with YAML file type, the MOLRAD_ env
// prefix and a "." → "_" key replacer, so "radial.max_sh" resolves to
// MOLRAD_RADIAL_MAX_SH.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, k := range envKeys {
		_ = v.BindEnv(k)
	}
	return v
}

// Load reads the YAML file at configPath, merges MOLRAD_* environment
// overrides, applies defaults and validates the result.  An empty path is
// the same as LoadFromEnv.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		return LoadFromEnv()
	}
	v := newViper()
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.NewConfigurationError("config: failed to read config file").
			WithDetail(configPath).WithCause(err)
	}
	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config from MOLRAD_* environment variables and
// defaults only.
//
//	MOLRAD_<SECTION>_<FIELD>   e.g.  MOLRAD_RADIAL_MAX_SH="2,2,3", MOLRAD_SERVER_PORT
func LoadFromEnv() (*Config, error) {
	return unmarshalAndFinalize(newViper())
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.NewConfigurationError("config: failed to unmarshal configuration").WithCause(err)
	}
	ApplyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Watcher reloads a config file when it changes on disk.
type Watcher struct {
	v        *viper.Viper
	mu       sync.Mutex
	current  *Config
	onChange func(*Config)
	onError  func(error)
}

// Watch starts watching configPath.  onChange receives each valid reloaded
// Config; a reload that fails to parse or validate goes to onError (which
// may be nil) and the previous Config stays current.  Watch fails if the
// initial load fails.
func Watch(configPath string, onChange func(*Config), onError func(error)) (*Watcher, error) {
	v := newViper()
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.NewConfigurationError("config: failed to read config file").
			WithDetail(configPath).WithCause(err)
	}
	cfg, err := unmarshalAndFinalize(v)
	if err != nil {
		return nil, err
	}

	w := &Watcher{v: v, current: cfg, onChange: onChange, onError: onError}
	v.OnConfigChange(w.handle)
	v.WatchConfig()
	return w, nil
}

func (w *Watcher) handle(e fsnotify.Event) {
	if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
		return
	}
	cfg, err := unmarshalAndFinalize(w.v)
	if err != nil {
		if w.onError != nil {
			w.onError(errors.Wrap(err, errors.CodeUnknown, "config: reload of "+e.Name+" rejected"))
		}
		return
	}
	w.mu.Lock()
	w.current = cfg
	w.mu.Unlock()
	if w.onChange != nil {
		w.onChange(cfg)
	}
}

// Current returns the most recent valid Config.
func (w *Watcher) Current() *Config {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current
}

// MustLoad is Load that panics on any error.  It is intended for main().
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic("config: MustLoad failed: " + err.Error())
	}
	return cfg
}

//Personal.AI order the ending
