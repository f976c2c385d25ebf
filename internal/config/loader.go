package config

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rileyhilliard/topnet/internal/errors"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix is prepended to environment overrides, e.g. TOPNET_SCHEDULE_INTERVAL.
	EnvPrefix = "TOPNET"
	// AppDir is the per-user config directory name.
	AppDir = "topnet"
	// ConfigFileName is the config file name inside AppDir.
	ConfigFileName = "config.yaml"
)

// Load reads config from the specified path, layered over defaults and
// TOPNET_* environment overrides. An empty path loads defaults and
// environment only.
func Load(path string) (*Config, error) {
	v := newViper()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if os.IsNotExist(err) {
				return nil, errors.WrapWithCode(err, errors.ErrConfig,
					"Config file not found",
					"Run 'topnet init' to create a config file, or specify one with --config")
			}
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to read config file",
				"Check the file exists and is valid YAML")
		}
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		where := "the environment"
		if path != "" {
			where = path
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Check the values in "+where)
	}

	return cfg, nil
}

// newViper returns a viper instance with every key defaulted, so
// AutomaticEnv can resolve overrides for keys absent from the file.
func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("version", d.Version)
	v.SetDefault("schedule.interval", d.Schedule.Interval.String())
	v.SetDefault("schedule.settle", d.Schedule.Settle.String())
	v.SetDefault("schedule.backoff", d.Schedule.Backoff.String())
	v.SetDefault("schedule.sample_timeout", "0s")
	v.SetDefault("source.strict", d.Source.Strict)
	v.SetDefault("source.include_loopback", d.Source.IncludeLoopback)
	v.SetDefault("source.exclude_interfaces", d.Source.ExcludeInterfaces)
	v.SetDefault("display.plain", d.Display.Plain)
	v.SetDefault("display.alt_screen", d.Display.AltScreen)
	v.SetDefault("display.warning_percent", d.Display.WarningPercent)
	v.SetDefault("display.critical_percent", d.Display.CriticalPercent)
	v.SetDefault("display.history", d.Display.History)
	v.SetDefault("log.debug", d.Log.Debug)
	v.SetDefault("log.file", d.Log.File)
}

// Find locates the config file using the search order:
// 1. Explicit path (from --config flag)
// 2. $XDG_CONFIG_HOME/topnet/config.yaml
// 3. ~/.config/topnet/config.yaml
//
// Returns the path to the config file, or empty string if not found.
func Find(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			if os.IsNotExist(err) {
				return "", errors.WrapWithCode(err, errors.ErrConfig,
					"Specified config file not found: "+explicit,
					"Check the path is correct")
			}
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot access config file: "+explicit,
				"Check file permissions")
		}
		return explicit, nil
	}

	for _, candidate := range searchPaths() {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}

	return "", nil
}

// DefaultPath returns where 'topnet init' writes a new config file.
func DefaultPath() string {
	paths := searchPaths()
	if len(paths) == 0 {
		return ConfigFileName
	}
	return paths[0]
}

func searchPaths() []string {
	var paths []string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, AppDir, ConfigFileName))
	}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		paths = append(paths, filepath.Join(home, ".config", AppDir, ConfigFileName))
	}
	return paths
}

// LoadOrDefault finds and loads the config, falling back to defaults plus
// environment overrides when no file exists.
func LoadOrDefault(explicit string) (*Config, string, error) {
	path, err := Find(explicit)
	if err != nil {
		return nil, "", err
	}

	cfg, err := Load(path)
	if err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

// Keys lists every dotted config key topnet understands.
func Keys() []string {
	keys := newViper().AllKeys()
	sort.Strings(keys)
	return keys
}

// KnownKey reports whether key names a leaf setting.
func KnownKey(key string) bool {
	key = strings.ToLower(key)
	for _, k := range Keys() {
		if k == key {
			return true
		}
	}
	return false
}
