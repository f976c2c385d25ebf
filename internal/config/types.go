package config

import "time"

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Defaults for the sampling cadence. Running with no config file behaves
// exactly like these values.
const (
	DefaultInterval = time.Second
	DefaultSettle   = time.Second
	DefaultBackoff  = 5 * time.Second

	// MinInterval keeps the tick from spinning on the metric providers.
	MinInterval = 100 * time.Millisecond

	DefaultWarningPercent  = 60
	DefaultCriticalPercent = 80
	DefaultHistorySize     = 60
)

// Config represents the complete topnet configuration file.
type Config struct {
	Version  int            `yaml:"version" mapstructure:"version"`
	Schedule ScheduleConfig `yaml:"schedule" mapstructure:"schedule"`
	Source   SourceConfig   `yaml:"source" mapstructure:"source"`
	Display  DisplayConfig  `yaml:"display" mapstructure:"display"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// ScheduleConfig controls the monitor loop timing.
type ScheduleConfig struct {
	// Interval is the wait between ticks after a successful snapshot.
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`

	// Settle is the wait between the discarded warm-up sample and the first real tick.
	Settle time.Duration `yaml:"settle" mapstructure:"settle"`

	// Backoff is the wait after a loop-level fault before retrying.
	Backoff time.Duration `yaml:"backoff" mapstructure:"backoff"`

	// SampleTimeout bounds a single category collection. Zero disables it.
	SampleTimeout time.Duration `yaml:"sample_timeout" mapstructure:"sample_timeout"`
}

// SourceConfig controls which counters are opened at startup.
type SourceConfig struct {
	// Strict fails startup when no counter handle can be opened.
	Strict bool `yaml:"strict" mapstructure:"strict"`

	// IncludeLoopback keeps loopback interfaces in the network section.
	IncludeLoopback bool `yaml:"include_loopback" mapstructure:"include_loopback"`

	// ExcludeInterfaces lists interface name globs (path.Match syntax) to skip.
	ExcludeInterfaces []string `yaml:"exclude_interfaces" mapstructure:"exclude_interfaces"`
}

// DisplayConfig controls terminal output.
type DisplayConfig struct {
	// Plain forces the line-redraw renderer even on a TTY.
	Plain bool `yaml:"plain" mapstructure:"plain"`

	// AltScreen runs the dashboard in the terminal's alternate screen.
	AltScreen bool `yaml:"alt_screen" mapstructure:"alt_screen"`

	// WarningPercent and CriticalPercent band usage bars green/yellow/red.
	WarningPercent  float64 `yaml:"warning_percent" mapstructure:"warning_percent"`
	CriticalPercent float64 `yaml:"critical_percent" mapstructure:"critical_percent"`

	// History is the number of samples kept for sparklines.
	History int `yaml:"history" mapstructure:"history"`
}

// LogConfig controls diagnostic output.
type LogConfig struct {
	Debug bool   `yaml:"debug" mapstructure:"debug"`
	File  string `yaml:"file" mapstructure:"file"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentConfigVersion,
		Schedule: ScheduleConfig{
			Interval: DefaultInterval,
			Settle:   DefaultSettle,
			Backoff:  DefaultBackoff,
		},
		Source: SourceConfig{
			ExcludeInterfaces: []string{},
		},
		Display: DisplayConfig{
			AltScreen:       true,
			WarningPercent:  DefaultWarningPercent,
			CriticalPercent: DefaultCriticalPercent,
			History:         DefaultHistorySize,
		},
	}
}
