package config

import (
	"fmt"
	"path"

	"github.com/rileyhilliard/topnet/internal/errors"
)

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New(errors.ErrConfig,
			"Config is nil",
			"This is unexpected - try reloading the configuration.")
	}

	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but topnet only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Upgrade topnet or regenerate the file with 'topnet init --force'.")
	}

	if err := validateSchedule(cfg.Schedule); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'schedule' section in your config.yaml.")
	}

	if err := validateSource(cfg.Source); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'source' section in your config.yaml.")
	}

	if err := validateDisplay(cfg.Display); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'display' section in your config.yaml.")
	}

	return nil
}

func validateSchedule(s ScheduleConfig) error {
	if s.Interval <= 0 {
		return fmt.Errorf("interval must be positive, got %s", s.Interval)
	}
	if s.Interval < MinInterval {
		return fmt.Errorf("interval %s is below the %s minimum", s.Interval, MinInterval)
	}
	if s.Settle <= 0 {
		return fmt.Errorf("settle must be positive, got %s", s.Settle)
	}
	if s.Settle < MinInterval {
		return fmt.Errorf("settle %s is below the %s minimum", s.Settle, MinInterval)
	}
	if s.Backoff <= 0 {
		return fmt.Errorf("backoff must be positive, got %s", s.Backoff)
	}
	if s.Backoff < s.Interval {
		return fmt.Errorf("backoff (%s) must not be shorter than interval (%s)", s.Backoff, s.Interval)
	}
	if s.SampleTimeout < 0 {
		return fmt.Errorf("sample_timeout must not be negative, got %s", s.SampleTimeout)
	}
	return nil
}

func validateSource(s SourceConfig) error {
	for _, pattern := range s.ExcludeInterfaces {
		if _, err := path.Match(pattern, ""); err != nil {
			return fmt.Errorf("exclude_interfaces pattern %q is malformed", pattern)
		}
	}
	return nil
}

func validateDisplay(d DisplayConfig) error {
	if d.WarningPercent < 0 || d.WarningPercent > 100 {
		return fmt.Errorf("warning_percent must be between 0 and 100, got %g", d.WarningPercent)
	}
	if d.CriticalPercent < 0 || d.CriticalPercent > 100 {
		return fmt.Errorf("critical_percent must be between 0 and 100, got %g", d.CriticalPercent)
	}
	if d.WarningPercent >= d.CriticalPercent {
		return fmt.Errorf("warning_percent (%g) must be below critical_percent (%g)", d.WarningPercent, d.CriticalPercent)
	}
	if d.History < 0 {
		return fmt.Errorf("history must not be negative, got %d", d.History)
	}
	return nil
}
