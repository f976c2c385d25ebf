package cli

import (
	"errors"
	"log"
	"os"
	"testing"
	"time"

	"github.com/rileyhilliard/topnet/internal/config"
	tnerrors "github.com/rileyhilliard/topnet/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsUnknownCommandError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "unknown command error", err: errors.New(`unknown command "foo" for "topnet"`), want: true},
		{name: "unknown flag error", err: errors.New(`unknown flag: --foo`), want: true},
		{name: "unknown shorthand", err: errors.New(`unknown shorthand flag: 'x' in -x`), want: true},
		{name: "other error", err: errors.New("sysinfo failed"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isUnknownCommandError(tt.err))
		})
	}
}

func TestExtractUnknownCommand(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "standard cobra format", err: errors.New(`unknown command "foo" for "topnet"`), want: "foo"},
		{name: "command with hyphen", err: errors.New(`unknown command "net-top" for "topnet"`), want: "net-top"},
		{name: "no quotes returns empty", err: errors.New("unknown command foo"), want: ""},
		{name: "single quote returns empty", err: errors.New(`unknown command "foo`), want: ""},
		{name: "flag errors return empty", err: errors.New("unknown flag: --foo"), want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractUnknownCommand(tt.err))
		})
	}
}

func TestApplyInterval(t *testing.T) {
	tests := []struct {
		name        string
		flag        string
		wantErr     bool
		wantIntvl   time.Duration
		wantBackoff time.Duration
	}{
		{name: "empty keeps config", flag: "", wantIntvl: time.Second, wantBackoff: 5 * time.Second},
		{name: "override", flag: "2s", wantIntvl: 2 * time.Second, wantBackoff: 5 * time.Second},
		{name: "backoff raised to interval", flag: "10s", wantIntvl: 10 * time.Second, wantBackoff: 10 * time.Second},
		{name: "not a duration", flag: "fast", wantErr: true},
		{name: "below minimum", flag: "10ms", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			err := applyInterval(cfg, tt.flag)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, tnerrors.IsCode(err, tnerrors.ErrConfig))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantIntvl, cfg.Schedule.Interval)
			assert.Equal(t, tt.wantBackoff, cfg.Schedule.Backoff)
		})
	}
}

func TestNewView_FromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Display.WarningPercent = 50
	cfg.Display.CriticalPercent = 90
	cfg.Display.History = 0

	v := newView(cfg)
	assert.Equal(t, 50.0, v.Thresholds.Warning)
	assert.Equal(t, 90.0, v.Thresholds.Critical)
	assert.Nil(t, v.History, "history disabled at zero")
}

func TestSchedulerOptions_FromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Schedule.Interval = 2 * time.Second

	opts := schedulerOptions(cfg)
	assert.Equal(t, 2*time.Second, opts.Interval)
	assert.Equal(t, config.DefaultSettle, opts.Settle)
	assert.Equal(t, config.DefaultBackoff, opts.Backoff)
}

func TestSetupLogging_File(t *testing.T) {
	path := t.TempDir() + "/topnet.log"
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	closeLog, err := setupLogging(config.LogConfig{File: path}, true)
	require.NoError(t, err)
	closeLog()
	assert.FileExists(t, path)
}

func TestSetupLogging_BadFile(t *testing.T) {
	_, err := setupLogging(config.LogConfig{File: t.TempDir() + "/missing/dir/topnet.log"}, true)
	require.Error(t, err)
	assert.True(t, tnerrors.IsCode(err, tnerrors.ErrConfig))
}
