package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rileyhilliard/topnet/internal/config"
	tnerrors "github.com/rileyhilliard/topnet/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_NonInteractiveWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "topnet", "config.yaml")
	var out bytes.Buffer

	err := Init(InitOptions{Path: path, NonInteractive: true, Out: &out})
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Created "+path)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultInterval, cfg.Schedule.Interval)
	assert.Equal(t, config.DefaultBackoff, cfg.Schedule.Backoff)
	assert.True(t, cfg.Display.AltScreen)
	assert.Equal(t, float64(config.DefaultWarningPercent), cfg.Display.WarningPercent)
}

func TestInit_ExistingConfigNonInteractive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("schedule:\n  interval: 3s\n"), 0644))

	err := Init(InitOptions{Path: path, NonInteractive: true, Out: &bytes.Buffer{}})
	require.Error(t, err)
	assert.True(t, tnerrors.IsCode(err, tnerrors.ErrConfig))
	assert.Contains(t, err.Error(), "--force")

	data, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Contains(t, string(data), "3s", "existing file untouched")
}

func TestInit_ForceOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("schedule:\n  interval: 3s\n  backoff: 5s\n"), 0644))

	err := Init(InitOptions{Path: path, Overwrite: true, NonInteractive: true, Out: &bytes.Buffer{}})
	require.NoError(t, err)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, time.Second, cfg.Schedule.Interval)
}

func TestNonInteractiveEnv(t *testing.T) {
	tests := []struct {
		name  string
		value string
		ci    string
		want  bool
	}{
		{name: "unset", want: false},
		{name: "explicit true", value: "true", want: true},
		{name: "explicit false", value: "false", want: false},
		{name: "garbage ignored", value: "maybe", want: false},
		{name: "CI set", ci: "1", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TOPNET_NON_INTERACTIVE", tt.value)
			t.Setenv("CI", tt.ci)
			assert.Equal(t, tt.want, nonInteractiveEnv())
		})
	}
}

func TestValidateInterval(t *testing.T) {
	assert.NoError(t, validateInterval("1s"))
	assert.NoError(t, validateInterval(" 250ms "))
	assert.Error(t, validateInterval("soon"))
	assert.Error(t, validateInterval("50ms"))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{}, splitList(""))
	assert.Equal(t, []string{"docker*", "veth*"}, splitList(" docker*, ,veth* "))
}
