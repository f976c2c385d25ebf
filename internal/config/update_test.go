package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Schedule.Interval = 2 * time.Second
	cfg.Schedule.Backoff = 8 * time.Second
	cfg.Source.ExcludeInterfaces = []string{"docker*"}
	cfg.Display.Plain = true

	require.NoError(t, Save(path, cfg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# topnet configuration")
	assert.Contains(t, string(data), "interval: 2s")

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestSetValue(t *testing.T) {
	tests := []struct {
		name         string
		initialYAML  string
		key          string
		value        string
		wantContains []string
		check        func(t *testing.T, cfg *Config)
		wantErr      string
	}{
		{
			name: "replace existing scalar and keep comments",
			initialYAML: `# my settings
schedule:
  interval: 1s # tick
`,
			key:          "schedule.interval",
			value:        "2s",
			wantContains: []string{"# my settings", "interval: 2s"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 2*time.Second, cfg.Schedule.Interval)
			},
		},
		{
			name:         "create missing section",
			initialYAML:  "version: 1\n",
			key:          "display.plain",
			value:        "true",
			wantContains: []string{"display:", "plain: true"},
			check: func(t *testing.T, cfg *Config) {
				assert.True(t, cfg.Display.Plain)
			},
		},
		{
			name:         "list value",
			initialYAML:  "version: 1\n",
			key:          "source.exclude_interfaces",
			value:        "[docker*, veth*]",
			wantContains: []string{"exclude_interfaces:", "docker*", "veth*"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, []string{"docker*", "veth*"}, cfg.Source.ExcludeInterfaces)
			},
		},
		{
			name:         "empty file",
			initialYAML:  "",
			key:          "log.debug",
			value:        "true",
			wantContains: []string{"log:", "debug: true"},
		},
		{
			name:        "unknown key",
			initialYAML: "version: 1\n",
			key:         "hosts.mini",
			value:       "x",
			wantErr:     "Unknown config key",
		},
		{
			name:        "invalid value is rejected",
			initialYAML: "version: 1\n",
			key:         "schedule.interval",
			value:       "10ms",
			wantErr:     "below the 100ms minimum",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.initialYAML), 0644))

			err := SetValue(path, tt.key, tt.value)

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)

				data, readErr := os.ReadFile(path)
				require.NoError(t, readErr)
				assert.Equal(t, tt.initialYAML, string(data), "file must be untouched on error")
				return
			}
			require.NoError(t, err)

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			for _, want := range tt.wantContains {
				assert.Contains(t, string(data), want)
			}

			if tt.check != nil {
				cfg, err := Load(path)
				require.NoError(t, err)
				tt.check(t, cfg)
			}
		})
	}
}
