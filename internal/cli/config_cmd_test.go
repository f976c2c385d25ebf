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

func writeTestConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, config.Save(path, config.DefaultConfig()))
	return path
}

func TestConfigSet(t *testing.T) {
	path := writeTestConfig(t)
	var out bytes.Buffer

	require.NoError(t, configSet(&out, path, "schedule.interval", "2s"))
	assert.Contains(t, out.String(), "Set schedule.interval = 2s")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, cfg.Schedule.Interval)
}

func TestConfigSet_UnknownKey(t *testing.T) {
	path := writeTestConfig(t)

	err := configSet(&bytes.Buffer{}, path, "schedule.speed", "fast")
	require.Error(t, err)
	assert.True(t, tnerrors.IsCode(err, tnerrors.ErrConfig))
}

func TestConfigSet_InvalidValueLeavesFile(t *testing.T) {
	path := writeTestConfig(t)
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	err = configSet(&bytes.Buffer{}, path, "display.warning_percent", "95")
	require.Error(t, err, "warning above critical is rejected")

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

func TestConfigSet_MissingFile(t *testing.T) {
	err := configSet(&bytes.Buffer{}, filepath.Join(t.TempDir(), "absent.yaml"), "schedule.interval", "2s")
	require.Error(t, err)
	assert.True(t, tnerrors.IsCode(err, tnerrors.ErrConfig))
}

func TestConfigShow(t *testing.T) {
	path := writeTestConfig(t)
	require.NoError(t, configSet(&bytes.Buffer{}, path, "source.include_loopback", "true"))

	var out bytes.Buffer
	require.NoError(t, configShow(&out, path))

	assert.Contains(t, out.String(), "# "+path)
	assert.Contains(t, out.String(), "include_loopback: true")
}
