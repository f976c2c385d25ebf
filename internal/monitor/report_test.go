package monitor

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestNewReport(t *testing.T) {
	s := sampleSnapshot(2)
	s.Faults = []Fault{{Category: CategoryMemory, Message: "boom"}}

	r := NewReport(s)

	assert.Equal(t, "web-01", r.Hostname)
	assert.Equal(t, "ubuntu 22.04", r.Platform)
	assert.Equal(t, int64(3661), r.UptimeSeconds)
	assert.Equal(t, 35.0, r.CPU.TotalPercent)
	assert.Equal(t, []CoreReport{{Index: 0, Percent: 10}, {Index: 1, Percent: 20}}, r.CPU.Cores)
	assert.Equal(t, uint64(6<<30), r.Memory.UsedBytes)
	assert.InDelta(t, 75.0, r.Memory.UsedPercent, 0.001)
	require.Len(t, r.Disk.Volumes, 2)
	assert.Equal(t, uint64(75<<30), r.Disk.Volumes[0].UsedBytes)
	assert.Equal(t, 1024.0, r.Network.SentPerSec)
	assert.Equal(t, 2560.0, r.Network.ReceivedPerSec)
	assert.Equal(t, []string{"memory: boom"}, r.Faults)
}

func TestNewReport_EmptyCollections(t *testing.T) {
	data, err := json.Marshal(NewReport(&Snapshot{}))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	cpu := decoded["cpu"].(map[string]any)
	assert.Equal(t, []any{}, cpu["cores"])
	net := decoded["network"].(map[string]any)
	assert.Equal(t, []any{}, net["interfaces"])
	assert.NotContains(t, decoded, "faults")
}

func TestNewReport_YAMLKeys(t *testing.T) {
	out, err := yaml.Marshal(NewReport(sampleSnapshot(1)))
	require.NoError(t, err)

	for _, key := range []string{"hostname: web-01", "total_percent: 35", "used_percent: 75", "read_ops_per_sec: 1234"} {
		assert.Contains(t, string(out), key)
	}
}

func TestNewReport_Nil(t *testing.T) {
	assert.Equal(t, Report{}, NewReport(nil))
}
