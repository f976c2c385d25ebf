package monitor

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		bytes uint64
		want  string
	}{
		{0, "0 B"},
		{1, "1 B"},
		{1023, "1023 B"},
		{1024, "1 KB"},
		{1536, "1.5 KB"},
		{1048576, "1 MB"},
		{1073741824, "1 GB"},
		{1099511627776, "1 TB"},
		{5 * 1024 * 1024 * 1024 / 4, "1.25 GB"},
		{math.MaxUint64, "16 EB"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatBytes(tt.bytes))
		})
	}
}

func TestFormatRate(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{0, "0 B/s"},
		{512, "512 B/s"},
		{1536, "1.5 KB/s"},
		{1234.5678, "1.21 KB/s"},
		{1023.999, "1 KB/s"},
		{1048575.999, "1 MB/s"},
		{-10, "0 B/s"},
		{math.NaN(), "0 B/s"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatRate(tt.rate))
		})
	}
}

func TestFormatOps(t *testing.T) {
	assert.Equal(t, "0 ops/s", FormatOps(0))
	assert.Equal(t, "13 ops/s", FormatOps(12.6))
	assert.Equal(t, "1,234 ops/s", FormatOps(1234.2))
	assert.Equal(t, "0 ops/s", FormatOps(-4))
}

func TestFormatUptime(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0s"},
		{42 * time.Second, "42s"},
		{3*time.Minute + 4*time.Second, "3m 4s"},
		{2*time.Hour + 4*time.Second, "2h 0m 4s"},
		{26*time.Hour + 3*time.Minute + 4*time.Second, "1d 2h 3m 4s"},
		{1500 * time.Millisecond, "1s"},
		{-time.Minute, "0s"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatUptime(tt.d))
		})
	}
}
