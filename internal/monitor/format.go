package monitor

import (
	"fmt"
	"math"
	"time"

	"github.com/dustin/go-humanize"
)

var byteUnits = []string{"B", "KB", "MB", "GB", "TB", "PB", "EB"}

// FormatBytes formats a byte count in 1024 steps with at most two decimals
// and no trailing zeros: 1536 -> "1.5 KB", 0 -> "0 B".
func FormatBytes(bytes uint64) string {
	return formatScaled(float64(bytes))
}

// FormatRate formats a bytes-per-second rate, e.g. "1.5 KB/s".
func FormatRate(bytesPerSecond float64) string {
	return formatScaled(bytesPerSecond) + "/s"
}

func formatScaled(v float64) string {
	if v < 0 || math.IsNaN(v) {
		v = 0
	}

	unit := 0
	for v >= 1024 && unit < len(byteUnits)-1 {
		v /= 1024
		unit++
	}
	v = math.Round(v*100) / 100
	if v >= 1024 && unit < len(byteUnits)-1 {
		v = math.Round(v/1024*100) / 100
		unit++
	}
	return humanize.FtoaWithDigits(v, 2) + " " + byteUnits[unit]
}

// FormatOps formats an operations-per-second rate with thousands separators.
func FormatOps(opsPerSecond float64) string {
	if opsPerSecond < 0 || math.IsNaN(opsPerSecond) {
		opsPerSecond = 0
	}
	return humanize.Comma(int64(math.Round(opsPerSecond))) + " ops/s"
}

// FormatUptime renders a duration as "1d 2h 3m 4s", dropping leading zero
// units.
func FormatUptime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	days := total / 86400
	hours := (total % 86400) / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh %dm %ds", days, hours, minutes, seconds)
	case hours > 0:
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}

// FormatPercent formats a percentage with one decimal.
func FormatPercent(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}
