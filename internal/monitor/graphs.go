package monitor

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// sparklineBlocks are block characters for 8-level vertical resolution (lowest to highest).
var sparklineBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// PercentSparkline renders percentage data on a fixed 0-100 scale, colored
// by the band of the most recent value.
func PercentSparkline(data []float64, width int, t Thresholds) string {
	line := sparkline(data, width, 0, 100)
	if line == "" {
		return ""
	}
	return t.MetricStyle(data[len(data)-1]).Render(line)
}

// RateSparkline renders non-negative rate data scaled from zero to the
// largest value in the window.
func RateSparkline(data []float64, width int) string {
	_, maxVal := findMinMax(data)
	line := sparkline(data, width, 0, maxVal)
	if line == "" {
		return ""
	}
	return GraphStyle.Render(line)
}

func sparkline(data []float64, width int, minVal, maxVal float64) string {
	if len(data) == 0 || width <= 0 {
		return ""
	}

	var result strings.Builder
	top := len(sparklineBlocks) - 1
	for _, val := range resampleData(data, width) {
		normalized := normalizeValue(val, minVal, maxVal)
		result.WriteRune(sparklineBlocks[clampInt(int(normalized*float64(top)), top)])
	}
	return result.String()
}

// sparklineWidth fits a sparkline after a label of the given visible width.
func sparklineWidth(sectionWidth int, used string) int {
	w := sectionWidth - 4 - lipgloss.Width(used) - 1
	if w < 0 {
		return 0
	}
	return w
}

// findMinMax returns the minimum and maximum values in a slice.
func findMinMax(data []float64) (minVal, maxVal float64) {
	if len(data) == 0 {
		return 0, 0
	}
	minVal, maxVal = data[0], data[0]
	for _, v := range data {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	return minVal, maxVal
}

// normalizeValue converts a value to 0-1 range given min/max bounds.
// A flat range maps everything to the bottom.
func normalizeValue(val, minVal, maxVal float64) float64 {
	if maxVal <= minVal {
		return 0
	}
	n := (val - minVal) / (maxVal - minVal)
	if n < 0 {
		return 0
	}
	if n > 1 {
		return 1
	}
	return n
}

// clampInt clamps an integer to a range [0, maxVal].
func clampInt(val, maxVal int) int {
	if val < 0 {
		return 0
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// resampleData resamples data to the target size.
// Downsampling keeps the max of each bucket so spikes survive; upsampling
// interpolates linearly.
func resampleData(data []float64, targetSize int) []float64 {
	if len(data) == 0 || targetSize <= 0 {
		return nil
	}
	if len(data) == targetSize {
		return data
	}

	result := make([]float64, targetSize)

	if len(data) == 1 {
		for i := range result {
			result[i] = data[0]
		}
		return result
	}

	if len(data) > targetSize {
		bucketSize := float64(len(data)) / float64(targetSize)
		for i := 0; i < targetSize; i++ {
			start := int(float64(i) * bucketSize)
			end := min(int(float64(i+1)*bucketSize), len(data))
			if start >= end {
				start = max(end-1, 0)
			}

			peak := data[start]
			for j := start + 1; j < end; j++ {
				if data[j] > peak {
					peak = data[j]
				}
			}
			result[i] = peak
		}
		return result
	}

	if targetSize == 1 {
		result[0] = data[len(data)-1]
		return result
	}

	scale := float64(len(data)-1) / float64(targetSize-1)
	for i := 0; i < targetSize; i++ {
		pos := float64(i) * scale
		idx := int(pos)
		frac := pos - float64(idx)

		if idx >= len(data)-1 {
			result[i] = data[len(data)-1]
		} else {
			result[i] = data[idx]*(1-frac) + data[idx+1]*frac
		}
	}
	return result
}
