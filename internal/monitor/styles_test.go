package monitor

import (
	"math"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestThresholds_MetricColor(t *testing.T) {
	tests := []struct {
		name    string
		percent float64
		want    lipgloss.Color
	}{
		{"healthy low", 0.0, ColorHealthy},
		{"healthy near threshold", 59.9, ColorHealthy},
		{"warning at threshold", 60.0, ColorWarning},
		{"warning near critical", 79.9, ColorWarning},
		{"critical at threshold", 80.0, ColorCritical},
		{"critical max", 100.0, ColorCritical},
	}

	th := DefaultThresholds()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, th.MetricColor(tt.percent))
		})
	}
}

func TestThresholds_Custom(t *testing.T) {
	th := Thresholds{Warning: 50, Critical: 90}

	assert.Equal(t, ColorHealthy, th.MetricColor(40))
	assert.Equal(t, ColorWarning, th.MetricColor(85))
	assert.Equal(t, ColorCritical, th.MetricColor(95))
}

func TestProgressBar(t *testing.T) {
	th := DefaultThresholds()

	tests := []struct {
		name    string
		width   int
		percent float64
		filled  int
		total   int
	}{
		{"empty", 10, 0, 0, 10},
		{"half", 10, 50, 5, 10},
		{"full", 10, 100, 10, 10},
		{"over 100 clamped", 10, 150, 10, 10},
		{"negative clamped", 10, -5, 0, 10},
		{"NaN treated as zero", 10, math.NaN(), 0, 10},
		{"zero width becomes one cell", 0, 100, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := ProgressBar(tt.width, tt.percent, th)
			assert.Equal(t, tt.filled, strings.Count(bar, "▰"))
			assert.Equal(t, tt.total, lipgloss.Width(bar))
		})
	}
}

func TestSectionHeader(t *testing.T) {
	tests := []struct {
		name  string
		title string
		value string
		width int
		want  int
	}{
		{"normal width", "CPU", "75%", 50, 50},
		{"minimum width", "A", "B", 5, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SectionHeader(tt.title, tt.value, tt.width)
			assert.True(t, strings.HasPrefix(result, "╭─ "+tt.title))
			assert.True(t, strings.HasSuffix(result, tt.value+" ╮"))
			assert.Equal(t, tt.want, lipgloss.Width(result))
		})
	}
}

func TestSectionFooter(t *testing.T) {
	assert.Equal(t, "╰"+strings.Repeat("─", 8)+"╯", SectionFooter(10))
	assert.Equal(t, "╰╯", SectionFooter(1))
}

func TestSectionContentLine(t *testing.T) {
	tests := []struct {
		name    string
		content string
		width   int
	}{
		{"normal content", "Hello World", 40},
		{"empty content", "", 20},
		{"truncated", strings.Repeat("x", 50), 20},
		{"below minimum", "Y", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SectionContentLine(tt.content, tt.width)
			assert.True(t, strings.HasPrefix(result, "│ "))
			assert.True(t, strings.HasSuffix(result, " │"))
			assert.Equal(t, max(tt.width, 4), lipgloss.Width(result))
		})
	}
}
