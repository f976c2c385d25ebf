package monitor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/topnet/internal/source"
)

const (
	defaultWidth  = 80
	totalBarWidth = 30
	coreBarWidth  = 15
	volBarWidth   = 15

	// terminal columns per core cell in the core grid
	coreCellColumns = 40
)

// View renders snapshots as terminal text. It never feeds anything back
// into sampling.
type View struct {
	Thresholds Thresholds

	// History adds sparklines when non-nil. The caller pushes snapshots.
	History *History
}

// DefaultView returns a view with the default thresholds and no history.
func DefaultView() View {
	return View{Thresholds: DefaultThresholds()}
}

// Render formats s for a terminal width columns wide. A width of zero or
// less renders at 80 columns. Empty collections and zero fallbacks are
// rendered as such.
func (v View) Render(s *Snapshot, width int) string {
	if width <= 0 {
		width = defaultWidth
	}
	if s == nil {
		return LabelStyle.Render("Initializing...")
	}

	sections := []string{
		v.renderHeader(s),
		v.renderCPU(s, width),
		v.renderMemory(s, width),
		v.renderDisk(s, width),
		v.renderNetwork(s, width),
	}
	if faults := v.renderFaults(s); faults != "" {
		sections = append(sections, faults)
	}
	return strings.Join(sections, "\n")
}

func (v View) renderHeader(s *Snapshot) string {
	host := s.Hostname
	if host == "" {
		host = "localhost"
	}

	parts := []string{HostNameStyle.Render(host)}
	if sys := strings.TrimSpace(s.System.Platform + " " + s.System.Kernel); sys != "" {
		parts = append(parts, LabelStyle.Render(sys))
	}
	parts = append(parts,
		LabelStyle.Render("up ")+ValueStyle.Render(FormatUptime(s.Uptime)),
		MutedStyle.Render(s.Timestamp.Format("2006-01-02 15:04:05")),
	)
	if s.MissingHandles > 0 {
		parts = append(parts, MutedStyle.Render(fmt.Sprintf("%d counters unavailable", s.MissingHandles)))
	}
	return strings.Join(parts, MutedStyle.Render(" | "))
}

func (v View) renderCPU(s *Snapshot, width int) string {
	cpu := source.ClampPercent(s.CPU.Total)

	var lines []string
	lines = append(lines, SectionHeader("CPU", FormatPercent(cpu), width))

	name := s.CPU.ProcessorName
	if name == "" {
		name = "Unknown"
	}
	lines = append(lines, SectionContentLine(
		ValueStyle.Render(name)+LabelStyle.Render(fmt.Sprintf(" (%d logical processors)", s.CPU.ProcessorCount)), width))

	total := LabelStyle.Render("Total ") + ProgressBar(totalBarWidth, cpu, v.Thresholds) +
		" " + v.Thresholds.MetricStyle(cpu).Render(fmt.Sprintf("%5.1f%%", cpu))
	lines = append(lines, SectionContentLine(total, width))

	if data := v.History.Last(SeriesCPU, width); len(data) > 1 {
		label := LabelStyle.Render("Trend ")
		lines = append(lines, SectionContentLine(label+PercentSparkline(data, sparklineWidth(width, label), v.Thresholds), width))
	}

	lines = append(lines, v.coreGrid(s.CPU.Cores, width)...)
	lines = append(lines, SectionFooter(width))
	return strings.Join(lines, "\n")
}

// coreGrid lays cores out max(1, width/40) per row.
func (v View) coreGrid(cores []CoreUsage, width int) []string {
	if len(cores) == 0 {
		return []string{SectionContentLine(MutedStyle.Render("No per-core data"), width)}
	}

	perRow := max(1, width/coreCellColumns)
	var lines []string
	for i := 0; i < len(cores); i += perRow {
		end := min(i+perRow, len(cores))
		cells := make([]string, 0, perRow)
		for _, c := range cores[i:end] {
			pct := source.ClampPercent(c.Percent)
			cells = append(cells, LabelStyle.Render(fmt.Sprintf("C%-3d", c.Index))+
				ProgressBar(coreBarWidth, pct, v.Thresholds)+
				v.Thresholds.MetricStyle(pct).Render(fmt.Sprintf(" %5.1f%%", pct)))
		}
		lines = append(lines, SectionContentLine(strings.Join(cells, "   "), width))
	}
	return lines
}

func (v View) renderMemory(s *Snapshot, width int) string {
	m := s.Memory
	pct := m.Percent()

	var lines []string
	lines = append(lines, SectionHeader("Memory", FormatPercent(pct), width))

	used := LabelStyle.Render("Used  ") + ProgressBar(totalBarWidth, pct, v.Thresholds) +
		" " + v.Thresholds.MetricStyle(pct).Render(fmt.Sprintf("%5.1f%%", pct))
	lines = append(lines, SectionContentLine(used, width))

	detail := LabelStyle.Render("Total ") + ValueStyle.Render(FormatBytes(m.Total)) +
		LabelStyle.Render("   Used ") + ValueStyle.Render(FormatBytes(m.Used())) +
		LabelStyle.Render("   Available ") + ValueStyle.Render(FormatBytes(m.Available))
	lines = append(lines, SectionContentLine(detail, width))

	if data := v.History.Last(SeriesMemory, width); len(data) > 1 {
		label := LabelStyle.Render("Trend ")
		lines = append(lines, SectionContentLine(label+PercentSparkline(data, sparklineWidth(width, label), v.Thresholds), width))
	}

	lines = append(lines, SectionFooter(width))
	return strings.Join(lines, "\n")
}

func (v View) renderDisk(s *Snapshot, width int) string {
	d := s.Disk

	var lines []string
	lines = append(lines, SectionHeader("Disk",
		"R "+FormatRate(d.ReadBytesPerSec)+"  W "+FormatRate(d.WriteBytesPerSec), width))

	lines = append(lines,
		SectionContentLine(LabelStyle.Render("Read  ")+ValueStyle.Render(fmt.Sprintf("%-12s", FormatRate(d.ReadBytesPerSec)))+
			MutedStyle.Render(FormatOps(d.ReadOpsPerSec)), width),
		SectionContentLine(LabelStyle.Render("Write ")+ValueStyle.Render(fmt.Sprintf("%-12s", FormatRate(d.WriteBytesPerSec)))+
			MutedStyle.Render(FormatOps(d.WriteOpsPerSec)), width),
	)

	if data := v.History.Last(SeriesDiskRead, width); len(data) > 1 {
		label := LabelStyle.Render("Read trend  ")
		lines = append(lines, SectionContentLine(label+RateSparkline(data, sparklineWidth(width, label)), width))
	}
	if data := v.History.Last(SeriesDiskWrite, width); len(data) > 1 {
		label := LabelStyle.Render("Write trend ")
		lines = append(lines, SectionContentLine(label+RateSparkline(data, sparklineWidth(width, label)), width))
	}

	if len(d.Volumes) == 0 {
		lines = append(lines, SectionContentLine(MutedStyle.Render("No volumes ready"), width))
	} else {
		nameWidth := 0
		for _, vol := range d.Volumes {
			nameWidth = max(nameWidth, lipgloss.Width(vol.Name))
		}
		for _, vol := range d.Volumes {
			pct := vol.Percent()
			line := LabelStyle.Render(fmt.Sprintf("%-*s ", nameWidth, vol.Name)) +
				ProgressBar(volBarWidth, pct, v.Thresholds) +
				v.Thresholds.MetricStyle(pct).Render(fmt.Sprintf(" %5.1f%%", pct)) +
				MutedStyle.Render(fmt.Sprintf("  %s / %s", FormatBytes(vol.Used()), FormatBytes(vol.Total)))
			lines = append(lines, SectionContentLine(line, width))
		}
	}

	lines = append(lines, SectionFooter(width))
	return strings.Join(lines, "\n")
}

func (v View) renderNetwork(s *Snapshot, width int) string {
	n := s.Network

	var lines []string
	lines = append(lines, SectionHeader("Network",
		"↑ "+FormatRate(n.TotalSent())+"  ↓ "+FormatRate(n.TotalReceived()), width))

	if data := v.History.Last(SeriesNetSent, width); len(data) > 1 {
		label := LabelStyle.Render("↑ trend ")
		lines = append(lines, SectionContentLine(label+RateSparkline(data, sparklineWidth(width, label)), width))
	}
	if data := v.History.Last(SeriesNetReceived, width); len(data) > 1 {
		label := LabelStyle.Render("↓ trend ")
		lines = append(lines, SectionContentLine(label+RateSparkline(data, sparklineWidth(width, label)), width))
	}

	if len(n.Interfaces) == 0 {
		lines = append(lines, SectionContentLine(MutedStyle.Render("No interfaces"), width))
	} else {
		nameWidth := 0
		for _, iface := range n.Interfaces {
			nameWidth = max(nameWidth, lipgloss.Width(iface.Name))
		}
		for _, iface := range n.Interfaces {
			line := LabelStyle.Render(fmt.Sprintf("%-*s ", nameWidth, iface.Name)) +
				ValueStyle.Render(fmt.Sprintf("↑ %-12s ↓ %-12s", FormatRate(iface.SentPerSec), FormatRate(iface.ReceivedPerSec)))
			if iface.Description != "" && iface.Description != iface.Name {
				line += MutedStyle.Render(" " + iface.Description)
			}
			lines = append(lines, SectionContentLine(line, width))
		}
	}

	lines = append(lines, SectionFooter(width))
	return strings.Join(lines, "\n")
}

func (v View) renderFaults(s *Snapshot) string {
	if len(s.Faults) == 0 {
		return ""
	}
	lines := make([]string, 0, len(s.Faults))
	for _, f := range s.Faults {
		lines = append(lines, FaultStyle.Render("! "+f.String()))
	}
	return strings.Join(lines, "\n")
}
