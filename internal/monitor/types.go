package monitor

import (
	"time"

	"github.com/rileyhilliard/topnet/internal/source"
)

// Category is one independently collected group of metrics.
type Category string

const (
	CategoryCPU     Category = "cpu"
	CategoryMemory  Category = "memory"
	CategoryDisk    Category = "disk"
	CategoryNetwork Category = "network"
	CategorySystem  Category = "system"
)

// Snapshot is one fully assembled set of metrics for a single tick.
// It is never modified after Assemble returns it.
type Snapshot struct {
	Timestamp time.Time
	Hostname  string
	System    source.SystemInfo
	Uptime    time.Duration

	CPU     CPUReading
	Memory  MemoryReading
	Disk    DiskReading
	Network NetworkReading

	// Faults lists category failures collected this tick.
	Faults []Fault

	// MissingHandles counts counters that could not be opened at startup.
	MissingHandles int
}

// Fault describes a category that failed during assembly. The category's
// section in the snapshot holds defaults or last-known values.
type Fault struct {
	Category Category
	Metric   string
	Message  string
}

func (f Fault) String() string {
	if f.Metric == "" {
		return string(f.Category) + ": " + f.Message
	}
	return string(f.Category) + "/" + f.Metric + ": " + f.Message
}

// CoreUsage is the usage of one logical processor.
type CoreUsage struct {
	Index   int
	Percent float64
}

// CPUReading holds processor usage.
type CPUReading struct {
	// Total usage, clamped to [0, 100].
	Total float64

	// Cores is sorted by index. A core whose handle failed this tick is
	// absent, never present with a placeholder.
	Cores []CoreUsage

	ProcessorCount int
	ProcessorName  string
}

// CoreIndexes returns the indexes of the cores present in the reading.
func (c CPUReading) CoreIndexes() []int {
	out := make([]int, len(c.Cores))
	for i, core := range c.Cores {
		out[i] = core.Index
	}
	return out
}

// Core returns the usage of core i and whether it was sampled.
func (c CPUReading) Core(i int) (float64, bool) {
	for _, core := range c.Cores {
		if core.Index == i {
			return core.Percent, true
		}
	}
	return 0, false
}

// MemoryReading holds physical memory figures. Used and Percent are derived.
type MemoryReading struct {
	Total     uint64
	Available uint64
}

// Used returns Total - Available.
func (m MemoryReading) Used() uint64 {
	used, _ := usage(m.Total, m.Available)
	return used
}

// Percent returns Used/Total*100, or 0 when Total is 0.
func (m MemoryReading) Percent() float64 {
	_, pct := usage(m.Total, m.Available)
	return pct
}

// DiskReading holds aggregate disk rates across physical disks plus the
// volumes that were ready this tick.
type DiskReading struct {
	ReadBytesPerSec  float64
	WriteBytesPerSec float64
	ReadOpsPerSec    float64
	WriteOpsPerSec   float64

	Volumes []VolumeReading
}

// VolumeReading holds the space figures of one mounted volume.
type VolumeReading struct {
	Name  string
	Total uint64
	Free  uint64
}

// Used returns Total - Free.
func (v VolumeReading) Used() uint64 {
	used, _ := usage(v.Total, v.Free)
	return used
}

// Percent returns Used/Total*100, or 0 when Total is 0.
func (v VolumeReading) Percent() float64 {
	_, pct := usage(v.Total, v.Free)
	return pct
}

// NetworkReading holds per-interface throughput. Totals are derived.
type NetworkReading struct {
	Interfaces []InterfaceReading
}

// InterfaceReading holds the throughput of one interface.
type InterfaceReading struct {
	Name           string
	Description    string
	SentPerSec     float64
	ReceivedPerSec float64
}

// TotalSent sums bytes sent per second across interfaces.
func (n NetworkReading) TotalSent() float64 {
	var sum float64
	for _, iface := range n.Interfaces {
		sum += iface.SentPerSec
	}
	return sum
}

// TotalReceived sums bytes received per second across interfaces.
func (n NetworkReading) TotalReceived() float64 {
	var sum float64
	for _, iface := range n.Interfaces {
		sum += iface.ReceivedPerSec
	}
	return sum
}

// usage derives used bytes and percentage from a total and a free/available
// figure. A zero total yields 0%; free above total yields 0 used.
func usage(total, free uint64) (uint64, float64) {
	if total == 0 {
		return 0, 0
	}
	if free > total {
		return 0, 0
	}
	used := total - free
	return used, source.ClampPercent(float64(used) / float64(total) * 100)
}
