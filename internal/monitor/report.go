package monitor

import (
	"time"
)

// Report is the serializable form of a Snapshot, with derived figures
// materialized for the json and yaml outputs of the snapshot command.
type Report struct {
	Timestamp      time.Time     `json:"timestamp" yaml:"timestamp"`
	Hostname       string        `json:"hostname" yaml:"hostname"`
	Platform       string        `json:"platform,omitempty" yaml:"platform,omitempty"`
	Kernel         string        `json:"kernel,omitempty" yaml:"kernel,omitempty"`
	UptimeSeconds  int64         `json:"uptime_seconds" yaml:"uptime_seconds"`
	CPU            CPUReport     `json:"cpu" yaml:"cpu"`
	Memory         MemoryReport  `json:"memory" yaml:"memory"`
	Disk           DiskReport    `json:"disk" yaml:"disk"`
	Network        NetworkReport `json:"network" yaml:"network"`
	Faults         []string      `json:"faults,omitempty" yaml:"faults,omitempty"`
	MissingHandles int           `json:"missing_handles,omitempty" yaml:"missing_handles,omitempty"`
}

type CPUReport struct {
	TotalPercent   float64      `json:"total_percent" yaml:"total_percent"`
	ProcessorCount int          `json:"processor_count" yaml:"processor_count"`
	ProcessorName  string       `json:"processor_name" yaml:"processor_name"`
	Cores          []CoreReport `json:"cores" yaml:"cores"`
}

type CoreReport struct {
	Index   int     `json:"index" yaml:"index"`
	Percent float64 `json:"percent" yaml:"percent"`
}

type MemoryReport struct {
	TotalBytes     uint64  `json:"total_bytes" yaml:"total_bytes"`
	AvailableBytes uint64  `json:"available_bytes" yaml:"available_bytes"`
	UsedBytes      uint64  `json:"used_bytes" yaml:"used_bytes"`
	UsedPercent    float64 `json:"used_percent" yaml:"used_percent"`
}

type DiskReport struct {
	ReadBytesPerSec  float64        `json:"read_bytes_per_sec" yaml:"read_bytes_per_sec"`
	WriteBytesPerSec float64        `json:"write_bytes_per_sec" yaml:"write_bytes_per_sec"`
	ReadOpsPerSec    float64        `json:"read_ops_per_sec" yaml:"read_ops_per_sec"`
	WriteOpsPerSec   float64        `json:"write_ops_per_sec" yaml:"write_ops_per_sec"`
	Volumes          []VolumeReport `json:"volumes" yaml:"volumes"`
}

type VolumeReport struct {
	Name        string  `json:"name" yaml:"name"`
	TotalBytes  uint64  `json:"total_bytes" yaml:"total_bytes"`
	FreeBytes   uint64  `json:"free_bytes" yaml:"free_bytes"`
	UsedBytes   uint64  `json:"used_bytes" yaml:"used_bytes"`
	UsedPercent float64 `json:"used_percent" yaml:"used_percent"`
}

type NetworkReport struct {
	SentPerSec     float64           `json:"sent_per_sec" yaml:"sent_per_sec"`
	ReceivedPerSec float64           `json:"received_per_sec" yaml:"received_per_sec"`
	Interfaces     []InterfaceReport `json:"interfaces" yaml:"interfaces"`
}

type InterfaceReport struct {
	Name           string  `json:"name" yaml:"name"`
	Description    string  `json:"description,omitempty" yaml:"description,omitempty"`
	SentPerSec     float64 `json:"sent_per_sec" yaml:"sent_per_sec"`
	ReceivedPerSec float64 `json:"received_per_sec" yaml:"received_per_sec"`
}

// NewReport converts a snapshot. Collections are never nil so encoders emit
// empty lists rather than null.
func NewReport(s *Snapshot) Report {
	if s == nil {
		return Report{}
	}

	r := Report{
		Timestamp:      s.Timestamp,
		Hostname:       s.Hostname,
		Platform:       s.System.Platform,
		Kernel:         s.System.Kernel,
		UptimeSeconds:  int64(s.Uptime / time.Second),
		MissingHandles: s.MissingHandles,
		CPU: CPUReport{
			TotalPercent:   s.CPU.Total,
			ProcessorCount: s.CPU.ProcessorCount,
			ProcessorName:  s.CPU.ProcessorName,
			Cores:          make([]CoreReport, 0, len(s.CPU.Cores)),
		},
		Memory: MemoryReport{
			TotalBytes:     s.Memory.Total,
			AvailableBytes: s.Memory.Available,
			UsedBytes:      s.Memory.Used(),
			UsedPercent:    s.Memory.Percent(),
		},
		Disk: DiskReport{
			ReadBytesPerSec:  s.Disk.ReadBytesPerSec,
			WriteBytesPerSec: s.Disk.WriteBytesPerSec,
			ReadOpsPerSec:    s.Disk.ReadOpsPerSec,
			WriteOpsPerSec:   s.Disk.WriteOpsPerSec,
			Volumes:          make([]VolumeReport, 0, len(s.Disk.Volumes)),
		},
		Network: NetworkReport{
			SentPerSec:     s.Network.TotalSent(),
			ReceivedPerSec: s.Network.TotalReceived(),
			Interfaces:     make([]InterfaceReport, 0, len(s.Network.Interfaces)),
		},
	}

	for _, c := range s.CPU.Cores {
		r.CPU.Cores = append(r.CPU.Cores, CoreReport{Index: c.Index, Percent: c.Percent})
	}
	for _, v := range s.Disk.Volumes {
		r.Disk.Volumes = append(r.Disk.Volumes, VolumeReport{
			Name:        v.Name,
			TotalBytes:  v.Total,
			FreeBytes:   v.Free,
			UsedBytes:   v.Used(),
			UsedPercent: v.Percent(),
		})
	}
	for _, iface := range s.Network.Interfaces {
		r.Network.Interfaces = append(r.Network.Interfaces, InterfaceReport{
			Name:           iface.Name,
			Description:    iface.Description,
			SentPerSec:     iface.SentPerSec,
			ReceivedPerSec: iface.ReceivedPerSec,
		})
	}
	for _, f := range s.Faults {
		r.Faults = append(r.Faults, f.String())
	}
	return r
}
