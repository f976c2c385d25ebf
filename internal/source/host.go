package source

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/net"
)

// DefaultReadTTL is how long a raw cumulative read is reused. It lets every
// per-core handle share one read per tick and must stay below
// config.MinInterval, so consecutive ticks never share a read.
const DefaultReadTTL = 50 * time.Millisecond

// HostProvider implements Provider on the local machine using gopsutil.
type HostProvider struct {
	perCPU   *memo[[]cpu.TimesStat]
	totalCPU *memo[[]cpu.TimesStat]
	diskIO   *memo[map[string]disk.IOCountersStat]
	netIO    *memo[[]net.IOCountersStat]
}

// NewHostProvider creates a provider reading the local host.
func NewHostProvider() *HostProvider {
	return newHostProvider(DefaultReadTTL, time.Now)
}

func newHostProvider(ttl time.Duration, now func() time.Time) *HostProvider {
	return &HostProvider{
		perCPU: newMemo(ttl, now, func(ctx context.Context) ([]cpu.TimesStat, error) {
			return cpu.TimesWithContext(ctx, true)
		}),
		totalCPU: newMemo(ttl, now, func(ctx context.Context) ([]cpu.TimesStat, error) {
			return cpu.TimesWithContext(ctx, false)
		}),
		diskIO: newMemo(ttl, now, func(ctx context.Context) (map[string]disk.IOCountersStat, error) {
			return disk.IOCountersWithContext(ctx)
		}),
		netIO: newMemo(ttl, now, func(ctx context.Context) ([]net.IOCountersStat, error) {
			return net.IOCountersWithContext(ctx, true)
		}),
	}
}

// ProcessorCount returns the number of logical processors.
func (h *HostProvider) ProcessorCount(ctx context.Context) (int, error) {
	return cpu.CountsWithContext(ctx, true)
}

// ProcessorName returns the first non-empty CPU model name.
func (h *HostProvider) ProcessorName(ctx context.Context) (string, error) {
	infos, err := cpu.InfoWithContext(ctx)
	if err != nil {
		return "", err
	}
	for _, info := range infos {
		if name := strings.TrimSpace(info.ModelName); name != "" {
			return name, nil
		}
	}
	return "", fmt.Errorf("no processor model reported")
}

// System returns host name, platform and kernel.
func (h *HostProvider) System(ctx context.Context) (SystemInfo, error) {
	info, err := host.InfoWithContext(ctx)
	if err != nil {
		return SystemInfo{}, err
	}
	platform := strings.TrimSpace(info.Platform + " " + info.PlatformVersion)
	if platform == "" {
		platform = info.OS
	}
	return SystemInfo{
		Hostname: info.Hostname,
		Platform: platform,
		Kernel:   info.KernelVersion,
	}, nil
}

// Interfaces enumerates network interfaces that report I/O counters.
func (h *HostProvider) Interfaces(ctx context.Context) ([]Interface, error) {
	counters, _, err := h.netIO.get(ctx)
	if err != nil {
		return nil, err
	}

	details := make(map[string]net.InterfaceStat)
	if stats, err := net.InterfacesWithContext(ctx); err == nil {
		for _, s := range stats {
			details[s.Name] = s
		}
	}

	out := make([]Interface, 0, len(counters))
	for _, c := range counters {
		iface := Interface{Name: c.Name, Description: c.Name}
		if d, ok := details[c.Name]; ok {
			iface.Description = describeInterface(d)
			iface.Loopback = hasFlag(d.Flags, "loopback")
		} else if c.Name == "lo" || strings.HasPrefix(c.Name, "lo0") {
			iface.Loopback = true
		}
		out = append(out, iface)
	}
	return out, nil
}

func describeInterface(s net.InterfaceStat) string {
	parts := []string{s.Name}
	if s.HardwareAddr != "" {
		parts = append(parts, s.HardwareAddr)
	}
	if hasFlag(s.Flags, "up") {
		parts = append(parts, "up")
	} else if len(s.Flags) > 0 {
		parts = append(parts, "down")
	}
	return strings.Join(parts, " ")
}

func hasFlag(flags []string, flag string) bool {
	for _, f := range flags {
		if f == flag {
			return true
		}
	}
	return false
}

// Volumes lists mounted filesystems whose usage can be read. A volume whose
// usage read fails is treated as not ready and skipped.
func (h *HostProvider) Volumes(ctx context.Context) ([]Volume, error) {
	parts, err := disk.PartitionsWithContext(ctx, false)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(parts))
	out := make([]Volume, 0, len(parts))
	for _, p := range parts {
		if p.Mountpoint == "" || seen[p.Mountpoint] {
			continue
		}
		seen[p.Mountpoint] = true

		usage, err := disk.UsageWithContext(ctx, p.Mountpoint)
		if err != nil || usage == nil || usage.Total == 0 {
			continue
		}
		out = append(out, Volume{
			Name:   p.Mountpoint,
			Device: p.Device,
			FSType: p.Fstype,
			Total:  usage.Total,
			Free:   usage.Free,
		})
	}
	return out, nil
}

// Memory reads total and available physical memory.
func (h *HostProvider) Memory(ctx context.Context) (Memory, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return Memory{}, err
	}
	return Memory{Total: vm.Total, Available: vm.Available}, nil
}

// Open binds a counter handle. It performs one read so that unavailable
// sources fail here rather than on every tick.
func (h *HostProvider) Open(ctx context.Context, d Descriptor) (Counter, error) {
	switch d.Kind {
	case KindCPUTotal:
		read := func(ctx context.Context) (CPUTimes, error) {
			times, _, err := h.totalCPU.get(ctx)
			if err != nil {
				return CPUTimes{}, err
			}
			if len(times) == 0 {
				return CPUTimes{}, fmt.Errorf("no aggregate cpu times")
			}
			return cpuTimes(times[0]), nil
		}
		if _, err := read(ctx); err != nil {
			return nil, err
		}
		return NewCPUCounter(read), nil

	case KindCPUCore:
		idx, err := strconv.Atoi(d.Instance)
		if err != nil || idx < 0 {
			return nil, fmt.Errorf("%w: core %q", ErrNoCounter, d.Instance)
		}
		read := func(ctx context.Context) (CPUTimes, error) {
			times, _, err := h.perCPU.get(ctx)
			if err != nil {
				return CPUTimes{}, err
			}
			if idx >= len(times) {
				return CPUTimes{}, fmt.Errorf("core %d not reported", idx)
			}
			return cpuTimes(times[idx]), nil
		}
		if _, err := read(ctx); err != nil {
			return nil, err
		}
		return NewCPUCounter(read), nil

	case KindDiskReadBytes, KindDiskWriteBytes, KindDiskReadOps, KindDiskWriteOps:
		field := diskField(d.Kind)
		read := func(ctx context.Context) (uint64, time.Time, error) {
			counters, at, err := h.diskIO.get(ctx)
			if err != nil {
				return 0, at, err
			}
			var sum uint64
			for name, c := range counters {
				if !IsPhysicalDisk(name, counters) {
					continue
				}
				sum += field(c)
			}
			return sum, at, nil
		}
		if _, _, err := read(ctx); err != nil {
			return nil, err
		}
		return NewStampedRateCounter(read), nil

	case KindNetSent, KindNetReceived:
		name := d.Instance
		sent := d.Kind == KindNetSent
		read := func(ctx context.Context) (uint64, time.Time, error) {
			counters, at, err := h.netIO.get(ctx)
			if err != nil {
				return 0, at, err
			}
			for _, c := range counters {
				if c.Name == name {
					if sent {
						return c.BytesSent, at, nil
					}
					return c.BytesRecv, at, nil
				}
			}
			return 0, at, fmt.Errorf("interface %s not found", name)
		}
		if _, _, err := read(ctx); err != nil {
			return nil, err
		}
		return NewStampedRateCounter(read), nil

	case KindUptime:
		read := CounterFunc(func(ctx context.Context) (float64, error) {
			secs, err := host.UptimeWithContext(ctx)
			return float64(secs), err
		})
		if _, err := read(ctx); err != nil {
			return nil, err
		}
		return read, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrNoCounter, d)
}

// cpuTimes folds a gopsutil reading into busy/total seconds. Guest time is
// already included in user and nice, so it is left out of the total.
func cpuTimes(t cpu.TimesStat) CPUTimes {
	total := t.User + t.System + t.Idle + t.Nice + t.Iowait + t.Irq + t.Softirq + t.Steal
	idle := t.Idle + t.Iowait
	return CPUTimes{Busy: total - idle, Total: total}
}

func diskField(k Kind) func(disk.IOCountersStat) uint64 {
	switch k {
	case KindDiskReadBytes:
		return func(c disk.IOCountersStat) uint64 { return c.ReadBytes }
	case KindDiskWriteBytes:
		return func(c disk.IOCountersStat) uint64 { return c.WriteBytes }
	case KindDiskReadOps:
		return func(c disk.IOCountersStat) uint64 { return c.ReadCount }
	default:
		return func(c disk.IOCountersStat) uint64 { return c.WriteCount }
	}
}

// memo caches one fallible read for ttl. get also returns when the value
// was fetched, so callers can tell a cached value from a fresh one.
type memo[T any] struct {
	ttl   time.Duration
	now   func() time.Time
	fetch func(ctx context.Context) (T, error)

	mu  sync.Mutex
	at  time.Time
	ok  bool
	val T
}

func newMemo[T any](ttl time.Duration, now func() time.Time, fetch func(ctx context.Context) (T, error)) *memo[T] {
	return &memo[T]{ttl: ttl, now: now, fetch: fetch}
}

func (m *memo[T]) get(ctx context.Context) (T, time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if m.ok && now.Sub(m.at) < m.ttl {
		return m.val, m.at, nil
	}

	v, err := m.fetch(ctx)
	if err != nil {
		m.ok = false
		var zero T
		return zero, now, err
	}
	m.val = v
	m.at = now
	m.ok = true
	return v, now, nil
}
