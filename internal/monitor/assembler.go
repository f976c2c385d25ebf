package monitor

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rileyhilliard/topnet/internal/logger"
	"github.com/rileyhilliard/topnet/internal/source"
)

// AssemblerOptions tunes snapshot assembly.
type AssemblerOptions struct {
	// SampleTimeout bounds each category's collection. Zero disables it.
	SampleTimeout time.Duration
}

// Assembler turns the Registry's handles into one Snapshot per call.
// A failure in one category is recorded as a Fault and never stops the
// other categories from being collected.
type Assembler struct {
	reg  *source.Registry
	log  logger.Logger
	opts AssemblerOptions
	now  func() time.Time

	// last-known values used when a rate handle fails for one tick
	mu        sync.Mutex
	lastTotal float64
	lastDisk  map[source.Kind]float64
	lastNet   map[source.Descriptor]float64
	lastUp    time.Duration
}

// NewAssembler creates an Assembler over reg.
func NewAssembler(reg *source.Registry, log logger.Logger, opts AssemblerOptions) *Assembler {
	if log == nil {
		log = logger.Noop()
	}
	return &Assembler{
		reg:      reg,
		log:      log,
		opts:     opts,
		now:      time.Now,
		lastDisk: make(map[source.Kind]float64, len(source.DiskKinds)),
		lastNet:  make(map[source.Descriptor]float64),
	}
}

// Assemble samples every handle and returns a new Snapshot. It only fails
// when ctx is done.
func (a *Assembler) Assemble(ctx context.Context) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	sys := a.reg.System()
	s := &Snapshot{
		Timestamp:      a.now(),
		Hostname:       sys.Hostname,
		System:         sys,
		MissingHandles: len(a.reg.Failures()),
		CPU: CPUReading{
			ProcessorCount: a.reg.ProcessorCount(),
			ProcessorName:  a.reg.ProcessorName(),
		},
	}

	a.collect(ctx, s, CategoryCPU, func(ctx context.Context) error { return a.collectCPU(ctx, s) })
	a.collect(ctx, s, CategoryMemory, func(ctx context.Context) error { return a.collectMemory(ctx, s) })
	a.collect(ctx, s, CategoryDisk, func(ctx context.Context) error { return a.collectDisk(ctx, s) })
	a.collect(ctx, s, CategoryNetwork, func(ctx context.Context) error { return a.collectNetwork(ctx, s) })
	a.collect(ctx, s, CategorySystem, func(ctx context.Context) error { return a.collectUptime(ctx, s) })

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s, nil
}

// collect runs one category collector, converting an error or a panic into
// a Fault on s.
func (a *Assembler) collect(ctx context.Context, s *Snapshot, cat Category, fn func(context.Context) error) {
	if ctx.Err() != nil {
		return
	}
	if a.opts.SampleTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.opts.SampleTimeout)
		defer cancel()
	}

	err := func() (err error) {
		defer func() {
			if rec := recover(); rec != nil {
				err = fmt.Errorf("panic: %v", rec)
			}
		}()
		return fn(ctx)
	}()
	if err == nil {
		return
	}

	a.log.Warn("%s collection failed: %v", cat, err)
	s.Faults = append(s.Faults, Fault{Category: cat, Message: err.Error()})
}

// sample reads one handle. Failures are logged at debug level and reported
// through ok; they never fail the category.
func (a *Assembler) sample(ctx context.Context, c source.Counter, d source.Descriptor) (float64, bool) {
	v, err := source.Sample(ctx, c, d)
	if err != nil {
		a.log.Debug("%v", err)
		return 0, false
	}
	return v, true
}

func (a *Assembler) collectCPU(ctx context.Context, s *Snapshot) error {
	if v, ok := a.sample(ctx, a.reg.CPUTotal(), source.Descriptor{Kind: source.KindCPUTotal}); ok {
		a.lastTotal = source.ClampPercent(v)
	}
	s.CPU.Total = a.lastTotal

	cores := make([]CoreUsage, 0, a.reg.ProcessorCount())
	for i := 0; i < a.reg.ProcessorCount(); i++ {
		c := a.reg.Core(i)
		if c == nil {
			continue
		}
		if v, ok := a.sample(ctx, c, source.CoreDescriptor(i)); ok {
			cores = append(cores, CoreUsage{Index: i, Percent: source.ClampPercent(v)})
		}
	}
	sort.Slice(cores, func(i, j int) bool { return cores[i].Index < cores[j].Index })
	s.CPU.Cores = cores
	return nil
}

func (a *Assembler) collectMemory(ctx context.Context, s *Snapshot) error {
	m, err := a.reg.Memory(ctx)
	if err != nil {
		return err
	}
	s.Memory = MemoryReading{Total: m.Total, Available: m.Available}
	return nil
}

func (a *Assembler) collectDisk(ctx context.Context, s *Snapshot) error {
	rates := make(map[source.Kind]float64, len(source.DiskKinds))
	for _, k := range source.DiskKinds {
		if v, ok := a.sample(ctx, a.reg.Disk(k), source.Descriptor{Kind: k}); ok {
			a.lastDisk[k] = nonNegative(v)
		}
		rates[k] = a.lastDisk[k]
	}
	s.Disk.ReadBytesPerSec = rates[source.KindDiskReadBytes]
	s.Disk.WriteBytesPerSec = rates[source.KindDiskWriteBytes]
	s.Disk.ReadOpsPerSec = rates[source.KindDiskReadOps]
	s.Disk.WriteOpsPerSec = rates[source.KindDiskWriteOps]

	vols, err := a.reg.Volumes(ctx)
	if err != nil {
		a.log.Warn("volume enumeration failed: %v", err)
		s.Faults = append(s.Faults, Fault{Category: CategoryDisk, Metric: "volumes", Message: err.Error()})
		return nil
	}
	s.Disk.Volumes = make([]VolumeReading, 0, len(vols))
	for _, v := range vols {
		s.Disk.Volumes = append(s.Disk.Volumes, VolumeReading{Name: v.Name, Total: v.Total, Free: v.Free})
	}
	return nil
}

func (a *Assembler) collectNetwork(ctx context.Context, s *Snapshot) error {
	handles := a.reg.Interfaces()
	s.Network.Interfaces = make([]InterfaceReading, 0, len(handles))
	for _, h := range handles {
		s.Network.Interfaces = append(s.Network.Interfaces, InterfaceReading{
			Name:           h.Name,
			Description:    h.Description,
			SentPerSec:     a.rate(ctx, h.Sent, source.Descriptor{Kind: source.KindNetSent, Instance: h.Name}),
			ReceivedPerSec: a.rate(ctx, h.Received, source.Descriptor{Kind: source.KindNetReceived, Instance: h.Name}),
		})
	}
	return nil
}

// rate samples an interface handle, keeping the last good value on failure.
func (a *Assembler) rate(ctx context.Context, c source.Counter, d source.Descriptor) float64 {
	if v, ok := a.sample(ctx, c, d); ok {
		a.lastNet[d] = nonNegative(v)
	}
	return a.lastNet[d]
}

func (a *Assembler) collectUptime(ctx context.Context, s *Snapshot) error {
	if v, ok := a.sample(ctx, a.reg.Uptime(), source.Descriptor{Kind: source.KindUptime}); ok && v >= 0 {
		a.lastUp = time.Duration(v * float64(time.Second))
	}
	s.Uptime = a.lastUp
	return nil
}

func nonNegative(v float64) float64 {
	if v < 0 || v != v {
		return 0
	}
	return v
}
