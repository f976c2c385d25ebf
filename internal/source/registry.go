package source

import (
	"context"
	"fmt"
	"os"
	"path"
	"runtime"
	"strings"

	"github.com/rileyhilliard/topnet/internal/errors"
	"github.com/rileyhilliard/topnet/internal/logger"
)

// UnknownProcessor is shown when the processor name cannot be resolved.
const UnknownProcessor = "Unknown"

// Options controls handle enumeration.
type Options struct {
	// Strict makes NewRegistry fail when no handle could be opened.
	Strict bool

	// IncludeLoopback keeps loopback interfaces.
	IncludeLoopback bool

	// ExcludeInterfaces are path.Match globs of interface names to skip.
	ExcludeInterfaces []string
}

// Failure records a handle that could not be opened.
type Failure struct {
	Descriptor Descriptor
	Err        error
}

// InterfaceHandles pairs an interface with its sent/received counters.
// Either counter may be nil if it failed to open.
type InterfaceHandles struct {
	Interface
	Sent     Counter
	Received Counter
}

// Registry holds the fixed set of counter handles for the process lifetime.
// It is read-only after NewRegistry returns.
type Registry struct {
	provider Provider

	processorCount int
	processorName  string
	system         SystemInfo

	cpuTotal   Counter
	cores      []Counter
	disk       map[Kind]Counter
	interfaces []InterfaceHandles
	uptime     Counter

	handles  int
	failures []Failure
}

// NewRegistry enumerates and opens every handle once. Handles that fail to
// open are omitted and recorded; they never abort the rest of the
// enumeration. With opts.Strict, a registry with zero handles is an error.
func NewRegistry(ctx context.Context, p Provider, log logger.Logger, opts Options) (*Registry, error) {
	if log == nil {
		log = logger.Noop()
	}

	r := &Registry{
		provider: p,
		disk:     make(map[Kind]Counter, len(DiskKinds)),
	}

	r.processorName = UnknownProcessor
	if name, err := guard(func() (string, error) { return p.ProcessorName(ctx) }); err != nil {
		log.Warn("processor name unavailable: %v", err)
	} else if strings.TrimSpace(name) != "" {
		r.processorName = strings.TrimSpace(name)
	}

	r.processorCount = runtime.NumCPU()
	if n, err := guard(func() (int, error) { return p.ProcessorCount(ctx) }); err != nil || n <= 0 {
		log.Warn("processor count unavailable, using %d: %v", r.processorCount, err)
	} else {
		r.processorCount = n
	}

	if sys, err := guard(func() (SystemInfo, error) { return p.System(ctx) }); err != nil {
		log.Warn("host information unavailable: %v", err)
	} else {
		r.system = sys
	}
	if r.system.Hostname == "" {
		if h, err := os.Hostname(); err == nil {
			r.system.Hostname = h
		}
	}

	r.cpuTotal = r.open(ctx, log, Descriptor{Kind: KindCPUTotal})

	r.cores = make([]Counter, r.processorCount)
	for i := range r.cores {
		r.cores[i] = r.open(ctx, log, CoreDescriptor(i))
	}

	for _, k := range DiskKinds {
		if c := r.open(ctx, log, Descriptor{Kind: k}); c != nil {
			r.disk[k] = c
		}
	}

	ifaces, err := guard(func() ([]Interface, error) { return p.Interfaces(ctx) })
	if err != nil {
		log.Warn("network interfaces unavailable: %v", err)
	}
	for _, iface := range FilterInterfaces(ifaces, opts) {
		h := InterfaceHandles{
			Interface: iface,
			Sent:      r.open(ctx, log, Descriptor{Kind: KindNetSent, Instance: iface.Name}),
			Received:  r.open(ctx, log, Descriptor{Kind: KindNetReceived, Instance: iface.Name}),
		}
		if h.Sent == nil && h.Received == nil {
			continue
		}
		if h.Description == "" {
			h.Description = h.Name
		}
		r.interfaces = append(r.interfaces, h)
	}

	r.uptime = r.open(ctx, log, Descriptor{Kind: KindUptime})

	if r.handles == 0 {
		if opts.Strict {
			return nil, errors.WrapWithCode(ErrNoHandles, errors.ErrSource,
				"No metric counters could be opened",
				"Check that topnet can read system statistics, or set source.strict to false to run with empty metrics")
		}
		log.Warn("no metric counters could be opened; all metrics will read zero")
	}

	log.Debug("registry ready: %d handles, %d failures, %d cores, %d interfaces",
		r.handles, len(r.failures), r.processorCount, len(r.interfaces))

	return r, nil
}

func (r *Registry) open(ctx context.Context, log logger.Logger, d Descriptor) Counter {
	c, err := guard(func() (Counter, error) { return r.provider.Open(ctx, d) })
	if err == nil && c == nil {
		err = ErrNoCounter
	}
	if err != nil {
		log.Warn("counter %s unavailable: %v", d, err)
		r.failures = append(r.failures, Failure{Descriptor: d, Err: err})
		return nil
	}
	r.handles++
	return c
}

// FilterInterfaces applies the loopback and exclude-glob rules.
func FilterInterfaces(ifaces []Interface, opts Options) []Interface {
	out := make([]Interface, 0, len(ifaces))
	seen := make(map[string]bool, len(ifaces))
	for _, iface := range ifaces {
		if iface.Name == "" || seen[iface.Name] {
			continue
		}
		if iface.Loopback && !opts.IncludeLoopback {
			continue
		}
		if excluded(iface.Name, opts.ExcludeInterfaces) {
			continue
		}
		seen[iface.Name] = true
		out = append(out, iface)
	}
	return out
}

func excluded(name string, patterns []string) bool {
	for _, p := range patterns {
		if ok, _ := path.Match(p, name); ok {
			return true
		}
	}
	return false
}

// ProcessorCount returns the logical processor count fixed at startup.
func (r *Registry) ProcessorCount() int { return r.processorCount }

// ProcessorName returns the cached processor display name.
func (r *Registry) ProcessorName() string { return r.processorName }

// System returns the host facts resolved at startup.
func (r *Registry) System() SystemInfo { return r.system }

// CPUTotal returns the total CPU handle, or nil.
func (r *Registry) CPUTotal() Counter { return r.cpuTotal }

// Core returns the handle for logical processor i, or nil.
func (r *Registry) Core(i int) Counter {
	if i < 0 || i >= len(r.cores) {
		return nil
	}
	return r.cores[i]
}

// Disk returns the aggregate disk handle for k, or nil.
func (r *Registry) Disk(k Kind) Counter { return r.disk[k] }

// Interfaces returns the interface handles captured at startup.
func (r *Registry) Interfaces() []InterfaceHandles {
	out := make([]InterfaceHandles, len(r.interfaces))
	copy(out, r.interfaces)
	return out
}

// Uptime returns the uptime handle, or nil.
func (r *Registry) Uptime() Counter { return r.uptime }

// Handles returns the number of handles that opened successfully.
func (r *Registry) Handles() int { return r.handles }

// Failures returns the handles that failed to open.
func (r *Registry) Failures() []Failure {
	out := make([]Failure, len(r.failures))
	copy(out, r.failures)
	return out
}

// Memory reads the physical memory gauge.
func (r *Registry) Memory(ctx context.Context) (Memory, error) {
	return guard(func() (Memory, error) { return r.provider.Memory(ctx) })
}

// Volumes re-enumerates ready volumes from the provider.
func (r *Registry) Volumes(ctx context.Context) ([]Volume, error) {
	return guard(func() ([]Volume, error) { return r.provider.Volumes(ctx) })
}

// Sample reads c, converting a missing handle, an error or a panic into a
// *SampleError for d.
func Sample(ctx context.Context, c Counter, d Descriptor) (float64, error) {
	if c == nil {
		return 0, &SampleError{Descriptor: d, Err: ErrHandleMissing}
	}
	v, err := guard(func() (float64, error) { return c.Sample(ctx) })
	if err != nil {
		return 0, &SampleError{Descriptor: d, Err: err}
	}
	return v, nil
}

// guard runs fn, turning a panic in provider code into an error.
func guard[T any](fn func() (T, error)) (v T, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			var zero T
			v = zero
			err = fmt.Errorf("provider panic: %v", rec)
		}
	}()
	return fn()
}
