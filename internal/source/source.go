// Package source binds topnet to the operating system's metric providers.
//
// # Counter handles
//
// A Counter is bound to one logical counter ("total CPU", "core 3",
// "disk read bytes", "eth0 bytes sent") and exposes a single operation,
// Sample. Rate counters return values already normalized to per-second
// rates; the rate math lives provider-side in RateCounter and CPUCounter.
// The first sample of a rate counter is a warm-up artifact (always 0) and
// callers must discard it.
//
// # Registry
//
// NewRegistry enumerates the fixed set of handles once at startup. Any
// handle that fails to open is omitted and recorded; sampling a missing
// handle later yields ErrHandleMissing for that one metric. Disk volumes and
// memory are gauges read straight from the Provider on every call, since
// volumes can be mounted and unmounted at runtime.
package source

import (
	"context"
	"errors"
	"fmt"
	"strconv"
)

// Kind identifies what a counter handle measures.
type Kind int

const (
	KindCPUTotal Kind = iota
	KindCPUCore
	KindDiskReadBytes
	KindDiskWriteBytes
	KindDiskReadOps
	KindDiskWriteOps
	KindNetSent
	KindNetReceived
	KindUptime
)

var kindNames = map[Kind]string{
	KindCPUTotal:       "cpu.total",
	KindCPUCore:        "cpu.core",
	KindDiskReadBytes:  "disk.read_bytes",
	KindDiskWriteBytes: "disk.write_bytes",
	KindDiskReadOps:    "disk.read_ops",
	KindDiskWriteOps:   "disk.write_ops",
	KindNetSent:        "net.sent",
	KindNetReceived:    "net.received",
	KindUptime:         "uptime",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// IsRate reports whether the kind is a per-second rate that needs a
// discarded warm-up sample.
func (k Kind) IsRate() bool {
	return k != KindUptime
}

// DiskKinds lists the four aggregate disk rate handles in display order.
var DiskKinds = []Kind{KindDiskReadBytes, KindDiskWriteBytes, KindDiskReadOps, KindDiskWriteOps}

// Descriptor names one counter handle. Instance is the core index for
// KindCPUCore and the interface name for network kinds; it is empty otherwise.
type Descriptor struct {
	Kind     Kind
	Instance string
}

func (d Descriptor) String() string {
	if d.Instance == "" {
		return d.Kind.String()
	}
	return d.Kind.String() + "[" + d.Instance + "]"
}

// CoreDescriptor returns the descriptor for logical processor i.
func CoreDescriptor(i int) Descriptor {
	return Descriptor{Kind: KindCPUCore, Instance: strconv.Itoa(i)}
}

// Counter is an opaque handle to one metric source.
type Counter interface {
	Sample(ctx context.Context) (float64, error)
}

// CounterFunc adapts a function to the Counter interface.
type CounterFunc func(ctx context.Context) (float64, error)

// Sample calls f(ctx).
func (f CounterFunc) Sample(ctx context.Context) (float64, error) {
	return f(ctx)
}

// SystemInfo holds static host facts resolved once at startup.
type SystemInfo struct {
	Hostname string
	Platform string
	Kernel   string
}

// Interface is a network interface discovered at startup.
type Interface struct {
	Name        string
	Description string
	Loopback    bool
}

// Volume is a mounted filesystem with readable space figures.
type Volume struct {
	Name   string
	Device string
	FSType string
	Total  uint64
	Free   uint64
}

// Memory is a physical memory gauge reading.
type Memory struct {
	Total     uint64
	Available uint64
}

// Provider is the boundary to the OS metric facilities. Every method may
// fail or block; none is expected to track topology changes except Volumes.
type Provider interface {
	ProcessorCount(ctx context.Context) (int, error)
	ProcessorName(ctx context.Context) (string, error)
	System(ctx context.Context) (SystemInfo, error)
	Interfaces(ctx context.Context) ([]Interface, error)
	Volumes(ctx context.Context) ([]Volume, error)
	Memory(ctx context.Context) (Memory, error)
	Open(ctx context.Context, d Descriptor) (Counter, error)
}

var (
	// ErrHandleMissing is returned when sampling a metric whose handle
	// failed to open at startup.
	ErrHandleMissing = errors.New("counter handle not available")

	// ErrNoCounter is returned by a Provider asked to open a descriptor it
	// does not serve.
	ErrNoCounter = errors.New("no such counter")

	// ErrNoHandles is the cause of a strict NewRegistry failure.
	ErrNoHandles = errors.New("no counter handles opened")
)

// SampleError reports a failed sample of one handle.
type SampleError struct {
	Descriptor Descriptor
	Err        error
}

func (e *SampleError) Error() string {
	return fmt.Sprintf("sample %s: %v", e.Descriptor, e.Err)
}

func (e *SampleError) Unwrap() error {
	return e.Err
}
