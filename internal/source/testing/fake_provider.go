// Package testing provides test doubles for the source package.
package testing

import (
	"context"
	"fmt"
	"sync"

	"github.com/rileyhilliard/topnet/internal/source"
)

// FakeCounter returns scripted values. Once the script is exhausted the
// last value repeats.
type FakeCounter struct {
	mu sync.Mutex

	Values []float64
	Err    error // returned instead of a value when set
	Panic  any   // panics with this value when set
	Block  bool  // blocks until the context is done

	calls int
}

// NewFakeCounter creates a counter that returns values in order.
func NewFakeCounter(values ...float64) *FakeCounter {
	return &FakeCounter{Values: values}
}

// Sample implements source.Counter.
func (c *FakeCounter) Sample(ctx context.Context) (float64, error) {
	c.mu.Lock()
	c.calls++
	call := c.calls
	err, p, block := c.Err, c.Panic, c.Block
	values := c.Values
	c.mu.Unlock()

	if block {
		<-ctx.Done()
		return 0, ctx.Err()
	}
	if p != nil {
		panic(p)
	}
	if err != nil {
		return 0, err
	}
	if len(values) == 0 {
		return 0, nil
	}
	if call > len(values) {
		return values[len(values)-1], nil
	}
	return values[call-1], nil
}

// Calls returns how many times Sample was called.
func (c *FakeCounter) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

// SetErr changes the error returned by later samples.
func (c *FakeCounter) SetErr(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Err = err
}

// FakeProvider simulates an OS metric provider for testing. Configure the
// exported fields before use; once a scheduler is running, change them
// through the Set helpers.
type FakeProvider struct {
	mu sync.Mutex

	Count    int
	CountErr error
	Name     string
	NameErr  error
	Sys      source.SystemInfo
	SysErr   error

	Ifaces    []source.Interface
	IfacesErr error

	Vols     []source.Volume
	VolsErr  error
	VolsHook func(call int) ([]source.Volume, error)

	Mem      source.Memory
	MemErr   error
	MemPanic any

	// Counters maps descriptors to handles returned by Open. A descriptor
	// missing from the map fails to open with source.ErrNoCounter.
	Counters map[source.Descriptor]source.Counter
	OpenErr  map[source.Descriptor]error

	OpenCalls []source.Descriptor
	volCalls  int
}

// NewFakeProvider creates a provider for a host with the given core count.
// Every CPU handle (total and per core), the four disk handles and uptime
// are pre-populated with counters that return 0; tests replace entries as
// needed.
func NewFakeProvider(cores int) *FakeProvider {
	p := &FakeProvider{
		Count:    cores,
		Name:     "Fake CPU @ 3.00GHz",
		Sys:      source.SystemInfo{Hostname: "testhost", Platform: "fakeos 1.0", Kernel: "6.0.0"},
		Counters: make(map[source.Descriptor]source.Counter),
		OpenErr:  make(map[source.Descriptor]error),
	}
	p.Counters[source.Descriptor{Kind: source.KindCPUTotal}] = NewFakeCounter()
	for i := 0; i < cores; i++ {
		p.Counters[source.CoreDescriptor(i)] = NewFakeCounter()
	}
	for _, k := range source.DiskKinds {
		p.Counters[source.Descriptor{Kind: k}] = NewFakeCounter()
	}
	p.Counters[source.Descriptor{Kind: source.KindUptime}] = NewFakeCounter()
	return p
}

// AddInterface registers an interface with sent/received counters. A nil
// counter leaves that direction unopenable.
func (p *FakeProvider) AddInterface(name string, sent, received *FakeCounter) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Ifaces = append(p.Ifaces, source.Interface{Name: name, Description: name})
	if sent != nil {
		p.Counters[source.Descriptor{Kind: source.KindNetSent, Instance: name}] = sent
	}
	if received != nil {
		p.Counters[source.Descriptor{Kind: source.KindNetReceived, Instance: name}] = received
	}
}

// Set replaces the counter for d.
func (p *FakeProvider) Set(d source.Descriptor, c source.Counter) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Counters[d] = c
}

// SetMemory replaces the memory reading and error.
func (p *FakeProvider) SetMemory(m source.Memory, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Mem = m
	p.MemErr = err
}

// SetVolumes replaces the volume list and error.
func (p *FakeProvider) SetVolumes(v []source.Volume, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Vols = v
	p.VolsErr = err
}

func (p *FakeProvider) ProcessorCount(ctx context.Context) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.Count, p.CountErr
}

func (p *FakeProvider) ProcessorName(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.Name, p.NameErr
}

func (p *FakeProvider) System(ctx context.Context) (source.SystemInfo, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.Sys, p.SysErr
}

func (p *FakeProvider) Interfaces(ctx context.Context) ([]source.Interface, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]source.Interface, len(p.Ifaces))
	copy(out, p.Ifaces)
	return out, p.IfacesErr
}

func (p *FakeProvider) Volumes(ctx context.Context) ([]source.Volume, error) {
	p.mu.Lock()
	p.volCalls++
	call := p.volCalls
	hook := p.VolsHook
	out := make([]source.Volume, len(p.Vols))
	copy(out, p.Vols)
	err := p.VolsErr
	p.mu.Unlock()

	if hook != nil {
		return hook(call)
	}
	return out, err
}

func (p *FakeProvider) Memory(ctx context.Context) (source.Memory, error) {
	p.mu.Lock()
	m, err, pv := p.Mem, p.MemErr, p.MemPanic
	p.mu.Unlock()

	if pv != nil {
		panic(pv)
	}
	return m, err
}

func (p *FakeProvider) Open(ctx context.Context, d source.Descriptor) (source.Counter, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.OpenCalls = append(p.OpenCalls, d)

	if err, ok := p.OpenErr[d]; ok {
		return nil, err
	}
	c, ok := p.Counters[d]
	if !ok {
		return nil, fmt.Errorf("%w: %s", source.ErrNoCounter, d)
	}
	return c, nil
}
