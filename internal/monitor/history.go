package monitor

import "sync"

// Series names one metric tracked by History.
type Series int

const (
	SeriesCPU Series = iota
	SeriesMemory
	SeriesNetSent
	SeriesNetReceived
	SeriesDiskRead
	SeriesDiskWrite

	seriesCount
)

// History keeps recent snapshot values in ring buffers for sparkline
// rendering. It lives only in memory. A nil *History records nothing.
type History struct {
	mu     sync.RWMutex
	size   int
	series [seriesCount]*ringBuffer
}

// ringBuffer is a fixed-size circular buffer for float64 values.
type ringBuffer struct {
	data  []float64
	head  int
	count int
	size  int
}

// NewHistory creates a history retaining size points per series.
// A size of zero or less disables history and returns nil.
func NewHistory(size int) *History {
	if size <= 0 {
		return nil
	}
	h := &History{size: size}
	for i := range h.series {
		h.series[i] = newRingBuffer(size)
	}
	return h
}

// Push records the values of one snapshot.
func (h *History) Push(s *Snapshot) {
	if h == nil || s == nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.series[SeriesCPU].push(s.CPU.Total)
	h.series[SeriesMemory].push(s.Memory.Percent())
	h.series[SeriesNetSent].push(s.Network.TotalSent())
	h.series[SeriesNetReceived].push(s.Network.TotalReceived())
	h.series[SeriesDiskRead].push(s.Disk.ReadBytesPerSec)
	h.series[SeriesDiskWrite].push(s.Disk.WriteBytesPerSec)
}

// Last returns up to count values of a series, oldest first.
func (h *History) Last(series Series, count int) []float64 {
	if h == nil || series < 0 || series >= seriesCount {
		return nil
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.series[series].getLast(count)
}

// Len returns the number of points stored per series.
func (h *History) Len() int {
	if h == nil {
		return 0
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.series[SeriesCPU].count
}

// Clear drops all recorded points.
func (h *History) Clear() {
	if h == nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for i := range h.series {
		h.series[i] = newRingBuffer(h.size)
	}
}

func newRingBuffer(size int) *ringBuffer {
	return &ringBuffer{
		data: make([]float64, size),
		size: size,
	}
}

func (r *ringBuffer) push(value float64) {
	r.data[r.head] = value
	r.head = (r.head + 1) % r.size
	if r.count < r.size {
		r.count++
	}
}

// getLast returns the last count values in chronological order (oldest first).
func (r *ringBuffer) getLast(count int) []float64 {
	if count <= 0 || r.count == 0 {
		return nil
	}
	if count > r.count {
		count = r.count
	}

	result := make([]float64, count)

	// head is the next write position, so the newest value sits at head-1
	start := (r.head - count + r.size) % r.size
	for i := 0; i < count; i++ {
		result[i] = r.data[(start+i)%r.size]
	}
	return result
}
