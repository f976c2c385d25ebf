package monitor

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cpuSnapshot(total float64) *Snapshot {
	return &Snapshot{
		CPU:    CPUReading{Total: total},
		Memory: MemoryReading{Total: 1000, Available: 250},
		Network: NetworkReading{Interfaces: []InterfaceReading{
			{Name: "eth0", SentPerSec: 10, ReceivedPerSec: 20},
			{Name: "wlan0", SentPerSec: 1, ReceivedPerSec: 2},
		}},
		Disk: DiskReading{ReadBytesPerSec: 512, WriteBytesPerSec: 1024},
	}
}

func TestNewHistory(t *testing.T) {
	assert.Nil(t, NewHistory(0), "zero disables history")
	assert.Nil(t, NewHistory(-3))

	h := NewHistory(5)
	require.NotNil(t, h)
	assert.Equal(t, 0, h.Len())
}

func TestHistoryPush(t *testing.T) {
	h := NewHistory(10)

	h.Push(cpuSnapshot(42))
	h.Push(nil)

	assert.Equal(t, 1, h.Len())
	assert.Equal(t, []float64{42}, h.Last(SeriesCPU, 5))
	assert.Equal(t, []float64{75}, h.Last(SeriesMemory, 5))
	assert.Equal(t, []float64{11}, h.Last(SeriesNetSent, 5))
	assert.Equal(t, []float64{22}, h.Last(SeriesNetReceived, 5))
	assert.Equal(t, []float64{512}, h.Last(SeriesDiskRead, 5))
	assert.Equal(t, []float64{1024}, h.Last(SeriesDiskWrite, 5))
}

func TestHistoryRingBufferOverflow(t *testing.T) {
	h := NewHistory(5)

	for i := 0; i < 8; i++ {
		h.Push(cpuSnapshot(float64(i)))
	}

	assert.Equal(t, 5, h.Len())
	assert.Equal(t, []float64{3, 4, 5, 6, 7}, h.Last(SeriesCPU, 10))
	assert.Equal(t, []float64{6, 7}, h.Last(SeriesCPU, 2))
	assert.Nil(t, h.Last(SeriesCPU, 0))
	assert.Nil(t, h.Last(Series(99), 3))
}

func TestHistoryClear(t *testing.T) {
	h := NewHistory(3)
	h.Push(cpuSnapshot(1))
	h.Clear()

	assert.Equal(t, 0, h.Len())
	assert.Nil(t, h.Last(SeriesCPU, 3))
}

func TestHistoryNilSafe(t *testing.T) {
	var h *History

	assert.NotPanics(t, func() {
		h.Push(cpuSnapshot(1))
		h.Clear()
	})
	assert.Nil(t, h.Last(SeriesCPU, 3))
	assert.Zero(t, h.Len())
}

func TestHistoryConcurrentAccess(t *testing.T) {
	h := NewHistory(50)
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(v float64) {
			defer wg.Done()
			h.Push(cpuSnapshot(v))
		}(float64(i))
		go func() {
			defer wg.Done()
			_ = h.Last(SeriesCPU, 10)
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, h.Len())
}
