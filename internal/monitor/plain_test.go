package monitor

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rileyhilliard/topnet/internal/errors"
	"github.com/rileyhilliard/topnet/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlainRenderer_AppendsWhenNotTerminal(t *testing.T) {
	var buf bytes.Buffer
	r := NewPlainRenderer(&buf, DefaultView())

	r.Start()
	require.NoError(t, r.Render(sampleSnapshot(1)))
	require.NoError(t, r.Render(sampleSnapshot(2)))
	r.Close()

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "TopNet - System Monitor\nPress Ctrl+C to exit\n"))
	assert.Equal(t, 2, strings.Count(out, "web-01 |"), "each snapshot is appended")
	assert.Equal(t, 2, strings.Count(out, strings.Repeat("─", defaultWidth)+"\n"))
	assert.NotContains(t, out, "\x1b[", "no cursor control on a plain writer")
	assert.True(t, strings.HasSuffix(out, "topnet has exited.\n"))
}

func TestPlainRenderer_PushesHistory(t *testing.T) {
	var buf bytes.Buffer
	v := DefaultView()
	v.History = NewHistory(5)
	r := NewPlainRenderer(&buf, v)

	for i := 0; i < 3; i++ {
		require.NoError(t, r.Render(sampleSnapshot(1)))
	}
	assert.Equal(t, 3, v.History.Len())
	assert.Contains(t, buf.String(), "Trend")
}

func TestPlainRenderer_ReportFault(t *testing.T) {
	var buf bytes.Buffer
	r := NewPlainRenderer(&buf, DefaultView())

	r.ReportFault(errors.New(errors.ErrCollect, "unexpected fault: boom", "ignored suggestion"))
	r.ReportFault(nil)

	assert.Equal(t, "Error: unexpected fault: boom\n", buf.String())
}

func TestRunPlain_StopsOnCancel(t *testing.T) {
	src := &scriptedSource{fn: func(int) (*Snapshot, error) { return sampleSnapshot(1), nil }}
	var buf bytes.Buffer

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		RunPlain(ctx, &buf, src, DefaultView(), logger.Noop(), fastTimings)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("RunPlain did not return after cancel")
	}

	out := buf.String()
	assert.Contains(t, out, "Initializing...")
	assert.Contains(t, out, "web-01")
	assert.True(t, strings.HasSuffix(out, "topnet has exited.\n"))
	assert.GreaterOrEqual(t, src.Calls(), 2, "warm-up plus at least one tick")
}
