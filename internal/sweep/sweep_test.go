package sweep

import (
	"context"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/abelal/pantrylog/internal/lifecycle"
)

type stubSweeper struct {
	calls atomic.Int64
}

func (s *stubSweeper) ExpirySweep(_ context.Context, _ time.Time) ([]*lifecycle.Result, error) {
	s.calls.Add(1)
	return nil, nil
}

func TestRunnerSweepsOnStartAndTicks(t *testing.T) {
	stub := &stubSweeper{}
	r := NewRunner(stub, 20*time.Millisecond, slog.Default())

	ctx, cancel := context.WithTimeout(context.Background(), 110*time.Millisecond)
	defer cancel()

	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("runner did not stop after context cancellation")
	}

	// One immediate sweep plus at least one tick.
	assert.GreaterOrEqual(t, stub.calls.Load(), int64(2))
}

func TestRunnerStopsPromptly(t *testing.T) {
	stub := &stubSweeper{}
	r := NewRunner(stub, time.Hour, slog.Default())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("runner did not stop after context cancellation")
	}
	assert.Equal(t, int64(1), stub.calls.Load(), "only the startup sweep ran")
}
