package notifications

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu     sync.Mutex
	counts []int
}

func (r *recorder) add(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counts = append(r.counts, n)
}

func (r *recorder) snapshot() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.counts...)
}

func TestPoller_FetchesImmediately(t *testing.T) {
	rec := &recorder{}
	p := NewPoller(CountSourceFunc(func(context.Context) (int, error) { return 3, nil }), time.Hour, rec.add, "test")

	stop := p.Start(context.Background())
	defer stop()

	require.Eventually(t, func() bool { return len(rec.snapshot()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []int{3}, rec.snapshot())
}

func TestPoller_TicksAndKeepsGoingAfterErrors(t *testing.T) {
	rec := &recorder{}
	var calls atomic.Int32
	source := CountSourceFunc(func(context.Context) (int, error) {
		n := calls.Add(1)
		if n == 2 {
			return 0, errors.New("network down")
		}
		return int(n), nil
	})

	stop := NewPoller(source, 10*time.Millisecond, rec.add, "test").Start(context.Background())
	require.Eventually(t, func() bool { return len(rec.snapshot()) >= 3 }, time.Second, 5*time.Millisecond)
	stop()

	got := rec.snapshot()
	assert.Equal(t, 1, got[0])
	assert.NotContains(t, got, 2)
}

func TestPoller_NoDeliveryAfterStop(t *testing.T) {
	rec := &recorder{}
	release := make(chan struct{})
	started := make(chan struct{})
	source := CountSourceFunc(func(ctx context.Context) (int, error) {
		close(started)
		<-release
		return 9, nil
	})

	p := NewPoller(source, time.Hour, rec.add, "test")
	stop := p.Start(context.Background())
	<-started

	done := make(chan struct{})
	go func() {
		stop()
		close(done)
	}()
	time.Sleep(10 * time.Millisecond)
	close(release)
	<-done

	assert.Empty(t, rec.snapshot())
}

func TestPoller_StopIsIdempotent(t *testing.T) {
	p := NewPoller(CountSourceFunc(func(context.Context) (int, error) { return 0, nil }), time.Hour, func(int) {}, "test")
	stop := p.Start(context.Background())
	stop()
	stop()
}

func TestPoller_ParentContextCancels(t *testing.T) {
	var calls atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	p := NewPoller(CountSourceFunc(func(context.Context) (int, error) {
		calls.Add(1)
		return 1, nil
	}), 5*time.Millisecond, func(int) {}, "test")

	stop := p.Start(ctx)
	require.Eventually(t, func() bool { return calls.Load() >= 1 }, time.Second, time.Millisecond)
	cancel()
	stop()

	after := calls.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, calls.Load())
}
