package workers

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolSpawnAndTerminate(t *testing.T) {
	var created, terminated atomic.Int32
	pool := New(PoolConfig{Name: "test"}, zerolog.Nop(), Hooks{
		OnCreate:    func(string) { created.Add(1) },
		OnTerminate: func(string) { terminated.Add(1) },
	})

	var handles []*Handle
	for i := 0; i < 3; i++ {
		h, err := pool.Spawn(context.Background(), i, func(ctx context.Context) error {
			return nil
		})
		require.NoError(t, err)
		handles = append(handles, h)
	}

	for _, h := range handles {
		<-h.Done()
		assert.NoError(t, h.Err())
	}

	assert.Equal(t, int64(3), pool.Active())
	pool.TerminateAll()
	pool.TerminateAll()

	assert.Equal(t, int32(3), created.Load())
	assert.Equal(t, int32(3), terminated.Load())
	assert.Equal(t, int64(0), pool.Active())
}

func TestPoolRecoversPanics(t *testing.T) {
	pool := New(PoolConfig{Name: "panics"}, zerolog.Nop(), Hooks{})
	defer pool.TerminateAll()

	h, err := pool.Spawn(context.Background(), 0, func(ctx context.Context) error {
		panic("boom")
	})
	require.NoError(t, err)
	<-h.Done()

	require.Error(t, h.Err())
	assert.Contains(t, h.Err().Error(), "panicked: boom")
}

func TestPoolTerminateCancelsWorker(t *testing.T) {
	pool := New(PoolConfig{Name: "cancel"}, zerolog.Nop(), Hooks{})

	h, err := pool.Spawn(context.Background(), 0, func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	require.NoError(t, err)

	pool.Terminate(h)

	select {
	case <-h.Done():
	case <-time.After(time.Second):
		t.Fatal("worker did not observe termination")
	}
	assert.True(t, errors.Is(h.Err(), context.Canceled))
}

func TestPoolRejectsSpawnAfterTerminateAll(t *testing.T) {
	pool := New(PoolConfig{Name: "closed"}, zerolog.Nop(), Hooks{})
	pool.TerminateAll()

	_, err := pool.Spawn(context.Background(), 0, func(ctx context.Context) error { return nil })
	assert.Error(t, err)
	assert.Equal(t, int64(0), pool.Created())
}

func TestPoolMaxConcurrent(t *testing.T) {
	pool := New(PoolConfig{Name: "bounded", MaxConcurrent: 2}, zerolog.Nop(), Hooks{})
	defer pool.TerminateAll()

	var running, peak atomic.Int32
	release := make(chan struct{})

	var handles []*Handle
	for i := 0; i < 5; i++ {
		h, err := pool.Spawn(context.Background(), i, func(ctx context.Context) error {
			n := running.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			<-release
			running.Add(-1)
			return nil
		})
		require.NoError(t, err)
		handles = append(handles, h)
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	for _, h := range handles {
		<-h.Done()
	}

	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestPoolWaitBlocksUntilWorkersReturn(t *testing.T) {
	pool := New(PoolConfig{Name: "wait"}, zerolog.Nop(), Hooks{})

	var finished atomic.Int32
	for i := 0; i < 3; i++ {
		_, err := pool.Spawn(context.Background(), i, func(ctx context.Context) error {
			time.Sleep(20 * time.Millisecond)
			finished.Add(1)
			return nil
		})
		require.NoError(t, err)
	}

	pool.TerminateAll()
	assert.Equal(t, int64(0), pool.Active())
	pool.Wait()
	assert.Equal(t, int32(3), finished.Load())
}
