package workers

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"
)

// PoolConfig configures a worker pool
type PoolConfig struct {
	// Name labels log lines and metrics
	Name string
	// MaxConcurrent bounds how many workers execute at once; 0 means unbounded
	MaxConcurrent int
}

// Hooks observe the worker lifecycle
type Hooks struct {
	OnCreate    func(workerID string)
	OnTerminate func(workerID string)
}

// Handle is one independently executing worker
type Handle struct {
	id     string
	index  int
	cancel context.CancelFunc
	done   chan struct{}
	err    error

	terminated atomic.Bool
}

// ID returns the worker id
func (h *Handle) ID() string { return h.id }

// Done is closed once the worker function has returned
func (h *Handle) Done() <-chan struct{} { return h.done }

// Err returns the worker's error. Only valid after Done is closed.
func (h *Handle) Err() error { return h.err }

// Pool owns the workers spawned for a single unit of work. A pool is not
// reusable once TerminateAll has been called.
type Pool struct {
	config PoolConfig
	sem    *semaphore.Weighted
	hooks  Hooks
	logger zerolog.Logger

	mu      sync.Mutex
	handles []*Handle
	closed  bool

	created    atomic.Int64
	terminated atomic.Int64
}

// New creates a worker pool
func New(config PoolConfig, logger zerolog.Logger, hooks Hooks) *Pool {
	if config.Name == "" {
		config.Name = "pool"
	}
	p := &Pool{
		config: config,
		hooks:  hooks,
		logger: logger.With().Str("component", "worker").Str("pool", config.Name).Logger(),
	}
	if config.MaxConcurrent > 0 {
		p.sem = semaphore.NewWeighted(int64(config.MaxConcurrent))
	}
	return p
}

// Spawn starts fn on a new worker. A panic in fn is reported as the worker's error.
func (p *Pool) Spawn(ctx context.Context, index int, fn func(ctx context.Context) error) (*Handle, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, fmt.Errorf("pool %s already terminated", p.config.Name)
	}
	workerCtx, cancel := context.WithCancel(ctx)
	h := &Handle{
		id:     fmt.Sprintf("%s-%d", p.config.Name, index),
		index:  index,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	p.handles = append(p.handles, h)
	p.mu.Unlock()

	p.created.Add(1)
	workersCreated.WithLabelValues(p.config.Name).Inc()
	if p.hooks.OnCreate != nil {
		p.hooks.OnCreate(h.id)
	}

	go p.run(workerCtx, h, fn)
	return h, nil
}

func (p *Pool) run(ctx context.Context, h *Handle, fn func(ctx context.Context) error) {
	defer close(h.done)
	defer func() {
		if r := recover(); r != nil {
			h.err = fmt.Errorf("worker %s panicked: %v", h.id, r)
		}
	}()

	if p.sem != nil {
		if err := p.sem.Acquire(ctx, 1); err != nil {
			h.err = err
			return
		}
		defer p.sem.Release(1)
	}

	p.logger.Debug().Str("worker_id", h.id).Msg("Worker started")
	h.err = fn(ctx)
}

// Terminate cancels a worker and releases its handle. Safe to call more than once.
func (p *Pool) Terminate(h *Handle) {
	if h == nil || !h.terminated.CompareAndSwap(false, true) {
		return
	}
	h.cancel()
	p.terminated.Add(1)
	workersTerminated.WithLabelValues(p.config.Name).Inc()
	if p.hooks.OnTerminate != nil {
		p.hooks.OnTerminate(h.id)
	}
}

// TerminateAll terminates every worker the pool has spawned and closes the pool
func (p *Pool) TerminateAll() {
	p.mu.Lock()
	p.closed = true
	handles := p.handles
	p.mu.Unlock()

	for _, h := range handles {
		p.Terminate(h)
	}
	p.logger.Debug().
		Int64("created", p.created.Load()).
		Int64("terminated", p.terminated.Load()).
		Msg("Worker pool terminated")
}

// Wait blocks until every spawned worker function has returned
func (p *Pool) Wait() {
	p.mu.Lock()
	handles := p.handles
	p.mu.Unlock()

	for _, h := range handles {
		<-h.done
	}
}

// Created returns how many workers were spawned
func (p *Pool) Created() int64 { return p.created.Load() }

// Terminated returns how many workers were terminated
func (p *Pool) Terminated() int64 { return p.terminated.Load() }

// Active returns the number of spawned workers not yet terminated
func (p *Pool) Active() int64 { return p.created.Load() - p.terminated.Load() }
