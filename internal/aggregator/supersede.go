package aggregator

import (
	"context"
	"sync"
)

// Superseder cancels the previous in-flight request whenever a new one begins,
// so workers of a stale aggregation are torn down instead of left running.
type Superseder struct {
	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
}

// Begin derives a context for a new request and cancels the previous one.
// The returned release func must be called when the request finishes.
func (s *Superseder) Begin(ctx context.Context) (context.Context, func()) {
	ctx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.seq++
	seq := s.seq
	s.cancel = cancel
	s.mu.Unlock()

	return ctx, func() {
		cancel()
		s.mu.Lock()
		if s.seq == seq {
			s.cancel = nil
		}
		s.mu.Unlock()
	}
}
