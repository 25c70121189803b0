package pipeline

import (
	"context"
	"sync"

	"TickerLens/internal/model"
)

// Runner produces a bundle for a request.
type Runner interface {
	Run(ctx context.Context, req model.Request) model.ResponseBundle
}

// Latest serializes the bundles of one presentation session. A new Submit
// cancels the run in flight, and only the newest submission may publish.
type Latest struct {
	runner Runner

	mu      sync.Mutex
	seq     uint64
	cancel  context.CancelFunc
	current model.ResponseBundle
}

// NewLatest creates a session holder showing the idle bundle.
func NewLatest(r Runner) *Latest {
	return &Latest{runner: r, current: IdleBundle()}
}

// Submit runs req and publishes its bundle. The returned flag is false when a
// newer submission started before this one finished; the bundle is then stale
// and was not published.
func (l *Latest) Submit(ctx context.Context, req model.Request) (model.ResponseBundle, bool) {
	l.mu.Lock()
	l.seq++
	seq := l.seq
	if l.cancel != nil {
		l.cancel()
	}
	runCtx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.mu.Unlock()

	bundle := l.runner.Run(runCtx, req)

	l.mu.Lock()
	defer l.mu.Unlock()
	cancel()
	if seq != l.seq {
		return bundle, false
	}
	l.cancel = nil
	l.current = bundle
	return bundle, true
}

// Current returns the most recently published bundle.
func (l *Latest) Current() model.ResponseBundle {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current
}
