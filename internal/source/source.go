// Package source provides tuner.Source implementations that replay or
// synthesize detected frequencies.
package source

import (
	"context"
	"sync"

	tuner "github.com/tphakala/go-tuner"
)

// broadcaster fans samples out to subscribers.
type broadcaster struct {
	mu        sync.Mutex
	listeners map[int]func(tuner.Sample)
	nextID    int
}

// Subscribe registers fn and returns a function that removes it.
func (b *broadcaster) Subscribe(fn func(tuner.Sample)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.listeners == nil {
		b.listeners = make(map[int]func(tuner.Sample))
	}
	id := b.nextID
	b.nextID++
	b.listeners[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.listeners, id)
		})
	}
}

// publish delivers sample to a snapshot of the current subscribers.
func (b *broadcaster) publish(sample tuner.Sample) {
	b.mu.Lock()
	fns := make([]func(tuner.Sample), 0, len(b.listeners))
	for _, fn := range b.listeners {
		fns = append(fns, fn)
	}
	b.mu.Unlock()

	for _, fn := range fns {
		fn(sample)
	}
}

// runner owns the emitting goroutine of a source.
type runner struct {
	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// start launches loop unless one is already running.
func (r *runner) start(ctx context.Context, loop func(ctx context.Context)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		return tuner.ErrSourceRunning
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	r.cancel = cancel
	r.done = done

	go func() {
		defer close(done)
		loop(ctx)
	}()
	return nil
}

// stop cancels the loop and waits for it to exit.
func (r *runner) stop() {
	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.cancel, r.done = nil, nil
	r.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}
