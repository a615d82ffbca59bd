package tuner

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource delivers samples pushed by the test.
type fakeSource struct {
	mu        sync.Mutex
	listeners map[int]func(Sample)
	nextID    int
	startErr  error
	started   bool
	stopped   bool
}

func newFakeSource() *fakeSource {
	return &fakeSource{listeners: make(map[int]func(Sample))}
}

func (s *fakeSource) Start(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.startErr != nil {
		return s.startErr
	}
	s.started = true
	return nil
}

func (s *fakeSource) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	return nil
}

func (s *fakeSource) Subscribe(fn func(Sample)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *fakeSource) emit(sample Sample) {
	s.mu.Lock()
	fns := make([]func(Sample), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn(sample)
	}
}

func (s *fakeSource) state() (started, stopped bool, listeners int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started, s.stopped, len(s.listeners)
}

// recordingRenderer keeps every rendered frame.
type recordingRenderer struct {
	mu     sync.Mutex
	frames []Frame
	err    error
}

func (r *recordingRenderer) Render(f Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = append(r.frames, f)
	return r.err
}

func (r *recordingRenderer) last() (Frame, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.frames) == 0 {
		return Frame{}, 0
	}
	return r.frames[len(r.frames)-1], len(r.frames)
}

type readingLog struct {
	mu       sync.Mutex
	readings []Reading
}

func (l *readingLog) Observe(r Reading) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.readings = append(l.readings, r)
}

func (l *readingLog) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.readings)
}

func TestNewSession_Validation(t *testing.T) {
	_, err := NewSession(nil, &recordingRenderer{}, nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewSession(newFakeSource(), &recordingRenderer{}, &SessionConfig{})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewSession(newFakeSource(), &recordingRenderer{}, &SessionConfig{
		FrameInterval: time.Millisecond,
		Tuner:         &Config{AnimationDuration: -1},
	})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	s, err := NewSession(newFakeSource(), &recordingRenderer{}, nil)
	require.NoError(t, err)
	assert.NotNil(t, s.Tuner())
}

func TestSession_RunProcessesSamples(t *testing.T) {
	src := newFakeSource()
	rend := &recordingRenderer{}
	obs := &readingLog{}

	s, err := NewSession(src, rend, &SessionConfig{
		Tuner:         &Config{AnimationDuration: 0},
		FrameInterval: time.Millisecond,
		Observer:      obs,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	require.Eventually(t, func() bool {
		started, _, listeners := src.state()
		return started && listeners == 1
	}, time.Second, time.Millisecond)

	src.emit(Sample{Frequency: 438})
	src.emit(Sample{Frequency: -5}) // rejected, display unchanged
	src.emit(Sample{Frequency: 442, Tone: "A"})

	require.Eventually(t, func() bool {
		f, _ := rend.last()
		return f.Label == "A4" && f.Frequency == "442.00" && f.Needle > 0
	}, time.Second, time.Millisecond)
	assert.Equal(t, 2, obs.count())

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}

	_, stopped, listeners := src.state()
	assert.True(t, stopped)
	assert.Zero(t, listeners)
}

func TestSession_StartFailureStaysIdle(t *testing.T) {
	src := newFakeSource()
	src.startErr = errors.New("microphone permission denied")
	rend := &recordingRenderer{}

	s, err := NewSession(src, rend, nil)
	require.NoError(t, err)

	err = s.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSourceStart)
	assert.Contains(t, err.Error(), "permission denied")

	_, n := rend.last()
	assert.Zero(t, n)
	_, ok := s.Tuner().Last()
	assert.False(t, ok)

	_, _, listeners := src.state()
	assert.Zero(t, listeners)
}

func TestSession_RenderErrorStopsRun(t *testing.T) {
	src := newFakeSource()
	rend := &recordingRenderer{err: errors.New("screen closed")}

	s, err := NewSession(src, rend, &SessionConfig{FrameInterval: time.Millisecond})
	require.NoError(t, err)

	err = s.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to render frame")

	_, stopped, _ := src.state()
	assert.True(t, stopped)
}
