package render

import (
	"context"
	"errors"
	"sync"
)

// MemoryBackend records frames in memory.
type MemoryBackend struct {
	// ProbeErr, when set, makes Probe fail.
	ProbeErr error
	// AcquireErr, when set, makes Acquire fail.
	AcquireErr error

	mu       sync.Mutex
	frames   []Frame
	probes   int
	acquired int
	released int
}

// NewMemoryBackend returns an empty memory backend.
func NewMemoryBackend() *MemoryBackend { return &MemoryBackend{} }

// Name implements Backend.
func (b *MemoryBackend) Name() string { return "memory" }

// Probe implements Backend.
func (b *MemoryBackend) Probe(context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.probes++
	return b.ProbeErr
}

// Acquire implements Backend.
func (b *MemoryBackend) Acquire(context.Context, Container) (Context, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.AcquireErr != nil {
		return nil, b.AcquireErr
	}
	b.acquired++
	return &memoryContext{b: b}, nil
}

// Frames returns every frame drawn so far.
func (b *MemoryBackend) Frames() []Frame {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Frame(nil), b.frames...)
}

// Last returns the most recent frame.
func (b *MemoryBackend) Last() (Frame, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.frames) == 0 {
		return Frame{}, false
	}
	return b.frames[len(b.frames)-1], true
}

// Probes returns the number of Probe calls.
func (b *MemoryBackend) Probes() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.probes
}

// Acquired returns the number of contexts handed out.
func (b *MemoryBackend) Acquired() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.acquired
}

// Released returns the number of contexts released.
func (b *MemoryBackend) Released() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.released
}

// Live returns the number of contexts acquired and not yet released.
func (b *MemoryBackend) Live() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.acquired - b.released
}

var errContextReleased = errors.New("context released")

type memoryContext struct {
	b        *MemoryBackend
	released bool
}

func (c *memoryContext) Draw(_ context.Context, f Frame) error {
	c.b.mu.Lock()
	defer c.b.mu.Unlock()
	if c.released {
		return errContextReleased
	}
	c.b.frames = append(c.b.frames, f)
	return nil
}

func (c *memoryContext) Release() error {
	c.b.mu.Lock()
	defer c.b.mu.Unlock()
	if c.released {
		return errContextReleased
	}
	c.released = true
	c.b.released++
	return nil
}
