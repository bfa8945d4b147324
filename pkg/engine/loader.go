package engine

import (
	"context"
	"fmt"
	"sync"

	gserrors "github.com/matzehuels/graphscope/pkg/errors"
)

// ErrLoad is wrapped by every Loader failure.
var ErrLoad = gserrors.New(gserrors.ErrCodeInternal, "library initialization failed")

// Loader runs an initialization function at most once and reports its result
// to every waiter, including waiters that arrive after it finished.
type Loader struct {
	init func(context.Context) error

	mu       sync.Mutex
	started  bool
	finished bool
	err      error
	waiters  []func(error)
	done     chan struct{}
}

// NewLoader creates a loader for init.
func NewLoader(init func(context.Context) error) *Loader {
	return &Loader{init: init, done: make(chan struct{})}
}

// ReadyLoader returns a loader that has already finished successfully. Then
// calls fn synchronously.
func ReadyLoader() *Loader {
	l := NewLoader(nil)
	l.started, l.finished = true, true
	close(l.done)
	return l
}

var defaultLoader = ReadyLoader()

// Then calls fn with the initialization result. If initialization already
// finished, fn runs synchronously; otherwise it runs on the loader goroutine.
// The first caller starts initialization; cancelling its ctx does not abort it.
func (l *Loader) Then(ctx context.Context, fn func(error)) {
	l.mu.Lock()
	if l.finished {
		err := l.err
		l.mu.Unlock()
		fn(err)
		return
	}
	l.waiters = append(l.waiters, fn)
	if !l.started {
		l.started = true
		go l.run(context.WithoutCancel(ctx))
	}
	l.mu.Unlock()
}

// Wait blocks until initialization finishes or ctx is done. Waiters
// registered with Then have run by the time Wait returns the result.
func (l *Loader) Wait(ctx context.Context) error {
	l.Then(ctx, func(error) {})
	select {
	case <-l.done:
		l.mu.Lock()
		defer l.mu.Unlock()
		return l.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Loaded reports whether initialization finished successfully.
func (l *Loader) Loaded() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.finished && l.err == nil
}

func (l *Loader) run(ctx context.Context) {
	err := l.init(ctx)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrLoad, err)
	}

	l.mu.Lock()
	l.finished = true
	l.err = err
	waiters := l.waiters
	l.waiters = nil
	l.mu.Unlock()

	for _, w := range waiters {
		w(err)
	}
	close(l.done)
}
