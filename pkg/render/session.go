package render

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/graphscope/pkg/clock"
	"github.com/matzehuels/graphscope/pkg/observability"
)

// ReleaseGate is the minimum delay between releasing a context and acquiring
// the next one in the same session.
const ReleaseGate = 150 * time.Millisecond

// State is the lifecycle state of a session.
type State int

const (
	StateIdle State = iota
	StateActive
	StateDisposing
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateDisposing:
		return "disposing"
	default:
		return "idle"
	}
}

// EventType names a pointer event routed through a session.
type EventType string

// Event types.
const (
	EventClickNode  EventType = "clickNode"
	EventClickStage EventType = "clickStage"
	EventEnterNode  EventType = "enterNode"
	EventLeaveNode  EventType = "leaveNode"
)

// Event is a pointer event on the drawing surface.
type Event struct {
	Type   EventType
	NodeID string
}

// Listener handles events.
type Listener func(Event)

// Option configures a Session.
type Option func(*Session)

// WithClock sets the clock driving retries and the release gate.
func WithClock(c clock.Clock) Option {
	return func(s *Session) { s.clock = c }
}

// WithRetryPolicy replaces the container readiness policy.
func WithRetryPolicy(p RetryPolicy) Option {
	return func(s *Session) { s.policy = p }
}

// WithLogger sets the session logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithReleaseGate overrides ReleaseGate.
func WithReleaseGate(d time.Duration) Option {
	return func(s *Session) { s.gate = d }
}

// Session owns one backend context at a time and the listeners registered on
// it. All methods are safe for concurrent use.
type Session struct {
	id      string
	backend Backend
	clock   clock.Clock
	policy  RetryPolicy
	gate    time.Duration
	logger  *log.Logger

	mu         sync.Mutex
	state      State
	released   bool
	releasedAt time.Time
	bctx       Context
	container  Container
	listeners  map[EventType][]*listenerEntry
	pending    *Attempt
	frames     int
}

type listenerEntry struct{ fn Listener }

// NewSession creates an idle session for backend.
func NewSession(b Backend, opts ...Option) *Session {
	s := &Session{
		id:        uuid.NewString(),
		backend:   b,
		clock:     clock.Real{},
		policy:    DefaultRetryPolicy(),
		gate:      ReleaseGate,
		logger:    log.Default(),
		listeners: make(map[EventType][]*listenerEntry),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("session", s.id[:8], "backend", b.Name())
	return s
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Backend returns the backend the session draws with.
func (s *Session) Backend() Backend { return s.backend }

// State returns the lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Frames returns the number of frames drawn since creation.
func (s *Session) Frames() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

// Container returns the container of the active context, or nil.
func (s *Session) Container() Container {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.container
}

// GateOpensAt returns the earliest time a new context may be acquired.
// The zero time means the gate is open.
func (s *Session) GateOpensAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.released {
		return time.Time{}
	}
	return s.releasedAt.Add(s.gate)
}

// Attempt is one in-flight initialization.
type Attempt struct {
	s     *Session
	ctx   context.Context
	c     Container
	done  func(error)
	retry *Retry

	timer    clock.Timer
	canceled bool
	finished bool
}

// Initialize starts acquiring a context for c. The first attempt runs
// synchronously; later attempts run on the clock's timers. done is called
// exactly once unless the attempt is canceled first, and never with the
// session lock held. Starting a new initialization cancels a pending one.
func (s *Session) Initialize(ctx context.Context, c Container, done func(error)) *Attempt {
	if done == nil {
		done = func(error) {}
	}
	a := &Attempt{s: s, ctx: ctx, c: c, done: done, retry: s.policy.NewRetry()}

	s.mu.Lock()
	if s.pending != nil {
		s.pending.cancelLocked()
	}
	s.pending = a
	s.mu.Unlock()

	a.run()
	return a
}

// Cancel stops the attempt. done will not be called afterwards.
func (a *Attempt) Cancel() {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	a.cancelLocked()
}

// Retries returns the number of readiness retries consumed.
func (a *Attempt) Retries() int {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	return a.retry.Attempts()
}

func (a *Attempt) cancelLocked() {
	if a.finished {
		return
	}
	a.canceled = true
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	if a.s.pending == a {
		a.s.pending = nil
	}
}

func (a *Attempt) run() {
	s := a.s
	s.mu.Lock()
	if a.canceled || a.finished {
		s.mu.Unlock()
		return
	}
	waiting, err := a.stepLocked()
	if waiting {
		s.mu.Unlock()
		return
	}
	a.finished = true
	if s.pending == a {
		s.pending = nil
	}
	retries := a.retry.Attempts()
	s.mu.Unlock()

	observability.Session().OnSessionInit(a.ctx, s.backend.Name(), retries, err)
	a.done(err)
}

// stepLocked performs one attempt. It reports waiting when a timer was
// scheduled for a later attempt.
func (a *Attempt) stepLocked() (waiting bool, err error) {
	s := a.s
	if err := a.ctx.Err(); err != nil {
		return false, err
	}
	if s.state == StateActive {
		return false, nil
	}

	if s.released {
		if wait := s.releasedAt.Add(s.gate).Sub(s.clock.Now()); wait > 0 {
			s.logger.Debug("waiting for release gate", "wait", wait)
			a.timer = s.clock.AfterFunc(wait, a.run)
			return true, nil
		}
	}

	if !Ready(a.c) {
		if d, ok := a.retry.Next(); ok {
			s.logger.Debug("container not ready, retrying", "attempt", a.retry.Attempts(), "delay", d)
			a.timer = s.clock.AfterFunc(d, a.run)
			return true, nil
		}
		s.logger.Debug("container never became ready, giving up", "retries", a.retry.Attempts())
		return false, ErrContainerNotReady
	}

	if err := s.backend.Probe(a.ctx); err != nil {
		s.logger.Warn("rendering backend unsupported", "err", err)
		return false, fmt.Errorf("probe %s: %w: %w", s.backend.Name(), ErrUnsupported, err)
	}

	bctx, err := s.backend.Acquire(a.ctx, a.c)
	if err != nil {
		return false, fmt.Errorf("acquire %s context: %w", s.backend.Name(), err)
	}

	s.bctx = bctx
	s.container = a.c
	s.state = StateActive
	s.logger.Debug("session active", "container", a.c.ID(), "width", a.c.Width(), "height", a.c.Height())
	return false, nil
}

// Draw hands f to the active context.
func (s *Session) Draw(ctx context.Context, f Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateActive {
		return ErrNotActive
	}

	start := s.clock.Now()
	err := s.bctx.Draw(ctx, f)
	observability.Session().OnFrame(ctx, s.backend.Name(), s.clock.Now().Sub(start), err)
	if err != nil {
		return fmt.Errorf("draw: %w", err)
	}
	s.frames++
	return nil
}

// Teardown cancels a pending initialization, releases the context and clears
// all listeners. Calling it again, or on an idle session, is a no-op.
func (s *Session) Teardown() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending != nil {
		s.pending.cancelLocked()
	}
	clear(s.listeners)

	if s.state != StateActive {
		return nil
	}

	s.state = StateDisposing
	err := s.bctx.Release()
	s.bctx = nil
	s.container = nil
	s.state = StateIdle
	s.released = true
	s.releasedAt = s.clock.Now()
	s.logger.Debug("session released")
	observability.Session().OnSessionTeardown(context.Background(), s.backend.Name())

	if err != nil {
		return fmt.Errorf("release %s context: %w", s.backend.Name(), err)
	}
	return nil
}

// On registers l for events of type t and returns a function removing it.
func (s *Session) On(t EventType, l Listener) func() {
	entry := &listenerEntry{fn: l}
	s.mu.Lock()
	s.listeners[t] = append(s.listeners[t], entry)
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		list := s.listeners[t]
		for i, e := range list {
			if e == entry {
				s.listeners[t] = append(list[:i:i], list[i+1:]...)
				return
			}
		}
	}
}

// Listen registers every listener in ls, but only while the session is
// active. It reports false, registering nothing, when the session is idle or
// being torn down.
func (s *Session) Listen(ls map[EventType]Listener) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateActive {
		return false
	}
	for t, l := range ls {
		s.listeners[t] = append(s.listeners[t], &listenerEntry{fn: l})
	}
	return true
}

// Listeners returns the number of registered listeners.
func (s *Session) Listeners() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, l := range s.listeners {
		n += len(l)
	}
	return n
}

// Dispatch delivers ev to the listeners registered for its type and reports
// whether any received it. Listeners run on the caller's goroutine without
// the session lock held.
func (s *Session) Dispatch(ev Event) bool {
	s.mu.Lock()
	list := append([]*listenerEntry(nil), s.listeners[ev.Type]...)
	s.mu.Unlock()

	for _, e := range list {
		e.fn(ev)
	}
	return len(list) > 0
}
