package scheduler

import (
	"sync"
	"time"

	"github.com/matzehuels/graphscope/pkg/clock"
)

// DefaultDelay is the rebuild debounce delay.
const DefaultDelay = 400 * time.Millisecond

// Decision is the outcome of Submit.
type Decision int

const (
	// Update means the node set and layout are unchanged; apply attributes now.
	Update Decision = iota
	// Rebuild means a full rebuild has been scheduled.
	Rebuild
)

func (d Decision) String() string {
	if d == Rebuild {
		return "rebuild"
	}
	return "update"
}

// Scheduler debounces rebuild requests carrying props of type P. The fire
// callback runs on the clock's timer goroutine without any scheduler lock
// held.
type Scheduler[P any] struct {
	clock clock.Clock
	delay time.Duration
	fire  func(P)

	mu       sync.Mutex
	built    Key
	hasBuilt bool
	timer    clock.Timer
	gen      uint64
	pending  *request[P]
}

type request[P any] struct {
	key   Key
	props P
}

// New creates a scheduler. A non-positive delay uses DefaultDelay.
func New[P any](c clock.Clock, delay time.Duration, fire func(P)) *Scheduler[P] {
	if c == nil {
		c = clock.Real{}
	}
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Scheduler[P]{clock: c, delay: delay, fire: fire}
}

// Delay returns the debounce delay.
func (s *Scheduler[P]) Delay() time.Duration { return s.delay }

// Submit registers a prop change. It returns Update when key matches the last
// built key, cancelling any pending rebuild. Otherwise it (re)starts the
// debounce timer with props and returns Rebuild.
func (s *Scheduler[P]) Submit(key Key, props P) Decision {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()
	if s.hasBuilt && key == s.built {
		return Update
	}

	s.pending = &request[P]{key: key, props: props}
	gen := s.gen
	s.timer = s.clock.AfterFunc(s.delay, func() { s.onTimer(gen) })
	return Rebuild
}

// MarkBuilt records key as the last built state without firing. Hosts call
// this after a synchronous initial build.
func (s *Scheduler[P]) MarkBuilt(key Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.built = key
	s.hasBuilt = true
}

// Built returns the last built key.
func (s *Scheduler[P]) Built() (Key, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.built, s.hasBuilt
}

// Pending reports whether a rebuild is waiting on the debounce timer.
func (s *Scheduler[P]) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending != nil
}

// Flush fires a pending rebuild immediately. It reports whether one ran.
func (s *Scheduler[P]) Flush() bool {
	s.mu.Lock()
	req := s.pending
	s.stopLocked()
	if req != nil {
		s.built = req.key
		s.hasBuilt = true
	}
	s.mu.Unlock()

	if req == nil {
		return false
	}
	s.fire(req.props)
	return true
}

// Cancel drops any pending rebuild.
func (s *Scheduler[P]) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func (s *Scheduler[P]) stopLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.pending = nil
	s.gen++
}

func (s *Scheduler[P]) onTimer(gen uint64) {
	s.mu.Lock()
	if gen != s.gen || s.pending == nil {
		s.mu.Unlock()
		return
	}
	req := s.pending
	s.pending = nil
	s.timer = nil
	s.built = req.key
	s.hasBuilt = true
	s.mu.Unlock()

	s.fire(req.props)
}
