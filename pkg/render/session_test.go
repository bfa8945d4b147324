package render

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/matzehuels/graphscope/pkg/clock"
	gserrors "github.com/matzehuels/graphscope/pkg/errors"
)

type result struct {
	calls int
	err   error
}

func (r *result) done(err error) {
	r.calls++
	r.err = err
}

func newTestSession(t *testing.T) (*Session, *MemoryBackend, *clock.Fake) {
	t.Helper()
	fake := clock.NewFake(time.Unix(0, 0))
	b := NewMemoryBackend()
	return NewSession(b, WithClock(fake)), b, fake
}

func ready() *StaticContainer { return &StaticContainer{Name: "c", W: 800, H: 600} }

func TestRetryPolicy(t *testing.T) {
	r := DefaultRetryPolicy().NewRetry()
	want := []time.Duration{100 * time.Millisecond, 200 * time.Millisecond, 300 * time.Millisecond}
	for i, w := range want {
		d, ok := r.Next()
		if !ok || d != w {
			t.Fatalf("Next() #%d = %v %v, want %v true", i, d, ok, w)
		}
	}
	if _, ok := r.Next(); ok {
		t.Error("policy should be exhausted")
	}
	if r.Attempts() != 3 || DefaultRetryPolicy().Retries() != 3 {
		t.Errorf("Attempts() = %d Retries() = %d, want 3 3", r.Attempts(), DefaultRetryPolicy().Retries())
	}
}

func TestReady(t *testing.T) {
	tests := []struct {
		name string
		c    Container
		want bool
	}{
		{"ready", ready(), true},
		{"nil", nil, false},
		{"detached", &StaticContainer{W: 1, H: 1, Detached: true}, false},
		{"zero width", &StaticContainer{H: 1}, false},
		{"zero height", &StaticContainer{W: 1}, false},
	}
	for _, tt := range tests {
		if got := Ready(tt.c); got != tt.want {
			t.Errorf("%s: Ready = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestInitializeImmediately(t *testing.T) {
	s, b, _ := newTestSession(t)
	var r result
	s.Initialize(context.Background(), ready(), r.done)

	if r.calls != 1 || r.err != nil {
		t.Fatalf("done called %d times with %v", r.calls, r.err)
	}
	if s.State() != StateActive {
		t.Errorf("State() = %s, want active", s.State())
	}
	if b.Probes() != 1 || b.Acquired() != 1 {
		t.Errorf("probes=%d acquired=%d, want 1 1", b.Probes(), b.Acquired())
	}
}

func TestInitializeRetriesUntilReady(t *testing.T) {
	s, _, fake := newTestSession(t)
	c := &StaticContainer{Name: "late"}
	var r result
	a := s.Initialize(context.Background(), c, r.done)

	fake.Advance(100 * time.Millisecond)
	if r.calls != 0 {
		t.Fatal("done called before container was ready")
	}
	c.W, c.H = 100, 100
	fake.Advance(200 * time.Millisecond)

	if r.calls != 1 || r.err != nil {
		t.Fatalf("done called %d times with %v", r.calls, r.err)
	}
	if a.Retries() != 2 {
		t.Errorf("Retries() = %d, want 2", a.Retries())
	}
	if s.Container() != c {
		t.Error("Container() should return the bound container")
	}
}

func TestInitializeGivesUpSilently(t *testing.T) {
	s, b, fake := newTestSession(t)
	var r result
	s.Initialize(context.Background(), &StaticContainer{Name: "never"}, r.done)

	fake.Advance(599 * time.Millisecond)
	if r.calls != 0 {
		t.Fatal("gave up before the retry schedule was exhausted")
	}
	fake.Advance(time.Millisecond)
	if r.calls != 1 || !errors.Is(r.err, ErrContainerNotReady) {
		t.Fatalf("done called %d times with %v, want ErrContainerNotReady", r.calls, r.err)
	}
	if !gserrors.Is(r.err, gserrors.ErrCodeContainerNotReady) {
		t.Errorf("code = %s", gserrors.GetCode(r.err))
	}
	if b.Probes() != 0 || s.State() != StateIdle {
		t.Errorf("probes=%d state=%s, want no probe and idle", b.Probes(), s.State())
	}
}

func TestInitializeProbeFailure(t *testing.T) {
	s, b, _ := newTestSession(t)
	b.ProbeErr = errors.New("no gpu")
	var r result
	s.Initialize(context.Background(), ready(), r.done)

	if !errors.Is(r.err, ErrUnsupported) || !gserrors.Is(r.err, gserrors.ErrCodeUnsupported) {
		t.Fatalf("err = %v, want ErrUnsupported", r.err)
	}
	if b.Acquired() != 0 {
		t.Error("context acquired after failed probe")
	}
	if s.State() != StateIdle {
		t.Errorf("State() = %s, want idle", s.State())
	}
}

func TestTeardownIdempotent(t *testing.T) {
	s, b, _ := newTestSession(t)
	s.Initialize(context.Background(), ready(), nil)
	s.On(EventClickNode, func(Event) {})

	for i := range 3 {
		if err := s.Teardown(); err != nil {
			t.Fatalf("Teardown #%d: %v", i, err)
		}
	}
	if b.Released() != 1 || b.Live() != 0 {
		t.Errorf("released=%d live=%d, want 1 0", b.Released(), b.Live())
	}
	if s.Listeners() != 0 {
		t.Errorf("Listeners() = %d after teardown", s.Listeners())
	}
	if s.State() != StateIdle {
		t.Errorf("State() = %s", s.State())
	}
}

func TestReleaseGate(t *testing.T) {
	s, b, fake := newTestSession(t)
	s.Initialize(context.Background(), ready(), nil)
	if err := s.Teardown(); err != nil {
		t.Fatal(err)
	}
	if want := fake.Now().Add(ReleaseGate); !s.GateOpensAt().Equal(want) {
		t.Errorf("GateOpensAt() = %v, want %v", s.GateOpensAt(), want)
	}

	var r result
	s.Initialize(context.Background(), ready(), r.done)
	if s.State() != StateIdle || b.Acquired() != 1 {
		t.Fatal("reacquired inside the release gate")
	}
	fake.Advance(ReleaseGate - time.Millisecond)
	if r.calls != 0 {
		t.Fatal("reacquired before the gate opened")
	}
	fake.Advance(time.Millisecond)
	if r.calls != 1 || r.err != nil || b.Acquired() != 2 {
		t.Fatalf("after gate: calls=%d err=%v acquired=%d", r.calls, r.err, b.Acquired())
	}
}

type countingContainer struct {
	StaticContainer
	checks int
}

func (c *countingContainer) Attached() bool {
	c.checks++
	return c.StaticContainer.Attached()
}

func TestReadinessCheckedFourTimes(t *testing.T) {
	s, _, fake := newTestSession(t)
	c := &countingContainer{StaticContainer: StaticContainer{Name: "never", Detached: true}}
	var r result
	a := s.Initialize(context.Background(), c, r.done)

	fake.Advance(5 * time.Second)
	if r.calls != 1 || !errors.Is(r.err, ErrContainerNotReady) {
		t.Fatalf("done called %d times with %v, want ErrContainerNotReady", r.calls, r.err)
	}
	if c.checks != 4 {
		t.Errorf("readiness checked %d times, want 4", c.checks)
	}
	if a.Retries() != 3 {
		t.Errorf("Retries() = %d, want 3", a.Retries())
	}
}

func TestCancelStopsRetryLoop(t *testing.T) {
	s, _, fake := newTestSession(t)
	var r result
	a := s.Initialize(context.Background(), &StaticContainer{}, r.done)
	a.Cancel()
	fake.Advance(time.Second)
	if r.calls != 0 {
		t.Errorf("done called %d times after Cancel", r.calls)
	}
	if fake.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", fake.Pending())
	}
}

func TestTeardownCancelsPendingInit(t *testing.T) {
	s, b, fake := newTestSession(t)
	c := &StaticContainer{}
	var r result
	s.Initialize(context.Background(), c, r.done)
	if err := s.Teardown(); err != nil {
		t.Fatal(err)
	}
	c.W, c.H = 10, 10
	fake.Advance(time.Second)
	if r.calls != 0 || b.Acquired() != 0 {
		t.Errorf("calls=%d acquired=%d after teardown", r.calls, b.Acquired())
	}
}

func TestInitializeCanceledContext(t *testing.T) {
	s, _, _ := newTestSession(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var r result
	s.Initialize(ctx, ready(), r.done)
	if !errors.Is(r.err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", r.err)
	}
}

func TestDraw(t *testing.T) {
	s, b, _ := newTestSession(t)
	ctx := context.Background()
	if err := s.Draw(ctx, Frame{}); !errors.Is(err, ErrNotActive) {
		t.Errorf("Draw on idle session = %v, want ErrNotActive", err)
	}

	s.Initialize(ctx, ready(), nil)
	f := Frame{Width: 800, Height: 600, Nodes: []FrameNode{{ID: "a"}}}
	if err := s.Draw(ctx, f); err != nil {
		t.Fatal(err)
	}
	last, ok := b.Last()
	if !ok || len(last.Nodes) != 1 || last.Nodes[0].ID != "a" {
		t.Errorf("Last() = %+v %v", last, ok)
	}
	if s.Frames() != 1 {
		t.Errorf("Frames() = %d", s.Frames())
	}
}

func TestListeners(t *testing.T) {
	s, _, _ := newTestSession(t)
	var got []string
	off := s.On(EventClickNode, func(ev Event) { got = append(got, "a:"+ev.NodeID) })
	s.On(EventClickNode, func(ev Event) { got = append(got, "b:"+ev.NodeID) })
	s.On(EventClickStage, func(Event) { got = append(got, "stage") })

	s.Dispatch(Event{Type: EventClickNode, NodeID: "x"})
	off()
	s.Dispatch(Event{Type: EventClickNode, NodeID: "y"})
	s.Dispatch(Event{Type: EventClickStage})

	want := []string{"a:x", "b:x", "b:y", "stage"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestListenOnlyWhileActive(t *testing.T) {
	s, _, _ := newTestSession(t)
	var got []string
	ls := map[EventType]Listener{
		EventClickNode: func(ev Event) { got = append(got, ev.NodeID) },
	}
	if s.Listen(ls) || s.Listeners() != 0 {
		t.Fatal("Listen registered on an idle session")
	}

	s.Initialize(context.Background(), ready(), nil)
	if !s.Listen(ls) {
		t.Fatal("Listen refused an active session")
	}
	if !s.Dispatch(Event{Type: EventClickNode, NodeID: "a"}) || len(got) != 1 {
		t.Errorf("dispatch delivered %v", got)
	}
	if s.Dispatch(Event{Type: EventClickStage}) {
		t.Error("Dispatch reported delivery without a listener")
	}

	if err := s.Teardown(); err != nil {
		t.Fatal(err)
	}
	if s.Listen(ls) || s.Listeners() != 0 {
		t.Errorf("Listen after teardown left %d listeners", s.Listeners())
	}
}

func TestStateString(t *testing.T) {
	if StateIdle.String() != "idle" || StateActive.String() != "active" || StateDisposing.String() != "disposing" {
		t.Error("unexpected State strings")
	}
}
