package render

import "context"

// Backend creates drawing contexts.
type Backend interface {
	// Name identifies the backend in logs and metrics.
	Name() string
	// Probe checks that a context can be created at all, using a throw-away
	// resource. It must not leave anything acquired.
	Probe(ctx context.Context) error
	// Acquire creates the real context bound to c.
	Acquire(ctx context.Context, c Container) (Context, error)
}

// Context is an acquired drawing context.
type Context interface {
	Draw(ctx context.Context, f Frame) error
	Release() error
}
