// Package render owns the drawing surface of an engine.
//
// # Sessions
//
// A [Session] binds a [Backend] context to a [Container]. Initialization is
// asynchronous and driven by an injectable clock:
//
//  1. If a previous context was released less than [ReleaseGate] ago, wait
//     out the remainder of the gate.
//  2. If the container is not attached or has a zero dimension, retry per the
//     [RetryPolicy] (up to 3 retries after 100, 200 and 300 ms) and then give up
//     with [ErrContainerNotReady] without rendering.
//  3. Probe the backend. Failure yields [ErrUnsupported].
//  4. Acquire the real context.
//
// The session state moves Idle -> Active -> Disposing -> Idle. [Session.Teardown]
// releases the context synchronously, clears registered listeners, and is safe
// to call any number of times.
//
// # Backends
//
// [GraphvizBackend] renders each [Frame] to SVG through Graphviz (neato with
// pinned positions). [MemoryBackend] records frames and is used by tests and
// headless hosts.
//
// [ToPDF] and [ToPNG] convert SVG output through rsvg-convert.
package render
