// Package engine ties the graph model, layout, render session, interaction
// state machine, camera and rebuild scheduler into one mounted instance.
//
// # Lifecycle
//
//	eng := engine.New(engine.Options{Backend: render.NewMemoryBackend()})
//	eng.Update(props)              // store or schedule props
//	eng.Mount(ctx, container)      // start the library gate and the session
//	...
//	eng.Unmount()                  // cancel timers, release the context
//
// Mount waits on the process-wide [Loader] before building anything. The
// first build after loading happens immediately; later prop changes go
// through the rebuild scheduler, which either refreshes attributes in place
// or debounces a full rebuild (new graph, layout, and a fresh render context
// subject to the release gate).
//
// # Concurrency
//
// All state changes are serialized under one mutex. Timer continuations
// (loader completion, readiness retries, release gate waits, debounce firing,
// camera animation frames) check the destroyed flag before touching state,
// so nothing draws after Unmount. Host callbacks run without the engine lock
// held and may call back into the engine.
package engine
