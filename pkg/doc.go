// Package pkg provides the core libraries for Graphscope network visualization.
//
// # Overview
//
// Graphscope turns an entity co-occurrence network (people, places,
// organizations and works linked by weighted edges) into an interactive
// picture: positions that stay stable across updates, hover and selection
// highlighting, focus mode and an animated camera.
//
// # Architecture
//
// The data flow for one build:
//
//	Props (nodes, edges, layout type, selection)
//	         ↓
//	    [network] (validated multigraph, dropped edges reported)
//	         ↓
//	    [layout] (force / circular / radial, warmed by [positions])
//	         ↓
//	    [interaction] + [camera] (reducers and view state)
//	         ↓
//	    [render] (session lifecycle, frames to a backend)
//
// [engine] ties these together behind Mount, Update and Unmount, with
// [scheduler] debouncing rebuilds and [clock] making every timer injectable.
//
// # Quick Start
//
//	eng := engine.New(engine.Options{
//	    Backend: render.NewGraphvizBackend(func(svg []byte) error {
//	        return os.WriteFile("frame.svg", svg, 0o644)
//	    }),
//	})
//	defer eng.Unmount()
//
//	eng.Update(engine.Props{Nodes: g.Nodes, Edges: g.Edges})
//	eng.Mount(ctx, &render.StaticContainer{Name: "main", W: 800, H: 600})
//	eng.Loader().Wait(ctx)
//
//	eng.Click("ada")
//	eng.FocusOnSelection("ada")
//
// # Main Packages
//
// [graph] - Serialization types for graphs and layouts (JSON node-link format).
//
// [network] - Undirected multigraph built from props. Duplicate node ids are
// rejected; edges to unknown nodes are dropped and counted.
//
// [positions] - Position cache plus persisted snapshots (file, Redis).
//
// [layout] - Layout strategies. Force layouts reuse cached positions and run
// a shorter solve when most nodes are already placed.
//
// [interaction] - The hover/select/focus state machine and the node and edge
// reducers that derive visual attributes from it.
//
// [camera] - Camera targets and animations for reset, zoom and focus.
//
// [render] - Render sessions with container readiness retries, a release
// gate between contexts, event listeners, and Graphviz and memory backends.
//
// [observability] - Hook registry for layout, rebuild, session, cache and
// HTTP events, with a Prometheus implementation.
//
// [errors] - Coded errors shared by every package.
//
// # Testing
//
//	go test ./pkg/...
//
// [graph]: https://pkg.go.dev/github.com/matzehuels/graphscope/pkg/graph
// [network]: https://pkg.go.dev/github.com/matzehuels/graphscope/pkg/network
// [positions]: https://pkg.go.dev/github.com/matzehuels/graphscope/pkg/positions
// [layout]: https://pkg.go.dev/github.com/matzehuels/graphscope/pkg/layout
// [interaction]: https://pkg.go.dev/github.com/matzehuels/graphscope/pkg/interaction
// [camera]: https://pkg.go.dev/github.com/matzehuels/graphscope/pkg/camera
// [render]: https://pkg.go.dev/github.com/matzehuels/graphscope/pkg/render
// [engine]: https://pkg.go.dev/github.com/matzehuels/graphscope/pkg/engine
// [scheduler]: https://pkg.go.dev/github.com/matzehuels/graphscope/pkg/scheduler
// [clock]: https://pkg.go.dev/github.com/matzehuels/graphscope/pkg/clock
// [observability]: https://pkg.go.dev/github.com/matzehuels/graphscope/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/graphscope/pkg/errors
package pkg
