// Package layout computes 2D node coordinates for the engine.
//
// # Strategies
//
// Three strategies are supported, selected by layout type:
//
//   - [graph.LayoutForce]: ForceAtlas2-style attraction/repulsion solve
//     (gravity 0.3, scaling ratio 40 or 80 above 100 nodes, Barnes-Hut above
//     30 nodes with theta 0.6, lin-log attraction, edge weight influence 0.5).
//   - [graph.LayoutCircular]: nodes grouped by entity type, evenly spaced
//     around a circle of radius max(50, 2n).
//   - [graph.LayoutRadial]: BFS rings around the selected node at radii 60,
//     120 and 180. Without a selection it falls back to force.
//
// # Position Cache Policy
//
// Force layouts consult the engine's [positions.Cache] first:
//
//	hit ratio >= 0.8   reuse cached positions, zero solver iterations
//	hit ratio >= 0.5   short solve (10 iterations, heavier damping) seeded from cache
//	otherwise          full solve, clamp(120-n, 30, 80) iterations
//
// Only force passes write the cache. Circular and radial layouts are
// deterministic from topology and leave it untouched.
//
// # Usage
//
//	eng := layout.New(cache, layout.WithSeed(42))
//	res := eng.Compute(g, graph.LayoutForce, "")
//	for id, p := range res.Positions {
//	    // ...
//	}
//
// Layout runs synchronously. Node counts are bounded by the host, and the
// iteration budget shrinks as the graph grows.
package layout
