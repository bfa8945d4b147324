// Package network provides the validated, adjacency-indexed graph the engine
// lays out and renders.
//
// # Overview
//
// Hosts hand the engine plain node and edge lists ([graph.Node], [graph.Edge]).
// [Build] turns them into a [Graph] supporting O(1) node lookup and O(degree)
// neighbor iteration. Validation is asymmetric on purpose:
//
//   - Duplicate or empty node IDs are rejected: node identity drives the
//     position cache and the interaction state, so an ambiguous ID is fatal.
//   - Edges whose source or target is missing are dropped individually and
//     reported in [Graph.Dropped]. One dangling edge never aborts a build.
//
// Edges are undirected for neighbor purposes. Self loops are kept as edges but
// a node is never listed as its own neighbor.
//
// # Basic Usage
//
//	g, err := network.Build(nodes, edges)
//	if err != nil {
//	    return err // duplicate or empty id
//	}
//	for _, e := range g.Dropped() {
//	    logger.Warn("dropped edge", "source", e.Source, "target", e.Target)
//	}
//	for _, id := range g.Neighbors("erasmus") {
//	    // ...
//	}
//
// # Ego Networks
//
// [Graph.EgoNetwork] extracts a node, its direct neighbors, and the edges among
// them. Focus mode hosts use it to pre-filter the graph before handing it back
// to the engine.
//
// # Concurrency
//
// A Graph is immutable after Build and safe for concurrent reads.
package network
