// Package graph provides serialization types for network graphs and layouts.
//
// This package defines the canonical wire format for graphscope's graph data,
// used for JSON files, API payloads, and the props handed to the engine.
//
// # Architecture
//
// The package sits at the serialization boundary between hosts and the engine:
//
//   - [Graph], [Node], [Edge]: input node/edge lists (this package)
//   - pkg/network.Graph: validated, adjacency-indexed representation
//   - [Layout]: computed positions and visual attributes for export
//
// # Constants
//
// This package is the single source of truth for engine enumerations:
//
//	graph.LayoutForce      // "force"
//	graph.LayoutCircular   // "circular"
//	graph.LayoutRadial     // "radial"
//	graph.SizeByCount      // "count"
//	graph.SizeByDegree     // "degree"
//	graph.SizeByStrength   // "strength"
//
// # Graph Serialization
//
// Graphs use a node-link JSON format:
//
//	{
//	  "nodes": [{"id": "erasmus", "label": "Erasmus", "type": "person", "count": 12}],
//	  "edges": [{"source": "erasmus", "target": "basel", "weight": 3, "weightNorm": 0.5}]
//	}
//
// Common operations:
//
//	g, _ := graph.ReadGraphFile("network.json")  // File → Graph
//	data, _ := graph.MarshalGraph(g)             // Graph → []byte
//	g, _ = graph.UnmarshalGraph(data)            // []byte → Graph
//
// Reading does not validate endpoints; that is pkg/network's job, which drops
// dangling edges instead of failing the whole document.
//
// # Concurrency
//
// All functions are safe for concurrent reads but not concurrent writes.
package graph
