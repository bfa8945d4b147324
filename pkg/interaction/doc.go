// Package interaction tracks hover, selection and focus state and derives
// per-node and per-edge visual attributes from it.
//
// # States
//
//	Idle --hover--> Hovering --unhover--> Idle
//	* --click(node)--> Selected(node)
//	Selected(n) --click(n)--> Idle
//	Selected --focus on--> Selected+Focused --focus off--> Selected
//	* --click(stage)--> Idle
//
// [Machine] holds the state; [ReduceNode] and [ReduceEdge] are pure functions
// of (state, graph, base attributes) and never mutate their inputs, so applying
// a reducer twice yields the same attributes.
//
// Base attributes come from [BaseNodes] and [BaseEdges]: node size is
// normalized to 5-24 over the chosen metric and colors come from a [Palette].
package interaction
