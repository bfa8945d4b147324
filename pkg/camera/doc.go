// Package camera computes view transforms over a laid-out graph.
//
// Coordinates are normalized to the graph's bounding box the way the
// renderer does it: the box is centered on (0.5, 0.5) and scaled by its larger
// side, so the whole graph fits in the unit square. A camera [State] is a
// center in that space plus a ratio, where 1 shows everything and smaller
// ratios zoom in.
//
// Every move returns an [Animation] lasting [Duration] with quadratic
// in-out easing.
package camera
