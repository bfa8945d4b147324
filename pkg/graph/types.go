package graph

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// Layout types.
const (
	LayoutForce    = "force"
	LayoutCircular = "circular"
	LayoutRadial   = "radial"
)

// Node sizing metrics.
const (
	SizeByCount    = "count"
	SizeByDegree   = "degree"
	SizeByStrength = "strength"
)

// ValidLayouts is the set of supported layout types.
var ValidLayouts = map[string]bool{
	LayoutForce:    true,
	LayoutCircular: true,
	LayoutRadial:   true,
}

// ValidSizeBy is the set of supported node sizing metrics.
var ValidSizeBy = map[string]bool{
	SizeByCount:    true,
	SizeByDegree:   true,
	SizeByStrength: true,
}

// EntityType classifies a node. The set is open: unknown types are carried
// through and colored with the fallback color.
type EntityType string

// Entity types known to the dashboard.
const (
	EntityPerson       EntityType = "person"
	EntityPlace        EntityType = "place"
	EntityOrganization EntityType = "organization"
	EntityWork         EntityType = "work"
	EntityEvent        EntityType = "event"
	EntityConcept      EntityType = "concept"
)

// =============================================================================
// Graph - Node-Link Serialization
// =============================================================================

// Graph is the canonical serialization format for network graphs.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Node is a vertex of the network. Count, Degree and Strength are computed
// upstream; the engine treats them as opaque sizing metrics.
type Node struct {
	ID       string     `json:"id"`
	Label    string     `json:"label,omitempty"`
	Type     EntityType `json:"type,omitempty"`
	Count    float64    `json:"count,omitempty"`
	Degree   float64    `json:"degree,omitempty"`
	Strength float64    `json:"strength,omitempty"`
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Metric returns the value of the named sizing metric.
// Unknown metric names fall back to Count.
func (n *Node) Metric(sizeBy string) float64 {
	switch sizeBy {
	case SizeByDegree:
		return n.Degree
	case SizeByStrength:
		return n.Strength
	default:
		return n.Count
	}
}

// Edge is an undirected, weighted connection between two nodes.
type Edge struct {
	Source     string  `json:"source"`
	Target     string  `json:"target"`
	Weight     float64 `json:"weight,omitempty"`
	WeightNorm float64 `json:"weightNorm,omitempty"` // Weight normalized to [0,1]
}

// TypeStyle is a per-entity-type styling override supplied by the host.
type TypeStyle struct {
	Color string `json:"color" toml:"color"`
	Label string `json:"label" toml:"label"`
}
