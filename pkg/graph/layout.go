package graph

import (
	"encoding/json"
	"fmt"
	"os"
)

// =============================================================================
// Layout - Exported Positions
// =============================================================================

// Layout is the serialization format for a computed engine frame: node
// positions plus the visual attributes the reducers derived for them.
type Layout struct {
	LayoutType string         `json:"layout_type"`
	Width      float64        `json:"width"`
	Height     float64        `json:"height"`
	SelectedID string         `json:"selected_id,omitempty"`
	FocusMode  bool           `json:"focus_mode,omitempty"`
	Nodes      []PlacedNode   `json:"nodes"`
	Edges      []StyledEdge   `json:"edges,omitempty"`
	Camera     *CameraState   `json:"camera,omitempty"`
	Stats      map[string]int `json:"stats,omitempty"`
}

// PlacedNode is a node with its position and derived attributes.
type PlacedNode struct {
	ID         string     `json:"id"`
	Label      string     `json:"label"`
	Type       EntityType `json:"type,omitempty"`
	X          float64    `json:"x"`
	Y          float64    `json:"y"`
	Size       float64    `json:"size"`
	Color      string     `json:"color"`
	Hidden     bool       `json:"hidden,omitempty"`
	ForceLabel bool       `json:"force_label,omitempty"`
	ZIndex     int        `json:"z_index,omitempty"`
}

// StyledEdge is an edge with its derived attributes.
type StyledEdge struct {
	Source     string  `json:"source"`
	Target     string  `json:"target"`
	Size       float64 `json:"size"`
	Color      string  `json:"color"`
	Hidden     bool    `json:"hidden,omitempty"`
	ForceLabel bool    `json:"force_label,omitempty"`
}

// CameraState is the camera position in normalized graph coordinates.
type CameraState struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Ratio float64 `json:"ratio"`
}

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
// Validates that the layout type is known.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	if l.LayoutType == "" {
		l.LayoutType = LayoutForce
	}
	if !ValidLayouts[l.LayoutType] {
		return Layout{}, fmt.Errorf("unknown layout type %q", l.LayoutType)
	}
	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
