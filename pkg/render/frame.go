package render

// Frame is everything a backend needs to draw one picture.
type Frame struct {
	Width, Height float64
	Nodes         []FrameNode
	Edges         []FrameEdge
	Camera        Camera
}

// Camera is the view transform in normalized coordinates; Ratio 1 shows the
// whole graph.
type Camera struct {
	X, Y, Ratio float64
}

// FrameNode is one node with reduced attributes and layout coordinates.
type FrameNode struct {
	ID          string
	Label       string
	X, Y        float64
	Size        float64
	Color       string
	Alpha       float64
	BorderColor string
	BorderAlpha float64
	ForceLabel  bool
	Hidden      bool
	ZIndex      int
}

// FrameEdge is one edge with reduced attributes.
type FrameEdge struct {
	Source, Target string
	Size           float64
	Color          string
	Alpha          float64
	Hidden         bool
	ForceLabel     bool
	Label          string
	ZIndex         int
}
