package render

// Container is the surface a session draws into.
type Container interface {
	// ID identifies the container in logs.
	ID() string
	// Attached reports whether the container is part of a live view.
	Attached() bool
	// Width and Height are the current dimensions in pixels.
	Width() float64
	Height() float64
}

// Ready reports whether c can host a context: attached with a non-zero size.
func Ready(c Container) bool {
	return c != nil && c.Attached() && c.Width() > 0 && c.Height() > 0
}

// StaticContainer is a fixed-size Container for headless hosts.
type StaticContainer struct {
	Name     string
	W, H     float64
	Detached bool
}

// ID implements Container.
func (c *StaticContainer) ID() string { return c.Name }

// Attached implements Container.
func (c *StaticContainer) Attached() bool { return !c.Detached }

// Width implements Container.
func (c *StaticContainer) Width() float64 { return c.W }

// Height implements Container.
func (c *StaticContainer) Height() float64 { return c.H }
