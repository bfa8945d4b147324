package interaction

import "github.com/matzehuels/graphscope/pkg/network"

// Mode is the derived interaction state.
type Mode int

const (
	Idle Mode = iota
	Hovering
	Selected
	SelectedFocused
)

func (m Mode) String() string {
	switch m {
	case Hovering:
		return "hovering"
	case Selected:
		return "selected"
	case SelectedFocused:
		return "selected+focused"
	default:
		return "idle"
	}
}

// State is the raw view state. Focus without a selection is tolerated and
// treated as non-focused.
type State struct {
	SelectedID string
	HoveredID  string
	Focus      bool
}

// Mode derives the interaction mode. A selection takes precedence over hover.
func (s State) Mode() Mode {
	switch {
	case s.SelectedID != "" && s.Focus:
		return SelectedFocused
	case s.SelectedID != "":
		return Selected
	case s.HoveredID != "":
		return Hovering
	default:
		return Idle
	}
}

// Focused reports whether focus mode is in effect.
func (s State) Focused() bool { return s.Mode() == SelectedFocused }

// Transition describes one state change.
type Transition struct {
	From, To Mode
	Event    string
}

// Changed reports whether the transition moved to a different mode.
func (t Transition) Changed() bool { return t.From != t.To }

// Machine is the interaction state machine. It is not safe for concurrent
// use; the engine serializes access.
type Machine struct {
	state State
}

// NewMachine returns a machine in the Idle state.
func NewMachine() *Machine { return &Machine{} }

// State returns a copy of the current state.
func (m *Machine) State() State { return m.state }

// Mode returns the current mode.
func (m *Machine) Mode() Mode { return m.state.Mode() }

func (m *Machine) apply(event string, fn func(*State)) Transition {
	from := m.state.Mode()
	fn(&m.state)
	return Transition{From: from, To: m.state.Mode(), Event: event}
}

// Hover marks id as hovered.
func (m *Machine) Hover(id string) Transition {
	return m.apply("hover", func(s *State) { s.HoveredID = id })
}

// Unhover clears the hovered node.
func (m *Machine) Unhover() Transition {
	return m.apply("unhover", func(s *State) { s.HoveredID = "" })
}

// Click selects id, or returns to Idle when id is already selected.
// Clicking clears focus mode.
func (m *Machine) Click(id string) Transition {
	return m.apply("click", func(s *State) {
		s.Focus = false
		if s.SelectedID == id {
			s.SelectedID = ""
			s.HoveredID = ""
			return
		}
		s.SelectedID = id
	})
}

// ClickStage handles a click on the background: everything is cleared.
func (m *Machine) ClickStage() Transition {
	return m.apply("click-stage", func(s *State) { *s = State{} })
}

// Select sets the selection without toggle semantics. An empty id clears it.
// Hosts use this to mirror an externally controlled selection.
func (m *Machine) Select(id string) Transition {
	return m.apply("select", func(s *State) {
		if s.SelectedID != id {
			s.Focus = false
		}
		s.SelectedID = id
	})
}

// SetFocus enters or exits focus mode.
func (m *Machine) SetFocus(on bool) Transition {
	return m.apply("focus", func(s *State) { s.Focus = on })
}

// Prune drops hovered and selected ids that no longer exist in g.
func (m *Machine) Prune(g *network.Graph) Transition {
	return m.apply("prune", func(s *State) {
		if s.HoveredID != "" && !g.HasNode(s.HoveredID) {
			s.HoveredID = ""
		}
		if s.SelectedID != "" && !g.HasNode(s.SelectedID) {
			s.SelectedID = ""
			s.Focus = false
		}
	})
}
