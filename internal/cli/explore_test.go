package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/graphscope/pkg/engine"
	"github.com/matzehuels/graphscope/pkg/graph"
	"github.com/matzehuels/graphscope/pkg/interaction"
)

func newTestExplore(t *testing.T) exploreModel {
	t.Helper()
	c := newTestCLI(t)
	events := &eventLog{}
	h, err := c.mountHeadless(testContext(t), writeGraph(t, triangleJSON), testFlags(), func(o *engine.Options) {
		o.OnNodeClick = events.click
		o.OnNodeHover = events.hover
	})
	if err != nil {
		t.Fatalf("mountHeadless: %v", err)
	}
	t.Cleanup(func() { h.Close() })
	return newExploreModel(h, events)
}

func press(m exploreModel, keys ...tea.KeyMsg) exploreModel {
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(exploreModel)
	}
	return m
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestExploreCursorHovers(t *testing.T) {
	m := press(newTestExplore(t), tea.KeyMsg{Type: tea.KeyDown})

	if m.cursor != 1 {
		t.Fatalf("cursor = %d, want 1", m.cursor)
	}
	if st := m.h.eng.State(); st.HoveredID != "b" || st.Mode() != interaction.Hovering {
		t.Errorf("state = %+v, want hovering b", st)
	}
	if m.events.last != "hovering Bath" {
		t.Errorf("status = %q", m.events.last)
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyUp}, tea.KeyMsg{Type: tea.KeyUp})
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want clamped to 0", m.cursor)
	}
}

func TestExploreSelectFocusClear(t *testing.T) {
	m := press(newTestExplore(t), tea.KeyMsg{Type: tea.KeyEnter})
	if st := m.h.eng.State(); st.SelectedID != "a" {
		t.Fatalf("selected = %q, want a", st.SelectedID)
	}
	if m.events.last != "selected Ada" {
		t.Errorf("status = %q", m.events.last)
	}
	if !strings.Contains(m.View(), "selected") {
		t.Error("view does not mark the selection")
	}

	m = press(m, runeKey('f'))
	if !m.h.eng.State().Focused() {
		t.Error("f did not enable focus")
	}
	if m.err != nil {
		t.Fatalf("focus: %v", m.err)
	}
	if n := m.h.eng.Graph().NodeCount(); n != 2 {
		t.Errorf("focused graph has %d nodes, want a and its neighbor b", n)
	}
	if attrs := frameAttrs(m.h.eng, m.ids); !attrs["c"].Hidden || attrs["b"].Hidden {
		t.Errorf("c should be hidden and b shown in focus mode: %+v", attrs)
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyEsc})
	if st := m.h.eng.State(); st.Mode() != interaction.Idle {
		t.Errorf("esc left mode %s", st.Mode())
	}
	if n := m.h.eng.Graph().NodeCount(); n != 3 {
		t.Errorf("esc should restore the full graph, got %d nodes", n)
	}
}

func TestExploreCycleLayout(t *testing.T) {
	m := press(newTestExplore(t), runeKey('l'))
	if m.err != nil {
		t.Fatalf("cycle layout: %v", m.err)
	}
	if got := m.h.eng.Stats().Layout; got != graph.LayoutCircular {
		t.Errorf("layout = %s, want %s", got, graph.LayoutCircular)
	}
	if m.h.props.LayoutType != graph.LayoutCircular {
		t.Errorf("props layout = %s", m.h.props.LayoutType)
	}
}

func TestExploreCameraKeys(t *testing.T) {
	m := press(newTestExplore(t), runeKey('c'))
	if m.err == nil {
		t.Error("centering without a selection should report an error")
	}
	m = press(m, tea.KeyMsg{Type: tea.KeyEnter}, runeKey('c'))
	if m.err != nil {
		t.Errorf("center on selection: %v", m.err)
	}
	m = press(m, runeKey('+'), runeKey('0'), runeKey('n'))
	if m.err != nil {
		t.Errorf("camera keys: %v", m.err)
	}
}

func TestNodeStatus(t *testing.T) {
	m := newTestExplore(t)
	frame, ok := m.h.eng.Frame()
	if !ok {
		t.Fatal("no frame")
	}
	if got := nodeStatus("a", "", "", frame.Nodes[0]); got != "·" {
		t.Errorf("idle status = %q, want ·", got)
	}
}
