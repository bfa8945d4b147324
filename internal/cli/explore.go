package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/graphscope/pkg/engine"
	"github.com/matzehuels/graphscope/pkg/graph"
	"github.com/matzehuels/graphscope/pkg/render"
)

// exploreCommand creates the interactive explore command.
func (c *CLI) exploreCommand() *cobra.Command {
	var flags viewFlags

	cmd := &cobra.Command{
		Use:   "explore [graph.json]",
		Short: "Explore a network graph in the terminal",
		Long: `Explore a network graph in the terminal.

Moving the cursor hovers a node, enter selects it and esc clears the
selection. The table shows what an interactive view would draw for each
node: highlighted, dimmed, hidden or labeled.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExplore(cmd.Context(), args[0], flags)
		},
	}
	addViewFlags(cmd, &flags)
	return cmd
}

func (c *CLI) runExplore(ctx context.Context, input string, flags viewFlags) error {
	events := &eventLog{}
	h, err := c.mountHeadless(ctx, input, flags, func(o *engine.Options) {
		o.OnNodeClick = events.click
		o.OnNodeHover = events.hover
	})
	if err != nil {
		return err
	}
	defer h.Close()

	_, err = tea.NewProgram(newExploreModel(h, events), tea.WithContext(ctx), tea.WithAltScreen()).Run()
	return err
}

// eventLog keeps the last engine callback for the status line.
type eventLog struct {
	last string
}

func (l *eventLog) click(n *graph.Node) {
	if n == nil {
		l.last = "selection cleared"
		return
	}
	l.last = "selected " + n.DisplayLabel()
}

func (l *eventLog) hover(n *graph.Node) {
	if n == nil {
		l.last = ""
		return
	}
	l.last = "hovering " + n.DisplayLabel()
}

// =============================================================================
// exploreModel - bubbletea model over one engine
// =============================================================================

var layoutCycle = []string{graph.LayoutForce, graph.LayoutCircular, graph.LayoutRadial}

var (
	rowSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	rowNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	rowDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	rowHiddenStyle   = lipgloss.NewStyle().Foreground(colorDim).Strikethrough(true)
)

type exploreModel struct {
	h      *headless
	events *eventLog
	ids    []string
	cursor int
	offset int
	height int
	err    error
}

func newExploreModel(h *headless, events *eventLog) exploreModel {
	ids := make([]string, len(h.props.Nodes))
	for i, n := range h.props.Nodes {
		ids[i] = n.ID
	}
	return exploreModel{h: h, events: events, ids: ids, height: 15}
}

func (m exploreModel) Init() tea.Cmd { return nil }

func (m exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	eng := m.h.eng
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.err = nil
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			m.move(-1)
		case "down", "j":
			m.move(1)
		case "enter", " ":
			if id, ok := m.current(); ok {
				eng.Click(id)
				m.err = m.h.refocus()
			}
		case "esc":
			eng.ClickStage()
			m.err = m.h.refocus()
		case "f":
			st := eng.State()
			eng.SetFocus(!st.Focus)
			m.err = m.h.refocus()
		case "l":
			m.err = m.cycleLayout()
		case "+", "=":
			m.err = eng.ZoomIn()
		case "-":
			m.err = eng.ZoomOut()
		case "0":
			m.err = eng.ResetCamera()
		case "c":
			m.err = eng.FocusOnSelection(eng.State().SelectedID)
		case "n":
			if id, ok := m.current(); ok {
				m.err = eng.FocusNode(id)
			}
		}
	case tea.WindowSizeMsg:
		m.height = max(msg.Height-10, 5)
	}
	return m, nil
}

func (m *exploreModel) current() (string, bool) {
	if len(m.ids) == 0 {
		return "", false
	}
	return m.ids[m.cursor], true
}

// move shifts the cursor and hovers the node under it.
func (m *exploreModel) move(delta int) {
	if len(m.ids) == 0 {
		return
	}
	m.cursor = min(max(m.cursor+delta, 0), len(m.ids)-1)
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
	m.h.eng.Hover(m.ids[m.cursor])
}

// cycleLayout switches to the next layout type and rebuilds immediately.
func (m *exploreModel) cycleLayout() error {
	p := m.h.props
	next := layoutCycle[0]
	for i, l := range layoutCycle {
		if l == p.LayoutType {
			next = layoutCycle[(i+1)%len(layoutCycle)]
		}
	}
	p.LayoutType = next
	st := m.h.eng.State()
	view, err := engine.FocusView(p, st.SelectedID, st.Focus)
	if err != nil {
		return err
	}
	if err := m.h.eng.Update(view); err != nil {
		return err
	}
	m.h.props = p
	m.h.eng.Flush()
	return nil
}

func (m exploreModel) View() string {
	var b strings.Builder
	eng := m.h.eng
	st := eng.State()

	b.WriteString(StyleTitle.Render("graphscope explore"))
	b.WriteString("\n")
	b.WriteString(rowDimStyle.Render("↑/↓ hover  ⏎ select  esc clear  f focus  l layout  +/-/0 zoom  c/n center  q quit"))
	b.WriteString("\n\n")

	attrs := frameAttrs(eng, m.ids)

	end := min(m.offset+m.height, len(m.ids))
	rows := make([][]string, 0, end-m.offset)
	for i := m.offset; i < end; i++ {
		id := m.ids[i]
		n := m.h.props.Nodes[i]
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, id, n.DisplayLabel(), string(n.Type), nodeStatus(id, st.SelectedID, st.HoveredID, attrs[id])})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "ID", "Label", "Type", "View").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return lipgloss.NewStyle().Foreground(colorGray).Bold(true)
			}
			idx := m.offset + row
			if idx >= len(m.ids) {
				return lipgloss.NewStyle()
			}
			a := attrs[m.ids[idx]]
			switch {
			case idx == m.cursor:
				return rowSelectedStyle
			case a.Hidden:
				return rowHiddenStyle
			case a.Alpha < 1:
				return rowDimStyle
			default:
				return rowNormalStyle
			}
		})
	b.WriteString(t.Render())
	b.WriteString("\n\n")

	cam := eng.Camera()
	b.WriteString(formatStats(eng.Stats()))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render(fmt.Sprintf("mode %s · camera (%.2f, %.2f) ×%.2f · [%d/%d]",
		st.Mode(), cam.X, cam.Y, cam.Ratio, m.cursor+1, len(m.ids))))
	b.WriteString("\n")
	switch {
	case m.err != nil:
		b.WriteString(StyleWarning.Render(m.err.Error()))
	case m.events.last != "":
		b.WriteString(StyleHighlight.Render(m.events.last))
	}
	return b.String()
}

// frameAttrs indexes the current frame by node. Nodes outside the shown
// graph, as in focus mode, are reported hidden.
func frameAttrs(eng *engine.Engine, ids []string) map[string]render.FrameNode {
	frame, _ := eng.Frame()
	attrs := make(map[string]render.FrameNode, len(ids))
	for _, id := range ids {
		attrs[id] = render.FrameNode{ID: id, Hidden: true}
	}
	for _, n := range frame.Nodes {
		attrs[n.ID] = n
	}
	return attrs
}

// nodeStatus describes how a node is drawn.
func nodeStatus(id, selected, hovered string, a render.FrameNode) string {
	var parts []string
	switch id {
	case selected:
		parts = append(parts, "selected")
	case hovered:
		parts = append(parts, "hovered")
	}
	switch {
	case a.Hidden:
		parts = append(parts, "hidden")
	case a.Alpha < 1:
		parts = append(parts, "dimmed")
	}
	if a.ForceLabel {
		parts = append(parts, "labeled")
	}
	if len(parts) == 0 {
		return "·"
	}
	return strings.Join(parts, ", ")
}
