package engine

import "slices"

// FocusView returns the props a host shows for full under the given
// selection and focus mode. While focused on a selection the node and edge
// sets are cut down to the selection's ego network; otherwise full is
// returned unchanged apart from the selection and focus fields.
func FocusView(full Props, selected string, focus bool) (Props, error) {
	p := full
	p.SelectedNodeID = selected
	p.FocusMode = focus
	if !focus || selected == "" {
		return p, nil
	}

	g, err := buildGraph(full)
	if err != nil {
		return Props{}, err
	}
	ego, err := g.EgoNetwork(selected)
	if err != nil {
		return Props{}, err
	}
	wire := ego.Serialize()
	p.Nodes, p.Edges = wire.Nodes, wire.Edges
	return p, nil
}

// ApplyFocus brings the shown graph in line with the interaction state: the
// ego network of the selection while focus mode is on, full otherwise. full
// is the host's complete props. A changed node set is rebuilt immediately.
// It reports whether the shown node set changed.
func (e *Engine) ApplyFocus(full Props) (bool, error) {
	st := e.State()
	view, err := FocusView(full, st.SelectedID, st.Focus)
	if err != nil {
		return false, err
	}

	e.mu.Lock()
	if e.destroyed {
		e.mu.Unlock()
		return false, ErrDestroyed
	}
	same := slices.Equal(e.props.IDs(), view.IDs())
	e.mu.Unlock()
	if same {
		return false, nil
	}

	if err := e.Update(view); err != nil {
		return false, err
	}
	e.Flush()
	e.logger.Debug("focus view applied", "selected", st.SelectedID, "focus", st.Focus, "nodes", len(view.Nodes))
	return true, nil
}
