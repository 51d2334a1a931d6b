package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"rctui/internal/tree"
)

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.clampScroll()
		return m, nil

	case supervisorStepMsg:
		m.stepping = false
		if msg.err != nil {
			m.minibuffer = msg.err.Error()
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)
	}
	return m, nil
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return m, tea.Quit
	}
	m.minibuffer = ""

	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	// A focused command area swallows keys before the chord remapper sees
	// them, mirroring how focused-widget input bypasses app-level bindings.
	if m.focus == focusCommand {
		switch key {
		case "enter":
			raw := m.command.Value()
			m.command.Blur()
			m.command.SetValue("")
			m.focus = focusPanel
			return m.runCommand(raw)
		case "esc":
			m.command.Blur()
			m.command.SetValue("")
			m.focus = focusPanel
			return m, nil
		default:
			var cmd tea.Cmd
			m.command, cmd = m.command.Update(msg)
			return m, cmd
		}
	}

	r := m.km.Press(key)
	switch {
	case r.Matched:
		// Redispatch the mapped-to keys through the default pipeline, in
		// order, stopping as soon as one goes unhandled.
		var cmds []tea.Cmd
		for _, k := range r.Target {
			cmd, consumed := m.dispatchKey(k)
			if cmd != nil {
				cmds = append(cmds, cmd)
			}
			if !consumed {
				break
			}
		}
		return m, tea.Batch(cmds...)
	case r.Continuing:
		// Mid-chord: swallow the key entirely.
		return m, nil
	default:
		// The buffered interpretation failed; this key falls through to the
		// default bindings. Earlier buffered keys are not replayed.
		cmd, _ := m.dispatchKey(key)
		return m, cmd
	}
}

// dispatchKey is the post-remap input pipeline: the per-key default bindings.
// Synthetic keys produced by a matched chord enter here exactly like real
// presses. Reports whether the key was consumed.
func (m *appModel) dispatchKey(key string) (tea.Cmd, bool) {
	switch key {
	case "q":
		return tea.Quit, true
	case ":":
		m.focus = focusCommand
		// The triggering ":" is forwarded into the freshly-focused input.
		m.command.SetValue(":")
		m.command.CursorEnd()
		return m.command.Focus(), true
	case "?":
		m.showHelp = true
		return nil, true
	case "tab":
		if m.focus == focusFiles {
			m.focus = focusPanel
		} else {
			m.focus = focusFiles
		}
		return nil, true
	case "up", "k":
		m.moveCursor(-1)
		return nil, true
	case "down", "j":
		m.moveCursor(1)
		return nil, true
	case "enter", " ", "space":
		return m.activateCursor(), true
	}
	return nil, false
}

func (m appModel) runCommand(raw string) (tea.Model, tea.Cmd) {
	cmdStr := strings.TrimSpace(raw)
	if cmdStr == "" {
		return m, nil
	}
	m.logEvent("command", cmdStr)
	switch cmdStr {
	case ":q", ":quit":
		return m, tea.Quit
	case ":help":
		m.showHelp = true
		return m, nil
	default:
		m.minibuffer = "unknown command: " + cmdStr
		return m, nil
	}
}

func (m *appModel) moveCursor(delta int) {
	switch m.focus {
	case focusPanel:
		m.panelCursor = clamp(m.panelCursor+delta, 0, len(m.panel.Visible())-1)
	case focusFiles:
		m.filesCursor = clamp(m.filesCursor+delta, 0, len(m.files.Visible())-1)
		m.clampScroll()
	}
}

// activateCursor acts on the row under the cursor, the keyboard equivalent of
// clicking it.
func (m *appModel) activateCursor() tea.Cmd {
	var (
		s    *tree.Store[string]
		rows []tree.Row
		cur  int
	)
	switch m.focus {
	case focusPanel:
		s, rows, cur = m.panel, m.panel.Visible(), m.panelCursor
	case focusFiles:
		s, rows, cur = m.files, m.files.Visible(), m.filesCursor
	default:
		return nil
	}
	if cur < 0 || cur >= len(rows) {
		return nil
	}
	return m.clickNode(s, rows[cur].ID)
}

// clickNode routes a node activation: the server status row advances the
// supervisor; anything expandable toggles.
func (m *appModel) clickNode(s *tree.Store[string], id tree.NodeID) tea.Cmd {
	if s == m.panel && id == m.serverNode {
		m.stepping = true
		sup := m.sup
		return func() tea.Msg {
			return supervisorStepMsg{err: sup.Activate(context.Background())}
		}
	}
	if s.CanExpand(id) {
		if err := s.Toggle(id); err != nil {
			m.minibuffer = err.Error()
			return nil
		}
		m.clampCursors()
	}
	return nil
}

func (m appModel) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	s, id, ok := m.rowAt(msg.Y)
	if !ok {
		return m, nil
	}
	cmd := m.clickNode(s, id)
	return m, cmd
}

// rowAt maps a screen line to a tree row, moving focus and cursor there.
// Layout: title line, panel rows, blank separator, files window, footer.
func (m *appModel) rowAt(y int) (*tree.Store[string], tree.NodeID, bool) {
	panelRows := m.panel.Visible()
	top := 1 // title line
	if y >= top && y < top+len(panelRows) {
		i := y - top
		m.focus = focusPanel
		m.panelCursor = i
		return m.panel, panelRows[i].ID, true
	}

	filesTop := top + len(panelRows) + 1
	fileRows := m.files.Visible()
	i := y - filesTop + m.filesOff
	if y >= filesTop && y < filesTop+m.filesWindow() && i >= 0 && i < len(fileRows) {
		m.focus = focusFiles
		m.filesCursor = i
		return m.files, fileRows[i].ID, true
	}
	return nil, 0, false
}

// filesWindow is the number of file rows that fit between the panel and the
// footer.
func (m appModel) filesWindow() int {
	h := m.height
	if h <= 0 {
		h = 24
	}
	w := h - 1 /* title */ - len(m.panel.Visible()) - 1 /* separator */ - 1 /* footer */
	if w < 3 {
		w = 3
	}
	return w
}

func (m *appModel) clampScroll() {
	win := m.filesWindow()
	if m.filesCursor < m.filesOff {
		m.filesOff = m.filesCursor
	}
	if m.filesCursor >= m.filesOff+win {
		m.filesOff = m.filesCursor - win + 1
	}
	if m.filesOff < 0 {
		m.filesOff = 0
	}
}

// clampCursors keeps cursors valid after a collapse shrinks the row count.
func (m *appModel) clampCursors() {
	m.panelCursor = clamp(m.panelCursor, 0, len(m.panel.Visible())-1)
	m.filesCursor = clamp(m.filesCursor, 0, len(m.files.Visible())-1)
	m.clampScroll()
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
