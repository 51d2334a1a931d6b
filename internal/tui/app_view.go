package tui

import (
	"strings"

	xansi "github.com/charmbracelet/x/ansi"

	"rctui/internal/tree"
)

func (m appModel) View() string {
	width := m.width
	if width <= 0 {
		width = 80
	}

	if m.showHelp {
		helpW := width - 2
		if helpW > 78 {
			helpW = 78
		}
		return buildHelp(m.cfg.Chords, helpW) + "\n" + styleMuted.Render("press any key to close")
	}

	var b strings.Builder

	title := styleTitle.Render("rctui")
	if m.stepping {
		title += "  " + styleAccent.Render("server: working…")
	}
	b.WriteString(title + "\n")

	for i, r := range m.panel.Visible() {
		sel := m.focus == focusPanel && i == m.panelCursor
		b.WriteString(m.renderRow(m.panel, r, sel, width) + "\n")
	}
	b.WriteString("\n")

	rows := m.files.Visible()
	win := m.filesWindow()
	for i := m.filesOff; i < len(rows) && i < m.filesOff+win; i++ {
		sel := m.focus == focusFiles && i == m.filesCursor
		b.WriteString(m.renderRow(m.files, rows[i], sel, width) + "\n")
	}

	b.WriteString(m.footerView(width))
	return b.String()
}

func (m appModel) renderRow(s *tree.Store[string], r tree.Row, selected bool, width int) string {
	n, ok := s.Node(r.ID)
	if !ok {
		return ""
	}
	tw := twistyLeaf()
	switch {
	case n.Expanded && len(n.Children) > 0:
		tw = twistyExpanded()
	case s.CanExpand(r.ID):
		tw = twistyCollapsed()
	}
	line := strings.Repeat("  ", r.Depth) + tw + n.Label
	line = xansi.Truncate(line, width, "…")
	if selected {
		return styleSelected.Render(line)
	}
	return line
}

func (m appModel) footerView(width int) string {
	if m.focus == focusCommand {
		return xansi.Truncate(m.command.View(), width, "")
	}
	if m.minibuffer != "" {
		return styleError.Render(xansi.Truncate(m.minibuffer, width, "…"))
	}
	hints := "enter: toggle/server  tab: switch  :: command  ?: help  q: quit"
	return faintIfDark(styleMuted).Render(xansi.Truncate(hints, width, "…"))
}
