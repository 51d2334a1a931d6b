package tui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"rctui/internal/config"
	"rctui/internal/rcd"
)

func newTestModel(t *testing.T, chords map[string]string) appModel {
	t.Helper()
	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, "sub"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "file.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg := config.Config{
		Helper: config.HelperConfig{Binary: "rclone", Args: []string{"rcd"}},
		Tree:   config.TreeConfig{Root: root},
		Chords: chords,
	}
	m := newAppModel(cfg, nil)
	m.width = 80
	m.height = 24
	return m
}

func press(t *testing.T, m appModel, keys ...string) (appModel, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		msg := keyMsg(k)
		var mm tea.Model
		mm, cmd = m.Update(msg)
		m = mm.(appModel)
	}
	return m, cmd
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

func stubLocateFailure(m appModel) {
	m.sup.LookPath = func(string) (string, error) { return "", errors.New("not found") }
}

func TestChordRedispatchEndToEnd(t *testing.T) {
	// bind ("a","a") -> ("enter",): pressing "a" twice must hit the default
	// pipeline as exactly one enter, with nothing bleeding through from the
	// intermediate presses.
	m := newTestModel(t, map[string]string{"a a": "enter"})
	stubLocateFailure(m)

	m, _ = press(t, m, "down") // cursor onto the server status row

	m, cmd := press(t, m, "a")
	if cmd != nil {
		t.Fatalf("first a is mid-chord and must produce no command")
	}
	serverRow, _ := m.panel.Node(m.serverNode)
	if serverRow.Label != "Server: ..." {
		t.Fatalf("intermediate press must not touch the tree, label %q", serverRow.Label)
	}

	m, cmd = press(t, m, "a")
	if cmd == nil {
		t.Fatalf("completed chord should dispatch the mapped enter")
	}
	if !m.stepping {
		t.Fatalf("enter on the server row should start a supervisor step")
	}

	// Exactly one activation: running the returned command performs the step.
	msg := cmd()
	step, ok := msg.(supervisorStepMsg)
	if !ok {
		t.Fatalf("expected supervisorStepMsg, got %T", msg)
	}
	if step.err != nil {
		t.Fatalf("locate failure is label-only, got error %v", step.err)
	}
	serverRow, _ = m.panel.Node(m.serverNode)
	if serverRow.Label != "Server: Cannot find rclone binary." {
		t.Fatalf("label after activation: %q", serverRow.Label)
	}
	if m.sup.State() != rcd.StateLocateFailed {
		t.Fatalf("state: %v", m.sup.State())
	}
}

func TestDefaultChordZZQuits(t *testing.T) {
	m := newTestModel(t, map[string]string{"Z Z": "q"})

	m, cmd := press(t, m, "Z")
	if cmd != nil {
		t.Fatalf("single Z must be swallowed")
	}
	_, cmd = press(t, m, "Z")
	if cmd == nil {
		t.Fatalf("ZZ should map to q")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected quit, got %T", cmd())
	}
}

func TestFailedChordFallsThrough(t *testing.T) {
	m := newTestModel(t, map[string]string{"Z Z": "q"})

	m, cmd := press(t, m, "Z", "x")
	if cmd != nil {
		t.Fatalf("Zx matches nothing and x has no default binding, got a command")
	}

	// The buffer reset: a fresh ZZ still quits.
	_, cmd = press(t, m, "Z", "Z")
	if cmd == nil {
		t.Fatalf("chord should work after a failed sequence")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected quit, got %T", cmd())
	}
}

func TestCommandModeQuit(t *testing.T) {
	m := newTestModel(t, nil)

	m, _ = press(t, m, ":")
	if m.focus != focusCommand {
		t.Fatalf("':' should focus the command area")
	}
	if m.command.Value() != ":" {
		t.Fatalf("the triggering ':' must be forwarded, value %q", m.command.Value())
	}

	m, _ = press(t, m, "q")
	if m.command.Value() != ":q" {
		t.Fatalf("printable keys append, value %q", m.command.Value())
	}

	_, cmd := press(t, m, "enter")
	if cmd == nil {
		t.Fatalf(":q should produce a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected quit, got %T", cmd())
	}
}

func TestCommandModeUnknownCommand(t *testing.T) {
	m := newTestModel(t, nil)

	m, _ = press(t, m, ":")
	m, _ = press(t, m, "x")
	m, _ = press(t, m, "enter")
	if m.focus == focusCommand {
		t.Fatalf("enter should leave command mode")
	}
	if !strings.Contains(m.minibuffer, "unknown command") {
		t.Fatalf("minibuffer: %q", m.minibuffer)
	}

	// While focused, keys must bypass the chord remapper and default binds.
	m, cmd := press(t, m, ":")
	m, cmd = press(t, m, "q") // appends, must NOT quit
	if cmd != nil {
		if _, ok := cmd().(tea.QuitMsg); ok {
			t.Fatalf("q inside command mode must not quit")
		}
	}
	_ = m
}

func TestCommandModeEscCancels(t *testing.T) {
	m := newTestModel(t, nil)
	m, _ = press(t, m, ":")
	m, _ = press(t, m, "esc")
	if m.focus == focusCommand {
		t.Fatalf("esc should cancel command mode")
	}
	if m.command.Value() != "" {
		t.Fatalf("esc should clear the buffer, value %q", m.command.Value())
	}
}

func TestClickServerRowActivates(t *testing.T) {
	m := newTestModel(t, nil)
	stubLocateFailure(m)

	// Layout: y=0 title, y=1 panel root, y=2 server row.
	click := tea.MouseMsg{X: 0, Y: 2, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
	mm, cmd := m.Update(click)
	m = mm.(appModel)
	if cmd == nil {
		t.Fatalf("clicking the server row should start an activation")
	}
	if m.focus != focusPanel || m.panelCursor != 1 {
		t.Fatalf("click should move focus/cursor to the row, focus=%v cursor=%d", m.focus, m.panelCursor)
	}
	if msg, ok := cmd().(supervisorStepMsg); !ok || msg.err != nil {
		t.Fatalf("expected clean supervisorStepMsg, got %#v", msg)
	}
}

func TestClickTogglesDirectory(t *testing.T) {
	m := newTestModel(t, nil)

	// Files area starts after title + 4 panel rows + separator.
	filesTop := 1 + len(m.panel.Visible()) + 1
	before := len(m.files.Visible())
	if before < 3 { // root + sub + file.txt
		t.Fatalf("expected populated file tree, got %d rows", before)
	}

	// Click the root row: it collapses.
	click := tea.MouseMsg{X: 0, Y: filesTop, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
	mm, _ := m.Update(click)
	m = mm.(appModel)
	if got := len(m.files.Visible()); got != 1 {
		t.Fatalf("expected collapsed root (1 row), got %d", got)
	}
}

func TestEnterExpandsDirectory(t *testing.T) {
	m := newTestModel(t, nil)

	m, _ = press(t, m, "tab") // focus files
	if m.focus != focusFiles {
		t.Fatalf("tab should focus the file tree")
	}

	// Walk down to the "sub" directory row and expand it. ReadDir sorts, so
	// rows are: root, file.txt, sub.
	m, _ = press(t, m, "down", "down")
	rows := m.files.Visible()
	n, _ := m.files.Node(rows[m.filesCursor].ID)
	if n.Label != "sub" {
		t.Fatalf("cursor should be on sub, got %q", n.Label)
	}
	m, _ = press(t, m, "enter")
	n, _ = m.files.Node(rows[m.filesCursor].ID)
	if !n.Expanded {
		t.Fatalf("enter should expand the directory")
	}
}

func TestHelpOverlayToggles(t *testing.T) {
	m := newTestModel(t, map[string]string{"Z Z": "q"})
	m, _ = press(t, m, "?")
	if !m.showHelp {
		t.Fatalf("? should open help")
	}
	if v := m.View(); !strings.Contains(v, "press any key to close") {
		t.Fatalf("help view missing close hint")
	}
	m, _ = press(t, m, "x")
	if m.showHelp {
		t.Fatalf("any key should close help")
	}
}

func TestSupervisorStepMsgSurfacesError(t *testing.T) {
	m := newTestModel(t, nil)
	mm, _ := m.Update(supervisorStepMsg{err: context.DeadlineExceeded})
	m = mm.(appModel)
	if m.stepping {
		t.Fatalf("step flag should clear")
	}
	if m.minibuffer == "" {
		t.Fatalf("errors should surface in the minibuffer")
	}
}
