package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"rctui/internal/config"
	"rctui/internal/keymap"
	"rctui/internal/rcd"
	"rctui/internal/store"
	"rctui/internal/tree"
)

type appModel struct {
	cfg config.Config
	log *store.EventLog

	// panel is the control tree ("rclone rc" root with server/client/path
	// status rows); files is the lazily-populated directory tree.
	panel *tree.Store[string]
	files *tree.Store[string]
	sup   *rcd.Supervisor
	km    *keymap.Map

	serverNode tree.NodeID
	clientNode tree.NodeID
	pathNode   tree.NodeID

	width  int
	height int

	focus       focusArea
	panelCursor int
	filesCursor int
	filesOff    int // scroll offset of the files window

	command    textinput.Model
	showHelp   bool
	minibuffer string
	stepping   bool // a supervisor activation is in flight
}

func newAppModel(cfg config.Config, log *store.EventLog) appModel {
	panel := tree.New("rclone rc", "")
	serverNode, _ := panel.Add(panel.Root(), "Server: ...", "")
	clientNode, _ := panel.Add(panel.Root(), "Client: ...", "")
	pathNode, _ := panel.Add(panel.Root(), "rclone path: ...", "")
	_ = panel.Toggle(panel.Root())

	// Open the file tree root immediately so the first screen shows the
	// directory listing rather than a lone collapsed row.
	files := tree.NewFileTree(cfg.Tree.Root)
	_ = files.Toggle(files.Root())

	sup := rcd.New(panel, serverNode, pathNode)
	sup.Binary = cfg.Helper.Binary
	sup.Args = cfg.Helper.Args
	if log != nil {
		sup.Log = log
	}

	km := keymap.New()
	for src, dst := range cfg.Chords {
		_ = km.Bind(config.ParseSequence(src), config.ParseSequence(dst))
	}

	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 120

	applyGlyphPreference()

	return appModel{
		cfg:        cfg,
		log:        log,
		panel:      panel,
		files:      files,
		sup:        sup,
		km:         km,
		serverNode: serverNode,
		clientNode: clientNode,
		pathNode:   pathNode,
		focus:      focusPanel,
		command:    ti,
	}
}

func (m appModel) Init() tea.Cmd { return nil }

func (m appModel) logEvent(kind, detail string) {
	if m.log == nil {
		return
	}
	_ = m.log.Append(context.Background(), kind, detail)
}
