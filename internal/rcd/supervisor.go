// Package rcd supervises a single `rclone rcd` helper process and reports its
// status by rewriting control-panel tree labels.
package rcd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"

	"rctui/internal/tree"
)

// ReadyMarker is the substring rclone prints on stderr when the remote
// control listener is up. It is matched against the first stderr line only.
const ReadyMarker = " NOTICE: Serving remote control on "

// DefaultBinary is the executable located on PATH when none is configured.
const DefaultBinary = "rclone"

// ErrStartFailure wraps spawn errors (missing or unauthorized binary). The
// supervisor resets to Idle when it is returned; the next activation retries
// from discovery.
var ErrStartFailure = errors.New("rcd: helper failed to start")

// State is the supervisor's position in its lifecycle. Between activations it
// only ever rests at Idle, LocateFailed, or Running; the other states are
// transient within a single activation step.
type State int

const (
	StateIdle State = iota
	StateLocating
	StateStarting
	StateRunning
	StateStopping
	StateLocateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLocating:
		return "locating"
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateLocateFailed:
		return "locate-failed"
	default:
		return "unknown"
	}
}

// Process is the handle to a spawned helper. The supervisor owns the handle
// exclusively from spawn until kill; it never escapes that span.
type Process interface {
	Stderr() io.Reader
	Kill() error
	Wait() error
}

// Spawner starts the helper as a background service with stderr captured.
type Spawner func(ctx context.Context, path string, args ...string) (Process, error)

// EventLogger receives lifecycle events. store.EventLog satisfies it.
type EventLogger interface {
	Append(ctx context.Context, kind, detail string) error
}

// Supervisor drives the helper through its lifecycle one step per Activate
// call. Status is surfaced by mutating the labels of two nodes in the control
// panel tree: the server status node and the resolved-path node.
type Supervisor struct {
	Binary string   // executable name looked up on PATH; DefaultBinary if empty
	Args   []string // helper arguments; defaults to ["rcd"]
	Log    EventLogger

	nodes      *tree.Store[string]
	serverNode tree.NodeID
	pathNode   tree.NodeID

	// LookPath and Spawn are the process-facing seams; tests replace them
	// with stubs. Defaults use exec.LookPath and os/exec.
	LookPath func(file string) (string, error)
	Spawn    Spawner

	mu    sync.Mutex
	state State
	path  string // cached across activations once discovery succeeds
	proc  Process
}

// New returns an Idle supervisor reporting through the given nodes.
func New(nodes *tree.Store[string], serverNode, pathNode tree.NodeID) *Supervisor {
	return &Supervisor{
		nodes:      nodes,
		serverNode: serverNode,
		pathNode:   pathNode,
		LookPath:   exec.LookPath,
		Spawn:      spawnExec,
	}
}

// State reports the current lifecycle state.
func (s *Supervisor) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Path reports the cached helper path; empty until discovery first succeeds.
func (s *Supervisor) Path() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.path
}

// Activate advances the state machine by one visible step. Calls are
// serialized on the supervisor mutex, so a click landing while a step is
// mid-flight waits for it rather than spawning a second process.
//
// The step from Starting blocks on the helper's first stderr line with no
// timeout; a helper that starts but never writes will hang the activation.
func (s *Supervisor) Activate(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateRunning {
		s.stop(ctx)
		return nil
	}
	return s.start(ctx)
}

func (s *Supervisor) start(ctx context.Context) error {
	s.state = StateLocating
	if s.path == "" {
		binary := s.Binary
		if binary == "" {
			binary = DefaultBinary
		}
		path, err := s.LookPath(binary)
		if err != nil {
			// Recoverable: surfaced as a label only, retried next activation.
			s.state = StateLocateFailed
			s.setLabel(ctx, s.serverNode, "server.locate_failed", "Server: Cannot find rclone binary.")
			return nil
		}
		s.path = path
		_ = s.nodes.SetData(s.pathNode, path)
		s.setLabel(ctx, s.pathNode, "server.located", "rclone path: "+path)
	}

	s.state = StateStarting
	s.setLabel(ctx, s.serverNode, "server.starting", "Server: Starting.")

	args := s.Args
	if args == nil {
		args = []string{"rcd"}
	}
	proc, err := s.Spawn(ctx, s.path, args...)
	if err != nil {
		s.state = StateIdle
		s.logEvent(ctx, "server.start_failed", err.Error())
		return fmt.Errorf("%w: %v", ErrStartFailure, err)
	}
	s.proc = proc

	// One blocking read of the first diagnostic line. A read error or a
	// stream that closes before any newline is handled exactly like a line
	// without the marker: the helper is up but possibly incompatible.
	line, _ := bufio.NewReader(proc.Stderr()).ReadString('\n')
	s.state = StateRunning
	if strings.Contains(line, ReadyMarker) {
		s.setLabel(ctx, s.serverNode, "server.started", "Server: Started.")
	} else {
		s.setLabel(ctx, s.serverNode, "server.degraded", "Server: Started but may be incompatible.")
	}
	return nil
}

func (s *Supervisor) stop(ctx context.Context) {
	s.state = StateStopping
	s.setLabel(ctx, s.serverNode, "server.stopping", "Server: Stopping.")
	s.kill()
	s.state = StateIdle
	s.setLabel(ctx, s.serverNode, "server.stopped", "Server: Stopped.")
}

// kill terminates the live process handle, if any. Unconditional once a
// handle exists, and idempotent: the handle is dropped before Kill returns.
func (s *Supervisor) kill() {
	proc := s.proc
	if proc == nil {
		return
	}
	s.proc = nil
	_ = proc.Kill()
	_ = proc.Wait()
}

// Close releases the helper if the host is torn down mid-Running. No label
// writes: the tree is typically gone by the time this runs.
func (s *Supervisor) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.kill()
	s.state = StateIdle
	return nil
}

func (s *Supervisor) setLabel(ctx context.Context, id tree.NodeID, kind, label string) {
	_ = s.nodes.SetLabel(id, label)
	s.logEvent(ctx, kind, label)
}

func (s *Supervisor) logEvent(ctx context.Context, kind, detail string) {
	if s.Log == nil {
		return
	}
	// Best-effort: a failing log write must not disturb the state machine.
	_ = s.Log.Append(ctx, kind, detail)
}

type execProcess struct {
	cmd    *exec.Cmd
	stderr io.ReadCloser
}

func (p *execProcess) Stderr() io.Reader { return p.stderr }
func (p *execProcess) Kill() error       { return p.cmd.Process.Kill() }
func (p *execProcess) Wait() error       { return p.cmd.Wait() }

func spawnExec(ctx context.Context, path string, args ...string) (Process, error) {
	cmd := exec.CommandContext(ctx, path, args...)
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return &execProcess{cmd: cmd, stderr: stderr}, nil
}
