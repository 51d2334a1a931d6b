// Package keymap turns ambiguous multi-key input sequences into single
// logical actions, vi-style: pressing "Z" twice can be bound to behave like a
// single "q".
package keymap

import (
	"errors"
	"strings"
)

// ErrPending is returned by Bind/Unbind while a partially-entered sequence is
// buffered; mutating the mapping mid-chord would make the buffered prefix
// ambiguous.
var ErrPending = errors.New("keymap: cannot rebind while a key sequence is pending")

// Result is the outcome of one Press.
//
// Exactly one interpretation applies: either the buffered sequence matched a
// binding (Matched, with Target holding the keys to redispatch), or it is
// still a viable prefix (Continuing), or it matched nothing and the buffer
// was dropped (neither).
type Result struct {
	Matched    bool
	Target     []string
	Continuing bool
}

// Map buffers key presses and resolves them against bound sequences.
// Not safe for concurrent use; it is driven by the single input loop.
type Map struct {
	pending  []string
	bindings map[string][]string
}

func New() *Map {
	return &Map{bindings: map[string][]string{}}
}

// Bind registers (or overwrites) a mapping from one key sequence to another.
// Note that binding both a sequence and an extension of it (say "ab" and
// "abc") leaves the longer one unreachable: Press resolves exact matches
// before considering prefixes.
func (m *Map) Bind(source, target []string) error {
	if len(m.pending) != 0 {
		return ErrPending
	}
	m.bindings[encode(source)] = append([]string(nil), target...)
	return nil
}

// Unbind removes a mapping; removing an absent source is a no-op.
func (m *Map) Unbind(source []string) error {
	if len(m.pending) != 0 {
		return ErrPending
	}
	delete(m.bindings, encode(source))
	return nil
}

// Press appends key to the buffered sequence and resolves it.
//
// Exact match wins and clears the buffer. Otherwise, if the sequence is a
// strict prefix of at least one binding it stays buffered (Continuing).
// Otherwise the buffer is dropped entirely: the caller gets the fallthrough
// signal for this key only, never a replay of the buffered ones.
func (m *Map) Press(key string) Result {
	seq := append(m.pending, key)
	m.pending = nil

	if target, ok := m.bindings[encode(seq)]; ok {
		return Result{Matched: true, Target: append([]string(nil), target...)}
	}
	prefix := encode(seq) + sep
	for src := range m.bindings {
		if strings.HasPrefix(src, prefix) {
			m.pending = seq
			return Result{Continuing: true}
		}
	}
	return Result{}
}

// Key names never contain the unit separator, so a joined sequence is an
// unambiguous map key and prefix checks reduce to string prefix checks.
const sep = "\x1f"

func encode(seq []string) string {
	return strings.Join(seq, sep)
}
