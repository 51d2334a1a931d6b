package tree

import (
	"os"
	"path/filepath"
)

// Filesystem-backed nodes: data is an absolute path and children are the
// directory entries, discovered on first expansion.

// NewFileTree returns a store rooted at dir. Nothing is read from disk until
// the root is first expanded.
func NewFileTree(dir string) *Store[string] {
	dir = filepath.Clean(dir)
	label := filepath.Base(dir)
	if label == "" {
		label = dir
	}
	return NewLazy(label, dir, PopulateDir)
}

// PopulateDir lists the node's directory entries as lazy children. It is a
// no-op for paths that are not directories, so files get the same capability
// and simply never grow children.
func PopulateDir(s *Store[string], id NodeID) error {
	dir, err := s.Data(id)
	if err != nil {
		return err
	}
	st, err := os.Stat(dir)
	if err != nil || !st.IsDir() {
		// Unreadable paths render as leaves rather than erroring the toggle.
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	for _, e := range entries {
		if _, err := s.AddLazy(id, e.Name(), filepath.Join(dir, e.Name()), PopulateDir); err != nil {
			return err
		}
	}
	return nil
}
