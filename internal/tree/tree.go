// Package tree provides the node store shared by the control panel and the
// file browser: a tree of identified, labeled nodes with optional lazy child
// population.
package tree

import (
	"errors"
	"sync"
)

var (
	// ErrNotFound is returned for operations that reference an unknown node id.
	ErrNotFound = errors.New("tree: node not found")
	// ErrRemoveRoot is returned when a caller attempts to remove the root node.
	ErrRemoveRoot = errors.New("tree: cannot remove root node")
)

// NodeID identifies a node within a single Store. IDs are assigned
// monotonically and are never reused, so a stale id fails lookup instead of
// silently aliasing a newer node.
type NodeID int

// Populate produces the children of a node on its first expansion. It is
// invoked at most once per node; implementations add children through the
// store. A populator that adds nothing is fine (e.g. a file that is not a
// directory).
type Populate[T any] func(s *Store[T], id NodeID) error

// Node is a snapshot of one tree node. Parent/child links are ids only;
// resolve them through the store. Mutating a snapshot has no effect on the
// store.
type Node[T any] struct {
	ID       NodeID
	Label    string
	Data     T
	Parent   NodeID // zero for the root
	Children []NodeID
	Expanded bool
}

type node[T any] struct {
	Node[T]
	populate Populate[T]
}

// Store owns a single tree. The zero value is not usable; construct with New.
//
// The TUI mutates the store from the update loop while supervisor steps run on
// their own goroutine, so all operations take the store mutex.
type Store[T any] struct {
	mu       sync.Mutex
	nodes    map[NodeID]*node[T]
	root     NodeID
	nextID   NodeID
	onChange func(NodeID)
}

// New creates a store containing only the root node.
func New[T any](label string, data T) *Store[T] {
	s := &Store[T]{nodes: map[NodeID]*node[T]{}}
	s.root = s.newNode(0, label, data, nil)
	return s
}

// NewLazy is New with a populate capability on the root.
func NewLazy[T any](label string, data T, populate Populate[T]) *Store[T] {
	s := &Store[T]{nodes: map[NodeID]*node[T]{}}
	s.root = s.newNode(0, label, data, populate)
	return s
}

func (s *Store[T]) newNode(parent NodeID, label string, data T, populate Populate[T]) NodeID {
	s.nextID++
	id := s.nextID
	s.nodes[id] = &node[T]{
		Node:     Node[T]{ID: id, Label: label, Data: data, Parent: parent},
		populate: populate,
	}
	return id
}

// Root returns the root node id.
func (s *Store[T]) Root() NodeID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.root
}

// OnChange registers a hook invoked after every label mutation, with the
// store unlocked, so a renderer can schedule a redraw.
func (s *Store[T]) OnChange(fn func(NodeID)) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// Node returns a snapshot of the node, or false if the id is unknown.
func (s *Store[T]) Node(id NodeID) (Node[T], bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.nodes[id]
	if !ok {
		return Node[T]{}, false
	}
	snap := n.Node
	snap.Children = append([]NodeID(nil), n.Children...)
	return snap, true
}

// Len reports the number of nodes in the store, root included.
func (s *Store[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.nodes)
}

// Add appends a new plain child to parent and returns its id.
// The store is unchanged when the parent is unknown.
func (s *Store[T]) Add(parent NodeID, label string, data T) (NodeID, error) {
	return s.AddLazy(parent, label, data, nil)
}

// AddLazy is Add with a populate capability invoked on the node's first
// expansion.
func (s *Store[T]) AddLazy(parent NodeID, label string, data T, populate Populate[T]) (NodeID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.nodes[parent]
	if !ok {
		return 0, ErrNotFound
	}
	id := s.newNode(parent, label, data, populate)
	p.Children = append(p.Children, id)
	return id, nil
}

// Remove deletes a node and its whole subtree. Descendants are deleted
// eagerly rather than orphaned: ids are never handed out twice, so an
// unreachable subtree could never be re-linked. The root is not removable.
func (s *Store[T]) Remove(id NodeID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.nodes[id]
	if !ok {
		return ErrNotFound
	}
	if id == s.root {
		return ErrRemoveRoot
	}
	p := s.nodes[n.Parent]
	for i, c := range p.Children {
		if c == id {
			p.Children = append(p.Children[:i], p.Children[i+1:]...)
			break
		}
	}
	s.deleteSubtree(id)
	return nil
}

func (s *Store[T]) deleteSubtree(id NodeID) {
	n, ok := s.nodes[id]
	if !ok {
		return
	}
	for _, c := range n.Children {
		s.deleteSubtree(c)
	}
	delete(s.nodes, id)
}

// Toggle flips the expanded flag. On the collapsed->expanded transition a
// childless node's populate capability is invoked (synchronously) to produce
// children first. The capability runs at most once: it is cleared after use,
// so repeated expand/collapse cycles never re-populate.
func (s *Store[T]) Toggle(id NodeID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.nodes[id]
	if !ok {
		return ErrNotFound
	}
	if !n.Expanded && len(n.Children) == 0 && n.populate != nil {
		populate := n.populate
		n.populate = nil
		// Run unlocked: populators call back into the store to add children.
		s.mu.Unlock()
		err := populate(s, id)
		s.mu.Lock()
		if err != nil {
			return err
		}
	}
	n.Expanded = !n.Expanded
	return nil
}

// SetLabel replaces a node's display label and fires the change hook.
func (s *Store[T]) SetLabel(id NodeID, label string) error {
	s.mu.Lock()
	n, ok := s.nodes[id]
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	n.Label = label
	fn := s.onChange
	s.mu.Unlock()
	if fn != nil {
		fn(id)
	}
	return nil
}

// SetData replaces a node's payload.
func (s *Store[T]) SetData(id NodeID, data T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.nodes[id]
	if !ok {
		return ErrNotFound
	}
	n.Data = data
	return nil
}

// Data returns a node's payload.
func (s *Store[T]) Data(id NodeID) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.nodes[id]
	if !ok {
		var zero T
		return zero, ErrNotFound
	}
	return n.Data, nil
}

// CanExpand reports whether expanding the node could reveal children: it
// already has some, or its populate capability has not run yet.
func (s *Store[T]) CanExpand(id NodeID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.nodes[id]
	if !ok {
		return false
	}
	return len(n.Children) > 0 || n.populate != nil
}

// Row is one line of the rendered tree: a node id plus its indent depth.
type Row struct {
	ID    NodeID
	Depth int
}

// Visible returns the rows a renderer should draw: a pre-order walk that
// descends only into expanded nodes. The root is always row zero.
func (s *Store[T]) Visible() []Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	var rows []Row
	s.visit(s.root, 0, &rows)
	return rows
}

func (s *Store[T]) visit(id NodeID, depth int, rows *[]Row) {
	n, ok := s.nodes[id]
	if !ok {
		return
	}
	*rows = append(*rows, Row{ID: id, Depth: depth})
	if !n.Expanded {
		return
	}
	for _, c := range n.Children {
		s.visit(c, depth+1, rows)
	}
}
