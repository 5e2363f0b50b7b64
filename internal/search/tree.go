package search

import (
	"fmt"

	"connect4/internal/domain/board"
	"connect4/internal/errors"
)

// Slot holds the child reached by playing one column. Present is false when
// that column accepts no move from the parent position.
type Slot struct {
	Node    *Node
	Present bool
}

// Node pairs a position with its lazily generated children, one slot per
// column.
type Node struct {
	board    *board.Board
	children []Slot
}

// NewNode wraps b. The node takes ownership of b; callers must not place
// pieces on it afterwards.
func NewNode(b *board.Board) *Node {
	return &Node{board: b}
}

// Board returns the node's position. It must be treated as read-only.
func (n *Node) Board() *board.Board {
	return n.board
}

// Terminal reports whether no further children can ever be generated.
func (n *Node) Terminal() bool {
	return n.board.IsFull()
}

// Expanded reports whether the children have been generated.
func (n *Node) Expanded() bool {
	return n.children != nil
}

// Expand generates one slot per column. It runs at most once per node.
func (n *Node) Expand() {
	if n.children != nil {
		return
	}

	children := make([]Slot, n.board.Width())
	for column := range children {
		next := n.board.Copy()
		if err := next.Place(column); err != nil {
			continue
		}
		children[column] = Slot{Node: NewNode(next), Present: true}
	}
	n.children = children
}

// Children expands the node and returns its slots.
func (n *Node) Children() []Slot {
	n.Expand()
	return n.children
}

// Child returns the node reached by playing column.
func (n *Node) Child(column int) (*Node, bool) {
	n.Expand()
	if column < 0 || column >= len(n.children) || !n.children[column].Present {
		return nil, false
	}
	return n.children[column].Node, true
}

// Tree owns the current game position. Playing a column retires the root and
// promotes the chosen child together with whatever was already searched below
// it.
type Tree struct {
	root *Node
}

func NewTree(b *board.Board) *Tree {
	return &Tree{root: NewNode(b)}
}

func (t *Tree) Root() *Node {
	return t.root
}

func (t *Tree) Board() *board.Board {
	return t.root.board
}

// Best selects a column for the side to move.
func (t *Tree) Best(depth int) (int, error) {
	return SelectMove(t.root, depth)
}

// Play advances the game by one move.
func (t *Tree) Play(column int) error {
	if column < 0 || column >= t.root.board.Width() {
		return fmt.Errorf("%w: %d not in [0, %d)", errors.ErrColumnOutOfRange, column, t.root.board.Width())
	}
	child, ok := t.root.Child(column)
	if !ok {
		return fmt.Errorf("%w: %d", errors.ErrColumnFull, column)
	}
	t.root = child
	return nil
}
