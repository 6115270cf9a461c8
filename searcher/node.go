package searcher

import (
	"fmt"

	"connect4/game"
)

// NodeID indexes a node in its Tree. The root is always 0.
type NodeID int32

const (
	Root     NodeID = 0
	noParent NodeID = -1
	// RootMove is the move recorded on the root, which was reached by no move.
	RootMove = -1
)

type StatusKind uint8

const (
	Unresolved StatusKind = iota
	Tied                  // every continuation fills the board
	ForcedWin             // the side to move completes four by playing Column
)

// Status is the resolved state of a node. Column is only meaningful for ForcedWin.
type Status struct {
	Kind   StatusKind
	Column int
}

func (s Status) Resolved() bool {
	return s.Kind != Unresolved
}

func (s Status) String() string {
	switch s.Kind {
	case Tied:
		return "tie"
	case ForcedWin:
		return fmt.Sprintf("forced win in column %d", s.Column+1)
	default:
		return "unresolved"
	}
}

type node struct {
	turn       game.Color
	parent     NodeID
	move       int
	hits       int // wins for turn
	misses     int // losses for turn
	tries      int
	expanded   bool
	unexplored int
	children   []NodeID
	status     Status
}

// Stats is a read-only view of a node.
type Stats struct {
	ID       NodeID
	Parent   NodeID
	Move     int
	Turn     game.Color
	Hits     int
	Misses   int
	Tries    int
	Expanded bool
	Status   Status
}

// Tree stores search nodes in one slice, linked by index.
type Tree struct {
	nodes []node
}

func newTree(turn game.Color, capacity int) *Tree {
	t := &Tree{nodes: make([]node, 0, max(capacity, 1))}
	t.nodes = append(t.nodes, node{turn: turn, parent: noParent, move: RootMove})
	return t
}

func (t *Tree) Len() int {
	return len(t.nodes)
}

func (t *Tree) Stats(id NodeID) Stats {
	n := &t.nodes[id]
	return Stats{
		ID:       id,
		Parent:   n.parent,
		Move:     n.move,
		Turn:     n.turn,
		Hits:     n.hits,
		Misses:   n.misses,
		Tries:    n.tries,
		Expanded: n.expanded,
		Status:   n.status,
	}
}

func (t *Tree) Children(id NodeID) []NodeID {
	return t.nodes[id].children
}

// Turn returns the side to move at the root.
func (t *Tree) Turn() game.Color {
	return t.nodes[Root].turn
}

// Policy returns the visit share of each root child keyed by column.
func (t *Tree) Policy() map[int]float64 {
	root := &t.nodes[Root]
	policy := make(map[int]float64, len(root.children))
	total := 0
	for _, id := range root.children {
		total += t.nodes[id].tries
	}
	for _, id := range root.children {
		child := &t.nodes[id]
		if total == 0 {
			policy[child.move] = 1 / float64(len(root.children))
			continue
		}
		policy[child.move] = float64(child.tries) / float64(total)
	}
	return policy
}

func (t *Tree) addChild(parent NodeID, move int) NodeID {
	id := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, node{
		turn:   t.nodes[parent].turn.Opponent(),
		parent: parent,
		move:   move,
	})
	t.nodes[parent].children = append(t.nodes[parent].children, id)
	t.nodes[parent].unexplored++
	return id
}
