package searcher

import (
	"math/rand/v2"

	"connect4/game"
)

// descend runs one episode from the root. b must hold the root position and
// is consumed.
func (m *MCTS) descend(t *Tree, b *game.Board) {
	id := Root
	for {
		if !t.nodes[id].expanded {
			t.expand(id, b)
		}
		n := &t.nodes[id]
		switch n.status.Kind {
		case Tied:
			t.backpropagate(id, 0)
			return
		case ForcedWin:
			t.backpropagate(id, 1)
			return
		}

		if n.unexplored > 0 {
			child := t.pickUnexplored(id, m.rng)
			b.Drop(t.nodes[child].move, n.turn)
			value := m.rollout.Run(b, t.nodes[child].turn)
			t.backpropagate(child, value)
			return
		}

		mover := n.turn
		id = t.selectChild(id, m.exploration)
		b.Drop(t.nodes[id].move, mover)
	}
}

// pickUnexplored draws uniformly among the children of id that were never tried.
func (t *Tree) pickUnexplored(id NodeID, rng *rand.Rand) NodeID {
	n := &t.nodes[id]
	k := rng.IntN(n.unexplored)
	n.unexplored--
	for _, childID := range n.children {
		if t.nodes[childID].tries > 0 {
			continue
		}
		if k == 0 {
			return childID
		}
		k--
	}
	panic("unexplored count out of sync with children")
}

// backpropagate records value, scored for the side to move at id, on id and
// every ancestor, flipping sign at each level.
func (t *Tree) backpropagate(id NodeID, value int) {
	for id != noParent {
		n := &t.nodes[id]
		n.tries++
		switch {
		case value > 0:
			n.hits++
		case value < 0:
			n.misses++
		}
		value = -value
		id = n.parent
	}
}
