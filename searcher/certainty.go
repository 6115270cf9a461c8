package searcher

import (
	"connect4/game"
)

// mostTried returns the child of id with the most tries, skipping exclude.
// Ties keep the earliest child.
func (t *Tree) mostTried(id NodeID, exclude NodeID) (NodeID, bool) {
	best, found := noParent, false
	bestTries := -1
	for _, childID := range t.nodes[id].children {
		if childID == exclude {
			continue
		}
		if tries := t.nodes[childID].tries; tries > bestTries {
			best, bestTries, found = childID, tries, true
		}
	}
	return best, found
}

func (t *Tree) leastTried(id NodeID) (NodeID, bool) {
	best, found := noParent, false
	bestTries := 0
	for _, childID := range t.nodes[id].children {
		if tries := t.nodes[childID].tries; !found || tries < bestTries {
			best, bestTries, found = childID, tries, true
		}
	}
	return best, found
}

// Certainty estimates how settled the choice at the root is. Smaller values
// mean more confidence. ok is false when the root has fewer than two children.
func (t *Tree) Certainty() (certainty float64, ok bool) {
	if len(t.nodes[Root].children) < 2 {
		return 0, false
	}
	bestID, _ := t.mostTried(Root, noParent)
	secondID, _ := t.mostTried(Root, bestID)
	best, second := &t.nodes[bestID], &t.nodes[secondID]
	if best.tries == 0 {
		return 1, true
	}

	visitRatio := float64(second.tries) / float64(best.tries)
	outcomeRatio := visitRatio
	switch {
	case best.misses > best.hits:
		outcomeRatio = float64(best.hits) / float64(best.misses) * 2
	case best.hits > best.misses:
		outcomeRatio = float64(best.misses) / float64(best.hits) * 3
	}
	return min(visitRatio, outcomeRatio), true
}

// BestMove returns the most tried root column. A resolved root returns its
// status instead, with the winning column for a forced win and -1 otherwise.
func (t *Tree) BestMove() (int, Status) {
	root := &t.nodes[Root]
	switch root.status.Kind {
	case ForcedWin:
		return root.status.Column, root.status
	case Tied:
		return -1, root.status
	}
	if len(root.children) == 1 {
		return t.nodes[root.children[0]].move, root.status
	}
	best, ok := t.mostTried(Root, noParent)
	if !ok {
		return -1, root.status
	}
	return t.nodes[best].move, root.status
}

// DepthRange follows the least and the most tried children from the root
// until a node without tried children and returns both path lengths, along
// with the side the root statistics favor.
func (t *Tree) DepthRange() (minDepth, maxDepth int, leader game.Outcome) {
	minDepth = t.pathLength(t.leastTried)
	maxDepth = t.pathLength(func(id NodeID) (NodeID, bool) {
		return t.mostTried(id, noParent)
	})

	root := &t.nodes[Root]
	switch {
	case root.tries > (root.hits+root.misses)*3:
		leader = game.Tie
	case root.hits > root.misses:
		leader = game.Won(root.turn)
	case root.hits < root.misses:
		leader = game.Won(root.turn.Opponent())
	default:
		leader = game.Tie
	}
	return minDepth, maxDepth, leader
}

func (t *Tree) pathLength(next func(NodeID) (NodeID, bool)) int {
	depth := 0
	for id, ok := next(Root); ok && t.nodes[id].tries > 0; id, ok = next(id) {
		depth++
	}
	return depth
}
