package searcher

import "math"

// DefaultExploration is the exploration constant C used for real play.
const DefaultExploration = 1.4970703125

type uct struct {
	numerator float64
}

func newUCT(cSquared float64, N float64) *uct {
	if N == 0 {
		panic("N cannot be 0")
	}
	return &uct{numerator: cSquared * math.Log(N)}
}

func (u uct) evaluate(q float64, n float64) float64 {
	if n == 0 {
		panic("n cannot be 0")
	}
	// UCT = q/n + sqrt(c^2*ln(N)/n)
	return q/n + math.Sqrt(u.numerator/n)
}

// selectChild returns the fully explored child of id with the highest score.
// A child's hits are wins for the child's side to move, so the parent scores
// it by misses minus hits. Ties keep the earliest child.
func (t *Tree) selectChild(id NodeID, c float64) NodeID {
	parent := &t.nodes[id]
	policy := newUCT(c*c, float64(parent.tries))
	best := parent.children[0]
	bestScore := math.Inf(-1)
	for _, childID := range parent.children {
		child := &t.nodes[childID]
		score := policy.evaluate(float64(child.misses-child.hits), float64(child.tries))
		if score > bestScore {
			bestScore = score
			best = childID
		}
	}
	return best
}
