package searcher

import (
	"connect4/game"
)

// expand generates the children of id for board b, resolving the node when
// the position allows. Checks run in a fixed order: full board, a win for
// the side to move, a forced block, the symmetric opening, then every
// legal column.
func (t *Tree) expand(id NodeID, b *game.Board) {
	turn := t.nodes[id].turn
	t.nodes[id].expanded = true

	if b.Full() {
		t.nodes[id].status = Status{Kind: Tied}
		return
	}
	if col, _, ok := game.AnyImmediateWin(b, turn); ok {
		t.nodes[id].status = Status{Kind: ForcedWin, Column: col}
		return
	}

	for _, col := range candidateMoves(b, turn) {
		t.addChild(id, col)
	}
}

func candidateMoves(b *game.Board, turn game.Color) []int {
	// Only the first threat is blocked. With two or more the position is lost
	// anyway and the search finds out quickly.
	if threats := game.ImmediateWins(b, turn.Opponent()); len(threats) > 0 {
		return threats[:1]
	}
	if cols, ok := symmetricOpening(b); ok {
		return cols
	}
	return b.LegalMoves()
}

// symmetricOpening returns the left half of the board plus the center when
// only the center column holds discs. Mirrored moves lead to equivalent
// positions so they need no separate children.
func symmetricOpening(b *game.Board) ([]int, bool) {
	width := b.Width()
	if width%2 == 0 {
		return nil, false
	}
	center := width / 2
	for col := 0; col < width; col++ {
		if col != center && b.Stack(col) > 0 {
			return nil, false
		}
	}
	cols := make([]int, 0, center+1)
	for col := 0; col < center; col++ {
		cols = append(cols, col)
	}
	if b.Legal(center) {
		cols = append(cols, center)
	}
	return cols, true
}
