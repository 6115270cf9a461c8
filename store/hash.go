package store

import (
	"connect4/game"
)

// Hash is the compact encoding of a position: one base-3 number per column where the disc
// at stack height k contributes color*3^k.
type Hash []int

// Compare orders hashes lexicographically, element by element.
func Compare(a, b Hash) int {
	for i := range a {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// Mirror returns the hash of the left-right mirrored position.
func (h Hash) Mirror() Hash {
	m := make(Hash, len(h))
	for i, v := range h {
		m[len(h)-1-i] = v
	}
	return m
}

// Canonical returns the smaller of h and its mirror, so both mirror images share one key.
func Canonical(h Hash) Hash {
	m := h.Mirror()
	if Compare(h, m) <= 0 {
		return h
	}
	return m
}

// RawHash encodes a board column by column without canonicalizing.
func RawHash(b *game.Board) Hash {
	h := make(Hash, b.Width())
	for col := range h {
		weight := 1
		for row := b.Height() - 1; row >= 0; row-- {
			color := b.Cell(col, row)
			if color == game.Empty {
				break
			}
			h[col] += int(color) * weight
			weight *= 3
		}
	}
	return h
}

// HashBoard returns the canonical hash of a board.
func HashBoard(b *game.Board) Hash {
	return Canonical(RawHash(b))
}
