package game

import (
	"errors"
	"fmt"
	"strings"
)

var ErrGameOver = errors.New("game is over")

// ParsePosition parses move notation: one 1-based column digit per ply.
func ParsePosition(position string, width int) ([]int, error) {
	moves := make([]int, len(position))
	for i := 0; i < len(position); i++ {
		ch := position[i]
		if ch < '1' || ch > '9' {
			return nil, fmt.Errorf("ply %d: %q is not a column digit", i+1, ch)
		}
		col := int(ch - '1')
		if col >= width {
			return nil, fmt.Errorf("ply %d: column %d out of range for width %d", i+1, col+1, width)
		}
		moves[i] = col
	}
	return moves, nil
}

// FormatMove renders a 0-based column in move notation.
func FormatMove(col int) string {
	return string(rune('1' + col))
}

// FormatPosition renders 0-based columns in move notation.
func FormatPosition(moves []int) string {
	var sb strings.Builder
	sb.Grow(len(moves))
	for _, col := range moves {
		sb.WriteByte(byte('1' + col))
	}
	return sb.String()
}

// Replay plays moves onto b alternating colors, starting with First when the board is
// empty, and returns the outcome after the last move. Replay stops at the first illegal
// move or at a move played after the game already ended.
func (b *Board) Replay(moves []int) (Outcome, error) {
	color := b.ToMove()
	outcome := CheckFull(b)
	for i, col := range moves {
		if outcome.Over() {
			return outcome, fmt.Errorf("ply %d: %w", i+1, ErrGameOver)
		}
		row, ok := b.Drop(col, color)
		if !ok {
			return outcome, fmt.Errorf("ply %d: column %d is not playable", i+1, col+1)
		}
		outcome = CheckFromCell(b, col, row)
		color = color.Opponent()
	}
	return outcome, nil
}

// Setup builds a board of the given size from move notation.
func Setup(width, height int, position string) (*Board, Outcome, error) {
	b, err := NewBoard(width, height)
	if err != nil {
		return nil, InProgress, err
	}
	moves, err := ParsePosition(position, width)
	if err != nil {
		return nil, InProgress, err
	}
	outcome, err := b.Replay(moves)
	if err != nil {
		return nil, outcome, err
	}
	return b, outcome, nil
}
