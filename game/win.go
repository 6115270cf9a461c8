package game

// Line families scanned from a cell: horizontal, vertical and both diagonals.
var directions = [4][2]int{
	{1, 0},
	{0, 1},
	{1, 1},
	{1, -1},
}

// CheckFromCell determines the outcome after a disc landed on (col, row). Only lines through
// that cell are scanned, so the board may come from real play, a rollout or a lookahead.
func CheckFromCell(b *Board, col, row int) Outcome {
	return CheckColor(b, col, row, b.Cell(col, row))
}

// CheckColor is CheckFromCell with (col, row) treated as holding color, whatever the board
// actually stores there. It lets lookahead test a drop without writing it.
func CheckColor(b *Board, col, row int, color Color) Outcome {
	if color != Empty {
		for _, d := range directions {
			count := 1 + run(b, col, row, d[0], d[1], color) + run(b, col, row, -d[0], -d[1], color)
			if count >= WinLength {
				return Won(color)
			}
		}
	}
	for c := 0; c < b.width; c++ {
		next := b.next[c]
		if c == col && next == row {
			// hypothetical disc not written yet
			next--
		}
		if next >= 0 {
			return InProgress
		}
	}
	return Tie
}

// run counts consecutive cells of color walking from (col, row) in direction (dc, dr),
// not counting the starting cell and stopping once a win is already guaranteed.
func run(b *Board, col, row, dc, dr int, color Color) int {
	count := 0
	for c, r := col+dc, row+dr; count < WinLength-1; c, r = c+dc, r+dr {
		if c < 0 || c >= b.width || r < 0 || r >= b.height || b.Cell(c, r) != color {
			break
		}
		count++
	}
	return count
}

// AnyImmediateWin reports the lowest column in which dropping a disc of color wins at once,
// together with the row the disc would land on.
func AnyImmediateWin(b *Board, color Color) (col, row int, ok bool) {
	for col := 0; col < b.width; col++ {
		row := b.next[col]
		if row < 0 {
			continue
		}
		if CheckColor(b, col, row, color) == Won(color) {
			return col, row, true
		}
	}
	return -1, -1, false
}

// ImmediateWins returns every column, ascending, in which color wins at once.
func ImmediateWins(b *Board, color Color) []int {
	var cols []int
	for col := 0; col < b.width; col++ {
		row := b.next[col]
		if row >= 0 && CheckColor(b, col, row, color) == Won(color) {
			cols = append(cols, col)
		}
	}
	return cols
}

// CheckFull scans the whole board for a run of four, independent of how the board was built.
// If both colors have a run, the first one found wins; real games never reach such a board.
func CheckFull(b *Board) Outcome {
	for col := 0; col < b.width; col++ {
		for row := 0; row < b.height; row++ {
			color := b.Cell(col, row)
			if color == Empty {
				continue
			}
			for _, d := range directions {
				endCol, endRow := col+d[0]*(WinLength-1), row+d[1]*(WinLength-1)
				if endCol < 0 || endCol >= b.width || endRow < 0 || endRow >= b.height {
					continue
				}
				k := 1
				for ; k < WinLength; k++ {
					if b.Cell(col+d[0]*k, row+d[1]*k) != color {
						break
					}
				}
				if k == WinLength {
					return Won(color)
				}
			}
		}
	}
	if b.Full() {
		return Tie
	}
	return InProgress
}
