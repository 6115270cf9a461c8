package game

import "fmt"

// Color is the content of a board cell. The first mover always plays First.
type Color int8

const (
	Empty Color = iota
	First
	Second
)

func (c Color) Opponent() Color {
	switch c {
	case First:
		return Second
	case Second:
		return First
	default:
		return Empty
	}
}

func (c Color) String() string {
	switch c {
	case First:
		return "first"
	case Second:
		return "second"
	default:
		return "empty"
	}
}

const (
	DefaultWidth  = 7
	DefaultHeight = 6

	// MaxWidth keeps every column addressable by a single digit in move notation.
	MaxWidth = 9
	// WinLength is the run of same-colored discs that ends the game.
	WinLength = 4
)

// Board is a width x height grid of cells plus one "next free row" cursor per column.
// Row 0 is the top row; a column's cursor starts at height-1 and reaches -1 once full.
type Board struct {
	width  int
	height int
	cells  []Color // column-major: cells[col*height+row]
	next   []int
}

// NewBoard returns an empty board.
func NewBoard(width, height int) (*Board, error) {
	if width < WinLength || width > MaxWidth {
		return nil, fmt.Errorf("board width %d out of range [%d, %d]", width, WinLength, MaxWidth)
	}
	if height < WinLength {
		return nil, fmt.Errorf("board height %d must be at least %d", height, WinLength)
	}
	b := &Board{
		width:  width,
		height: height,
		cells:  make([]Color, width*height),
		next:   make([]int, width),
	}
	for col := range b.next {
		b.next[col] = height - 1
	}
	return b, nil
}

// NewStandardBoard returns an empty 7x6 board.
func NewStandardBoard() *Board {
	b, err := NewBoard(DefaultWidth, DefaultHeight)
	if err != nil {
		panic(err)
	}
	return b
}

func (b *Board) Width() int  { return b.width }
func (b *Board) Height() int { return b.height }

// Cell returns the color at (col, row). Row 0 is the top row.
func (b *Board) Cell(col, row int) Color {
	return b.cells[col*b.height+row]
}

// Next returns the row the next disc dropped into col lands on, or -1 if col is full.
func (b *Board) Next(col int) int {
	return b.next[col]
}

// Stack returns the number of discs in col.
func (b *Board) Stack(col int) int {
	return b.height - 1 - b.next[col]
}

// Legal reports whether a disc can be dropped into col.
func (b *Board) Legal(col int) bool {
	return col >= 0 && col < b.width && b.next[col] >= 0
}

// Drop places a disc of the given color into col and returns the row it landed on.
// An illegal drop leaves the board untouched and returns (-1, false).
func (b *Board) Drop(col int, color Color) (int, bool) {
	if !b.Legal(col) || color == Empty {
		return -1, false
	}
	row := b.next[col]
	b.cells[col*b.height+row] = color
	b.next[col]--
	return row, true
}

// Full reports whether every column is full.
func (b *Board) Full() bool {
	for _, next := range b.next {
		if next >= 0 {
			return false
		}
	}
	return true
}

// LegalMoves returns the non-full columns in ascending order.
func (b *Board) LegalMoves() []int {
	moves := make([]int, 0, b.width)
	for col, next := range b.next {
		if next >= 0 {
			moves = append(moves, col)
		}
	}
	return moves
}

// Discs returns the number of discs on the board.
func (b *Board) Discs() int {
	n := 0
	for col := range b.next {
		n += b.Stack(col)
	}
	return n
}

// ToMove returns the color whose turn it is, derived from the disc count.
func (b *Board) ToMove() Color {
	if b.Discs()%2 == 0 {
		return First
	}
	return Second
}

// Copy returns a deep copy of the board.
func (b *Board) Copy() *Board {
	cells := make([]Color, len(b.cells))
	copy(cells, b.cells)
	next := make([]int, len(b.next))
	copy(next, b.next)
	return &Board{
		width:  b.width,
		height: b.height,
		cells:  cells,
		next:   next,
	}
}

// CopyFrom overwrites b with the contents of src. Both boards must share dimensions.
func (b *Board) CopyFrom(src *Board) {
	if b.width != src.width || b.height != src.height {
		panic("cannot copy between boards of different dimensions")
	}
	copy(b.cells, src.cells)
	copy(b.next, src.next)
}

// Mirror returns the left-right mirrored copy of the board.
func (b *Board) Mirror() *Board {
	m := b.Copy()
	for col := 0; col < b.width; col++ {
		src := b.width - 1 - col
		copy(m.cells[col*b.height:(col+1)*b.height], b.cells[src*b.height:(src+1)*b.height])
		m.next[col] = b.next[src]
	}
	return m
}

// String renders the board top row first, one character per cell.
func (b *Board) String() string {
	buf := make([]byte, 0, (b.width+1)*b.height)
	for row := 0; row < b.height; row++ {
		for col := 0; col < b.width; col++ {
			switch b.Cell(col, row) {
			case First:
				buf = append(buf, 'X')
			case Second:
				buf = append(buf, 'O')
			default:
				buf = append(buf, '.')
			}
		}
		buf = append(buf, '\n')
	}
	return string(buf)
}
