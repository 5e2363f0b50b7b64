package board

import (
	"fmt"

	"connect4/internal/errors"
)

const (
	StandardWidth  = 7
	StandardHeight = 6
)

// Board is a single Connect-Four position. Column 0 is the leftmost column and
// every column stack is stored bottom to top.
type Board struct {
	width   int
	height  int
	columns [][]Piece
	moves   int
}

// New returns an empty width x height board.
func New(width, height int) (*Board, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", errors.ErrInvalidDimensions, width, height)
	}

	columns := make([][]Piece, width)
	for x := range columns {
		columns[x] = make([]Piece, 0, height)
	}

	return &Board{
		width:   width,
		height:  height,
		columns: columns,
	}, nil
}

// FromColumns builds a board by direct cell assignment. Every stack is given
// bottom to top and may not contain Empty; Red always moves first so the
// color counts must differ by at most one in Red's favour.
func FromColumns(width, height int, columns [][]Piece) (*Board, error) {
	b, err := New(width, height)
	if err != nil {
		return nil, err
	}
	if len(columns) != width {
		return nil, fmt.Errorf("%w: got %d columns for width %d", errors.ErrInvalidPosition, len(columns), width)
	}

	red, blue := 0, 0
	for x, stack := range columns {
		if len(stack) > height {
			return nil, fmt.Errorf("%w: column %d holds %d pieces, height is %d", errors.ErrInvalidPosition, x, len(stack), height)
		}
		for y, p := range stack {
			switch p {
			case Red:
				red++
			case Blue:
				blue++
			default:
				return nil, fmt.Errorf("%w: empty cell inside column %d at row %d", errors.ErrInvalidPosition, x, y)
			}
		}
		b.columns[x] = append(b.columns[x], stack...)
	}

	if diff := red - blue; diff != 0 && diff != 1 {
		return nil, fmt.Errorf("%w: %d red and %d blue pieces", errors.ErrInvalidPosition, red, blue)
	}
	b.moves = red + blue

	return b, nil
}

func (b *Board) Width() int {
	return b.width
}

func (b *Board) Height() int {
	return b.height
}

// MoveCount is the number of pieces placed so far.
func (b *Board) MoveCount() int {
	return b.moves
}

// ToMove is derived from the move count: Red plays on even counts.
func (b *Board) ToMove() Piece {
	if b.moves%2 == 0 {
		return Red
	}
	return Blue
}

func (b *Board) IsFull() bool {
	return b.moves == b.width*b.height
}

// Copy returns a board sharing no storage with b.
func (b *Board) Copy() *Board {
	columns := make([][]Piece, b.width)
	for x, stack := range b.columns {
		columns[x] = make([]Piece, len(stack), b.height)
		copy(columns[x], stack)
	}

	return &Board{
		width:   b.width,
		height:  b.height,
		columns: columns,
		moves:   b.moves,
	}
}

// Place drops a piece of the side to move into column. The board is left
// untouched when an error is returned.
func (b *Board) Place(column int) error {
	if column < 0 || column >= b.width {
		return fmt.Errorf("%w: %d not in [0, %d)", errors.ErrColumnOutOfRange, column, b.width)
	}
	if len(b.columns[column]) >= b.height {
		return fmt.Errorf("%w: %d", errors.ErrColumnFull, column)
	}

	b.columns[column] = append(b.columns[column], b.ToMove())
	b.moves++
	return nil
}

// CanPlace reports whether Place(column) would succeed.
func (b *Board) CanPlace(column int) bool {
	return column >= 0 && column < b.width && len(b.columns[column]) < b.height
}

// At returns the piece at column x, row y (row 0 is the bottom). Cells above a
// stack or outside the board are Empty.
func (b *Board) At(x, y int) Piece {
	if x < 0 || x >= b.width || y < 0 || y >= len(b.columns[x]) {
		return Empty
	}
	return b.columns[x][y]
}

// ColumnHeight is the number of pieces in column x.
func (b *Board) ColumnHeight(x int) int {
	if x < 0 || x >= b.width {
		return 0
	}
	return len(b.columns[x])
}

// Columns returns a copy of the column stacks.
func (b *Board) Columns() [][]Piece {
	return b.Copy().columns
}

// Equal compares dimensions, stacks and move count.
func (b *Board) Equal(other *Board) bool {
	if other == nil || b.width != other.width || b.height != other.height || b.moves != other.moves {
		return false
	}
	for x := range b.columns {
		if len(b.columns[x]) != len(other.columns[x]) {
			return false
		}
		for y := range b.columns[x] {
			if b.columns[x][y] != other.columns[x][y] {
				return false
			}
		}
	}
	return true
}
