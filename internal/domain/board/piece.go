package board

// Piece is the content of a single cell.
type Piece uint8

const (
	Empty Piece = iota
	Red
	Blue
)

// Opponent returns the other color, Empty stays Empty.
func (p Piece) Opponent() Piece {
	switch p {
	case Red:
		return Blue
	case Blue:
		return Red
	}
	return Empty
}

func (p Piece) String() string {
	switch p {
	case Red:
		return "red"
	case Blue:
		return "blue"
	}
	return "empty"
}

// ParsePiece accepts the names produced by String.
func ParsePiece(s string) (Piece, bool) {
	switch s {
	case "red":
		return Red, true
	case "blue":
		return Blue, true
	case "empty", "":
		return Empty, true
	}
	return Empty, false
}
