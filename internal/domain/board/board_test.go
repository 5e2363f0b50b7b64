package board

import (
	"errors"
	"testing"

	apperrors "connect4/internal/errors"
)

func mustNew(t *testing.T, width, height int) *Board {
	t.Helper()
	b, err := New(width, height)
	if err != nil {
		t.Fatalf("New(%d, %d): %v", width, height, err)
	}
	return b
}

func play(t *testing.T, b *Board, columns ...int) {
	t.Helper()
	for _, c := range columns {
		if err := b.Place(c); err != nil {
			t.Fatalf("Place(%d): %v", c, err)
		}
	}
}

func TestNewRejectsNonPositiveDimensions(t *testing.T) {
	for _, dims := range [][2]int{{0, 6}, {7, 0}, {-1, 6}, {7, -3}} {
		if _, err := New(dims[0], dims[1]); !errors.Is(err, apperrors.ErrInvalidDimensions) {
			t.Fatalf("New(%d, %d) err = %v, want ErrInvalidDimensions", dims[0], dims[1], err)
		}
	}
	b := mustNew(t, 1, 1)
	if b.Width() != 1 || b.Height() != 1 || b.MoveCount() != 0 || b.ToMove() != Red {
		t.Fatalf("unexpected 1x1 board state")
	}
}

func TestPlaceAlternatesSides(t *testing.T) {
	b := mustNew(t, StandardWidth, StandardHeight)
	play(t, b, 3, 3, 4)

	if b.At(3, 0) != Red || b.At(3, 1) != Blue || b.At(4, 0) != Red {
		t.Fatalf("pieces not stacked in turn order")
	}
	if b.MoveCount() != 3 {
		t.Fatalf("move count = %d, want 3", b.MoveCount())
	}
	if b.ToMove() != Blue {
		t.Fatalf("to move = %v, want blue", b.ToMove())
	}
	if b.ColumnHeight(3) != 2 || b.ColumnHeight(0) != 0 {
		t.Fatalf("unexpected column heights")
	}
}

func TestPlaceOutOfRange(t *testing.T) {
	b := mustNew(t, StandardWidth, StandardHeight)
	for _, c := range []int{-1, StandardWidth, 100} {
		if err := b.Place(c); !errors.Is(err, apperrors.ErrColumnOutOfRange) {
			t.Fatalf("Place(%d) err = %v, want ErrColumnOutOfRange", c, err)
		}
	}
	if b.MoveCount() != 0 || b.ToMove() != Red {
		t.Fatalf("failed placement mutated the board")
	}
}

func TestPlaceFullColumnLeavesBoardUnchanged(t *testing.T) {
	b := mustNew(t, StandardWidth, StandardHeight)
	play(t, b, 0, 0, 0, 0, 0, 0)
	before := b.Copy()

	if err := b.Place(0); !errors.Is(err, apperrors.ErrColumnFull) {
		t.Fatalf("Place on full column err = %v, want ErrColumnFull", err)
	}
	if b.MoveCount() != 6 {
		t.Fatalf("move count = %d after failed placement, want 6", b.MoveCount())
	}
	if !b.Equal(before) {
		t.Fatalf("failed placement mutated the board")
	}
	if b.CanPlace(0) || !b.CanPlace(1) {
		t.Fatalf("CanPlace disagrees with column state")
	}
}

func TestCopyIsIndependent(t *testing.T) {
	b := mustNew(t, StandardWidth, StandardHeight)
	play(t, b, 2, 3)

	c := b.Copy()
	play(t, c, 2)

	if b.ColumnHeight(2) != 1 || b.MoveCount() != 2 {
		t.Fatalf("placing on the copy changed the original")
	}
	if c.ColumnHeight(2) != 2 || c.ToMove() != Blue {
		t.Fatalf("copy did not record its own move")
	}

	cols := b.Columns()
	cols[2][0] = Blue
	if b.At(2, 0) != Red {
		t.Fatalf("Columns leaked internal storage")
	}
}

func TestReplayRoundTrip(t *testing.T) {
	moves := []int{3, 3, 2, 4, 4, 5, 0, 6, 6, 6, 1, 1}

	first := mustNew(t, StandardWidth, StandardHeight)
	play(t, first, moves...)
	second := mustNew(t, StandardWidth, StandardHeight)
	play(t, second, moves...)

	if !first.Equal(second) {
		t.Fatalf("replaying the same moves produced different boards")
	}
	if first.ToMove() != second.ToMove() {
		t.Fatalf("replayed boards disagree on the side to move")
	}

	play(t, second, 0)
	if first.Equal(second) {
		t.Fatalf("boards with different histories compare equal")
	}
}

func TestIsFull(t *testing.T) {
	b := mustNew(t, 2, 2)
	play(t, b, 0, 1, 0)
	if b.IsFull() {
		t.Fatalf("board reported full with an empty cell")
	}
	play(t, b, 1)
	if !b.IsFull() {
		t.Fatalf("board not reported full")
	}
}

func TestFromColumns(t *testing.T) {
	b, err := FromColumns(3, 3, [][]Piece{{Red, Blue}, {}, {Red}})
	if err != nil {
		t.Fatalf("FromColumns: %v", err)
	}
	if b.MoveCount() != 3 || b.ToMove() != Blue {
		t.Fatalf("move count %d / to move %v, want 3 / blue", b.MoveCount(), b.ToMove())
	}

	cases := map[string][][]Piece{
		"too tall":       {{Red, Blue, Red, Blue}, {}, {}},
		"empty in stack": {{Red, Empty}, {}, {}},
		"too many blue":  {{Blue, Blue}, {Red}, {}},
		"too many red":   {{Red, Red}, {Red}, {}},
		"wrong width":    {{Red}},
	}
	for name, cols := range cases {
		if _, err := FromColumns(3, 3, cols); !errors.Is(err, apperrors.ErrInvalidPosition) {
			t.Fatalf("%s: err = %v, want ErrInvalidPosition", name, err)
		}
	}
}

func TestPieceOpponent(t *testing.T) {
	if Red.Opponent() != Blue || Blue.Opponent() != Red || Empty.Opponent() != Empty {
		t.Fatalf("Opponent mapping is wrong")
	}
	for _, p := range []Piece{Empty, Red, Blue} {
		got, ok := ParsePiece(p.String())
		if !ok || got != p {
			t.Fatalf("ParsePiece(%q) = %v, %v", p.String(), got, ok)
		}
	}
}
