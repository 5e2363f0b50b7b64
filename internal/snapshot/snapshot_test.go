package snapshot

import (
	"bytes"
	"errors"
	"testing"

	"connect4/internal/domain/board"
	apperrors "connect4/internal/errors"
)

func TestFormat(t *testing.T) {
	b, _ := board.New(4, 3)
	for _, c := range []int{0, 1, 1, 3} {
		if err := b.Place(c); err != nil {
			t.Fatalf("Place(%d): %v", c, err)
		}
	}

	want := "1202\n0100\n0000\n1\n"
	if got := Format(b); got != want {
		t.Fatalf("Format = %q, want %q", got, want)
	}
}

func TestParseRoundTrip(t *testing.T) {
	b, _ := board.New(board.StandardWidth, board.StandardHeight)
	for _, c := range []int{3, 3, 2, 4, 4, 5, 0, 6, 6, 6, 1} {
		if err := b.Place(c); err != nil {
			t.Fatalf("Place(%d): %v", c, err)
		}
	}

	var buf bytes.Buffer
	if err := Write(&buf, b); err != nil {
		t.Fatalf("Write: %v", err)
	}
	parsed, err := Parse(&buf)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !parsed.Equal(b) || parsed.ToMove() != b.ToMove() {
		t.Fatalf("round trip changed the board:\n%s\n%s", Format(b), Format(parsed))
	}
}

func TestParseAcceptsSpacedCells(t *testing.T) {
	b, err := ParseString("1 2 0\n0 0 0\n\n1\n\n")
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	if b.Width() != 3 || b.Height() != 2 || b.MoveCount() != 2 || b.ToMove() != board.Red {
		t.Fatalf("unexpected board %dx%d moves %d", b.Width(), b.Height(), b.MoveCount())
	}
}

func TestParseRejectsBadSnapshots(t *testing.T) {
	cases := map[string]string{
		"no mover":       "100\n",
		"empty":          "",
		"ragged rows":    "100\n00\n2\n",
		"bad digit":      "130\n000\n2\n",
		"floating piece": "000\n100\n2\n",
		"wrong mover":    "100\n000\n1\n",
		"bad mover":      "100\n000\n3\n",
		"blue first":     "200\n000\n1\n",
		"too many red":   "110\n000\n2\n",
	}
	for name, text := range cases {
		if _, err := ParseString(text); !errors.Is(err, apperrors.ErrInvalidSnapshot) {
			t.Fatalf("%s: err = %v, want ErrInvalidSnapshot", name, err)
		}
	}
}
