// Package snapshot reads and writes the line oriented board format: one line
// per row from the bottom row up, one digit per cell (0 empty, 1 red,
// 2 blue), and a final line naming the side to move (1 or 2).
package snapshot

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"connect4/internal/domain/board"
	"connect4/internal/errors"
)

func pieceDigit(p board.Piece) byte {
	switch p {
	case board.Red:
		return '1'
	case board.Blue:
		return '2'
	}
	return '0'
}

// Parse reads a snapshot. The board is rebuilt column by column through
// board.FromColumns, so every invariant of a played position is enforced.
func Parse(r io.Reader) (*board.Board, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.Join(strings.Fields(scanner.Text()), "")
		if line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	if len(lines) < 2 {
		return nil, fmt.Errorf("%w: need at least one row and the mover line", errors.ErrInvalidSnapshot)
	}

	rows, mover := lines[:len(lines)-1], lines[len(lines)-1]
	width, height := len(rows[0]), len(rows)

	columns := make([][]board.Piece, width)
	for y, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", errors.ErrInvalidSnapshot, y, len(row), width)
		}
		for x := 0; x < width; x++ {
			var p board.Piece
			switch row[x] {
			case '0':
				continue
			case '1':
				p = board.Red
			case '2':
				p = board.Blue
			default:
				return nil, fmt.Errorf("%w: bad cell %q at row %d column %d", errors.ErrInvalidSnapshot, row[x], y, x)
			}
			if len(columns[x]) != y {
				return nil, fmt.Errorf("%w: floating piece at row %d column %d", errors.ErrInvalidSnapshot, y, x)
			}
			columns[x] = append(columns[x], p)
		}
	}

	b, err := board.FromColumns(width, height, columns)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrInvalidSnapshot, err)
	}

	if mover != "1" && mover != "2" {
		return nil, fmt.Errorf("%w: mover line %q", errors.ErrInvalidSnapshot, mover)
	}
	if mover[0] != pieceDigit(b.ToMove()) {
		return nil, fmt.Errorf("%w: mover %s does not match %d pieces on the board", errors.ErrInvalidSnapshot, mover, b.MoveCount())
	}

	return b, nil
}

// ParseString is Parse over a string.
func ParseString(s string) (*board.Board, error) {
	return Parse(strings.NewReader(s))
}

// Format renders b as a snapshot.
func Format(b *board.Board) string {
	var sb strings.Builder
	sb.Grow((b.Width() + 1) * (b.Height() + 1))
	for y := 0; y < b.Height(); y++ {
		for x := 0; x < b.Width(); x++ {
			sb.WriteByte(pieceDigit(b.At(x, y)))
		}
		sb.WriteByte('\n')
	}
	sb.WriteByte(pieceDigit(b.ToMove()))
	sb.WriteByte('\n')
	return sb.String()
}

// Write writes Format(b) to w.
func Write(w io.Writer, b *board.Board) error {
	_, err := io.WriteString(w, Format(b))
	return err
}
