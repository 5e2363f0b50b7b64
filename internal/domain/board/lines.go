package board

// Lines returns every maximal line of the board: all rows left to right, all
// columns bottom to top, then the up-right and up-left diagonal families
// bottom to top. Only four of the eight directions are walked so that no
// physical line is produced twice.
func (b *Board) Lines() [][]Piece {
	lines := make([][]Piece, 0, b.height+b.width+2*(b.width+b.height-1))

	for y := 0; y < b.height; y++ {
		lines = append(lines, b.walk(0, y, 1, 0))
	}
	for x := 0; x < b.width; x++ {
		lines = append(lines, b.walk(x, 0, 0, 1))
	}

	// up-right diagonals start on the bottom row or on the left edge
	for x := 0; x < b.width; x++ {
		lines = append(lines, b.walk(x, 0, 1, 1))
	}
	for y := 1; y < b.height; y++ {
		lines = append(lines, b.walk(0, y, 1, 1))
	}

	// up-left diagonals start on the bottom row or on the right edge
	for x := 0; x < b.width; x++ {
		lines = append(lines, b.walk(x, 0, -1, 1))
	}
	for y := 1; y < b.height; y++ {
		lines = append(lines, b.walk(b.width-1, y, -1, 1))
	}

	return lines
}

func (b *Board) walk(x, y, dx, dy int) []Piece {
	var line []Piece
	for x >= 0 && x < b.width && y >= 0 && y < b.height {
		line = append(line, b.At(x, y))
		x += dx
		y += dy
	}
	return line
}
