package evaluator

import "connect4/internal/domain/board"

// Score is the heuristic value of b: positive favours Red, negative Blue.
func Score(b *board.Board) int {
	return scoreLines(b.Lines())
}

func scoreLines(lines [][]board.Piece) int {
	red, blue := 0, 0
	for _, line := range lines {
		r, bl := EvaluateLine(line)
		red += r
		blue += bl
	}
	return red - blue
}

// Winner returns the color of the first four in a row found on b, or Empty.
func Winner(b *board.Board) board.Piece {
	for _, line := range b.Lines() {
		if p := lineWinner(line); p != board.Empty {
			return p
		}
	}
	return board.Empty
}

func lineWinner(line []board.Piece) board.Piece {
	for i := 0; i+connect <= len(line); i++ {
		p := line[i]
		if p == board.Empty {
			continue
		}
		won := true
		for k := 1; k < connect; k++ {
			if line[i+k] != p {
				won = false
				break
			}
		}
		if won {
			return p
		}
	}
	return board.Empty
}

// Outcome reports the winner and whether the game on b is over.
func Outcome(b *board.Board) (winner board.Piece, over bool) {
	winner = Winner(b)
	return winner, winner != board.Empty || b.IsFull()
}
