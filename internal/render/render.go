package render

import (
	"fmt"
	"strings"

	"connect4/internal/domain/board"
	"connect4/internal/evaluator"
	"connect4/internal/search"
)

const (
	reset = "\x1b[0m"
	red   = "\x1b[31m"
	blue  = "\x1b[34m"
)

type Options struct {
	// Color enables ANSI colors for the tokens.
	Color bool
}

// Board draws b top row first, followed by the column labels and the move
// count, the side to move and the static evaluation.
func Board(b *board.Board, opts Options) string {
	var sb strings.Builder

	sb.WriteString(" ___")
	sb.WriteString(strings.Repeat("____", b.Width()-1))

	for y := b.Height() - 1; y >= 0; y-- {
		sb.WriteString("\n|")
		for x := 0; x < b.Width(); x++ {
			sb.WriteString(cell(b.At(x, y), opts))
		}
	}

	sb.WriteString("\n ___")
	sb.WriteString(strings.Repeat("____", b.Width()-1))
	sb.WriteString("\n|")
	for x := 0; x < b.Width(); x++ {
		fmt.Fprintf(&sb, "%2d |", x)
	}

	fmt.Fprintf(&sb, "\n\nMoves: %d", b.MoveCount())
	fmt.Fprintf(&sb, "\nTurn: %s", strings.ToUpper(b.ToMove().String()))
	fmt.Fprintf(&sb, "\nEvaluation: %d\n", evaluator.Score(b))
	return sb.String()
}

func cell(p board.Piece, opts Options) string {
	switch p {
	case board.Red:
		return "_" + token("X", red, opts) + "_|"
	case board.Blue:
		return "_" + token("O", blue, opts) + "_|"
	}
	return "___|"
}

func token(s, color string, opts Options) string {
	if !opts.Color {
		return s
	}
	return color + s + reset
}

// Analysis lists the per-column evaluations of a search.
func Analysis(scores []search.ColumnScore) string {
	var sb strings.Builder
	for _, s := range scores {
		if !s.Legal {
			fmt.Fprintf(&sb, "Column: %d | full\n", s.Column)
			continue
		}
		fmt.Fprintf(&sb, "Column: %d | Evaluation: %d\n", s.Column, s.Score)
	}
	return sb.String()
}
