package search

import (
	"context"
	"fmt"
	"math"

	"connect4/internal/domain/board"
	"connect4/internal/errors"
	"connect4/internal/evaluator"
)

const (
	NegInf = math.MinInt
	PosInf = math.MaxInt
)

// ColumnScore is the minimax value of playing Column from the root.
type ColumnScore struct {
	Column int  `json:"column"`
	Score  int  `json:"score"`
	Legal  bool `json:"legal"`
}

// Analysis is the outcome of a root search.
type Analysis struct {
	Column  int           `json:"column"`
	Score   int           `json:"score"`
	Depth   int           `json:"depth"`
	Columns []ColumnScore `json:"columns"`
}

// cancelCheckInterval is how many nodes are visited between context checks.
const cancelCheckInterval = 1 << 12

// searcher carries the cancellation state of one search. Once err is set
// every remaining call unwinds immediately and the result is discarded.
type searcher struct {
	ctx   context.Context
	nodes int
	err   error
}

// Minimax returns the alpha-beta value of n searched depth plies deep. Red is
// the maximizing side. Children are visited in column order and full columns
// are skipped.
func Minimax(n *Node, depth, alpha, beta int, maximizing bool) int {
	s := searcher{ctx: context.Background()}
	return s.minimax(n, depth, alpha, beta, maximizing)
}

func (s *searcher) minimax(n *Node, depth, alpha, beta int, maximizing bool) int {
	if s.err != nil {
		return 0
	}
	s.nodes++
	if s.nodes%cancelCheckInterval == 0 {
		if s.err = s.ctx.Err(); s.err != nil {
			return 0
		}
	}

	if depth <= 0 || n.Terminal() {
		return evaluator.Score(n.board)
	}

	if maximizing {
		best := NegInf
		for _, slot := range n.Children() {
			if !slot.Present {
				continue
			}
			v := s.minimax(slot.Node, depth-1, alpha, beta, false)
			best = max(best, v)
			alpha = max(alpha, v)
			if beta <= alpha {
				break
			}
		}
		return best
	}

	best := PosInf
	for _, slot := range n.Children() {
		if !slot.Present {
			continue
		}
		v := s.minimax(slot.Node, depth-1, alpha, beta, true)
		best = min(best, v)
		beta = min(beta, v)
		if beta <= alpha {
			break
		}
	}
	return best
}

// Analyze scores every column playable from root, each child searched with a
// full window at depth-1. The first column reaching the best value wins ties.
func Analyze(root *Node, depth int) (Analysis, error) {
	return AnalyzeContext(context.Background(), root, depth)
}

// AnalyzeContext is Analyze that gives up with ctx.Err() once ctx is done.
func AnalyzeContext(ctx context.Context, root *Node, depth int) (Analysis, error) {
	if depth < 0 {
		return Analysis{}, fmt.Errorf("%w: %d", errors.ErrInvalidDepth, depth)
	}
	if root.Terminal() {
		return Analysis{}, errors.ErrNoLegalMove
	}
	if err := ctx.Err(); err != nil {
		return Analysis{}, err
	}

	s := searcher{ctx: ctx}
	maximizing := root.board.ToMove() == board.Red
	result := Analysis{Column: -1, Depth: depth}

	for column, slot := range root.Children() {
		score := ColumnScore{Column: column, Legal: slot.Present}
		if slot.Present {
			score.Score = s.minimax(slot.Node, depth-1, NegInf, PosInf, !maximizing)
			if s.err != nil {
				return Analysis{}, s.err
			}

			better := result.Column < 0 ||
				maximizing && score.Score > result.Score ||
				!maximizing && score.Score < result.Score
			if better {
				result.Column = column
				result.Score = score.Score
			}
		}
		result.Columns = append(result.Columns, score)
	}

	if result.Column < 0 {
		return Analysis{}, errors.ErrNoLegalMove
	}
	return result, nil
}

// SelectMove returns the column the side to move at root should play.
func SelectMove(root *Node, depth int) (int, error) {
	a, err := Analyze(root, depth)
	if err != nil {
		return -1, err
	}
	return a.Column, nil
}
