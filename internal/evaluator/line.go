package evaluator

import "connect4/internal/domain/board"

const (
	// WinScore is returned for a line that already holds four in a row.
	WinScore = 24
	// connect is the number of aligned pieces that wins the game.
	connect = 4
)

// EvaluateLine scores one line for both colors. Each run of same-colored
// pieces is worth something only when the stretch around it, bounded by the
// line ends or opposing pieces, still has room for four in a row. Pieces near
// the middle of such a stretch are worth more. A run of four or more ends the
// scan with WinScore for its color.
func EvaluateLine(line []board.Piece) (red, blue int) {
	n := len(line)
	for i := 0; i < n; {
		p := line[i]
		if p == board.Empty {
			i++
			continue
		}

		end := i
		for end < n && line[end] == p {
			end++
		}
		if end-i >= connect {
			if p == board.Red {
				return WinScore, 0
			}
			return 0, WinScore
		}

		value := runValue(line, i, end)
		if p == board.Red {
			red += value
		} else {
			blue += value
		}
		i = end
	}
	return red, blue
}

// runValue scores the run line[start:end].
func runValue(line []board.Piece, start, end int) int {
	opp := line[start].Opponent()

	lo := start
	for lo > 0 && line[lo-1] != opp {
		lo--
	}
	hi := end
	for hi < len(line) && line[hi] != opp {
		hi++
	}

	span := hi - lo
	if span < connect {
		return 0
	}

	best := 0
	for k := start; k < end; k++ {
		idx := k - lo
		v := min(idx, span-1-idx, span-3)
		if v > best {
			best = v
		}
	}
	return (end - start) * best
}
