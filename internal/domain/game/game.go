package game

import (
	"fmt"
	"time"

	"connect4/internal/domain/board"
	"connect4/internal/errors"
	"connect4/internal/search"
	"connect4/internal/snapshot"
)

type Game struct {
	ID         string     `json:"id" bson:"_id"`
	Width      int        `json:"width" bson:"width"`
	Height     int        `json:"height" bson:"height"`
	Depth      int        `json:"depth" bson:"depth"`
	BotColor   string     `json:"bot_color,omitempty" bson:"bot_color,omitempty"` // red, blue or empty
	Initial    string     `json:"initial,omitempty" bson:"initial,omitempty"`     // starting snapshot
	Moves      []int      `json:"moves" bson:"moves"`
	Status     string     `json:"status" bson:"status"`
	Winner     string     `json:"winner,omitempty" bson:"winner,omitempty"` // red, blue or draw
	NextColor  string     `json:"next_color,omitempty" bson:"next_color,omitempty"`
	Snapshot   string     `json:"snapshot" bson:"snapshot"`
	Score      int        `json:"score" bson:"score"`
	CreatedAt  time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" bson:"updated_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty" bson:"finished_at,omitempty"`
}

// Replay rebuilds the current position from the starting position and the
// recorded moves.
func (g Game) Replay() (*board.Board, error) {
	var (
		b   *board.Board
		err error
	)
	if g.Initial != "" {
		b, err = snapshot.ParseString(g.Initial)
	} else {
		b, err = board.New(g.Width, g.Height)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: game %s: %v", errors.ErrInternal, g.ID, err)
	}

	for i, column := range g.Moves {
		if err = b.Place(column); err != nil {
			return nil, fmt.Errorf("%w: game %s move %d: %v", errors.ErrInternal, g.ID, i, err)
		}
	}
	return b, nil
}

type CreateGameRequest struct {
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
	Depth    int    `json:"depth,omitempty"`
	BotColor string `json:"bot_color,omitempty"`
	Snapshot string `json:"snapshot,omitempty"`
}

type MoveRequest struct {
	Column int `json:"column"`
}

type MoveResponse struct {
	Game    Game             `json:"game"`
	BotMove *search.Analysis `json:"bot_move,omitempty"`
}

type AnalyzeRequest struct {
	Snapshot string `json:"snapshot"`
	Depth    *int   `json:"depth,omitempty"` // nil selects the configured depth
}

type ArchiveResponse struct {
	Page  int    `json:"page"`
	Games []Game `json:"games"`
}
