package errors

import "errors"

var (
	ErrInvalidDimensions = errors.New("board dimensions are out of range")
	ErrColumnOutOfRange  = errors.New("column is out of range")
	ErrColumnFull        = errors.New("column is full")
	ErrInvalidPosition   = errors.New("invalid board position")
	ErrNoLegalMove       = errors.New("no legal move left on the board")
	ErrInvalidDepth      = errors.New("search depth is out of range")
	ErrInvalidSnapshot   = errors.New("invalid board snapshot")
	ErrGameNotFound      = errors.New("game not found")
	ErrGameFinished      = errors.New("game already finished")
	ErrNotBotTurn        = errors.New("bot does not play the side to move")
	ErrBotToMove         = errors.New("the bot plays the side to move")
	ErrInvalidColor      = errors.New("unknown color")
	ErrInternal          = errors.New("internal error")
)
