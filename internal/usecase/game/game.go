package game

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"connect4/internal/bootstrap"
	"connect4/internal/domain/board"
	"connect4/internal/domain/game"
	"connect4/internal/errors"
	"connect4/internal/evaluator"
	"connect4/internal/search"
	"connect4/internal/snapshot"
	"connect4/internal/statuses"
)

type GameStore interface {
	GenerateGameID(ctx context.Context) string
	SaveGame(ctx context.Context, play game.Game) error
	GetGame(ctx context.Context, id string) (game.Game, error)
	ArchiveGame(ctx context.Context, play game.Game) error
	GetArchivedGames(ctx context.Context, page int) ([]game.Game, error)
}

type Engine interface {
	SelectMove(ctx context.Context, b *board.Board, depth int) (search.Analysis, error)
}

type GameUseCase struct {
	cfg    bootstrap.Config
	log    *zap.SugaredLogger
	store  GameStore
	engine Engine
	now    func() time.Time

	locks sync.Map // game id -> *sync.Mutex
}

func NewGameUseCase(cfg bootstrap.Config, log *zap.SugaredLogger, store GameStore, engine Engine) *GameUseCase {
	return &GameUseCase{
		cfg:    cfg,
		log:    log,
		store:  store,
		engine: engine,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (g *GameUseCase) lock(id string) func() {
	mu, _ := g.locks.LoadOrStore(id, &sync.Mutex{})
	mu.(*sync.Mutex).Lock()
	return mu.(*sync.Mutex).Unlock
}

// CreateGame starts a game. When the bot plays Red it answers immediately.
func (g *GameUseCase) CreateGame(ctx context.Context, req game.CreateGameRequest) (game.MoveResponse, error) {
	depth := req.Depth
	if depth == 0 {
		depth = g.cfg.SearchDepth
	}
	if err := g.checkDepth(depth); err != nil {
		return game.MoveResponse{}, err
	}

	botColor := ""
	if req.BotColor != "" {
		p, ok := board.ParsePiece(req.BotColor)
		if !ok || p == board.Empty {
			return game.MoveResponse{}, fmt.Errorf("%w: %q", errors.ErrInvalidColor, req.BotColor)
		}
		botColor = p.String()
	}

	var (
		b   *board.Board
		err error
	)
	if req.Snapshot != "" {
		b, err = snapshot.ParseString(req.Snapshot)
	} else {
		width, height := valueOr(req.Width, g.cfg.BoardWidth), valueOr(req.Height, g.cfg.BoardHeight)
		if err = g.checkSize(width, height); err != nil {
			return game.MoveResponse{}, err
		}
		b, err = board.New(width, height)
	}
	if err != nil {
		return game.MoveResponse{}, err
	}
	if err = g.checkSize(b.Width(), b.Height()); err != nil {
		return game.MoveResponse{}, err
	}

	now := g.now()
	play := game.Game{
		ID:        g.store.GenerateGameID(ctx),
		Width:     b.Width(),
		Height:    b.Height(),
		Depth:     depth,
		BotColor:  botColor,
		Moves:     []int{},
		Status:    statuses.StatusActive,
		CreatedAt: now,
	}
	if req.Snapshot != "" {
		play.Initial = snapshot.Format(b)
	}
	g.refresh(&play, b)

	resp := game.MoveResponse{}
	if g.botToMove(play) {
		if resp.BotMove, err = g.botReply(ctx, &play, b); err != nil {
			return game.MoveResponse{}, err
		}
	}

	if err = g.persist(ctx, play); err != nil {
		return game.MoveResponse{}, err
	}

	g.log.Infow("game created", "id", play.ID, "width", play.Width, "height", play.Height, "bot", play.BotColor, "depth", play.Depth)
	resp.Game = play
	return resp, nil
}

func (g *GameUseCase) GetGame(ctx context.Context, id string) (game.Game, error) {
	return g.store.GetGame(ctx, id)
}

// PlayMove drops a piece for the side to move and lets the bot answer when it
// owns the other side.
func (g *GameUseCase) PlayMove(ctx context.Context, id string, column int) (game.MoveResponse, error) {
	defer g.lock(id)()

	play, b, err := g.load(ctx, id)
	if err != nil {
		return game.MoveResponse{}, err
	}
	if g.botToMove(play) {
		return game.MoveResponse{}, errors.ErrBotToMove
	}

	if err = g.apply(&play, b, column); err != nil {
		return game.MoveResponse{}, err
	}

	resp := game.MoveResponse{}
	if g.botToMove(play) {
		if resp.BotMove, err = g.botReply(ctx, &play, b); err != nil {
			return game.MoveResponse{}, err
		}
	}

	if err = g.persist(ctx, play); err != nil {
		return game.MoveResponse{}, err
	}
	resp.Game = play
	return resp, nil
}

// BotMove asks the engine to play the side to move. Games without a bot accept
// an engine move for either side.
func (g *GameUseCase) BotMove(ctx context.Context, id string) (game.MoveResponse, error) {
	defer g.lock(id)()

	play, b, err := g.load(ctx, id)
	if err != nil {
		return game.MoveResponse{}, err
	}
	if play.BotColor != "" && play.BotColor != play.NextColor {
		return game.MoveResponse{}, errors.ErrNotBotTurn
	}

	analysis, err := g.botReply(ctx, &play, b)
	if err != nil {
		return game.MoveResponse{}, err
	}
	if err = g.persist(ctx, play); err != nil {
		return game.MoveResponse{}, err
	}
	return game.MoveResponse{Game: play, BotMove: analysis}, nil
}

func (g *GameUseCase) ListArchive(ctx context.Context, page int) (game.ArchiveResponse, error) {
	if page < 1 {
		page = 1
	}
	games, err := g.store.GetArchivedGames(ctx, page)
	if err != nil {
		return game.ArchiveResponse{}, err
	}
	return game.ArchiveResponse{Page: page, Games: games}, nil
}

// Analyze scores every column of a snapshot without creating a game.
func (g *GameUseCase) Analyze(ctx context.Context, req game.AnalyzeRequest) (search.Analysis, error) {
	depth := g.cfg.SearchDepth
	if req.Depth != nil {
		depth = *req.Depth
	}

	if err := g.checkDepth(depth); err != nil {
		return search.Analysis{}, err
	}

	b, err := snapshot.ParseString(req.Snapshot)
	if err != nil {
		return search.Analysis{}, err
	}
	if err = g.checkSize(b.Width(), b.Height()); err != nil {
		return search.Analysis{}, err
	}
	return g.engine.SelectMove(ctx, b, depth)
}

func (g *GameUseCase) load(ctx context.Context, id string) (game.Game, *board.Board, error) {
	play, err := g.store.GetGame(ctx, id)
	if err != nil {
		return game.Game{}, nil, err
	}
	if play.Status == statuses.StatusCompleted {
		return game.Game{}, nil, fmt.Errorf("%w: %s", errors.ErrGameFinished, id)
	}

	b, err := play.Replay()
	if err != nil {
		g.log.Errorw("failed to replay game", "id", id, "error", err)
		return game.Game{}, nil, err
	}
	return play, b, nil
}

func (g *GameUseCase) apply(play *game.Game, b *board.Board, column int) error {
	if err := b.Place(column); err != nil {
		return err
	}
	play.Moves = append(play.Moves, column)
	g.refresh(play, b)
	return nil
}

func (g *GameUseCase) botReply(ctx context.Context, play *game.Game, b *board.Board) (*search.Analysis, error) {
	analysis, err := g.engine.SelectMove(ctx, b, play.Depth)
	if err != nil {
		g.log.Errorw("engine failed to select a move", "id", play.ID, "error", err)
		return nil, err
	}
	if err = g.apply(play, b, analysis.Column); err != nil {
		return nil, fmt.Errorf("%w: engine chose column %d: %v", errors.ErrInternal, analysis.Column, err)
	}
	return &analysis, nil
}

// refresh derives the stored view of b and closes the game once it is over.
func (g *GameUseCase) refresh(play *game.Game, b *board.Board) {
	now := g.now()
	play.Snapshot = snapshot.Format(b)
	play.Score = evaluator.Score(b)
	play.UpdatedAt = now

	winner, over := evaluator.Outcome(b)
	if !over {
		play.NextColor = b.ToMove().String()
		return
	}

	play.NextColor = ""
	play.Status = statuses.StatusCompleted
	play.FinishedAt = &now
	if winner == board.Empty {
		play.Winner = statuses.ResultDraw
	} else {
		play.Winner = winner.String()
	}
}

func (g *GameUseCase) botToMove(play game.Game) bool {
	return play.Status == statuses.StatusActive && play.BotColor != "" && play.BotColor == play.NextColor
}

func (g *GameUseCase) persist(ctx context.Context, play game.Game) error {
	if play.Status == statuses.StatusCompleted {
		g.log.Infow("game finished", "id", play.ID, "winner", play.Winner, "moves", len(play.Moves))
		if err := g.store.ArchiveGame(ctx, play); err != nil {
			return err
		}
		// load rejects archived games, so nothing mutates them again.
		g.locks.Delete(play.ID)
		return nil
	}
	return g.store.SaveGame(ctx, play)
}

func (g *GameUseCase) checkDepth(depth int) error {
	if depth < 0 || depth > g.cfg.MaxSearchDepth {
		return fmt.Errorf("%w: %d not in [0, %d]", errors.ErrInvalidDepth, depth, g.cfg.MaxSearchDepth)
	}
	return nil
}

func (g *GameUseCase) checkSize(width, height int) error {
	if width > g.cfg.MaxBoardSide || height > g.cfg.MaxBoardSide {
		return fmt.Errorf("%w: %dx%d exceeds %d", errors.ErrInvalidDimensions, width, height, g.cfg.MaxBoardSide)
	}
	return nil
}

func valueOr(v, fallback int) int {
	if v == 0 {
		return fallback
	}
	return v
}
