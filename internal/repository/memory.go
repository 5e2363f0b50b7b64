package repo

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"connect4/internal/domain/game"
	apperrors "connect4/internal/errors"
)

// MemoryGameRepository is the in-process store used when redis and mongo are
// not configured.
type MemoryGameRepository struct {
	mu        sync.RWMutex
	active    map[string]game.Game
	archived  map[string]game.Game
	pageLimit int
}

func NewMemoryGameRepository(pageLimit int) *MemoryGameRepository {
	if pageLimit <= 0 {
		pageLimit = 20
	}
	return &MemoryGameRepository{
		active:    make(map[string]game.Game),
		archived:  make(map[string]game.Game),
		pageLimit: pageLimit,
	}
}

func (m *MemoryGameRepository) GenerateGameID(ctx context.Context) string {
	return uuid.New().String()
}

func (m *MemoryGameRepository) SaveGame(ctx context.Context, play game.Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	play.Moves = append([]int(nil), play.Moves...)
	m.active[play.ID] = play
	return nil
}

func (m *MemoryGameRepository) GetGame(ctx context.Context, id string) (game.Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if play, ok := m.active[id]; ok {
		return play, nil
	}
	if play, ok := m.archived[id]; ok {
		return play, nil
	}
	return game.Game{}, apperrors.ErrGameNotFound
}

func (m *MemoryGameRepository) ArchiveGame(ctx context.Context, play game.Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	play.Moves = append([]int(nil), play.Moves...)
	m.archived[play.ID] = play
	delete(m.active, play.ID)
	return nil
}

func (m *MemoryGameRepository) GetArchivedGames(ctx context.Context, page int) ([]game.Game, error) {
	m.mu.RLock()
	games := make([]game.Game, 0, len(m.archived))
	for _, play := range m.archived {
		games = append(games, play)
	}
	m.mu.RUnlock()

	sort.Slice(games, func(i, j int) bool {
		fi, fj := finishedAt(games[i]), finishedAt(games[j])
		if fi != fj {
			return fi > fj
		}
		return games[i].ID < games[j].ID
	})

	start := (page - 1) * m.pageLimit
	if start >= len(games) {
		return []game.Game{}, nil
	}
	end := min(start+m.pageLimit, len(games))
	return games[start:end], nil
}

func finishedAt(play game.Game) int64 {
	if play.FinishedAt == nil {
		return 0
	}
	return play.FinishedAt.UnixNano()
}
