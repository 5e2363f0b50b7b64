package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"connect4/internal/bootstrap"
	"connect4/internal/domain/board"
	"connect4/internal/search"
	"connect4/internal/snapshot"
	"connect4/internal/usecase/engine"
)

const analysisKeyPrefix = "analysis:"

// AnalysisRepository runs the search and memoizes results in redis. A nil
// redis client disables the cache.
type AnalysisRepository struct {
	cfg    *bootstrap.Config
	log    *zap.SugaredLogger
	redis  *redis.Client
	engine *engine.Local
}

func NewAnalysisRepository(cfg *bootstrap.Config, log *zap.SugaredLogger, redis *redis.Client) *AnalysisRepository {
	return &AnalysisRepository{
		cfg:    cfg,
		log:    log,
		redis:  redis,
		engine: engine.NewLocal(log),
	}
}

func (a *AnalysisRepository) SelectMove(ctx context.Context, b *board.Board, depth int) (search.Analysis, error) {
	key := analysisKey(b, depth)

	if a.redis != nil {
		val, err := a.redis.Get(ctx, key).Result()
		switch {
		case err == nil:
			var cached search.Analysis
			if err = json.Unmarshal([]byte(val), &cached); err == nil {
				return cached, nil
			}
			a.log.Warnw("dropping unreadable cached analysis", "key", key, "error", err)
		case !errors.Is(err, redis.Nil):
			a.log.Warnw("analysis cache unavailable", "error", err)
		}
	}

	analysis, err := a.engine.SelectMove(ctx, b, depth)
	if err != nil {
		return search.Analysis{}, err
	}

	if a.redis != nil {
		data, err := json.Marshal(analysis)
		if err != nil {
			return search.Analysis{}, fmt.Errorf("marshal analysis: %w", err)
		}
		if err = a.redis.Set(ctx, key, data, a.cfg.GameTTL).Err(); err != nil {
			a.log.Warnw("failed to cache analysis", "key", key, "error", err)
		}
	}

	return analysis, nil
}

func analysisKey(b *board.Board, depth int) string {
	rows := strings.Split(strings.TrimSpace(snapshot.Format(b)), "\n")
	return fmt.Sprintf("%s%d:%s", analysisKeyPrefix, depth, strings.Join(rows, "/"))
}
