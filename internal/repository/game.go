package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"connect4/internal/bootstrap"
	"connect4/internal/domain/game"
	apperrors "connect4/internal/errors"
)

const (
	gamesCollection = "games"
	gameKeyPrefix   = "game:"
)

// GameRepository keeps games in play in redis and moves finished games into
// the mongo archive.
type GameRepository struct {
	cfg   bootstrap.Config
	log   *zap.SugaredLogger
	redis *redis.Client
	mongo *mongo.Database
}

func NewGameRepository(cfg bootstrap.Config, log *zap.SugaredLogger, redis *redis.Client, mongo *mongo.Database) *GameRepository {
	return &GameRepository{
		cfg:   cfg,
		log:   log,
		redis: redis,
		mongo: mongo,
	}
}

func (g *GameRepository) GenerateGameID(ctx context.Context) string {
	return uuid.New().String()
}

func (g *GameRepository) SaveGame(ctx context.Context, play game.Game) error {
	data, err := json.Marshal(play)
	if err != nil {
		return fmt.Errorf("marshal game %s: %w", play.ID, err)
	}
	if err = g.redis.Set(ctx, gameKeyPrefix+play.ID, data, g.cfg.GameTTL).Err(); err != nil {
		return fmt.Errorf("save game %s to redis: %w", play.ID, err)
	}
	return nil
}

func (g *GameRepository) GetGame(ctx context.Context, id string) (game.Game, error) {
	val, err := g.redis.Get(ctx, gameKeyPrefix+id).Result()
	if err == nil {
		var play game.Game
		if err = json.Unmarshal([]byte(val), &play); err != nil {
			return game.Game{}, fmt.Errorf("unmarshal game %s: %w", id, err)
		}
		return play, nil
	}
	if !errors.Is(err, redis.Nil) {
		return game.Game{}, fmt.Errorf("load game %s from redis: %w", id, err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var archived game.Game
	err = g.mongo.Collection(gamesCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&archived)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return game.Game{}, apperrors.ErrGameNotFound
	} else if err != nil {
		g.log.Errorw("failed to load archived game", "id", id, "error", err)
		return game.Game{}, err
	}

	return archived, nil
}

func (g *GameRepository) ArchiveGame(ctx context.Context, play game.Game) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	collection := g.mongo.Collection(gamesCollection)
	opts := options.Replace().SetUpsert(true)
	if _, err := collection.ReplaceOne(ctx, bson.M{"_id": play.ID}, play, opts); err != nil {
		g.log.Errorf("failed to archive game %s: %v", play.ID, err)
		return err
	}

	if err := g.redis.Del(ctx, gameKeyPrefix+play.ID).Err(); err != nil {
		g.log.Warnw("archived game still cached in redis", "id", play.ID, "error", err)
	}

	g.log.Infof("game %s archived with result %s", play.ID, play.Winner)
	return nil
}

func (g *GameRepository) GetArchivedGames(ctx context.Context, page int) ([]game.Game, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	limit := int64(g.cfg.PageLimitGames)
	opts := options.Find().
		SetSort(bson.D{{Key: "finished_at", Value: -1}}).
		SetSkip(int64(page-1) * limit).
		SetLimit(limit)

	cursor, err := g.mongo.Collection(gamesCollection).Find(ctx, bson.M{}, opts)
	if err != nil {
		g.log.Error(err)
		return nil, err
	}
	defer cursor.Close(ctx)

	games := make([]game.Game, 0, limit)
	if err = cursor.All(ctx, &games); err != nil {
		g.log.Error(err)
		return nil, err
	}

	return games, nil
}
