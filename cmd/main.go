package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"connect4/internal/adapters"
	"connect4/internal/bootstrap"
	engineDelivery "connect4/internal/delivery/engine"
	gameDelivery "connect4/internal/delivery/game"
	ownMiddleware "connect4/internal/middleware"
	repo "connect4/internal/repository"
	"connect4/internal/usecase/engine"
	gameUC "connect4/internal/usecase/game"
	engineProto "connect4/microservices/proto"
)

type mainDeliveryHandler struct {
	engine *engineDelivery.EngineHandler
	game   *gameDelivery.GameHandler
}

type dataBaseAdapters struct {
	redisAdapter *adapters.AdapterRedis
	mongoAdapter *adapters.AdapterMongo
}

func main() {
	logger := NewLogger()
	defer logger.Sync()

	cfg, err := bootstrap.Setup(".env")
	if err != nil {
		logger.Errorw("Failed to setup configuration", "error", err)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore := initGameStore(ctx, logger, *cfg)
	defer closeStore()

	moveEngine, closeEngine := initEngine(logger, *cfg)
	defer closeEngine()

	r := chi.NewRouter()
	handlers := initializeDeliveryHandlers(*cfg, logger, store, moveEngine)
	handlers.Router(r, cfg.IsLocalCors)

	server := &http.Server{
		Addr:              cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Infof("Server is running on port %s", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Received shutdown signal")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err = g.Wait(); err != nil {
		logger.Errorw("Server stopped with error", "error", err)
	}
}

func NewLogger() *zap.SugaredLogger {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	return logger.Sugar()
}

func (h *mainDeliveryHandler) Router(r *chi.Mux, isLocalCors bool) {
	if isLocalCors {
		r.Use(ownMiddleware.CORS)
	}
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	h.game.Register(r)
	r.Post("/analyze", h.engine.HandleAnalyze)
}

// initGameStore uses redis and mongo when both are configured and keeps games
// in memory otherwise.
func initGameStore(ctx context.Context, log *zap.SugaredLogger, cfg bootstrap.Config) (gameUC.GameStore, func()) {
	if cfg.RedisUrl == "" || cfg.MongoUri == "" {
		log.Info("REDIS_URL or MONGO_URI not set, games are kept in memory")
		return repo.NewMemoryGameRepository(cfg.PageLimitGames), func() {}
	}

	databaseAdapters := initDatabaseAdapters(ctx, log, cfg)
	closeAll := func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = databaseAdapters.mongoAdapter.Close(closeCtx)
		_ = databaseAdapters.redisAdapter.Close(closeCtx)
	}
	store := repo.NewGameRepository(cfg, log, databaseAdapters.redisAdapter.GetClient(), databaseAdapters.mongoAdapter.Database)
	return store, closeAll
}

func initDatabaseAdapters(ctx context.Context, log *zap.SugaredLogger, cfg bootstrap.Config) *dataBaseAdapters {
	mongoAdapter := adapters.NewAdapterMongo(&cfg, log)
	if err := mongoAdapter.Init(ctx); err != nil {
		log.Fatalw("Failed to initialize MongoDB", "error", err)
	}

	redisAdapter := adapters.NewAdapterRedis(&cfg, log)
	if err := redisAdapter.Init(ctx); err != nil {
		log.Fatalw("Failed to initialize Redis", "error", err)
	}

	log.Info("Database adapters initialized")
	return &dataBaseAdapters{
		redisAdapter: redisAdapter,
		mongoAdapter: mongoAdapter,
	}
}

// initEngine talks to the engine microservice when ENGINE_ADDR is set and
// searches in process otherwise.
func initEngine(log *zap.SugaredLogger, cfg bootstrap.Config) (gameUC.Engine, func()) {
	if cfg.EngineAddr == "" {
		return engine.NewLocal(log), func() {}
	}

	conn, err := grpc.NewClient(cfg.EngineAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		log.Fatalw("Failed to dial grpc", "error", err)
	}
	log.Infof("Using engine service at %s", cfg.EngineAddr)
	return engine.NewRemote(log, engineProto.NewEngineServiceClient(conn)), func() { _ = conn.Close() }
}

func initializeDeliveryHandlers(
	cfg bootstrap.Config,
	log *zap.SugaredLogger,
	store gameUC.GameStore,
	moveEngine gameUC.Engine,
) *mainDeliveryHandler {
	games := gameUC.NewGameUseCase(cfg, log, store, moveEngine)

	return &mainDeliveryHandler{
		engine: engineDelivery.NewEngineHandler(cfg, log, games),
		game:   gameDelivery.NewGameHandler(cfg, log, games),
	}
}
