package main

import (
	"context"
	"net"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"google.golang.org/grpc"

	"connect4/internal/adapters"
	"connect4/internal/bootstrap"
	engineproto "connect4/microservices/proto"
	"connect4/microservices/repository"
	"connect4/microservices/usecase"
)

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

	analysisStorage := repository.NewAnalysisRepository(cfg, logger, nil)
	if cfg.RedisUrl != "" {
		redisAdapter := adapters.NewAdapterRedis(cfg, logger)
		if err = redisAdapter.Init(ctx); err != nil {
			logger.Fatalw("Failed to initialize redis", "error", err)
		}
		defer redisAdapter.Close(context.Background())
		analysisStorage = repository.NewAnalysisRepository(cfg, logger, redisAdapter.GetClient())
	}

	lis, err := net.Listen("tcp", cfg.GrpcPort)
	if err != nil {
		logger.Fatalf("cant listen port %s: %v", cfg.GrpcPort, err)
	}

	server := grpc.NewServer()
	engineproto.RegisterEngineServiceServer(server, usecase.NewEngineUseCase(logger, analysisStorage, cfg.MaxSearchDepth))

	go func() {
		<-ctx.Done()
		logger.Info("Received shutdown signal")
		server.GracefulStop()
	}()

	logger.Infof("starting engine server at %s", cfg.GrpcPort)
	if err = server.Serve(lis); err != nil {
		logger.Errorw("engine server stopped", "error", err)
	}
}

func NewLogger() *zap.SugaredLogger {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}

	return logger.Sugar()
}
