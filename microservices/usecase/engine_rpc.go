package usecase

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"connect4/internal/domain/board"
	apperrors "connect4/internal/errors"
	"connect4/internal/search"
	"connect4/internal/snapshot"
	engineproto "connect4/microservices/proto"
)

type AnalysisStore interface {
	SelectMove(ctx context.Context, b *board.Board, depth int) (search.Analysis, error)
}

type EngineUseCase struct {
	log      *zap.SugaredLogger
	store    AnalysisStore
	maxDepth int
	engineproto.UnimplementedEngineServiceServer
}

// NewEngineUseCase serves searches up to maxDepth plies.
func NewEngineUseCase(log *zap.SugaredLogger, store AnalysisStore, maxDepth int) *EngineUseCase {
	return &EngineUseCase{
		log:      log,
		store:    store,
		maxDepth: maxDepth,
	}
}

func (e *EngineUseCase) SelectMove(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := engineproto.SelectMoveRequestFromStruct(in)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	log := e.log.With("request_id", req.RequestID)

	if req.Depth < 0 || req.Depth > e.maxDepth {
		return nil, status.Errorf(codes.OutOfRange, "%v: %d not in [0, %d]", apperrors.ErrInvalidDepth, req.Depth, e.maxDepth)
	}

	b, err := snapshot.ParseString(req.Snapshot)
	if err != nil {
		log.Infow("rejected snapshot", "error", err)
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	analysis, err := e.store.SelectMove(ctx, b, req.Depth)
	if err != nil {
		return nil, toStatus(err)
	}

	out, err := engineproto.ResponseFromAnalysis(analysis).ToStruct()
	if err != nil {
		log.Errorw("failed to encode response", "error", err)
		return nil, status.Error(codes.Internal, err.Error())
	}

	log.Infow("move selected", "column", analysis.Column, "score", analysis.Score, "depth", req.Depth)
	return out, nil
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, apperrors.ErrNoLegalMove):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, apperrors.ErrInvalidDepth):
		return status.Error(codes.OutOfRange, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return status.FromContextError(err).Err()
	}
	return status.Error(codes.Internal, err.Error())
}
