package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"connect4/internal/domain/board"
	apperrors "connect4/internal/errors"
	"connect4/internal/search"
	"connect4/internal/snapshot"
	engineproto "connect4/microservices/proto"
)

// Local runs the search in process.
type Local struct {
	log *zap.SugaredLogger
}

func NewLocal(log *zap.SugaredLogger) *Local {
	return &Local{log: log}
}

func (l *Local) SelectMove(ctx context.Context, b *board.Board, depth int) (search.Analysis, error) {
	started := time.Now()
	analysis, err := search.AnalyzeContext(ctx, search.NewNode(b.Copy()), depth)
	if err != nil {
		return search.Analysis{}, err
	}

	l.log.Debugw("move selected",
		"column", analysis.Column,
		"score", analysis.Score,
		"depth", depth,
		"elapsed", time.Since(started),
	)
	return analysis, nil
}

// Remote asks the engine microservice over gRPC.
type Remote struct {
	log    *zap.SugaredLogger
	client engineproto.EngineServiceClient
}

func NewRemote(log *zap.SugaredLogger, client engineproto.EngineServiceClient) *Remote {
	return &Remote{log: log, client: client}
}

func (r *Remote) SelectMove(ctx context.Context, b *board.Board, depth int) (search.Analysis, error) {
	if depth < 0 {
		return search.Analysis{}, fmt.Errorf("%w: %d", apperrors.ErrInvalidDepth, depth)
	}

	req := engineproto.SelectMoveRequest{
		Snapshot:  snapshot.Format(b),
		Depth:     depth,
		RequestID: uuid.New().String(),
	}
	in, err := req.ToStruct()
	if err != nil {
		return search.Analysis{}, fmt.Errorf("encode engine request: %w", err)
	}

	out, err := r.client.SelectMove(ctx, in)
	if err != nil {
		r.log.Errorw("engine rpc failed", "request_id", req.RequestID, "error", err)
		return search.Analysis{}, fromStatus(err)
	}

	resp, err := engineproto.SelectMoveResponseFromStruct(out)
	if err != nil {
		return search.Analysis{}, fmt.Errorf("%w: decode engine response: %v", apperrors.ErrInternal, err)
	}

	r.log.Debugw("remote move selected", "request_id", req.RequestID, "column", resp.Column, "score", resp.Score)
	return resp.Analysis(depth), nil
}

func fromStatus(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	switch st.Code() {
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", apperrors.ErrInvalidSnapshot, st.Message())
	case codes.OutOfRange:
		return fmt.Errorf("%w: %s", apperrors.ErrInvalidDepth, st.Message())
	case codes.FailedPrecondition:
		return fmt.Errorf("%w: %s", apperrors.ErrNoLegalMove, st.Message())
	case codes.Canceled:
		return context.Canceled
	case codes.DeadlineExceeded:
		return context.DeadlineExceeded
	}
	return fmt.Errorf("engine rpc: %w", err)
}
