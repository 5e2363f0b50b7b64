// Package engineproto carries the engine service contract. Messages travel as
// google.protobuf.Struct values so both sides share the well-known types
// instead of a generated message set.
package engineproto

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"connect4/internal/search"
)

const (
	ServiceName          = "engine.EngineService"
	SelectMoveFullMethod = "/engine.EngineService/SelectMove"
)

// EngineServiceClient is the client API for EngineService.
type EngineServiceClient interface {
	SelectMove(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type engineServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewEngineServiceClient(cc grpc.ClientConnInterface) EngineServiceClient {
	return &engineServiceClient{cc}
}

func (c *engineServiceClient) SelectMove(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, SelectMoveFullMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// EngineServiceServer is the server API for EngineService.
type EngineServiceServer interface {
	SelectMove(context.Context, *structpb.Struct) (*structpb.Struct, error)
	mustEmbedUnimplementedEngineServiceServer()
}

// UnimplementedEngineServiceServer must be embedded by implementations.
type UnimplementedEngineServiceServer struct{}

func (UnimplementedEngineServiceServer) SelectMove(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Errorf(codes.Unimplemented, "method SelectMove not implemented")
}

func (UnimplementedEngineServiceServer) mustEmbedUnimplementedEngineServiceServer() {}

func RegisterEngineServiceServer(s grpc.ServiceRegistrar, srv EngineServiceServer) {
	s.RegisterService(&EngineService_ServiceDesc, srv)
}

func _EngineService_SelectMove_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(EngineServiceServer).SelectMove(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: SelectMoveFullMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(EngineServiceServer).SelectMove(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

var EngineService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*EngineServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "SelectMove",
			Handler:    _EngineService_SelectMove_Handler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "engine.proto",
}

type SelectMoveRequest struct {
	Snapshot  string
	Depth     int
	RequestID string
}

func (r SelectMoveRequest) ToStruct() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"snapshot":   r.Snapshot,
		"depth":      r.Depth,
		"request_id": r.RequestID,
	})
}

func SelectMoveRequestFromStruct(s *structpb.Struct) (SelectMoveRequest, error) {
	fields := s.GetFields()

	snapshot, ok := fields["snapshot"].GetKind().(*structpb.Value_StringValue)
	if !ok {
		return SelectMoveRequest{}, fmt.Errorf("snapshot must be a string")
	}
	depth, ok := fields["depth"].GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return SelectMoveRequest{}, fmt.Errorf("depth must be a number")
	}
	if depth.NumberValue != float64(int(depth.NumberValue)) {
		return SelectMoveRequest{}, fmt.Errorf("depth must be an integer")
	}

	return SelectMoveRequest{
		Snapshot:  snapshot.StringValue,
		Depth:     int(depth.NumberValue),
		RequestID: fields["request_id"].GetStringValue(),
	}, nil
}

// SelectMoveResponse lists one score per column; columns that accept no move
// travel as null.
type SelectMoveResponse struct {
	Column  int
	Score   int
	Columns []search.ColumnScore
}

func ResponseFromAnalysis(a search.Analysis) SelectMoveResponse {
	return SelectMoveResponse{Column: a.Column, Score: a.Score, Columns: a.Columns}
}

func (r SelectMoveResponse) Analysis(depth int) search.Analysis {
	return search.Analysis{Column: r.Column, Score: r.Score, Depth: depth, Columns: r.Columns}
}

func (r SelectMoveResponse) ToStruct() (*structpb.Struct, error) {
	scores := make([]any, len(r.Columns))
	for i, c := range r.Columns {
		if c.Legal {
			scores[i] = c.Score
		}
	}
	return structpb.NewStruct(map[string]any{
		"column": r.Column,
		"score":  r.Score,
		"scores": scores,
	})
}

func SelectMoveResponseFromStruct(s *structpb.Struct) (SelectMoveResponse, error) {
	fields := s.GetFields()

	column, ok := fields["column"].GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return SelectMoveResponse{}, fmt.Errorf("column must be a number")
	}
	score, ok := fields["score"].GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return SelectMoveResponse{}, fmt.Errorf("score must be a number")
	}
	list, ok := fields["scores"].GetKind().(*structpb.Value_ListValue)
	if !ok {
		return SelectMoveResponse{}, fmt.Errorf("scores must be a list")
	}

	resp := SelectMoveResponse{
		Column: int(column.NumberValue),
		Score:  int(score.NumberValue),
	}
	for i, v := range list.ListValue.GetValues() {
		switch kind := v.GetKind().(type) {
		case *structpb.Value_NullValue:
			resp.Columns = append(resp.Columns, search.ColumnScore{Column: i})
		case *structpb.Value_NumberValue:
			resp.Columns = append(resp.Columns, search.ColumnScore{Column: i, Score: int(kind.NumberValue), Legal: true})
		default:
			return SelectMoveResponse{}, fmt.Errorf("scores[%d] must be a number or null", i)
		}
	}
	return resp, nil
}
