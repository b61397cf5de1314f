package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// The SurveyStats service exchanges google.protobuf.Struct messages, so it
// needs no generated code. Request fields: teacher_id, chart_type,
// date_filter, start_date, end_date.

const (
	SurveyStatsServiceName = "surveystats.v1.SurveyStats"

	SurveyStats_GetRatingStats_FullMethodName    = "/surveystats.v1.SurveyStats/GetRatingStats"
	SurveyStats_GetUserStats_FullMethodName      = "/surveystats.v1.SurveyStats/GetUserStats"
	SurveyStats_GetUserTableStats_FullMethodName = "/surveystats.v1.SurveyStats/GetUserTableStats"
)

// SurveyStatsServer is the server API for the SurveyStats service.
type SurveyStatsServer interface {
	GetRatingStats(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetUserStats(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetUserTableStats(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

func RegisterSurveyStatsServer(s grpc.ServiceRegistrar, srv SurveyStatsServer) {
	s.RegisterService(&SurveyStats_ServiceDesc, srv)
}

func unaryHandler(method string, call func(SurveyStatsServer, context.Context, *structpb.Struct) (*structpb.Struct, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(SurveyStatsServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: method,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(SurveyStatsServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var SurveyStats_ServiceDesc = grpc.ServiceDesc{
	ServiceName: SurveyStatsServiceName,
	HandlerType: (*SurveyStatsServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetRatingStats",
			Handler:    unaryHandler(SurveyStats_GetRatingStats_FullMethodName, SurveyStatsServer.GetRatingStats),
		},
		{
			MethodName: "GetUserStats",
			Handler:    unaryHandler(SurveyStats_GetUserStats_FullMethodName, SurveyStatsServer.GetUserStats),
		},
		{
			MethodName: "GetUserTableStats",
			Handler:    unaryHandler(SurveyStats_GetUserTableStats_FullMethodName, SurveyStatsServer.GetUserTableStats),
		},
	},
	Streams: []grpc.StreamDesc{},
}

// SurveyStatsClient is the client API for the SurveyStats service.
type SurveyStatsClient struct {
	cc grpc.ClientConnInterface
}

func NewSurveyStatsClient(cc grpc.ClientConnInterface) *SurveyStatsClient {
	return &SurveyStatsClient{cc: cc}
}

func (c *SurveyStatsClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *SurveyStatsClient) GetRatingStats(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, SurveyStats_GetRatingStats_FullMethodName, in, opts...)
}

func (c *SurveyStatsClient) GetUserStats(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, SurveyStats_GetUserStats_FullMethodName, in, opts...)
}

func (c *SurveyStatsClient) GetUserTableStats(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, SurveyStats_GetUserTableStats_FullMethodName, in, opts...)
}
