package grpc

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/godilite/survey-stats/internal/service"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	defaultGRPCTimeout = 10 * time.Second
)

type GRPCHandlers struct {
	stats  StatsService
	logger *zap.Logger
}

var _ SurveyStatsServer = (*GRPCHandlers)(nil)

// NewGRPCHandlers initializes the gRPC handlers.
func NewGRPCHandlers(stats StatsService, logger *zap.Logger) *GRPCHandlers {
	if stats == nil {
		panic("nil StatsService provided to NewGRPCHandlers")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GRPCHandlers{
		stats:  stats,
		logger: logger.Named("grpc-handler"),
	}
}

// stringField reads a request field as text. Numbers are accepted for ids.
func stringField(req *structpb.Struct, name string) string {
	v, ok := req.GetFields()[name]
	if !ok {
		return ""
	}
	switch kind := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		return kind.StringValue
	case *structpb.Value_NumberValue:
		return strconv.FormatFloat(kind.NumberValue, 'f', -1, 64)
	default:
		return ""
	}
}

func parseRequest(req *structpb.Struct) service.StatsRequest {
	return service.StatsRequest{
		TeacherID:  stringField(req, "teacher_id"),
		ChartType:  stringField(req, "chart_type"),
		DateFilter: stringField(req, "date_filter"),
		StartDate:  stringField(req, "start_date"),
		EndDate:    stringField(req, "end_date"),
	}
}

func (s *GRPCHandlers) handleError(ctx context.Context, op string, err error) error {
	switch ctx.Err() {
	case context.Canceled:
		s.logger.Warn("request canceled", zap.String("op", op))
		return status.Error(codes.Canceled, "request canceled")
	case context.DeadlineExceeded:
		s.logger.Warn("request timeout", zap.String("op", op))
		return status.Error(codes.DeadlineExceeded, "request timed out")
	}

	switch {
	case errors.Is(err, service.ErrMissingParameter),
		errors.Is(err, service.ErrInvalidChartType),
		errors.Is(err, service.ErrInvalidDateFilter),
		errors.Is(err, service.ErrMalformedDateRange):
		s.logger.Info("invalid request", zap.String("op", op), zap.Error(err))
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, service.ErrTeacherNotFound):
		s.logger.Info("not found", zap.String("op", op), zap.Error(err))
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, service.ErrStorageFailure):
		s.logger.Error("storage failure", zap.String("op", op), zap.Error(err))
		return status.Error(codes.Internal, "database error")
	default:
		s.logger.Error("unexpected error", zap.String("op", op), zap.Error(err))
		return status.Errorf(codes.Internal, "%s failed: %v", op, err)
	}
}

func (s *GRPCHandlers) GetRatingStats(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	stats, err := s.stats.RatingStats(ctx, parseRequest(req))
	if err != nil {
		return nil, s.handleError(ctx, "GetRatingStats", err)
	}

	var body map[string]any
	if stats.ChartType == service.PieChart {
		body = map[string]any{"labels": labelsToList(stats.Labels)}
	} else {
		body = map[string]any{"series": seriesToList(stats.Series)}
	}
	return toStruct(body)
}

func (s *GRPCHandlers) GetUserStats(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	ratio, err := s.stats.GetRatio(ctx, stringField(req, "teacher_id"))
	if err != nil {
		return nil, s.handleError(ctx, "GetUserStats", err)
	}

	return toStruct(map[string]any{
		"anonymous_percentage":  ratio.AnonymousPercentage,
		"identified_percentage": ratio.IdentifiedPercentage,
	})
}

func (s *GRPCHandlers) GetUserTableStats(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	rows, err := s.stats.GetRespondentTable(ctx, stringField(req, "teacher_id"))
	if err != nil {
		return nil, s.handleError(ctx, "GetUserTableStats", err)
	}

	return toStruct(map[string]any{"rows": rowsToList(rows)})
}

func toStruct(body map[string]any) (*structpb.Struct, error) {
	out, err := structpb.NewStruct(body)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return out, nil
}

func labelsToList(labels []service.LabelShare) []any {
	out := make([]any, len(labels))
	for i, l := range labels {
		out[i] = map[string]any{
			"name":       l.Name,
			"percentage": l.Percentage,
		}
	}
	return out
}

func seriesToList(series []service.SeriesPoint) []any {
	out := make([]any, len(series))
	for i, p := range series {
		out[i] = map[string]any{
			"name":     p.Name,
			"quantity": p.Quantity,
			"date":     p.Date,
		}
	}
	return out
}

func rowsToList(rows []service.RespondentRow) []any {
	out := make([]any, len(rows))
	for i, r := range rows {
		out[i] = map[string]any{
			"respondent":     r.Respondent,
			"average_rating": r.AverageRating,
			"timestamp":      r.Timestamp,
		}
	}
	return out
}
