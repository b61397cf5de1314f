package grpc

import (
	"context"

	"github.com/godilite/survey-stats/internal/service"
)

// StatsService is what the handlers need from the stats layer.
type StatsService interface {
	RatingStats(ctx context.Context, req service.StatsRequest) (service.RatingStats, error)
	GetRatio(ctx context.Context, teacherID string) (service.Ratio, error)
	GetRespondentTable(ctx context.Context, teacherID string) ([]service.RespondentRow, error)
}
