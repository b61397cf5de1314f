package mocks

import (
	"context"
	"errors"

	"github.com/godilite/survey-stats/internal/service"
)

// MockStatsService is a mock implementation of the Stats interface
// for testing the transport layers. It uses function-based mocking for flexibility.
type MockStatsService struct {
	RatingStatsFunc        func(ctx context.Context, req service.StatsRequest) (service.RatingStats, error)
	GetRatioFunc           func(ctx context.Context, teacherID string) (service.Ratio, error)
	GetRespondentTableFunc func(ctx context.Context, teacherID string) ([]service.RespondentRow, error)
}

// RatingStats implements the Stats interface
func (m *MockStatsService) RatingStats(ctx context.Context, req service.StatsRequest) (service.RatingStats, error) {
	if m.RatingStatsFunc != nil {
		return m.RatingStatsFunc(ctx, req)
	}
	return service.RatingStats{}, errors.New("RatingStatsFunc not implemented")
}

// GetRatio implements the Stats interface
func (m *MockStatsService) GetRatio(ctx context.Context, teacherID string) (service.Ratio, error) {
	if m.GetRatioFunc != nil {
		return m.GetRatioFunc(ctx, teacherID)
	}
	return service.Ratio{}, errors.New("GetRatioFunc not implemented")
}

// GetRespondentTable implements the Stats interface
func (m *MockStatsService) GetRespondentTable(ctx context.Context, teacherID string) ([]service.RespondentRow, error) {
	if m.GetRespondentTableFunc != nil {
		return m.GetRespondentTableFunc(ctx, teacherID)
	}
	return nil, errors.New("GetRespondentTableFunc not implemented")
}
