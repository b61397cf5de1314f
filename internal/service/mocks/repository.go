package mocks

import (
	"context"
	"errors"

	"github.com/godilite/survey-stats/internal/repository/models"
)

// MockResponseRepository is a mock implementation of the ResponseRepository interface
// for testing the service layer.
type MockResponseRepository struct {
	TeacherExistsFunc          func(ctx context.Context, teacherID int64) (bool, error)
	FetchResponsesFunc         func(ctx context.Context, teacherID int64) ([]models.Response, error)
	RespondentDisplayNamesFunc func(ctx context.Context, ids []int64) (map[int64]string, error)
}

// TeacherExists implements the ResponseRepository interface
func (m *MockResponseRepository) TeacherExists(ctx context.Context, teacherID int64) (bool, error) {
	if m.TeacherExistsFunc != nil {
		return m.TeacherExistsFunc(ctx, teacherID)
	}
	return false, errors.New("TeacherExistsFunc not implemented")
}

// FetchResponses implements the ResponseRepository interface
func (m *MockResponseRepository) FetchResponses(ctx context.Context, teacherID int64) ([]models.Response, error) {
	if m.FetchResponsesFunc != nil {
		return m.FetchResponsesFunc(ctx, teacherID)
	}
	return nil, errors.New("FetchResponsesFunc not implemented")
}

// RespondentDisplayNames implements the ResponseRepository interface
func (m *MockResponseRepository) RespondentDisplayNames(ctx context.Context, ids []int64) (map[int64]string, error) {
	if m.RespondentDisplayNamesFunc != nil {
		return m.RespondentDisplayNamesFunc(ctx, ids)
	}
	return nil, errors.New("RespondentDisplayNamesFunc not implemented")
}
