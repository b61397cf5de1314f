package service

import (
	"context"

	"github.com/godilite/survey-stats/internal/repository/models"
)

// ResponseRepository is the data-access collaborator the stats engine reads from.
type ResponseRepository interface {
	TeacherExists(ctx context.Context, teacherID int64) (bool, error)
	FetchResponses(ctx context.Context, teacherID int64) ([]models.Response, error)
	RespondentDisplayNames(ctx context.Context, ids []int64) (map[int64]string, error)
}
