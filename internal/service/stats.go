package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"
)

const (
	dbTimeout = 1 * time.Second
)

// ChartType selects the shape of a rating stats result.
type ChartType string

const (
	PieChart  ChartType = "pie_chart"
	LineChart ChartType = "line_chart"
	BarChart  ChartType = "bar_chart"
)

// ParseChartType validates a raw chart selector.
func ParseChartType(raw string) (ChartType, error) {
	switch ct := ChartType(raw); ct {
	case PieChart, LineChart, BarChart:
		return ct, nil
	default:
		return "", paramError("chart_type", raw, ErrInvalidChartType)
	}
}

// StatsService computes survey statistics for one teacher per call. It
// keeps no state between calls.
type StatsService struct {
	storage  ResponseRepository
	logger   *zap.Logger
	now      func() time.Time
	location *time.Location
}

type Option func(*StatsService)

// WithClock overrides the clock used to resolve preset windows.
func WithClock(now func() time.Time) Option {
	return func(s *StatsService) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLocation sets the zone for preset windows and rendered dates.
func WithLocation(loc *time.Location) Option {
	return func(s *StatsService) {
		if loc != nil {
			s.location = loc
		}
	}
}

// NewStatsService creates a new StatsService instance.
func NewStatsService(storage ResponseRepository, logger *zap.Logger, opts ...Option) *StatsService {
	if storage == nil {
		panic("storage must not be nil")
	}
	if logger == nil {
		l, _ := zap.NewProduction()
		logger = l
	}
	s := &StatsService{
		storage:  storage,
		logger:   logger,
		now:      time.Now,
		location: time.UTC,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RatingStats validates a chart request and runs the matching aggregator.
// The pie chart covers every response of the teacher; line and bar charts
// are restricted to the resolved window.
func (s *StatsService) RatingStats(ctx context.Context, req StatsRequest) (RatingStats, error) {
	if req.TeacherID == "" {
		return RatingStats{}, paramError("teacher_id", "", ErrMissingParameter)
	}
	if req.ChartType == "" {
		return RatingStats{}, paramError("chart_type", "", ErrMissingParameter)
	}
	chart, err := ParseChartType(req.ChartType)
	if err != nil {
		return RatingStats{}, err
	}

	if chart == PieChart {
		labels, err := s.GetDistribution(ctx, req.TeacherID)
		if err != nil {
			return RatingStats{}, err
		}
		return RatingStats{ChartType: chart, Labels: labels}, nil
	}

	series, err := s.GetTimeSeries(ctx, req)
	if err != nil {
		return RatingStats{}, err
	}
	return RatingStats{ChartType: chart, Series: series}, nil
}

// GetDistribution returns the percentage of every answer label over all
// responses of the teacher.
func (s *StatsService) GetDistribution(ctx context.Context, teacherID string) ([]LabelShare, error) {
	responses, id, err := s.teacherResponses(ctx, teacherID)
	if err != nil {
		return nil, err
	}

	labels := Distribution(responses)
	s.logger.Info("computed answer distribution",
		zap.Int64("teacher_id", id),
		zap.Int("responses", len(responses)),
		zap.Int("labels", len(labels)))
	return labels, nil
}

// GetTimeSeries counts answers per label and date inside the requested window.
func (s *StatsService) GetTimeSeries(ctx context.Context, req StatsRequest) ([]SeriesPoint, error) {
	if req.TeacherID == "" {
		return nil, paramError("teacher_id", "", ErrMissingParameter)
	}
	window, err := s.ResolveWindow(req)
	if err != nil {
		return nil, err
	}

	responses, id, err := s.teacherResponses(ctx, req.TeacherID)
	if err != nil {
		return nil, err
	}

	inWindow := FilterWindow(responses, window)
	series := TimeSeries(inWindow, s.location)
	s.logger.Info("computed answer time series",
		zap.Int64("teacher_id", id),
		zap.Time("start", window.Start),
		zap.Time("end", window.End),
		zap.Int("responses", len(inWindow)),
		zap.Int("points", len(series)))
	return series, nil
}

// GetRatio returns the anonymous and identified shares of the teacher's responses.
func (s *StatsService) GetRatio(ctx context.Context, teacherID string) (Ratio, error) {
	responses, id, err := s.teacherResponses(ctx, teacherID)
	if err != nil {
		return Ratio{}, err
	}

	ratio, err := AnonymityRatio(responses)
	if err != nil {
		s.logger.Info("no responses for teacher", zap.Int64("teacher_id", id))
		return Ratio{}, err
	}

	s.logger.Info("computed anonymity ratio",
		zap.Int64("teacher_id", id),
		zap.Int("responses", len(responses)),
		zap.Float64("anonymous_percentage", ratio.AnonymousPercentage))
	return ratio, nil
}

// GetRespondentTable returns one row per response with the respondent's
// name and the average rating of the scored answers.
func (s *StatsService) GetRespondentTable(ctx context.Context, teacherID string) ([]RespondentRow, error) {
	responses, id, err := s.teacherResponses(ctx, teacherID)
	if err != nil {
		return nil, err
	}

	names, err := s.displayNames(ctx, responses)
	if err != nil {
		return nil, err
	}

	rows := RespondentTable(responses, func(r Respondent) string {
		uid, ok := r.ID()
		if !ok {
			return AnonymousDisplayName
		}
		if name, ok := names[uid]; ok {
			return name
		}
		return UnknownDisplayName
	}, s.location)

	s.logger.Info("computed respondent table",
		zap.Int64("teacher_id", id),
		zap.Int("rows", len(rows)))
	return rows, nil
}

// ResolveWindow resolves the request's date selectors against the service clock.
func (s *StatsService) ResolveWindow(req StatsRequest) (Window, error) {
	return ResolveWindow(DateFilter(req.DateFilter), req.StartDate, req.EndDate, s.now().In(s.location))
}

func (s *StatsService) teacherResponses(ctx context.Context, rawID string) ([]Response, int64, error) {
	if rawID == "" {
		return nil, 0, paramError("teacher_id", "", ErrMissingParameter)
	}
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || id <= 0 {
		return nil, 0, paramError("teacher_id", rawID, ErrTeacherNotFound)
	}

	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	exists, err := s.storage.TeacherExists(dbCtx, id)
	if err != nil {
		s.logger.Error("failed to look up teacher", zap.Int64("teacher_id", id), zap.Error(err))
		return nil, id, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	if !exists {
		return nil, id, paramError("teacher_id", rawID, ErrTeacherNotFound)
	}

	rows, err := s.storage.FetchResponses(dbCtx, id)
	if err != nil {
		s.logger.Error("failed to fetch responses", zap.Int64("teacher_id", id), zap.Error(err))
		return nil, id, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	return responsesFromModels(rows), id, nil
}

func (s *StatsService) displayNames(ctx context.Context, responses []Response) (map[int64]string, error) {
	seen := make(map[int64]struct{})
	ids := make([]int64, 0)
	for _, r := range responses {
		uid, ok := r.Respondent.ID()
		if !ok {
			continue
		}
		if _, dup := seen[uid]; dup {
			continue
		}
		seen[uid] = struct{}{}
		ids = append(ids, uid)
	}
	if len(ids) == 0 {
		return map[int64]string{}, nil
	}

	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	names, err := s.storage.RespondentDisplayNames(dbCtx, ids)
	if err != nil {
		s.logger.Error("failed to resolve respondent names", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	return names, nil
}
