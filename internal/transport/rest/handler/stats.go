package handler

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/godilite/survey-stats/internal/export"
	"github.com/godilite/survey-stats/internal/service"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// StatsService is what the REST handlers need from the stats layer.
type StatsService interface {
	RatingStats(ctx context.Context, req service.StatsRequest) (service.RatingStats, error)
	GetRatio(ctx context.Context, teacherID string) (service.Ratio, error)
	GetRespondentTable(ctx context.Context, teacherID string) ([]service.RespondentRow, error)
}

// StatsHandler serves the /api/stats endpoints.
type StatsHandler struct {
	stats  StatsService
	logger *zap.Logger
}

func NewStatsHandler(stats StatsService, logger *zap.Logger) *StatsHandler {
	if stats == nil {
		panic("nil StatsService provided to NewStatsHandler")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatsHandler{stats: stats, logger: logger.Named("rest-handler")}
}

// param reads a request value from the header first, then the query string.
func param(r *http.Request, header, query string) string {
	if v := strings.TrimSpace(r.Header.Get(header)); v != "" {
		return v
	}
	return strings.TrimSpace(r.URL.Query().Get(query))
}

func teacherID(r *http.Request) string {
	return param(r, "teacher-id", "teacher_id")
}

func statsRequest(r *http.Request) service.StatsRequest {
	q := r.URL.Query()
	filter := q.Get("date")
	if filter == "" {
		filter = q.Get("date_filter")
	}
	return service.StatsRequest{
		TeacherID:  teacherID(r),
		ChartType:  param(r, "type", "chart_type"),
		DateFilter: strings.TrimSpace(filter),
		StartDate:  strings.TrimSpace(q.Get("start_date")),
		EndDate:    strings.TrimSpace(q.Get("end_date")),
	}
}

// Rating handles GET /api/stats/rating
func (h *StatsHandler) Rating(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.RatingStats(r.Context(), statsRequest(r))
	if err != nil {
		writeServiceError(w, h.logger, "Rating", err)
		return
	}

	if stats.ChartType == service.PieChart {
		labels := stats.Labels
		if labels == nil {
			labels = []service.LabelShare{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"labels": labels})
		return
	}

	series := stats.Series
	if series == nil {
		series = []service.SeriesPoint{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"series": series})
}

// Users handles GET /api/stats/users
func (h *StatsHandler) Users(w http.ResponseWriter, r *http.Request) {
	ratio, err := h.stats.GetRatio(r.Context(), teacherID(r))
	if err != nil {
		writeServiceError(w, h.logger, "Users", err)
		return
	}
	writeJSON(w, http.StatusOK, ratio)
}

// UsersTable handles GET /api/stats/users/table
func (h *StatsHandler) UsersTable(w http.ResponseWriter, r *http.Request) {
	rows, err := h.stats.GetRespondentTable(r.Context(), teacherID(r))
	if err != nil {
		writeServiceError(w, h.logger, "UsersTable", err)
		return
	}
	if rows == nil {
		rows = []service.RespondentRow{}
	}
	writeJSON(w, http.StatusOK, rows)
}

// UsersTableExport handles GET /api/stats/users/table.xlsx
func (h *StatsHandler) UsersTableExport(w http.ResponseWriter, r *http.Request) {
	id := teacherID(r)
	rows, err := h.stats.GetRespondentTable(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, "UsersTableExport", err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteRespondentTable(&buf, rows); err != nil {
		h.logger.Error("export respondent table", zap.String("teacher_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="respondents-%s.xlsx"`, id))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Warn("write export body", zap.Error(err))
	}
}
