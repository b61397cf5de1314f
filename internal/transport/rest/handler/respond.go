package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/godilite/survey-stats/internal/service"
	"go.uber.org/zap"
)

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeServiceError maps service failures to HTTP statuses.
func writeServiceError(w http.ResponseWriter, logger *zap.Logger, op string, err error) {
	switch {
	case errors.Is(err, service.ErrMissingParameter),
		errors.Is(err, service.ErrInvalidChartType),
		errors.Is(err, service.ErrInvalidDateFilter),
		errors.Is(err, service.ErrMalformedDateRange):
		logger.Info("invalid request", zap.String("op", op), zap.Error(err))
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrTeacherNotFound):
		logger.Info("not found", zap.String("op", op), zap.Error(err))
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrStorageFailure):
		logger.Error("storage failure", zap.String("op", op), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "database error")
	default:
		logger.Error("unexpected error", zap.String("op", op), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
