package rest

import (
	"encoding/json"
	"net/http"

	"github.com/godilite/survey-stats/internal/transport/rest/handler"
	"github.com/godilite/survey-stats/internal/transport/rest/middleware"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Container holds the dependencies of the router.
type Container struct {
	Stats     handler.StatsService
	Logger    *zap.Logger
	JWTSecret string
}

// NewRouter creates the HTTP API.
func NewRouter(c *Container) http.Handler {
	logger := c.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog(logger.Named("http")))

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods(http.MethodGet)

	statsHandler := handler.NewStatsHandler(c.Stats, logger)
	auth := middleware.NewAuth(c.JWTSecret)

	// Stats routes sit on the root router so a method mismatch is reported
	// as 405; mux subrouters report it as 404.
	staff := func(h http.HandlerFunc) http.Handler { return auth.RequireStaff(h) }

	r.Handle("/api/stats/rating", staff(statsHandler.Rating)).Methods(http.MethodGet)
	r.Handle("/api/stats/users", staff(statsHandler.Users)).Methods(http.MethodGet)
	r.Handle("/api/stats/users/table", staff(statsHandler.UsersTable)).Methods(http.MethodGet)
	r.Handle("/api/stats/users/table.xlsx", staff(statsHandler.UsersTableExport)).Methods(http.MethodGet)

	r.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)

	return r
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusMethodNotAllowed)
	json.NewEncoder(w).Encode(map[string]string{"error": "method not allowed"})
}
