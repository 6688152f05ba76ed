package rest

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/fortuna/augur/internal/cache"
	"github.com/fortuna/augur/internal/jobs"
	"github.com/fortuna/augur/internal/service"
	"github.com/fortuna/augur/internal/store"
)

// Server represents the REST API server
type Server struct {
	port    string
	server  *http.Server
	handler *Handler
}

// NewServer creates a new REST API server. jobsSvc and redisCache may be nil;
// the corresponding routes degrade gracefully.
func NewServer(port string, db *store.Database, models *service.ModelService, history *service.HistoryStore, redisCache *cache.RedisCache, jobsSvc *jobs.Service) *Server {
	handler := NewHandler(db, models, history, redisCache)

	router := mux.NewRouter()

	// Apply middleware
	router.Use(RecoveryMiddleware)
	router.Use(LoggingMiddleware)
	router.Use(CORSMiddleware)

	// Health check
	router.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	// API v1 routes
	api := router.PathPrefix("/api/v1").Subrouter()

	// Teams
	api.HandleFunc("/teams", handler.GetTeams).Methods("GET")
	api.HandleFunc("/teams/{team}/form", handler.GetTeamForm).Methods("GET")
	api.HandleFunc("/teams/{team}/schedule", handler.GetTeamSchedule).Methods("GET")

	// Predictions
	api.HandleFunc("/predict", handler.PredictMatchup).Methods("POST")
	api.HandleFunc("/predictions/upcoming", handler.GetUpcomingPredictions).Methods("GET")

	// Model
	api.HandleFunc("/model", handler.GetModelInfo).Methods("GET")

	// Jobs
	if jobsSvc != nil {
		jobsHandler := NewJobsHandler(jobsSvc)
		api.HandleFunc("/jobs", jobsHandler.HandleEnqueue).Methods("POST")
		api.HandleFunc("/jobs/status", jobsHandler.HandleStatus).Methods("GET")
		api.HandleFunc("/jobs/{jobID}", jobsHandler.HandleGetJob).Methods("GET")
		api.HandleFunc("/model/train", jobsHandler.HandleTrain).Methods("POST")
		api.HandleFunc("/model/evaluate", jobsHandler.HandleEvaluate).Methods("POST")
	}

	return &Server{
		port:    port,
		handler: handler,
		server: &http.Server{
			Addr:    fmt.Sprintf(":%s", port),
			Handler: router,
		},
	}
}

// Start starts the REST API server
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
