package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/fortuna/augur/internal/cache"
	"github.com/fortuna/augur/internal/feature"
	"github.com/fortuna/augur/internal/service"
	"github.com/fortuna/augur/internal/store"
)

// Handler contains dependencies for HTTP handlers
type Handler struct {
	db      *store.Database
	models  *service.ModelService
	history *service.HistoryStore
	teams   *service.TeamService
	cache   *cache.RedisCache
}

// NewHandler creates a new handler. redisCache may be nil to disable caching.
func NewHandler(db *store.Database, models *service.ModelService, history *service.HistoryStore, redisCache *cache.RedisCache) *Handler {
	return &Handler{
		db:      db,
		models:  models,
		history: history,
		teams:   service.NewTeamService(db),
		cache:   redisCache,
	}
}

// predictions builds a pipeline around whatever model is currently active.
func (h *Handler) predictions() *service.PredictionService {
	return service.NewPredictionService(h.history, h.history, h.models.Current(), feature.DefaultWindowSize)
}

// HealthCheck handles health check requests
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{
		"status":  "healthy",
		"service": "augur",
		"version": "1.0.0",
	}

	if err := h.db.HealthCheck(); err != nil {
		status["status"] = "degraded"
		status["database"] = err.Error()
	}
	if h.cache != nil {
		if err := h.cache.HealthCheck(r.Context()); err != nil {
			status["status"] = "degraded"
			status["cache"] = err.Error()
		}
	}

	respondJSON(w, http.StatusOK, status)
}

// GetTeams returns every active franchise
func (h *Handler) GetTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.teams.GetAll(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch teams", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"teams": teams,
		"count": len(teams),
	})
}

// GetTeamForm returns a team's rolling-window stats as of a date
func (h *Handler) GetTeamForm(w http.ResponseWriter, r *http.Request) {
	team, err := h.teams.Resolve(r.Context(), mux.Vars(r)["team"])
	if err != nil {
		respondError(w, http.StatusNotFound, "Unknown team", err)
		return
	}

	asOf, err := parseDateParam(r, "date", time.Now())
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	windowSize := feature.DefaultWindowSize
	if ws := r.URL.Query().Get("window"); ws != "" {
		if n, err := strconv.Atoi(ws); err == nil && n > 0 && n <= 20 {
			windowSize = n
		}
	}

	if h.cache != nil && windowSize == feature.DefaultWindowSize {
		if cached, err := h.cache.GetForm(r.Context(), team.Abbreviation, asOf); err == nil && cached != nil {
			respondJSON(w, http.StatusOK, cached)
			return
		}
	}

	games, err := h.history.TeamHistory(r.Context(), team.Abbreviation, asOf, 20)
	if err != nil {
		respondError(w, http.StatusBadGateway, "Failed to load game history", err)
		return
	}

	form, err := feature.ComputeWindowStats(team.Abbreviation, games, asOf, windowSize)
	if err != nil {
		if errors.Is(err, feature.ErrInsufficientHistory) {
			respondError(w, http.StatusUnprocessableEntity, "Insufficient history", err)
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to compute form", err)
		return
	}

	if h.cache != nil && windowSize == feature.DefaultWindowSize {
		_ = h.cache.SetForm(r.Context(), asOf, form)
	}

	respondJSON(w, http.StatusOK, form)
}

// GetTeamSchedule returns a team's upcoming games
func (h *Handler) GetTeamSchedule(w http.ResponseWriter, r *http.Request) {
	team, err := h.teams.Resolve(r.Context(), mux.Vars(r)["team"])
	if err != nil {
		respondError(w, http.StatusNotFound, "Unknown team", err)
		return
	}

	limit := 10
	if ls := r.URL.Query().Get("limit"); ls != "" {
		if n, err := strconv.Atoi(ls); err == nil && n > 0 && n <= 82 {
			limit = n
		}
	}

	matchups, err := h.history.UpcomingGames(r.Context(), team.Abbreviation, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch schedule", err)
		return
	}

	games := service.UpcomingView(team.Abbreviation, matchups)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"team":  team.Abbreviation,
		"games": games,
		"count": len(games),
	})
}

type predictRequest struct {
	HomeTeam    string `json:"home_team"`
	VisitorTeam string `json:"visitor_team"`
	GameDate    string `json:"game_date"`
}

// PredictMatchup handles POST /api/v1/predict
func (h *Handler) PredictMatchup(w http.ResponseWriter, r *http.Request) {
	var req predictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.HomeTeam == "" || req.VisitorTeam == "" {
		respondError(w, http.StatusBadRequest, "home_team and visitor_team are required", nil)
		return
	}

	home, err := h.teams.Resolve(r.Context(), req.HomeTeam)
	if err != nil {
		respondError(w, http.StatusNotFound, "Unknown home team", err)
		return
	}
	visitor, err := h.teams.Resolve(r.Context(), req.VisitorTeam)
	if err != nil {
		respondError(w, http.StatusNotFound, "Unknown visitor team", err)
		return
	}

	gameDate := time.Now()
	if req.GameDate != "" {
		gameDate, err = time.Parse("2006-01-02", req.GameDate)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid game_date format (use YYYY-MM-DD)", err)
			return
		}
	}

	if h.cache != nil {
		if cached, err := h.cache.GetPrediction(r.Context(), home.Abbreviation, visitor.Abbreviation, gameDate); err == nil && cached != nil {
			respondJSON(w, http.StatusOK, cached)
			return
		}
	}

	result, err := h.predictions().PredictMatchup(r.Context(), home.Abbreviation, visitor.Abbreviation, gameDate)
	if err != nil {
		switch {
		case errors.Is(err, feature.ErrInsufficientHistory):
			respondError(w, http.StatusUnprocessableEntity, "Insufficient history", err)
		case errors.Is(err, service.ErrDataUnavailable):
			respondError(w, http.StatusBadGateway, "Game data unavailable", err)
		default:
			respondError(w, http.StatusInternalServerError, "Prediction failed", err)
		}
		return
	}

	if h.cache != nil {
		_ = h.cache.SetPrediction(r.Context(), home.Abbreviation, visitor.Abbreviation, gameDate, result)
	}

	respondJSON(w, http.StatusOK, result)
}

// GetUpcomingPredictions handles GET /api/v1/predictions/upcoming
func (h *Handler) GetUpcomingPredictions(w http.ResponseWriter, r *http.Request) {
	days := 1
	if ds := r.URL.Query().Get("days"); ds != "" {
		if n, err := strconv.Atoi(ds); err == nil && n > 0 && n <= 14 {
			days = n
		}
	}

	from := time.Now().Truncate(24 * time.Hour)
	matchups, err := h.history.ScheduledBetween(r.Context(), from, from.AddDate(0, 0, days))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch scheduled games", err)
		return
	}

	predictions := h.predictions().PredictBatch(r.Context(), matchups)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"days":        days,
		"predictions": predictions,
		"count":       len(predictions),
	})
}

// GetModelInfo returns metadata about the active predictor
func (h *Handler) GetModelInfo(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.models.Info())
}

func parseDateParam(r *http.Request, name string, fallback time.Time) (time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	return time.Parse("2006-01-02", raw)
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes an error response
func respondError(w http.ResponseWriter, status int, message string, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]interface{}{
		"error":  message,
		"status": status,
	}

	if err != nil {
		response["details"] = err.Error()
	}

	json.NewEncoder(w).Encode(response)
}
