package rest

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/fortuna/augur/internal/jobs"
)

// JobsHandler proxies API calls to the jobs service.
type JobsHandler struct {
	service *jobs.Service
}

// NewJobsHandler wires the REST layer to the jobs service.
func NewJobsHandler(service *jobs.Service) *JobsHandler {
	return &JobsHandler{service: service}
}

// HandleEnqueue handles POST /api/v1/jobs
func (h *JobsHandler) HandleEnqueue(w http.ResponseWriter, r *http.Request) {
	var req jobs.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	h.enqueue(w, r, req)
}

// HandleTrain handles POST /api/v1/model/train
func (h *JobsHandler) HandleTrain(w http.ResponseWriter, r *http.Request) {
	var req jobs.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	req.Type = jobs.JobTypeTrain

	h.enqueue(w, r, req)
}

// HandleEvaluate handles POST /api/v1/model/evaluate
func (h *JobsHandler) HandleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req jobs.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	req.Type = jobs.JobTypeBacktest

	h.enqueue(w, r, req)
}

func (h *JobsHandler) enqueue(w http.ResponseWriter, r *http.Request, req jobs.Request) {
	job, err := h.service.Enqueue(r.Context(), req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Failed to enqueue job", err)
		return
	}

	respondJSON(w, http.StatusAccepted, map[string]interface{}{
		"job": jobPayload(job),
	})
}

// HandleGetJob handles GET /api/v1/jobs/{jobID}
func (h *JobsHandler) HandleGetJob(w http.ResponseWriter, r *http.Request) {
	job, err := h.service.GetJob(r.Context(), mux.Vars(r)["jobID"])
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch job", err)
		return
	}
	if job == nil {
		respondError(w, http.StatusNotFound, "Job not found", nil)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"job": jobPayload(job),
	})
}

// HandleStatus handles GET /api/v1/jobs/status
func (h *JobsHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.GetStatus(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch status", err)
		return
	}

	respondJSON(w, http.StatusOK, buildStatusPayload(summary))
}

func buildStatusPayload(summary *jobs.StatusSummary) map[string]interface{} {
	response := map[string]interface{}{
		"status":  "idle",
		"message": "No active jobs",
		"history": []map[string]interface{}{},
	}

	if summary.ActiveJob != nil {
		response["status"] = summary.ActiveJob.Status
		if summary.ActiveJob.StatusMessage.Valid {
			response["message"] = summary.ActiveJob.StatusMessage.String
		}
		response["active_job"] = jobPayload(summary.ActiveJob)
	}

	history := make([]map[string]interface{}, 0, len(summary.History))
	for _, job := range summary.History {
		history = append(history, jobPayload(job))
	}

	response["history"] = history
	return response
}

func jobPayload(job *jobs.Job) map[string]interface{} {
	if job == nil {
		return nil
	}

	payload := map[string]interface{}{
		"job_id":           job.JobID,
		"job_type":         job.JobType,
		"status":           job.Status,
		"progress_current": job.ProgressCurrent,
		"progress_total":   job.ProgressTotal,
		"created_at":       job.CreatedAt,
		"updated_at":       job.UpdatedAt,
	}

	if job.StatusMessage.Valid {
		payload["status_message"] = job.StatusMessage.String
	}
	if job.Model.Valid {
		payload["model"] = job.Model.String
	}
	if job.Season.Valid {
		payload["season"] = job.Season.String
	}
	if len(job.Seasons) > 0 {
		payload["seasons"] = []string(job.Seasons)
	}
	if job.TrainFraction.Valid {
		payload["train_fraction"] = job.TrainFraction.Float64
	}
	if job.Accuracy.Valid {
		payload["accuracy"] = job.Accuracy.Float64
	}
	if job.LogLoss.Valid {
		payload["log_loss"] = job.LogLoss.Float64
	}
	if job.TrainGames.Valid {
		payload["train_games"] = job.TrainGames.Int32
	}
	if job.TestGames.Valid {
		payload["test_games"] = job.TestGames.Int32
	}
	if job.StartedAt.Valid {
		payload["started_at"] = job.StartedAt.Time
	}
	if job.CompletedAt.Valid {
		payload["completed_at"] = job.CompletedAt.Time
	}
	if job.LastError.Valid {
		payload["last_error"] = job.LastError.String
	}

	return payload
}
