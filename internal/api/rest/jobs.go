package rest

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/fortuna/gridiron/internal/backfill"
)

// JobsHandler proxies API calls to the scrape job service.
type JobsHandler struct {
	service *backfill.Service
}

// NewJobsHandler wires the REST layer to the scrape job service.
func NewJobsHandler(service *backfill.Service) *JobsHandler {
	return &JobsHandler{service: service}
}

// HandleEnqueue handles POST /api/v1/scrape
func (h *JobsHandler) HandleEnqueue(w http.ResponseWriter, r *http.Request) {
	var req backfill.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	job, err := h.service.Enqueue(r.Context(), req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Failed to enqueue scrape job", err)
		return
	}

	respondJSON(w, http.StatusAccepted, map[string]interface{}{"job": job})
}

// HandleStatus handles GET /api/v1/scrape/status
func (h *JobsHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.GetStatus(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch status", err)
		return
	}

	response := map[string]interface{}{
		"status":  "idle",
		"message": "No active jobs",
		"history": summary.History,
	}
	if summary.ActiveJob != nil {
		response["status"] = summary.ActiveJob.Status
		response["message"] = summary.ActiveJob.StatusMessage
		response["active_job"] = summary.ActiveJob
	}

	respondJSON(w, http.StatusOK, response)
}

// HandleGetJob handles GET /api/v1/scrape/jobs/{jobID}
func (h *JobsHandler) HandleGetJob(w http.ResponseWriter, r *http.Request) {
	jobID := mux.Vars(r)["jobID"]

	job, err := h.service.GetJob(r.Context(), jobID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch job", err)
		return
	}
	if job == nil {
		respondError(w, http.StatusNotFound, "Job not found", nil)
		return
	}

	respondJSON(w, http.StatusOK, job)
}
