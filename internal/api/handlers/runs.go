package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ynamazon/ynamazon-go/internal/api/dto"
	"github.com/ynamazon/ynamazon-go/internal/infrastructure/storage"
)

// RunsHandler handles reconciliation run HTTP requests.
type RunsHandler struct {
	*Base
}

// NewRunsHandler creates a new runs handler.
func NewRunsHandler(repo storage.Repository) *RunsHandler {
	return &RunsHandler{Base: NewBase(repo)}
}

// List handles GET /api/runs - returns recent runs, newest first.
func (h *RunsHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := ParseIntParam(r, "limit", 20)

	runs, err := h.repo.ListRuns(limit)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	response := dto.RunListResponse{
		Runs:  make([]dto.RunResponse, 0, len(runs)),
		Count: len(runs),
	}
	for _, run := range runs {
		response.Runs = append(response.Runs, toRunResponse(run))
	}

	h.WriteJSON(w, http.StatusOK, response)
}

// Get handles GET /api/runs/{id} - returns a single run by ID.
func (h *RunsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("run ID is required"))
		return
	}

	run, err := h.repo.GetRun(id)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}
	if run == nil {
		h.WriteError(w, http.StatusNotFound, dto.NotFoundError("run"))
		return
	}

	h.WriteJSON(w, http.StatusOK, toRunResponse(run))
}

// toRunResponse converts a storage Run to an API response.
func toRunResponse(run *storage.Run) dto.RunResponse {
	response := dto.RunResponse{
		ID:           run.ID,
		StartedAt:    run.StartedAt.UTC().Format(time.RFC3339),
		DryRun:       run.DryRun,
		EntryCount:   run.EntryCount,
		UpdatedCount: run.UpdatedCount,
		SkippedCount: run.SkippedCount,
		ErrorCount:   run.ErrorCount,
	}
	if run.FinishedAt != nil {
		response.FinishedAt = run.FinishedAt.UTC().Format(time.RFC3339)
	}
	return response
}
