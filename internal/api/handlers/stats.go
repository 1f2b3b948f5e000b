package handlers

import (
	"net/http"

	"github.com/ynamazon/ynamazon-go/internal/api/dto"
	"github.com/ynamazon/ynamazon-go/internal/infrastructure/storage"
)

// StatsHandler handles statistics HTTP requests.
type StatsHandler struct {
	*Base
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(repo storage.Repository) *StatsHandler {
	return &StatsHandler{Base: NewBase(repo)}
}

// Get handles GET /api/stats - returns aggregate processing statistics.
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	stats, err := h.repo.GetStats()
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	h.WriteJSON(w, http.StatusOK, dto.StatsResponse{
		TotalProcessed: stats.TotalProcessed,
		UpdatedCount:   stats.UpdatedCount,
		NoMatchCount:   stats.NoMatchCount,
		TruncatedCount: stats.TruncatedCount,
		ErrorCount:     stats.ErrorCount,
	})
}
