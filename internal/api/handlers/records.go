package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ynamazon/ynamazon-go/internal/api/dto"
	"github.com/ynamazon/ynamazon-go/internal/infrastructure/storage"
)

// RecordsHandler handles memo record HTTP requests.
type RecordsHandler struct {
	*Base
}

// NewRecordsHandler creates a new records handler.
func NewRecordsHandler(repo storage.Repository) *RecordsHandler {
	return &RecordsHandler{Base: NewBase(repo)}
}

// List handles GET /api/records - returns processed ledger entries.
// Supports run_id, status, days, limit and offset query parameters.
func (h *RecordsHandler) List(w http.ResponseWriter, r *http.Request) {
	filters := storage.RecordFilters{
		RunID:    r.URL.Query().Get("run_id"),
		Status:   r.URL.Query().Get("status"),
		DaysBack: ParseIntParam(r, "days", 0),
		Limit:    ParseIntParam(r, "limit", 50),
		Offset:   ParseIntParam(r, "offset", 0),
	}

	result, err := h.repo.ListRecords(filters)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	response := dto.RecordListResponse{
		Records:    make([]dto.RecordResponse, 0, len(result.Records)),
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	}
	for _, record := range result.Records {
		response.Records = append(response.Records, toRecordResponse(record))
	}

	h.WriteJSON(w, http.StatusOK, response)
}

// Get handles GET /api/records/{ledgerID} - returns the latest record
// for one ledger entry.
func (h *RecordsHandler) Get(w http.ResponseWriter, r *http.Request) {
	ledgerID := chi.URLParam(r, "ledgerID")
	if ledgerID == "" {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("ledger ID is required"))
		return
	}

	record, err := h.repo.GetRecord(ledgerID)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}
	if record == nil {
		h.WriteError(w, http.StatusNotFound, dto.NotFoundError("record"))
		return
	}

	h.WriteJSON(w, http.StatusOK, toRecordResponse(record))
}

// toRecordResponse converts a storage MemoRecord to an API response.
func toRecordResponse(record *storage.MemoRecord) dto.RecordResponse {
	return dto.RecordResponse{
		ID:               record.ID,
		RunID:            record.RunID,
		LedgerID:         record.LedgerID,
		LedgerDate:       record.LedgerDate.Format("2006-01-02"),
		AmountMilliunits: record.AmountMilliunits,
		OrderNumber:      record.OrderNumber,
		OrderTotal:       record.OrderTotal,
		Memo:             record.Memo,
		MemoLength:       record.MemoLength,
		Truncated:        record.Truncated,
		AISummarized:     record.AISummarized,
		Status:           record.Status,
		ErrorMessage:     record.ErrorMessage,
		ProcessedAt:      record.ProcessedAt.UTC().Format(time.RFC3339),
	}
}
