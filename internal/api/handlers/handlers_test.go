package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ynamazon/ynamazon-go/internal/api/dto"
	"github.com/ynamazon/ynamazon-go/internal/api/handlers"
	"github.com/ynamazon/ynamazon-go/internal/infrastructure/storage"
)

func seedRecord(t *testing.T, repo storage.Repository, runID, ledgerID, status string) {
	t.Helper()
	require.NoError(t, repo.SaveRecord(&storage.MemoRecord{
		RunID:            runID,
		LedgerID:         ledgerID,
		LedgerDate:       time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		AmountMilliunits: -23450,
		OrderNumber:      "111-222",
		Memo:             "- Widget\nOrder #111-222",
		MemoLength:       24,
		Status:           status,
		ProcessedAt:      time.Now().UTC(),
	}))
}

// withURLParam injects a chi route parameter for direct handler calls.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestRecordsHandler_List(t *testing.T) {
	t.Run("returns empty list when no records", func(t *testing.T) {
		repo := storage.NewMockRepository()
		handler := handlers.NewRecordsHandler(repo)

		req := httptest.NewRequest(http.MethodGet, "/api/records", nil)
		rec := httptest.NewRecorder()

		handler.List(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var response dto.RecordListResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		assert.Empty(t, response.Records)
		assert.Equal(t, 0, response.TotalCount)
	})

	t.Run("filters by status", func(t *testing.T) {
		repo := storage.NewMockRepository()
		seedRecord(t, repo, "run-1", "a", storage.StatusUpdated)
		seedRecord(t, repo, "run-1", "b", storage.StatusNoMatch)
		handler := handlers.NewRecordsHandler(repo)

		req := httptest.NewRequest(http.MethodGet, "/api/records?status=updated", nil)
		rec := httptest.NewRecorder()

		handler.List(rec, req)

		var response dto.RecordListResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		require.Len(t, response.Records, 1)
		assert.Equal(t, "a", response.Records[0].LedgerID)
		assert.Equal(t, "111-222", response.Records[0].OrderNumber)
	})

	t.Run("honors limit parameter", func(t *testing.T) {
		repo := storage.NewMockRepository()
		for _, id := range []string{"a", "b", "c"} {
			seedRecord(t, repo, "run-1", id, storage.StatusUpdated)
		}
		handler := handlers.NewRecordsHandler(repo)

		req := httptest.NewRequest(http.MethodGet, "/api/records?limit=2", nil)
		rec := httptest.NewRecorder()

		handler.List(rec, req)

		var response dto.RecordListResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		assert.Len(t, response.Records, 2)
		assert.Equal(t, 3, response.TotalCount)
	})
}

func TestRecordsHandler_Get(t *testing.T) {
	t.Run("returns record by ledger ID", func(t *testing.T) {
		repo := storage.NewMockRepository()
		seedRecord(t, repo, "run-1", "ledger-abc", storage.StatusUpdated)
		handler := handlers.NewRecordsHandler(repo)

		req := httptest.NewRequest(http.MethodGet, "/api/records/ledger-abc", nil)
		req = withURLParam(req, "ledgerID", "ledger-abc")
		rec := httptest.NewRecorder()

		handler.Get(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var response dto.RecordResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		assert.Equal(t, "ledger-abc", response.LedgerID)
		assert.Equal(t, "- Widget\nOrder #111-222", response.Memo)
	})

	t.Run("returns 404 for unknown ledger ID", func(t *testing.T) {
		repo := storage.NewMockRepository()
		handler := handlers.NewRecordsHandler(repo)

		req := httptest.NewRequest(http.MethodGet, "/api/records/nope", nil)
		req = withURLParam(req, "ledgerID", "nope")
		rec := httptest.NewRecorder()

		handler.Get(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)

		var apiErr dto.APIError
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&apiErr))
		assert.Equal(t, dto.ErrCodeNotFound, apiErr.Code)
	})
}

func TestRunsHandler(t *testing.T) {
	t.Run("lists runs newest first", func(t *testing.T) {
		repo := storage.NewMockRepository()
		require.NoError(t, repo.SaveRun(&storage.Run{
			ID:        "run-old",
			StartedAt: time.Now().Add(-time.Hour).UTC(),
		}))
		finished := time.Now().UTC()
		require.NoError(t, repo.SaveRun(&storage.Run{
			ID:           "run-new",
			StartedAt:    time.Now().UTC(),
			FinishedAt:   &finished,
			EntryCount:   3,
			UpdatedCount: 2,
		}))
		handler := handlers.NewRunsHandler(repo)

		req := httptest.NewRequest(http.MethodGet, "/api/runs", nil)
		rec := httptest.NewRecorder()

		handler.List(rec, req)

		var response dto.RunListResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		require.Equal(t, 2, response.Count)
		assert.Equal(t, "run-new", response.Runs[0].ID)
		assert.NotEmpty(t, response.Runs[0].FinishedAt)
		assert.Empty(t, response.Runs[1].FinishedAt)
	})

	t.Run("gets run by ID", func(t *testing.T) {
		repo := storage.NewMockRepository()
		require.NoError(t, repo.SaveRun(&storage.Run{
			ID:        "run-1",
			StartedAt: time.Now().UTC(),
			DryRun:    true,
		}))
		handler := handlers.NewRunsHandler(repo)

		req := httptest.NewRequest(http.MethodGet, "/api/runs/run-1", nil)
		req = withURLParam(req, "id", "run-1")
		rec := httptest.NewRecorder()

		handler.Get(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var response dto.RunResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		assert.True(t, response.DryRun)
	})

	t.Run("returns 404 for unknown run", func(t *testing.T) {
		repo := storage.NewMockRepository()
		handler := handlers.NewRunsHandler(repo)

		req := httptest.NewRequest(http.MethodGet, "/api/runs/run-x", nil)
		req = withURLParam(req, "id", "run-x")
		rec := httptest.NewRecorder()

		handler.Get(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestStatsHandler(t *testing.T) {
	repo := storage.NewMockRepository()
	seedRecord(t, repo, "run-1", "a", storage.StatusUpdated)
	seedRecord(t, repo, "run-1", "b", storage.StatusNoMatch)
	seedRecord(t, repo, "run-1", "c", storage.StatusFailed)
	handler := handlers.NewStatsHandler(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response dto.StatsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Equal(t, 3, response.TotalProcessed)
	assert.Equal(t, 1, response.UpdatedCount)
	assert.Equal(t, 1, response.NoMatchCount)
	assert.Equal(t, 1, response.ErrorCount)
}

func TestHealthHandler(t *testing.T) {
	handler := handlers.NewHealthHandler()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response dto.HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Equal(t, "ok", response.Status)
}
