package rest

import (
	"context"
	"net/http"
	"strings"

	"github.com/heartmarshall/ntmanager-backend/internal/domain"
)

type batchService interface {
	Start(kind domain.BatchKind, targetID string, expectedCount int) string
	End(ctx context.Context, id string) bool
}

// BatchHandler lets clients that perform their own bulk writes group them
// into one notification.
type BatchHandler struct {
	batches batchService
}

// NewBatchHandler creates a BatchHandler.
func NewBatchHandler(batches batchService) *BatchHandler {
	return &BatchHandler{batches: batches}
}

type startBatchRequest struct {
	Kind          string `json:"kind"`
	TargetID      string `json:"targetId"`
	ExpectedCount int    `json:"expectedCount"`
}

// Start handles POST /api/batches.
func (h *BatchHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req startBatchRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var fields []fieldError
	kind := domain.BatchKind(req.Kind)
	if !kind.IsValid() {
		fields = append(fields, fieldError{Field: "kind", Message: "must be bulk_creation, bulk_addition or bulk_deletion"})
	}
	target := strings.TrimSpace(req.TargetID)
	if target == "" {
		fields = append(fields, fieldError{Field: "targetId", Message: "required"})
	}
	if req.ExpectedCount < 0 {
		fields = append(fields, fieldError{Field: "expectedCount", Message: "must not be negative"})
	}
	if len(fields) > 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "validation failed", Fields: fields})
		return
	}

	id := h.batches.Start(kind, target, req.ExpectedCount)
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// End handles POST /api/batches/{id}/end. Ending an unknown or already
// closed batch is a no-op reported as ended=false.
func (h *BatchHandler) End(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	writeJSON(w, http.StatusOK, map[string]bool{"ended": h.batches.End(r.Context(), id)})
}
