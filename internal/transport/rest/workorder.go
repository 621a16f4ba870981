package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/heartmarshall/ntmanager-backend/internal/domain"
	"github.com/heartmarshall/ntmanager-backend/internal/service/workorder"
)

type workOrderService interface {
	CreateWorkOrder(ctx context.Context, input workorder.CreateWorkOrderInput) (*workorder.CreateWorkOrderResult, error)
	AddItems(ctx context.Context, input workorder.AddItemsInput) ([]domain.Item, error)
	DeleteWorkOrder(ctx context.Context, id uuid.UUID) error
	UpdateItemStatus(ctx context.Context, input workorder.UpdateItemStatusInput) (*domain.Item, error)
	ItemTimeStatus(ctx context.Context, id uuid.UUID) (domain.TimeStatus, error)
	OpenItems(ctx context.Context) ([]workorder.ItemWithStatus, error)
	WorkOrderItems(ctx context.Context, id uuid.UUID) (*workorder.WorkOrderItemsResult, error)
}

// WorkOrderHandler serves work order and item endpoints.
type WorkOrderHandler struct {
	svc workOrderService
	log *slog.Logger
}

// NewWorkOrderHandler creates a WorkOrderHandler.
func NewWorkOrderHandler(svc workOrderService, logger *slog.Logger) *WorkOrderHandler {
	return &WorkOrderHandler{svc: svc, log: logger.With("handler", "workorder")}
}

type itemRequest struct {
	Code        string  `json:"code"`
	Description string  `json:"description"`
	Quantity    string  `json:"quantity"`
	Batch       *string `json:"batch"`
	Priority    bool    `json:"priority"`
}

type createWorkOrderRequest struct {
	Number string        `json:"number"`
	Items  []itemRequest `json:"items"`
}

type addItemsRequest struct {
	Items []itemRequest `json:"items"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func toItemInputs(reqs []itemRequest) []workorder.ItemInput {
	out := make([]workorder.ItemInput, len(reqs))
	for i, r := range reqs {
		out[i] = workorder.ItemInput{
			Code:        r.Code,
			Description: r.Description,
			Quantity:    r.Quantity,
			Batch:       r.Batch,
			Priority:    r.Priority,
		}
	}
	return out
}

// Create handles POST /api/work-orders.
func (h *WorkOrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createWorkOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.svc.CreateWorkOrder(r.Context(), workorder.CreateWorkOrderInput{
		Number: req.Number,
		Items:  toItemInputs(req.Items),
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toWorkOrderResponse(result.WorkOrder, result.Items))
}

// AddItems handles POST /api/work-orders/{id}/items.
func (h *WorkOrderHandler) AddItems(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req addItemsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	items, err := h.svc.AddItems(r.Context(), workorder.AddItemsInput{
		WorkOrderID: id,
		Items:       toItemInputs(req.Items),
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"items": toItemResponses(items)})
}

// Delete handles DELETE /api/work-orders/{id}.
func (h *WorkOrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.svc.DeleteWorkOrder(r.Context(), id); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UpdateStatus handles PATCH /api/items/{id}/status.
func (h *WorkOrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req updateStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	item, err := h.svc.UpdateItemStatus(r.Context(), workorder.UpdateItemStatusInput{
		ItemID: id,
		Status: domain.ItemStatus(req.Status),
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toItemResponse(*item))
}

// TimeStatus handles GET /api/items/{id}/time-status.
func (h *WorkOrderHandler) TimeStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	status, err := h.svc.ItemTimeStatus(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toTimeStatusResponse(status))
}

// OpenItems handles GET /api/items/open.
func (h *WorkOrderHandler) OpenItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.OpenItems(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"items": toOpenItemResponses(items)})
}

// Items handles GET /api/work-orders/{id}/items.
func (h *WorkOrderHandler) Items(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	result, err := h.svc.WorkOrderItems(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"id":     result.WorkOrder.ID.String(),
		"number": result.WorkOrder.Number,
		"status": string(result.WorkOrder.Status),
		"items":  toOpenItemResponses(result.Items),
	})
}
