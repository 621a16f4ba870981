package workorder

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/heartmarshall/ntmanager-backend/internal/domain"
)

// ItemTimeStatus computes the badge of one item against the current time.
func (s *Service) ItemTimeStatus(ctx context.Context, id uuid.UUID) (domain.TimeStatus, error) {
	if id == uuid.Nil {
		return domain.TimeStatus{}, domain.NewValidationError("item_id", "required")
	}

	item, err := s.items.GetByID(ctx, id)
	if err != nil {
		return domain.TimeStatus{}, fmt.Errorf("get item: %w", err)
	}
	return s.formatter.FormatItem(*item), nil
}

// OpenItems returns the items awaiting payment with their badges. Delayed
// state is never persisted; it is derived here on every call.
func (s *Service) OpenItems(ctx context.Context) ([]ItemWithStatus, error) {
	items, err := s.items.ListOpen(ctx, DefaultOpenItemsLimit)
	if err != nil {
		return nil, fmt.Errorf("list open items: %w", err)
	}

	return s.withStatus(items), nil
}

// WorkOrderItems returns a work order and all of its items, ordered by item
// number, with their badges.
func (s *Service) WorkOrderItems(ctx context.Context, id uuid.UUID) (*WorkOrderItemsResult, error) {
	if id == uuid.Nil {
		return nil, domain.NewValidationError("work_order_id", "required")
	}

	wo, err := s.workOrders.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get work order: %w", err)
	}
	items, err := s.items.ListByWorkOrder(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list work order items: %w", err)
	}

	return &WorkOrderItemsResult{WorkOrder: *wo, Items: s.withStatus(items)}, nil
}

func (s *Service) withStatus(items []domain.Item) []ItemWithStatus {
	out := make([]ItemWithStatus, 0, len(items))
	for _, it := range items {
		out = append(out, ItemWithStatus{Item: it, TimeStatus: s.formatter.FormatItem(it)})
	}
	return out
}
