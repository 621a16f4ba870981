package workorder

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/ntmanager-backend/internal/domain"
)

// DeleteWorkOrder deletes a work order and, by cascade, its items inside a
// bulk_deletion batch sized to the item count.
func (s *Service) DeleteWorkOrder(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return domain.NewValidationError("work_order_id", "required")
	}

	wo, err := s.workOrders.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get work order: %w", err)
	}

	count, err := s.items.CountByWorkOrder(ctx, wo.ID)
	if err != nil {
		return fmt.Errorf("count items: %w", err)
	}

	batchID := s.batches.Start(domain.BatchKindBulkDeletion, wo.ID.String(), count)
	if err := s.workOrders.Delete(ctx, wo.ID); err != nil {
		s.batches.Cancel(batchID)
		return fmt.Errorf("delete work order: %w", err)
	}
	s.batches.End(ctx, batchID)

	s.log.InfoContext(ctx, "work order deleted",
		slog.String("work_order_id", wo.ID.String()),
		slog.String("number", wo.Number),
		slog.Int("items", count),
	)
	return nil
}
