package workorder

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/ntmanager-backend/internal/domain"
)

// AddItems appends items to an existing work order inside a bulk_addition
// batch.
func (s *Service) AddItems(ctx context.Context, input AddItemsInput) ([]domain.Item, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	wo, err := s.workOrders.GetByID(ctx, input.WorkOrderID)
	if err != nil {
		return nil, fmt.Errorf("get work order: %w", err)
	}

	target := wo.ID.String()
	batchID := s.batches.Start(domain.BatchKindBulkAddition, target, len(input.Items))

	var created []domain.Item
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		last, err := s.items.MaxItemNumber(txCtx, wo.ID)
		if err != nil {
			return fmt.Errorf("max item number: %w", err)
		}
		created, err = s.items.CreateBatch(txCtx, s.buildItems(*wo, input.Items, last, s.formatter.Now()))
		if err != nil {
			return fmt.Errorf("create items: %w", err)
		}
		return nil
	})
	if err != nil {
		s.batches.Cancel(batchID)
		return nil, err
	}

	for range created {
		s.batches.Observe(target)
	}
	s.batches.End(ctx, batchID)

	s.log.InfoContext(ctx, "items added",
		slog.String("work_order_id", target),
		slog.Int("items", len(created)),
	)
	return created, nil
}
