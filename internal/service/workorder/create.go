package workorder

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/ntmanager-backend/internal/domain"
	"github.com/heartmarshall/ntmanager-backend/internal/service/sla"
)

// CreateWorkOrder inserts a work order and its items in one transaction.
// The write is wrapped in a bulk_creation batch sized to the item count.
func (s *Service) CreateWorkOrder(ctx context.Context, input CreateWorkOrderInput) (*CreateWorkOrderResult, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	now := s.formatter.Now()
	wo := domain.WorkOrder{
		ID:          uuid.New(),
		Number:      strings.TrimSpace(input.Number),
		CreatedDate: sla.FormatCivilDate(now, s.formatter.Location()),
		CreatedTime: sla.FormatCivilTime(now, s.formatter.Location()),
		Status:      domain.WorkOrderStatusActive,
		CreatedAt:   now.UTC(),
	}
	items := s.buildItems(wo, input.Items, 0, now)

	batchID := s.batches.Start(domain.BatchKindBulkCreation, wo.ID.String(), len(items))

	var result CreateWorkOrderResult
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		created, err := s.workOrders.Create(txCtx, wo)
		if err != nil {
			return fmt.Errorf("create work order: %w", err)
		}
		createdItems, err := s.items.CreateBatch(txCtx, items)
		if err != nil {
			return fmt.Errorf("create items: %w", err)
		}
		result = CreateWorkOrderResult{WorkOrder: *created, Items: createdItems}
		return nil
	})
	if err != nil {
		s.batches.Cancel(batchID)
		return nil, err
	}

	for range result.Items {
		s.batches.Observe(wo.ID.String())
	}
	s.batches.End(ctx, batchID)

	s.log.InfoContext(ctx, "work order created",
		slog.String("work_order_id", wo.ID.String()),
		slog.String("number", wo.Number),
		slog.Int("items", len(result.Items)),
	)

	return &result, nil
}

// buildItems numbers new items after the highest existing item number.
func (s *Service) buildItems(wo domain.WorkOrder, inputs []ItemInput, after int, now time.Time) []domain.Item {
	loc := s.formatter.Location()
	items := make([]domain.Item, 0, len(inputs))
	for idx, in := range inputs {
		items = append(items, domain.Item{
			ID:          uuid.New(),
			WorkOrderID: wo.ID,
			ItemNumber:  after + idx + 1,
			Code:        strings.TrimSpace(in.Code),
			Description: strings.TrimSpace(in.Description),
			Quantity:    strings.TrimSpace(in.Quantity),
			Batch:       trimOrNil(in.Batch),
			Status:      domain.ItemStatusAwaitingPayment,
			CreatedDate: sla.FormatCivilDate(now, loc),
			CreatedTime: sla.FormatCivilTime(now, loc),
			Priority:    in.Priority,
			UpdatedAt:   now.UTC(),
		})
	}
	return items
}
