package workorder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/ntmanager-backend/internal/domain"
	"github.com/heartmarshall/ntmanager-backend/internal/service/sla"
)

// UpdateItemStatus changes an item's status. Moving to a completed status
// stamps the payment time unless the item already had one; moving back to
// awaiting payment clears it. A per-row notification is emitted only when
// no batch covers the parent work order.
func (s *Service) UpdateItemStatus(ctx context.Context, input UpdateItemStatusInput) (*domain.Item, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	item, err := s.items.GetByID(ctx, input.ItemID)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if item.Status == input.Status {
		return item, nil
	}

	var paymentTime *string
	if input.Status.IsCompleted() {
		if item.Status.IsCompleted() && item.PaymentTime != nil {
			paymentTime = item.PaymentTime
		} else {
			stamp := sla.FormatCivilDateTime(s.formatter.Now(), s.formatter.Location())
			paymentTime = &stamp
		}
	}

	updated, err := s.items.UpdateStatus(ctx, item.ID, input.Status, paymentTime)
	if err != nil {
		return nil, fmt.Errorf("update item status: %w", err)
	}

	s.log.InfoContext(ctx, "item status changed",
		slog.String("item_id", updated.ID.String()),
		slog.String("from", string(item.Status)),
		slog.String("to", string(updated.Status)),
	)

	if !s.batches.Observe(updated.WorkOrderID.String()) {
		s.notifyStatusChange(ctx, *updated)
	}
	return updated, nil
}

func (s *Service) notifyStatusChange(ctx context.Context, item domain.Item) {
	if !s.settings.NotificationsEnabled() {
		return
	}

	number := domain.WorkOrderNumberFallback
	wo, err := s.workOrders.GetByID(ctx, item.WorkOrderID)
	switch {
	case err == nil:
		number = wo.Number
	case !errors.Is(err, domain.ErrNotFound):
		s.log.WarnContext(ctx, "resolve work order number", slog.String("error", err.Error()))
	}

	n := domain.Notification{
		Kind:      domain.NotificationItemStatus,
		TargetID:  item.WorkOrderID.String(),
		Count:     1,
		Message:   fmt.Sprintf("NT %s: item %d marked as %s", number, item.ItemNumber, item.Status),
		EmittedAt: s.formatter.Now(),
	}
	if err := s.notifier.Notify(ctx, n); err != nil {
		s.log.WarnContext(ctx, "status notification failed", slog.String("error", err.Error()))
	}
}
