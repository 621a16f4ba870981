package feed

import (
	"context"
	"fmt"

	"github.com/heartmarshall/ntmanager-backend/internal/domain"
)

type completedItemLister interface {
	ListCompleted(ctx context.Context, limit int) ([]domain.Item, error)
}

type workOrderRefLister interface {
	ListRefs(ctx context.Context) ([]domain.WorkOrderRef, error)
}

// Source exposes the two live queries the timeline consumes.
type Source struct {
	w     *Watcher
	items completedItemLister
	refs  workOrderRefLister
}

// NewSource creates a Source over the item and work-order repositories.
func NewSource(w *Watcher, items completedItemLister, refs workOrderRefLister) *Source {
	return &Source{w: w, items: items, refs: refs}
}

// SubscribeCompletedItems watches the limit most recently updated completed
// items.
func (s *Source) SubscribeCompletedItems(
	ctx context.Context,
	limit int,
	onSnapshot func(domain.Snapshot[domain.Item]),
	onError func(error),
) (func(), error) {
	if limit <= 0 {
		return nil, fmt.Errorf("completed items limit must be positive, got %d", limit)
	}

	return Watch(ctx, s.w, Query[domain.Item]{
		Channel: ChannelItems,
		Load: func(ctx context.Context) ([]domain.Item, error) {
			return s.items.ListCompleted(ctx, limit)
		},
		Key:   func(it domain.Item) string { return it.ID.String() },
		Equal: domain.Item.Equal,
	}, onSnapshot, onError), nil
}

// SubscribeWorkOrderIndex watches the id and number of every work order.
func (s *Source) SubscribeWorkOrderIndex(
	ctx context.Context,
	onSnapshot func(domain.Snapshot[domain.WorkOrderRef]),
	onError func(error),
) (func(), error) {
	return Watch(ctx, s.w, Query[domain.WorkOrderRef]{
		Channel: ChannelWorkOrders,
		Load:    s.refs.ListRefs,
		Key:     func(r domain.WorkOrderRef) string { return r.ID.String() },
		Equal:   func(a, b domain.WorkOrderRef) bool { return a == b },
	}, onSnapshot, onError), nil
}
