package timeline

import (
	"context"
	"sync"

	"github.com/heartmarshall/ntmanager-backend/internal/domain"
)

var _ itemFeed = &itemFeedMock{}

// itemFeedMock captures the snapshot and error callbacks so tests can drive
// them synchronously.
type itemFeedMock struct {
	SubscribeErr error
	IndexErr     error

	mu            sync.Mutex
	itemsSnap     func(domain.Snapshot[domain.Item])
	itemsErr      func(error)
	indexSnap     func(domain.Snapshot[domain.WorkOrderRef])
	indexErrFn    func(error)
	limits        []int
	unsubscribed  int
	subscriptions int
}

func (m *itemFeedMock) SubscribeCompletedItems(
	_ context.Context,
	limit int,
	onSnapshot func(domain.Snapshot[domain.Item]),
	onError func(error),
) (func(), error) {
	if m.SubscribeErr != nil {
		return nil, m.SubscribeErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.itemsSnap, m.itemsErr = onSnapshot, onError
	m.limits = append(m.limits, limit)
	m.subscriptions++
	return m.unsubscribe, nil
}

func (m *itemFeedMock) SubscribeWorkOrderIndex(
	_ context.Context,
	onSnapshot func(domain.Snapshot[domain.WorkOrderRef]),
	onError func(error),
) (func(), error) {
	if m.IndexErr != nil {
		return nil, m.IndexErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.indexSnap, m.indexErrFn = onSnapshot, onError
	m.subscriptions++
	return m.unsubscribe, nil
}

func (m *itemFeedMock) unsubscribe() {
	m.mu.Lock()
	m.unsubscribed++
	m.mu.Unlock()
}

func (m *itemFeedMock) pushItems(items ...domain.Item) {
	m.mu.Lock()
	fn := m.itemsSnap
	m.mu.Unlock()
	fn(domain.Snapshot[domain.Item]{Docs: items})
}

func (m *itemFeedMock) pushIndex(refs ...domain.WorkOrderRef) {
	m.mu.Lock()
	fn := m.indexSnap
	m.mu.Unlock()
	fn(domain.Snapshot[domain.WorkOrderRef]{Docs: refs})
}

func (m *itemFeedMock) failItems(err error) {
	m.mu.Lock()
	fn := m.itemsErr
	m.mu.Unlock()
	fn(err)
}

func (m *itemFeedMock) Unsubscribed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.unsubscribed
}
