package workorder

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/ntmanager-backend/internal/domain"
)

var _ workOrderRepo = &workOrderRepoMock{}

type workOrderRepoMock struct {
	CreateFunc  func(ctx context.Context, wo domain.WorkOrder) (*domain.WorkOrder, error)
	GetByIDFunc func(ctx context.Context, id uuid.UUID) (*domain.WorkOrder, error)
	DeleteFunc  func(ctx context.Context, id uuid.UUID) error

	calls struct {
		Create  []struct{ WO domain.WorkOrder }
		GetByID []struct{ ID uuid.UUID }
		Delete  []struct{ ID uuid.UUID }
	}
	lock sync.RWMutex
}

func (mock *workOrderRepoMock) Create(ctx context.Context, wo domain.WorkOrder) (*domain.WorkOrder, error) {
	if mock.CreateFunc == nil {
		panic("workOrderRepoMock.CreateFunc: method is nil but workOrderRepo.Create was just called")
	}
	mock.lock.Lock()
	mock.calls.Create = append(mock.calls.Create, struct{ WO domain.WorkOrder }{WO: wo})
	mock.lock.Unlock()
	return mock.CreateFunc(ctx, wo)
}

func (mock *workOrderRepoMock) CreateCalls() []struct{ WO domain.WorkOrder } {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.Create
}

func (mock *workOrderRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.WorkOrder, error) {
	if mock.GetByIDFunc == nil {
		panic("workOrderRepoMock.GetByIDFunc: method is nil but workOrderRepo.GetByID was just called")
	}
	mock.lock.Lock()
	mock.calls.GetByID = append(mock.calls.GetByID, struct{ ID uuid.UUID }{ID: id})
	mock.lock.Unlock()
	return mock.GetByIDFunc(ctx, id)
}

func (mock *workOrderRepoMock) Delete(ctx context.Context, id uuid.UUID) error {
	if mock.DeleteFunc == nil {
		panic("workOrderRepoMock.DeleteFunc: method is nil but workOrderRepo.Delete was just called")
	}
	mock.lock.Lock()
	mock.calls.Delete = append(mock.calls.Delete, struct{ ID uuid.UUID }{ID: id})
	mock.lock.Unlock()
	return mock.DeleteFunc(ctx, id)
}

func (mock *workOrderRepoMock) DeleteCalls() []struct{ ID uuid.UUID } {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.Delete
}

var _ itemRepo = &itemRepoMock{}

type itemRepoMock struct {
	CreateBatchFunc      func(ctx context.Context, items []domain.Item) ([]domain.Item, error)
	GetByIDFunc          func(ctx context.Context, id uuid.UUID) (*domain.Item, error)
	UpdateStatusFunc     func(ctx context.Context, id uuid.UUID, status domain.ItemStatus, paymentTime *string) (*domain.Item, error)
	ListOpenFunc         func(ctx context.Context, limit int) ([]domain.Item, error)
	ListByWorkOrderFunc  func(ctx context.Context, workOrderID uuid.UUID) ([]domain.Item, error)
	CountByWorkOrderFunc func(ctx context.Context, workOrderID uuid.UUID) (int, error)
	MaxItemNumberFunc    func(ctx context.Context, workOrderID uuid.UUID) (int, error)

	calls struct {
		CreateBatch  []struct{ Items []domain.Item }
		UpdateStatus []struct {
			ID          uuid.UUID
			Status      domain.ItemStatus
			PaymentTime *string
		}
	}
	lock sync.RWMutex
}

func (mock *itemRepoMock) CreateBatch(ctx context.Context, items []domain.Item) ([]domain.Item, error) {
	if mock.CreateBatchFunc == nil {
		panic("itemRepoMock.CreateBatchFunc: method is nil but itemRepo.CreateBatch was just called")
	}
	mock.lock.Lock()
	mock.calls.CreateBatch = append(mock.calls.CreateBatch, struct{ Items []domain.Item }{Items: items})
	mock.lock.Unlock()
	return mock.CreateBatchFunc(ctx, items)
}

func (mock *itemRepoMock) CreateBatchCalls() []struct{ Items []domain.Item } {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.CreateBatch
}

func (mock *itemRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	if mock.GetByIDFunc == nil {
		panic("itemRepoMock.GetByIDFunc: method is nil but itemRepo.GetByID was just called")
	}
	return mock.GetByIDFunc(ctx, id)
}

func (mock *itemRepoMock) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ItemStatus, paymentTime *string) (*domain.Item, error) {
	if mock.UpdateStatusFunc == nil {
		panic("itemRepoMock.UpdateStatusFunc: method is nil but itemRepo.UpdateStatus was just called")
	}
	callInfo := struct {
		ID          uuid.UUID
		Status      domain.ItemStatus
		PaymentTime *string
	}{ID: id, Status: status, PaymentTime: paymentTime}
	mock.lock.Lock()
	mock.calls.UpdateStatus = append(mock.calls.UpdateStatus, callInfo)
	mock.lock.Unlock()
	return mock.UpdateStatusFunc(ctx, id, status, paymentTime)
}

func (mock *itemRepoMock) UpdateStatusCalls() []struct {
	ID          uuid.UUID
	Status      domain.ItemStatus
	PaymentTime *string
} {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.UpdateStatus
}

func (mock *itemRepoMock) ListOpen(ctx context.Context, limit int) ([]domain.Item, error) {
	if mock.ListOpenFunc == nil {
		panic("itemRepoMock.ListOpenFunc: method is nil but itemRepo.ListOpen was just called")
	}
	return mock.ListOpenFunc(ctx, limit)
}

func (mock *itemRepoMock) ListByWorkOrder(ctx context.Context, workOrderID uuid.UUID) ([]domain.Item, error) {
	if mock.ListByWorkOrderFunc == nil {
		panic("itemRepoMock.ListByWorkOrderFunc: method is nil but itemRepo.ListByWorkOrder was just called")
	}
	return mock.ListByWorkOrderFunc(ctx, workOrderID)
}

func (mock *itemRepoMock) CountByWorkOrder(ctx context.Context, workOrderID uuid.UUID) (int, error) {
	if mock.CountByWorkOrderFunc == nil {
		panic("itemRepoMock.CountByWorkOrderFunc: method is nil but itemRepo.CountByWorkOrder was just called")
	}
	return mock.CountByWorkOrderFunc(ctx, workOrderID)
}

func (mock *itemRepoMock) MaxItemNumber(ctx context.Context, workOrderID uuid.UUID) (int, error) {
	if mock.MaxItemNumberFunc == nil {
		panic("itemRepoMock.MaxItemNumberFunc: method is nil but itemRepo.MaxItemNumber was just called")
	}
	return mock.MaxItemNumberFunc(ctx, workOrderID)
}

// txManagerMock runs fn directly.
type txManagerMock struct{}

func (txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

var _ batcher = &batcherMock{}

// batcherMock records batch lifecycle calls. Targets listed in Covered are
// reported as covered by Observe.
type batcherMock struct {
	Covered map[string]bool

	mu       sync.Mutex
	started  []startCall
	ended    []string
	canceled []string
	observed map[string]int
}

type startCall struct {
	Kind     domain.BatchKind
	TargetID string
	Expected int
}

func (m *batcherMock) Start(kind domain.BatchKind, targetID string, expectedCount int) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.started = append(m.started, startCall{Kind: kind, TargetID: targetID, Expected: expectedCount})
	if m.Covered == nil {
		m.Covered = make(map[string]bool)
	}
	m.Covered[targetID] = true
	return "op-" + targetID
}

func (m *batcherMock) End(_ context.Context, id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ended = append(m.ended, id)
	delete(m.Covered, strings.TrimPrefix(id, "op-"))
	return true
}

func (m *batcherMock) Cancel(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.canceled = append(m.canceled, id)
	delete(m.Covered, strings.TrimPrefix(id, "op-"))
	return true
}

func (m *batcherMock) Observe(targetID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.observed == nil {
		m.observed = make(map[string]int)
	}
	m.observed[targetID]++
	return m.Covered[targetID]
}

type notifierMock struct {
	mu    sync.Mutex
	sent  []domain.Notification
	Error error
}

func (m *notifierMock) Notify(_ context.Context, n domain.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, n)
	return m.Error
}

func (m *notifierMock) Sent() []domain.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Notification(nil), m.sent...)
}

type settingsStub bool

func (s settingsStub) NotificationsEnabled() bool { return bool(s) }
