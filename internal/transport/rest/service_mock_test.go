package rest

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/ntmanager-backend/internal/domain"
	"github.com/heartmarshall/ntmanager-backend/internal/service/timeline"
	"github.com/heartmarshall/ntmanager-backend/internal/service/workorder"
)

var _ workOrderService = &workOrderServiceMock{}

type workOrderServiceMock struct {
	CreateWorkOrderFunc  func(ctx context.Context, input workorder.CreateWorkOrderInput) (*workorder.CreateWorkOrderResult, error)
	AddItemsFunc         func(ctx context.Context, input workorder.AddItemsInput) ([]domain.Item, error)
	DeleteWorkOrderFunc  func(ctx context.Context, id uuid.UUID) error
	UpdateItemStatusFunc func(ctx context.Context, input workorder.UpdateItemStatusInput) (*domain.Item, error)
	ItemTimeStatusFunc   func(ctx context.Context, id uuid.UUID) (domain.TimeStatus, error)
	OpenItemsFunc        func(ctx context.Context) ([]workorder.ItemWithStatus, error)
	WorkOrderItemsFunc   func(ctx context.Context, id uuid.UUID) (*workorder.WorkOrderItemsResult, error)

	calls struct {
		CreateWorkOrder  []workorder.CreateWorkOrderInput
		AddItems         []workorder.AddItemsInput
		DeleteWorkOrder  []uuid.UUID
		UpdateItemStatus []workorder.UpdateItemStatusInput
	}
	lock sync.RWMutex
}

func (mock *workOrderServiceMock) CreateWorkOrder(ctx context.Context, input workorder.CreateWorkOrderInput) (*workorder.CreateWorkOrderResult, error) {
	if mock.CreateWorkOrderFunc == nil {
		panic("workOrderServiceMock.CreateWorkOrderFunc: method is nil but workOrderService.CreateWorkOrder was just called")
	}
	mock.lock.Lock()
	mock.calls.CreateWorkOrder = append(mock.calls.CreateWorkOrder, input)
	mock.lock.Unlock()
	return mock.CreateWorkOrderFunc(ctx, input)
}

func (mock *workOrderServiceMock) CreateWorkOrderCalls() []workorder.CreateWorkOrderInput {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.CreateWorkOrder
}

func (mock *workOrderServiceMock) AddItems(ctx context.Context, input workorder.AddItemsInput) ([]domain.Item, error) {
	if mock.AddItemsFunc == nil {
		panic("workOrderServiceMock.AddItemsFunc: method is nil but workOrderService.AddItems was just called")
	}
	mock.lock.Lock()
	mock.calls.AddItems = append(mock.calls.AddItems, input)
	mock.lock.Unlock()
	return mock.AddItemsFunc(ctx, input)
}

func (mock *workOrderServiceMock) AddItemsCalls() []workorder.AddItemsInput {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.AddItems
}

func (mock *workOrderServiceMock) DeleteWorkOrder(ctx context.Context, id uuid.UUID) error {
	if mock.DeleteWorkOrderFunc == nil {
		panic("workOrderServiceMock.DeleteWorkOrderFunc: method is nil but workOrderService.DeleteWorkOrder was just called")
	}
	mock.lock.Lock()
	mock.calls.DeleteWorkOrder = append(mock.calls.DeleteWorkOrder, id)
	mock.lock.Unlock()
	return mock.DeleteWorkOrderFunc(ctx, id)
}

func (mock *workOrderServiceMock) DeleteWorkOrderCalls() []uuid.UUID {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.DeleteWorkOrder
}

func (mock *workOrderServiceMock) UpdateItemStatus(ctx context.Context, input workorder.UpdateItemStatusInput) (*domain.Item, error) {
	if mock.UpdateItemStatusFunc == nil {
		panic("workOrderServiceMock.UpdateItemStatusFunc: method is nil but workOrderService.UpdateItemStatus was just called")
	}
	mock.lock.Lock()
	mock.calls.UpdateItemStatus = append(mock.calls.UpdateItemStatus, input)
	mock.lock.Unlock()
	return mock.UpdateItemStatusFunc(ctx, input)
}

func (mock *workOrderServiceMock) UpdateItemStatusCalls() []workorder.UpdateItemStatusInput {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.UpdateItemStatus
}

func (mock *workOrderServiceMock) ItemTimeStatus(ctx context.Context, id uuid.UUID) (domain.TimeStatus, error) {
	if mock.ItemTimeStatusFunc == nil {
		panic("workOrderServiceMock.ItemTimeStatusFunc: method is nil but workOrderService.ItemTimeStatus was just called")
	}
	return mock.ItemTimeStatusFunc(ctx, id)
}

func (mock *workOrderServiceMock) OpenItems(ctx context.Context) ([]workorder.ItemWithStatus, error) {
	if mock.OpenItemsFunc == nil {
		panic("workOrderServiceMock.OpenItemsFunc: method is nil but workOrderService.OpenItems was just called")
	}
	return mock.OpenItemsFunc(ctx)
}

func (mock *workOrderServiceMock) WorkOrderItems(ctx context.Context, id uuid.UUID) (*workorder.WorkOrderItemsResult, error) {
	if mock.WorkOrderItemsFunc == nil {
		panic("workOrderServiceMock.WorkOrderItemsFunc: method is nil but workOrderService.WorkOrderItems was just called")
	}
	return mock.WorkOrderItemsFunc(ctx, id)
}

type batchServiceMock struct {
	mu      sync.Mutex
	started []startBatchRequest
	open    map[string]bool
}

func (m *batchServiceMock) Start(kind domain.BatchKind, targetID string, expectedCount int) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.started = append(m.started, startBatchRequest{Kind: string(kind), TargetID: targetID, ExpectedCount: expectedCount})
	if m.open == nil {
		m.open = make(map[string]bool)
	}
	m.open["op-1"] = true
	return "op-1"
}

func (m *batchServiceMock) End(_ context.Context, id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.open[id] {
		return false
	}
	delete(m.open, id)
	return true
}

type settingsServiceMock struct {
	current   domain.Settings
	UpdateErr error
}

func (m *settingsServiceMock) Get() domain.Settings { return m.current }

func (m *settingsServiceMock) Update(_ context.Context, patch domain.SettingsPatch) (domain.Settings, error) {
	if m.UpdateErr != nil {
		return domain.Settings{}, m.UpdateErr
	}
	if patch.NotificationsEnabled != nil {
		m.current.NotificationsEnabled = *patch.NotificationsEnabled
	}
	if patch.SoundEnabled != nil {
		m.current.SoundEnabled = *patch.SoundEnabled
	}
	return m.current, nil
}

type timelineStub timeline.View

func (s timelineStub) View() timeline.View { return timeline.View(s) }
