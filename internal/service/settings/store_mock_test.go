package settings

import (
	"context"
	"sync"
)

var _ kvStore = &kvStoreMock{}

type kvStoreMock struct {
	GetAllFunc func(ctx context.Context) (map[string]string, error)
	UpsertFunc func(ctx context.Context, key, value string) error

	calls struct {
		GetAll []struct {
			Ctx context.Context
		}
		Upsert []struct {
			Ctx   context.Context
			Key   string
			Value string
		}
	}
	lockGetAll sync.RWMutex
	lockUpsert sync.RWMutex
}

func (mock *kvStoreMock) GetAll(ctx context.Context) (map[string]string, error) {
	if mock.GetAllFunc == nil {
		panic("kvStoreMock.GetAllFunc: method is nil but kvStore.GetAll was just called")
	}
	mock.lockGetAll.Lock()
	mock.calls.GetAll = append(mock.calls.GetAll, struct{ Ctx context.Context }{Ctx: ctx})
	mock.lockGetAll.Unlock()
	return mock.GetAllFunc(ctx)
}

func (mock *kvStoreMock) GetAllCalls() []struct{ Ctx context.Context } {
	mock.lockGetAll.RLock()
	calls := mock.calls.GetAll
	mock.lockGetAll.RUnlock()
	return calls
}

func (mock *kvStoreMock) Upsert(ctx context.Context, key, value string) error {
	if mock.UpsertFunc == nil {
		panic("kvStoreMock.UpsertFunc: method is nil but kvStore.Upsert was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Key   string
		Value string
	}{Ctx: ctx, Key: key, Value: value}
	mock.lockUpsert.Lock()
	mock.calls.Upsert = append(mock.calls.Upsert, callInfo)
	mock.lockUpsert.Unlock()
	return mock.UpsertFunc(ctx, key, value)
}

func (mock *kvStoreMock) UpsertCalls() []struct {
	Ctx   context.Context
	Key   string
	Value string
} {
	mock.lockUpsert.RLock()
	calls := mock.calls.Upsert
	mock.lockUpsert.RUnlock()
	return calls
}

// txManagerMock runs fn directly.
type txManagerMock struct{}

func (txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
