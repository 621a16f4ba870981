package batch

import (
	"context"
	"sync"

	"github.com/heartmarshall/ntmanager-backend/internal/domain"
)

var _ notifier = &notifierMock{}

type notifierMock struct {
	NotifyFunc func(ctx context.Context, n domain.Notification) error

	calls struct {
		Notify []struct {
			Ctx context.Context
			N   domain.Notification
		}
	}
	lockNotify sync.RWMutex
}

func (mock *notifierMock) Notify(ctx context.Context, n domain.Notification) error {
	callInfo := struct {
		Ctx context.Context
		N   domain.Notification
	}{Ctx: ctx, N: n}
	mock.lockNotify.Lock()
	mock.calls.Notify = append(mock.calls.Notify, callInfo)
	mock.lockNotify.Unlock()
	if mock.NotifyFunc == nil {
		return nil
	}
	return mock.NotifyFunc(ctx, n)
}

func (mock *notifierMock) NotifyCalls() []struct {
	Ctx context.Context
	N   domain.Notification
} {
	mock.lockNotify.RLock()
	calls := mock.calls.Notify
	mock.lockNotify.RUnlock()
	return calls
}

var _ settingsReader = &settingsReaderMock{}

type settingsReaderMock struct {
	NotificationsEnabledFunc func() bool
}

func (mock *settingsReaderMock) NotificationsEnabled() bool {
	if mock.NotificationsEnabledFunc == nil {
		panic("settingsReaderMock.NotificationsEnabledFunc: method is nil but settingsReader.NotificationsEnabled was just called")
	}
	return mock.NotificationsEnabledFunc()
}
