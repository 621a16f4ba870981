// Package workorder creates, extends and deletes work orders and changes
// item statuses, wrapping bulk writes in notification batches.
package workorder

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/ntmanager-backend/internal/domain"
	"github.com/heartmarshall/ntmanager-backend/internal/service/sla"
)

// DefaultOpenItemsLimit caps OpenItems.
const DefaultOpenItemsLimit = 500

type workOrderRepo interface {
	Create(ctx context.Context, wo domain.WorkOrder) (*domain.WorkOrder, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.WorkOrder, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type itemRepo interface {
	CreateBatch(ctx context.Context, items []domain.Item) ([]domain.Item, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Item, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ItemStatus, paymentTime *string) (*domain.Item, error)
	ListOpen(ctx context.Context, limit int) ([]domain.Item, error)
	ListByWorkOrder(ctx context.Context, workOrderID uuid.UUID) ([]domain.Item, error)
	CountByWorkOrder(ctx context.Context, workOrderID uuid.UUID) (int, error)
	MaxItemNumber(ctx context.Context, workOrderID uuid.UUID) (int, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type batcher interface {
	Start(kind domain.BatchKind, targetID string, expectedCount int) string
	End(ctx context.Context, id string) bool
	Cancel(id string) bool
	Observe(targetID string) bool
}

type notifier interface {
	Notify(ctx context.Context, n domain.Notification) error
}

type settingsReader interface {
	NotificationsEnabled() bool
}

// Service implements the work-order write paths and the on-read item badges.
type Service struct {
	workOrders workOrderRepo
	items      itemRepo
	tx         txManager
	batches    batcher
	notifier   notifier
	settings   settingsReader
	formatter  *sla.Formatter
	log        *slog.Logger
}

// NewService creates a new work-order service.
func NewService(
	log *slog.Logger,
	workOrders workOrderRepo,
	items itemRepo,
	tx txManager,
	batches batcher,
	notifier notifier,
	settings settingsReader,
	formatter *sla.Formatter,
) *Service {
	return &Service{
		workOrders: workOrders,
		items:      items,
		tx:         tx,
		batches:    batches,
		notifier:   notifier,
		settings:   settings,
		formatter:  formatter,
		log:        log.With("service", "workorder"),
	}
}
