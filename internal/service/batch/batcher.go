// Package batch groups the mutations of one bulk action into a single
// aggregate notification.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/heartmarshall/ntmanager-backend/internal/domain"
)

// DefaultTimeout closes a batch that is never ended explicitly.
const DefaultTimeout = 5 * time.Second

type notifier interface {
	Notify(ctx context.Context, n domain.Notification) error
}

type settingsReader interface {
	NotificationsEnabled() bool
}

type pending struct {
	op    domain.BatchOperation
	timer clockwork.Timer
}

// Batcher tracks active batch operations. Each operation is closed exactly
// once, by End or by its timeout, and emits at most one notification.
type Batcher struct {
	clock    clockwork.Clock
	timeout  time.Duration
	notifier notifier
	settings settingsReader
	log      *slog.Logger

	mu      sync.Mutex
	pending map[string]*pending
}

// NewBatcher creates a Batcher. A non-positive timeout uses DefaultTimeout.
func NewBatcher(
	log *slog.Logger,
	clock clockwork.Clock,
	timeout time.Duration,
	notifier notifier,
	settings settingsReader,
) *Batcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Batcher{
		clock:    clock,
		timeout:  timeout,
		notifier: notifier,
		settings: settings,
		log:      log.With("service", "batch"),
		pending:  make(map[string]*pending),
	}
}

// Start opens a batch for targetID and schedules its timeout. expectedCount
// is 0 when unknown. It returns the operation id.
func (b *Batcher) Start(kind domain.BatchKind, targetID string, expectedCount int) string {
	id := uuid.NewString()
	if expectedCount < 0 {
		expectedCount = 0
	}

	b.mu.Lock()
	p := &pending{op: domain.BatchOperation{
		ID:            id,
		Kind:          kind,
		TargetID:      targetID,
		StartedAt:     b.clock.Now(),
		ExpectedCount: expectedCount,
	}}
	b.pending[id] = p
	p.timer = b.clock.AfterFunc(b.timeout, func() { b.expire(id) })
	b.mu.Unlock()

	b.log.Debug("batch started",
		slog.String("operation_id", id),
		slog.String("kind", string(kind)),
		slog.String("target_id", targetID),
		slog.Int("expected", expectedCount),
	)
	return id
}

// Observe records one mutation event for targetID. It reports true when an
// active batch covers the target, meaning the per-row notification must be
// suppressed.
func (b *Batcher) Observe(targetID string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	covered := false
	for _, p := range b.pending {
		if p.op.TargetID == targetID {
			p.op.Observed++
			covered = true
			break
		}
	}
	return covered
}

// End closes the operation and emits its notification. It returns false if
// the operation is unknown or already closed.
func (b *Batcher) End(ctx context.Context, id string) bool {
	op, ok := b.take(id)
	if !ok {
		return false
	}
	b.emit(ctx, op, "end")
	return true
}

// Cancel closes the operation without emitting. Used when the bulk write it
// wraps fails.
func (b *Batcher) Cancel(id string) bool {
	op, ok := b.take(id)
	if ok {
		b.log.Debug("batch cancelled", slog.String("operation_id", op.ID))
	}
	return ok
}

// Active returns the open operations ordered by start time.
func (b *Batcher) Active() []domain.BatchOperation {
	b.mu.Lock()
	ops := make([]domain.BatchOperation, 0, len(b.pending))
	for _, p := range b.pending {
		ops = append(ops, p.op)
	}
	b.mu.Unlock()

	sort.Slice(ops, func(i, j int) bool {
		if !ops[i].StartedAt.Equal(ops[j].StartedAt) {
			return ops[i].StartedAt.Before(ops[j].StartedAt)
		}
		return ops[i].ID < ops[j].ID
	})
	return ops
}

// Close ends every open operation. Used on shutdown.
func (b *Batcher) Close(ctx context.Context) {
	for _, op := range b.Active() {
		b.End(ctx, op.ID)
	}
}

func (b *Batcher) expire(id string) {
	op, ok := b.take(id)
	if !ok {
		return
	}
	b.emit(context.Background(), op, "timeout")
}

// take removes the operation and stops its timer. Only the caller that
// removes the entry may emit.
func (b *Batcher) take(id string) (domain.BatchOperation, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	p, ok := b.pending[id]
	if !ok {
		return domain.BatchOperation{}, false
	}
	delete(b.pending, id)
	p.timer.Stop()
	return p.op, true
}

func (b *Batcher) emit(ctx context.Context, op domain.BatchOperation, reason string) {
	log := b.log.With(
		slog.String("operation_id", op.ID),
		slog.String("kind", string(op.Kind)),
		slog.String("closed_by", reason),
	)

	if b.settings != nil && !b.settings.NotificationsEnabled() {
		log.Debug("batch closed, notifications disabled")
		return
	}

	n := NewNotification(op, b.clock.Now())
	if err := b.notifier.Notify(ctx, n); err != nil {
		log.Warn("batch notification failed", slog.String("error", err.Error()))
		return
	}
	log.Info("batch notification emitted", slog.Int("count", n.Count))
}

// NewNotification builds the aggregate notification of a closed operation.
// The count is the expected count when known, otherwise the observed one.
func NewNotification(op domain.BatchOperation, at time.Time) domain.Notification {
	count := op.ExpectedCount
	if count == 0 {
		count = op.Observed
	}
	return domain.Notification{
		OperationID: op.ID,
		Kind:        op.Kind,
		TargetID:    op.TargetID,
		Count:       count,
		Message:     Message(op.Kind, count),
		EmittedAt:   at,
	}
}

// Message describes a bulk operation of kind affecting count items.
func Message(kind domain.BatchKind, count int) string {
	items := pluralItems(count)
	switch kind {
	case domain.BatchKindBulkCreation:
		return fmt.Sprintf("Work order created with %s", items)
	case domain.BatchKindBulkAddition:
		return fmt.Sprintf("%s added to work order", items)
	case domain.BatchKindBulkDeletion:
		return fmt.Sprintf("Work order deleted with %s", items)
	default:
		return fmt.Sprintf("Bulk operation on %s", items)
	}
}

func pluralItems(n int) string {
	if n == 1 {
		return "1 item"
	}
	return fmt.Sprintf("%d items", n)
}
