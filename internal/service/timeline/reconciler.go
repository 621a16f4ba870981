package timeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/heartmarshall/ntmanager-backend/internal/domain"
	"github.com/heartmarshall/ntmanager-backend/internal/service/sla"
)

// ErrAlreadyStarted is returned by Start on a running reconciler.
var ErrAlreadyStarted = errors.New("timeline: already started")

// itemFeed delivers live query snapshots. The returned function cancels the
// subscription and returns only after the last callback has finished.
type itemFeed interface {
	SubscribeCompletedItems(
		ctx context.Context,
		limit int,
		onSnapshot func(domain.Snapshot[domain.Item]),
		onError func(error),
	) (func(), error)
	SubscribeWorkOrderIndex(
		ctx context.Context,
		onSnapshot func(domain.Snapshot[domain.WorkOrderRef]),
		onError func(error),
	) (func(), error)
}

// Options configure a Reconciler.
type Options struct {
	Limit           int
	FetchWindow     int
	HighlightWindow time.Duration
	Tick            time.Duration
}

// View is a consistent copy of the reconciler state.
type View struct {
	Entries     []domain.TimelineEntry
	Stats       domain.TimelineStats
	Highlighted []uuid.UUID
	// Arrived holds the ids that became visible in the update that produced
	// this view.
	Arrived   []uuid.UUID
	Connected bool
	UpdatedAt time.Time
}

// Reconciler maintains the bounded, newest-first timeline of completed
// items from two live subscriptions and recomputes it on every snapshot.
type Reconciler struct {
	feed      itemFeed
	formatter *sla.Formatter
	clock     clockwork.Clock
	log       *slog.Logger
	opts      Options

	// notifyMu serializes apply+notify so observers see views in order.
	notifyMu sync.Mutex

	mu          sync.RWMutex
	gen         uint64
	running     bool
	unsubs      []func()
	items       []domain.Item
	itemsLoaded bool
	numbers     map[uuid.UUID]string
	itemsOK     bool
	indexOK     bool
	entries     []domain.TimelineEntry
	visible     map[uuid.UUID]struct{}
	arrived     []uuid.UUID
	highlight   map[uuid.UUID]time.Time
	timer       clockwork.Timer
	stats       domain.TimelineStats
	updatedAt   time.Time
	observers   []func(View)
}

// NewReconciler creates a Reconciler. Call Start or Run to subscribe.
func NewReconciler(log *slog.Logger, feed itemFeed, formatter *sla.Formatter, clock clockwork.Clock, opts Options) *Reconciler {
	if opts.FetchWindow < opts.Limit {
		opts.FetchWindow = opts.Limit
	}
	return &Reconciler{
		feed:      feed,
		formatter: formatter,
		clock:     clock,
		log:       log.With("service", "timeline"),
		opts:      opts,
		numbers:   make(map[uuid.UUID]string),
		visible:   make(map[uuid.UUID]struct{}),
		highlight: make(map[uuid.UUID]time.Time),
		stats:     Summarize(nil, formatter.Now()),
	}
}

// OnChange registers an observer called with a fresh View after every
// update. Observers run outside the reconciler lock and must not block.
func (r *Reconciler) OnChange(fn func(View)) {
	r.mu.Lock()
	r.observers = append(r.observers, fn)
	r.mu.Unlock()
}

// Start subscribes to the completed items and the work-order index.
func (r *Reconciler) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return ErrAlreadyStarted
	}
	r.gen++
	gen := r.gen
	r.running = true
	r.itemsLoaded = false
	r.itemsOK, r.indexOK = true, true
	r.mu.Unlock()

	unsubIndex, err := r.feed.SubscribeWorkOrderIndex(ctx,
		func(s domain.Snapshot[domain.WorkOrderRef]) { r.applyIndex(gen, s) },
		func(err error) { r.fail(gen, "work order index", err, &r.indexOK) },
	)
	if err != nil {
		r.abortStart(gen)
		return fmt.Errorf("subscribe work order index: %w", err)
	}

	unsubItems, err := r.feed.SubscribeCompletedItems(ctx, r.opts.FetchWindow,
		func(s domain.Snapshot[domain.Item]) { r.applyItems(gen, s) },
		func(err error) { r.fail(gen, "completed items", err, &r.itemsOK) },
	)
	if err != nil {
		unsubIndex()
		r.abortStart(gen)
		return fmt.Errorf("subscribe completed items: %w", err)
	}

	r.mu.Lock()
	if r.gen != gen {
		// Stopped while subscribing.
		r.mu.Unlock()
		unsubItems()
		unsubIndex()
		return nil
	}
	r.unsubs = []func(){unsubIndex, unsubItems}
	r.mu.Unlock()

	r.log.InfoContext(ctx, "timeline subscriptions started",
		slog.Int("limit", r.opts.Limit),
		slog.Int("fetch_window", r.opts.FetchWindow),
	)
	return nil
}

func (r *Reconciler) abortStart(gen uint64) {
	r.mu.Lock()
	if r.gen == gen {
		r.gen++
		r.running = false
	}
	r.mu.Unlock()
}

// Stop cancels both subscriptions and the highlight timer. Callbacks and
// timers from the stopped generation are ignored. The last entries are kept.
func (r *Reconciler) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	r.gen++
	r.running = false
	unsubs := r.unsubs
	r.unsubs = nil
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	clear(r.highlight)
	r.mu.Unlock()

	for _, unsub := range unsubs {
		unsub()
	}
	r.log.Info("timeline subscriptions stopped")
}

// Run starts the reconciler, refreshes it every tick and stops it when ctx
// is done.
func (r *Reconciler) Run(ctx context.Context) error {
	if err := r.Start(ctx); err != nil {
		return err
	}
	defer r.Stop()

	tick := r.opts.Tick
	if tick <= 0 {
		tick = time.Minute
	}
	ticker := r.clock.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.Chan():
			r.Refresh()
		}
	}
}

// Refresh recomputes the view against the current time without new data.
func (r *Reconciler) Refresh() {
	r.notifyMu.Lock()
	defer r.notifyMu.Unlock()

	r.mu.Lock()
	r.recomputeLocked(false)
	view, observers := r.viewLocked(), r.observersLocked()
	r.mu.Unlock()

	notify(observers, view)
}

// View returns a copy of the current state.
func (r *Reconciler) View() View {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.viewLocked()
}

// Entries returns a copy of the visible entries, newest first.
func (r *Reconciler) Entries() []domain.TimelineEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.TimelineEntry(nil), r.entries...)
}

// Stats returns the statistics of the visible entries.
func (r *Reconciler) Stats() domain.TimelineStats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.stats
}

// IsHighlighted reports whether id appeared within the highlight window.
func (r *Reconciler) IsHighlighted(id uuid.UUID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.highlight[id]
	return ok
}

// Connected reports whether both subscriptions are healthy.
func (r *Reconciler) Connected() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.connectedLocked()
}

func (r *Reconciler) connectedLocked() bool {
	return r.running && r.itemsOK && r.indexOK
}

func (r *Reconciler) applyItems(gen uint64, snap domain.Snapshot[domain.Item]) {
	r.notifyMu.Lock()
	defer r.notifyMu.Unlock()

	r.mu.Lock()
	if gen != r.gen {
		r.mu.Unlock()
		return
	}
	r.items = snap.Docs
	r.itemsOK = true
	baseline := !r.itemsLoaded
	r.itemsLoaded = true
	r.recomputeLocked(!baseline)
	view, observers := r.viewLocked(), r.observersLocked()
	r.mu.Unlock()

	if len(view.Arrived) > 0 {
		r.log.Debug("timeline entries arrived", slog.Int("count", len(view.Arrived)))
	}
	notify(observers, view)
}

func (r *Reconciler) applyIndex(gen uint64, snap domain.Snapshot[domain.WorkOrderRef]) {
	r.notifyMu.Lock()
	defer r.notifyMu.Unlock()

	r.mu.Lock()
	if gen != r.gen {
		r.mu.Unlock()
		return
	}
	numbers := make(map[uuid.UUID]string, len(snap.Docs))
	for _, ref := range snap.Docs {
		numbers[ref.ID] = ref.Number
	}
	r.numbers = numbers
	r.indexOK = true
	r.recomputeLocked(false)
	view, observers := r.viewLocked(), r.observersLocked()
	r.mu.Unlock()

	notify(observers, view)
}

func (r *Reconciler) fail(gen uint64, what string, err error, flag *bool) {
	r.notifyMu.Lock()
	defer r.notifyMu.Unlock()

	r.mu.Lock()
	if gen != r.gen {
		r.mu.Unlock()
		return
	}
	*flag = false
	view, observers := r.viewLocked(), r.observersLocked()
	r.mu.Unlock()

	r.log.Warn("timeline subscription failed",
		slog.String("subscription", what),
		slog.String("error", err.Error()),
	)
	notify(observers, view)
}

func (r *Reconciler) expire(gen uint64) {
	r.notifyMu.Lock()
	defer r.notifyMu.Unlock()

	r.mu.Lock()
	if gen != r.gen {
		r.mu.Unlock()
		return
	}
	now := r.clock.Now()
	for id, until := range r.highlight {
		if !until.After(now) {
			delete(r.highlight, id)
		}
	}
	r.timer = nil
	r.armLocked()
	view, observers := r.viewLocked(), r.observersLocked()
	r.mu.Unlock()

	notify(observers, view)
}

// recomputeLocked rebuilds the visible entries from the latest snapshots.
// When markArrivals is set, ids absent from the previous visible set are
// highlighted.
func (r *Reconciler) recomputeLocked(markArrivals bool) {
	latest := make(map[uuid.UUID]domain.Item, len(r.items))
	for _, it := range r.items {
		if !it.Status.IsCompleted() {
			continue
		}
		if prev, ok := latest[it.ID]; ok && !it.UpdatedAt.After(prev.UpdatedAt) {
			continue
		}
		latest[it.ID] = it
	}

	entries := make([]domain.TimelineEntry, 0, len(latest))
	for _, it := range latest {
		entries = append(entries, r.buildEntry(it))
	}
	sort.Slice(entries, func(i, j int) bool { return newerFirst(entries[i], entries[j]) })
	if len(entries) > r.opts.Limit {
		entries = entries[:r.opts.Limit]
	}

	visible := make(map[uuid.UUID]struct{}, len(entries))
	for _, e := range entries {
		visible[e.ItemID] = struct{}{}
	}

	var arrived []uuid.UUID
	if markArrivals {
		for _, e := range entries {
			if _, seen := r.visible[e.ItemID]; !seen {
				arrived = append(arrived, e.ItemID)
			}
		}
	}

	for id := range r.highlight {
		if _, ok := visible[id]; !ok {
			delete(r.highlight, id)
		}
	}
	now := r.clock.Now()
	for _, id := range arrived {
		r.highlight[id] = now.Add(r.opts.HighlightWindow)
	}

	r.entries = entries
	r.visible = visible
	r.arrived = arrived
	r.stats = Summarize(entries, r.formatter.Now())
	r.updatedAt = now
	r.armLocked()
}

// armLocked points the single highlight timer at the earliest expiry.
func (r *Reconciler) armLocked() {
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	if !r.running || len(r.highlight) == 0 {
		return
	}

	var next time.Time
	for _, until := range r.highlight {
		if next.IsZero() || until.Before(next) {
			next = until
		}
	}
	wait := next.Sub(r.clock.Now())
	if wait < 0 {
		wait = 0
	}
	gen := r.gen
	r.timer = r.clock.AfterFunc(wait, func() { r.expire(gen) })
}

func (r *Reconciler) buildEntry(it domain.Item) domain.TimelineEntry {
	created, completed := r.formatter.Instants(it)
	status := r.formatter.Format(created, it.Code, it.Status, completed)

	number, ok := r.numbers[it.WorkOrderID]
	if !ok || number == "" {
		number = domain.WorkOrderNumberFallback
	}

	e := domain.TimelineEntry{
		ItemID:          it.ID,
		WorkOrderID:     it.WorkOrderID,
		WorkOrderNumber: number,
		ItemNumber:      it.ItemNumber,
		Code:            it.Code,
		Description:     it.Description,
		Quantity:        it.Quantity,
		Batch:           it.Batch,
		Status:          it.Status,
		Priority:        it.Priority,
		Category:        status.Category,
		CreatedAt:       created,
		CompletedAt:     completed,
		IsDelayed:       status.IsDelayed,
		UpdatedAt:       it.UpdatedAt,
		ElapsedTime:     sla.TextTimeUnavailable,
	}
	if !created.IsZero() && !completed.IsZero() && !completed.Before(created) {
		e.Resolution = sla.Elapsed(created, completed)
		e.HasResolution = true
		e.ElapsedTime = sla.FormatDuration(e.Resolution)
	}
	return e
}

// newerFirst orders by completion instant, then last update, then id.
// Entries without a completion instant sort last.
func newerFirst(a, b domain.TimelineEntry) bool {
	if !a.CompletedAt.Equal(b.CompletedAt) {
		if a.CompletedAt.IsZero() || b.CompletedAt.IsZero() {
			return b.CompletedAt.IsZero()
		}
		return a.CompletedAt.After(b.CompletedAt)
	}
	if !a.UpdatedAt.Equal(b.UpdatedAt) {
		return a.UpdatedAt.After(b.UpdatedAt)
	}
	return a.ItemID.String() < b.ItemID.String()
}

func (r *Reconciler) viewLocked() View {
	highlighted := make([]uuid.UUID, 0, len(r.highlight))
	for _, e := range r.entries {
		if _, ok := r.highlight[e.ItemID]; ok {
			highlighted = append(highlighted, e.ItemID)
		}
	}
	return View{
		Entries:     append([]domain.TimelineEntry(nil), r.entries...),
		Stats:       r.stats,
		Highlighted: highlighted,
		Arrived:     append([]uuid.UUID(nil), r.arrived...),
		Connected:   r.connectedLocked(),
		UpdatedAt:   r.updatedAt,
	}
}

func (r *Reconciler) observersLocked() []func(View) {
	return append([]func(View)(nil), r.observers...)
}

func notify(observers []func(View), v View) {
	for _, fn := range observers {
		fn(v)
	}
}
