package app

import (
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"

	"github.com/heartmarshall/ntmanager-backend/internal/adapter/postgres/feed"
	itemrepo "github.com/heartmarshall/ntmanager-backend/internal/adapter/postgres/item"
	workorderrepo "github.com/heartmarshall/ntmanager-backend/internal/adapter/postgres/workorder"
	"github.com/heartmarshall/ntmanager-backend/internal/config"
	"github.com/heartmarshall/ntmanager-backend/internal/service/sla"
	"github.com/heartmarshall/ntmanager-backend/internal/service/timeline"
)

// Core holds the components shared by the server and the watch command.
type Core struct {
	Clock      clockwork.Clock
	Formatter  *sla.Formatter
	Items      *itemrepo.Repo
	WorkOrders *workorderrepo.Repo
	Timeline   *timeline.Reconciler
}

// NewCore builds the formatter, the repositories the timeline reads from
// and a reconciler fed by LISTEN/NOTIFY on pool.
func NewCore(logger *slog.Logger, cfg *config.Config, pool *pgxpool.Pool, clock clockwork.Clock) (*Core, error) {
	loc, err := cfg.SLA.Location()
	if err != nil {
		return nil, err
	}

	formatter := sla.NewFormatter(logger, sla.NewClassifier(cfg.SLA), clock, loc)
	items := itemrepo.New(pool)
	workOrders := workorderrepo.New(pool)

	watcher := feed.NewWatcher(logger, pool, clock, feed.Config{
		Coalesce: cfg.Timeline.Coalesce,
		RetryMin: cfg.Timeline.RetryMin,
		RetryMax: cfg.Timeline.RetryMax,
	})
	reconciler := timeline.NewReconciler(logger, feed.NewSource(watcher, items, workOrders), formatter, clock, timeline.Options{
		Limit:           cfg.Timeline.Limit,
		FetchWindow:     cfg.Timeline.FetchWindow,
		HighlightWindow: cfg.Timeline.HighlightWindow,
		Tick:            cfg.Timeline.Tick,
	})

	return &Core{
		Clock:      clock,
		Formatter:  formatter,
		Items:      items,
		WorkOrders: workOrders,
		Timeline:   reconciler,
	}, nil
}
