// Package feed turns Postgres LISTEN/NOTIFY channels into live query
// subscriptions. Every notification burst reloads the query and emits the
// full result set diffed against the previous one.
package feed

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"

	"github.com/heartmarshall/ntmanager-backend/internal/domain"
)

// Channels written by the change triggers.
const (
	ChannelItems      = "item_changes"
	ChannelWorkOrders = "nt_changes"
)

// Config controls coalescing and reconnection.
type Config struct {
	// Coalesce is how long to wait after a notification before reloading,
	// so a bulk write triggers one reload.
	Coalesce time.Duration
	RetryMin time.Duration
	RetryMax time.Duration
}

func (c Config) withDefaults() Config {
	if c.RetryMin <= 0 {
		c.RetryMin = time.Second
	}
	if c.RetryMax < c.RetryMin {
		c.RetryMax = c.RetryMin
	}
	if c.Coalesce < 0 {
		c.Coalesce = 0
	}
	return c
}

type listenConn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	WaitForNotification(ctx context.Context) (*pgconn.Notification, error)
	Release()
}

type connectFunc func(ctx context.Context) (listenConn, error)

type pooledConn struct {
	c *pgxpool.Conn
}

func (p pooledConn) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return p.c.Exec(ctx, sql, args...)
}

func (p pooledConn) WaitForNotification(ctx context.Context) (*pgconn.Notification, error) {
	return p.c.Conn().WaitForNotification(ctx)
}

func (p pooledConn) Release() { p.c.Release() }

// Watcher opens one dedicated connection per subscription.
type Watcher struct {
	connect connectFunc
	clock   clockwork.Clock
	cfg     Config
	log     *slog.Logger
}

// NewWatcher creates a Watcher that listens on connections acquired from pool.
func NewWatcher(log *slog.Logger, pool *pgxpool.Pool, clock clockwork.Clock, cfg Config) *Watcher {
	return newWatcher(log, func(ctx context.Context) (listenConn, error) {
		c, err := pool.Acquire(ctx)
		if err != nil {
			return nil, err
		}
		return pooledConn{c: c}, nil
	}, clock, cfg)
}

func newWatcher(log *slog.Logger, connect connectFunc, clock clockwork.Clock, cfg Config) *Watcher {
	return &Watcher{
		connect: connect,
		clock:   clock,
		cfg:     cfg.withDefaults(),
		log:     log.With("service", "feed"),
	}
}

// Query describes one live query.
type Query[T any] struct {
	Channel string
	Load    func(ctx context.Context) ([]T, error)
	Key     func(T) string
	Equal   func(a, b T) bool
}

// Watch runs q until the returned function is called or ctx is done. The
// first snapshot reports every document as added. Errors are reported to
// onError and the subscription retries with exponential backoff, resuming
// with a fresh snapshot. Callbacks run on a single goroutine and never after
// the returned function returns.
func Watch[T any](
	ctx context.Context,
	w *Watcher,
	q Query[T],
	onSnapshot func(domain.Snapshot[T]),
	onError func(error),
) func() {
	ctx, cancel := context.WithCancel(ctx)
	s := &subscription[T]{
		w:          w,
		q:          q,
		onSnapshot: onSnapshot,
		onError:    onError,
		log:        w.log.With(slog.String("channel", q.Channel)),
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.run(ctx)
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			<-done
		})
	}
}

type subscription[T any] struct {
	w          *Watcher
	q          Query[T]
	onSnapshot func(domain.Snapshot[T])
	onError    func(error)
	log        *slog.Logger

	prev    map[string]T
	emitted bool
}

func (s *subscription[T]) run(ctx context.Context) {
	backoff := s.w.cfg.RetryMin
	for {
		s.emitted = false
		err := s.session(ctx)
		if ctx.Err() != nil {
			return
		}
		if s.emitted {
			backoff = s.w.cfg.RetryMin
		}

		s.log.Warn("subscription interrupted",
			slog.String("error", err.Error()),
			slog.Duration("retry_in", backoff),
		)
		s.onError(err)

		select {
		case <-ctx.Done():
			return
		case <-s.w.clock.After(backoff):
		}
		backoff = min(backoff*2, s.w.cfg.RetryMax)
	}
}

// session holds one connection: LISTEN, initial load, then one reload per
// coalesced burst of notifications. It returns on the first error.
func (s *subscription[T]) session(ctx context.Context) error {
	conn, err := s.w.connect(ctx)
	if err != nil {
		return fmt.Errorf("acquire listen connection: %w", err)
	}

	listenCtx, stopListening := context.WithCancel(ctx)
	var wg sync.WaitGroup
	defer func() {
		stopListening()
		wg.Wait()
		unlisten(conn)
		conn.Release()
	}()

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{s.q.Channel}.Sanitize()); err != nil {
		return fmt.Errorf("listen %s: %w", s.q.Channel, err)
	}
	if err := s.reload(ctx); err != nil {
		return err
	}

	notes := make(chan struct{}, 1)
	errc := make(chan error, 1)
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			if _, err := conn.WaitForNotification(listenCtx); err != nil {
				errc <- err
				return
			}
			select {
			case notes <- struct{}{}:
			default:
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-errc:
			return fmt.Errorf("wait for notification: %w", err)
		case <-notes:
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.w.clock.After(s.w.cfg.Coalesce):
		}
		select {
		case <-notes:
		default:
		}

		if err := s.reload(ctx); err != nil {
			return err
		}
	}
}

func (s *subscription[T]) reload(ctx context.Context) error {
	docs, err := s.q.Load(ctx)
	if err != nil {
		return fmt.Errorf("reload %s: %w", s.q.Channel, err)
	}

	snap, next := Diff(s.prev, docs, s.q.Key, s.q.Equal)
	s.prev = next
	s.emitted = true
	s.onSnapshot(snap)
	return nil
}

// unlisten clears the connection's subscriptions before it goes back to the
// pool. A connection broken by cancellation just fails here.
func unlisten(conn listenConn) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, _ = conn.Exec(ctx, "UNLISTEN *")
}
