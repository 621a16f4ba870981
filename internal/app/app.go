package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/ntmanager-backend/internal/adapter/amqp"
	"github.com/heartmarshall/ntmanager-backend/internal/adapter/postgres"
	settingrepo "github.com/heartmarshall/ntmanager-backend/internal/adapter/postgres/setting"
	"github.com/heartmarshall/ntmanager-backend/internal/config"
	"github.com/heartmarshall/ntmanager-backend/internal/metrics"
	"github.com/heartmarshall/ntmanager-backend/internal/service/batch"
	"github.com/heartmarshall/ntmanager-backend/internal/service/settings"
	"github.com/heartmarshall/ntmanager-backend/internal/service/timeline"
	"github.com/heartmarshall/ntmanager-backend/internal/service/workorder"
	"github.com/heartmarshall/ntmanager-backend/internal/transport/middleware"
	"github.com/heartmarshall/ntmanager-backend/internal/transport/rest"
	"github.com/heartmarshall/ntmanager-backend/internal/transport/ws"
)

// Options tweak Run.
type Options struct {
	// Migrate applies pending migrations before serving.
	Migrate bool
}

// Run connects to PostgreSQL, starts the timeline and serves HTTP until ctx
// is cancelled or a component fails.
func Run(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts Options) error {
	logger.InfoContext(ctx, "starting ntmanager",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	if opts.Migrate {
		if err := postgres.Migrate(ctx, cfg.Database.DSN, logger); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	clock := clockwork.NewRealClock()
	core, err := NewCore(logger, cfg, pool, clock)
	if err != nil {
		return err
	}
	txm := postgres.NewTxManager(pool)

	settingsSvc := settings.NewService(logger, settingrepo.New(pool), txm)
	if err := settingsSvc.Load(ctx); err != nil {
		return err
	}

	hub := ws.NewHub(logger, func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || cfg.CORS.Allows(origin)
	})

	var m *metrics.Metrics
	sinks := []batch.Sink{batch.NewLogSink(logger), hub}
	if cfg.Metrics.Enabled {
		m = metrics.New()
		sinks = append(sinks, m)
	}
	if cfg.AMQP.URL != "" {
		pub, err := amqp.Dial(logger, cfg.AMQP.URL, cfg.AMQP.Exchange)
		if err != nil {
			return err
		}
		defer pub.Close() //nolint:errcheck
		sinks = append(sinks, pub)
	}
	sink := batch.NewFanout(sinks...)

	batcher := batch.NewBatcher(logger, clock, cfg.Batch.Timeout, sink, settingsSvc)
	workOrderSvc := workorder.NewService(logger, core.WorkOrders, core.Items, txm, batcher, sink, settingsSvc, core.Formatter)

	core.Timeline.OnChange(func(v timeline.View) {
		if err := hub.Retain(ws.TypeTimeline, rest.NewTimelineResponse(v)); err != nil {
			logger.Error("publish timeline", slog.String("error", err.Error()))
		}
	})
	if m != nil {
		core.Timeline.OnChange(m.ObserveTimeline)
		m.GaugeFunc("ws", "clients", "Connected WebSocket clients.", func() float64 {
			return float64(hub.Clients())
		})
		m.GaugeFunc("batch", "active_operations", "Batch operations waiting to close.", func() float64 {
			return float64(len(batcher.Active()))
		})
	}

	handlers := rest.Handlers{
		Health:      rest.NewHealthHandler(pool, core.Timeline, Version),
		Timeline:    rest.NewTimelineHandler(core.Timeline),
		WorkOrder:   rest.NewWorkOrderHandler(workOrderSvc, logger),
		Batch:       rest.NewBatchHandler(batcher),
		Settings:    rest.NewSettingsHandler(settingsSvc, logger),
		WebSocket:   hub,
		MetricsPath: cfg.Metrics.Path,
	}
	var instrument middleware.Middleware
	if m != nil {
		handlers.Metrics = m.Handler()
		instrument = middleware.Instrument(m)
	}

	handler := middleware.Chain(
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Recovery(logger),
		middleware.CORS(cfg.CORS),
		instrument,
	)(rest.NewRouter(handlers))

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return core.Timeline.Run(gctx)
	})

	g.Go(func() error {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.ShutdownTimeout)
		defer cancel()

		hub.Close()
		err := srv.Shutdown(shutdownCtx)
		batcher.Close(shutdownCtx)
		if err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}
