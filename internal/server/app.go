// Package server wires the ingestion service and the activation trigger
// from configuration and runs them until a shutdown signal arrives.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jaineet17/AWS-File-Processing-System/internal/idgen"
	"github.com/jaineet17/AWS-File-Processing-System/internal/logging"
	"github.com/jaineet17/AWS-File-Processing-System/internal/metrics"
	"github.com/jaineet17/AWS-File-Processing-System/internal/server/compute"
	"github.com/jaineet17/AWS-File-Processing-System/internal/server/config"
	"github.com/jaineet17/AWS-File-Processing-System/internal/server/events"
	"github.com/jaineet17/AWS-File-Processing-System/internal/server/httpapi"
	"github.com/jaineet17/AWS-File-Processing-System/internal/server/ingest"
	"github.com/jaineet17/AWS-File-Processing-System/internal/server/trigger"
)

// App is the ingestion service. With the in-process bus it also hosts the
// activation trigger; with Kafka or Redis the trigger runs in cmd/activator.
type App struct {
	config     *config.Config
	logger     logging.Logger
	metrics    *metrics.Metrics
	server     *httpapi.Server
	bus        events.Bus
	dispatcher compute.Dispatcher
	trigger    *trigger.Trigger
	closers    []func() error
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(os.Stdout, c.LogLevel, c.LogFormat)
	return newApp(ctx, c, logger)
}

func newApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	if err := c.Validate(); err != nil {
		// Invocations report a missing bucket themselves.
		logger.Warn(ctx, "incomplete configuration", "error", err)
	}

	app := &App{config: c, logger: logger, metrics: newMetrics()}

	blobs, err := newBlobStore(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("blob store init error: %w", err)
	}

	repo, closeRepo, err := newRecordRepository(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("record store init error: %w", err)
	}
	app.closers = append(app.closers, closeRepo)

	app.bus, err = newBus(c, logger)
	if err != nil {
		app.close(ctx)
		return nil, err
	}
	app.closers = append(app.closers, app.bus.Close)
	if mb, ok := app.bus.(*events.MemoryBus); ok {
		app.metrics.TrackDroppedEvents(func() float64 { return float64(mb.Dropped()) })
	}

	ids, err := idgen.New(c.IDGenerator)
	if err != nil {
		app.close(ctx)
		return nil, err
	}

	repo = events.WithWriteEvents(repo, app.bus, c.RecordTable, logger, app.metrics)
	svc, err := ingest.NewService(blobs, repo, ids, c.OrphanPolicy, logger, app.metrics)
	if err != nil {
		app.close(ctx)
		return nil, err
	}

	if c.TriggerEnabled && c.EventBus == config.BusMemory {
		app.dispatcher, err = newDispatcher(ctx, c, logger)
		if err != nil {
			app.close(ctx)
			return nil, err
		}
		app.trigger = trigger.New(trigger.NewRule(c.RecordTable), c.ComputeTargetID, app.dispatcher, logger, app.metrics)
	}

	app.server = httpapi.NewServer(logger, c.HTTPAddr,
		httpapi.NewIngestHandler(logger, svc),
		httpapi.NewMetricsHandler(app.metrics.Handler()),
	)
	return app, nil
}

// initSignalHandler cancels on SIGINT, SIGTERM or SIGQUIT. The returned
// function stops listening.
func initSignalHandler(cancelFunc context.CancelFunc) func() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		if _, ok := <-sigs; ok {
			cancelFunc()
		}
	}()

	return func() {
		signal.Stop(sigs)
		close(sigs)
	}
}

// Run serves until ctx is cancelled or a signal arrives, then shuts the
// HTTP server down within the configured timeout and releases resources.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	stopSignals := initSignalHandler(cancelFunc)
	defer stopSignals()

	app.logger.Info(ctx, "Starting app...", "addr", app.config.HTTPAddr, "trigger", app.trigger != nil)

	g, gctx := errgroup.WithContext(ctx)
	if app.trigger != nil {
		g.Go(func() error {
			return app.trigger.Run(gctx, app.bus)
		})
	}
	g.Go(func() error {
		return serveHTTP(app.server)
	})
	g.Go(func() error {
		<-gctx.Done()
		return shutdownHTTP(app.server, app.config.ShutdownTimeout)
	})

	err := g.Wait()
	app.close(context.Background())
	app.logger.Info(context.Background(), "app stopped")
	return err
}

func serveHTTP(s *httpapi.Server) error {
	if err := s.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

func shutdownHTTP(s *httpapi.Server, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := s.Stop(ctx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

func (app *App) close(ctx context.Context) {
	for i := len(app.closers) - 1; i >= 0; i-- {
		if err := app.closers[i](); err != nil {
			app.logger.Error(ctx, "close failed", "error", err)
		}
	}
	app.closers = nil
}
