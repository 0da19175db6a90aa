package server

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/jaineet17/AWS-File-Processing-System/internal/logging"
	"github.com/jaineet17/AWS-File-Processing-System/internal/server/config"
	"github.com/jaineet17/AWS-File-Processing-System/internal/server/events"
	"github.com/jaineet17/AWS-File-Processing-System/internal/server/httpapi"
	"github.com/jaineet17/AWS-File-Processing-System/internal/server/trigger"
)

// Activator runs the activation trigger on its own, consuming write events
// from Kafka or Redis. It serves only /health and /metrics.
type Activator struct {
	config  *config.Config
	logger  logging.Logger
	server  *httpapi.Server
	bus     events.Bus
	trigger *trigger.Trigger
}

func NewActivator(ctx context.Context, c *config.Config) (*Activator, error) {
	logger := logging.New(os.Stdout, c.LogLevel, c.LogFormat)
	return newActivator(ctx, c, logger)
}

func newActivator(ctx context.Context, c *config.Config, logger logging.Logger) (*Activator, error) {
	if c.EventBus == config.BusMemory {
		return nil, fmt.Errorf("activator needs an external event bus, got %q", c.EventBus)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	m := newMetrics()
	dispatcher, err := newDispatcher(ctx, c, logger)
	if err != nil {
		return nil, err
	}
	bus, err := newBus(c, logger)
	if err != nil {
		return nil, err
	}

	return &Activator{
		config:  c,
		logger:  logger,
		server:  httpapi.NewServer(logger, c.HTTPAddr, httpapi.NewMetricsHandler(m.Handler())),
		bus:     bus,
		trigger: trigger.New(trigger.NewRule(c.RecordTable), c.ComputeTargetID, dispatcher, logger, m),
	}, nil
}

func (a *Activator) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	stopSignals := initSignalHandler(cancelFunc)
	defer stopSignals()

	a.logger.Info(ctx, "Starting activator...", "bus", a.config.EventBus, "store", a.config.RecordTable)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return serveHTTP(a.server)
	})
	g.Go(func() error {
		<-gctx.Done()
		return shutdownHTTP(a.server, a.config.ShutdownTimeout)
	})
	g.Go(func() error {
		return a.trigger.Run(gctx, a.bus)
	})

	err := g.Wait()
	if cerr := a.bus.Close(); cerr != nil {
		a.logger.Error(context.Background(), "close bus", "error", cerr)
	}
	return err
}
