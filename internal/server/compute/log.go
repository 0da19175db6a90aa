package compute

import (
	"context"
	"sync/atomic"

	"github.com/jaineet17/AWS-File-Processing-System/internal/logging"
)

// LogDispatcher only records that a start was requested. It stands in for a
// real target in local runs.
type LogDispatcher struct {
	logger logging.Logger
	starts atomic.Int64
}

func NewLogDispatcher(logger logging.Logger) *LogDispatcher {
	return &LogDispatcher{logger: logger.With("module", "log_dispatcher")}
}

func (d *LogDispatcher) Start(ctx context.Context, targetID string) error {
	d.starts.Add(1)
	d.logger.Info(ctx, "start requested", "target_id", targetID)
	return nil
}

// Starts returns how many start commands were issued.
func (d *LogDispatcher) Starts() int64 {
	return d.starts.Load()
}
