package events

import (
	"context"
	"time"

	"github.com/jaineet17/AWS-File-Processing-System/internal/logging"
	"github.com/jaineet17/AWS-File-Processing-System/internal/metrics"
	"github.com/jaineet17/AWS-File-Processing-System/internal/server/models"
	"github.com/jaineet17/AWS-File-Processing-System/internal/server/repositories/records"
)

// notifyingRepository emits a put event after every successful write to the
// wrapped record store. Reads pass straight through.
type notifyingRepository struct {
	records.Repository
	pub     Publisher
	store   string
	logger  logging.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// WithWriteEvents makes repo observable: each successful Put is followed by
// one WriteEvent naming store. A failed publish is logged and counted but not
// returned, since the record is already durable.
func WithWriteEvents(repo records.Repository, pub Publisher, store string, logger logging.Logger, m *metrics.Metrics) records.Repository {
	return &notifyingRepository{
		Repository: repo,
		pub:        pub,
		store:      store,
		logger:     logger.With("module", "write_events", "store", store),
		metrics:    m,
		now:        time.Now,
	}
}

func (r *notifyingRepository) Put(ctx context.Context, record *models.IngestionRecord) error {
	if err := r.Repository.Put(ctx, record); err != nil {
		return err
	}

	ev := WriteEvent{
		Store:      r.store,
		Operation:  OperationPut,
		RecordID:   record.ID,
		OccurredAt: r.now().UTC(),
	}
	if err := r.pub.Publish(ctx, ev); err != nil {
		r.logger.Warn(ctx, "write event not published, activation skipped", "record_id", record.ID, "error", err)
		r.metrics.WriteEventsTotal.WithLabelValues("error").Inc()
		return nil
	}
	r.metrics.WriteEventsTotal.WithLabelValues("ok").Inc()
	return nil
}
