// Package trigger starts the processing target whenever a new record lands
// in the configured record store. It knows nothing about the ingestion
// handler; it only sees write events.
package trigger

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/jaineet17/AWS-File-Processing-System/internal/logging"
	"github.com/jaineet17/AWS-File-Processing-System/internal/metrics"
	"github.com/jaineet17/AWS-File-Processing-System/internal/server/compute"
	"github.com/jaineet17/AWS-File-Processing-System/internal/server/events"
)

// State of the trigger.
type State int32

const (
	StateIdle State = iota
	StateMatched
	StateDispatching
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateMatched:
		return "matched"
	case StateDispatching:
		return "dispatching"
	default:
		return "unknown"
	}
}

// Rule selects the events that cause a dispatch.
type Rule struct {
	Operation string
	Store     string
}

// NewRule matches put events on store.
func NewRule(store string) Rule {
	return Rule{Operation: events.OperationPut, Store: store}
}

// Matches reports whether ev is a write of the rule's kind on the rule's store.
func (r Rule) Matches(ev events.WriteEvent) bool {
	return ev.Operation == r.Operation && ev.Store == r.Store
}

// Trigger issues one start command per matching event. It keeps no history:
// duplicates and bursts each produce a dispatch.
type Trigger struct {
	rule       Rule
	targetID   string
	dispatcher compute.Dispatcher
	logger     logging.Logger
	metrics    *metrics.Metrics

	mu    sync.Mutex
	state atomic.Int32
}

func New(rule Rule, targetID string, d compute.Dispatcher, logger logging.Logger, m *metrics.Metrics) *Trigger {
	return &Trigger{
		rule:       rule,
		targetID:   targetID,
		dispatcher: d,
		logger:     logger.With("module", "trigger", "store", rule.Store, "target_id", targetID),
		metrics:    m,
	}
}

// State returns the current state.
func (t *Trigger) State() State {
	return State(t.state.Load())
}

func (t *Trigger) set(s State) {
	t.state.Store(int32(s))
}

// Handle runs one event through the state machine and returns the outcome
// (metrics.OutcomeIgnored, OutcomeDispatched or OutcomeFailed). Dispatch
// errors end up in the log and the outcome, never in the return path of the
// bus.
func (t *Trigger) Handle(ctx context.Context, ev events.WriteEvent) string {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.rule.Matches(ev) {
		t.logger.Debug(ctx, "event ignored", "event_store", ev.Store, "operation", ev.Operation)
		t.metrics.TriggerEventsTotal.WithLabelValues(metrics.OutcomeIgnored).Inc()
		return metrics.OutcomeIgnored
	}

	t.set(StateMatched)
	defer t.set(StateIdle)

	t.set(StateDispatching)
	if err := t.dispatcher.Start(ctx, t.targetID); err != nil {
		t.logger.Error(ctx, "dispatch failed", "record_id", ev.RecordID, "error", err)
		t.metrics.TriggerEventsTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
		return metrics.OutcomeFailed
	}

	t.logger.Info(ctx, "target start dispatched", "record_id", ev.RecordID)
	t.metrics.TriggerEventsTotal.WithLabelValues(metrics.OutcomeDispatched).Inc()
	return metrics.OutcomeDispatched
}

// Run consumes events from sub until ctx is cancelled.
func (t *Trigger) Run(ctx context.Context, sub events.Subscriber) error {
	t.logger.Info(ctx, "activation trigger started")
	err := sub.Subscribe(ctx, func(ctx context.Context, ev events.WriteEvent) error {
		t.Handle(ctx, ev)
		return nil
	})
	t.logger.Info(ctx, "activation trigger stopped")
	return err
}
