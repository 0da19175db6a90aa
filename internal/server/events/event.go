// Package events carries record-store write notifications from the ingestion
// path to the activation trigger. Delivery is at-least-once and unordered;
// consumers must tolerate duplicates.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// OperationPut is the operation type of a new-record write.
const OperationPut = "put"

// ErrBusClosed is returned when publishing on a closed bus.
var ErrBusClosed = errors.New("event bus closed")

// WriteEvent describes one write against a record store.
type WriteEvent struct {
	Store      string    `json:"store"`
	Operation  string    `json:"operation"`
	RecordID   string    `json:"record_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Handler processes one event. A non-nil error leaves the event unacknowledged
// on buses that support redelivery.
type Handler func(ctx context.Context, ev WriteEvent) error

// Publisher emits write events.
type Publisher interface {
	Publish(ctx context.Context, ev WriteEvent) error
}

// Subscriber delivers events to h until ctx is cancelled.
type Subscriber interface {
	Subscribe(ctx context.Context, h Handler) error
}

// Bus is a Publisher and Subscriber that owns network resources.
type Bus interface {
	Publisher
	Subscriber
	Close() error
}

// Encode serialises ev as JSON.
func Encode(ev WriteEvent) ([]byte, error) {
	b, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("marshaling event: %w", err)
	}
	return b, nil
}

// Decode parses a JSON-encoded event.
func Decode(data []byte) (WriteEvent, error) {
	var ev WriteEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return ev, fmt.Errorf("decoding event: %w", err)
	}
	return ev, nil
}
