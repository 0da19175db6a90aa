package events

import (
	"context"
	"fmt"
	"time"

	"github.com/jaineet17/AWS-File-Processing-System/internal/logging"
	"github.com/segmentio/kafka-go"
)

// KafkaOptions configures the Kafka bus.
type KafkaOptions struct {
	Brokers []string
	Topic   string
	GroupID string
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

var (
	newKafkaWriter = func(o KafkaOptions) messageWriter {
		return &kafka.Writer{
			Addr:         kafka.TCP(o.Brokers...),
			Topic:        o.Topic,
			Balancer:     &kafka.Hash{},
			BatchTimeout: 10 * time.Millisecond,
			MaxAttempts:  3,
			RequiredAcks: kafka.RequireAll,
		}
	}

	newKafkaReader = func(o KafkaOptions) messageReader {
		return kafka.NewReader(kafka.ReaderConfig{
			Brokers:     o.Brokers,
			Topic:       o.Topic,
			GroupID:     o.GroupID,
			MinBytes:    1,
			MaxBytes:    10e6,
			StartOffset: kafka.FirstOffset,
		})
	}
)

// KafkaBus publishes events keyed by record id and consumes them through a
// consumer group, committing each message after its handler succeeds.
type KafkaBus struct {
	opts   KafkaOptions
	writer messageWriter
	logger logging.Logger
}

func NewKafkaBus(o KafkaOptions, logger logging.Logger) *KafkaBus {
	return &KafkaBus{
		opts:   o,
		writer: newKafkaWriter(o),
		logger: logger.With("module", "kafka_bus", "topic", o.Topic),
	}
}

func (b *KafkaBus) Publish(ctx context.Context, ev WriteEvent) error {
	value, err := Encode(ev)
	if err != nil {
		return err
	}
	msg := kafka.Message{Key: []byte(ev.RecordID), Value: value}

	if err := b.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publishing to kafka: %w", err)
	}
	b.logger.Debug(ctx, "event published", "record_id", ev.RecordID)
	return nil
}

// Subscribe enters the consume loop until ctx is cancelled. Messages whose
// handler fails, or that cannot be decoded, are not committed.
func (b *KafkaBus) Subscribe(ctx context.Context, h Handler) error {
	reader := newKafkaReader(b.opts)
	defer reader.Close()

	b.logger.Info(ctx, "consumer started", "group", b.opts.GroupID)
	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				b.logger.Info(ctx, "consumer stopping")
				return nil
			}
			b.logger.Error(ctx, "failed to fetch message", "error", err)
			continue
		}

		ev, err := Decode(msg.Value)
		if err != nil {
			b.logger.Error(ctx, "skipping undecodable message", "partition", msg.Partition, "offset", msg.Offset, "error", err)
			continue
		}
		if err := h(ctx, ev); err != nil {
			b.logger.Error(ctx, "failed to process message", "partition", msg.Partition, "offset", msg.Offset, "error", err)
			continue
		}
		if err := reader.CommitMessages(ctx, msg); err != nil {
			b.logger.Error(ctx, "failed to commit message", "partition", msg.Partition, "offset", msg.Offset, "error", err)
		}
	}
}

// Close flushes pending writes and closes the writer.
func (b *KafkaBus) Close() error {
	return b.writer.Close()
}
