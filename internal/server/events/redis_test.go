package events

import (
	"context"
	"errors"
	"testing"

	"github.com/jaineet17/AWS-File-Processing-System/internal/logging"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRedisPublisher struct {
	channel string
	payload any
	err     error
}

func (f *fakeRedisPublisher) Publish(ctx context.Context, channel string, message any) *redis.IntCmd {
	f.channel = channel
	f.payload = message
	cmd := redis.NewIntCmd(ctx)
	if f.err != nil {
		cmd.SetErr(f.err)
	} else {
		cmd.SetVal(1)
	}
	return cmd
}

func TestRedisBus_Publish(t *testing.T) {
	fake := &fakeRedisPublisher{}
	bus := &RedisBus{pub: fake, channel: "record-writes", logger: logging.Nop()}

	ev := WriteEvent{Store: "ingestion_records", Operation: OperationPut, RecordID: "id-9"}
	require.NoError(t, bus.Publish(context.Background(), ev))

	assert.Equal(t, "record-writes", fake.channel)
	payload, ok := fake.payload.([]byte)
	require.True(t, ok)
	got, err := Decode(payload)
	require.NoError(t, err)
	assert.Equal(t, ev, got)
}

func TestRedisBus_PublishError(t *testing.T) {
	bus := &RedisBus{pub: &fakeRedisPublisher{err: errors.New("connection refused")}, channel: "c", logger: logging.Nop()}

	err := bus.Publish(context.Background(), WriteEvent{RecordID: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "publishing to redis")
}

func TestRedisBus_Deliver(t *testing.T) {
	bus := &RedisBus{channel: "c", logger: logging.Nop()}

	var got []string
	h := func(_ context.Context, ev WriteEvent) error {
		got = append(got, ev.RecordID)
		return errors.New("ignored")
	}

	bus.deliver(context.Background(), `{"store":"t","operation":"put","record_id":"a","occurred_at":"2026-10-14T12:00:00Z"}`, h)
	bus.deliver(context.Background(), "not json", h)

	assert.Equal(t, []string{"a"}, got)
}

func TestNewRedisBus(t *testing.T) {
	bus := NewRedisBus(RedisOptions{Addr: "localhost:6379", Channel: "record-writes"}, logging.Nop())
	assert.Equal(t, "record-writes", bus.channel)
	assert.NotNil(t, bus.client)
	assert.NoError(t, bus.Close())
}
