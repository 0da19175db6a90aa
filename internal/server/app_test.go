package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaineet17/AWS-File-Processing-System/internal/logging"
	"github.com/jaineet17/AWS-File-Processing-System/internal/server/compute"
	"github.com/jaineet17/AWS-File-Processing-System/internal/server/config"
)

func memoryConfig() *config.Config {
	c := &config.Config{}
	c.LoadDefaults()
	c.HTTPAddr = "127.0.0.1:0"
	c.BlobBackend = config.BackendMemory
	c.RecordBackend = config.BackendMemory
	c.EventBus = config.BusMemory
	c.ComputeBackend = config.ComputeLog
	c.ComputeTargetID = "i-0abc"
	c.ShutdownTimeout = time.Second
	return c
}

func TestApp_IngestionActivatesTarget(t *testing.T) {
	app, err := newApp(context.Background(), memoryConfig(), logging.Nop())
	require.NoError(t, err)
	require.NotNil(t, app.trigger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	bus := app.bus.(interface{ Subscribers() int })
	require.Eventually(t, func() bool { return bus.Subscribers() == 1 }, time.Second, 5*time.Millisecond)

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"inputText":"hello","fileContent":"world"}`))
	rec := httptest.NewRecorder()
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	d := app.dispatcher.(*compute.LogDispatcher)
	require.Eventually(t, func() bool { return d.Starts() == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return")
	}
}

func TestApp_TriggerDisabled(t *testing.T) {
	c := memoryConfig()
	c.TriggerEnabled = false

	app, err := newApp(context.Background(), c, logging.Nop())
	require.NoError(t, err)
	assert.Nil(t, app.trigger)

	req := httptest.NewRequest(http.MethodPost, "/ingest", strings.NewReader(`{"inputText":"a","fileContent":"b"}`))
	rec := httptest.NewRecorder()
	app.server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestApp_ExternalBusLeavesTriggerToActivator(t *testing.T) {
	c := memoryConfig()
	c.EventBus = config.BusRedis

	app, err := newApp(context.Background(), c, logging.Nop())
	require.NoError(t, err)
	assert.Nil(t, app.trigger)
	app.close(context.Background())
}

func TestApp_MissingBucketStillStarts(t *testing.T) {
	c := memoryConfig()
	c.S3Bucket = ""

	app, err := newApp(context.Background(), c, logging.Nop())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"inputText":"a","fileContent":"b"}`))
	rec := httptest.NewRecorder()
	app.server.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing required configuration")
}

func TestApp_UnknownBackends(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"blob", func(c *config.Config) { c.BlobBackend = "ftp" }, `unknown blob backend "ftp"`},
		{"record", func(c *config.Config) { c.RecordBackend = "mongo" }, `unknown record backend "mongo"`},
		{"bus", func(c *config.Config) { c.EventBus = "nats" }, `unknown event bus "nats"`},
		{"compute", func(c *config.Config) { c.ComputeBackend = "k8s" }, `unknown compute backend "k8s"`},
		{"id generator", func(c *config.Config) { c.IDGenerator = "serial" }, `unknown id generator "serial"`},
		{"orphan policy", func(c *config.Config) { c.OrphanPolicy = "remove" }, `unknown orphan policy "remove"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := memoryConfig()
			tt.mutate(c)

			_, err := newApp(context.Background(), c, logging.Nop())
			require.ErrorContains(t, err, tt.want)
		})
	}
}

func TestActivator_RequiresExternalBus(t *testing.T) {
	_, err := newActivator(context.Background(), memoryConfig(), logging.Nop())
	require.ErrorContains(t, err, "external event bus")
}

func TestActivator_Builds(t *testing.T) {
	c := memoryConfig()
	c.EventBus = config.BusKafka

	a, err := newActivator(context.Background(), c, logging.Nop())
	require.NoError(t, err)
	assert.NotNil(t, a.trigger)
	assert.NoError(t, a.bus.Close())
}

func TestApp_WriteBeforeTriggerSubscribesIsCounted(t *testing.T) {
	app, err := newApp(context.Background(), memoryConfig(), logging.Nop())
	require.NoError(t, err)
	defer app.close(context.Background())

	rec := httptest.NewRecorder()
	app.server.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"inputText":"a","fileContent":"b"}`)))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	app.server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), "events_dropped_total 1")
}
