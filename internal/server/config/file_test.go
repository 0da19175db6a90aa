package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func Test_parseFile_SourcesAndPrecedence(t *testing.T) {
	t.Run("loads from json", func(t *testing.T) {
		path := writeTempFile(t, "cfg.json", `{
			"http_addr": "www.example:9000",
			"s3_bucket": "bucket",
			"record_backend": "memory",
			"kafka_brokers": ["k:9092"],
			"trigger_enabled": false,
			"shutdown_timeout": "3m"
		}`)

		cfg := &Config{}
		cfg.LoadDefaults()
		require.NoError(t, parseFile(cfg, []string{"-config", path}))

		assert.Equal(t, "www.example:9000", cfg.HTTPAddr)
		assert.Equal(t, "bucket", cfg.S3Bucket)
		assert.Equal(t, "memory", cfg.RecordBackend)
		assert.Equal(t, []string{"k:9092"}, cfg.KafkaBrokers)
		assert.False(t, cfg.TriggerEnabled)
		assert.Equal(t, 3*time.Minute, cfg.ShutdownTimeout)
		assert.Equal(t, "ingestion_records", cfg.RecordTable, "absent keys keep their value")
	})

	t.Run("loads from yaml", func(t *testing.T) {
		path := writeTempFile(t, "cfg.yaml", "record_table: FileProcessingTable\nevent_bus: redis\ncompute_backend: ec2\ncompute_target_id: i-0abc\n")

		cfg := &Config{}
		cfg.LoadDefaults()
		require.NoError(t, parseFile(cfg, []string{"-c", path}))

		assert.Equal(t, "FileProcessingTable", cfg.RecordTable)
		assert.Equal(t, "redis", cfg.EventBus)
		assert.Equal(t, "ec2", cfg.ComputeBackend)
		assert.Equal(t, "i-0abc", cfg.ComputeTargetID)
		assert.True(t, cfg.TriggerEnabled)
	})

	t.Run("no config flag → no changes", func(t *testing.T) {
		cfg := &Config{HTTPAddr: "defaults:1234"}
		require.NoError(t, parseFile(cfg, []string{"-a", ":1"}))
		assert.Equal(t, "defaults:1234", cfg.HTTPAddr)
	})

	t.Run("invalid JSON → error", func(t *testing.T) {
		path := writeTempFile(t, "bad.json", `{ this is not valid json`)
		require.Error(t, parseFile(&Config{}, []string{"-c", path}))
	})

	t.Run("missing file → error", func(t *testing.T) {
		err := parseFile(&Config{}, []string{"-c", filepath.Join(t.TempDir(), "nope.json")})
		require.ErrorContains(t, err, "read config file")
	})
}
