package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// parseEnv overlays environment variables onto config. BUCKET_NAME,
// TABLE_NAME and AWS_REGION follow the names the service has always been
// deployed with; the rest mirror the flag names.
func parseEnv(config *Config, lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	str("HTTP_ADDR", &config.HTTPAddr)
	str("BLOB_BACKEND", &config.BlobBackend)
	str("S3_ACCESS_KEY", &config.S3RootUser)
	str("S3_SECRET_KEY", &config.S3RootPassword)
	str("BUCKET_NAME", &config.S3Bucket)
	str("AWS_REGION", &config.AWSRegion)
	str("S3_ENDPOINT", &config.S3BaseEndpoint)
	str("RECORD_BACKEND", &config.RecordBackend)
	str("DATABASE_DSN", &config.DatabaseDSN)
	str("TABLE_NAME", &config.RecordTable)
	str("DYNAMODB_ENDPOINT", &config.DynamoDBEndpoint)
	str("EVENT_BUS", &config.EventBus)
	str("KAFKA_TOPIC", &config.KafkaTopic)
	str("KAFKA_GROUP_ID", &config.KafkaGroupID)
	str("REDIS_ADDR", &config.RedisAddr)
	str("REDIS_CHANNEL", &config.RedisChannel)
	str("COMPUTE_BACKEND", &config.ComputeBackend)
	str("COMPUTE_TARGET_ID", &config.ComputeTargetID)
	str("ID_GENERATOR", &config.IDGenerator)
	str("ORPHAN_POLICY", &config.OrphanPolicy)
	str("LOG_LEVEL", &config.LogLevel)
	str("LOG_FORMAT", &config.LogFormat)

	if v, ok := lookup("KAFKA_BROKERS"); ok && v != "" {
		config.KafkaBrokers = splitList(v)
	}
	if v, ok := lookup("TRIGGER_ENABLED"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("TRIGGER_ENABLED: %w", err)
		}
		config.TriggerEnabled = b
	}
	if v, ok := lookup("SHUTDOWN_TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("SHUTDOWN_TIMEOUT: %w", err)
		}
		config.ShutdownTimeout = d
	}
	return nil
}

// splitList splits a comma separated list, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
