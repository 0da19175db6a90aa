package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jaineet17/AWS-File-Processing-System/internal/flagx"
	"github.com/jaineet17/AWS-File-Processing-System/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk shape of the configuration. Durations use
// timex.Duration so files may write "10s" or integer nanoseconds.
//
// Only keys present in the file override the current values. The trigger
// flag is a pointer so that an explicit false is distinguishable from absence.
type FileConfig struct {
	HTTPAddr         string         `json:"http_addr" yaml:"http_addr"`
	BlobBackend      string         `json:"blob_backend" yaml:"blob_backend"`
	S3RootUser       string         `json:"s3_root_user" yaml:"s3_root_user"`
	S3RootPassword   string         `json:"s3_root_password" yaml:"s3_root_password"`
	S3Bucket         string         `json:"s3_bucket" yaml:"s3_bucket"`
	AWSRegion        string         `json:"aws_region" yaml:"aws_region"`
	S3BaseEndpoint   string         `json:"s3_base_endpoint" yaml:"s3_base_endpoint"`
	RecordBackend    string         `json:"record_backend" yaml:"record_backend"`
	DatabaseDSN      string         `json:"database_dsn" yaml:"database_dsn"`
	RecordTable      string         `json:"record_table" yaml:"record_table"`
	DynamoDBEndpoint string         `json:"dynamodb_endpoint" yaml:"dynamodb_endpoint"`
	EventBus         string         `json:"event_bus" yaml:"event_bus"`
	KafkaBrokers     []string       `json:"kafka_brokers" yaml:"kafka_brokers"`
	KafkaTopic       string         `json:"kafka_topic" yaml:"kafka_topic"`
	KafkaGroupID     string         `json:"kafka_group_id" yaml:"kafka_group_id"`
	RedisAddr        string         `json:"redis_addr" yaml:"redis_addr"`
	RedisChannel     string         `json:"redis_channel" yaml:"redis_channel"`
	TriggerEnabled   *bool          `json:"trigger_enabled" yaml:"trigger_enabled"`
	ComputeBackend   string         `json:"compute_backend" yaml:"compute_backend"`
	ComputeTargetID  string         `json:"compute_target_id" yaml:"compute_target_id"`
	IDGenerator      string         `json:"id_generator" yaml:"id_generator"`
	OrphanPolicy     string         `json:"orphan_policy" yaml:"orphan_policy"`
	LogLevel         string         `json:"log_level" yaml:"log_level"`
	LogFormat        string         `json:"log_format" yaml:"log_format"`
	ShutdownTimeout  timex.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// parseFile loads the file named by -c/-config, if any, and overlays it onto
// config. Files ending in .yaml or .yml are read as YAML, anything else as JSON.
func parseFile(config *Config, args []string) error {
	path := flagx.ConfigFilePath(args)

	// nothing to load
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	fc := &FileConfig{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, fc)
	default:
		err = json.Unmarshal(data, fc)
	}
	if err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	fc.apply(config)
	return nil
}

func (fc *FileConfig) apply(config *Config) {
	setString(&config.HTTPAddr, fc.HTTPAddr)
	setString(&config.BlobBackend, fc.BlobBackend)
	setString(&config.S3RootUser, fc.S3RootUser)
	setString(&config.S3RootPassword, fc.S3RootPassword)
	setString(&config.S3Bucket, fc.S3Bucket)
	setString(&config.AWSRegion, fc.AWSRegion)
	setString(&config.S3BaseEndpoint, fc.S3BaseEndpoint)
	setString(&config.RecordBackend, fc.RecordBackend)
	setString(&config.DatabaseDSN, fc.DatabaseDSN)
	setString(&config.RecordTable, fc.RecordTable)
	setString(&config.DynamoDBEndpoint, fc.DynamoDBEndpoint)
	setString(&config.EventBus, fc.EventBus)
	if len(fc.KafkaBrokers) > 0 {
		config.KafkaBrokers = fc.KafkaBrokers
	}
	setString(&config.KafkaTopic, fc.KafkaTopic)
	setString(&config.KafkaGroupID, fc.KafkaGroupID)
	setString(&config.RedisAddr, fc.RedisAddr)
	setString(&config.RedisChannel, fc.RedisChannel)
	if fc.TriggerEnabled != nil {
		config.TriggerEnabled = *fc.TriggerEnabled
	}
	setString(&config.ComputeBackend, fc.ComputeBackend)
	setString(&config.ComputeTargetID, fc.ComputeTargetID)
	setString(&config.IDGenerator, fc.IDGenerator)
	setString(&config.OrphanPolicy, fc.OrphanPolicy)
	setString(&config.LogLevel, fc.LogLevel)
	setString(&config.LogFormat, fc.LogFormat)
	if fc.ShutdownTimeout.Duration > 0 {
		config.ShutdownTimeout = fc.ShutdownTimeout.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
