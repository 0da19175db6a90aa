package config

import (
	"flag"
	"io"

	"github.com/jaineet17/AWS-File-Processing-System/internal/flagx"
)

var flagNames = []string{
	"a", "d", "u", "p", "b", "g", "e",
	"blob-backend", "record-backend", "table", "dynamodb-endpoint",
	"event-bus", "kafka-brokers", "kafka-topic", "kafka-group", "redis-addr", "redis-channel",
	"trigger", "compute-backend", "compute-target",
	"id-generator", "orphan-policy", "log-level", "log-format", "shutdown-timeout",
}

// parseFlags populates Config fields from command-line flags.
//
// Short flags:
//
//	-a string   HTTP bind address (e.g. ":8080")
//	-d string   PostgreSQL DSN
//	-u string   S3 access key
//	-p string   S3 secret key
//	-b string   S3 bucket name
//	-g string   AWS region
//	-e string   S3 base endpoint (e.g. "http://127.0.0.1:9000/")
//
// The remaining flags use long names, see flagNames. Boolean -trigger must
// be written as -trigger=false to disable, a separate "false" is not read.
func parseFlags(config *Config, args []string) error {
	// Filter args to include only the flags handled here.
	filtered := flagx.FilterArgs(args, flagNames...)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 access key")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 secret key")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.AWSRegion, "g", config.AWSRegion, "AWS region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	fs.StringVar(&config.BlobBackend, "blob-backend", config.BlobBackend, "blob store backend: s3|memory")
	fs.StringVar(&config.RecordBackend, "record-backend", config.RecordBackend, "record store backend: postgres|dynamodb|memory")
	fs.StringVar(&config.RecordTable, "table", config.RecordTable, "record table name")
	fs.StringVar(&config.DynamoDBEndpoint, "dynamodb-endpoint", config.DynamoDBEndpoint, "DynamoDB endpoint override")

	fs.StringVar(&config.EventBus, "event-bus", config.EventBus, "event bus: memory|kafka|redis")
	brokers := fs.String("kafka-brokers", "", "comma separated Kafka brokers")
	fs.StringVar(&config.KafkaTopic, "kafka-topic", config.KafkaTopic, "Kafka topic for write events")
	fs.StringVar(&config.KafkaGroupID, "kafka-group", config.KafkaGroupID, "Kafka consumer group")
	fs.StringVar(&config.RedisAddr, "redis-addr", config.RedisAddr, "Redis address")
	fs.StringVar(&config.RedisChannel, "redis-channel", config.RedisChannel, "Redis channel for write events")

	fs.BoolVar(&config.TriggerEnabled, "trigger", config.TriggerEnabled, "run the activation trigger")
	fs.StringVar(&config.ComputeBackend, "compute-backend", config.ComputeBackend, "compute target control: ec2|log")
	fs.StringVar(&config.ComputeTargetID, "compute-target", config.ComputeTargetID, "compute target id (EC2 instance id)")

	fs.StringVar(&config.IDGenerator, "id-generator", config.IDGenerator, "id generator: nanoid|uuid")
	fs.StringVar(&config.OrphanPolicy, "orphan-policy", config.OrphanPolicy, "blob handling after a failed record write: keep|delete")
	fs.StringVar(&config.LogLevel, "log-level", config.LogLevel, "log level")
	fs.StringVar(&config.LogFormat, "log-format", config.LogFormat, "log format: json|text")

	shutdownTimeout := fs.Duration("shutdown-timeout", config.ShutdownTimeout, "graceful shutdown timeout")

	if err := fs.Parse(filtered); err != nil {
		return err
	}

	if *brokers != "" {
		config.KafkaBrokers = splitList(*brokers)
	}
	config.ShutdownTimeout = *shutdownTimeout
	return nil
}
