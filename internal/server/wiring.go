package server

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/jaineet17/AWS-File-Processing-System/internal/dbx"
	"github.com/jaineet17/AWS-File-Processing-System/internal/logging"
	"github.com/jaineet17/AWS-File-Processing-System/internal/metrics"
	"github.com/jaineet17/AWS-File-Processing-System/internal/server/blobstore"
	"github.com/jaineet17/AWS-File-Processing-System/internal/server/compute"
	"github.com/jaineet17/AWS-File-Processing-System/internal/server/config"
	"github.com/jaineet17/AWS-File-Processing-System/internal/server/events"
	"github.com/jaineet17/AWS-File-Processing-System/internal/server/repositories/records"
	"github.com/jaineet17/AWS-File-Processing-System/internal/server/repositories/repomanager"
)

func newMetrics() *metrics.Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return metrics.New(reg)
}

func newBlobStore(ctx context.Context, c *config.Config) (blobstore.Store, error) {
	switch c.BlobBackend {
	case config.BackendMemory:
		return blobstore.NewMemoryStore(c.S3Bucket), nil
	case config.BackendS3:
		return blobstore.NewS3Store(ctx, blobstore.S3Options{
			Bucket:       c.S3Bucket,
			Region:       c.AWSRegion,
			BaseEndpoint: c.S3BaseEndpoint,
			AccessKey:    c.S3RootUser,
			SecretKey:    c.S3RootPassword,
		})
	default:
		return nil, fmt.Errorf("unknown blob backend %q", c.BlobBackend)
	}
}

// newRecordRepository opens the record store. The returned close function
// is never nil.
func newRecordRepository(ctx context.Context, c *config.Config) (records.Repository, func() error, error) {
	noop := func() error { return nil }

	switch c.RecordBackend {
	case config.BackendMemory:
		return records.NewMemoryRepository(), noop, nil
	case config.BackendDynamoDB:
		repo, err := records.NewDynamoDBRepository(ctx, c.RecordTable, c.AWSRegion, c.DynamoDBEndpoint)
		if err != nil {
			return nil, noop, err
		}
		return repo, noop, nil
	case config.BackendPostgres:
		db, err := dbx.OpenPostgres(ctx, c.DatabaseDSN)
		if err != nil {
			return nil, noop, fmt.Errorf("db init error: %w", err)
		}
		rm := repomanager.NewPostgresRepositoryManager()
		if err := rm.RunMigrations(ctx, db); err != nil {
			db.Close()
			return nil, noop, err
		}
		return rm.Records(db), db.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown record backend %q", c.RecordBackend)
	}
}

func newBus(c *config.Config, logger logging.Logger) (events.Bus, error) {
	switch c.EventBus {
	case config.BusMemory:
		return events.NewMemoryBus(logger), nil
	case config.BusKafka:
		return events.NewKafkaBus(events.KafkaOptions{
			Brokers: c.KafkaBrokers,
			Topic:   c.KafkaTopic,
			GroupID: c.KafkaGroupID,
		}, logger), nil
	case config.BusRedis:
		return events.NewRedisBus(events.RedisOptions{
			Addr:    c.RedisAddr,
			Channel: c.RedisChannel,
		}, logger), nil
	default:
		return nil, fmt.Errorf("unknown event bus %q", c.EventBus)
	}
}

func newDispatcher(ctx context.Context, c *config.Config, logger logging.Logger) (compute.Dispatcher, error) {
	switch c.ComputeBackend {
	case config.ComputeLog:
		return compute.NewLogDispatcher(logger), nil
	case config.ComputeEC2:
		return compute.NewEC2Dispatcher(ctx, compute.EC2Options{Region: c.AWSRegion})
	default:
		return nil, fmt.Errorf("unknown compute backend %q", c.ComputeBackend)
	}
}
