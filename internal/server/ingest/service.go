// Package ingest accepts a text-plus-file submission, stores the file bytes
// and a metadata record referencing them, and hands back the correlation id.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jaineet17/AWS-File-Processing-System/internal/common"
	"github.com/jaineet17/AWS-File-Processing-System/internal/idgen"
	"github.com/jaineet17/AWS-File-Processing-System/internal/logging"
	"github.com/jaineet17/AWS-File-Processing-System/internal/metrics"
	"github.com/jaineet17/AWS-File-Processing-System/internal/server/blobstore"
	"github.com/jaineet17/AWS-File-Processing-System/internal/server/models"
	"github.com/jaineet17/AWS-File-Processing-System/internal/server/repositories/records"
)

// Store names used in errors and metrics.
const (
	StoreBlob   = "blob"
	StoreRecord = "record"
)

// Service is the ingestion handler. It is stateless between calls and safe
// for concurrent use.
type Service struct {
	blobs        blobstore.Store
	records      records.Repository
	ids          idgen.Generator
	orphanPolicy string
	logger       logging.Logger
	metrics      *metrics.Metrics
}

func NewService(
	blobs blobstore.Store,
	repo records.Repository,
	ids idgen.Generator,
	orphanPolicy string,
	logger logging.Logger,
	m *metrics.Metrics,
) (*Service, error) {
	if err := common.ValidateOrphanPolicy(orphanPolicy); err != nil {
		return nil, err
	}
	if orphanPolicy == "" {
		orphanPolicy = common.OrphanKeep
	}
	return &Service{
		blobs:        blobs,
		records:      repo,
		ids:          ids,
		orphanPolicy: orphanPolicy,
		logger:       logger.With("module", "ingest"),
		metrics:      m,
	}, nil
}

// Ingest validates body, writes the file content and then its record, and
// returns the new id. The object is always written before the record; if
// the record write fails the object stays behind unless the orphan policy
// is "delete". Nothing is written when validation fails.
func (s *Service) Ingest(ctx context.Context, body Body) (string, error) {
	in, err := s.parse(body)
	if err != nil {
		s.metrics.IngestionsTotal.WithLabelValues(metrics.ResultInvalid).Inc()
		s.logger.Warn(ctx, "rejected ingestion request", "error", err)
		return "", err
	}

	bucket := s.blobs.Bucket()
	if bucket == "" {
		s.metrics.IngestionsTotal.WithLabelValues(metrics.ResultMisconfigured).Inc()
		s.logger.Error(ctx, "bucket name is not configured")
		return "", common.NewConfigurationError("bucket name")
	}

	id, err := s.ids.NewID()
	if err != nil {
		return "", fmt.Errorf("new id: %w", err)
	}
	key := models.ObjectKey(id)

	start := time.Now()
	err = s.blobs.Put(ctx, key, []byte(in.FileContent))
	s.metrics.ObserveWrite(StoreBlob, start, err)
	if err != nil {
		s.metrics.IngestionsTotal.WithLabelValues(metrics.ResultStoreFailure).Inc()
		s.logger.Error(ctx, "blob write failed", "id", id, "key", key, "error", err)
		return "", common.NewStoreWriteError(StoreBlob, err)
	}

	record := models.NewIngestionRecord(bucket, id, in.Text)
	start = time.Now()
	err = s.records.Put(ctx, record)
	s.metrics.ObserveWrite(StoreRecord, start, err)
	if err != nil {
		s.metrics.IngestionsTotal.WithLabelValues(metrics.ResultStoreFailure).Inc()
		s.logger.Error(ctx, "record write failed", "id", id, "error", err)
		s.handleOrphan(ctx, key)
		return "", common.NewStoreWriteError(StoreRecord, err)
	}

	s.metrics.IngestionsTotal.WithLabelValues(metrics.ResultAccepted).Inc()
	s.logger.Info(ctx, "processing started", "id", id, "input_file_path", record.InputFilePath)
	return id, nil
}

func (s *Service) parse(body Body) (Input, error) {
	if body == nil {
		return Input{}, common.NewValidationError(common.InvalidBodyFormat)
	}
	in, err := body.Parse()
	if err != nil {
		return Input{}, err
	}
	if in.Text == "" || in.FileContent == "" {
		return Input{}, common.NewValidationError(common.MissingInputFields)
	}
	return in, nil
}

func (s *Service) handleOrphan(ctx context.Context, key string) {
	s.metrics.OrphanedBlobsTotal.Inc()
	if s.orphanPolicy != common.OrphanDelete {
		s.logger.Warn(ctx, "object left without record", "key", key)
		return
	}
	if err := s.blobs.Delete(ctx, key); err != nil {
		s.logger.Error(ctx, "compensating delete failed", "key", key, "error", err)
	}
}

// Lookup returns the record stored for id, or common.ErrorNotFound.
func (s *Service) Lookup(ctx context.Context, id string) (*models.IngestionRecord, error) {
	record, err := s.records.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("lookup %s: %w", id, err)
	}
	return record, nil
}

// Content returns the stored file bytes for id. Both a missing record and a
// record whose object is gone report common.ErrorNotFound.
func (s *Service) Content(ctx context.Context, id string) ([]byte, error) {
	if _, err := s.Lookup(ctx, id); err != nil {
		return nil, err
	}

	key := models.ObjectKey(id)
	data, err := s.blobs.Get(ctx, key)
	if err != nil {
		if errors.Is(err, blobstore.ErrObjectNotFound) {
			return nil, fmt.Errorf("object %s: %w", key, common.ErrorNotFound)
		}
		return nil, fmt.Errorf("read object %s: %w", key, err)
	}
	return data, nil
}
