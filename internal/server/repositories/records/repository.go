// Package records stores one immutable metadata record per ingested item.
package records

import (
	"context"

	"github.com/jaineet17/AWS-File-Processing-System/internal/server/models"
)

// Repository is the record store. Put must reject an id that already exists
// with common.ErrorAlreadyExists; GetByID returns common.ErrorNotFound for an
// unknown id.
type Repository interface {
	Put(ctx context.Context, record *models.IngestionRecord) error
	GetByID(ctx context.Context, id string) (*models.IngestionRecord, error)
}
