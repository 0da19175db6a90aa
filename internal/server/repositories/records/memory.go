package records

import (
	"context"
	"sync"

	"github.com/jaineet17/AWS-File-Processing-System/internal/common"
	"github.com/jaineet17/AWS-File-Processing-System/internal/server/models"
)

// MemoryRepository keeps records in process memory for local runs and tests.
type MemoryRepository struct {
	mu      sync.RWMutex
	records map[string]models.IngestionRecord
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{records: make(map[string]models.IngestionRecord)}
}

func (m *MemoryRepository) Put(_ context.Context, record *models.IngestionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[record.ID]; ok {
		return common.ErrorAlreadyExists
	}
	m.records[record.ID] = *record
	return nil
}

func (m *MemoryRepository) GetByID(_ context.Context, id string) (*models.IngestionRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.records[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &r, nil
}

// Len returns the number of stored records.
func (m *MemoryRepository) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}
