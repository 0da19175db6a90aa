package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jaineet17/AWS-File-Processing-System/internal/common"
	"github.com/jaineet17/AWS-File-Processing-System/internal/dbx"
	"github.com/jaineet17/AWS-File-Processing-System/internal/server/models"
)

// uniqueViolation is the PostgreSQL SQLSTATE for a duplicate key.
const uniqueViolation = "23505"

// PostgresRepository implements record storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Put inserts the record. There is no update path: a second insert of the
// same id fails with common.ErrorAlreadyExists.
func (r *PostgresRepository) Put(ctx context.Context, record *models.IngestionRecord) error {
	query := `INSERT INTO ingestion_records (id, input_text, input_file_path) VALUES ($1, $2, $3)`

	res, err := r.db.ExecContext(ctx, query, record.ID, record.InputText, record.InputFilePath)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n != 1 {
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
	return nil
}

// GetByID returns the record with the given id.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.IngestionRecord, error) {
	query := `SELECT id, input_text, input_file_path FROM ingestion_records WHERE id=$1`

	result := &models.IngestionRecord{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&result.ID, &result.InputText, &result.InputFilePath)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select record: %w", err)
	}
	return result, nil
}
