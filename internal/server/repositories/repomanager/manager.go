package repomanager

import (
	"context"
	"database/sql"

	"github.com/jaineet17/AWS-File-Processing-System/internal/dbx"
	"github.com/jaineet17/AWS-File-Processing-System/internal/server/repositories/records"
)

// RepositoryManager vends SQL-backed repositories and applies the schema.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Records(db dbx.DBTX) records.Repository
}
