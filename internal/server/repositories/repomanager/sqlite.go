package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/userauth/internal/server/migrations"
	_ "modernc.org/sqlite"
)

// SQLiteRepositoryManager shares the repository implementations with the
// PostgreSQL manager and only differs in the migration set.
type SQLiteRepositoryManager struct {
	PostgresRepositoryManager
}

func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return runMigrations(ctx, db, "sqlite3", migrations.SQLiteDir)
}

func NewSQLiteRepositoryManager() *SQLiteRepositoryManager {
	return &SQLiteRepositoryManager{}
}
