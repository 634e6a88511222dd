package repomanager

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/userauth/internal/filex"
)

// Driver names as registered with database/sql.
const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite"
)

// sqlOpen is a seam for tests.
var sqlOpen = sql.Open

// ParseDSN picks the driver for dsn. postgres:// and postgresql:// URLs go
// to pgx; sqlite://path, file: URIs and bare paths go to SQLite. The
// returned source is what the driver expects.
func ParseDSN(dsn string) (driver, source string, err error) {
	switch {
	case dsn == "":
		return "", "", fmt.Errorf("empty database dsn")
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return DriverPostgres, dsn, nil
	case strings.HasPrefix(dsn, "sqlite://"):
		return DriverSQLite, strings.TrimPrefix(dsn, "sqlite://"), nil
	case strings.Contains(dsn, "://"):
		return "", "", fmt.Errorf("unsupported database dsn scheme: %s", dsn[:strings.Index(dsn, "://")])
	default:
		return DriverSQLite, dsn, nil
	}
}

// Open connects to the database named by dsn, pings it and returns a
// manager for the matching dialect.
func Open(ctx context.Context, dsn string) (*sql.DB, RepositoryManager, error) {
	driver, source, err := ParseDSN(dsn)
	if err != nil {
		return nil, nil, err
	}

	var manager RepositoryManager
	switch driver {
	case DriverPostgres:
		manager = NewPostgresRepositoryManager()
	default:
		manager = NewSQLiteRepositoryManager()
		if path := sqlitePath(source); path != "" {
			if err := filex.EnsureParentDir(path); err != nil {
				return nil, nil, err
			}
		}
	}

	db, err := sqlOpen(driver, source)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if driver == DriverSQLite {
		// SQLite allows a single writer; serialize to avoid SQLITE_BUSY.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	return db, manager, nil
}

// sqlitePath returns the on-disk file behind source, or "" for in-memory
// databases.
func sqlitePath(source string) string {
	path := strings.TrimPrefix(source, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if path == "" || path == ":memory:" || strings.Contains(source, "mode=memory") {
		return ""
	}
	return path
}
