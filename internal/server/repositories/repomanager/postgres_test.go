package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/userauth/internal/server/migrations"
	"github.com/dmitrijs2005/userauth/internal/server/repositories/revokedtokens"
	"github.com/dmitrijs2005/userauth/internal/server/repositories/users"
	"github.com/pressly/goose/v3"
)

func newDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func TestManagers_SatisfyInterface(t *testing.T) {
	var _ RepositoryManager = NewPostgresRepositoryManager()
	var _ RepositoryManager = NewSQLiteRepositoryManager()
}

func TestFactories_ReturnConcreteRepos(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	for _, m := range []RepositoryManager{NewPostgresRepositoryManager(), NewSQLiteRepositoryManager()} {
		if u := m.Users(db); u == nil {
			t.Fatal("Users() nil")
		}
		if rt := m.RevokedTokens(db); rt == nil {
			t.Fatal("RevokedTokens() nil")
		}

		var _ users.Repository = m.Users(db)
		var _ revokedtokens.Repository = m.RevokedTokens(db)
	}
}

func TestRunMigrations_Dirs(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	tests := []struct {
		name    string
		manager RepositoryManager
		wantDir string
	}{
		{"postgres", NewPostgresRepositoryManager(), migrations.PostgresDir},
		{"sqlite", NewSQLiteRepositoryManager(), migrations.SQLiteDir},
	}

	orig := gooseUpContext
	defer func() { gooseUpContext = orig }()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotDir string
			gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
				gotDir = dir
				if len(opts) != 0 {
					return errors.New("unexpected opts")
				}
				return nil
			}

			if err := tt.manager.RunMigrations(context.Background(), db); err != nil {
				t.Fatalf("RunMigrations error: %v", err)
			}
			if gotDir != tt.wantDir {
				t.Fatalf("dir = %q, want %q", gotDir, tt.wantDir)
			}
		})
	}
}

func TestRunMigrations_Error(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	orig := gooseUpContext
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return errors.New("boom")
	}
	defer func() { gooseUpContext = orig }()

	m := NewPostgresRepositoryManager()
	if err := m.RunMigrations(context.Background(), db); err == nil || err.Error() != "boom" {
		t.Fatalf("expected boom, got %v", err)
	}
}
