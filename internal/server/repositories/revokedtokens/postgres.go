package revokedtokens

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/userauth/internal/dbx"
)

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db  dbx.DBTX
	now func() time.Time
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db, now: time.Now}
}

func (r *PostgresRepository) Revoke(ctx context.Context, token string) (bool, error) {
	query := `
		INSERT INTO revoked_tokens (token, revoked_at)
		VALUES ($1, $2)
		ON CONFLICT (token) DO NOTHING
	`
	res, err := r.db.ExecContext(ctx, query, token, r.now().UTC())
	if err != nil {
		return false, fmt.Errorf("error performing sql request: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n > 0, nil
}

func (r *PostgresRepository) Exists(ctx context.Context, token string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM revoked_tokens WHERE token = $1)`

	var found bool
	if err := r.db.QueryRowContext(ctx, query, token).Scan(&found); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return found, nil
}
