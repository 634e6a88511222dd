package services

import (
	"context"
	"database/sql"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/userauth/internal/common"
	"github.com/dmitrijs2005/userauth/internal/dbx"
	"github.com/dmitrijs2005/userauth/internal/server/auth"
	"github.com/dmitrijs2005/userauth/internal/server/models"
	revokedtokensrepo "github.com/dmitrijs2005/userauth/internal/server/repositories/revokedtokens"
	usersrepo "github.com/dmitrijs2005/userauth/internal/server/repositories/users"
)

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

type fakeUsersRepo struct {
	mu     sync.Mutex
	nextID int64
	byMail map[string]*models.User

	createErr error
	getErr    error
	deleteErr error
}

func newFakeUsersRepo(users ...*models.User) *fakeUsersRepo {
	f := &fakeUsersRepo{byMail: map[string]*models.User{}}
	for _, u := range users {
		f.nextID++
		u.ID = f.nextID
		f.byMail[u.Email] = u
	}
	return f
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	if _, ok := f.byMail[u.Email]; ok {
		return nil, common.ErrDuplicateEmail
	}
	f.nextID++
	u.ID = f.nextID
	f.byMail[u.Email] = u
	return u, nil
}

func (f *fakeUsersRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byMail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

func (f *fakeUsersRepo) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byMail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) Delete(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for email, u := range f.byMail {
		if u.ID == id {
			delete(f.byMail, email)
			return nil
		}
	}
	return common.ErrorNotFound
}

type fakeRepoManager struct {
	u *fakeUsersRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository       { return m.u }
func (m *fakeRepoManager) RevokedTokens(db dbx.DBTX) revokedtokensrepo.Repository {
	return nil
}

// fakeHasher stores "hashed:<pw>" and counts Verify calls.
type fakeHasher struct {
	mu          sync.Mutex
	hashErr     error
	verifyErr   error
	verifyCalls int
}

func (h *fakeHasher) Hash(plaintext string) (string, error) {
	if h.hashErr != nil {
		return "", h.hashErr
	}
	return "hashed:" + plaintext, nil
}

func (h *fakeHasher) Verify(plaintext, digest string) (bool, error) {
	h.mu.Lock()
	h.verifyCalls++
	h.mu.Unlock()
	if h.verifyErr != nil {
		return false, h.verifyErr
	}
	if !strings.HasPrefix(digest, "hashed:") {
		return false, auth.ErrMalformedDigest
	}
	return digest == "hashed:"+plaintext, nil
}

// fakeCodec issues "tok:<subject>" tokens and decodes them back.
type fakeCodec struct {
	issueErr error
	exp      time.Time
}

func (c *fakeCodec) Issue(subject string) (string, time.Time, error) {
	if c.issueErr != nil {
		return "", time.Time{}, c.issueErr
	}
	return "tok:" + subject, c.exp, nil
}

func (c *fakeCodec) Decode(token string) (*auth.Claims, error) {
	sub, ok := strings.CutPrefix(token, "tok:")
	if !ok {
		return nil, common.ErrInvalidToken
	}
	claims := &auth.Claims{}
	claims.Subject = sub
	return claims, nil
}

type fakeLedger struct {
	mu        sync.Mutex
	revoked   map[string]bool
	revokeErr error
	checkErr  error
	gotTx     dbx.DBTX
}

func newFakeLedger() *fakeLedger { return &fakeLedger{revoked: map[string]bool{}} }

func (l *fakeLedger) Revoke(ctx context.Context, tx dbx.DBTX, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.gotTx = tx
	if l.revokeErr != nil {
		return l.revokeErr
	}
	l.revoked[token] = true
	return nil
}

func (l *fakeLedger) IsRevoked(ctx context.Context, token string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.checkErr != nil {
		return false, l.checkErr
	}
	return l.revoked[token], nil
}
