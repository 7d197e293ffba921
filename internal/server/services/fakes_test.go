package services

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophtasks/internal/common"
	"github.com/dmitrijs2005/gophtasks/internal/dbx"
	"github.com/dmitrijs2005/gophtasks/internal/server/config"
	"github.com/dmitrijs2005/gophtasks/internal/server/models"
	"github.com/dmitrijs2005/gophtasks/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/gophtasks/internal/server/repositories/tokens"
	"github.com/dmitrijs2005/gophtasks/internal/server/repositories/users"
	"github.com/google/uuid"
)

var errBoom = errors.New("boom")

// memStore backs the fake repositories. Setting an *Err field makes the
// matching operation fail.
type memStore struct {
	mu     sync.Mutex
	users  map[string]*models.User
	tokens map[string]*models.AccessToken
	tasks  map[string]*models.Task

	userGetErr    error
	userCreateErr error
	tokenFindErr  error
	tokenTouchErr error
	taskErr       error
}

func newMemStore() *memStore {
	return &memStore{
		users:  map[string]*models.User{},
		tokens: map[string]*models.AccessToken{},
		tasks:  map[string]*models.Task{},
	}
}

type fakeUsers struct{ s *memStore }

func (f fakeUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.userCreateErr != nil {
		return nil, f.s.userCreateErr
	}
	for _, existing := range f.s.users {
		if existing.Email == u.Email {
			return nil, common.ErrorAlreadyExists
		}
	}
	u.ID = uuid.NewString()
	cp := *u
	f.s.users[u.ID] = &cp
	return u, nil
}

func (f fakeUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.userGetErr != nil {
		return nil, f.s.userGetErr
	}
	for _, u := range f.s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f fakeUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.userGetErr != nil {
		return nil, f.s.userGetErr
	}
	u, ok := f.s.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

type fakeTokens struct{ s *memStore }

func (f fakeTokens) Create(_ context.Context, t *models.AccessToken) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	cp := *t
	f.s.tokens[t.ID] = &cp
	return nil
}

func (f fakeTokens) FindByID(_ context.Context, id string) (*models.AccessToken, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.tokenFindErr != nil {
		return nil, f.s.tokenFindErr
	}
	t, ok := f.s.tokens[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *t
	return &cp, nil
}

func (f fakeTokens) Delete(_ context.Context, id string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	delete(f.s.tokens, id)
	return nil
}

func (f fakeTokens) DeleteAllForUser(_ context.Context, userID string) (int64, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var n int64
	for id, t := range f.s.tokens {
		if t.UserID == userID {
			delete(f.s.tokens, id)
			n++
		}
	}
	return n, nil
}

func (f fakeTokens) Touch(_ context.Context, id string, at time.Time) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.tokenTouchErr != nil {
		return f.s.tokenTouchErr
	}
	if t, ok := f.s.tokens[id]; ok {
		t.LastUsedAt = &at
	}
	return nil
}

type fakeTasks struct{ s *memStore }

func (f fakeTasks) ListByUser(_ context.Context, userID string) ([]*models.Task, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.taskErr != nil {
		return nil, f.s.taskErr
	}
	out := make([]*models.Task, 0)
	for _, t := range f.s.tasks {
		if t.UserID == userID {
			cp := *t
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f fakeTasks) Create(_ context.Context, t *models.Task) (*models.Task, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.taskErr != nil {
		return nil, f.s.taskErr
	}
	t.ID = uuid.NewString()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	t.UpdatedAt = t.CreatedAt
	cp := *t
	f.s.tasks[t.ID] = &cp
	return t, nil
}

func (f fakeTasks) GetByID(_ context.Context, id string) (*models.Task, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.taskErr != nil {
		return nil, f.s.taskErr
	}
	t, ok := f.s.tasks[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *t
	return &cp, nil
}

func (f fakeTasks) Update(_ context.Context, id string, patch models.TaskPatch) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	t, ok := f.s.tasks[id]
	if !ok {
		return common.ErrorNotFound
	}
	patch.Apply(t)
	t.UpdatedAt = time.Now().UTC()
	return nil
}

func (f fakeTasks) Delete(_ context.Context, id string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if _, ok := f.s.tasks[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.s.tasks, id)
	return nil
}

type fakeRepoManager struct{ s *memStore }

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository              { return fakeUsers{m.s} }
func (m *fakeRepoManager) Tokens(dbx.DBTX) tokens.Repository            { return fakeTokens{m.s} }
func (m *fakeRepoManager) Tasks(dbx.DBTX) tasks.Repository              { return fakeTasks{m.s} }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func testConfig() *config.Config {
	return &config.Config{
		SecretKey:             "k",
		TokenValidityDuration: common.DefaultTokenValidity,
		BcryptCost:            4,
	}
}

// expectTx queues n committed transactions.
func expectTx(mock sqlmock.Sqlmock, n int) {
	for i := 0; i < n; i++ {
		mock.ExpectBegin()
		mock.ExpectCommit()
	}
}
