package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/gophtasks/internal/dbx"
	"github.com/dmitrijs2005/gophtasks/internal/server/migrations"
	"github.com/dmitrijs2005/gophtasks/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/gophtasks/internal/server/repositories/tokens"
	"github.com/dmitrijs2005/gophtasks/internal/server/repositories/users"
	"github.com/pressly/goose/v3"
)

// SQLRepositoryManager vends the database/sql repositories. The queries are
// shared between dialects; only the migrations differ.
type SQLRepositoryManager struct {
	dialect dbx.Dialect
}

func (m *SQLRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewSQLRepository(db)
}

func (m *SQLRepositoryManager) Tokens(db dbx.DBTX) tokens.Repository {
	return tokens.NewSQLRepository(db)
}

func (m *SQLRepositoryManager) Tasks(db dbx.DBTX) tasks.Repository {
	return tasks.NewSQLRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded migrations for the manager's dialect.
func (m *SQLRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	dir, err := migrationsDir(m.dialect)
	if err != nil {
		return err
	}

	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(string(m.dialect)); err != nil {
		return err
	}

	return gooseUpContext(ctx, db, dir)
}

func migrationsDir(d dbx.Dialect) (string, error) {
	switch d {
	case dbx.DialectPostgres:
		return "postgres", nil
	case dbx.DialectSQLite:
		return "sqlite", nil
	}
	return "", fmt.Errorf("no migrations for dialect %q", d)
}

// NewRepositoryManager constructs a RepositoryManager for the given dialect.
func NewRepositoryManager(dialect dbx.Dialect) (RepositoryManager, error) {
	if _, err := migrationsDir(dialect); err != nil {
		return nil, err
	}
	return &SQLRepositoryManager{dialect: dialect}, nil
}
