package tasks

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophtasks/internal/common"
	"github.com/dmitrijs2005/gophtasks/internal/server/models"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	listQ   = `(?s)^SELECT\s+id,\s*user_id,\s*title,\s*description,\s*is_completed,\s*created_at,\s*updated_at\s+FROM\s+tasks\s+WHERE\s+user_id\s*=\s*\$1\s+ORDER\s+BY\s+created_at\s+DESC\s*$`
	insertQ = `(?s)^INSERT\s+INTO\s+tasks\s*\(id,\s*user_id,\s*title,\s*description,\s*is_completed,\s*created_at,\s*updated_at\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5,\s*\$6,\s*\$7\)\s*$`
	getQ    = `(?s)^SELECT\s+id,\s*user_id,\s*title,\s*description,\s*is_completed,\s*created_at,\s*updated_at\s+FROM\s+tasks\s+WHERE\s+id\s*=\s*\$1\s*$`
	deleteQ = `(?s)^DELETE\s+FROM\s+tasks\s+WHERE\s+id\s*=\s*\$1\s*$`
)

var fixedNow = time.Date(2025, 5, 4, 3, 2, 1, 0, time.UTC)

func newRepoWithMock(t *testing.T) (*SQLRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	repo := NewSQLRepository(db)
	repo.now = func() time.Time { return fixedNow }
	return repo, mock, db
}

func taskRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "title", "description", "is_completed", "created_at", "updated_at"})
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestListByUser_NewestFirst(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	older := fixedNow.Add(-time.Hour)
	mock.ExpectQuery(listQ).WithArgs("u-1").WillReturnRows(taskRows().
		AddRow("t-2", "u-1", "Walk dog", nil, true, fixedNow, fixedNow).
		AddRow("t-1", "u-1", "Buy milk", "2 litres", false, older, older))

	got, err := repo.ListByUser(context.Background(), "u-1")
	require.NoError(t, err)

	want := []*models.Task{
		{ID: "t-2", UserID: "u-1", Title: "Walk dog", IsCompleted: true, CreatedAt: fixedNow, UpdatedAt: fixedNow},
		{ID: "t-1", UserID: "u-1", Title: "Buy milk", Description: strPtr("2 litres"), CreatedAt: older, UpdatedAt: older},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("tasks mismatch (-want +got):\n%s", diff)
	}
}

func TestListByUser_EmptyIsNotNil(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(listQ).WithArgs("u-1").WillReturnRows(taskRows())

	got, err := repo.ListByUser(context.Background(), "u-1")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestListByUser_Errors(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(listQ).WillReturnError(errors.New("db down"))
	_, err := repo.ListByUser(context.Background(), "u-1")
	assert.ErrorContains(t, err, "db error: db down")

	mock.ExpectQuery(listQ).WillReturnRows(taskRows().
		AddRow("t-1", "u-1", "x", nil, false, fixedNow, fixedNow).
		RowError(0, errors.New("row broke")))
	_, err = repo.ListByUser(context.Background(), "u-1")
	assert.ErrorContains(t, err, "row broke")
}

func TestCreate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(insertQ).
		WithArgs(sqlmock.AnyArg(), "u-1", "Buy milk", nil, false, fixedNow, fixedNow).
		WillReturnResult(sqlmock.NewResult(0, 1))

	got, err := repo.Create(context.Background(), &models.Task{UserID: "u-1", Title: "Buy milk"})
	require.NoError(t, err)
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, fixedNow, got.CreatedAt)
	assert.Equal(t, fixedNow, got.UpdatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(insertQ).WillReturnError(errors.New("disk full"))

	_, err := repo.Create(context.Background(), &models.Task{UserID: "u-1", Title: "x"})
	assert.ErrorContains(t, err, "db error: disk full")
}

func TestGetByID(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(getQ).WithArgs("t-1").WillReturnRows(taskRows().
		AddRow("t-1", "u-1", "Buy milk", nil, false, fixedNow, fixedNow))
	mock.ExpectQuery(getQ).WithArgs("t-404").WillReturnError(sql.ErrNoRows)

	got, err := repo.GetByID(context.Background(), "t-1")
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", got.Title)
	assert.Nil(t, got.Description)

	_, err = repo.GetByID(context.Background(), "t-404")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestUpdate_WritesOnlyPatchedColumns(t *testing.T) {
	tests := []struct {
		name  string
		patch models.TaskPatch
		query string
		args  []driver.Value
	}{
		{
			name:  "completion only",
			patch: models.TaskPatch{IsCompleted: boolPtr(true)},
			query: `(?s)^UPDATE\s+tasks\s+SET\s+is_completed\s*=\s*\$1,\s*updated_at\s*=\s*\$2\s+WHERE\s+id\s*=\s*\$3\s*$`,
			args:  []driver.Value{true, fixedNow, "t-1"},
		},
		{
			name:  "title and null description",
			patch: models.TaskPatch{Title: strPtr("New"), SetDescription: true},
			query: `(?s)^UPDATE\s+tasks\s+SET\s+title\s*=\s*\$1,\s*description\s*=\s*\$2,\s*updated_at\s*=\s*\$3\s+WHERE\s+id\s*=\s*\$4\s*$`,
			args:  []driver.Value{"New", nil, fixedNow, "t-1"},
		},
		{
			name:  "everything",
			patch: models.TaskPatch{Title: strPtr("T"), Description: strPtr("D"), SetDescription: true, IsCompleted: boolPtr(false)},
			query: `(?s)^UPDATE\s+tasks\s+SET\s+title\s*=\s*\$1,\s*description\s*=\s*\$2,\s*is_completed\s*=\s*\$3,\s*updated_at\s*=\s*\$4\s+WHERE\s+id\s*=\s*\$5\s*$`,
			args:  []driver.Value{"T", "D", false, fixedNow, "t-1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, db := newRepoWithMock(t)
			defer db.Close()

			mock.ExpectExec(tt.query).WithArgs(tt.args...).WillReturnResult(sqlmock.NewResult(0, 1))

			require.NoError(t, repo.Update(context.Background(), "t-1", tt.patch))
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUpdate_Missing(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`^UPDATE tasks`).WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), "t-404", models.TaskPatch{IsCompleted: boolPtr(true)})
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestDelete(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(deleteQ).WithArgs("t-1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(deleteQ).WithArgs("t-1").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(deleteQ).WithArgs("t-2").WillReturnError(errors.New("locked"))

	require.NoError(t, repo.Delete(context.Background(), "t-1"))
	assert.ErrorIs(t, repo.Delete(context.Background(), "t-1"), common.ErrorNotFound)
	assert.ErrorContains(t, repo.Delete(context.Background(), "t-2"), "db error: locked")
}
