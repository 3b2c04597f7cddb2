package repo

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ovaphlow/pitchfork/service-admin-go/internal/employee/entity"
)

var employeeColumns = []string{
	"id", "username", "name", "password", "phone", "sex", "id_number", "status", "role",
	"create_time", "update_time", "create_user", "update_user",
}

func newRepoWithMock(t *testing.T) (*EmployeeRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return NewEmployeeRepo(sqlx.NewDb(db, "postgres")), mock
}

func aliceRow() *sqlmock.Rows {
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	return sqlmock.NewRows(employeeColumns).
		AddRow(int64(7), "alice", "Alice", "5ebe2294ecd0e0f08eab7690d2a6ee69", "13800000000", "1",
			"110101199001011234", 1, "admin", ts, ts, int64(1), int64(1))
}

func TestGetByUsername_Found(t *testing.T) {
	r, mock := newRepoWithMock(t)
	mock.ExpectQuery(`SELECT .+ FROM employee WHERE username = \$1`).
		WithArgs("alice").
		WillReturnRows(aliceRow())

	got, err := r.GetByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.ID)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, "5ebe2294ecd0e0f08eab7690d2a6ee69", got.Password)
	assert.True(t, got.Enabled())
}

func TestGetByUsername_NotFound(t *testing.T) {
	r, mock := newRepoWithMock(t)
	mock.ExpectQuery(`SELECT .+ FROM employee WHERE username = \$1`).
		WithArgs("bob").
		WillReturnRows(sqlmock.NewRows(employeeColumns))

	_, err := r.GetByUsername(context.Background(), "bob")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestGetByID(t *testing.T) {
	r, mock := newRepoWithMock(t)
	mock.ExpectQuery(`SELECT .+ FROM employee WHERE id = \$1`).
		WithArgs(int64(7)).
		WillReturnRows(aliceRow())

	got, err := r.GetByID(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)
	assert.Equal(t, "110101199001011234", got.IDNumber)
}

func TestCreate(t *testing.T) {
	r, mock := newRepoWithMock(t)
	mock.ExpectExec(`INSERT INTO employee \(id, username, .+\) VALUES \(\$1, \$2, .+\)`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := r.Create(context.Background(), &entity.Employee{ID: 9, Username: "carol", Name: "Carol"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestCreate_Duplicate(t *testing.T) {
	r, mock := newRepoWithMock(t)
	mock.ExpectExec(`INSERT INTO employee`).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "employee_username_key"})

	_, err := r.Create(context.Background(), &entity.Employee{ID: 9, Username: "alice"})
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.Contains(t, err.Error(), "employee_username_key")
}

func TestCreate_OtherError(t *testing.T) {
	r, mock := newRepoWithMock(t)
	mock.ExpectExec(`INSERT INTO employee`).WillReturnError(errors.New("db down"))

	_, err := r.Create(context.Background(), &entity.Employee{ID: 9})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrDuplicate)
}

func TestPage(t *testing.T) {
	r, mock := newRepoWithMock(t)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM employee WHERE`).
		WithArgs("ali").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(1)))
	mock.ExpectQuery(`SELECT .+ FROM employee WHERE .+ ORDER BY create_time DESC, id DESC LIMIT \$2 OFFSET \$3`).
		WithArgs("ali", 10, 0).
		WillReturnRows(aliceRow())

	rows, total, err := r.Page(context.Background(), "ali", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, rows, 1)
	assert.Equal(t, "alice", rows[0].Username)
}

func TestPage_EmptySkipsSelect(t *testing.T) {
	r, mock := newRepoWithMock(t)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM employee WHERE`).
		WithArgs("").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(0)))

	rows, total, err := r.Page(context.Background(), "", 10, 0)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestUpdatePassword(t *testing.T) {
	r, mock := newRepoWithMock(t)
	mock.ExpectExec(`UPDATE employee SET password = \$2, update_time = NOW\(\), update_user = \$3 WHERE id = \$1`).
		WithArgs(int64(7), "digest", int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := r.UpdatePassword(context.Background(), 7, "digest", 7)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestUpdateStatus_NoRows(t *testing.T) {
	r, mock := newRepoWithMock(t)
	mock.ExpectExec(`UPDATE employee SET status = \$2`).
		WithArgs(int64(404), 0, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	n, err := r.UpdateStatus(context.Background(), 404, 0, 1)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestUpdate(t *testing.T) {
	r, mock := newRepoWithMock(t)
	mock.ExpectExec(`UPDATE employee SET\s+username = COALESCE\(NULLIF\(\$1, ''\), username\)`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := r.Update(context.Background(), &entity.Employee{ID: 7, Name: "Alice B"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
