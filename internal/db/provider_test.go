package db

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edumanage/educenter/internal/config"
)

func newMockProvider(t *testing.T) (*Provider, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return NewProviderFromDB(sqlDB, DialectMySQL, WithQueryTimeout(time.Second)), mock
}

func TestExecuteUpdate_ReturnsAffectedRows(t *testing.T) {
	p, mock := newMockProvider(t)

	mock.ExpectPrepare(`UPDATE attendance SET called = \? WHERE session_id = \?`).
		ExpectExec().
		WithArgs(true, "s1").
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := p.ExecuteUpdate(context.Background(), "UPDATE attendance SET called = ? WHERE session_id = ?", true, "s1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecuteUpdate_WrapsStatementFailure(t *testing.T) {
	p, mock := newMockProvider(t)

	mock.ExpectPrepare(`DELETE FROM holidays`).
		ExpectExec().
		WillReturnError(errors.New("table locked"))

	_, err := p.ExecuteUpdate(context.Background(), "DELETE FROM holidays")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStatementFailed)
}

func TestExecuteQuery_PositionedBeforeFirstRow(t *testing.T) {
	p, mock := newMockProvider(t)

	rows := sqlmock.NewRows([]string{"id", "name"}).
		AddRow("r1", "Phòng 101").
		AddRow("r2", "Phòng 102")
	mock.ExpectPrepare(`SELECT id, name FROM classrooms`).ExpectQuery().WillReturnRows(rows)

	res, err := p.ExecuteQuery(context.Background(), "SELECT id, name FROM classrooms")
	require.NoError(t, err)

	var ids []string
	for res.Next() {
		var id, name string
		require.NoError(t, res.Scan(&id, &name))
		ids = append(ids, id)
	}
	assert.Equal(t, []string{"r1", "r2"}, ids)
	assert.NoError(t, res.Close())
	assert.NoError(t, res.Close(), "second close is a no-op")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecuteQuery_PrepareFailureReleasesConnection(t *testing.T) {
	p, mock := newMockProvider(t)

	mock.ExpectPrepare(`SELECT broken`).WillReturnError(errors.New("syntax error"))

	res, err := p.ExecuteQuery(context.Background(), "SELECT broken")
	require.Error(t, err)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrStatementFailed)
	assert.Equal(t, 0, p.DB.Stats().InUse)
}

func TestExecuteQuery_QueryFailureClosesStatement(t *testing.T) {
	p, mock := newMockProvider(t)

	mock.ExpectPrepare(`SELECT \* FROM students WHERE id = \?`).
		WillBeClosed().
		ExpectQuery().
		WithArgs("x").
		WillReturnError(errors.New("lost connection"))

	_, err := p.ExecuteQuery(context.Background(), "SELECT * FROM students WHERE id = ?", "x")
	require.Error(t, err)
	assert.Equal(t, 0, p.DB.Stats().InUse)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRollback_NilIsIgnored(t *testing.T) {
	p, _ := newMockProvider(t)
	assert.NotPanics(t, func() { p.Rollback(nil) })
}

func TestRollback_ActiveAndFinishedTransactions(t *testing.T) {
	p, mock := newMockProvider(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	tx, err := p.DB.Begin()
	require.NoError(t, err)

	p.Rollback(tx)
	assert.NotPanics(t, func() { p.Rollback(tx) }, "rolling back a finished transaction only logs")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCloseConnection_Idempotent(t *testing.T) {
	p, _ := newMockProvider(t)

	conn, err := p.GetConnection(context.Background())
	require.NoError(t, err)

	p.CloseConnection(conn)
	assert.NotPanics(t, func() { p.CloseConnection(conn) })
	assert.NotPanics(t, func() { p.CloseConnection(nil) })
}

func TestWithTransaction_CommitAndRollback(t *testing.T) {
	p, mock := newMockProvider(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM user_preferences`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := p.WithTransaction(context.Background(), func(ctx context.Context, tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, "DELETE FROM user_preferences")
		return err
	})
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectRollback()

	boom := errors.New("boom")
	err = p.WithTransaction(context.Background(), func(ctx context.Context, tx *sql.Tx) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBuilderPlaceholders(t *testing.T) {
	mysqlP := NewProviderFromDB(nil, DialectMySQL)
	pgP := NewProviderFromDB(nil, DialectPostgres)

	q, _, err := mysqlP.Builder().Select("id").From("users").Where("username = ?", "an").ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM users WHERE username = ?", q)

	q, _, err = pgP.Builder().Select("id").From("users").Where("username = ?", "an").ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM users WHERE username = $1", q)
}

func TestQueryOne_NoRows(t *testing.T) {
	p, mock := newMockProvider(t)

	mock.ExpectPrepare(`SELECT id FROM users WHERE id = \?`).
		ExpectQuery().
		WithArgs("100001").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	err := p.QueryOne(context.Background(),
		p.Builder().Select("id").From("users").Where("id = ?", "100001"),
		func(s Scanner) error { return nil })
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestNewProvider_UnknownDriver(t *testing.T) {
	cfg := &config.Config{}
	cfg.Database.Driver = "oracle"

	_, err := NewProvider(cfg)
	assert.ErrorIs(t, err, ErrDriverNotFound)
}
