package migrations

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edumanage/educenter/internal/db"
)

func TestFiles_SelectsDialect(t *testing.T) {
	mysqlFiles, err := NewMigrator(db.NewProviderFromDB(nil, db.DialectMySQL)).Files()
	require.NoError(t, err)
	assert.Equal(t, []string{"001_init.sql", "002_constraints.mysql.sql"}, mysqlFiles)

	pgFiles, err := NewMigrator(db.NewProviderFromDB(nil, db.DialectPostgres)).Files()
	require.NoError(t, err)
	assert.Equal(t, []string{"001_init.sql", "002_constraints.postgres.sql"}, pgFiles)
}

func TestVersionOf(t *testing.T) {
	assert.Equal(t, "001", versionOf("001_init.sql"))
	assert.Equal(t, "002", versionOf("002_constraints.mysql.sql"))
}

func TestMigrate_SkipsAppliedVersions(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	m := NewMigrator(db.NewProviderFromDB(sqlDB, db.DialectMySQL))

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS schema_migrations`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectPrepare(`SELECT 1 FROM schema_migrations WHERE version = \?`).
		ExpectQuery().WithArgs("001").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectPrepare(`SELECT 1 FROM schema_migrations WHERE version = \?`).
		ExpectQuery().WithArgs("002").
		WillReturnRows(sqlmock.NewRows([]string{"1"}))
	mock.ExpectExec(`ALTER TABLE users`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectPrepare(`INSERT INTO schema_migrations`).
		ExpectExec().WithArgs("002", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, m.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
