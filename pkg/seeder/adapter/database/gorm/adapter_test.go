// Package gorm_test provides unit tests for the GORM database adapter.
package gorm_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	dbconfig "github.com/tigerroll/tanemaki/pkg/seeder/adapter/database/config"
	gormadapter "github.com/tigerroll/tanemaki/pkg/seeder/adapter/database/gorm"
	model "github.com/tigerroll/tanemaki/pkg/seeder/core/model"
	"github.com/tigerroll/tanemaki/pkg/seeder/support/util/exception"
)

// setupAdapterMock sets up a GORM connection backed by sqlmock.
func setupAdapterMock(t *testing.T) (*gormadapter.DBAdapter, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	assert.NoError(t, err)

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{SkipDefaultTransaction: true})
	assert.NoError(t, err)

	adapter := gormadapter.NewDBAdapter(gormDB, dbconfig.DatabaseConfig{Type: "mysql"})
	t.Cleanup(func() {
		mock.ExpectClose()
		assert.NoError(t, adapter.Close())
	})
	return adapter, mock
}

func TestDBAdapter_Truncate(t *testing.T) {
	adapter, mock := setupAdapterMock(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM users")).
		WillReturnResult(sqlmock.NewResult(0, 3))

	err := adapter.Truncate(context.Background(), "users")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDBAdapter_TruncateFailure(t *testing.T) {
	adapter, mock := setupAdapterMock(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM users")).
		WillReturnError(errors.New("table is locked"))

	err := adapter.Truncate(context.Background(), "users")
	assert.Error(t, err)
	assert.True(t, exception.IsBatchError(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDBAdapter_InsertMany(t *testing.T) {
	adapter, mock := setupAdapterMock(t)

	mock.ExpectExec("INSERT INTO `users`").
		WillReturnResult(sqlmock.NewResult(0, 2))

	records := []model.Record{
		{"id": "1", "name": "alice"},
		{"id": "2", "name": "bob"},
	}
	err := adapter.InsertMany(context.Background(), "users", records)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDBAdapter_InsertManyEmptyIsNoOp(t *testing.T) {
	adapter, mock := setupAdapterMock(t)

	err := adapter.InsertMany(context.Background(), "users", nil)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDBAdapter_InsertManyFailure(t *testing.T) {
	adapter, mock := setupAdapterMock(t)

	mock.ExpectExec("INSERT INTO `users`").
		WillReturnError(errors.New("constraint violation"))

	err := adapter.InsertMany(context.Background(), "users", []model.Record{{"id": "1"}})
	assert.Error(t, err)
	assert.True(t, exception.IsBatchError(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDBAdapter_TableExists(t *testing.T) {
	adapter, mock := setupAdapterMock(t)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM information_schema\\.tables").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(1))

	exists, err := adapter.TableExists(context.Background(), "users")
	assert.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDBAdapter_TableExistsFalse(t *testing.T) {
	adapter, mock := setupAdapterMock(t)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM information_schema\\.tables").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(0))

	exists, err := adapter.TableExists(context.Background(), "missing")
	assert.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDBAdapter_RejectsUnsafeTableNames(t *testing.T) {
	adapter, _ := setupAdapterMock(t)
	ctx := context.Background()

	for _, name := range []string{"", "users; DROP TABLE users", "users'--", "us ers"} {
		err := adapter.Truncate(ctx, name)
		assert.Error(t, err, "name %q should be rejected", name)
		assert.True(t, exception.IsConfigError(err))

		err = adapter.InsertMany(ctx, name, []model.Record{{"id": "1"}})
		assert.Error(t, err)

		_, err = adapter.TableExists(ctx, name)
		assert.Error(t, err)
	}
}

func TestDBAdapter_AcceptsQualifiedTableNames(t *testing.T) {
	adapter, mock := setupAdapterMock(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM app.users")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := adapter.Truncate(context.Background(), "app.users")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
