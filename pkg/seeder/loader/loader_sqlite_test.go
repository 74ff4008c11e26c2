package loader_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
	gorm_logger "gorm.io/gorm/logger"

	// Register the sqlite dialector factory via its init().
	_ "github.com/tigerroll/tanemaki/pkg/seeder/adapter/database/gorm/sqlite"

	dbconfig "github.com/tigerroll/tanemaki/pkg/seeder/adapter/database/config"
	gormadapter "github.com/tigerroll/tanemaki/pkg/seeder/adapter/database/gorm"
	model "github.com/tigerroll/tanemaki/pkg/seeder/core/model"
	"github.com/tigerroll/tanemaki/pkg/seeder/loader"
)

// setupSQLiteAdapter opens an in-memory SQLite database with a users table.
func setupSQLiteAdapter(t *testing.T) *gormadapter.DBAdapter {
	t.Helper()

	cfg := dbconfig.DatabaseConfig{Type: "sqlite", Database: ":memory:"}
	factory, err := gormadapter.GetDialectorFactory("sqlite")
	assert.NoError(t, err)
	dialector, err := factory(cfg)
	assert.NoError(t, err)

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 gorm_logger.Default.LogMode(gorm_logger.Silent),
		SkipDefaultTransaction: true,
	})
	assert.NoError(t, err)

	err = gormDB.Exec("CREATE TABLE users (id TEXT, name TEXT)").Error
	assert.NoError(t, err)

	adapter := gormadapter.NewDBAdapter(gormDB, cfg)
	t.Cleanup(func() { _ = adapter.Close() })
	return adapter
}

func countRows(t *testing.T, adapter *gormadapter.DBAdapter) int64 {
	t.Helper()
	var count int64
	assert.NoError(t, adapter.GormDB().Table("users").Count(&count).Error)
	return count
}

// loadUsers runs one full load of the given records through a fresh loader.
func loadUsers(t *testing.T, adapter *gormadapter.DBAdapter, records []model.Record, truncate bool) {
	t.Helper()
	ctx := context.Background()

	l := loader.NewBatchLoader(adapter, "users", 2, nil)
	assert.NoError(t, l.BeginRun(ctx, truncate))
	for _, rec := range records {
		assert.NoError(t, l.Append(ctx, rec))
	}
	assert.NoError(t, l.EndRun(ctx))
}

func TestBatchLoader_TruncatingReloadIsIdempotent(t *testing.T) {
	adapter := setupSQLiteAdapter(t)
	records := []model.Record{
		{"id": "1", "name": "alice"},
		{"id": "2", "name": "bob"},
		{"id": "3", "name": "carol"},
	}

	loadUsers(t, adapter, records, true)
	first := countRows(t, adapter)
	assert.Equal(t, int64(3), first)

	// The same load against the already-seeded table lands on the same count.
	loadUsers(t, adapter, records, true)
	second := countRows(t, adapter)
	assert.Equal(t, first, second)
}

func TestBatchLoader_ReloadWithoutTruncateAccumulates(t *testing.T) {
	adapter := setupSQLiteAdapter(t)
	records := []model.Record{
		{"id": "1", "name": "alice"},
		{"id": "2", "name": "bob"},
	}

	loadUsers(t, adapter, records, true)
	assert.Equal(t, int64(2), countRows(t, adapter))

	loadUsers(t, adapter, records, false)
	assert.Equal(t, int64(4), countRows(t, adapter))
}
