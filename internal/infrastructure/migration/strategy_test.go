package migration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Saaayurii/Chat-sub000/internal/shared/logger"
)

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func TestGooseStrategy_UpAndDown(t *testing.T) {
	db := openSQLite(t)
	s := NewGooseStrategy("sqlite3", logger.NewNop())

	require.NoError(t, s.Migrate(db))
	assert.True(t, db.Migrator().HasTable("transfer_requests"))
	assert.True(t, db.Migrator().HasTable("queue_entries"))
	assert.True(t, db.Migrator().HasIndex("queue_entries", "uk_queue_active_visitor"))

	version, err := s.GetVersion(db)
	require.NoError(t, err)
	assert.Equal(t, int64(20260101000002), version)

	// re-running is a no-op
	require.NoError(t, s.Migrate(db))

	require.NoError(t, s.MigrateDown(db, 1))
	assert.False(t, db.Migrator().HasTable("queue_entries"))
	assert.True(t, db.Migrator().HasTable("transfer_requests"))
}

func TestGooseStrategy_UniqueActiveConversation(t *testing.T) {
	db := openSQLite(t)
	require.NoError(t, NewGooseStrategy("sqlite3", logger.NewNop()).Migrate(db))

	insert := `INSERT INTO transfer_requests
		(sid, from_operator_id, to_operator_id, conversation_id, visitor_id, active_conversation_id, status, requested_at, created_at, updated_at)
		VALUES (?, 'a', 'b', 'c1', 'v1', ?, 'pending', 1, 1, 1)`

	require.NoError(t, db.Exec(insert, "tr_1", "c1").Error)
	assert.Error(t, db.Exec(insert, "tr_2", "c1").Error)

	// NULL keys never collide
	require.NoError(t, db.Exec(insert, "tr_3", nil).Error)
	require.NoError(t, db.Exec(insert, "tr_4", nil).Error)
}

func TestAutoMigrateStrategy(t *testing.T) {
	db := openSQLite(t)
	require.NoError(t, NewAutoMigrateStrategy(logger.NewNop()).Migrate(db))
	assert.True(t, db.Migrator().HasTable("transfer_requests"))
	assert.True(t, db.Migrator().HasTable("queue_entries"))
}

func TestDialectFor(t *testing.T) {
	assert.Equal(t, "sqlite3", DialectFor("sqlite"))
	assert.Equal(t, "mysql", DialectFor("mysql"))
	assert.Equal(t, "mysql", DialectFor(""))
}
