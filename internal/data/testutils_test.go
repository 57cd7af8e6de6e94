package data

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// newTestDB 在临时目录中创建一个已建表的 SQLite 数据库
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := Open(DBConfig{
		Driver:      DriverSQLite,
		DSN:         filepath.Join(t.TempDir(), "movies.db"),
		MaxIdleTime: "15m",
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, Migrate(context.Background(), db, DriverSQLite))

	return db
}
