package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"invitation/internal/infra/db"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var memSeq atomic.Int64

// NewTestDB はテスト毎に独立したインメモリSQLiteを作ってマイグレーションする。
// 同時書き込みのテストでも壊れないよう接続は1本にする。
func NewTestDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:memdb%d?mode=memory&cache=shared&_pragma=foreign_keys(1)", memSeq.Add(1))
	gdb, err := db.Open(sqlite.Open(dsn), "silent")
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Migrate(gdb))
	return gdb
}
