package product

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const productsTable = `CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  image TEXT,
  price NUMERIC NOT NULL,
  ingredients TEXT,
  average_rating NUMERIC NOT NULL DEFAULT 0,
  review_count INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
)`

// openTestDB returns a transaction that is rolled back after the test. It
// targets the migrated Postgres at KITCHENLINE_DB_DSN when set and an
// in-memory sqlite database otherwise.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	var conn *gorm.DB
	var err error
	if dsn := os.Getenv("KITCHENLINE_DB_DSN"); dsn != "" {
		conn, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		require.NoError(t, err)
	} else {
		name := strings.ReplaceAll(t.Name(), "/", "_")
		conn, err = gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{})
		require.NoError(t, err)
		require.NoError(t, conn.Exec(productsTable).Error)
	}

	tx := conn.Begin()
	require.NoError(t, tx.Error)
	t.Cleanup(func() { tx.Rollback() })
	return tx
}
