package migrate_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/kitchenline-backend/pkg/migrate"
)

func readMigration(t *testing.T, suffix string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", "*_"+suffix+".sql"))
	require.NoError(t, err)
	require.Len(t, matches, 1, "expected exactly one %s migration", suffix)

	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	return string(data)
}

func TestMigrationsContainConstraints(t *testing.T) {
	cases := map[string][]string{
		"create_inventory_items": {
			"CREATE TABLE IF NOT EXISTS inventory_items",
			"CHECK (stock >= 0)",
			"CONSTRAINT inventory_items_name_key_key UNIQUE (name_key)",
			"DROP TABLE IF EXISTS inventory_items",
		},
		"create_ingredients": {
			"CONSTRAINT ingredients_name_key_key UNIQUE (name_key)",
			"recipe jsonb NOT NULL",
		},
		"create_orders": {
			"status order_status NOT NULL DEFAULT 'pending'",
			"FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE",
			"payment_method <> 'gcash' OR (proof_image IS NOT NULL AND reference_number IS NOT NULL)",
		},
		"create_reviews": {
			"CONSTRAINT reviews_user_order_key UNIQUE (user_id, order_id)",
			"CHECK (rating BETWEEN 1 AND 5)",
		},
		"create_notifications": {
			"CHECK ((user_id IS NULL) <> (role IS NULL))",
		},
	}

	for suffix, checks := range cases {
		content := readMigration(t, suffix)
		for _, sub := range checks {
			if !strings.Contains(content, sub) {
				t.Errorf("%s: missing expected statement %q", suffix, sub)
			}
		}
	}
}

func TestValidateDirAcceptsShippedMigrations(t *testing.T) {
	require.NoError(t, migrate.ValidateDir("migrations"))
}

func TestValidateDirRejectsBadFiles(t *testing.T) {
	dir := t.TempDir()
	require.Error(t, migrate.ValidateDir(dir), "empty dir should fail")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "create_things.sql"), []byte("-- +goose Up\n-- +goose Down\n"), 0o644))
	require.ErrorContains(t, migrate.ValidateDir(dir), "invalid migration filename")

	dir = t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "20260101000000_things.sql"), []byte("-- +goose Up\n"), 0o644))
	require.ErrorContains(t, migrate.ValidateDir(dir), "missing \"-- +goose Down\"")
}

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()

	path, err := migrate.CreateSQLMigration(dir, "Add Rider Shifts!")
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(path, "_add_rider_shifts.sql"), path)
	require.NoError(t, migrate.ValidateDir(dir))

	_, err = migrate.CreateSQLMigration(dir, "!!!")
	require.Error(t, err)
}

func TestEmbeddedMigrationsMatchDisk(t *testing.T) {
	embedded, err := fs.Glob(migrate.Embedded(), "*.sql")
	require.NoError(t, err)
	onDisk, err := filepath.Glob(filepath.Join("migrations", "*.sql"))
	require.NoError(t, err)

	require.Len(t, embedded, len(onDisk))
	for _, path := range onDisk {
		assert.Contains(t, embedded, filepath.Base(path))
	}
	require.NoError(t, migrate.Validate(migrate.Embedded()))
}

func TestValidateRejectsDuplicateVersions(t *testing.T) {
	fsys := fstest.MapFS{
		"20260101000000_a.sql": {Data: []byte("-- +goose Up\n-- +goose Down\n")},
		"20260101000000_b.sql": {Data: []byte("-- +goose Up\n-- +goose Down\n")},
	}
	require.ErrorContains(t, migrate.Validate(fsys), "duplicate migration version")
}

func TestNewRunnerRequiresDependencies(t *testing.T) {
	_, err := migrate.NewRunner(nil, "", nil)
	require.Error(t, err)
}
