package migration

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tradedocs/backend/migrations"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add bank iban", "add_bank_iban"},
		{"Add-Bank-IBAN", "add_bank_iban"},
		{"ADD_BANK_IBAN", "add_bank_iban"},
		{"add__bank__iban", "add_bank_iban"},
		{"Add Ports 2", "add_ports_2"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"trailing_", "trailing"},
		{"_leading", "leading"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), []byte("-- test"), 0o644))
	}
}

func TestCreateMigration(t *testing.T) {
	t.Run("first migration in empty directory", func(t *testing.T) {
		dir := t.TempDir()

		mf, err := CreateMigration(dir, "add bank iban", "Store IBAN next to the account number")
		require.NoError(t, err)

		assert.Equal(t, "000001", mf.Version)
		assert.Equal(t, filepath.Join(dir, "000001_add_bank_iban.up.sql"), mf.UpPath)
		assert.Equal(t, filepath.Join(dir, "000001_add_bank_iban.down.sql"), mf.DownPath)

		up, err := os.ReadFile(mf.UpPath)
		require.NoError(t, err)
		assert.Contains(t, string(up), "add bank iban")
		assert.Contains(t, string(up), "Store IBAN next to the account number")

		down, err := os.ReadFile(mf.DownPath)
		require.NoError(t, err)
		assert.Contains(t, string(down), "Rollback of add bank iban")
	})

	t.Run("numbers after highest existing version", func(t *testing.T) {
		dir := t.TempDir()
		writeFiles(t, dir,
			"000001_create_master_data.up.sql", "000001_create_master_data.down.sql",
			"000004_create_archived_documents.up.sql", "000004_create_archived_documents.down.sql",
		)

		mf, err := CreateMigration(dir, "add notify party index", "")
		require.NoError(t, err)
		assert.Equal(t, "000005", mf.Version)
	})

	t.Run("creates nested directory", func(t *testing.T) {
		nested := filepath.Join(t.TempDir(), "nested", "migrations")

		_, err := CreateMigration(nested, "init", "")
		require.NoError(t, err)

		info, err := os.Stat(nested)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("rejects name without letters", func(t *testing.T) {
		_, err := CreateMigration(t.TempDir(), "!!!", "")
		assert.Error(t, err)
	})
}

func TestListMigrations(t *testing.T) {
	t.Run("sorted by version and ignores other files", func(t *testing.T) {
		dir := t.TempDir()
		writeFiles(t, dir,
			"000010_late.up.sql", "000010_late.down.sql",
			"000002_users.up.sql", "000002_users.down.sql",
			"README.md", ".gitkeep",
		)
		require.NoError(t, os.Mkdir(filepath.Join(dir, "000003_dir.up.sql"), 0o755))

		names, err := ListMigrations(dir)
		require.NoError(t, err)
		assert.Equal(t, []string{"000002_users", "000010_late"}, names)
	})

	t.Run("nonexistent directory is empty", func(t *testing.T) {
		names, err := ListMigrations("/nonexistent/path/to/migrations")
		require.NoError(t, err)
		assert.Empty(t, names)
	})
}

func TestListEmbedded(t *testing.T) {
	t.Run("in-memory filesystem", func(t *testing.T) {
		fsys := fstest.MapFS{
			"000001_a.up.sql":   {Data: []byte("SELECT 1;")},
			"000001_a.down.sql": {Data: []byte("SELECT 1;")},
		}
		names, err := ListEmbedded(fsys)
		require.NoError(t, err)
		assert.Equal(t, []string{"000001_a"}, names)
	})

	t.Run("shipped schema has paired files", func(t *testing.T) {
		names, err := ListEmbedded(migrations.FS)
		require.NoError(t, err)
		require.NotEmpty(t, names)
		assert.Equal(t, "000001_create_master_data", names[0])

		for _, n := range names {
			_, err := migrations.FS.Open(n + ".down.sql")
			assert.NoError(t, err, "missing down file for %s", n)
		}
	})
}
