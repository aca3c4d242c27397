package database

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/credifraud/fraud-api-go/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitStatements(t *testing.T) {
	t.Run("splits on semicolons", func(t *testing.T) {
		stmts := splitStatements("CREATE TABLE a (id INT); CREATE TABLE b (id INT);")
		require.Len(t, stmts, 2)
		assert.Equal(t, "CREATE TABLE a (id INT)", stmts[0])
		assert.Equal(t, "CREATE TABLE b (id INT)", stmts[1])
	})

	t.Run("keeps semicolons inside string literals", func(t *testing.T) {
		stmts := splitStatements("INSERT INTO t VALUES ('a;b');")
		require.Len(t, stmts, 1)
		assert.Equal(t, "INSERT INTO t VALUES ('a;b')", stmts[0])
	})

	t.Run("strips line comments", func(t *testing.T) {
		stmts := splitStatements("-- comentário; isolado\nSELECT 1;")
		require.Len(t, stmts, 1)
		assert.Equal(t, "SELECT 1", stmts[0])
	})

	t.Run("trailing statement without semicolon", func(t *testing.T) {
		stmts := splitStatements("SELECT 1")
		require.Len(t, stmts, 1)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, splitStatements("  \n  "))
	})
}

func TestFindMigrationFiles(t *testing.T) {
	logger := testutils.TestLogger(t)

	t.Run("missing directory is not an error", func(t *testing.T) {
		m := NewMigrationManager(nil, logger, filepath.Join(t.TempDir(), "nope"))

		files, err := m.findMigrationFiles()
		require.NoError(t, err)
		assert.Empty(t, files)
	})

	t.Run("parses versioned sql files and skips the rest", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "20240101120000_init.sql"), []byte("SELECT 1;"), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "invalid.sql"), []byte("x"), 0644))

		m := NewMigrationManager(nil, logger, dir)

		files, err := m.findMigrationFiles()
		require.NoError(t, err)
		require.Len(t, files, 1)
		assert.Equal(t, int64(20240101120000), files[0].Version)
		assert.Equal(t, "init", files[0].Name)
	})
}
