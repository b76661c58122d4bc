package sqlite_test

import (
	"context"
	"testing"

	"github.com/fwojciec/sitecrawl/sqlite"
	"github.com/stretchr/testify/require"
)

// MustOpenDB opens an in-memory database and closes it when the test ends.
func MustOpenDB(tb testing.TB) *sqlite.DB {
	tb.Helper()
	db := sqlite.NewDB(":memory:")
	require.NoError(tb, db.Open())
	tb.Cleanup(func() { _ = db.Close() })
	return db
}

func TestDB_Open(t *testing.T) {
	t.Parallel()

	t.Run("creates schema on first open", func(t *testing.T) {
		t.Parallel()

		db := MustOpenDB(t)

		var n int
		err := db.QueryRowContext(context.Background(), "SELECT COUNT(*) FROM artifacts").Scan(&n)
		require.NoError(t, err)
		require.Zero(t, n)
	})

	t.Run("returns error for invalid path", func(t *testing.T) {
		t.Parallel()

		db := sqlite.NewDB("/nonexistent/path/db.sqlite")
		require.Error(t, db.Open())
	})

	t.Run("enables WAL mode for file-based databases", func(t *testing.T) {
		t.Parallel()

		db := sqlite.NewDB(t.TempDir() + "/crawl.db")
		require.NoError(t, db.Open())
		defer db.Close()

		var mode string
		err := db.QueryRowContext(context.Background(), "PRAGMA journal_mode").Scan(&mode)
		require.NoError(t, err)
		require.Equal(t, "wal", mode)
	})

	t.Run("reopening keeps data", func(t *testing.T) {
		t.Parallel()

		path := t.TempDir() + "/crawl.db"
		db := sqlite.NewDB(path)
		require.NoError(t, db.Open())
		require.NoError(t, sqlite.NewStore(db).Put(context.Background(), "pages/a.json", []byte("{}")))
		require.NoError(t, db.Close())

		db = sqlite.NewDB(path)
		require.NoError(t, db.Open())
		defer db.Close()

		_, err := sqlite.NewStore(db).Get(context.Background(), "pages/a.json")
		require.NoError(t, err)
	})
}
