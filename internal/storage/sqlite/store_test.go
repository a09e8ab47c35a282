package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/n4ze3m/num-shift/internal/models"
	"github.com/n4ze3m/num-shift/internal/storage"
	"github.com/n4ze3m/num-shift/internal/storage/storagetest"
)

func openTempStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "numshift.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStoreContract(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Store {
		return openTempStore(t)
	})
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open(" ")
	require.Error(t, err)
}

func TestOpenCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "saves", "numshift.db")
	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Close())
	require.FileExists(t, path)
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "numshift.db")
	ctx := context.Background()

	store, err := Open(path)
	require.NoError(t, err)
	snap := models.Snapshot{Mode: models.ModeLab, Key: "level-2", Current: "800235",
		Lab: &models.LabProgress{Level: 2, TotalScore: 171}}
	require.NoError(t, store.SaveSnapshot(ctx, &snap))
	require.NoError(t, store.MarkDailyCompleted(ctx, "2023-05-15", time.Now()))
	require.NoError(t, store.Close())

	store, err = Open(path)
	require.NoError(t, err)
	defer store.Close()

	got, err := store.LoadSnapshot(ctx, models.ModeLab)
	require.NoError(t, err)
	require.Equal(t, "level-2", got.Key)
	require.Equal(t, 171, got.Lab.TotalScore)

	unlocked, err := store.LabUnlocked(ctx)
	require.NoError(t, err)
	require.True(t, unlocked)

	var migrations int
	require.NoError(t, store.sqlDB.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&migrations))
	require.Equal(t, 1, migrations)
}

func TestClosedStoreIsHarmless(t *testing.T) {
	var s *Store
	require.NoError(t, s.Close())
	require.Error(t, s.SaveSnapshot(context.Background(), &models.Snapshot{Mode: models.ModeLab}))
}

func openInMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestApplyMigrationsSkipsAlreadyApplied(t *testing.T) {
	db := openInMemoryDB(t)
	ctx := context.Background()
	files := fstest.MapFS{
		"001_create.sql": &fstest.MapFile{Data: []byte("-- +migrate Up\nCREATE TABLE items(id TEXT PRIMARY KEY);\n-- +migrate Down\nDROP TABLE items;")},
	}

	require.NoError(t, applyMigrations(ctx, db, files))
	require.NoError(t, applyMigrations(ctx, db, files))

	var rows int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&rows))
	require.Equal(t, 1, rows)
}

func TestApplyMigrationsDoesNotRecordFailure(t *testing.T) {
	db := openInMemoryDB(t)
	ctx := context.Background()
	bad := fstest.MapFS{
		"001_bad.sql": &fstest.MapFile{Data: []byte("-- +migrate Up\nCREAT table things(id INT);")},
	}
	require.Error(t, applyMigrations(ctx, db, bad))

	var rows int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&rows))
	require.Zero(t, rows)
}

func TestExtractUpMigration(t *testing.T) {
	require.Equal(t, "\nA\n", extractUpMigration("-- +migrate Up\nA\n-- +migrate Down\nB"))
	require.Equal(t, "\nA", extractUpMigration("-- +migrate Up\nA"))
	require.Equal(t, "A", extractUpMigration("A"))
}
