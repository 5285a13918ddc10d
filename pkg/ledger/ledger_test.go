package ledger

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/glorpus-work/aclshift/pkg/errors"
	"github.com/glorpus-work/aclshift/pkg/model"
)

func openTestLedger(t *testing.T) *Ledger {
	t.Helper()
	led, err := Open(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = led.Close() })
	return led
}

func TestLedger(t *testing.T) {
	led := openTestLedger(t)

	rec := model.MigrationRecord{
		SourcePath:  "/src/a",
		DestPath:    "/dst/a",
		Mtime:       1700000000.25,
		Fingerprint: "abc123",
		Status:      model.StatusSuccess,
	}

	t.Run("empty ledger has no record", func(t *testing.T) {
		done, err := led.AlreadyMigrated("/src/a", 1700000000.25)
		require.NoError(t, err)
		assert.False(t, done)
	})

	t.Run("record and skip at unchanged mtime", func(t *testing.T) {
		require.NoError(t, led.Record(rec))

		done, err := led.AlreadyMigrated("/src/a", 1700000000.25)
		require.NoError(t, err)
		assert.True(t, done)
	})

	t.Run("tolerates sub-millisecond mtime drift", func(t *testing.T) {
		done, err := led.AlreadyMigrated("/src/a", 1700000000.2505)
		require.NoError(t, err)
		assert.True(t, done)
	})

	t.Run("changed mtime invalidates skip", func(t *testing.T) {
		done, err := led.AlreadyMigrated("/src/a", 1700000001.25)
		require.NoError(t, err)
		assert.False(t, done)
	})

	t.Run("failed record never skips", func(t *testing.T) {
		failed := rec
		failed.SourcePath = "/src/b"
		failed.Status = model.StatusFailed
		require.NoError(t, led.Record(failed))

		done, err := led.AlreadyMigrated("/src/b", failed.Mtime)
		require.NoError(t, err)
		assert.False(t, done)
	})

	t.Run("upsert overwrites status", func(t *testing.T) {
		update := rec
		update.Status = model.StatusFailed
		require.NoError(t, led.Record(update))

		done, err := led.AlreadyMigrated("/src/a", rec.Mtime)
		require.NoError(t, err)
		assert.False(t, done)

		stats, err := led.Stats()
		require.NoError(t, err)
		assert.Equal(t, int64(2), stats.Total)
		assert.Equal(t, int64(2), stats.ByStatus[model.StatusFailed])
	})

	t.Run("reset clears everything", func(t *testing.T) {
		require.NoError(t, led.Reset())
		stats, err := led.Stats()
		require.NoError(t, err)
		assert.Zero(t, stats.Total)
		assert.Empty(t, stats.ByStatus)
	})
}

func TestLedgerConcurrentRecords(t *testing.T) {
	led := openTestLedger(t)

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = led.Record(model.MigrationRecord{
				SourcePath: filepath.Join("/src", string(rune('a'+i))),
				DestPath:   filepath.Join("/dst", string(rune('a'+i))),
				Mtime:      float64(i),
				Status:     model.StatusSuccess,
			})
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	stats, err := led.Stats()
	require.NoError(t, err)
	assert.Equal(t, int64(8), stats.Total)
}

func TestDumpTimestamps(t *testing.T) {
	led := openTestLedger(t)

	t.Run("migrated_at is populated", func(t *testing.T) {
		require.NoError(t, led.Record(model.MigrationRecord{
			SourcePath: "/src/a", DestPath: "/dst/a", Mtime: 1, Status: model.StatusSuccess,
		}))
		recs, err := led.Dump()
		require.NoError(t, err)
		require.Len(t, recs, 1)
		assert.False(t, recs[0].MigratedAt.IsZero())
	})

	t.Run("malformed migrated_at is an error", func(t *testing.T) {
		_, err := led.db.Exec(
			`INSERT INTO migrated_files (source_path, dest_path, mtime, acl_fingerprint, migrated_at, status)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			"/src/bad", "/dst/bad", 1.0, "", "not-a-timestamp", model.StatusSuccess,
		)
		require.NoError(t, err)

		_, err = led.Dump()
		require.Error(t, err)
		assert.ErrorIs(t, err, pkgerrors.ErrLedger)
		assert.Contains(t, err.Error(), "/src/bad")
	})
}

func TestDumpOrdersBySourcePath(t *testing.T) {
	led := openTestLedger(t)
	for _, p := range []string{"/src/c", "/src/a", "/src/b"} {
		require.NoError(t, led.Record(model.MigrationRecord{
			SourcePath: p, DestPath: "/dst", Mtime: 1, Status: model.StatusSuccess,
		}))
	}
	recs, err := led.Dump()
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, "/src/a", recs[0].SourcePath)
	assert.Equal(t, "/src/b", recs[1].SourcePath)
	assert.Equal(t, "/src/c", recs[2].SourcePath)
}
