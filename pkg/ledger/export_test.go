package ledger

import (
	"context"
	"encoding/json"
	"io"
	"path/filepath"
	"testing"

	"github.com/mholt/archives"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glorpus-work/aclshift/pkg/model"
)

func TestExport(t *testing.T) {
	led := openTestLedger(t)
	require.NoError(t, led.Record(model.MigrationRecord{
		SourcePath:  "/src/a",
		DestPath:    "/dst/a",
		Mtime:       42.5,
		Fingerprint: "deadbeef",
		Status:      model.StatusSuccess,
	}))

	outPath := filepath.Join(t.TempDir(), "audit.tar.gz")
	ctx := context.Background()
	require.NoError(t, led.Export(ctx, outPath))

	// The archive must contain the JSON dump, round-trippable.
	fsys, err := archives.FileSystem(ctx, outPath, nil)
	require.NoError(t, err)
	if closer, ok := fsys.(io.Closer); ok {
		defer func() { _ = closer.Close() }()
	}
	f, err := fsys.Open("ledger.json")
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(f)
	require.NoError(t, err)

	var recs []model.MigrationRecord
	require.NoError(t, json.Unmarshal(data, &recs))
	require.Len(t, recs, 1)
	assert.Equal(t, "/src/a", recs[0].SourcePath)
	assert.Equal(t, "deadbeef", recs[0].Fingerprint)
	assert.Equal(t, model.StatusSuccess, recs[0].Status)
}
