package ledger

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/mholt/archives"

	"github.com/glorpus-work/aclshift/pkg/errors"
)

// Export writes every ledger record as pretty-printed JSON and packs it
// into a tar.gz at outPath, producing a self-contained audit artifact that
// can be handed off without the database file.
func (l *Ledger) Export(ctx context.Context, outPath string) error {
	recs, err := l.Dump()
	if err != nil {
		return err
	}

	tempDir, err := os.MkdirTemp("", "aclshift-export-*")
	if err != nil {
		return errors.Wrapf(errors.ErrLedger, "export temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	data, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return errors.Wrapf(errors.ErrLedger, "export encode: %v", err)
	}
	jsonPath := filepath.Join(tempDir, "ledger.json")
	if err := os.WriteFile(jsonPath, data, 0o644); err != nil {
		return errors.Wrapf(errors.ErrLedger, "export write: %v", err)
	}

	archiveFiles, err := archives.FilesFromDisk(ctx, nil, map[string]string{
		jsonPath: "ledger.json",
	})
	if err != nil {
		return errors.Wrapf(errors.ErrLedger, "export collect: %v", err)
	}

	out, err := os.Create(outPath)
	if err != nil {
		return errors.Wrapf(errors.ErrLedger, "export create %s: %v", outPath, err)
	}
	defer func() {
		_ = out.Sync()
		_ = out.Close()
	}()

	format := archives.CompressedArchive{
		Compression: archives.Gz{},
		Archival:    archives.Tar{},
	}
	if err := format.Archive(ctx, out, archiveFiles); err != nil {
		return errors.Wrapf(errors.ErrLedger, "export archive: %v", err)
	}
	return nil
}
