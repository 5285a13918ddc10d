package orchestrator

import (
	"io/fs"
	"path/filepath"

	"github.com/glorpus-work/aclshift/internal/logger"
)

// scanTree enumerates every file and directory under root (the root itself
// excluded) into memory before any scheduling happens. Directories are
// migratable entries in their own right: a directory entry migrates its own
// ACL and ownership, not its children's.
func scanTree(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Warnf("scan: skipping %s: %v", path, err)
			return nil
		}
		if path == root {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}
