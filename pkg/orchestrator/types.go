package orchestrator

import (
	"context"

	"github.com/glorpus-work/aclshift/pkg/model"
)

// AclAcquirer is the subset of the acquirer used by the orchestrator.
type AclAcquirer interface {
	Acquire(ctx context.Context, path string) (*model.AclSet, error)
}

// AceTranslator converts an acquired ACL set into NFSv4 ACE strings.
type AceTranslator interface {
	Translate(set *model.AclSet, isDir bool) []string
}

// AclApplier applies generated ACEs to a destination path.
type AclApplier interface {
	Apply(ctx context.Context, destPath string, aces []string) error
}

// OwnershipMigrator syncs owning user/group from source to destination.
type OwnershipMigrator interface {
	Migrate(ctx context.Context, srcPath, destPath string) error
}

// Ledger is the subset of the migration ledger used by the orchestrator.
type Ledger interface {
	AlreadyMigrated(path string, mtime float64) (bool, error)
	Record(rec model.MigrationRecord) error
}

// Options control a migration run.
type Options struct {
	// RunID identifies the run in logs and hook contexts. Generated when
	// empty.
	RunID string

	// Workers is the fixed worker pool size.
	Workers int

	// Incremental consults the ledger to skip previously successful paths
	// at an unchanged modification time.
	Incremental bool

	// Ownership also migrates the owning user and group per path.
	Ownership bool
}
