package apply

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	pkgerrors "github.com/glorpus-work/aclshift/pkg/errors"
	"github.com/glorpus-work/aclshift/pkg/runner"
)

func TestOwnershipMatchNeedsNoCall(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")
	require.NoError(t, os.WriteFile(src, []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(dst, []byte("b"), 0o644))

	mock := runner.NewMockRunner(ctrl)
	// Both files are owned by the test user: no chown invocation allowed.
	err := NewOwnershipMigrator(mock, "").Migrate(context.Background(), src, dst)
	assert.NoError(t, err)
}

func TestOwnershipMissingSource(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	dst := filepath.Join(t.TempDir(), "dst")
	require.NoError(t, os.WriteFile(dst, []byte("b"), 0o644))

	mock := runner.NewMockRunner(ctrl)
	err := NewOwnershipMigrator(mock, "").Migrate(context.Background(), "/nonexistent/src", dst)
	assert.ErrorIs(t, err, pkgerrors.ErrOwnership)
}
