package hooks

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/glorpus-work/aclshift/pkg/errors"
)

func writeScript(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hook.tengo")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestExecuteHook(t *testing.T) {
	executor := NewHookExecutor()
	ctx := &HookContext{
		RunID:       "run-1",
		Phase:       PreRun,
		SourceRoot:  "/mnt/lustre/data",
		DestRoot:    "/mnt/netapp/data",
		Workers:     4,
		Incremental: true,
	}

	t.Run("script sees run context", func(t *testing.T) {
		script := writeScript(t, `
run := import("run")
if run.phase != "pre-run" {
	err := error("unexpected phase")
}
if run.source_root != "/mnt/lustre/data" {
	err := error("unexpected source")
}
if run.workers != 4 {
	err := error("unexpected workers")
}
`)
		assert.NoError(t, executor.ExecuteHook(script, ctx))
	})

	t.Run("script runtime error surfaces", func(t *testing.T) {
		script := writeScript(t, `x := undefined_symbol + 1`)
		err := executor.ExecuteHook(script, ctx)
		assert.ErrorIs(t, err, pkgerrors.ErrHookExecution)
	})

	t.Run("missing script", func(t *testing.T) {
		err := executor.ExecuteHook(filepath.Join(t.TempDir(), "nope.tengo"), ctx)
		assert.ErrorIs(t, err, pkgerrors.ErrHookExecution)
	})
}
