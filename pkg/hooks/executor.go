//go:generate mockgen -package hooks -destination=./executor_mock.go . HookExecutor

// Package hooks runs operator-supplied Tengo scripts around a migration
// run, e.g. to quiesce writers on the source tree before migrating or to
// notify once the run finishes.
package hooks

import (
	"fmt"
	"os"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	"github.com/glorpus-work/aclshift/internal/logger"
	"github.com/glorpus-work/aclshift/pkg/errors"
)

// Hook phases.
const (
	PreRun  = "pre-run"
	PostRun = "post-run"
)

// HookExecutor manages the execution of Tengo script hooks.
type HookExecutor interface {
	ExecuteHook(hookPath string, context *HookContext) error
}

// HookContext provides run information to hook scripts.
type HookContext struct {
	RunID       string
	Phase       string // "pre-run", "post-run"
	SourceRoot  string
	DestRoot    string
	Workers     int
	Incremental bool
	Ownership   bool
}

// HookExecutorImpl is the default implementation of HookExecutor.
type HookExecutorImpl struct{}

// NewHookExecutor creates a new hook executor instance.
func NewHookExecutor() *HookExecutorImpl {
	return &HookExecutorImpl{}
}

// ExecuteHook executes a Tengo script hook with the provided context.
func (he *HookExecutorImpl) ExecuteHook(hookPath string, context *HookContext) error {
	if _, err := os.Stat(hookPath); os.IsNotExist(err) {
		return errors.Wrapf(errors.ErrHookExecution, "hook script %s does not exist", hookPath)
	}

	logger.Debug("Executing hook script", logger.Fields{
		"hook_path": hookPath,
		"phase":     context.Phase,
		"run_id":    context.RunID,
	})

	scriptContent, err := os.ReadFile(hookPath)
	if err != nil {
		return fmt.Errorf("failed to read hook script %s: %w", hookPath, err)
	}

	moduleMap := stdlib.GetModuleMap(stdlib.AllModuleNames()...)
	he.setupScriptContext(moduleMap, context)

	script := tengo.NewScript(scriptContent)
	script.SetImports(moduleMap)

	if _, err := script.Run(); err != nil {
		return errors.Wrapf(errors.ErrHookExecution, "hook script %s: %v", hookPath, err)
	}

	logger.Debug("Hook script executed successfully", logger.Fields{
		"hook_path": hookPath,
		"phase":     context.Phase,
	})

	return nil
}

// setupScriptContext exposes the run context to scripts as the "run" module.
func (he *HookExecutorImpl) setupScriptContext(moduleMap *tengo.ModuleMap, context *HookContext) {
	moduleMap.AddBuiltinModule("run", map[string]tengo.Object{
		"id":          &tengo.String{Value: context.RunID},
		"phase":       &tengo.String{Value: context.Phase},
		"source_root": &tengo.String{Value: context.SourceRoot},
		"dest_root":   &tengo.String{Value: context.DestRoot},
		"workers":     &tengo.Int{Value: int64(context.Workers)},
		"incremental": boolObject(context.Incremental),
		"ownership":   boolObject(context.Ownership),
	})
}

func boolObject(b bool) tengo.Object {
	if b {
		return tengo.TrueValue
	}
	return tengo.FalseValue
}
