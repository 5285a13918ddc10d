package errors

import "fmt"

// Common error types.
var (
	// Acquisition errors.
	ErrAcquisition = fmt.Errorf("failed to read source ACL")
	ErrStat        = fmt.Errorf("failed to stat file")

	// Translation and validation errors.
	ErrValidation = fmt.Errorf("malformed ACL entry")

	// Apply errors.
	ErrApply              = fmt.Errorf("failed to apply ACL entry")
	ErrOwnership          = fmt.Errorf("failed to migrate ownership")
	ErrDestinationMissing = fmt.Errorf("destination does not exist")

	// Ledger errors.
	ErrLedger = fmt.Errorf("ledger operation failed")

	// Config errors.
	ErrConfigParse      = fmt.Errorf("failed to parse config")
	ErrConfigValidation = fmt.Errorf("invalid configuration")

	// Hook errors.
	ErrHookExecution = fmt.Errorf("error executing hook")

	// Run errors.
	ErrInterrupted = fmt.Errorf("run interrupted")

	// Preflight errors.
	ErrPreflight = fmt.Errorf("preflight check failed")
)

// Wrap wraps an error with additional context.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf wraps an error with additional formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
