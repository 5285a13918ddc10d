package ledger

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsTransientSQLiteErr(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		transient bool
	}{
		{"nil", nil, false},
		{"busy text", errors.New("SQLITE_BUSY: database is busy"), true},
		{"locked text", errors.New("database is locked"), true},
		{"busy code", errors.New("sqlite: step: (5)"), true},
		{"locked code", errors.New("sqlite: step: (6)"), true},
		{"short read code", errors.New("sqlite: step: (522)"), true},
		{"constraint violation", errors.New("UNIQUE constraint failed"), false},
		{"plain error", errors.New("disk full"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.transient, isTransientSQLiteErr(tt.err))
		})
	}
}

func TestRetryOp(t *testing.T) {
	cfg := retryConfig{maxRetries: 3, baseDelay: time.Millisecond, maxDelay: 5 * time.Millisecond}

	t.Run("transient errors are retried until success", func(t *testing.T) {
		calls := 0
		err := retryOp(cfg, func() error {
			calls++
			if calls < 3 {
				return errors.New("database is locked")
			}
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("non-transient error returns immediately", func(t *testing.T) {
		calls := 0
		wantErr := errors.New("UNIQUE constraint failed")
		err := retryOp(cfg, func() error {
			calls++
			return wantErr
		})
		assert.Equal(t, wantErr, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("persistent transient error is surfaced after retries", func(t *testing.T) {
		calls := 0
		err := retryOp(cfg, func() error {
			calls++
			return errors.New("SQLITE_BUSY")
		})
		assert.Error(t, err)
		assert.Equal(t, cfg.maxRetries+1, calls)
	})
}
