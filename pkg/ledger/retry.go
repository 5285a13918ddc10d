package ledger

import (
	"math/rand"
	"strings"
	"time"
)

// transientPatterns are the error texts modernc.org/sqlite surfaces for
// contention a retry can resolve. The parenthesized forms are the raw
// result codes: (5) SQLITE_BUSY, (6) SQLITE_LOCKED, (522) IOERR_SHORT_READ.
var transientPatterns = []string{
	"SQLITE_BUSY",
	"SQLITE_LOCKED",
	"IOERR_SHORT_READ",
	"database is locked",
	"database table is locked",
	"(5)",
	"(6)",
	"(522)",
}

// retryConfig controls retry behavior for transient SQLite errors. The
// busy_timeout pragma absorbs most SQLITE_BUSY waits at the connection
// level; this layer covers what leaks past it under concurrent worker
// upserts.
type retryConfig struct {
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
}

var defaultRetryConfig = retryConfig{
	maxRetries: 3,
	baseDelay:  50 * time.Millisecond,
	maxDelay:   500 * time.Millisecond,
}

// retryOnContention wraps retryOp with the default config. All ledger write
// operations go through this.
func retryOnContention(fn func() error) error {
	return retryOp(defaultRetryConfig, fn)
}

func isTransientSQLiteErr(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, pattern := range transientPatterns {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}

// retryOp executes fn with exponential backoff plus jitter for transient
// errors. A success or non-transient error returns immediately.
func retryOp(cfg retryConfig, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt <= cfg.maxRetries; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !isTransientSQLiteErr(lastErr) {
			return lastErr
		}
		if attempt < cfg.maxRetries {
			time.Sleep(backoffDelay(cfg, attempt))
		}
	}
	return lastErr
}

func backoffDelay(cfg retryConfig, attempt int) time.Duration {
	delay := cfg.baseDelay << uint(attempt)
	if delay > cfg.maxDelay {
		delay = cfg.maxDelay
	}
	jitter := time.Duration(rand.Int63n(int64(cfg.baseDelay)))
	return delay + jitter
}
