// SPDX-License-Identifier: MIT

package ratelimit

import (
	"sync"
	stdlibtime "time"

	"github.com/jschibelli/accountguard/time"
)

// Public API.

type (
	// Limiter is a best-effort, process-local sliding-window counter. It is
	// not a distributed rate limit and deliberately fails open: buckets are
	// never persisted and reset to zero on process restart.
	Limiter interface {
		IsRateLimited(key string) bool
		Attempts(key string) uint64
		Reset(key string)
	}
)

const (
	DefaultMaxAttempts = 5
	DefaultWindow      = 15 * stdlibtime.Minute
)

// Private API.

type (
	limiter struct {
		buckets     map[string]*bucket
		mx          sync.Mutex
		maxAttempts uint64
		window      stdlibtime.Duration
	}
	bucket struct {
		resetAt *time.Time
		count   uint64
	}
)
