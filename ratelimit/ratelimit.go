// SPDX-License-Identifier: MIT

package ratelimit

import (
	"context"
	stdlibtime "time"

	"github.com/jschibelli/accountguard/time"
)

func New(maxAttempts uint64, window stdlibtime.Duration) Limiter {
	if maxAttempts == 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if window <= 0 {
		window = DefaultWindow
	}

	return &limiter{buckets: make(map[string]*bucket), maxAttempts: maxAttempts, window: window}
}

// NewWithSweeper is New plus a background goroutine that drops expired
// buckets every `window`, so the map does not grow unbounded with one-shot
// keys. The sweeper stops when ctx is done.
func NewWithSweeper(ctx context.Context, maxAttempts uint64, window stdlibtime.Duration) Limiter {
	lmt := New(maxAttempts, window).(*limiter) //nolint:forcetypeassert // We know for sure.
	go lmt.sweepPeriodically(ctx)

	return lmt
}

// IsRateLimited records an attempt for the key and reports whether the key
// has reached maxAttempts within the current window. The first attempt of a
// window is never limited.
func (l *limiter) IsRateLimited(key string) bool {
	return l.isRateLimited(key, time.Now())
}

func (l *limiter) isRateLimited(key string, now *time.Time) bool {
	l.mx.Lock()
	defer l.mx.Unlock()
	bckt, found := l.buckets[key]
	if !found || !now.Before(*bckt.resetAt.Time) {
		l.buckets[key] = &bucket{count: 1, resetAt: time.New(now.Add(l.window))}

		return false
	}
	bckt.count++

	return bckt.count >= l.maxAttempts
}

func (l *limiter) Attempts(key string) uint64 {
	l.mx.Lock()
	defer l.mx.Unlock()
	if bckt, found := l.buckets[key]; found && time.Now().Before(*bckt.resetAt.Time) {
		return bckt.count
	}

	return 0
}

// Reset clears the bucket, typically after a successful verification so a
// legitimate user who needed several tries is not penalized going forward.
func (l *limiter) Reset(key string) {
	l.mx.Lock()
	defer l.mx.Unlock()
	delete(l.buckets, key)
}

func (l *limiter) sweepPeriodically(ctx context.Context) {
	ticker := stdlibtime.NewTicker(l.window)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.sweep()
		}
	}
}

func (l *limiter) sweep() {
	now := time.Now()
	l.mx.Lock()
	defer l.mx.Unlock()
	for key, bckt := range l.buckets {
		if !now.Before(*bckt.resetAt.Time) {
			delete(l.buckets, key)
		}
	}
}
