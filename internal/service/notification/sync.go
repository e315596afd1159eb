package notification

import (
	"context"
	"sync"
	"time"
)

// DefaultSyncInterval is the minimum spacing between notification syncs.
const DefaultSyncInterval = 2 * time.Second

// Syncer rate-limits notification refreshes. Sync runs the wrapped refresh
// at most once per interval and never concurrently with itself; ForceSync
// ignores the interval but still yields to a refresh already in flight.
type Syncer struct {
	fn       func(ctx context.Context) error
	interval time.Duration

	mu       sync.Mutex
	syncing  bool
	lastSync time.Time
}

// NewSyncer wraps fn. A non-positive interval falls back to
// DefaultSyncInterval.
func NewSyncer(fn func(ctx context.Context) error, interval time.Duration) *Syncer {
	if interval <= 0 {
		interval = DefaultSyncInterval
	}
	return &Syncer{fn: fn, interval: interval}
}

// Sync runs the refresh unless one ran within the interval or is currently
// running. It reports whether the refresh actually executed.
func (s *Syncer) Sync(ctx context.Context) (bool, error) {
	return s.run(ctx, false)
}

// ForceSync runs the refresh regardless of how recently the last one
// finished. A refresh already in flight still wins.
func (s *Syncer) ForceSync(ctx context.Context) (bool, error) {
	return s.run(ctx, true)
}

func (s *Syncer) run(ctx context.Context, force bool) (bool, error) {
	s.mu.Lock()
	if s.syncing {
		s.mu.Unlock()
		return false, nil
	}
	if !force && !s.lastSync.IsZero() && time.Since(s.lastSync) < s.interval {
		s.mu.Unlock()
		return false, nil
	}
	s.syncing = true
	s.mu.Unlock()

	err := s.fn(ctx)

	s.mu.Lock()
	s.syncing = false
	s.lastSync = time.Now()
	s.mu.Unlock()

	return true, err
}
