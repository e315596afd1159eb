package timeentry

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shiftbook/shiftbook-backend/internal/domain/timeentry"
)

// DefaultWatchdogTimeout bounds how long an in-flight fetch may hold the
// cache's loading state before it is written off as stuck.
const DefaultWatchdogTimeout = 15 * time.Second

// ErrFetchTimeout is returned to waiters whose shared fetch was abandoned by
// the watchdog.
var ErrFetchTimeout = errors.New("time entry fetch timed out")

// LoadFunc fetches the full entry list from the backing store.
type LoadFunc func(ctx context.Context) ([]timeentry.TimeEntry, error)

type inflightFetch struct {
	done    chan struct{}
	expired chan struct{}
	entries []timeentry.TimeEntry
	err     error
}

// Cache is a per-session time entry cache. Each session owns exactly one
// Cache; nothing is shared across sessions. Concurrent Fetch calls collapse
// onto a single backing-store request, and the entry list is kept in step
// with successful mutations so a mutation never needs a refetch.
type Cache struct {
	load    LoadFunc
	timeout time.Duration

	mu      sync.Mutex
	entries []timeentry.TimeEntry
	loaded  bool
	call    *inflightFetch
}

// NewCache builds a cache around the given loader. A non-positive timeout
// falls back to DefaultWatchdogTimeout.
func NewCache(load LoadFunc, timeout time.Duration) *Cache {
	if timeout <= 0 {
		timeout = DefaultWatchdogTimeout
	}
	return &Cache{load: load, timeout: timeout}
}

// Loading reports whether a fetch is currently in flight.
func (c *Cache) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.call != nil
}

// Fetch returns the cached entry list, loading it on first use. Callers
// arriving while a load is in flight wait for that same load and observe its
// result; they never start a second one. A load still running when the
// watchdog fires is abandoned: waiters get ErrFetchTimeout, the loading
// state clears so a later Fetch can retry, and whatever the stuck load
// eventually returns is discarded.
func (c *Cache) Fetch(ctx context.Context) ([]timeentry.TimeEntry, error) {
	c.mu.Lock()
	if c.loaded {
		entries := copyEntries(c.entries)
		c.mu.Unlock()
		return entries, nil
	}

	if c.call != nil {
		call := c.call
		c.mu.Unlock()
		return c.wait(ctx, call)
	}

	call := &inflightFetch{
		done:    make(chan struct{}),
		expired: make(chan struct{}),
	}
	c.call = call
	c.mu.Unlock()

	watchdog := time.AfterFunc(c.timeout, func() {
		c.mu.Lock()
		if c.call == call {
			c.call = nil
		}
		c.mu.Unlock()
		close(call.expired)
	})

	call.entries, call.err = c.load(ctx)
	close(call.done)

	if !watchdog.Stop() {
		// Watchdog already abandoned this fetch; its result is dropped.
		return nil, ErrFetchTimeout
	}

	c.mu.Lock()
	if c.call == call {
		c.call = nil
		if call.err == nil {
			c.entries = copyEntries(call.entries)
			c.loaded = true
		}
	}
	c.mu.Unlock()

	return call.entries, call.err
}

func (c *Cache) wait(ctx context.Context, call *inflightFetch) ([]timeentry.TimeEntry, error) {
	select {
	case <-call.done:
		return call.entries, call.err
	case <-call.expired:
		return nil, ErrFetchTimeout
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Insert adds a freshly created entry, keeping the most-recent-date-first
// ordering of the cached list.
func (c *Cache) Insert(entry timeentry.TimeEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.loaded {
		return
	}

	pos := len(c.entries)
	for i := range c.entries {
		if !c.entries[i].Date.After(entry.Date) {
			pos = i
			break
		}
	}
	c.entries = append(c.entries, timeentry.TimeEntry{})
	copy(c.entries[pos+1:], c.entries[pos:])
	c.entries[pos] = entry
}

// Replace swaps the cached copy of an updated entry in place.
func (c *Cache) Replace(entry timeentry.TimeEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.entries {
		if c.entries[i].ID == entry.ID {
			c.entries[i] = entry
			return
		}
	}
}

// Remove drops a deleted entry from the cached list.
func (c *Cache) Remove(entryID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.entries {
		if c.entries[i].ID == entryID {
			c.entries = append(c.entries[:i], c.entries[i+1:]...)
			return
		}
	}
}

// Invalidate throws the cached list away so the next Fetch reloads it.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = nil
	c.loaded = false
}

func copyEntries(entries []timeentry.TimeEntry) []timeentry.TimeEntry {
	out := make([]timeentry.TimeEntry, len(entries))
	copy(out, entries)
	return out
}
