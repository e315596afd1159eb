package notification

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncer_Sync_DebouncesWithinInterval(t *testing.T) {
	var runs int32
	s := NewSyncer(func(ctx context.Context) error {
		atomic.AddInt32(&runs, 1)
		return nil
	}, time.Minute)

	ran, err := s.Sync(context.Background())
	require.NoError(t, err)
	assert.True(t, ran)

	ran, err = s.Sync(context.Background())
	require.NoError(t, err)
	assert.False(t, ran)

	assert.Equal(t, int32(1), atomic.LoadInt32(&runs))
}

func TestSyncer_Sync_RunsAgainAfterInterval(t *testing.T) {
	var runs int32
	s := NewSyncer(func(ctx context.Context) error {
		atomic.AddInt32(&runs, 1)
		return nil
	}, 10*time.Millisecond)

	_, err := s.Sync(context.Background())
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)

	ran, err := s.Sync(context.Background())
	require.NoError(t, err)
	assert.True(t, ran)
	assert.Equal(t, int32(2), atomic.LoadInt32(&runs))
}

func TestSyncer_ForceSync_BypassesInterval(t *testing.T) {
	var runs int32
	s := NewSyncer(func(ctx context.Context) error {
		atomic.AddInt32(&runs, 1)
		return nil
	}, time.Minute)

	_, err := s.Sync(context.Background())
	require.NoError(t, err)

	ran, err := s.ForceSync(context.Background())
	require.NoError(t, err)
	assert.True(t, ran)
	assert.Equal(t, int32(2), atomic.LoadInt32(&runs))
}

func TestSyncer_InFlightRefreshExcludesOthers(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var runs int32
	s := NewSyncer(func(ctx context.Context) error {
		atomic.AddInt32(&runs, 1)
		close(started)
		<-release
		return nil
	}, time.Minute)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ran, err := s.Sync(context.Background())
		assert.NoError(t, err)
		assert.True(t, ran)
	}()

	<-started

	// Both variants yield to the refresh already running.
	ran, err := s.Sync(context.Background())
	require.NoError(t, err)
	assert.False(t, ran)

	ran, err = s.ForceSync(context.Background())
	require.NoError(t, err)
	assert.False(t, ran)

	close(release)
	wg.Wait()
	assert.Equal(t, int32(1), atomic.LoadInt32(&runs))
}

func TestSyncer_ErrorStillRecordsRun(t *testing.T) {
	refreshErr := errors.New("unread count lookup failed")
	var runs int32
	s := NewSyncer(func(ctx context.Context) error {
		atomic.AddInt32(&runs, 1)
		return refreshErr
	}, time.Minute)

	ran, err := s.Sync(context.Background())
	assert.True(t, ran)
	assert.ErrorIs(t, err, refreshErr)

	// The failed run still counts against the interval.
	ran, err = s.Sync(context.Background())
	require.NoError(t, err)
	assert.False(t, ran)
	assert.Equal(t, int32(1), atomic.LoadInt32(&runs))
}
