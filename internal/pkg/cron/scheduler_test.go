package cron

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScheduler_Start_RunsJobImmediately(t *testing.T) {
	var runs atomic.Int32

	s := NewScheduler()
	s.AddJob("counter", time.Hour, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	})

	s.Start()
	defer s.Stop()

	// The interval is an hour, so any run observed here is the boot run.
	deadline := time.Now().Add(time.Second)
	for runs.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	assert.Equal(t, int32(1), runs.Load())
}

func TestScheduler_RunOnce_ExecutesAllJobs(t *testing.T) {
	var a, b atomic.Int32

	s := NewScheduler()
	s.AddJob("a", time.Hour, func(ctx context.Context) error {
		a.Add(1)
		return nil
	})
	s.AddJob("b", time.Hour, func(ctx context.Context) error {
		b.Add(1)
		return nil
	})

	s.RunOnce(context.Background())

	assert.Equal(t, int32(1), a.Load())
	assert.Equal(t, int32(1), b.Load())
}
