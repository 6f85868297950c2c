package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScheduler_RunsImmediatelyAndStops(t *testing.T) {
	s := NewScheduler()
	var runs int32
	done := make(chan struct{}, 1)
	s.AddJob("count", time.Hour, func(ctx context.Context) error {
		if atomic.AddInt32(&runs, 1) == 1 {
			done <- struct{}{}
		}
		return nil
	})

	s.Start()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("job did not run on start")
	}
	s.Stop()

	assert.Equal(t, int32(1), atomic.LoadInt32(&runs))
}

func TestScheduler_RunOnceSurvivesFailures(t *testing.T) {
	s := NewScheduler()
	var second bool
	s.AddJob("fails", time.Hour, func(ctx context.Context) error { return errors.New("boom") })
	s.AddJob("panics", time.Hour, func(ctx context.Context) error { panic("boom") })
	s.AddJob("ok", time.Hour, func(ctx context.Context) error {
		second = true
		return nil
	})

	s.RunOnce(context.Background())
	assert.True(t, second)
}

func TestAtHour(t *testing.T) {
	loc := time.FixedZone("PHT", 8*3600)
	var ran int
	fn := func(ctx context.Context) error {
		ran++
		return nil
	}

	// 17:30 UTC is 01:30 in UTC+8
	at := func(h int) func() time.Time {
		return func() time.Time { return time.Date(2025, 3, 10, h, 30, 0, 0, time.UTC) }
	}

	assert.NoError(t, AtHour(1, loc, at(17), fn)(context.Background()))
	assert.Equal(t, 1, ran)

	assert.NoError(t, AtHour(1, loc, at(1), fn)(context.Background()))
	assert.Equal(t, 1, ran)
}
