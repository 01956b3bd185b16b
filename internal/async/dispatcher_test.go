package async

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/coupon-directory-analytics/internal/observability"
)

func TestDispatcher_Go_RunsTask(t *testing.T) {
	d := NewDispatcher(time.Second, nil)
	var ran atomic.Bool

	err := d.Go("test", func(ctx context.Context) error {
		ran.Store(true)
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, d.Drain(context.Background()))
	assert.True(t, ran.Load())
	assert.Equal(t, 0, d.InFlight())
}

func TestDispatcher_Go_DoesNotBlockCaller(t *testing.T) {
	d := NewDispatcher(time.Second, nil)
	release := make(chan struct{})

	start := time.Now()
	err := d.Go("slow", func(ctx context.Context) error {
		<-release
		return nil
	})
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 100*time.Millisecond, "Go should return before the task finishes")
	assert.Equal(t, 1, d.InFlight())

	close(release)
	require.NoError(t, d.Drain(context.Background()))
}

func TestDispatcher_TaskTimeout(t *testing.T) {
	d := NewDispatcher(20*time.Millisecond, nil)
	var sawDeadline atomic.Bool

	require.NoError(t, d.Go("bounded", func(ctx context.Context) error {
		<-ctx.Done()
		sawDeadline.Store(errors.Is(ctx.Err(), context.DeadlineExceeded))
		return ctx.Err()
	}))

	require.NoError(t, d.Drain(context.Background()))
	assert.True(t, sawDeadline.Load())
}

func TestDispatcher_ErrorAndPanicAreSwallowed(t *testing.T) {
	m := observability.NewMetrics(prometheus.NewRegistry())
	d := NewDispatcher(time.Second, m)

	require.NoError(t, d.Go("fails", func(ctx context.Context) error {
		return errors.New("db down")
	}))
	require.NoError(t, d.Go("panics", func(ctx context.Context) error {
		panic("boom")
	}))
	require.NoError(t, d.Go("ok", func(ctx context.Context) error {
		return nil
	}))

	require.NoError(t, d.Drain(context.Background()))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.DetachedTasksTotal.WithLabelValues("failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DetachedTasksTotal.WithLabelValues("success")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.DetachedTasksInFlight))
}

func TestDispatcher_RejectsAfterDrain(t *testing.T) {
	m := observability.NewMetrics(prometheus.NewRegistry())
	d := NewDispatcher(time.Second, m)
	require.NoError(t, d.Drain(context.Background()))

	var ran atomic.Bool
	err := d.Go("late", func(ctx context.Context) error {
		ran.Store(true)
		return nil
	})

	assert.ErrorIs(t, err, ErrDispatcherClosed)
	assert.False(t, ran.Load())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DetachedTasksTotal.WithLabelValues("dropped")))
}

func TestDispatcher_DrainDeadline(t *testing.T) {
	d := NewDispatcher(time.Second, nil)
	release := make(chan struct{})
	defer close(release)

	require.NoError(t, d.Go("stuck", func(ctx context.Context) error {
		<-release
		return nil
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := d.Drain(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, d.InFlight())
}

func TestDispatcher_DrainWaitsForManyTasks(t *testing.T) {
	d := NewDispatcher(time.Second, nil)
	var count atomic.Int64

	for i := 0; i < 100; i++ {
		require.NoError(t, d.Go("count", func(ctx context.Context) error {
			time.Sleep(time.Millisecond)
			count.Add(1)
			return nil
		}))
	}

	require.NoError(t, d.Drain(context.Background()))
	assert.Equal(t, int64(100), count.Load())
}
