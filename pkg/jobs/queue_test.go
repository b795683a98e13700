package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stopOnCleanup(t *testing.T, q *Queue) {
	t.Cleanup(func() { _ = q.Stop(context.Background()) })
}

func TestQueueProcessesJobs(t *testing.T) {
	done := make(chan Job, 1)
	q := NewQueue("events", func(_ context.Context, job Job) error {
		done <- job
		return nil
	}, QueueConfig{Workers: 2})
	q.Start(context.Background())
	stopOnCleanup(t, q)

	require.NoError(t, q.Enqueue(Job{ID: "1", Kind: "registration.created", Payload: []byte(`{}`)}))

	select {
	case job := <-done:
		assert.Equal(t, "1", job.ID)
		assert.False(t, job.Enqueued.IsZero())
	case <-time.After(2 * time.Second):
		t.Fatal("job was not processed")
	}
}

func TestQueueRetriesFailedJobs(t *testing.T) {
	var calls int32
	done := make(chan struct{})
	q := NewQueue("events", func(_ context.Context, job Job) error {
		if atomic.AddInt32(&calls, 1) < 3 {
			return errors.New("nats unavailable")
		}
		close(done)
		return nil
	}, QueueConfig{MaxRetries: 3, RetryDelay: 5 * time.Millisecond})
	q.Start(context.Background())
	stopOnCleanup(t, q)

	require.NoError(t, q.Enqueue(Job{ID: "retry"}))

	select {
	case <-done:
		assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	case <-time.After(2 * time.Second):
		t.Fatal("job was not retried")
	}
}

func TestQueueStopDrainsBufferedJobs(t *testing.T) {
	var handled int32
	release := make(chan struct{})
	q := NewQueue("events", func(context.Context, Job) error {
		<-release
		atomic.AddInt32(&handled, 1)
		return nil
	}, QueueConfig{Workers: 1, BufferSize: 8})
	q.Start(context.Background())

	for _, id := range []string{"a", "b", "c", "d"} {
		require.NoError(t, q.Enqueue(Job{ID: id}))
	}
	close(release)

	require.NoError(t, q.Stop(context.Background()))
	assert.Equal(t, int32(4), atomic.LoadInt32(&handled))
	assert.ErrorIs(t, q.Enqueue(Job{ID: "late"}), ErrNotRunning)
}

func TestQueueStopFinishesRetriesDuringDrain(t *testing.T) {
	var calls int32
	q := NewQueue("events", func(context.Context, Job) error {
		if atomic.AddInt32(&calls, 1) == 1 {
			return errors.New("nats unavailable")
		}
		return nil
	}, QueueConfig{MaxRetries: 2, RetryDelay: 20 * time.Millisecond})
	q.Start(context.Background())

	require.NoError(t, q.Enqueue(Job{ID: "flaky"}))
	require.Eventually(t, func() bool { return atomic.LoadInt32(&calls) == 1 }, time.Second, time.Millisecond)

	require.NoError(t, q.Stop(context.Background()))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestQueueStopDeadlineDropsRemainingJobs(t *testing.T) {
	started := make(chan struct{}, 1)
	q := NewQueue("events", func(ctx context.Context, _ Job) error {
		started <- struct{}{}
		<-ctx.Done()
		return nil
	}, QueueConfig{Workers: 1, BufferSize: 4})
	q.Start(context.Background())

	require.NoError(t, q.Enqueue(Job{ID: "blocking"}))
	<-started
	require.NoError(t, q.Enqueue(Job{ID: "queued-1"}))
	require.NoError(t, q.Enqueue(Job{ID: "queued-2"}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := q.Stop(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), "dropped 2 jobs")
}

func TestQueueIgnoresParentCancellation(t *testing.T) {
	done := make(chan struct{})
	ctx, cancel := context.WithCancel(context.Background())
	q := NewQueue("events", func(context.Context, Job) error {
		close(done)
		return nil
	}, QueueConfig{})
	q.Start(ctx)
	stopOnCleanup(t, q)
	cancel()

	require.NoError(t, q.Enqueue(Job{ID: "after-signal"}))
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("job was not processed after parent cancellation")
	}
}

func TestEnqueueBeforeStart(t *testing.T) {
	q := NewQueue("events", func(context.Context, Job) error { return nil }, QueueConfig{})
	assert.ErrorIs(t, q.Enqueue(Job{ID: "x"}), ErrNotRunning)
}

func TestEnqueueFull(t *testing.T) {
	block := make(chan struct{})
	q := NewQueue("events", func(context.Context, Job) error {
		<-block
		return nil
	}, QueueConfig{Workers: 1, BufferSize: 1})
	q.Start(context.Background())
	t.Cleanup(func() {
		close(block)
		_ = q.Stop(context.Background())
	})

	require.NoError(t, q.Enqueue(Job{ID: "1"}))
	require.Eventually(t, func() bool { return q.Pending() == 0 }, time.Second, time.Millisecond)
	require.NoError(t, q.Enqueue(Job{ID: "2"}))
	assert.ErrorIs(t, q.Enqueue(Job{ID: "3"}), ErrFull)
}

func TestBackoffDoublesUpToMax(t *testing.T) {
	q := NewQueue("events", nil, QueueConfig{RetryDelay: time.Second, MaxDelay: 5 * time.Second})
	assert.Equal(t, time.Second, q.backoff(1))
	assert.Equal(t, 2*time.Second, q.backoff(2))
	assert.Equal(t, 4*time.Second, q.backoff(3))
	assert.Equal(t, 5*time.Second, q.backoff(4))
	assert.Equal(t, 5*time.Second, q.backoff(10))
}
