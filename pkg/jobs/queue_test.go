package jobs

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

func TestQueueProcessesJobs(t *testing.T) {
	var processed sync.Map
	q := NewQueue("test", func(_ context.Context, job Job) error {
		processed.Store(job.ID, job.Payload)
		return nil
	}, QueueConfig{Workers: 2})
	q.Start(context.Background())
	defer q.Stop()

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, q.Enqueue(Job{ID: id, Kind: "export", Payload: id + "-payload"}))
	}

	require.Eventually(t, func() bool {
		count := 0
		processed.Range(func(_, _ any) bool { count++; return true })
		return count == 3
	}, time.Second, 5*time.Millisecond)

	payload, _ := processed.Load("b")
	assert.Equal(t, "b-payload", payload)
}

func TestQueueRetriesThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	q := NewQueue("retry", func(_ context.Context, job Job) error {
		if calls.Add(1) < 3 {
			return errors.New("transient")
		}
		return nil
	}, QueueConfig{MaxRetries: 3, RetryDelay: time.Millisecond})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{ID: "job"}))
	require.Eventually(t, func() bool { return calls.Load() == 3 }, time.Second, 5*time.Millisecond)
}

func TestQueueReportsExhaustedJobs(t *testing.T) {
	failed := make(chan Job, 1)
	q := NewQueue("fail", func(_ context.Context, job Job) error {
		return errors.New("broken")
	}, QueueConfig{
		MaxRetries: 1,
		RetryDelay: time.Millisecond,
		OnFailure:  func(job Job, err error) { failed <- job },
	})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{ID: "doomed"}))
	select {
	case job := <-failed:
		assert.Equal(t, "doomed", job.ID)
		assert.Equal(t, 2, job.Attempt)
	case <-time.After(time.Second):
		t.Fatal("failure hook not called")
	}
}

func TestQueueRecoversPanics(t *testing.T) {
	failed := make(chan error, 1)
	q := NewQueue("panic", func(context.Context, Job) error {
		panic("boom")
	}, QueueConfig{OnFailure: func(_ Job, err error) { failed <- err }})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{ID: "p"}))
	select {
	case err := <-failed:
		assert.Contains(t, err.Error(), "boom")
	case <-time.After(time.Second):
		t.Fatal("panic not reported")
	}
}

func TestQueueAppliesJobTimeout(t *testing.T) {
	failed := make(chan error, 1)
	q := NewQueue("timeout", func(ctx context.Context, _ Job) error {
		<-ctx.Done()
		return ctx.Err()
	}, QueueConfig{JobTimeout: 10 * time.Millisecond, OnFailure: func(_ Job, err error) { failed <- err }})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{ID: "slow"}))
	select {
	case err := <-failed:
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	case <-time.After(time.Second):
		t.Fatal("timeout not applied")
	}
}

func TestQueueRejectsWhenNotRunningOrFull(t *testing.T) {
	block := make(chan struct{})
	q := NewQueue("full", func(context.Context, Job) error {
		<-block
		return nil
	}, QueueConfig{Workers: 1, BufferSize: 1})
	assert.Error(t, q.Enqueue(Job{ID: "early"}))

	q.Start(context.Background())
	require.NoError(t, q.Enqueue(Job{ID: "1"}))
	require.Eventually(t, func() bool { return q.Len() == 0 }, time.Second, time.Millisecond)
	require.NoError(t, q.Enqueue(Job{ID: "2"}))
	assert.ErrorIs(t, q.Enqueue(Job{ID: "3"}), ErrQueueFull)

	close(block)
	q.Stop()
	assert.Error(t, q.Enqueue(Job{ID: "late"}))
}
