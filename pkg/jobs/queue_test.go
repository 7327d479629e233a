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

type outcomeLog struct {
	mu   sync.Mutex
	seen []Outcome
}

func (l *outcomeLog) observe(_ string, o Outcome) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seen = append(l.seen, o)
}

func (l *outcomeLog) snapshot() []Outcome {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Outcome(nil), l.seen...)
}

func TestQueueRunsJobs(t *testing.T) {
	done := make(chan string, 3)
	q := NewQueue("test", func(ctx context.Context, job Job) error {
		done <- job.ID
		return nil
	}, Config{Workers: 2})
	q.Start(context.Background())
	defer q.Stop()

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, q.Enqueue(Job{ID: id}))
	}

	got := map[string]bool{}
	for i := 0; i < 3; i++ {
		select {
		case id := <-done:
			got[id] = true
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for jobs")
		}
	}
	assert.Len(t, got, 3)
}

func TestQueueRetriesThenDrops(t *testing.T) {
	var calls int32
	outcomes := &outcomeLog{}
	q := NewQueue("retry", func(ctx context.Context, job Job) error {
		atomic.AddInt32(&calls, 1)
		return errors.New("boom")
	}, Config{MaxRetries: 3, RetryDelay: time.Millisecond, Observer: outcomes.observe})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{ID: "x"}))

	require.Eventually(t, func() bool {
		seen := outcomes.snapshot()
		return len(seen) > 0 && seen[len(seen)-1] == OutcomeDropped
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	assert.Equal(t, []Outcome{OutcomeRetried, OutcomeRetried, OutcomeDropped}, outcomes.snapshot())
}

func TestQueueEnqueueWhenStopped(t *testing.T) {
	q := NewQueue("idle", func(ctx context.Context, job Job) error { return nil }, Config{})

	err := q.Enqueue(Job{ID: "early"})
	assert.ErrorIs(t, err, ErrQueueClosed)

	q.Start(context.Background())
	q.Stop()
	err = q.Enqueue(Job{ID: "late"})
	assert.ErrorIs(t, err, ErrQueueClosed)
}
