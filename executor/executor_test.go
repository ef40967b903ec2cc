package executor

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpawnRejectsWithZeroWorkers(t *testing.T) {
	ex, err := New(0)
	require.NoError(t, err)
	defer ex.Close()

	_, err = Spawn(ex, Ready(1))
	require.ErrorIs(t, err, ErrNoWorkers)
}

func TestSpawnThenWaitRoundTrip(t *testing.T) {
	ex, err := New(2)
	require.NoError(t, err)
	ex.Start()
	defer ex.Close()

	task, err := Spawn(ex, Ready(99))
	require.NoError(t, err)

	v, err := BlockOn(context.Background(), ex, Wait(task))
	require.NoError(t, err)
	assert.Equal(t, 99, v)
	assert.Equal(t, TaskDone, task.State())
}

// TestSingleWorkerPriorityOrdering spawns interleaved low/high priority
// tasks before starting the single worker, so the pop order is fully
// determined by the ReadyQueue's ordering rather than scheduling luck.
func TestSingleWorkerPriorityOrdering(t *testing.T) {
	ex, err := New(1)
	require.NoError(t, err)
	defer ex.Close()

	var mu sync.Mutex
	var log []uint32
	record := func(p uint32) {
		mu.Lock()
		log = append(log, p)
		mu.Unlock()
	}

	var wg sync.WaitGroup
	priorities := []uint32{0, 9, 0, 9, 0, 9, 0, 9, 0, 9}
	for _, p := range priorities {
		p := p
		wg.Add(1)
		task, err := Spawn(ex, FromFunc(func() (struct{}, error) {
			record(p)
			return struct{}{}, nil
		}), p)
		require.NoError(t, err)
		go func() {
			defer wg.Done()
			<-task.Done()
		}()
	}

	ex.Start()
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, log, len(priorities))
	firstZero := indexOf(log, 0)
	for i := 0; i < firstZero; i++ {
		assert.Equal(t, uint32(9), log[i], "priority-9 tasks must all precede the first priority-0 task")
	}
}

func indexOf(s []uint32, v uint32) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return -1
}

// countingFuture is pending on its first poll and records the Waker it was
// given, so the test can fire Wake an arbitrary number of times and assert
// only one subsequent poll happens.
type countingFuture struct {
	mu       sync.Mutex
	polls    int
	gotWaker chan *Waker
}

func newCountingFuture() *countingFuture {
	return &countingFuture{gotWaker: make(chan *Waker, 1)}
}

func (f *countingFuture) Poll(cx *Context) (int, bool, error) {
	f.mu.Lock()
	f.polls++
	n := f.polls
	f.mu.Unlock()
	if n == 1 {
		f.gotWaker <- cx.Waker()
		return 0, false, nil
	}
	return n, true, nil
}

func TestWakeCoalescesIntoOnePoll(t *testing.T) {
	ex, err := New(1)
	require.NoError(t, err)
	ex.Start()
	defer ex.Close()

	fut := newCountingFuture()
	task, err := Spawn(ex, fut)
	require.NoError(t, err)

	waker := <-fut.gotWaker
	for i := 0; i < 5; i++ {
		waker.Wake()
	}

	select {
	case <-task.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("task never completed")
	}

	fut.mu.Lock()
	defer fut.mu.Unlock()
	assert.Equal(t, 2, fut.polls)
}

func TestCloseUnblocksPendingBlockOn(t *testing.T) {
	ex, err := New(1)
	require.NoError(t, err)
	ex.Start()

	started := make(chan struct{})
	forever := FutureFunc[int](func(cx *Context) (int, bool, error) {
		select {
		case <-started:
		default:
			close(started)
		}
		return 0, false, nil
	})

	resultCh := make(chan error, 1)
	go func() {
		_, err := BlockOn(context.Background(), ex, forever)
		resultCh <- err
	}()

	<-started
	require.NoError(t, ex.Close())

	select {
	case err := <-resultCh:
		require.ErrorIs(t, err, ErrNoResult)
	case <-time.After(2 * time.Second):
		t.Fatal("BlockOn did not return after Close")
	}
}

func TestExecutorStats(t *testing.T) {
	ex, err := New(2)
	require.NoError(t, err)
	ex.Start()
	defer ex.Close()

	_, err = BlockOn(context.Background(), ex, Ready(1))
	require.NoError(t, err)
	_, err = BlockOn(context.Background(), ex, Failed[int](assert.AnError))
	require.Error(t, err)

	stats := ex.Stats()
	assert.GreaterOrEqual(t, stats.Spawned, uint64(2))
	assert.Equal(t, uint64(1), stats.Completed)
	assert.Equal(t, uint64(1), stats.Failed)
}
