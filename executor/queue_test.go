package executor

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRunnable(id uint64, priority uint32) *runnable {
	return &runnable{id: id, priority: priority, poll: func(*Context) bool { return true }}
}

func TestReadyQueuePriorityOrder(t *testing.T) {
	q := NewReadyQueue()
	require.NoError(t, q.push(newTestRunnable(1, 0)))
	require.NoError(t, q.push(newTestRunnable(2, 9)))
	require.NoError(t, q.push(newTestRunnable(3, 0)))
	require.NoError(t, q.push(newTestRunnable(4, 9)))

	var order []uint64
	for i := 0; i < 4; i++ {
		r, err := q.Pop()
		require.NoError(t, err)
		order = append(order, r.id)
	}
	assert.Equal(t, []uint64{2, 4, 1, 3}, order)
}

func TestReadyQueueTryPopEmpty(t *testing.T) {
	q := NewReadyQueue()
	r, ok, err := q.TryPop()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, r)
}

func TestReadyQueueCloseUnblocksPop(t *testing.T) {
	q := NewReadyQueue()
	done := make(chan error, 1)
	go func() {
		_, err := q.Pop()
		done <- err
	}()
	q.Close()
	require.ErrorIs(t, <-done, ErrQueueClosed)

	_, err := q.Pop()
	require.ErrorIs(t, err, ErrQueueClosed)

	_, _, err = q.TryPop()
	require.ErrorIs(t, err, ErrQueueClosed)
}

func TestReadyQueueCloseDrainsRemaining(t *testing.T) {
	q := NewReadyQueue()
	require.NoError(t, q.push(newTestRunnable(1, 0)))
	q.Close()

	r, err := q.Pop()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), r.id)

	_, err = q.Pop()
	require.ErrorIs(t, err, ErrQueueClosed)
}

func TestReadyQueueConcurrentPushPop(t *testing.T) {
	q := NewReadyQueue()
	const n = 200

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			require.NoError(t, q.push(newTestRunnable(uint64(i+1), uint32(i%5))))
		}
	}()

	seen := make(map[uint64]bool)
	for i := 0; i < n; i++ {
		r, err := q.Pop()
		require.NoError(t, err)
		assert.False(t, seen[r.id])
		seen[r.id] = true
	}
	wg.Wait()
	assert.Equal(t, n, len(seen))
}
