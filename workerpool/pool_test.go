package workerpool

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPoolRunsAllJobsAndDrains(t *testing.T) {
	p := New(4)
	require.Equal(t, 4, p.Size())

	var counter int64
	for i := 0; i < 100; i++ {
		err := p.Add(func() {
			atomic.AddInt64(&counter, 1)
		})
		require.NoError(t, err)
	}

	p.Wait()
	require.Equal(t, int64(100), atomic.LoadInt64(&counter))
	require.Equal(t, 0, p.QueueSize())

	p.StopAndFree()
}

func TestPoolMinimumOneWorker(t *testing.T) {
	p := New(0)
	require.Equal(t, 1, p.Size())
	p.StopAndFree()
}

func TestPoolAddAfterStopFails(t *testing.T) {
	p := New(2)
	p.StopAndFree()

	err := p.Add(func() {})
	require.ErrorIs(t, err, ErrStopped)
}

func TestPoolFIFOOrder(t *testing.T) {
	p := New(1)
	var mu sync.Mutex
	var order []int

	for i := 0; i < 20; i++ {
		i := i
		require.NoError(t, p.Add(func() {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
		}))
	}
	p.Wait()

	for i := 0; i < 20; i++ {
		require.Equal(t, i, order[i])
	}
	p.StopAndFree()
}

func TestPoolStopAndFreeDoesNotLeakGoroutinesWithQueuedWork(t *testing.T) {
	p := New(2)
	block := make(chan struct{})
	started := make(chan struct{}, 2)

	require.NoError(t, p.Add(func() {
		started <- struct{}{}
		<-block
	}))
	require.NoError(t, p.Add(func() {
		started <- struct{}{}
		<-block
	}))
	<-started
	<-started

	// queue a third job that must be discarded by StopAndFree, and give
	// StopAndFree a chance to take the lock and clear the queue before
	// the two in-flight jobs are allowed to finish.
	ran := int32(0)
	require.NoError(t, p.Add(func() {
		atomic.AddInt32(&ran, 1)
	}))

	stopped := make(chan struct{})
	go func() {
		p.StopAndFree()
		close(stopped)
	}()
	time.Sleep(20 * time.Millisecond)
	close(block)
	<-stopped

	require.Equal(t, int32(0), atomic.LoadInt32(&ran))
}
