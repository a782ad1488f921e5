package keyedevent

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLockMutualExclusion(t *testing.T) {
	for _, n := range []int{1, 2, 4, 8} {
		n := n
		t.Run("", func(t *testing.T) {
			lock := New()
			const iterations = 100000
			counter := 0
			var wg sync.WaitGroup

			wg.Add(n)
			for i := 0; i < n; i++ {
				go func() {
					defer wg.Done()
					for range iterations {
						lock.Lock()
						counter++
						lock.Unlock()
					}
				}()
			}
			wg.Wait()

			assert.Equal(t, n*iterations, counter)
		})
	}
}

func TestLockNoLostWakeupUnderStress(t *testing.T) {
	lock := New()
	const numGoroutines = 16
	const iterations = 10000
	var wg sync.WaitGroup

	done := make(chan struct{})
	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				lock.Lock()
				lock.Unlock()
			}
		}()
	}
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("deadlock: workers did not complete within 10s")
	}
}

func TestTryLock(t *testing.T) {
	lock := New()
	assert.True(t, lock.TryLock())
	assert.False(t, lock.TryLock())
	lock.Unlock()
	assert.True(t, lock.TryLock())
	lock.Unlock()
}

func TestManyWaitersAllEventuallyAcquire(t *testing.T) {
	lock := New()
	lock.Lock()

	const numWaiters = 20
	var wg sync.WaitGroup
	wg.Add(numWaiters)
	for i := 0; i < numWaiters; i++ {
		go func() {
			defer wg.Done()
			lock.Lock()
			lock.Unlock()
		}()
	}

	time.Sleep(20 * time.Millisecond)
	lock.Unlock()

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("not all waiters acquired the lock")
	}
}
