package pi

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
					tok := NewToken()
					for range iterations {
						lock.Lock(tok)
						counter++
						lock.Unlock(tok)
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
			tok := NewToken()
			for j := 0; j < iterations; j++ {
				lock.Lock(tok)
				lock.Unlock(tok)
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
	a, b := NewToken(), NewToken()
	assert.True(t, lock.TryLock(a))
	assert.False(t, lock.TryLock(b))
	lock.Unlock(a)
	assert.True(t, lock.TryLock(b))
	lock.Unlock(b)
}

func TestTokensAreUnique(t *testing.T) {
	seen := make(map[uint32]bool)
	for i := 0; i < 1000; i++ {
		tok := NewToken()
		assert.False(t, seen[tok.id])
		seen[tok.id] = true
	}
}
