package lock

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestLockUnlock(t *testing.T) {
	al := New()
	al.Lock(1)
	al.Unlock(1)
	al.Lock(1)
	al.Unlock(1)
}

func TestTryLock(t *testing.T) {
	al := New()

	require.True(t, al.TryLock(1))
	assert.False(t, al.TryLock(1))

	// A different account is not blocked.
	assert.True(t, al.TryLock(2))

	al.Unlock(1)
	assert.True(t, al.TryLock(1))
	al.Unlock(1)
	al.Unlock(2)
}

func TestWithLock(t *testing.T) {
	al := New()
	called := false
	err := al.WithLock(1, func() error {
		called = true
		assert.False(t, al.TryLock(1))
		return nil
	})
	require.NoError(t, err)
	assert.True(t, called)

	// Released after fn returns.
	assert.True(t, al.TryLock(1))
	al.Unlock(1)
}

// TestConcurrentCountersProperty runs concurrent increments on per-account
// counters guarded by the account lock and verifies no update is lost.
func TestConcurrentCountersProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		al := New()

		numAccounts := rapid.IntRange(1, 4).Draw(rt, "numAccounts")
		perAccount := rapid.IntRange(1, 50).Draw(rt, "perAccount")
		workers := rapid.IntRange(2, 8).Draw(rt, "workers")

		counters := make([]int64, numAccounts)
		var wg sync.WaitGroup
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for id := 0; id < numAccounts; id++ {
					for i := 0; i < perAccount; i++ {
						al.Lock(int64(id))
						counters[id]++
						al.Unlock(int64(id))
					}
				}
			}()
		}
		wg.Wait()

		want := int64(workers * perAccount)
		for id, got := range counters {
			if got != want {
				rt.Fatalf("account %d counter %d, want %d", id, got, want)
			}
		}
	})
}
