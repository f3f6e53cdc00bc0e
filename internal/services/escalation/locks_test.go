package escalation

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserLocks_SameUserSameMutex(t *testing.T) {
	locks := newUserLocks()

	first := locks.forUser(1)
	second := locks.forUser(1)
	other := locks.forUser(2)

	assert.Same(t, first, second)
	assert.NotSame(t, first, other)
}

func TestUserLocks_ConcurrentAccess(t *testing.T) {
	locks := newUserLocks()

	var wg sync.WaitGroup
	results := make([]*sync.Mutex, 100)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = locks.forUser(7)
		}(i)
	}
	wg.Wait()

	for i := 1; i < len(results); i++ {
		assert.Same(t, results[0], results[i])
	}
}
