package memory

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSessionRepository(t *testing.T) {
	t.Run("Same chat gets the same session", func(t *testing.T) {
		repo := NewSessionRepository(time.Hour, nil)

		a := repo.GetOrCreate(7)
		b := repo.GetOrCreate(7)
		c := repo.GetOrCreate(8)

		assert.Same(t, a, b)
		assert.NotSame(t, a, c)
		assert.Equal(t, 2, repo.Count())
	})

	t.Run("Concurrent creation yields one session", func(t *testing.T) {
		repo := NewSessionRepository(time.Hour, nil)
		var wg sync.WaitGroup
		got := make(chan interface{}, 50)
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				got <- repo.GetOrCreate(99)
			}()
		}
		wg.Wait()
		close(got)

		first := <-got
		for s := range got {
			assert.Same(t, first, s)
		}
	})

	t.Run("Delete fires the eviction hook", func(t *testing.T) {
		var evicted []int64
		repo := NewSessionRepository(time.Hour, func(id int64) { evicted = append(evicted, id) })
		repo.GetOrCreate(5)

		repo.Delete(5)

		_, found := repo.Get(5)
		assert.False(t, found)
		assert.Equal(t, []int64{5}, evicted)
	})
}
