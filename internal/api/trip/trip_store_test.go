package trip

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jalanjalan-ai/trip-planner/internal/types"
)

func TestCacheStore(t *testing.T) {
	t.Run("get on unknown key", func(t *testing.T) {
		store := NewCacheStore()

		sess, ok := store.Get("missing")

		assert.False(t, ok)
		assert.Nil(t, sess)
	})

	t.Run("upsert then get returns same session", func(t *testing.T) {
		store := NewCacheStore()
		sess := types.NewTripSession("user-1")
		store.Upsert("user-1", sess)

		got, ok := store.Get("user-1")

		require.True(t, ok)
		assert.Same(t, sess, got)
	})

	t.Run("upsert overwrites", func(t *testing.T) {
		store := NewCacheStore()
		store.Upsert("user-1", types.NewTripSession("user-1"))
		replacement := types.NewTripSession("user-1")
		replacement.Stage = types.StageCompleted
		store.Upsert("user-1", replacement)

		got, ok := store.Get("user-1")

		require.True(t, ok)
		assert.Same(t, replacement, got)
	})

	t.Run("concurrent access across keys", func(t *testing.T) {
		store := NewCacheStore()

		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				key := fmt.Sprintf("user-%d", i)
				store.Upsert(key, types.NewTripSession(key))
				_, ok := store.Get(key)
				assert.True(t, ok)
			}(i)
		}
		wg.Wait()

		for i := 0; i < 50; i++ {
			_, ok := store.Get(fmt.Sprintf("user-%d", i))
			assert.True(t, ok)
		}
	})
}
