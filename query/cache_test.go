package query

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheReturnsSameExpression(t *testing.T) {
	t.Parallel()
	c := NewCache()

	first, err := c.Parse("//method[@public]")
	require.NoError(t, err)
	second, err := c.Parse("//method[@public]")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, c.Len())
}

func TestCacheDoesNotStoreFailures(t *testing.T) {
	t.Parallel()
	c := NewCache()

	_, err := c.Parse("//class[@name=")
	require.Error(t, err)
	assert.Equal(t, 0, c.Len())

	_, err = c.Parse("//class[@name=")
	require.Error(t, err)
}

func TestCacheConcurrentAccess(t *testing.T) {
	t.Parallel()
	c := NewCache()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, q := range []string{"//func", "//method", "//struct"} {
				_, err := c.Parse(q)
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 3, c.Len())
}
