package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return New(client), mr
}

func TestGetOrRenderCachesResult(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	calls := 0
	render := func() ([]byte, error) {
		calls++
		return []byte("rendered"), nil
	}

	body, err := c.GetOrRender(ctx, "page:1", time.Minute, render)
	assert.NoError(t, err)
	assert.Equal(t, []byte("rendered"), body)
	assert.Equal(t, 1, calls)

	// Hit: render is not called again.
	body, err = c.GetOrRender(ctx, "page:1", time.Minute, render)
	assert.NoError(t, err)
	assert.Equal(t, []byte("rendered"), body)
	assert.Equal(t, 1, calls)
}

func TestGetOrRenderExpiresWithTTL(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	calls := 0
	render := func() ([]byte, error) {
		calls++
		return []byte("rendered"), nil
	}

	_, err := c.GetOrRender(ctx, "page:1", time.Second, render)
	assert.NoError(t, err)

	mr.FastForward(2 * time.Second)

	_, err = c.GetOrRender(ctx, "page:1", time.Second, render)
	assert.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestGetOrRenderSingleWriterPerKey(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	var calls int32
	render := func() ([]byte, error) {
		atomic.AddInt32(&calls, 1)
		time.Sleep(10 * time.Millisecond)
		return []byte("once"), nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			body, err := c.GetOrRender(ctx, "hot:key", time.Minute, render)
			assert.NoError(t, err)
			assert.Equal(t, []byte("once"), body)
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestClearEvictsEverything(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	assert.NoError(t, c.Set(ctx, "index:page:1", []byte("one"), time.Minute))
	assert.NoError(t, c.Set(ctx, "index:page:2", []byte("two"), time.Minute))

	assert.NoError(t, c.Clear(ctx))

	val, err := c.Get(ctx, "index:page:1")
	assert.NoError(t, err)
	assert.Nil(t, val)
}

func TestNilCacheFallsThroughToRender(t *testing.T) {
	var c *Cache

	body, err := c.GetOrRender(context.Background(), "any", time.Minute, func() ([]byte, error) {
		return []byte("direct"), nil
	})
	assert.NoError(t, err)
	assert.Equal(t, []byte("direct"), body)
}
