package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hupe1980/elemgo/resource"
)

func TestLRU_GetSet(t *testing.T) {
	c := NewLRUBlockCache(100, nil)
	ctx := context.Background()
	k := Key{Path: "snap", Offset: 0}

	_, ok := c.Get(ctx, k)
	assert.False(t, ok)

	c.Set(ctx, k, []byte("block"))

	got, ok := c.Get(ctx, k)
	assert.True(t, ok)
	assert.Equal(t, []byte("block"), got)
	assert.Equal(t, int64(5), c.Size())
}

func TestLRU_EvictionOrder(t *testing.T) {
	c := NewLRUBlockCache(30, nil)
	ctx := context.Background()

	a := Key{Path: "snap", Offset: 0}
	b := Key{Path: "snap", Offset: 10}
	d := Key{Path: "snap", Offset: 20}

	c.Set(ctx, a, make([]byte, 10))
	c.Set(ctx, b, make([]byte, 10))
	c.Set(ctx, d, make([]byte, 10))

	// Touch a so b becomes least recently used.
	_, ok := c.Get(ctx, a)
	assert.True(t, ok)

	c.Set(ctx, Key{Path: "snap", Offset: 30}, make([]byte, 10))

	_, ok = c.Get(ctx, b)
	assert.False(t, ok, "least recently used block should have been evicted")
	_, ok = c.Get(ctx, a)
	assert.True(t, ok)
	_, ok = c.Get(ctx, d)
	assert.True(t, ok)
}

func TestLRU_EdgeCases(t *testing.T) {
	rc := resource.NewController(resource.Config{MemoryLimitBytes: 100})
	c := NewLRUBlockCache(50, rc)
	ctx := context.Background()
	k := Key{Path: "snap", Offset: 0}

	// Item larger than capacity
	big := make([]byte, 60)
	c.Set(ctx, k, big)
	_, ok := c.Get(ctx, k)
	assert.False(t, ok, "item > capacity should not be cached")

	// Update existing item
	c.Set(ctx, k, make([]byte, 10))
	assert.Equal(t, int64(10), c.Size())

	// Update with larger value
	c.Set(ctx, k, make([]byte, 20))
	assert.Equal(t, int64(20), c.Size())

	// Update with smaller value
	c.Set(ctx, k, make([]byte, 5))
	assert.Equal(t, int64(5), c.Size())
}

func TestLRU_ControllerDeniesGrowth(t *testing.T) {
	rc := resource.NewController(resource.Config{MemoryLimitBytes: 10})
	c := NewLRUBlockCache(50, rc)
	ctx := context.Background()
	k := Key{Path: "snap", Offset: 0}

	c.Set(ctx, k, make([]byte, 8))

	// Growing to 12 bytes needs 4 more, which exceeds the 10-byte budget.
	c.Set(ctx, k, make([]byte, 12))

	val, ok := c.Get(ctx, k)
	assert.True(t, ok)
	assert.Len(t, val, 8, "update should have been rejected by the controller")
}

func TestLRU_ControllerAccounting(t *testing.T) {
	rc := resource.NewController(resource.Config{MemoryLimitBytes: 100})
	c := NewLRUBlockCache(100, rc)
	ctx := context.Background()

	c.Set(ctx, Key{Path: "snap", Offset: 0}, make([]byte, 40))
	c.Set(ctx, Key{Path: "snap", Offset: 40}, make([]byte, 40))
	assert.Equal(t, int64(80), rc.MemoryUsage())

	c.Invalidate(func(Key) bool { return true })
	assert.Equal(t, int64(0), rc.MemoryUsage())
	assert.Equal(t, int64(0), c.Size())
}

func TestLRU_Stats(t *testing.T) {
	c := NewLRUBlockCache(100, nil)
	ctx := context.Background()
	k := Key{Path: "snap", Offset: 0}
	c.Set(ctx, k, []byte{1})
	c.Get(ctx, k)                             // hit
	c.Get(ctx, Key{Path: "other", Offset: 0}) // miss

	hits, misses := c.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)
}

func TestLRU_Invalidate(t *testing.T) {
	c := NewLRUBlockCache(100, nil)
	ctx := context.Background()
	c.Set(ctx, Key{Path: "snap-a", Offset: 0}, []byte("a"))
	c.Set(ctx, Key{Path: "snap-a", Offset: 1}, []byte("b"))
	c.Set(ctx, Key{Path: "snap-b", Offset: 0}, []byte("c"))

	c.Invalidate(func(k Key) bool {
		return k.Path == "snap-a"
	})

	_, ok := c.Get(ctx, Key{Path: "snap-a", Offset: 0})
	assert.False(t, ok)
	_, ok = c.Get(ctx, Key{Path: "snap-b", Offset: 0})
	assert.True(t, ok)
}
