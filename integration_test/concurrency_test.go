package integration_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/elemgo"
	"github.com/hupe1980/elemgo/element"
	"github.com/hupe1980/elemgo/testutil"
)

func TestConcurrentCollectAndMutate(t *testing.T) {
	ctx := context.Background()

	m, err := elemgo.New()
	require.NoError(t, err)
	defer m.Close()

	result := m.BatchAdd(ctx, testutil.SampleModel())
	for _, err := range result.Errors {
		require.NoError(t, err)
	}

	basic := testutil.WallType(testutil.FixtureWallTypeBasic, "Generic - 200mm", "Basic")

	const (
		writers = 2
		adds    = 200
	)
	target := 4 + writers*adds

	g, ctx := errgroup.WithContext(ctx)

	for w := range writers {
		g.Go(func() error {
			for i := range adds {
				name := fmt.Sprintf("W-%d-%d", w, i)
				wall := testutil.Wall(0, name, basic, testutil.FixtureLevel1)
				if _, err := m.AddElement(ctx, wall); err != nil {
					return err
				}
			}
			return nil
		})
	}

	for range 4 {
		g.Go(func() error {
			for {
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}

				c, err := m.Collector()
				if err != nil {
					return err
				}

				c.OfClass(element.ClassWall).InstancesOnly()
				if err := c.Err(); err != nil {
					return err
				}

				// Every pass sees a consistent point-in-time count.
				n := c.Len()
				if n < 4 || n > target {
					return fmt.Errorf("inconsistent wall count %d", n)
				}
				if n == target {
					return nil
				}
			}
		})
	}

	require.NoError(t, g.Wait())

	c, err := m.Collector()
	require.NoError(t, err)

	c.OfClass(element.ClassWall).InstancesOnly()
	require.NoError(t, c.Err())
	assert.Equal(t, target, c.Len())
}

func TestConcurrentIDAllocation(t *testing.T) {
	ctx := context.Background()

	m, err := elemgo.New()
	require.NoError(t, err)
	defer m.Close()

	basic := testutil.WallType(0, "Generic - 200mm", "Basic")
	typeID, err := m.AddElement(ctx, basic)
	require.NoError(t, err)

	const (
		workers = 8
		adds    = 100
	)

	var (
		mu  sync.Mutex
		ids []element.ID
	)

	g, ctx := errgroup.WithContext(ctx)
	for w := range workers {
		g.Go(func() error {
			for i := range adds {
				wall := testutil.Wall(0, fmt.Sprintf("W-%d-%d", w, i), basic, element.InvalidID)
				id, err := m.AddElement(ctx, wall)
				if err != nil {
					return err
				}

				mu.Lock()
				ids = append(ids, id)
				mu.Unlock()
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	require.Len(t, ids, workers*adds)
	require.Equal(t, workers*adds+1, m.Len())

	seen := make(map[element.ID]struct{}, len(ids))
	for _, id := range ids {
		assert.Greater(t, id, typeID)
		seen[id] = struct{}{}
	}
	assert.Len(t, seen, workers*adds)
}
