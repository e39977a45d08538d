package elemgo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/elemgo/builtins"
	"github.com/hupe1980/elemgo/element"
	"github.com/hupe1980/elemgo/filter"
	"github.com/hupe1980/elemgo/testutil"
	"github.com/hupe1980/elemgo/wrap"
)

// newSampleModel creates a model preloaded with the canonical fixture.
func newSampleModel(t *testing.T) *Model {
	t.Helper()

	m := newTestModel(t)
	loadSample(t, m)
	return m
}

func TestNewCollector(t *testing.T) {
	m := newSampleModel(t)

	t.Run("Explicit Model", func(t *testing.T) {
		c, err := NewCollector(WithModel(m))
		require.NoError(t, err)
		assert.Equal(t, 13, c.Len())
	})

	t.Run("Ambient Current Model", func(t *testing.T) {
		SetCurrent(m)
		t.Cleanup(func() { SetCurrent(nil) })

		c, err := NewCollector()
		require.NoError(t, err)
		assert.Equal(t, 13, c.Len())
	})

	t.Run("No Model In Scope", func(t *testing.T) {
		SetCurrent(nil)

		_, err := NewCollector()
		assert.ErrorIs(t, err, ErrNoModel)
	})

	t.Run("Initial Filters", func(t *testing.T) {
		c, err := m.Collector(WithFilters(filter.Spec{
			filter.KeyOfClass:   element.ClassWall,
			filter.KeyIsNotType: true,
		}))
		require.NoError(t, err)
		assert.Equal(t, []element.ID{
			testutil.FixtureWallW1, testutil.FixtureWallW2,
			testutil.FixtureWallW3, testutil.FixtureWallCW1,
		}, c.ElementIDs())
	})

	t.Run("Invalid Initial Filters", func(t *testing.T) {
		_, err := m.Collector(WithFilters(filter.Spec{"of_klass": "Wall"}))
		assert.ErrorIs(t, err, filter.ErrInvalidFilter)
	})
}

func TestCollectorScopes(t *testing.T) {
	m := newSampleModel(t)

	t.Run("In View", func(t *testing.T) {
		c, err := m.Collector(InView(testutil.FixtureViewPlan))
		require.NoError(t, err)
		assert.Equal(t, []element.ID{
			testutil.FixtureWallW1, testutil.FixtureWallW2,
			testutil.FixtureDoor, testutil.FixtureTag,
		}, c.ElementIDs())
	})

	t.Run("In View Accepts Element Likes", func(t *testing.T) {
		view, err := m.Get(testutil.FixtureViewPlan)
		require.NoError(t, err)

		c, err := m.Collector(InView(view))
		require.NoError(t, err)
		assert.Equal(t, 4, c.Len())
	})

	t.Run("In View Rejects Bad References", func(t *testing.T) {
		_, err := m.Collector(InView("plan"))
		require.Error(t, err)
		assert.ErrorIs(t, err, element.ErrInvalidReference)
	})

	t.Run("From Elements", func(t *testing.T) {
		w1, err := m.Get(testutil.FixtureWallW1)
		require.NoError(t, err)
		orphan := wall("never added")
		orphan.ID = 999

		c, err := m.Collector(FromElements(w1, orphan, nil))
		require.NoError(t, err)
		assert.Equal(t, []element.ID{testutil.FixtureWallW1}, c.ElementIDs())
	})

	t.Run("From IDs", func(t *testing.T) {
		c, err := m.Collector(FromIDs(testutil.FixtureWallW2, testutil.FixtureRoom, 999))
		require.NoError(t, err)
		assert.Equal(t, []element.ID{testutil.FixtureWallW2, testutil.FixtureRoom}, c.ElementIDs())
	})

	t.Run("View Wins Over Collections", func(t *testing.T) {
		c, err := m.Collector(
			FromIDs(testutil.FixtureRoom),
			InView(testutil.FixtureViewPlan),
		)
		require.NoError(t, err)
		assert.Equal(t, 4, c.Len())
	})

	t.Run("Elements Win Over IDs", func(t *testing.T) {
		w1, err := m.Get(testutil.FixtureWallW1)
		require.NoError(t, err)

		c, err := m.Collector(
			FromIDs(testutil.FixtureRoom),
			FromElements(w1),
		)
		require.NoError(t, err)
		assert.Equal(t, []element.ID{testutil.FixtureWallW1}, c.ElementIDs())
	})

	t.Run("Scope Bounds Every Filter", func(t *testing.T) {
		c, err := m.Collector(InView(testutil.FixtureViewPlan))
		require.NoError(t, err)

		assert.Equal(t, []element.ID{testutil.FixtureWallW1, testutil.FixtureWallW2},
			c.OfClass(element.ClassWall).ElementIDs())
	})
}

func TestCollectorCumulativeFilters(t *testing.T) {
	m := newSampleModel(t)

	c, err := m.Collector()
	require.NoError(t, err)

	// Distinct keys narrow cumulatively.
	assert.Equal(t, 6, c.OfCategory(builtins.CategoryWalls).Len())
	assert.Equal(t, 2, c.TypesOnly().Len())
	assert.Equal(t, []element.ID{
		testutil.FixtureWallTypeBasic, testutil.FixtureWallTypeGlass,
	}, c.ElementIDs())

	// A same-key criterion overrides its earlier value.
	_, err = c.Filter(filter.Spec{filter.KeyIsType: false})
	require.NoError(t, err)
	assert.Equal(t, []element.ID{
		testutil.FixtureWallW1, testutil.FixtureWallW2,
		testutil.FixtureWallW3, testutil.FixtureWallCW1,
	}, c.ElementIDs())
}

func TestCollectorFilterIdempotence(t *testing.T) {
	m := newSampleModel(t)

	c, err := m.Collector()
	require.NoError(t, err)

	spec := filter.Spec{filter.KeyOfClass: element.ClassWall, filter.KeyIsType: true}
	_, err = c.Filter(spec)
	require.NoError(t, err)
	once := c.ElementIDs()

	_, err = c.Filter(spec)
	require.NoError(t, err)
	assert.Equal(t, once, c.ElementIDs())
}

func TestCollectorMergeEquivalence(t *testing.T) {
	m := newSampleModel(t)

	// Seeding filters at construction and merging them in afterwards land on
	// the same result set.
	seeded, err := m.Collector(WithFilters(filter.Spec{
		filter.KeyOfClass: element.ClassWallType,
		filter.KeyIsType:  true,
	}))
	require.NoError(t, err)

	chained, err := m.Collector(WithFilters(filter.Spec{
		filter.KeyOfClass: element.ClassWallType,
	}))
	require.NoError(t, err)
	_, err = chained.Filter(filter.Spec{filter.KeyIsType: true})
	require.NoError(t, err)

	assert.Equal(t, seeded.ElementIDs(), chained.ElementIDs())
	assert.NotEmpty(t, seeded.ElementIDs())
}

func TestCollectorTypeDuality(t *testing.T) {
	m := newSampleModel(t)

	a, err := m.Collector(WithFilters(filter.Spec{filter.KeyIsType: false}))
	require.NoError(t, err)
	b, err := m.Collector(WithFilters(filter.Spec{filter.KeyIsNotType: true}))
	require.NoError(t, err)
	assert.Equal(t, a.ElementIDs(), b.ElementIDs())

	a, err = m.Collector(WithFilters(filter.Spec{filter.KeyIsNotType: false}))
	require.NoError(t, err)
	b, err = m.Collector(WithFilters(filter.Spec{filter.KeyIsType: true}))
	require.NoError(t, err)
	assert.Equal(t, a.ElementIDs(), b.ElementIDs())
}

func TestCollectorRejectedFilter(t *testing.T) {
	m := newSampleModel(t)

	c, err := m.Collector()
	require.NoError(t, err)
	require.Equal(t, 4, c.OfClass(element.ClassWall).InstancesOnly().Len())

	// A rejected filter must not take partial effect.
	_, err = c.Filter(filter.Spec{
		filter.KeyLevel: testutil.FixtureLevel1,
		"bogus":         true,
	})
	require.ErrorIs(t, err, filter.ErrInvalidFilter)
	assert.Equal(t, 4, c.Len())

	// The collector stays usable, and the level criterion was not retained.
	_, err = c.Filter(filter.Spec{filter.KeyLevel: testutil.FixtureLevel2})
	require.NoError(t, err)
	assert.Equal(t, []element.ID{
		testutil.FixtureWallW3, testutil.FixtureWallCW1,
	}, c.ElementIDs())
}

func TestCollectorFluentErrors(t *testing.T) {
	m := newSampleModel(t)

	c, err := m.Collector()
	require.NoError(t, err)

	c.OfCategory("OST_Nope")
	require.Error(t, c.Err())
	assert.ErrorIs(t, c.Err(), builtins.ErrLookup)

	// Once parked, further shorthands are no-ops and keep the first error.
	firstErr := c.Err()
	c.OfClass(element.ClassWall).TypesOnly()
	assert.Equal(t, firstErr, c.Err())
	assert.Equal(t, 13, c.Len())

	_, err = c.Filter(filter.Spec{filter.KeyIsType: true})
	assert.Equal(t, firstErr, err)

	_, err = c.WrappedElements()
	assert.Equal(t, firstErr, err)
}

func TestCollectorFluentChain(t *testing.T) {
	m := newSampleModel(t)

	c, err := m.Collector()
	require.NoError(t, err)

	ids := c.
		OfCategory(builtins.CategoryWalls).
		InstancesOnly().
		OnLevel(testutil.FixtureLevel1).
		ElementIDs()
	require.NoError(t, c.Err())
	assert.Equal(t, []element.ID{testutil.FixtureWallW1, testutil.FixtureWallW2}, ids)

	t.Run("Element Like Arguments", func(t *testing.T) {
		level1, err := m.Get(testutil.FixtureLevel1)
		require.NoError(t, err)

		c, err := m.Collector()
		require.NoError(t, err)
		assert.Equal(t, ids, c.OfClass("Wall").OnLevel(level1).ElementIDs())
	})

	t.Run("Not On Level", func(t *testing.T) {
		c, err := m.Collector()
		require.NoError(t, err)

		got := c.OfClass(element.ClassWall).InstancesOnly().NotOnLevel(testutil.FixtureLevel1).ElementIDs()
		assert.Equal(t, []element.ID{testutil.FixtureWallW3, testutil.FixtureWallCW1}, got)
	})

	t.Run("Of Symbol", func(t *testing.T) {
		c, err := m.Collector()
		require.NoError(t, err)

		got := c.OfSymbol(testutil.FixtureWallTypeGlass).ElementIDs()
		assert.Equal(t, []element.ID{testutil.FixtureWallCW1}, got)
	})

	t.Run("View Independent", func(t *testing.T) {
		c, err := m.Collector()
		require.NoError(t, err)

		assert.NotContains(t, c.ViewIndependent().ElementIDs(), testutil.FixtureTag)
		assert.Equal(t, 12, c.Len())
	})
}

func TestCollectorWhere(t *testing.T) {
	m := newSampleModel(t)

	tall, err := filter.ParameterFilter(builtins.ParamHeight, filter.Conditions{
		"greater_equal": 4.0,
	})
	require.NoError(t, err)

	c, err := m.Collector()
	require.NoError(t, err)

	ids := c.OfClass(element.ClassWall).Where(tall).ElementIDs()
	require.NoError(t, c.Err())
	assert.Equal(t, []element.ID{testutil.FixtureWallW2, testutil.FixtureWallCW1}, ids)

	t.Run("Raw Parameter Key", func(t *testing.T) {
		marked, err := filter.ParameterFilter("Mark", filter.Conditions{
			"equals": "C",
		})
		require.NoError(t, err)

		c, err := m.Collector()
		require.NoError(t, err)
		assert.Equal(t, []element.ID{testutil.FixtureWallW3}, c.Where(marked).ElementIDs())
	})
}

func TestCollectorSnapshotSemantics(t *testing.T) {
	m := newSampleModel(t)

	c, err := m.Collector(WithFilters(filter.Spec{filter.KeyOfClass: element.ClassWall}))
	require.NoError(t, err)
	require.Equal(t, 4, c.Len())

	extra := testutil.Wall(0, "W4",
		testutil.WallType(testutil.FixtureWallTypeBasic, "Generic - 200mm", "Basic"),
		testutil.FixtureLevel1)
	_, err = m.AddElement(t.Context(), extra)
	require.NoError(t, err)

	// Terminals never requery; only a new collector observes the mutation.
	assert.Equal(t, 4, c.Len())

	fresh, err := m.Collector(WithFilters(filter.Spec{filter.KeyOfClass: element.ClassWall}))
	require.NoError(t, err)
	assert.Equal(t, 5, fresh.Len())

	// A later filter on the stale collector reapplies from the live baseline.
	_, err = c.Filter(filter.Spec{filter.KeyIsNotType: true})
	require.NoError(t, err)
	assert.Equal(t, 5, c.Len())
}

func TestCollectorTerminals(t *testing.T) {
	m := newSampleModel(t)

	c, err := m.Collector(WithFilters(filter.Spec{
		filter.KeyOfClass:   element.ClassWall,
		filter.KeyIsNotType: true,
	}))
	require.NoError(t, err)

	t.Run("Elements Returns A Copy", func(t *testing.T) {
		els := c.Elements()
		require.Len(t, els, 4)
		els[0] = nil
		assert.Equal(t, "W1", c.Elements()[0].Name())
	})

	t.Run("First", func(t *testing.T) {
		first := c.First()
		require.NotNil(t, first)
		assert.Equal(t, testutil.FixtureWallW1, first.ID)
	})

	t.Run("Exists And IsEmpty", func(t *testing.T) {
		assert.True(t, c.Exists())
		assert.False(t, c.IsEmpty())

		empty, err := m.Collector(WithFilters(filter.Spec{filter.KeyOfClass: "Roof"}))
		require.NoError(t, err)
		assert.False(t, empty.Exists())
		assert.True(t, empty.IsEmpty())
		assert.Nil(t, empty.First())
	})

	t.Run("All", func(t *testing.T) {
		var names []string
		for e := range c.All() {
			names = append(names, e.Name())
		}
		assert.Equal(t, []string{"W1", "W2", "W3", "CW1"}, names)

		for range c.All() {
			break
		}
	})

	t.Run("Wrapped Elements", func(t *testing.T) {
		wrapped, err := c.WrappedElements()
		require.NoError(t, err)
		require.Len(t, wrapped, 4)

		w, ok := wrapped[0].(*wrap.Wall)
		require.True(t, ok)

		wt, err := w.WallType()
		require.NoError(t, err)
		assert.Equal(t, "Generic - 200mm", wt.Name())
	})
}
