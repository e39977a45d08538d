package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/elemgo/builtins"
	"github.com/hupe1980/elemgo/element"
)

func TestRNGDeterminism(t *testing.T) {
	a := NewRNG(42).Elements(100)
	b := NewRNG(42).Elements(100)

	require.Len(t, b, len(a))
	for i := range a {
		assert.Equal(t, a[i].ID, b[i].ID)
		assert.Equal(t, a[i].Class, b[i].Class)
		assert.Equal(t, a[i].IsType, b[i].IsType)
		assert.Equal(t, a[i].Name(), b[i].Name())
	}
}

func TestRNGReset(t *testing.T) {
	rng := NewRNG(7)
	first := rng.Intn(1000)
	rng.Reset()
	assert.Equal(t, first, rng.Intn(1000))
	assert.Equal(t, int64(7), rng.Seed())
}

func TestSampleModel(t *testing.T) {
	els := SampleModel()

	seen := make(map[element.ID]*element.Element, len(els))
	for _, e := range els {
		require.True(t, e.ID.IsValid())
		_, dup := seen[e.ID]
		require.False(t, dup, "duplicate fixture id %d", e.ID)
		seen[e.ID] = e
	}

	// Walls reference their types and carry the type name.
	for _, id := range []element.ID{FixtureWallW1, FixtureWallW2, FixtureWallW3, FixtureWallCW1} {
		w := seen[id]
		require.NotNil(t, w)
		wt := seen[w.SymbolID]
		require.NotNil(t, wt, "wall %d references missing type", id)
		assert.True(t, wt.IsType)

		v, ok := w.Params.Get(builtins.ParamSymbolName.Key())
		require.True(t, ok)
		name, _ := v.AsString()
		assert.Equal(t, wt.Name(), name)
	}

	// The tag is view owned, everything else is view independent.
	assert.False(t, seen[FixtureTag].ViewIndependent())
	assert.True(t, seen[FixtureWallW1].ViewIndependent())
	assert.True(t, seen[FixtureWallW1].VisibleIn(FixtureViewPlan))
	assert.False(t, seen[FixtureWallW3].VisibleIn(FixtureViewPlan))
}
