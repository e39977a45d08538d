package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/elemgo/builtins"
	"github.com/hupe1980/elemgo/element"
	"github.com/hupe1980/elemgo/param"
	"github.com/hupe1980/elemgo/store"
)

// chainFixture builds a small model: one level, one wall type, two wall
// instances on the level, one door instance off it, and a view-owned tag.
func chainFixture(t *testing.T) *store.Store {
	t.Helper()

	s := store.New()
	elements := []*element.Element{
		{ID: 1, Class: element.ClassLevel, Category: builtins.CategoryLevels,
			Params: param.Set{"Name": param.String("Level 1")}},
		{ID: 2, Class: element.ClassWallType, Category: builtins.CategoryWalls, IsType: true,
			Params: param.Set{"Name": param.String("Generic - 200mm")}},
		{ID: 3, Class: element.ClassWall, Category: builtins.CategoryWalls, SymbolID: 2, LevelID: 1,
			Params: param.Set{"Name": param.String("Wall 1")}},
		{ID: 4, Class: element.ClassWall, Category: builtins.CategoryWalls, SymbolID: 2, LevelID: 1,
			Params: param.Set{"Name": param.String("Wall 2")}},
		{ID: 5, Class: "Door", Category: builtins.CategoryDoors, SymbolID: 0, LevelID: 0,
			Params: param.Set{"Name": param.String("Door 1")}},
		{ID: 6, Class: "TextNote", OwnerViewID: 7,
			Params: param.Set{"Name": param.String("Tag")}},
		{ID: 7, Class: element.ClassView, Category: builtins.CategoryViews,
			Params: param.Set{"Name": param.String("Plan")}},
	}
	for _, e := range elements {
		require.NoError(t, s.Insert(e))
	}
	return s
}

func applySpec(t *testing.T, s *store.Store, spec Spec) []element.ID {
	t.Helper()

	steps, err := Parse(spec)
	require.NoError(t, err)
	return Apply(s.Query(), steps).IDs()
}

func TestSpecMerge(t *testing.T) {
	spec := Spec{KeyOfClass: "Wall", KeyIsType: true}
	spec.Merge(Spec{KeyIsType: false, KeyLevel: element.ID(1)})

	assert.Equal(t, Spec{
		KeyOfClass: "Wall",
		KeyIsType:  false,
		KeyLevel:   element.ID(1),
	}, spec)
}

func TestSpecClone(t *testing.T) {
	spec := Spec{KeyOfClass: "Wall"}
	clone := spec.Clone()
	clone[KeyIsType] = true

	assert.Len(t, spec, 1)
	assert.Len(t, clone, 2)
	assert.Nil(t, Spec(nil).Clone())
}

func TestSpecKeys(t *testing.T) {
	spec := Spec{
		KeyNotLevel:   element.ID(1),
		KeyIsType:     true,
		KeyOfClass:    "Wall",
		KeyOfCategory: "OST_Walls",
		"bogus":       1,
	}

	assert.Equal(t, []Key{KeyOfClass, KeyOfCategory, KeyIsType, KeyNotLevel, "bogus"}, spec.Keys())
}

func TestParse(t *testing.T) {
	t.Run("Canonical Step Order", func(t *testing.T) {
		rule, err := ParameterFilter("Name", Conditions{"equals": "Wall 1"})
		require.NoError(t, err)

		steps, err := Parse(Spec{
			KeyLevel:             element.ID(1),
			KeyParameterFilter:   rule,
			KeyIsNotType:         true,
			KeyOfClass:           "Wall",
			KeyOfCategory:        builtins.CategoryWalls,
			KeyIsViewIndependent: true,
			KeySymbol:            element.ID(2),
		})
		require.NoError(t, err)

		keys := make([]Key, 0, len(steps))
		for _, s := range steps {
			keys = append(keys, s.Key())
		}
		assert.Equal(t, []Key{
			KeyOfClass, KeyOfCategory, KeyIsNotType, KeyIsViewIndependent,
			KeyParameterFilter, KeySymbol, KeyLevel,
		}, keys)
	})

	t.Run("Unknown Key", func(t *testing.T) {
		_, err := Parse(Spec{"of_klass": "Wall"})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidFilter)

		var invalidErr *InvalidFilterError
		require.ErrorAs(t, err, &invalidErr)
		assert.Equal(t, "of_klass", invalidErr.Key)
	})

	t.Run("Unknown Key Reported Before Bad Value", func(t *testing.T) {
		_, err := Parse(Spec{KeyIsType: "yes", "bogus": 1})
		assert.ErrorIs(t, err, ErrInvalidFilter)
	})

	t.Run("Category Name Resolution", func(t *testing.T) {
		steps, err := Parse(Spec{KeyOfCategory: "OST_Walls"})
		require.NoError(t, err)
		require.Len(t, steps, 1)

		_, err = Parse(Spec{KeyOfCategory: "OST_Nope"})
		require.Error(t, err)
		assert.ErrorIs(t, err, builtins.ErrLookup)

		var lookupErr *builtins.LookupError
		require.ErrorAs(t, err, &lookupErr)
		assert.Equal(t, "category", lookupErr.Kind)
		assert.Equal(t, "OST_Nope", lookupErr.Name)
	})

	t.Run("Type Mismatches", func(t *testing.T) {
		tests := []struct {
			name string
			spec Spec
		}{
			{"of_class int", Spec{KeyOfClass: 1}},
			{"of_category float", Spec{KeyOfCategory: 1.0}},
			{"is_type string", Spec{KeyIsType: "yes"}},
			{"is_not_type int", Spec{KeyIsNotType: 1}},
			{"is_view_independent string", Spec{KeyIsViewIndependent: "true"}},
			{"parameter_filter string", Spec{KeyParameterFilter: "Name=Wall"}},
			{"parameter_filter nil", Spec{KeyParameterFilter: (*CompositeRule)(nil)}},
			{"symbol string", Spec{KeySymbol: "symbol"}},
			{"level struct", Spec{KeyLevel: struct{}{}}},
			{"not_level bool", Spec{KeyNotLevel: true}},
		}

		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				_, err := Parse(tc.spec)
				assert.ErrorIs(t, err, ErrTypeMismatch)
			})
		}
	})

	t.Run("View Independent False Is A No Op", func(t *testing.T) {
		steps, err := Parse(Spec{KeyIsViewIndependent: false})
		require.NoError(t, err)
		assert.Empty(t, steps)
	})

	t.Run("Empty Spec", func(t *testing.T) {
		steps, err := Parse(Spec{})
		require.NoError(t, err)
		assert.Empty(t, steps)

		steps, err = Parse(nil)
		require.NoError(t, err)
		assert.Empty(t, steps)
	})
}

func TestApply(t *testing.T) {
	s := chainFixture(t)

	t.Run("Class", func(t *testing.T) {
		assert.Equal(t, []element.ID{3, 4}, applySpec(t, s, Spec{KeyOfClass: "Wall"}))
	})

	t.Run("Class Handle And String Agree", func(t *testing.T) {
		assert.Equal(t,
			applySpec(t, s, Spec{KeyOfClass: element.ClassWall}),
			applySpec(t, s, Spec{KeyOfClass: "Wall"}))
	})

	t.Run("Category", func(t *testing.T) {
		assert.Equal(t, []element.ID{2, 3, 4}, applySpec(t, s, Spec{KeyOfCategory: "OST_Walls"}))
	})

	t.Run("Types And Instances", func(t *testing.T) {
		assert.Equal(t, []element.ID{2}, applySpec(t, s, Spec{KeyOfCategory: "OST_Walls", KeyIsType: true}))
		assert.Equal(t, []element.ID{3, 4}, applySpec(t, s, Spec{KeyOfCategory: "OST_Walls", KeyIsNotType: true}))
	})

	t.Run("Boolean Duality", func(t *testing.T) {
		assert.Equal(t,
			applySpec(t, s, Spec{KeyIsNotType: true}),
			applySpec(t, s, Spec{KeyIsType: false}))
		assert.Equal(t,
			applySpec(t, s, Spec{KeyIsType: true}),
			applySpec(t, s, Spec{KeyIsNotType: false}))
	})

	t.Run("Contradictory Type Filters", func(t *testing.T) {
		assert.Empty(t, applySpec(t, s, Spec{KeyIsType: true, KeyIsNotType: true}))
	})

	t.Run("View Independent", func(t *testing.T) {
		ids := applySpec(t, s, Spec{KeyIsViewIndependent: true})
		assert.NotContains(t, ids, element.ID(6))
		assert.Contains(t, ids, element.ID(3))

		// The false form narrows nothing.
		assert.Len(t, applySpec(t, s, Spec{KeyIsViewIndependent: false}), s.Len())
	})

	t.Run("Symbol", func(t *testing.T) {
		assert.Equal(t, []element.ID{3, 4}, applySpec(t, s, Spec{KeySymbol: element.ID(2)}))
	})

	t.Run("Symbol Skips Type Elements", func(t *testing.T) {
		// A type element carrying a symbol reference is never an instance
		// of that symbol.
		s := store.New()
		require.NoError(t, s.Insert(&element.Element{ID: 1, Class: element.ClassWallType, IsType: true}))
		require.NoError(t, s.Insert(&element.Element{ID: 2, Class: element.ClassWallType, IsType: true, SymbolID: 1}))
		require.NoError(t, s.Insert(&element.Element{ID: 3, Class: element.ClassWall, SymbolID: 1}))

		assert.Equal(t, []element.ID{3}, applySpec(t, s, Spec{KeySymbol: element.ID(1)}))
	})

	t.Run("Level And Not Level", func(t *testing.T) {
		assert.Equal(t, []element.ID{3, 4}, applySpec(t, s, Spec{KeyOfClass: "Wall", KeyLevel: element.ID(1)}))

		ids := applySpec(t, s, Spec{KeyNotLevel: element.ID(1)})
		assert.NotContains(t, ids, element.ID(3))
		assert.NotContains(t, ids, element.ID(4))
		// Elements hosted on no level are part of the complement.
		assert.Contains(t, ids, element.ID(5))
	})

	t.Run("Parameter Filter", func(t *testing.T) {
		rule, err := ParameterFilter("Name", Conditions{"equals": "Wall 1"})
		require.NoError(t, err)

		assert.Equal(t, []element.ID{3}, applySpec(t, s, Spec{
			KeyOfClass:         "Wall",
			KeyParameterFilter: rule,
		}))
	})

	t.Run("Baseline Query Is Untouched", func(t *testing.T) {
		q := s.Query()
		steps, err := Parse(Spec{KeyOfClass: "Wall"})
		require.NoError(t, err)

		narrowed := Apply(q, steps)
		assert.Equal(t, 2, narrowed.Count())
		assert.Equal(t, s.Len(), q.Count())
	})
}
