// Package testutil provides testing utilities for elemgo.
//
// This package is intended for use in tests and benchmarks only. It provides
// a deterministic seeded RNG, element constructors and a canonical fixture
// model shared by the collector, wrapper and persistence tests.
//
// # Random Elements
//
//	rng := testutil.NewRNG(seed)
//	els := rng.Elements(1000) // reproducible pseudo-random elements
//
// # Fixture Model
//
//	els := testutil.SampleModel() // levels, views, wall types, walls, ...
package testutil

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/hupe1980/elemgo/builtins"
	"github.com/hupe1980/elemgo/element"
	"github.com/hupe1980/elemgo/param"
)

// RNG encapsulates a seeded random number generator. It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// Bool returns a pseudo-random boolean.
func (r *RNG) Bool() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(2) == 0
}

// Elements generates n pseudo-random elements with ids 1..n. Types and
// instances, classes, categories, levels and parameter values all derive
// from the seed, so the same seed always yields the same model.
func (r *RNG) Elements(n int) []*element.Element {
	r.mu.Lock()
	defer r.mu.Unlock()

	classes := []element.Class{
		element.ClassWall,
		element.ClassFamilyInstance,
		element.ClassRoom,
		element.ClassLevel,
	}
	categories := []builtins.Category{
		builtins.CategoryWalls,
		builtins.CategoryDoors,
		builtins.CategoryRooms,
		builtins.CategoryLevels,
	}

	els := make([]*element.Element, 0, n)
	for i := range n {
		id := element.ID(i + 1) //nolint:gosec // small test ids
		pick := r.rand.Intn(len(classes))
		e := &element.Element{
			ID:       id,
			Class:    classes[pick],
			Category: categories[pick],
			IsType:   r.rand.Intn(4) == 0,
			Params: param.Set{
				element.ParamName: param.String(fmt.Sprintf("%s %d", classes[pick], id)),
				"Mark":            param.String(fmt.Sprintf("M-%03d", i)),
				"Area":            param.Float(r.rand.Float64() * 100),
			},
		}
		if !e.IsType && i > 0 {
			e.LevelID = element.ID(r.rand.Intn(i) + 1) //nolint:gosec // small test ids
		}
		els = append(els, e)
	}
	return els
}

// Fixture ids assigned by SampleModel. They are stable so tests can assert
// exact result sets.
const (
	FixtureLevel1        element.ID = 1
	FixtureLevel2        element.ID = 2
	FixtureViewPlan      element.ID = 3
	FixtureWallTypeBasic element.ID = 4
	FixtureWallTypeGlass element.ID = 5
	FixtureDoorType      element.ID = 6
	FixtureWallW1        element.ID = 10
	FixtureWallW2        element.ID = 11
	FixtureWallW3        element.ID = 12
	FixtureWallCW1       element.ID = 13
	FixtureDoor          element.ID = 14
	FixtureRoom          element.ID = 15
	FixtureTag           element.ID = 16
)

// Level returns a level element.
func Level(id element.ID, name string, elevation float64) *element.Element {
	return &element.Element{
		ID:       id,
		Class:    element.ClassLevel,
		Category: builtins.CategoryLevels,
		IsType:   false,
		Params: param.Set{
			element.ParamName: param.String(name),
			"Elevation":       param.Float(elevation),
		},
	}
}

// View returns a view element.
func View(id element.ID, name string) *element.Element {
	return &element.Element{
		ID:       id,
		Class:    element.ClassView,
		Category: builtins.CategoryViews,
		IsType:   false,
		Params: param.Set{
			element.ParamName: param.String(name),
		},
	}
}

// WallType returns a wall type element of the given system family kind
// ("Basic", "Curtain" or "Stacked").
func WallType(id element.ID, name, kind string) *element.Element {
	return &element.Element{
		ID:       id,
		Class:    element.ClassWallType,
		Category: builtins.CategoryWalls,
		IsType:   true,
		Params: param.Set{
			element.ParamName: param.String(name),
			"Kind":            param.String(kind),
		},
	}
}

// Wall returns a placed wall instance of the given type, hosted on level.
// The type's name is stamped into the symbol name parameter the way placed
// instances carry it.
func Wall(id element.ID, name string, wallType *element.Element, level element.ID) *element.Element {
	return &element.Element{
		ID:       id,
		Class:    element.ClassWall,
		Category: builtins.CategoryWalls,
		IsType:   false,
		SymbolID: wallType.ID,
		LevelID:  level,
		Params: param.Set{
			element.ParamName:              param.String(name),
			builtins.ParamSymbolName.Key(): param.String(wallType.Name()),
			builtins.ParamLevel.Key():      param.Ref(int64(level)),
		},
	}
}

// FamilySymbol returns a loadable family type element.
func FamilySymbol(id element.ID, name string, category builtins.Category) *element.Element {
	return &element.Element{
		ID:       id,
		Class:    element.ClassFamilySymbol,
		Category: category,
		IsType:   true,
		Params: param.Set{
			element.ParamName: param.String(name),
		},
	}
}

// FamilyInstance returns a placed family instance of the given symbol.
func FamilyInstance(id element.ID, name string, symbol *element.Element, level element.ID) *element.Element {
	return &element.Element{
		ID:       id,
		Class:    element.ClassFamilyInstance,
		Category: symbol.Category,
		IsType:   false,
		SymbolID: symbol.ID,
		LevelID:  level,
		Params: param.Set{
			element.ParamName:              param.String(name),
			builtins.ParamSymbolName.Key(): param.String(symbol.Name()),
		},
	}
}

// SampleModel returns the canonical fixture model in id order:
//
//   - two levels (1, 2) and a plan view (3)
//   - a Basic wall type (4) and a Curtain wall type (5)
//   - a door symbol (6)
//   - walls W1, W2 on level 1 and W3, CW1 on level 2 (10-13)
//   - a door (14) and a room (15) on level 1
//   - a view-owned tag (16)
//
// W1, W2, the door and the tag are visible in the plan view. Wall heights
// are 3.0, 4.5, 3.0 and 6.0.
func SampleModel() []*element.Element {
	level1 := Level(FixtureLevel1, "Level 1", 0)
	level2 := Level(FixtureLevel2, "Level 2", 3)
	plan := View(FixtureViewPlan, "Level 1 Plan")

	basic := WallType(FixtureWallTypeBasic, "Generic - 200mm", "Basic")
	glass := WallType(FixtureWallTypeGlass, "Storefront", "Curtain")
	doorType := FamilySymbol(FixtureDoorType, "Single-Flush", builtins.CategoryDoors)

	w1 := Wall(FixtureWallW1, "W1", basic, FixtureLevel1)
	w1.ViewIDs = []element.ID{FixtureViewPlan}
	w1.Params["Mark"] = param.String("A")
	w1.Params[builtins.ParamHeight.Key()] = param.Float(3.0)

	w2 := Wall(FixtureWallW2, "W2", basic, FixtureLevel1)
	w2.ViewIDs = []element.ID{FixtureViewPlan}
	w2.Params["Mark"] = param.String("B")
	w2.Params[builtins.ParamHeight.Key()] = param.Float(4.5)

	w3 := Wall(FixtureWallW3, "W3", basic, FixtureLevel2)
	w3.Params["Mark"] = param.String("C")
	w3.Params[builtins.ParamHeight.Key()] = param.Float(3.0)

	cw1 := Wall(FixtureWallCW1, "CW1", glass, FixtureLevel2)
	cw1.Params["Mark"] = param.String("D")
	cw1.Params[builtins.ParamHeight.Key()] = param.Float(6.0)

	door := FamilyInstance(FixtureDoor, "D1", doorType, FixtureLevel1)
	door.ViewIDs = []element.ID{FixtureViewPlan}

	room := &element.Element{
		ID:       FixtureRoom,
		Class:    element.ClassRoom,
		Category: builtins.CategoryRooms,
		LevelID:  FixtureLevel1,
		Params: param.Set{
			element.ParamName: param.String("Lobby"),
			"Area":            param.Float(42.5),
		},
	}

	tag := &element.Element{
		ID:          FixtureTag,
		Class:       "Tag",
		OwnerViewID: FixtureViewPlan,
		Params: param.Set{
			element.ParamName: param.String("Wall Tag"),
		},
	}

	return []*element.Element{
		level1, level2, plan,
		basic, glass, doorType,
		w1, w2, w3, cw1,
		door, room, tag,
	}
}
