// Package builtins provides the closed lookup tables for built-in categories
// and built-in parameters, the name resolution layer consumed by the filter
// and collector packages.
//
// Resolution is strict: an unknown name fails with a LookupError, which
// callers propagate unchanged.
package builtins

import (
	"errors"
	"fmt"
)

// ErrLookup is the sentinel matched by all name-resolution failures.
var ErrLookup = errors.New("builtins: unknown name")

// LookupError is returned when a category or parameter name does not resolve.
type LookupError struct {
	Kind string // "category" or "parameter"
	Name string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("builtins: unknown %s %q", e.Kind, e.Name)
}

func (e *LookupError) Unwrap() error { return ErrLookup }

// Category is a built-in category handle.
type Category int32

const (
	// CategoryInvalid is the zero category.
	CategoryInvalid Category = iota
	CategoryWalls
	CategoryDoors
	CategoryWindows
	CategoryFloors
	CategoryCeilings
	CategoryRoofs
	CategoryRooms
	CategoryLevels
	CategoryViews
	CategoryGrids
	CategoryFurniture
	CategoryStructuralColumns
	CategoryStructuralFraming
	CategoryGenericModel
)

var categoryNames = map[Category]string{
	CategoryWalls:             "OST_Walls",
	CategoryDoors:             "OST_Doors",
	CategoryWindows:           "OST_Windows",
	CategoryFloors:            "OST_Floors",
	CategoryCeilings:          "OST_Ceilings",
	CategoryRoofs:             "OST_Roofs",
	CategoryRooms:             "OST_Rooms",
	CategoryLevels:            "OST_Levels",
	CategoryViews:             "OST_Views",
	CategoryGrids:             "OST_Grids",
	CategoryFurniture:         "OST_Furniture",
	CategoryStructuralColumns: "OST_StructuralColumns",
	CategoryStructuralFraming: "OST_StructuralFraming",
	CategoryGenericModel:      "OST_GenericModel",
}

var categoriesByName = func() map[string]Category {
	m := make(map[string]Category, len(categoryNames))
	for c, n := range categoryNames {
		m[n] = c
	}
	return m
}()

// String returns the canonical category name, e.g. "OST_Walls".
func (c Category) String() string {
	if n, ok := categoryNames[c]; ok {
		return n
	}
	return fmt.Sprintf("Category(%d)", int32(c))
}

// IsValid reports whether the category is one of the built-in categories.
func (c Category) IsValid() bool {
	_, ok := categoryNames[c]
	return ok
}

// LookupCategory resolves a canonical category name to its handle.
func LookupCategory(name string) (Category, error) {
	if c, ok := categoriesByName[name]; ok {
		return c, nil
	}
	return CategoryInvalid, &LookupError{Kind: "category", Name: name}
}

// Param is a built-in parameter handle.
type Param int32

const (
	// ParamInvalid is the zero parameter.
	ParamInvalid Param = iota
	ParamName
	ParamSymbolName
	ParamFamilyName
	ParamMark
	ParamComments
	ParamLevel
	ParamArea
	ParamVolume
	ParamHeight
	ParamWidth
	ParamPhase
)

// paramInfo pairs the canonical built-in name with the parameter-set key
// used on elements.
type paramInfo struct {
	name string
	key  string
}

var paramInfos = map[Param]paramInfo{
	ParamName:       {"ALL_MODEL_TYPE_NAME", "Name"},
	ParamSymbolName: {"SYMBOL_NAME_PARAM", "Symbol Name"},
	ParamFamilyName: {"ELEM_FAMILY_PARAM", "Family"},
	ParamMark:       {"ALL_MODEL_MARK", "Mark"},
	ParamComments:   {"ALL_MODEL_INSTANCE_COMMENTS", "Comments"},
	ParamLevel:      {"LEVEL_PARAM", "Level"},
	ParamArea:       {"HOST_AREA_COMPUTED", "Area"},
	ParamVolume:     {"HOST_VOLUME_COMPUTED", "Volume"},
	ParamHeight:     {"WALL_USER_HEIGHT_PARAM", "Unconnected Height"},
	ParamWidth:      {"WALL_ATTR_WIDTH_PARAM", "Width"},
	ParamPhase:      {"PHASE_CREATED", "Phase Created"},
}

var paramsByName = func() map[string]Param {
	m := make(map[string]Param, len(paramInfos))
	for p, info := range paramInfos {
		m[info.name] = p
	}
	return m
}()

// String returns the canonical built-in parameter name, e.g. "ALL_MODEL_MARK".
func (p Param) String() string {
	if info, ok := paramInfos[p]; ok {
		return info.name
	}
	return fmt.Sprintf("Param(%d)", int32(p))
}

// Key returns the parameter-set key the built-in maps to on elements.
func (p Param) Key() string {
	if info, ok := paramInfos[p]; ok {
		return info.key
	}
	return ""
}

// IsValid reports whether the parameter is one of the built-in parameters.
func (p Param) IsValid() bool {
	_, ok := paramInfos[p]
	return ok
}

// LookupParam resolves a canonical built-in parameter name to its handle.
func LookupParam(name string) (Param, error) {
	if p, ok := paramsByName[name]; ok {
		return p, nil
	}
	return ParamInvalid, &LookupError{Kind: "parameter", Name: name}
}
