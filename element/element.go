// Package element defines the element model and identity coercion helpers.
//
// An Element is the unit stored and queried by elemgo: a class, a category,
// type/instance flag, structural references (symbol, level, owning view) and
// a typed parameter set. Elements are plain data; all querying goes through
// the store and collector layers.
package element

import (
	"github.com/hupe1980/elemgo/builtins"
	"github.com/hupe1980/elemgo/param"
)

// Class is a class handle, e.g. "Wall", "WallType", "Level", "View".
type Class string

// Well-known classes used by the built-in wrappers and fixtures. The class
// space is open; these are conveniences, not an enumeration.
const (
	ClassWall           Class = "Wall"
	ClassWallType       Class = "WallType"
	ClassFamilyInstance Class = "FamilyInstance"
	ClassFamilySymbol   Class = "FamilySymbol"
	ClassLevel          Class = "Level"
	ClassView           Class = "View"
	ClassRoom           Class = "Room"
)

// ParamName is the parameter-set key that carries an element's display name.
const ParamName = "Name"

// Element is a single model element.
//
// Fields are exported for construction and codec round-trips; after an
// element has been added to a model it must be treated as immutable (the
// store indexes its fields).
type Element struct {
	// ID is the element's identity. Leave zero to let the model assign one.
	ID ID `json:"id"`

	// Class is the element's class handle.
	Class Class `json:"class"`

	// Category is the element's built-in category.
	Category builtins.Category `json:"category,omitempty"`

	// IsType marks type (symbol) elements as opposed to placed instances.
	IsType bool `json:"is_type,omitempty"`

	// SymbolID references the type element an instance was placed from.
	SymbolID ID `json:"symbol_id,omitempty"`

	// LevelID references the hosting level, if any.
	LevelID ID `json:"level_id,omitempty"`

	// OwnerViewID references the owning view for view-specific elements.
	// InvalidID means the element is view independent (a model element).
	OwnerViewID ID `json:"owner_view_id,omitempty"`

	// ViewIDs lists the views in which the element is visible.
	ViewIDs []ID `json:"view_ids,omitempty"`

	// Params holds the element's named parameter values.
	Params param.Set `json:"params,omitempty"`
}

// Name returns the element's display name parameter, or "" if unset.
func (e *Element) Name() string {
	if e == nil || e.Params == nil {
		return ""
	}
	v, ok := e.Params.Get(ParamName)
	if !ok {
		return ""
	}
	s, _ := v.AsString()
	return s
}

// ViewIndependent reports whether the element is a model element, i.e. not
// owned by any view.
func (e *Element) ViewIndependent() bool {
	return e.OwnerViewID == InvalidID
}

// VisibleIn reports whether the element is visible in the given view, either
// by owning it or by listing it.
func (e *Element) VisibleIn(view ID) bool {
	if e.OwnerViewID == view {
		return true
	}
	for _, id := range e.ViewIDs {
		if id == view {
			return true
		}
	}
	return false
}

// ElementID implements Referencer, so *Element is itself element-like.
func (e *Element) ElementID() ID {
	return e.ID
}

// Clone returns a deep copy of the element.
func (e *Element) Clone() *Element {
	if e == nil {
		return nil
	}
	clone := *e
	if e.ViewIDs != nil {
		clone.ViewIDs = make([]ID, len(e.ViewIDs))
		copy(clone.ViewIDs, e.ViewIDs)
	}
	clone.Params = e.Params.Clone()
	return &clone
}
