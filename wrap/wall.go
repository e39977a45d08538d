package wrap

import (
	"fmt"

	"github.com/hupe1980/elemgo/builtins"
	"github.com/hupe1980/elemgo/element"
	"github.com/hupe1980/elemgo/filter"
)

// ParamWallKind is the parameter-set key carrying a wall type's system
// family kind.
const ParamWallKind = "Kind"

func init() {
	Register(element.ClassWall, func(src Source, e *element.Element) Wrapped {
		return &Wall{src: src, e: e}
	})
	Register(element.ClassWallType, func(src Source, e *element.Element) Wrapped {
		return &WallType{src: src, e: e}
	})
}

// Wall wraps a placed wall instance.
type Wall struct {
	src Source
	e   *element.Element
}

// Unwrap implements Wrapped.
func (w *Wall) Unwrap() *element.Element { return w.e }

// Name returns the wall's display name.
func (w *Wall) Name() string { return w.e.Name() }

// WallType resolves the wall's type element.
func (w *Wall) WallType() (*WallType, error) {
	if !w.e.SymbolID.IsValid() {
		return nil, fmt.Errorf("wrap: wall %d has no type reference", int64(w.e.ID))
	}

	te, err := w.src.Get(w.e.SymbolID)
	if err != nil {
		return nil, err
	}
	return &WallType{src: w.src, e: te}, nil
}

// Kind returns the wall's system family kind, resolved through its type.
func (w *Wall) Kind() (WallKind, error) {
	wt, err := w.WallType()
	if err != nil {
		return WallKindUnknown, err
	}
	return wt.Kind(), nil
}

// WallType wraps a wall type (symbol) element.
type WallType struct {
	src Source
	e   *element.Element
}

// Unwrap implements Wrapped.
func (t *WallType) Unwrap() *element.Element { return t.e }

// Name returns the type's display name.
func (t *WallType) Name() string { return t.e.Name() }

// Kind returns the type's system family kind from its Kind parameter.
func (t *WallType) Kind() WallKind {
	v, ok := t.e.Params.Get(ParamWallKind)
	if !ok {
		return WallKindUnknown
	}
	s, _ := v.AsString()
	return ParseWallKind(s)
}

// Instances collects the placed walls of this type, matched through the
// symbol name parameter stamped on instances.
func (t *WallType) Instances() ([]*Wall, error) {
	rule, err := filter.ParameterFilter(builtins.ParamSymbolName, filter.Conditions{
		"equals": t.e.Name(),
	})
	if err != nil {
		return nil, err
	}

	els, err := t.src.Collect(filter.Spec{
		filter.KeyOfClass:         element.ClassWall,
		filter.KeyIsNotType:       true,
		filter.KeyParameterFilter: rule,
	})
	if err != nil {
		return nil, err
	}

	walls := make([]*Wall, 0, len(els))
	for _, e := range els {
		walls = append(walls, &Wall{src: t.src, e: e})
	}
	return walls, nil
}

// Siblings returns the other wall types of the same kind.
func (t *WallType) Siblings() ([]*WallType, error) {
	types, err := t.Kind().WallTypes(t.src)
	if err != nil {
		return nil, err
	}

	out := types[:0]
	for _, sib := range types {
		if sib.e.ID != t.e.ID {
			out = append(out, sib)
		}
	}
	return out, nil
}

// WallKind enumerates the built-in wall system families.
type WallKind int

const (
	WallKindUnknown WallKind = iota
	WallKindBasic
	WallKindCurtain
	WallKindStacked
)

// String returns the kind's canonical name, e.g. "Basic".
func (k WallKind) String() string {
	switch k {
	case WallKindBasic:
		return "Basic"
	case WallKindCurtain:
		return "Curtain"
	case WallKindStacked:
		return "Stacked"
	default:
		return "Unknown"
	}
}

// ParseWallKind resolves a kind name. Unrecognized names map to
// WallKindUnknown.
func ParseWallKind(s string) WallKind {
	switch s {
	case "Basic":
		return WallKindBasic
	case "Curtain":
		return WallKindCurtain
	case "Stacked":
		return WallKindStacked
	default:
		return WallKindUnknown
	}
}

// WallTypes collects the wall types of this kind.
func (k WallKind) WallTypes(src Source) ([]*WallType, error) {
	rule, err := filter.ParameterFilter(ParamWallKind, filter.Conditions{
		"equals": k.String(),
	})
	if err != nil {
		return nil, err
	}

	els, err := src.Collect(filter.Spec{
		filter.KeyOfClass:         element.ClassWallType,
		filter.KeyIsType:          true,
		filter.KeyParameterFilter: rule,
	})
	if err != nil {
		return nil, err
	}

	types := make([]*WallType, 0, len(els))
	for _, e := range els {
		types = append(types, &WallType{src: src, e: e})
	}
	return types, nil
}

// Instances collects every placed wall whose type is of this kind.
func (k WallKind) Instances(src Source) ([]*Wall, error) {
	types, err := k.WallTypes(src)
	if err != nil {
		return nil, err
	}

	var walls []*Wall
	for _, t := range types {
		instances, err := t.Instances()
		if err != nil {
			return nil, err
		}
		walls = append(walls, instances...)
	}
	return walls, nil
}

// WallCategory groups the wall domain: its built-in category and the system
// families it spans.
type WallCategory struct{}

// Category returns the walls built-in category.
func (WallCategory) Category() builtins.Category { return builtins.CategoryWalls }

// Families returns the wall system family kinds.
func (WallCategory) Families() []WallKind {
	return []WallKind{WallKindBasic, WallKindCurtain, WallKindStacked}
}
