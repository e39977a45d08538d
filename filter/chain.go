package filter

import (
	"github.com/hupe1980/elemgo/builtins"
	"github.com/hupe1980/elemgo/element"
	"github.com/hupe1980/elemgo/store"
)

// Step is one compiled narrowing operation. Steps come out of Parse fully
// typed and validated; applying them cannot fail.
type Step interface {
	// Key returns the vocabulary key the step was compiled from.
	Key() Key

	// Apply narrows the query by this step's criterion.
	Apply(q *store.Query) *store.Query
}

// typeDual maps each boolean type filter to its counterpart. The pair is
// symmetric: is_type=false applies the narrowing of is_not_type=true, and
// the reverse. is_view_independent has no counterpart; its false form is
// accepted and compiles to no step.
var typeDual = map[Key]Key{
	KeyIsType:    KeyIsNotType,
	KeyIsNotType: KeyIsType,
}

// Parse compiles a spec into its narrowing steps.
//
// All keys are validated and all values coerced before anything is applied,
// so a malformed spec never narrows a query halfway. Category names resolve
// through builtins here, ahead of any step running; unknown names surface as
// builtins.LookupError unchanged. Steps come back in canonical vocabulary
// order.
func Parse(spec Spec) ([]Step, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	steps := make([]Step, 0, len(spec))
	for _, k := range spec.Keys() {
		step, err := compile(k, spec[k])
		if err != nil {
			return nil, err
		}
		if step != nil {
			steps = append(steps, step)
		}
	}
	return steps, nil
}

// Apply folds the steps over a baseline query and returns the narrowed
// query. The baseline is untouched; each step derives a new query.
func Apply(q *store.Query, steps []Step) *store.Query {
	for _, step := range steps {
		q = step.Apply(q)
	}
	return q
}

// compile turns one key/value pair into its step. A nil step with nil error
// means the pair is a no-op (is_view_independent=false).
func compile(k Key, v any) (Step, error) {
	switch k {
	case KeyOfClass:
		switch x := v.(type) {
		case element.Class:
			return classStep{class: x}, nil
		case string:
			return classStep{class: element.Class(x)}, nil
		default:
			return nil, &TypeMismatchError{Key: string(k), Value: v, Want: "element.Class or string"}
		}

	case KeyOfCategory:
		switch x := v.(type) {
		case builtins.Category:
			return categoryStep{category: x}, nil
		case string:
			category, err := builtins.LookupCategory(x)
			if err != nil {
				return nil, err
			}
			return categoryStep{category: category}, nil
		default:
			return nil, &TypeMismatchError{Key: string(k), Value: v, Want: "builtins.Category or string"}
		}

	case KeyIsType, KeyIsNotType:
		b, ok := v.(bool)
		if !ok {
			return nil, &TypeMismatchError{Key: string(k), Value: v, Want: "bool"}
		}
		effective := k
		if !b {
			effective = typeDual[k]
		}
		return typeStep{key: k, types: effective == KeyIsType}, nil

	case KeyIsViewIndependent:
		b, ok := v.(bool)
		if !ok {
			return nil, &TypeMismatchError{Key: string(k), Value: v, Want: "bool"}
		}
		if !b {
			return nil, nil
		}
		return viewIndependentStep{}, nil

	case KeyParameterFilter:
		rule, ok := v.(*CompositeRule)
		if !ok || rule == nil {
			return nil, &TypeMismatchError{Key: string(k), Value: v, Want: "*filter.CompositeRule"}
		}
		return passStep{key: k, pred: rule.Matches}, nil

	case KeySymbol:
		f, err := NewSymbolFilter(v)
		if err != nil {
			return nil, err
		}
		return symbolStep{symbol: f.Symbol}, nil

	case KeyLevel, KeyNotLevel:
		f, err := NewLevelFilter(v, k == KeyNotLevel)
		if err != nil {
			return nil, err
		}
		return levelStep{key: k, level: f.Level, exclude: f.Reverse}, nil

	default:
		return nil, &InvalidFilterError{Key: string(k)}
	}
}

// classStep narrows to a single element class.
type classStep struct {
	class element.Class
}

func (s classStep) Key() Key { return KeyOfClass }

func (s classStep) Apply(q *store.Query) *store.Query { return q.Class(s.class) }

// categoryStep narrows to a single built-in category.
type categoryStep struct {
	category builtins.Category
}

func (s categoryStep) Key() Key { return KeyOfCategory }

func (s categoryStep) Apply(q *store.Query) *store.Query { return q.Category(s.category) }

// typeStep narrows to type elements or to placed instances. Both is_type
// and is_not_type compile to it, including their false forms via typeDual;
// key keeps the originating spelling for logs.
type typeStep struct {
	key   Key
	types bool
}

func (s typeStep) Key() Key { return s.key }

func (s typeStep) Apply(q *store.Query) *store.Query {
	if s.types {
		return q.TypesOnly()
	}
	return q.InstancesOnly()
}

// viewIndependentStep narrows to model elements not owned by any view.
type viewIndependentStep struct{}

func (viewIndependentStep) Key() Key { return KeyIsViewIndependent }

func (viewIndependentStep) Apply(q *store.Query) *store.Query { return q.ViewIndependent() }

// symbolStep narrows to placed instances of one type element through the
// store's symbol posting. The instance narrowing holds the SymbolFilter
// contract: type elements never match.
type symbolStep struct {
	symbol element.ID
}

func (s symbolStep) Key() Key { return KeySymbol }

func (s symbolStep) Apply(q *store.Query) *store.Query {
	return q.OfSymbol(s.symbol).InstancesOnly()
}

// levelStep narrows through the store's level posting, to elements hosted
// on the level or, with exclude set, to its complement. The complement
// keeps elements hosted on no level at all.
type levelStep struct {
	key     Key
	level   element.ID
	exclude bool
}

func (s levelStep) Key() Key { return s.key }

func (s levelStep) Apply(q *store.Query) *store.Query {
	if s.exclude {
		return q.NotOnLevel(s.level)
	}
	return q.OnLevel(s.level)
}

// passStep narrows by scanning with an element predicate. Parameter rules
// compile to it; everything else narrows through a posting.
type passStep struct {
	key  Key
	pred store.Predicate
}

func (s passStep) Key() Key { return s.key }

func (s passStep) Apply(q *store.Query) *store.Query { return q.Passes(s.pred) }
