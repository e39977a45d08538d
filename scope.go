package elemgo

import (
	"fmt"

	"github.com/hupe1980/elemgo/element"
	"github.com/hupe1980/elemgo/filter"
	"github.com/hupe1980/elemgo/store"
)

// scope is a collector's narrowing baseline. Exactly one axis becomes
// effective, with silent precedence: view beats explicit elements beats
// explicit ids beats the whole model.
type scope struct {
	view     element.ID
	hasView  bool
	elements []*element.Element
	ids      []element.ID
	hasIDs   bool
}

// baseline opens the store query the scope narrows to.
func (s scope) baseline(m *Model) *store.Query {
	switch {
	case s.hasView:
		return m.store.QueryView(s.view)
	case s.elements != nil:
		ids := make([]element.ID, 0, len(s.elements))
		for _, e := range s.elements {
			if e != nil {
				ids = append(ids, e.ID)
			}
		}
		return m.store.QueryIDs(ids...)
	case s.hasIDs:
		return m.store.QueryIDs(s.ids...)
	default:
		return m.store.Query()
	}
}

type collectorOptions struct {
	model *Model
	scope scope
	spec  filter.Spec
	err   error
}

// CollectorOption configures collector construction: its model, its scope
// and any initial filters.
type CollectorOption func(*collectorOptions)

// WithModel binds the collector to an explicit model instead of the ambient
// current one.
func WithModel(m *Model) CollectorOption {
	return func(o *collectorOptions) {
		o.model = m
	}
}

// InView scopes the collector to the elements visible in a view. view is
// element-like: an id, an *element.Element or anything with an ElementID
// method. InView wins over FromElements and FromIDs when several scopes are
// given.
func InView(view any) CollectorOption {
	return func(o *collectorOptions) {
		id, err := element.IDOf(view)
		if err != nil {
			if o.err == nil {
				o.err = fmt.Errorf("elemgo: invalid view reference: %w", err)
			}
			return
		}
		o.scope.view = id
		o.scope.hasView = true
	}
}

// FromElements scopes the collector to an explicit element collection.
// Elements that are not part of the model simply never match.
func FromElements(els ...*element.Element) CollectorOption {
	return func(o *collectorOptions) {
		if els == nil {
			els = []*element.Element{}
		}
		o.scope.elements = els
	}
}

// FromIDs scopes the collector to an explicit id collection. Unknown ids
// simply never match.
func FromIDs(ids ...element.ID) CollectorOption {
	return func(o *collectorOptions) {
		o.scope.ids = ids
		o.scope.hasIDs = true
	}
}

// WithFilters seeds the collector with an initial filter spec, applied as if
// passed to Filter immediately after construction.
func WithFilters(spec filter.Spec) CollectorOption {
	return func(o *collectorOptions) {
		if o.spec == nil {
			o.spec = filter.Spec{}
		}
		o.spec.Merge(spec)
	}
}
