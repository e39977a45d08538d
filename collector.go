package elemgo

import (
	"context"
	"iter"
	"time"

	"github.com/hupe1980/elemgo/element"
	"github.com/hupe1980/elemgo/filter"
	"github.com/hupe1980/elemgo/wrap"
)

var _ wrap.Source = (*Model)(nil)

// Collector is a declarative query over a model's elements.
//
// A collector materializes immediately: construction runs its initial spec
// against the scope, and every Filter call (or fluent shorthand) merges into
// the accumulated spec, revalidates it as a whole and reapplies it from the
// scope baseline. Same-key criteria override their earlier value; distinct
// keys narrow cumulatively.
//
// A rejected filter leaves the collector on its previous result set: either
// the whole call applies or none of it does.
//
// Collectors are snapshots. Terminals read the materialized result and never
// requery, so a collector built before a mutation keeps returning the
// pre-mutation elements. Build a new collector to observe changes.
type Collector struct {
	model   *Model
	scope   scope
	spec    filter.Spec
	results []*element.Element
	err     error
}

// NewCollector builds a collector against the model selected by the options:
// WithModel if given, otherwise the ambient current model. Without either it
// fails with ErrNoModel.
func NewCollector(optFns ...CollectorOption) (*Collector, error) {
	o := collectorOptions{}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.err != nil {
		return nil, o.err
	}

	m := o.model
	if m == nil {
		m = Current()
	}
	if m == nil {
		return nil, ErrNoModel
	}

	c := &Collector{
		model: m,
		scope: o.scope,
		spec:  filter.Spec{},
	}

	if err := c.rebuild(o.spec); err != nil {
		return nil, err
	}

	return c, nil
}

// Collector builds a collector scoped to this model.
func (m *Model) Collector(optFns ...CollectorOption) (*Collector, error) {
	return NewCollector(append([]CollectorOption{WithModel(m)}, optFns...)...)
}

// rebuild merges spec into the accumulated criteria and reapplies the whole
// chain from the scope baseline. On a parse failure the accumulated spec and
// the materialized results stay untouched.
func (c *Collector) rebuild(spec filter.Spec) error {
	start := time.Now()
	ctx := context.Background()

	merged := c.spec.Clone()
	merged.Merge(spec)

	steps, err := filter.Parse(merged)
	if err != nil {
		c.model.metrics.RecordCollect(0, 0, time.Since(start), err)
		c.model.logger.LogFilter(ctx, len(merged), err)
		return err
	}

	q := filter.Apply(c.scope.baseline(c.model), steps)
	c.spec = merged
	c.results = q.Elements()

	duration := time.Since(start)
	c.model.metrics.RecordCollect(len(steps), len(c.results), duration, nil)
	c.model.logger.LogFilter(ctx, len(merged), nil)
	c.model.logger.LogCollect(ctx, len(steps), len(c.results), nil)
	return nil
}

// Filter merges spec into the collector's criteria and rematerializes. It
// returns the receiver for chaining.
func (c *Collector) Filter(spec filter.Spec) (*Collector, error) {
	if c.err != nil {
		return c, c.err
	}
	if err := c.rebuild(spec); err != nil {
		return c, err
	}
	return c, nil
}

// fluent is Filter with the error parked on the collector, for the
// shorthand methods below.
func (c *Collector) fluent(spec filter.Spec) *Collector {
	if c.err != nil {
		return c
	}
	if err := c.rebuild(spec); err != nil {
		c.err = err
	}
	return c
}

// Err returns the first error a fluent shorthand ran into, if any. Once set,
// further shorthands are no-ops and the error-returning terminals fail.
func (c *Collector) Err() error {
	return c.err
}

// OfClass keeps elements of the given class. class may be an element.Class
// or a plain string.
func (c *Collector) OfClass(class any) *Collector {
	return c.fluent(filter.Spec{filter.KeyOfClass: class})
}

// OfCategory keeps elements of the given built-in category. category may be
// a builtins.Category or a canonical name like "OST_Walls".
func (c *Collector) OfCategory(category any) *Collector {
	return c.fluent(filter.Spec{filter.KeyOfCategory: category})
}

// TypesOnly keeps type (symbol) elements.
func (c *Collector) TypesOnly() *Collector {
	return c.fluent(filter.Spec{filter.KeyIsType: true})
}

// InstancesOnly keeps placed instances, dropping type elements.
func (c *Collector) InstancesOnly() *Collector {
	return c.fluent(filter.Spec{filter.KeyIsNotType: true})
}

// ViewIndependent keeps model elements, dropping view-owned ones.
func (c *Collector) ViewIndependent() *Collector {
	return c.fluent(filter.Spec{filter.KeyIsViewIndependent: true})
}

// OfSymbol keeps instances placed from the given type element. symbol is
// element-like.
func (c *Collector) OfSymbol(symbol any) *Collector {
	return c.fluent(filter.Spec{filter.KeySymbol: symbol})
}

// OnLevel keeps elements hosted on the given level. level is element-like.
func (c *Collector) OnLevel(level any) *Collector {
	return c.fluent(filter.Spec{filter.KeyLevel: level})
}

// NotOnLevel drops elements hosted on the given level. level is
// element-like.
func (c *Collector) NotOnLevel(level any) *Collector {
	return c.fluent(filter.Spec{filter.KeyNotLevel: level})
}

// Where keeps elements matching a parameter rule built with
// filter.ParameterFilter.
func (c *Collector) Where(rule *filter.CompositeRule) *Collector {
	return c.fluent(filter.Spec{filter.KeyParameterFilter: rule})
}

// Elements returns the materialized result in ascending id order. The slice
// is the caller's; mutating it does not affect the collector.
func (c *Collector) Elements() []*element.Element {
	out := make([]*element.Element, len(c.results))
	copy(out, c.results)
	return out
}

// ElementIDs returns the ids of the materialized result in ascending order.
func (c *Collector) ElementIDs() []element.ID {
	ids := make([]element.ID, len(c.results))
	for i, e := range c.results {
		ids[i] = e.ID
	}
	return ids
}

// First returns the lowest-id element of the result, or nil if it is empty.
func (c *Collector) First() *element.Element {
	if len(c.results) == 0 {
		return nil
	}
	return c.results[0]
}

// Len returns the size of the materialized result.
func (c *Collector) Len() int {
	return len(c.results)
}

// IsEmpty reports whether the result is empty.
func (c *Collector) IsEmpty() bool {
	return len(c.results) == 0
}

// Exists reports whether the result has at least one element.
func (c *Collector) Exists() bool {
	return len(c.results) > 0
}

// All iterates the materialized result in ascending id order.
func (c *Collector) All() iter.Seq[*element.Element] {
	return func(yield func(*element.Element) bool) {
		for _, e := range c.results {
			if !yield(e) {
				return
			}
		}
	}
}

// WrappedElements returns the result wrapped through the wrap registry, so
// class-specific wrappers (wrap.Wall, wrap.WallType, ...) come back where
// registered and wrap.Generic everywhere else.
func (c *Collector) WrappedElements() ([]wrap.Wrapped, error) {
	if c.err != nil {
		return nil, c.err
	}

	out := make([]wrap.Wrapped, 0, len(c.results))
	for _, e := range c.results {
		out = append(out, wrap.Wrap(c.model, e))
	}
	return out, nil
}
