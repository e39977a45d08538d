package store

import (
	"iter"
	"sort"

	"github.com/hupe1980/elemgo/builtins"
	"github.com/hupe1980/elemgo/element"
)

// Predicate is the generic per-element test consumed by Passes.
type Predicate func(*element.Element) bool

// Query is an immutable, narrowing view over a store's rows.
//
// Every narrowing method returns a derived query and leaves the receiver
// untouched, so intermediate queries can be reused and narrowed further
// independently. The row set is fixed when the baseline is taken; elements
// removed afterwards simply drop out at materialization.
type Query struct {
	s    *Store
	bits *Bitmap
}

// Query returns a baseline query over all live elements.
func (s *Store) Query() *Query {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return &Query{s: s, bits: s.live.Clone()}
}

// QueryView returns a baseline query over the elements visible in a view,
// i.e. owned by the view or listing it.
func (s *Store) QueryView(view element.ID) *Query {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bits := NewBitmap()
	if b, ok := s.byView[view]; ok {
		bits = b.Clone()
		bits.And(s.live)
	}
	return &Query{s: s, bits: bits}
}

// QueryIDs returns a baseline query restricted to the given ids. Unknown ids
// are skipped silently.
func (s *Store) QueryIDs(ids ...element.ID) *Query {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bits := NewBitmap()
	for _, id := range ids {
		if row, ok := s.rowByID[id]; ok {
			bits.Add(row)
		}
	}
	return &Query{s: s, bits: bits}
}

// derive produces the next query from a copy of the current row set.
func (q *Query) derive(narrow func(bits *Bitmap)) *Query {
	bits := q.bits.Clone()
	q.s.mu.RLock()
	narrow(bits)
	q.s.mu.RUnlock()
	return &Query{s: q.s, bits: bits}
}

// Class narrows to elements of the given class.
func (q *Query) Class(c element.Class) *Query {
	return q.derive(func(bits *Bitmap) {
		if b, ok := q.s.byClass[c]; ok {
			bits.And(b)
		} else {
			bits.Clear()
		}
	})
}

// Category narrows to elements of the given built-in category.
func (q *Query) Category(c builtins.Category) *Query {
	return q.derive(func(bits *Bitmap) {
		if b, ok := q.s.byCategory[c]; ok {
			bits.And(b)
		} else {
			bits.Clear()
		}
	})
}

// TypesOnly narrows to type (symbol) elements.
func (q *Query) TypesOnly() *Query {
	return q.derive(func(bits *Bitmap) {
		bits.And(q.s.types)
	})
}

// InstancesOnly narrows to placed instances, the dual of TypesOnly.
func (q *Query) InstancesOnly() *Query {
	return q.derive(func(bits *Bitmap) {
		bits.AndNot(q.s.types)
	})
}

// ViewIndependent narrows to model elements not owned by any view.
func (q *Query) ViewIndependent() *Query {
	return q.derive(func(bits *Bitmap) {
		bits.And(q.s.viewIndependent)
	})
}

// OnLevel narrows to elements hosted on the given level.
func (q *Query) OnLevel(level element.ID) *Query {
	return q.derive(func(bits *Bitmap) {
		if b, ok := q.s.byLevel[level]; ok {
			bits.And(b)
		} else {
			bits.Clear()
		}
	})
}

// NotOnLevel narrows to elements not hosted on the given level.
func (q *Query) NotOnLevel(level element.ID) *Query {
	return q.derive(func(bits *Bitmap) {
		if b, ok := q.s.byLevel[level]; ok {
			bits.AndNot(b)
		}
	})
}

// OfSymbol narrows to instances of the given type element.
func (q *Query) OfSymbol(symbol element.ID) *Query {
	return q.derive(func(bits *Bitmap) {
		if b, ok := q.s.bySymbol[symbol]; ok {
			bits.And(b)
		} else {
			bits.Clear()
		}
	})
}

// Passes narrows by scanning the current row set with a generic predicate.
func (q *Query) Passes(pred Predicate) *Query {
	bits := NewBitmap()
	q.s.mu.RLock()
	for row := range q.bits.Iterator() {
		e := q.s.rows[row]
		if e != nil && pred(e) {
			bits.Add(row)
		}
	}
	q.s.mu.RUnlock()
	return &Query{s: q.s, bits: bits}
}

// Count returns the number of elements still live in the row set.
func (q *Query) Count() int {
	return len(q.Elements())
}

// Elements materializes the query in ascending element-id order.
func (q *Query) Elements() []*element.Element {
	q.s.mu.RLock()
	els := make([]*element.Element, 0, q.bits.Cardinality())
	for row := range q.bits.Iterator() {
		if e := q.s.rows[row]; e != nil {
			els = append(els, e)
		}
	}
	q.s.mu.RUnlock()

	sort.Slice(els, func(i, j int) bool { return els[i].ID < els[j].ID })
	return els
}

// IDs materializes the query's element ids in ascending order.
func (q *Query) IDs() []element.ID {
	els := q.Elements()
	ids := make([]element.ID, len(els))
	for i, e := range els {
		ids[i] = e.ID
	}
	return ids
}

// Iterate yields the query's elements in ascending element-id order.
func (q *Query) Iterate() iter.Seq[*element.Element] {
	return func(yield func(*element.Element) bool) {
		for _, e := range q.Elements() {
			if !yield(e) {
				return
			}
		}
	}
}
