// Package store implements the bitmap-indexed element table behind a model.
//
// Every insert assigns a dense internal row and maintains Roaring Bitmap
// postings (class, category, type flag, view independence, level, symbol,
// view visibility). Queries narrow a cloned row set through cheap bitmap
// intersections and only fall back to scanning for generic predicates.
//
// The store is safe for concurrent use. Queries observe the rows that were
// live when the baseline was taken.
package store

import (
	"errors"
	"iter"
	"sync"

	"github.com/hupe1980/elemgo/builtins"
	"github.com/hupe1980/elemgo/element"
)

var (
	// ErrInvalidID is returned when inserting an element without a valid id.
	ErrInvalidID = errors.New("store: invalid element id")

	// ErrDuplicateID is returned when inserting an element whose id is taken.
	ErrDuplicateID = errors.New("store: duplicate element id")
)

// Store is the element table with its posting lists.
type Store struct {
	mu      sync.RWMutex
	rows    []*element.Element // row -> element, nil after removal
	rowByID map[element.ID]Row

	live            *Bitmap
	types           *Bitmap
	viewIndependent *Bitmap
	byClass         map[element.Class]*Bitmap
	byCategory      map[builtins.Category]*Bitmap
	byLevel         map[element.ID]*Bitmap
	bySymbol        map[element.ID]*Bitmap
	byView          map[element.ID]*Bitmap
}

// New creates an empty store.
func New() *Store {
	return &Store{
		rowByID:         make(map[element.ID]Row),
		live:            NewBitmap(),
		types:           NewBitmap(),
		viewIndependent: NewBitmap(),
		byClass:         make(map[element.Class]*Bitmap),
		byCategory:      make(map[builtins.Category]*Bitmap),
		byLevel:         make(map[element.ID]*Bitmap),
		bySymbol:        make(map[element.ID]*Bitmap),
		byView:          make(map[element.ID]*Bitmap),
	}
}

// Insert adds an element and indexes it. The element's ID must be set and
// unused. The store takes ownership; callers must not mutate the element
// afterwards.
func (s *Store) Insert(e *element.Element) error {
	if e == nil || !e.ID.IsValid() {
		return ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.rowByID[e.ID]; exists {
		return ErrDuplicateID
	}

	row := Row(len(s.rows))
	s.rows = append(s.rows, e)
	s.rowByID[e.ID] = row

	s.live.Add(row)
	posting(s.byClass, e.Class).Add(row)
	if e.Category != builtins.CategoryInvalid {
		posting(s.byCategory, e.Category).Add(row)
	}
	if e.IsType {
		s.types.Add(row)
	}
	if e.ViewIndependent() {
		s.viewIndependent.Add(row)
	}
	if e.LevelID.IsValid() {
		posting(s.byLevel, e.LevelID).Add(row)
	}
	if e.SymbolID.IsValid() {
		posting(s.bySymbol, e.SymbolID).Add(row)
	}
	if e.OwnerViewID.IsValid() {
		posting(s.byView, e.OwnerViewID).Add(row)
	}
	for _, v := range e.ViewIDs {
		if v.IsValid() && v != e.OwnerViewID {
			posting(s.byView, v).Add(row)
		}
	}

	return nil
}

// posting returns the posting bitmap for key, creating it on first use.
func posting[K comparable](m map[K]*Bitmap, key K) *Bitmap {
	b, ok := m[key]
	if !ok {
		b = NewBitmap()
		m[key] = b
	}
	return b
}

// Remove deletes an element by id. Returns false if the id is unknown.
func (s *Store) Remove(id element.ID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.rowByID[id]
	if !ok {
		return false
	}
	e := s.rows[row]

	delete(s.rowByID, id)
	s.rows[row] = nil

	s.live.Remove(row)
	s.types.Remove(row)
	s.viewIndependent.Remove(row)
	if b, ok := s.byClass[e.Class]; ok {
		b.Remove(row)
	}
	if b, ok := s.byCategory[e.Category]; ok {
		b.Remove(row)
	}
	if b, ok := s.byLevel[e.LevelID]; ok {
		b.Remove(row)
	}
	if b, ok := s.bySymbol[e.SymbolID]; ok {
		b.Remove(row)
	}
	if b, ok := s.byView[e.OwnerViewID]; ok {
		b.Remove(row)
	}
	for _, v := range e.ViewIDs {
		if b, ok := s.byView[v]; ok {
			b.Remove(row)
		}
	}

	return true
}

// Get returns the element with the given id.
func (s *Store) Get(id element.ID) (*element.Element, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row, ok := s.rowByID[id]
	if !ok {
		return nil, false
	}
	return s.rows[row], true
}

// Len returns the number of live elements.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return int(s.live.Cardinality())
}

// All iterates the live elements in row (insertion) order.
func (s *Store) All() iter.Seq[*element.Element] {
	return func(yield func(*element.Element) bool) {
		s.mu.RLock()
		base := s.live.Clone()
		s.mu.RUnlock()

		for row := range base.Iterator() {
			s.mu.RLock()
			e := s.rows[row]
			s.mu.RUnlock()
			if e == nil {
				continue
			}
			if !yield(e) {
				return
			}
		}
	}
}

// Stats summarizes the store's contents.
type Stats struct {
	Elements   int
	Types      int
	Classes    int
	Categories int
}

// Stats returns summary counts for the live element set.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Stats{
		Elements: int(s.live.Cardinality()),
		Types:    int(s.types.Cardinality()),
	}
	for _, b := range s.byClass {
		if !b.IsEmpty() {
			st.Classes++
		}
	}
	for _, b := range s.byCategory {
		if !b.IsEmpty() {
			st.Categories++
		}
	}
	return st
}
