package filter

import "sort"

// Key identifies one narrowing criterion in a Spec.
//
// The vocabulary is closed: Parse rejects anything outside the constants
// below with an InvalidFilterError before any narrowing is applied.
type Key string

// The filter vocabulary. The order listed here is the canonical application
// order; Parse emits steps in it regardless of map iteration order.
const (
	KeyOfClass           Key = "of_class"
	KeyOfCategory        Key = "of_category"
	KeyIsType            Key = "is_type"
	KeyIsNotType         Key = "is_not_type"
	KeyIsViewIndependent Key = "is_view_independent"
	KeyParameterFilter   Key = "parameter_filter"
	KeySymbol            Key = "symbol"
	KeyLevel             Key = "level"
	KeyNotLevel          Key = "not_level"
)

// keyRank fixes the canonical application order of the vocabulary. Every
// step narrows by intersection, so the order never changes the result set;
// fixing it keeps logs and traces deterministic.
var keyRank = map[Key]int{
	KeyOfClass:           0,
	KeyOfCategory:        1,
	KeyIsType:            2,
	KeyIsNotType:         3,
	KeyIsViewIndependent: 4,
	KeyParameterFilter:   5,
	KeySymbol:            6,
	KeyLevel:             7,
	KeyNotLevel:          8,
}

// Valid reports whether the key belongs to the filter vocabulary.
func (k Key) Valid() bool {
	_, ok := keyRank[k]
	return ok
}

// Spec is a loose set of narrowing criteria keyed by filter name.
//
// Values stay untyped until Parse compiles them into steps, so a Spec can be
// built from user input or literals:
//
//	filter.Spec{
//		filter.KeyOfClass: "Wall",
//		filter.KeyIsType:  false,
//	}
//
// Plain string keys work too, since the constants are untyped at the call
// site: filter.Spec{"of_class": "Wall"}.
type Spec map[Key]any

// Clone returns a shallow copy of the spec. Values are shared; they are
// treated as immutable once handed to a collector.
func (s Spec) Clone() Spec {
	if s == nil {
		return nil
	}
	clone := make(Spec, len(s))
	for k, v := range s {
		clone[k] = v
	}
	return clone
}

// Merge copies the entries of other into s. Entries with a key already
// present override the old value; new keys are added. This is the cumulative
// collector semantics: criteria accumulate across calls and later values win
// per key.
func (s Spec) Merge(other Spec) {
	for k, v := range other {
		s[k] = v
	}
}

// Keys returns the spec's keys in canonical vocabulary order. Keys outside
// the vocabulary sort last, lexically, so validation reports them
// deterministically.
func (s Spec) Keys() []Key {
	keys := make([]Key, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ri, iok := keyRank[keys[i]]
		rj, jok := keyRank[keys[j]]
		if iok && jok {
			return ri < rj
		}
		if iok != jok {
			return iok
		}
		return keys[i] < keys[j]
	})
	return keys
}

// Validate checks every key against the vocabulary without touching values.
// Value shapes are checked by Parse.
func (s Spec) Validate() error {
	for _, k := range s.Keys() {
		if !k.Valid() {
			return &InvalidFilterError{Key: string(k)}
		}
	}
	return nil
}
