package filter

import "github.com/hupe1980/elemgo/element"

// SymbolFilter matches placed instances of one type element. It backs the
// symbol criterion of a Spec and can be used as a store predicate directly.
type SymbolFilter struct {
	// Symbol is the id of the type element whose instances match.
	Symbol element.ID
}

// NewSymbolFilter builds a symbol filter from an element-like value: an
// element.ID, an integer id, a *element.Element or any element.Referencer.
// Other shapes fail with TypeMismatchError; an invalid id fails with
// ConfigurationError.
func NewSymbolFilter(symbol any) (*SymbolFilter, error) {
	id, err := element.IDOf(symbol)
	if err != nil {
		return nil, &TypeMismatchError{Key: string(KeySymbol), Value: symbol, Want: "symbol element or element id"}
	}
	if !id.IsValid() {
		return nil, &ConfigurationError{Reason: "symbol filter needs a valid element id"}
	}
	return &SymbolFilter{Symbol: id}, nil
}

// Matches reports whether the element is an instance placed from the target
// symbol. Type elements never match; they have no symbol of their own.
func (f *SymbolFilter) Matches(e *element.Element) bool {
	return e != nil && !e.IsType && e.SymbolID == f.Symbol
}

// LevelFilter matches elements hosted on one level. With Reverse set it
// matches the complement, which is the not_level criterion; the complement
// includes elements hosted on no level at all.
type LevelFilter struct {
	// Level is the id of the level to match against.
	Level element.ID

	// Reverse flips the match to elements not hosted on Level.
	Reverse bool
}

// NewLevelFilter builds a level filter from an element-like value, with the
// same shapes and errors as NewSymbolFilter.
func NewLevelFilter(level any, reverse bool) (*LevelFilter, error) {
	id, err := element.IDOf(level)
	if err != nil {
		key := KeyLevel
		if reverse {
			key = KeyNotLevel
		}
		return nil, &TypeMismatchError{Key: string(key), Value: level, Want: "level element or element id"}
	}
	if !id.IsValid() {
		return nil, &ConfigurationError{Reason: "level filter needs a valid element id"}
	}
	return &LevelFilter{Level: id, Reverse: reverse}, nil
}

// Matches reports whether the element's hosting level equals the target,
// or differs from it when reversed.
func (f *LevelFilter) Matches(e *element.Element) bool {
	if e == nil {
		return false
	}
	ok := e.LevelID == f.Level
	if f.Reverse {
		return !ok
	}
	return ok
}
