package element

import (
	"errors"
	"fmt"
)

// ID is an element identity handle.
type ID int64

// InvalidID is the absent-reference sentinel.
const InvalidID ID = 0

// IsValid reports whether the id refers to an element.
func (id ID) IsValid() bool { return id != InvalidID }

// ElementID implements Referencer, so an ID is itself element-like.
func (id ID) ElementID() ID { return id }

// Referencer is anything that can stand in for an element reference.
type Referencer interface {
	ElementID() ID
}

// ErrInvalidReference is returned when a value cannot be coerced into an
// element id. Callers that surface a typed taxonomy wrap it accordingly.
var ErrInvalidReference = errors.New("invalid element reference")

// IDOf coerces an element-like value into an ID.
//
// Accepted shapes: ID, *Element, any Referencer, and the integer types a
// caller would plausibly hold an id in. Everything else fails with an
// ErrInvalidReference-wrapped error.
func IDOf(v any) (ID, error) {
	switch x := v.(type) {
	case ID:
		return x, nil
	case *Element:
		if x == nil {
			return InvalidID, fmt.Errorf("%w: nil element", ErrInvalidReference)
		}
		return x.ID, nil
	case Referencer:
		return x.ElementID(), nil
	case int:
		return ID(x), nil
	case int32:
		return ID(x), nil
	case int64:
		return ID(x), nil
	case uint32:
		return ID(x), nil
	default:
		return InvalidID, fmt.Errorf("%w: cannot derive id from %T", ErrInvalidReference, v)
	}
}

// IDsOf coerces a slice of element-like values into ids, failing on the
// first value that cannot be coerced.
func IDsOf(vs ...any) ([]ID, error) {
	ids := make([]ID, 0, len(vs))
	for _, v := range vs {
		id, err := IDOf(v)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
