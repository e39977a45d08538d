// Package param provides typed parameter values for elemgo elements.
//
// Parameters are the queryable attributes attached to every element. The
// value model is intentionally small and typed (no reflection, no fmt-based
// stringification) so that rule evaluation over large models stays fast.
//
// # Parameter Types
//
// Parameter values can be:
//
//   - String: param.String("Wall 1")
//   - Int: param.Int(2024)
//   - Float: param.Float(3.14)
//   - Bool: param.Bool(true)
//   - Ref: param.Ref(id), a reference to another element
//
// Example:
//
//	params := param.Set{
//	    "Name":     param.String("Basic Wall"),
//	    "Height":   param.Float(4.25),
//	    "Fire Rating": param.Int(2),
//	}
//
// # Coercion
//
// Loose Go values from user input convert through FromAny / SetFromAny; the
// filter package layers comparison semantics (case sensitivity, numeric
// tolerance) on top of these values.
package param
