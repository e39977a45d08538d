// Package filter compiles loose, named query criteria into typed narrowing
// steps and parameter comparison rules.
//
// # Specs
//
// A Spec maps a closed key vocabulary to loosely typed values:
//
//	spec := filter.Spec{
//	    filter.KeyOfClass: "Wall",
//	    filter.KeyIsType:  false,
//	}
//
// Supported keys:
//
//   - of_class: element class, as element.Class or string
//   - of_category: built-in category, as builtins.Category or name string
//   - is_type / is_not_type: bool, type elements vs placed instances
//   - is_view_independent: bool, model elements not owned by a view
//   - parameter_filter: a *CompositeRule built with ParameterFilter
//   - symbol: element-like reference to a type element
//   - level / not_level: element-like reference to a level
//
// The boolean type filters are duals: is_type=false applies the same
// narrowing as is_not_type=true, and the reverse. is_view_independent=false
// is accepted and has no effect.
//
// # Steps
//
// Parse validates every key and coerces every value before anything runs,
// so a malformed spec never applies halfway:
//
//	steps, err := filter.Parse(spec)
//	q = filter.Apply(q, steps)
//
// Steps apply in canonical vocabulary order. All steps narrow by
// intersection, so the order affects traces, never results.
//
// # Parameter rules
//
// ParameterFilter builds a reusable comparison over a single parameter.
// Condition names are equals, contains, begins, ends, greater,
// greater_equal, less and less_equal, each optionally prefixed with not_
// to invert that condition alone:
//
//	rule, err := filter.ParameterFilter(builtins.ParamSymbolName, filter.Conditions{
//	    "equals": "Wall 1",
//	})
//
//	rule, err := filter.ParameterFilter("Height", filter.Conditions{
//	    "greater_equal": 10.0,
//	    "not_equals":    12.5,
//	}, filter.WithPrecision(0.01), filter.WithReverse(true))
//
// String comparisons honor the case option (sensitive unless changed);
// float comparison values carry a tolerance. WithReverse inverts the
// composite outcome as a whole, on top of any per-condition not_.
//
// # Errors
//
// All validation is fail fast and typed:
//
//   - InvalidFilterError: key or condition outside the vocabulary
//   - TypeMismatchError: known key with a wrong-shaped value
//   - ConfigurationError: unusable construction, e.g. zero conditions
//   - builtins.LookupError: unknown category or parameter name, passed
//     through unchanged
//
// Match with errors.Is against ErrInvalidFilter, ErrTypeMismatch,
// ErrConfiguration and builtins.ErrLookup.
package filter
