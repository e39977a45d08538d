package filter

import (
	"math"
	"sort"
	"strings"

	"github.com/hupe1980/elemgo/builtins"
	"github.com/hupe1980/elemgo/element"
	"github.com/hupe1980/elemgo/param"
)

// Operator is an atomic comparison operator. The spellings double as the
// condition names accepted by ParameterFilter.
type Operator string

const (
	OpEquals       Operator = "equals"
	OpContains     Operator = "contains"
	OpBegins       Operator = "begins"
	OpEnds         Operator = "ends"
	OpGreater      Operator = "greater"
	OpGreaterEqual Operator = "greater_equal"
	OpLess         Operator = "less"
	OpLessEqual    Operator = "less_equal"
)

// notPrefix inverts a condition without changing its base operator: the rule
// evaluates the base comparison and negates the outcome.
const notPrefix = "not_"

// operatorShapes records which value kinds each operator accepts.
var operatorShapes = map[Operator]string{
	OpEquals:       "string, numeric, bool or element id",
	OpContains:     "string",
	OpBegins:       "string",
	OpEnds:         "string",
	OpGreater:      "numeric or string",
	OpGreaterEqual: "numeric or string",
	OpLess:         "numeric or string",
	OpLessEqual:    "numeric or string",
}

// ParseCondition splits a condition name into its base operator and invert
// flag. ok is false when the base is not part of the vocabulary.
func ParseCondition(name string) (op Operator, invert bool, ok bool) {
	base, invert := strings.CutPrefix(name, notPrefix)
	op = Operator(base)
	_, ok = operatorShapes[op]
	return op, invert, ok
}

// Conditions maps condition names to comparison values:
//
//	filter.Conditions{"equals": "Wall 1"}
//	filter.Conditions{"not_greater": 10.0, "begins": "W"}
//
// Names are the operator vocabulary, each optionally carrying the not_
// prefix. Several conditions AND together.
type Conditions map[string]any

// DefaultPrecision is the tolerance applied to float comparisons unless
// overridden: 1/64 inch expressed in feet, matching the store's rounding
// granularity.
const DefaultPrecision = 1.0 / 768.0

// RuleOptions configures how a parameter filter compares values.
type RuleOptions struct {
	// CaseSensitive controls string comparisons. Default true.
	CaseSensitive bool

	// Precision is the tolerance for float comparisons. Default
	// DefaultPrecision. It applies when the comparison value is a float;
	// integer comparison values compare exactly.
	Precision float64

	// Reverse inverts the composite outcome as a whole. It is independent
	// of per-condition not_ prefixes, which invert single conditions.
	Reverse bool
}

// WithCaseSensitive sets whether string comparisons respect case.
func WithCaseSensitive(caseSensitive bool) func(o *RuleOptions) {
	return func(o *RuleOptions) {
		o.CaseSensitive = caseSensitive
	}
}

// WithPrecision sets the tolerance for float comparisons.
func WithPrecision(precision float64) func(o *RuleOptions) {
	return func(o *RuleOptions) {
		o.Precision = precision
	}
}

// WithReverse inverts the composite result as a whole.
func WithReverse(reverse bool) func(o *RuleOptions) {
	return func(o *RuleOptions) {
		o.Reverse = reverse
	}
}

// ParameterFilter builds a composite rule over a single parameter.
//
// parameter is a builtins.Param or a raw parameter-set key string. Each
// condition becomes one atomic rule; the composite matches when every rule
// matches, then applies the Reverse option:
//
//	rule, err := filter.ParameterFilter(builtins.ParamSymbolName, filter.Conditions{
//		"equals": "Wall 1",
//	})
//
//	rule, err := filter.ParameterFilter("Height", filter.Conditions{
//		"greater": 3.0,
//		"not_equals": 10.0,
//	}, filter.WithPrecision(0.01))
//
// Unknown condition names fail with InvalidFilterError, wrong-shaped values
// with TypeMismatchError, and an empty condition set with
// ConfigurationError. Nothing is applied on error.
func ParameterFilter(parameter any, conditions Conditions, optFns ...func(o *RuleOptions)) (*CompositeRule, error) {
	opts := RuleOptions{
		CaseSensitive: true,
		Precision:     DefaultPrecision,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	key, err := parameterKey(parameter)
	if err != nil {
		return nil, err
	}

	if len(conditions) == 0 {
		return nil, &ConfigurationError{Reason: "parameter filter needs at least one condition"}
	}

	// Go maps carry no order; sorting the names keeps rule order, and with
	// it logs and String output, deterministic. AND is order insensitive.
	names := make([]string, 0, len(conditions))
	for name := range conditions {
		names = append(names, name)
	}
	sort.Strings(names)

	rules := make([]Rule, 0, len(names))
	for _, name := range names {
		op, invert, ok := ParseCondition(name)
		if !ok {
			return nil, &InvalidFilterError{Key: name}
		}

		value, err := conditionValue(name, op, conditions[name])
		if err != nil {
			return nil, err
		}

		rules = append(rules, Rule{
			Param:     key,
			Op:        op,
			Value:     value,
			Fold:      !opts.CaseSensitive,
			Precision: opts.Precision,
			Invert:    invert,
		})
	}

	return &CompositeRule{rules: rules, reverse: opts.Reverse}, nil
}

// parameterKey resolves the parameter argument into a parameter-set key.
func parameterKey(parameter any) (string, error) {
	switch x := parameter.(type) {
	case builtins.Param:
		if !x.IsValid() {
			return "", &builtins.LookupError{Kind: "parameter", Name: x.String()}
		}
		return x.Key(), nil
	case string:
		return x, nil
	default:
		return "", &TypeMismatchError{Key: "parameter", Value: parameter, Want: "builtins.Param or string"}
	}
}

// conditionValue coerces a comparison value and checks its shape against
// the operator.
func conditionValue(name string, op Operator, v any) (param.Value, error) {
	var value param.Value
	if id, ok := v.(element.ID); ok {
		value = param.Ref(int64(id))
	} else {
		var err error
		value, err = param.FromAny(v)
		if err != nil {
			return param.Value{}, &TypeMismatchError{Key: name, Value: v, Want: operatorShapes[op]}
		}
	}

	switch op {
	case OpContains, OpBegins, OpEnds:
		if value.Kind != param.KindString {
			return param.Value{}, &TypeMismatchError{Key: name, Value: v, Want: operatorShapes[op]}
		}
	case OpGreater, OpGreaterEqual, OpLess, OpLessEqual:
		if !value.IsNumeric() && value.Kind != param.KindString {
			return param.Value{}, &TypeMismatchError{Key: name, Value: v, Want: operatorShapes[op]}
		}
	case OpEquals:
		if value.Kind == param.KindNull || value.Kind == param.KindInvalid {
			return param.Value{}, &TypeMismatchError{Key: name, Value: v, Want: operatorShapes[op]}
		}
	}

	return value, nil
}

// Rule is one atomic comparison against a single parameter.
type Rule struct {
	// Param is the parameter-set key the rule reads.
	Param string

	// Op is the base comparison. Invert flips its outcome.
	Op Operator

	// Value is the comparison operand.
	Value param.Value

	// Fold makes string comparisons case insensitive.
	Fold bool

	// Precision is the tolerance for float comparisons.
	Precision float64

	// Invert negates the rule outcome, including for elements that lack
	// the parameter.
	Invert bool
}

// Matches reports whether the element satisfies the rule.
//
// An element without the parameter fails the base comparison; Invert then
// applies to that outcome, so an inverted rule matches elements that lack
// the parameter entirely.
func (r Rule) Matches(e *element.Element) bool {
	ok := false
	if e != nil {
		if v, found := e.Params.Get(r.Param); found {
			ok = r.compare(v)
		}
	}
	if r.Invert {
		return !ok
	}
	return ok
}

func (r Rule) compare(v param.Value) bool {
	switch r.Op {
	case OpEquals:
		return r.compareEqual(v)
	case OpContains, OpBegins, OpEnds:
		return r.compareSubstring(v)
	case OpGreater:
		return r.compareGreater(v)
	case OpGreaterEqual:
		return r.compareGreater(v) || r.compareEqual(v)
	case OpLess:
		return r.compareLess(v)
	case OpLessEqual:
		return r.compareLess(v) || r.compareEqual(v)
	default:
		return false
	}
}

func (r Rule) compareEqual(v param.Value) bool {
	if v.IsNumeric() && r.Value.IsNumeric() {
		a, _ := v.AsNumber()
		b, _ := r.Value.AsNumber()
		if r.Value.Kind == param.KindFloat {
			return math.Abs(a-b) <= r.Precision
		}
		return a == b
	}

	if s, ok := v.AsString(); ok {
		t, ok := r.Value.AsString()
		if !ok {
			return false
		}
		if r.Fold {
			return strings.EqualFold(s, t)
		}
		return s == t
	}

	return v.Equal(r.Value)
}

func (r Rule) compareSubstring(v param.Value) bool {
	s, ok := v.AsString()
	if !ok {
		return false
	}
	t, _ := r.Value.AsString()

	if r.Fold {
		s = strings.ToLower(s)
		t = strings.ToLower(t)
	}

	switch r.Op {
	case OpContains:
		return strings.Contains(s, t)
	case OpBegins:
		return strings.HasPrefix(s, t)
	case OpEnds:
		return strings.HasSuffix(s, t)
	default:
		return false
	}
}

func (r Rule) compareGreater(v param.Value) bool {
	if v.IsNumeric() && r.Value.IsNumeric() {
		a, _ := v.AsNumber()
		b, _ := r.Value.AsNumber()
		if r.Value.Kind == param.KindFloat {
			return a-b > r.Precision
		}
		return a > b
	}
	return r.compareStringOrder(v, func(s, t string) bool { return s > t })
}

func (r Rule) compareLess(v param.Value) bool {
	if v.IsNumeric() && r.Value.IsNumeric() {
		a, _ := v.AsNumber()
		b, _ := r.Value.AsNumber()
		if r.Value.Kind == param.KindFloat {
			return b-a > r.Precision
		}
		return a < b
	}
	return r.compareStringOrder(v, func(s, t string) bool { return s < t })
}

func (r Rule) compareStringOrder(v param.Value, cmp func(s, t string) bool) bool {
	s, ok := v.AsString()
	if !ok {
		return false
	}
	t, ok := r.Value.AsString()
	if !ok {
		return false
	}
	if r.Fold {
		s = strings.ToLower(s)
		t = strings.ToLower(t)
	}
	return cmp(s, t)
}

// CompositeRule is an ordered AND of atomic rules with an optional
// composite-level inversion. It is immutable after construction and safe
// for concurrent use, and satisfies the store's predicate shape, so it can
// be used directly with Query.Passes or as the parameter_filter value of a
// Spec.
type CompositeRule struct {
	rules   []Rule
	reverse bool
}

// Matches reports whether the element satisfies every rule, with the
// composite outcome flipped when the rule was built with WithReverse.
func (c *CompositeRule) Matches(e *element.Element) bool {
	ok := true
	for _, r := range c.rules {
		if !r.Matches(e) {
			ok = false
			break
		}
	}
	if c.reverse {
		return !ok
	}
	return ok
}

// Rules returns a copy of the atomic rules in evaluation order.
func (c *CompositeRule) Rules() []Rule {
	rules := make([]Rule, len(c.rules))
	copy(rules, c.rules)
	return rules
}

// Reverse reports whether the composite outcome is inverted.
func (c *CompositeRule) Reverse() bool {
	return c.reverse
}

// Len returns the number of atomic rules.
func (c *CompositeRule) Len() int {
	return len(c.rules)
}
