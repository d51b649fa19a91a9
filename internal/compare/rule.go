package compare

import (
	"fmt"
	"reflect"

	"github.com/orizon-lang/typeconv/internal/convert"
	"github.com/orizon-lang/typeconv/internal/relation"
	"github.com/orizon-lang/typeconv/internal/types"
)

// Comparator is the one-method capability behind every comparison rule.
type Comparator interface {
	Compare(a, b any) relation.Relation
}

// Func adapts a plain function to Comparator.
type Func func(a, b any) relation.Relation

// Compare calls f.
func (f Func) Compare(a, b any) relation.Relation {
	return f(a, b)
}

// Kind tags the variant of a Rule.
type Kind int

const (
	// KindExact is a registered rule.
	KindExact Kind = iota
	// KindInverted swaps the operands of another rule and switches its result.
	KindInverted
	// KindConverted converts one or both operands before delegating.
	KindConverted
	// KindEquality is the generic same-type equality fallback.
	KindEquality
)

func (k Kind) String() string {
	switch k {
	case KindExact:
		return "exact"
	case KindInverted:
		return "inverted"
	case KindConverted:
		return "converted"
	case KindEquality:
		return "equality"
	default:
		return "unknown"
	}
}

// Rule is an immutable comparison between values of First and Second.
type Rule struct {
	First  types.Token
	Second types.Token
	Kind   Kind
	Origin string

	ordering  bool
	inversion bool

	fn Comparator

	// KindInverted, KindConverted
	base *Rule

	// KindConverted; nil leaves the operand as is
	convertFirst  *convert.Rule
	convertSecond *convert.Rule
}

func newExact(first, second types.Token, fn Comparator, options ruleOptions) *Rule {
	return &Rule{
		First:     first,
		Second:    second,
		Kind:      KindExact,
		Origin:    options.origin,
		ordering:  options.ordering,
		inversion: options.inversion,
		fn:        fn,
	}
}

func newInverted(first, second types.Token, base *Rule) *Rule {
	return &Rule{
		First:     first,
		Second:    second,
		Kind:      KindInverted,
		Origin:    base.Origin,
		ordering:  base.ordering,
		inversion: true,
		base:      base,
	}
}

func newConverted(first, second types.Token, base *Rule, convertFirst, convertSecond *convert.Rule) *Rule {
	return &Rule{
		First:         first,
		Second:        second,
		Kind:          KindConverted,
		Origin:        base.Origin,
		ordering:      base.ordering,
		inversion:     base.inversion,
		base:          base,
		convertFirst:  convertFirst,
		convertSecond: convertSecond,
	}
}

func newEquality(t types.Token) *Rule {
	return &Rule{
		First:     t,
		Second:    t,
		Kind:      KindEquality,
		inversion: true,
	}
}

// Compare applies the rule.
func (r *Rule) Compare(a, b any) relation.Relation {
	switch r.Kind {
	case KindExact:
		return r.fn.Compare(a, b)

	case KindInverted:
		return r.base.Compare(b, a).Switched()

	case KindConverted:
		first, ok := convertOperand(r.convertFirst, r.base.First, a)
		if !ok {
			return relation.NotEqual
		}

		second, ok := convertOperand(r.convertSecond, r.base.Second, b)
		if !ok {
			return relation.NotEqual
		}

		return r.base.Compare(first, second)

	case KindEquality:
		return relation.FromBool(reflect.DeepEqual(a, b))

	default:
		return relation.NotEqual
	}
}

func convertOperand(rule *convert.Rule, target types.Token, v any) (any, bool) {
	if rule == nil || target.Accepts(v) {
		return v, true
	}

	return rule.Convert(v)
}

// SupportsOrdering reports whether the rule may produce the greater and
// smaller families, as opposed to only equality forms.
func (r *Rule) SupportsOrdering() bool {
	return r.ordering
}

// SupportsInversion reports whether the rule may serve swapped operand types.
func (r *Rule) SupportsInversion() bool {
	return r.inversion
}

// Base returns the delegate of an inverted or converted rule, or nil.
func (r *Rule) Base() *Rule {
	return r.base
}

// Conversions returns the operand conversions of a converted rule.
func (r *Rule) Conversions() (first, second *convert.Rule) {
	return r.convertFirst, r.convertSecond
}

// Pair returns the rule's (First, Second) pair.
func (r *Rule) Pair() types.Pair {
	return types.PairOf(r.First, r.Second)
}

func (r *Rule) String() string {
	switch r.Kind {
	case KindInverted, KindConverted:
		return fmt.Sprintf("%s <> %s (%s %s)", r.First, r.Second, r.Kind, r.base)
	default:
		return fmt.Sprintf("%s <> %s (%s)", r.First, r.Second, r.Kind)
	}
}

// identical reports whether a and b are the same reference.
func identical(a, b any) bool {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta == nil || ta != tb {
		return false
	}

	switch ta.Kind() {
	case reflect.Pointer, reflect.Chan, reflect.UnsafePointer:
		return a == b
	case reflect.Func, reflect.Map:
		// Funcs compare by code pointer and maps by header, both non-nil.
		va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
		return !va.IsNil() && va.Pointer() == vb.Pointer()
	default:
		return false
	}
}
