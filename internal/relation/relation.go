// Package relation defines the result of comparing two values.
package relation

import (
	"fmt"
)

// Relation is one of six symbolic comparison outcomes.
type Relation int

const (
	Equal Relation = iota
	NotEqual
	Greater
	GreaterOrEqual
	Smaller
	SmallerOrEqual
)

// All lists every relation in declaration order.
var All = []Relation{Equal, NotEqual, Greater, GreaterOrEqual, Smaller, SmallerOrEqual}

// FromBool returns Equal for true and NotEqual for false.
func FromBool(equal bool) Relation {
	if equal {
		return Equal
	}

	return NotEqual
}

// FromInt maps the sign of a three-way comparison result.
func FromInt(i int) Relation {
	switch {
	case i > 0:
		return Greater
	case i < 0:
		return Smaller
	default:
		return Equal
	}
}

// FromFloat maps the sign of d. NaN is NotEqual.
func FromFloat(d float64) Relation {
	switch {
	case d > 0:
		return Greater
	case d < 0:
		return Smaller
	case d == 0:
		return Equal
	default:
		return NotEqual
	}
}

// Sign returns 0 for the equality forms, +1 for the greater family and -1 for
// the smaller family.
func (r Relation) Sign() int {
	switch r {
	case Greater, GreaterOrEqual:
		return 1
	case Smaller, SmallerOrEqual:
		return -1
	default:
		return 0
	}
}

// Inverse returns the logical negation of r.
func (r Relation) Inverse() Relation {
	switch r {
	case Equal:
		return NotEqual
	case NotEqual:
		return Equal
	case Greater:
		return SmallerOrEqual
	case SmallerOrEqual:
		return Greater
	case Smaller:
		return GreaterOrEqual
	case GreaterOrEqual:
		return Smaller
	default:
		panic(fmt.Sprintf("relation: invalid relation %d", int(r)))
	}
}

// Switched returns the relation that holds when the compared operands are
// exchanged.
func (r Relation) Switched() Relation {
	switch r {
	case Greater:
		return Smaller
	case Smaller:
		return Greater
	case GreaterOrEqual:
		return SmallerOrEqual
	case SmallerOrEqual:
		return GreaterOrEqual
	case Equal, NotEqual:
		return r
	default:
		panic(fmt.Sprintf("relation: invalid relation %d", int(r)))
	}
}

// IsImpliedBy reports whether any of the actual outcomes satisfies r.
// Testing for GreaterOrEqual accepts Equal, Greater and GreaterOrEqual.
func (r Relation) IsImpliedBy(actual ...Relation) bool {
	for _, other := range actual {
		if r.impliedBy(other) {
			return true
		}
	}

	return false
}

func (r Relation) impliedBy(other Relation) bool {
	switch r {
	case Equal, Greater, Smaller:
		return other == r
	case NotEqual:
		return other == NotEqual || other == Smaller || other == Greater
	case GreaterOrEqual:
		return other == GreaterOrEqual || other == Greater || other == Equal
	case SmallerOrEqual:
		return other == SmallerOrEqual || other == Smaller || other == Equal
	default:
		return false
	}
}

// IsEqualOrInverse reports whether other is r or its negation.
func (r Relation) IsEqualOrInverse(other Relation) bool {
	return r == other || r.Inverse() == other
}

// IsOrdering reports whether r requires an ordering to be decided.
func (r Relation) IsOrdering() bool {
	return r != Equal && r != NotEqual
}

// Symbol returns the operator spelling of r.
func (r Relation) Symbol() string {
	switch r {
	case Equal:
		return "="
	case NotEqual:
		return "!="
	case Greater:
		return ">"
	case GreaterOrEqual:
		return ">="
	case Smaller:
		return "<"
	case SmallerOrEqual:
		return "<="
	default:
		return "?"
	}
}

// ParseSymbol is the inverse of Symbol. "==" and "<>" are accepted as aliases.
func ParseSymbol(s string) (Relation, error) {
	switch s {
	case "=", "==":
		return Equal, nil
	case "!=", "<>":
		return NotEqual, nil
	case ">":
		return Greater, nil
	case ">=":
		return GreaterOrEqual, nil
	case "<":
		return Smaller, nil
	case "<=":
		return SmallerOrEqual, nil
	default:
		return Equal, fmt.Errorf("relation: unknown operator %q", s)
	}
}

func (r Relation) String() string {
	switch r {
	case Equal:
		return "equal to"
	case NotEqual:
		return "not equal to"
	case Greater:
		return "greater than"
	case GreaterOrEqual:
		return "greater than or equal to"
	case Smaller:
		return "smaller than"
	case SmallerOrEqual:
		return "smaller than or equal to"
	default:
		return "invalid"
	}
}
