package convert

import (
	"fmt"

	"github.com/orizon-lang/typeconv/internal/types"
)

// Flags restrict where a rule may appear in a synthesized chain.
type Flags uint8

const (
	// ChainAll places no restriction on chaining.
	ChainAll Flags = 0
	// NoLeftChain forbids other rules from chaining onto this rule's left,
	// so it is never the second link of a chain.
	NoLeftChain Flags = 1 << 0
	// NoRightChain forbids other rules from chaining onto this rule's right,
	// so it is never the first link of a chain.
	NoRightChain Flags = 1 << 1
	// NoChain combines both restrictions.
	NoChain = NoLeftChain | NoRightChain
)

// AllowsFirst reports whether a rule with these flags may start a chain.
func (f Flags) AllowsFirst() bool {
	return f&NoRightChain == 0
}

// AllowsSecond reports whether a rule with these flags may end a chain.
func (f Flags) AllowsSecond() bool {
	return f&NoLeftChain == 0
}

func (f Flags) String() string {
	switch f {
	case ChainAll:
		return "chain"
	case NoLeftChain:
		return "no-left-chain"
	case NoRightChain:
		return "no-right-chain"
	case NoChain:
		return "no-chain"
	default:
		return fmt.Sprintf("flags(%d)", uint8(f))
	}
}

// Converter is the one-method capability behind every conversion rule.
// A false second result means the value could not be converted.
type Converter interface {
	Convert(v any) (any, bool)
}

// Func adapts a plain function to Converter.
type Func func(v any) (any, bool)

// Convert calls f.
func (f Func) Convert(v any) (any, bool) {
	return f(v)
}

// Kind tags the variant of a Rule.
type Kind int

const (
	// KindExact is a registered rule.
	KindExact Kind = iota
	// KindChained composes two rules through an intermediate type.
	KindChained
	// KindDeferred resolves against the value's runtime type at call time.
	KindDeferred
	// KindFiltered guards a partially matching rule with runtime checks.
	KindFiltered
)

func (k Kind) String() string {
	switch k {
	case KindExact:
		return "exact"
	case KindChained:
		return "chained"
	case KindDeferred:
		return "deferred"
	case KindFiltered:
		return "filtered"
	default:
		return "unknown"
	}
}

// Filter selects the runtime guards of a filtered rule.
type Filter uint8

const (
	// FilterInput only accepts inputs that are instances of the base rule's From.
	FilterInput Filter = 1 << iota
	// FilterOutput discards results that are not instances of the requested To.
	FilterOutput
)

// Rule is an immutable conversion from values of From to values of To.
type Rule struct {
	From   types.Token
	To     types.Token
	Flags  Flags
	Kind   Kind
	Origin string

	fn Converter

	// KindChained
	first  *Rule
	second *Rule

	// KindFiltered
	base   *Rule
	filter Filter

	// KindDeferred
	registry *Registry
}

func newExact(from, to types.Token, fn Converter, flags Flags, origin string) *Rule {
	return &Rule{From: from, To: to, Flags: flags, Kind: KindExact, Origin: origin, fn: fn}
}

func newChained(first, second *Rule) *Rule {
	return &Rule{
		From:   first.From,
		To:     second.To,
		Flags:  first.Flags | second.Flags,
		Kind:   KindChained,
		Origin: first.Origin,
		first:  first,
		second: second,
	}
}

func newFiltered(base *Rule, from, to types.Token, filter Filter) *Rule {
	return &Rule{
		From:   from,
		To:     to,
		Flags:  base.Flags,
		Kind:   KindFiltered,
		Origin: base.Origin,
		base:   base,
		filter: filter,
	}
}

func newDeferred(registry *Registry, to types.Token) *Rule {
	return &Rule{
		From:     types.Any,
		To:       to,
		Flags:    NoChain,
		Kind:     KindDeferred,
		registry: registry,
	}
}

// Convert applies the rule. Absent results, including nil, report false.
func (r *Rule) Convert(v any) (any, bool) {
	if v == nil {
		return nil, false
	}

	switch r.Kind {
	case KindExact:
		out, ok := r.fn.Convert(v)
		if !ok || out == nil {
			return nil, false
		}

		return out, true

	case KindChained:
		mid, ok := r.first.Convert(v)
		if !ok {
			return nil, false
		}

		return r.second.Convert(mid)

	case KindFiltered:
		if r.filter&FilterInput != 0 && !r.base.From.Accepts(v) {
			return nil, false
		}

		out, ok := r.base.Convert(v)
		if !ok {
			return nil, false
		}

		if r.filter&FilterOutput != 0 && !r.To.Accepts(out) {
			return nil, false
		}

		return out, true

	case KindDeferred:
		actual := types.TypeOf(v)
		if actual.IsAny() {
			return nil, false
		}

		rule := r.registry.Resolve(actual, r.To)
		if rule == nil {
			return nil, false
		}

		return rule.Convert(v)

	default:
		return nil, false
	}
}

// Links returns the two rules of a chained rule, or nils.
func (r *Rule) Links() (first, second *Rule) {
	return r.first, r.second
}

// Base returns the guarded rule of a filtered rule, or nil.
func (r *Rule) Base() *Rule {
	return r.base
}

// Filter returns the runtime guards of a filtered rule.
func (r *Rule) Filter() Filter {
	return r.filter
}

// Pair returns the rule's (From, To) pair.
func (r *Rule) Pair() types.Pair {
	return types.PairOf(r.From, r.To)
}

func (r *Rule) String() string {
	switch r.Kind {
	case KindChained:
		return fmt.Sprintf("%s -> %s (chained via %s)", r.From, r.To, r.first.To)
	case KindFiltered:
		return fmt.Sprintf("%s -> %s (filtered %s)", r.From, r.To, r.base)
	default:
		return fmt.Sprintf("%s -> %s (%s)", r.From, r.To, r.Kind)
	}
}
