package compare

import (
	"github.com/orizon-lang/typeconv/internal/types"
)

func (r *Registry) resolve(first, second types.Token) *Rule {
	if !first.IsValid() || !second.IsValid() {
		return nil
	}

	if rule := r.lookup(first, second); rule != nil {
		return rule
	}

	for _, rule := range r.rules {
		if rule.inversion && rule.First.IsSupertypeOf(second) && rule.Second.IsSupertypeOf(first) {
			return newInverted(first, second, rule)
		}
	}

	// Every conversion from any defers, so bridging it would match any rule.
	if first.IsAny() || second.IsAny() {
		return nil
	}

	if rule := r.resolveOneSided(first, second); rule != nil {
		return rule
	}

	if rule := r.resolveAgainstRule(first, second); rule != nil {
		return rule
	}

	if rule := r.resolveAgainstInvertedRule(first, second); rule != nil {
		return rule
	}

	if rule := r.resolveBothSides(first, second); rule != nil {
		return rule
	}

	if first == second && !first.IsAny() {
		return newEquality(first)
	}

	return nil
}

// lookup finds a registered rule whose types accept first and second.
func (r *Registry) lookup(first, second types.Token) *Rule {
	if rule, ok := r.exact[types.PairOf(first, second)]; ok {
		return rule
	}

	for _, rule := range r.rules {
		if rule.First.IsSupertypeOf(first) && rule.Second.IsSupertypeOf(second) {
			return rule
		}
	}

	return nil
}

// resolveOneSided converts one operand into the other's type and compares
// with that type's own rule. Only tried for unrelated types.
func (r *Registry) resolveOneSided(first, second types.Token) *Rule {
	if first.Related(second) {
		return nil
	}

	if rule := r.lookup(first, first); rule != nil {
		if conv := r.conversions.Resolve(second, first); conv != nil {
			return newConverted(first, second, rule, nil, conv)
		}
	}

	if rule := r.lookup(second, second); rule != nil {
		if conv := r.conversions.Resolve(first, second); conv != nil {
			return newConverted(first, second, rule, conv, nil)
		}
	}

	return nil
}

// resolveAgainstRule keeps the operand some rule accepts and converts the other.
func (r *Registry) resolveAgainstRule(first, second types.Token) *Rule {
	for _, rule := range r.rules {
		if rule.First.IsSupertypeOf(first) {
			if conv := r.conversions.Resolve(second, rule.Second); conv != nil {
				return newConverted(first, second, rule, nil, conv)
			}
		}

		if rule.Second.IsSupertypeOf(second) {
			if conv := r.conversions.Resolve(first, rule.First); conv != nil {
				return newConverted(first, second, rule, conv, nil)
			}
		}
	}

	return nil
}

// resolveAgainstInvertedRule is resolveAgainstRule with the operands swapped.
func (r *Registry) resolveAgainstInvertedRule(first, second types.Token) *Rule {
	for _, rule := range r.rules {
		if !rule.inversion {
			continue
		}

		if rule.First.IsSupertypeOf(second) {
			if conv := r.conversions.Resolve(first, rule.Second); conv != nil {
				return newInverted(first, second, newConverted(second, first, rule, nil, conv))
			}
		}

		if rule.Second.IsSupertypeOf(first) {
			if conv := r.conversions.Resolve(second, rule.First); conv != nil {
				return newInverted(first, second, newConverted(second, first, rule, conv, nil))
			}
		}
	}

	return nil
}

// resolveBothSides converts both operands into some rule's types.
func (r *Registry) resolveBothSides(first, second types.Token) *Rule {
	for _, rule := range r.rules {
		convFirst := r.conversions.Resolve(first, rule.First)
		if convFirst == nil {
			continue
		}

		if convSecond := r.conversions.Resolve(second, rule.Second); convSecond != nil {
			return newConverted(first, second, rule, convFirst, convSecond)
		}
	}

	for _, rule := range r.rules {
		if !rule.inversion {
			continue
		}

		convSecond := r.conversions.Resolve(second, rule.First)
		if convSecond == nil {
			continue
		}

		if convFirst := r.conversions.Resolve(first, rule.Second); convFirst != nil {
			return newInverted(first, second, newConverted(second, first, rule, convSecond, convFirst))
		}
	}

	return nil
}
