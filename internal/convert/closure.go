package convert

import (
	"github.com/orizon-lang/typeconv/internal/types"
)

// buildClosure chains every permitted pair of rules A->B, B'->C with B' a
// supertype of B, until a full pass adds nothing. Rules synthesized in a pass
// take part in the same pass. Callers hold r.mu.
func (r *Registry) buildClosure() {
	r.stats.Registered = len(r.rules)

	for pass := 1; ; pass++ {
		r.stats.Passes = pass

		if r.chainPass() == 0 {
			break
		}

		if r.maxPasses > 0 && pass >= r.maxPasses {
			r.stats.Truncated = true
			r.logger.Printf("conversion closure stopped after %d passes with %d rules", pass, len(r.rules))

			break
		}
	}

	r.stats.Synthesized = len(r.rules) - r.stats.Registered

	r.logger.Printf("conversion closure built: %d registered, %d synthesized, %d passes",
		r.stats.Registered, r.stats.Synthesized, r.stats.Passes)
}

func (r *Registry) chainPass() int {
	added := 0

	for i := 0; i < len(r.rules); i++ {
		first := r.rules[i]
		if !first.Flags.AllowsFirst() {
			continue
		}

		for j := 0; j < len(r.rules); j++ {
			second := r.rules[j]
			if !second.Flags.AllowsSecond() || !second.From.IsSupertypeOf(first.To) {
				continue
			}

			// A round trip back to the source type is never useful.
			if first.From == second.To {
				continue
			}

			pair := types.PairOf(first.From, second.To)
			if _, exists := r.exact[pair]; exists {
				continue
			}

			chained := newChained(first, second)
			r.rules = append(r.rules, chained)
			r.exact[pair] = chained
			added++

			if r.debug {
				r.logger.Printf("synthesized %s", chained)
			}
		}
	}

	return added
}
