// Package compare resolves the relation between values of two runtime types.
//
// Comparison rules are registered while the registry is open. Once closed,
// Resolve searches registered rules, then synthesizes inverted and converted
// comparators using the conversion registry, and finally falls back to
// generic equality for two values of the same type. Results are memoized.
package compare

import (
	"sync"
	"sync/atomic"

	"github.com/orizon-lang/typeconv/internal/convert"
	"github.com/orizon-lang/typeconv/internal/errors"
	"github.com/orizon-lang/typeconv/internal/relation"
	"github.com/orizon-lang/typeconv/internal/types"
)

const registryName = "comparison"

// Registry holds comparison rules and their resolution cache.
type Registry struct {
	conversions *convert.Registry

	mu    sync.RWMutex
	rules []*Rule
	exact map[types.Pair]*Rule

	closed    atomic.Bool
	closeOnce sync.Once

	cacheMu sync.RWMutex
	cache   map[types.Pair]*Rule // nil value records "no rule"
}

// NewRegistry creates an open registry that bridges types through conversions.
func NewRegistry(conversions *convert.Registry) *Registry {
	return &Registry{
		conversions: conversions,
		exact:       make(map[types.Pair]*Rule),
		cache:       make(map[types.Pair]*Rule),
	}
}

// RuleOption configures a single registration.
type RuleOption func(*ruleOptions)

type ruleOptions struct {
	origin    string
	ordering  bool
	inversion bool
}

// WithOrdering declares that the comparator decides greater and smaller.
func WithOrdering() RuleOption {
	return func(o *ruleOptions) {
		o.ordering = true
	}
}

// WithoutInversion stops the comparator from serving swapped operand types.
func WithoutInversion() RuleOption {
	return func(o *ruleOptions) {
		o.inversion = false
	}
}

// WithOrigin records who registered the rule.
func WithOrigin(origin string) RuleOption {
	return func(o *ruleOptions) {
		o.origin = origin
	}
}

// RegisterComparator adds an exact rule for (first, second).
func (r *Registry) RegisterComparator(first, second types.Token, fn Comparator, opts ...RuleOption) error {
	options := ruleOptions{inversion: true}
	for _, opt := range opts {
		opt(&options)
	}

	pair := types.PairOf(first, second)

	switch {
	case !first.IsValid() || !second.IsValid():
		return errors.ForbiddenRule(registryName, pair, "invalid type token")
	case fn == nil:
		return errors.ForbiddenRule(registryName, pair, "nil comparator")
	case first.IsAny() && second.IsAny():
		return errors.ForbiddenRule(registryName, pair, "any to any is reserved for generic equality")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed.Load() {
		return errors.RegistryClosed(registryName)
	}

	if existing, ok := r.exact[pair]; ok {
		return errors.DuplicateRule(registryName, pair, existing.Origin, options.origin)
	}

	rule := newExact(first, second, fn, options)
	r.rules = append(r.rules, rule)
	r.exact[pair] = rule

	return nil
}

// Register adds a typed rule for (T1, T2). Operands of other types compare
// as NotEqual.
func Register[T1, T2 any](r *Registry, fn func(T1, T2) relation.Relation, opts ...RuleOption) error {
	if fn == nil {
		return r.RegisterComparator(types.Of[T1](), types.Of[T2](), nil, opts...)
	}

	return r.RegisterComparator(types.Of[T1](), types.Of[T2](), Func(func(a, b any) relation.Relation {
		first, ok := a.(T1)
		if !ok {
			return relation.NotEqual
		}

		second, ok := b.(T2)
		if !ok {
			return relation.NotEqual
		}

		return fn(first, second)
	}), opts...)
}

// Close stops registration. The conversion registry is closed first since
// resolution depends on it. Idempotent.
func (r *Registry) Close() {
	r.closeOnce.Do(func() {
		r.conversions.Close()

		r.mu.Lock()
		defer r.mu.Unlock()

		r.closed.Store(true)
	})
}

// IsClosed reports whether Close has completed.
func (r *Registry) IsClosed() bool {
	return r.closed.Load()
}

// Conversions returns the conversion registry used to bridge types.
func (r *Registry) Conversions() *convert.Registry {
	return r.conversions
}

// Rules returns a snapshot of the registered rules.
func (r *Registry) Rules() []*Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Rule, len(r.rules))
	copy(out, r.rules)

	return out
}

func (r *Registry) mustBeClosed(operation string) {
	if !r.closed.Load() {
		panic(errors.RegistryOpen(registryName, operation))
	}
}

// Resolve returns the rule comparing first with second, or nil.
func (r *Registry) Resolve(first, second types.Token) *Rule {
	r.mustBeClosed("resolve comparisons")

	pair := types.PairOf(first, second)

	r.cacheMu.RLock()
	rule, ok := r.cache[pair]
	r.cacheMu.RUnlock()

	if ok {
		return rule
	}

	rule = r.resolve(first, second)

	r.cacheMu.Lock()
	if existing, ok := r.cache[pair]; ok {
		rule = existing
	} else {
		r.cache[pair] = rule
	}
	r.cacheMu.Unlock()

	return rule
}

// Exists reports whether a rule for (first, second) resolves.
func (r *Registry) Exists(first, second types.Token) bool {
	return r.Resolve(first, second) != nil
}

// Compare returns the relation between a and b. Missing operands and
// unrelated types are NotEqual; the same reference is Equal.
func (r *Registry) Compare(a, b any) relation.Relation {
	r.mustBeClosed("compare")

	if a == nil || b == nil {
		return relation.NotEqual
	}

	if identical(a, b) {
		return relation.Equal
	}

	rule := r.Resolve(types.TypeOf(a), types.TypeOf(b))
	if rule == nil {
		return relation.NotEqual
	}

	return rule.Compare(a, b)
}

// Check reports whether a rel b holds. Ordering relations only hold when the
// resolved comparator supports ordering.
func (r *Registry) Check(a any, rel relation.Relation, b any) bool {
	r.mustBeClosed("compare")

	if rel.IsOrdering() {
		if a == nil || b == nil {
			return false
		}

		rule := r.Resolve(types.TypeOf(a), types.TypeOf(b))
		if rule == nil || !rule.SupportsOrdering() {
			return false
		}
	}

	return rel.IsImpliedBy(r.Compare(a, b))
}
