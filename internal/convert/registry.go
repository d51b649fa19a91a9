// Package convert resolves and executes conversions between runtime types.
//
// A Registry is built in two phases. While open, rules are registered from a
// single bootstrap goroutine. Close builds the transitive closure of all
// chainable rules exactly once; afterwards the rule list is read-only and the
// query methods are safe for concurrent use. Resolution results are memoized
// per (from, to) pair for the lifetime of the registry.
package convert

import (
	"io"
	"log"
	"sync"
	"sync/atomic"

	"github.com/orizon-lang/typeconv/internal/errors"
	"github.com/orizon-lang/typeconv/internal/types"
)

const registryName = "conversion"

// ClosureStats describes the transitive closure built by Close.
type ClosureStats struct {
	Registered  int
	Synthesized int
	Passes      int
	Truncated   bool
}

// Registry holds conversion rules and their resolution cache.
type Registry struct {
	mu    sync.RWMutex
	rules []*Rule
	exact map[types.Pair]*Rule

	closed    atomic.Bool
	closeOnce sync.Once
	stats     ClosureStats

	cacheMu sync.RWMutex
	cache   map[types.Pair]*Rule // nil value records "no rule"

	logger    *log.Logger
	debug     bool
	maxPasses int
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used while building the closure.
func WithLogger(logger *log.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithDebug logs every synthesized chain.
func WithDebug(debug bool) Option {
	return func(r *Registry) {
		r.debug = debug
	}
}

// WithMaxPasses bounds the fixed-point iteration of Close. Zero means no bound.
func WithMaxPasses(n int) Option {
	return func(r *Registry) {
		if n >= 0 {
			r.maxPasses = n
		}
	}
}

// NewRegistry creates an open registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		exact:  make(map[types.Pair]*Rule),
		cache:  make(map[types.Pair]*Rule),
		logger: log.New(io.Discard, "", 0),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// RuleOption configures a single registration.
type RuleOption func(*ruleOptions)

type ruleOptions struct {
	origin string
}

// WithOrigin records who registered the rule, typically an addon name.
func WithOrigin(origin string) RuleOption {
	return func(o *ruleOptions) {
		o.origin = origin
	}
}

// RegisterConverter adds an exact rule from -> to.
func (r *Registry) RegisterConverter(from, to types.Token, fn Converter, flags Flags, opts ...RuleOption) error {
	options := ruleOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	pair := types.PairOf(from, to)

	switch {
	case !from.IsValid() || !to.IsValid():
		return errors.ForbiddenRule(registryName, pair, "invalid type token")
	case fn == nil:
		return errors.ForbiddenRule(registryName, pair, "nil converter")
	case from.IsAny() && to.IsAny():
		return errors.ForbiddenRule(registryName, pair, "any to any is reserved")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed.Load() {
		return errors.RegistryClosed(registryName)
	}

	if existing, ok := r.exact[pair]; ok {
		return errors.DuplicateRule(registryName, pair, existing.Origin, options.origin)
	}

	rule := newExact(from, to, fn, flags, options.origin)
	r.rules = append(r.rules, rule)
	r.exact[pair] = rule

	return nil
}

// Register adds a typed rule F -> T. fn reports false when it cannot convert.
func Register[F, T any](r *Registry, fn func(F) (T, bool), flags Flags, opts ...RuleOption) error {
	if fn == nil {
		return r.RegisterConverter(types.Of[F](), types.Of[T](), nil, flags, opts...)
	}

	return r.RegisterConverter(types.Of[F](), types.Of[T](), Func(func(v any) (any, bool) {
		from, ok := v.(F)
		if !ok {
			return nil, false
		}

		to, ok := fn(from)
		if !ok {
			return nil, false
		}

		return to, true
	}), flags, opts...)
}

// Always adapts an infallible function for Register.
func Always[F, T any](fn func(F) T) func(F) (T, bool) {
	return func(from F) (T, bool) {
		return fn(from), true
	}
}

// Close stops registration and builds the transitive closure.
// It is idempotent; only the first call does any work.
func (r *Registry) Close() {
	r.closeOnce.Do(func() {
		r.mu.Lock()
		defer r.mu.Unlock()

		r.buildClosure()
		r.closed.Store(true)
	})
}

// IsClosed reports whether Close has completed.
func (r *Registry) IsClosed() bool {
	return r.closed.Load()
}

// Stats returns the closure statistics. Zero until closed.
func (r *Registry) Stats() ClosureStats {
	if !r.closed.Load() {
		return ClosureStats{}
	}

	return r.stats
}

// Rules returns a snapshot of the rule list, synthesized chains included.
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

// Resolve returns the rule converting from -> to, or nil when none applies.
func (r *Registry) Resolve(from, to types.Token) *Rule {
	r.mustBeClosed("resolve conversions")

	pair := types.PairOf(from, to)

	r.cacheMu.RLock()
	rule, ok := r.cache[pair]
	r.cacheMu.RUnlock()

	if ok {
		return rule
	}

	rule = r.resolve(from, to)

	r.cacheMu.Lock()
	if existing, ok := r.cache[pair]; ok {
		rule = existing
	} else {
		r.cache[pair] = rule
	}
	r.cacheMu.Unlock()

	return rule
}

func (r *Registry) resolve(from, to types.Token) *Rule {
	if !from.IsValid() || !to.IsValid() {
		return nil
	}

	if rule, ok := r.exact[types.PairOf(from, to)]; ok {
		return rule
	}

	// Accepts every from and only produces instances of to.
	for _, rule := range r.rules {
		if rule.From.IsSupertypeOf(from) && to.IsSupertypeOf(rule.To) {
			return rule
		}
	}

	if from.IsAny() {
		return newDeferred(r, to)
	}

	// Accepts every from; results must be checked against to.
	for _, rule := range r.rules {
		if rule.From.IsSupertypeOf(from) && rule.To.IsSupertypeOf(to) {
			return newFiltered(rule, from, to, FilterOutput)
		}
	}

	// Accepts only some from values; every result is an instance of to.
	for _, rule := range r.rules {
		if from.IsSupertypeOf(rule.From) && to.IsSupertypeOf(rule.To) {
			return newFiltered(rule, from, to, FilterInput)
		}
	}

	for _, rule := range r.rules {
		if from.IsSupertypeOf(rule.From) && rule.To.IsSupertypeOf(to) {
			return newFiltered(rule, from, to, FilterInput|FilterOutput)
		}
	}

	return nil
}

// Exists reports whether a rule from -> to resolves.
func (r *Registry) Exists(from, to types.Token) bool {
	return r.Resolve(from, to) != nil
}
