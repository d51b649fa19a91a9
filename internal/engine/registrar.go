package engine

import (
	"github.com/orizon-lang/typeconv/internal/compare"
	"github.com/orizon-lang/typeconv/internal/convert"
	"github.com/orizon-lang/typeconv/internal/relation"
	"github.com/orizon-lang/typeconv/internal/types"
)

// Registrar registers rules on behalf of one attached addon.
type Registrar struct {
	engine *Engine
	origin string
}

// Origin returns the addon identity recorded on every rule.
func (r *Registrar) Origin() string {
	return r.origin
}

// RegisterConversion adds an exact conversion rule owned by the addon.
func (r *Registrar) RegisterConversion(from, to types.Token, fn convert.Converter, flags convert.Flags) error {
	return r.engine.conversions.RegisterConverter(from, to, fn, flags, convert.WithOrigin(r.origin))
}

// RegisterComparison adds an exact comparison rule owned by the addon.
func (r *Registrar) RegisterComparison(first, second types.Token, fn compare.Comparator, opts ...compare.RuleOption) error {
	return r.engine.comparisons.RegisterComparator(first, second, fn, append(opts, compare.WithOrigin(r.origin))...)
}

// Conversion registers a typed conversion F -> T owned by the addon.
func Conversion[F, T any](r *Registrar, fn func(F) (T, bool), flags convert.Flags) error {
	return convert.Register(r.engine.conversions, fn, flags, convert.WithOrigin(r.origin))
}

// Comparison registers a typed comparison (T1, T2) owned by the addon.
func Comparison[T1, T2 any](r *Registrar, fn func(T1, T2) relation.Relation, opts ...compare.RuleOption) error {
	return compare.Register(r.engine.comparisons, fn, append(opts, compare.WithOrigin(r.origin))...)
}
