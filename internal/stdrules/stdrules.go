// Package stdrules registers conversions and comparisons for Go's built-in
// scalar types, time values and semantic versions.
//
// Numeric types widen to int64, uint64 and float64; each wide type compares
// with itself, so narrower operands are bridged through the conversion
// closure. Parsers from string never appear as the second link of a chain.
package stdrules

import (
	"cmp"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/Masterminds/semver/v3"

	"github.com/orizon-lang/typeconv/internal/addon"
	"github.com/orizon-lang/typeconv/internal/compare"
	"github.com/orizon-lang/typeconv/internal/convert"
	"github.com/orizon-lang/typeconv/internal/engine"
	"github.com/orizon-lang/typeconv/internal/relation"
)

// Addon identifies the standard rules.
var Addon = addon.MustNew("std", "1.0.0", "^"+engine.APIVersion)

// Install attaches the standard addon to e and registers its rules.
func Install(e *engine.Engine) error {
	reg, err := e.Attach(Addon)
	if err != nil {
		return err
	}

	return Register(reg)
}

// Register registers the standard rules through reg.
func Register(reg *engine.Registrar) error {
	steps := []func(*engine.Registrar) error{
		registerWidening,
		registerStringify,
		registerParsing,
		registerComparisons,
	}

	for _, step := range steps {
		if err := step(reg); err != nil {
			return err
		}
	}

	return nil
}

func registerWidening(reg *engine.Registrar) error {
	return firstError(
		engine.Conversion(reg, convert.Always(func(v int) int64 { return int64(v) }), convert.ChainAll),
		engine.Conversion(reg, convert.Always(func(v int8) int64 { return int64(v) }), convert.ChainAll),
		engine.Conversion(reg, convert.Always(func(v int16) int64 { return int64(v) }), convert.ChainAll),
		engine.Conversion(reg, convert.Always(func(v int32) int64 { return int64(v) }), convert.ChainAll),
		engine.Conversion(reg, convert.Always(func(v uint) uint64 { return uint64(v) }), convert.ChainAll),
		engine.Conversion(reg, convert.Always(func(v uint8) uint64 { return uint64(v) }), convert.ChainAll),
		engine.Conversion(reg, convert.Always(func(v uint16) uint64 { return uint64(v) }), convert.ChainAll),
		engine.Conversion(reg, convert.Always(func(v uint32) uint64 { return uint64(v) }), convert.ChainAll),
		engine.Conversion(reg, convert.Always(func(v int64) float64 { return float64(v) }), convert.ChainAll),
		engine.Conversion(reg, convert.Always(func(v uint64) float64 { return float64(v) }), convert.ChainAll),
		engine.Conversion(reg, convert.Always(func(v float32) float64 { return float64(v) }), convert.ChainAll),
	)
}

func registerStringify(reg *engine.Registrar) error {
	return firstError(
		engine.Conversion(reg, convert.Always(func(v int64) string { return strconv.FormatInt(v, 10) }), convert.ChainAll),
		engine.Conversion(reg, convert.Always(func(v uint64) string { return strconv.FormatUint(v, 10) }), convert.ChainAll),
		engine.Conversion(reg, convert.Always(func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }), convert.ChainAll),
		engine.Conversion(reg, convert.Always(strconv.FormatBool), convert.ChainAll),
		engine.Conversion(reg, convert.Always(func(v fmt.Stringer) string { return v.String() }), convert.NoRightChain),
	)
}

func registerParsing(reg *engine.Registrar) error {
	return firstError(
		engine.Conversion(reg, func(s string) (int, bool) {
			v, err := strconv.Atoi(s)
			return v, err == nil
		}, convert.NoLeftChain),
		engine.Conversion(reg, func(s string) (int64, bool) {
			v, err := strconv.ParseInt(s, 10, 64)
			return v, err == nil
		}, convert.NoLeftChain),
		engine.Conversion(reg, func(s string) (float64, bool) {
			v, err := strconv.ParseFloat(s, 64)
			return v, err == nil
		}, convert.NoLeftChain),
		engine.Conversion(reg, func(s string) (bool, bool) {
			v, err := strconv.ParseBool(s)
			return v, err == nil
		}, convert.NoLeftChain),
		engine.Conversion(reg, func(s string) (time.Duration, bool) {
			v, err := time.ParseDuration(s)
			return v, err == nil
		}, convert.NoLeftChain),
		engine.Conversion(reg, func(s string) (time.Time, bool) {
			v, err := time.Parse(time.RFC3339, s)
			return v, err == nil
		}, convert.NoLeftChain),
		engine.Conversion(reg, func(s string) (*semver.Version, bool) {
			v, err := semver.NewVersion(s)
			return v, err == nil
		}, convert.NoLeftChain),
	)
}

func registerComparisons(reg *engine.Registrar) error {
	return firstError(
		engine.Comparison(reg, ordered[int64], compare.WithOrdering()),
		engine.Comparison(reg, ordered[uint64], compare.WithOrdering()),
		engine.Comparison(reg, compareFloats, compare.WithOrdering()),
		engine.Comparison(reg, compareIntFloat, compare.WithOrdering()),
		engine.Comparison(reg, ordered[string], compare.WithOrdering()),
		engine.Comparison(reg, func(a, b bool) relation.Relation {
			return relation.FromBool(a == b)
		}),
		engine.Comparison(reg, ordered[time.Duration], compare.WithOrdering()),
		engine.Comparison(reg, func(a, b time.Time) relation.Relation {
			return relation.FromInt(a.Compare(b))
		}, compare.WithOrdering()),
		engine.Comparison(reg, func(a, b *semver.Version) relation.Relation {
			return relation.FromInt(a.Compare(b))
		}, compare.WithOrdering()),
	)
}

func ordered[T cmp.Ordered](a, b T) relation.Relation {
	return relation.FromInt(cmp.Compare(a, b))
}

// compareFloats is NotEqual when either side is NaN.
func compareFloats(a, b float64) relation.Relation {
	switch {
	case a == b:
		return relation.Equal
	case a < b:
		return relation.Smaller
	case a > b:
		return relation.Greater
	default:
		return relation.NotEqual
	}
}

// compareIntFloat compares exactly, without widening a to float64.
func compareIntFloat(a int64, b float64) relation.Relation {
	switch {
	case math.IsNaN(b):
		return relation.NotEqual
	case math.IsInf(b, 1):
		return relation.Smaller
	case math.IsInf(b, -1):
		return relation.Greater
	}

	whole := math.Trunc(b)

	// Outside the int64 range. MaxInt64 rounds up to 2^63 as a float64.
	switch {
	case whole >= math.MaxInt64:
		return relation.Smaller
	case whole < math.MinInt64:
		return relation.Greater
	}

	if r := relation.FromInt(cmp.Compare(a, int64(whole))); r != relation.Equal {
		return r
	}

	return relation.FromInt(cmp.Compare(0, b-whole))
}

func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}

	return nil
}
