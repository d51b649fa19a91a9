package convert

import (
	"github.com/orizon-lang/typeconv/internal/errors"
	"github.com/orizon-lang/typeconv/internal/types"
)

// Convert converts value to the type to. Values that already are instances of
// to are returned unchanged.
func (r *Registry) Convert(value any, to types.Token) (any, bool) {
	r.mustBeClosed("convert")

	if value == nil || !to.IsValid() {
		return nil, false
	}

	if to.Accepts(value) {
		return value, true
	}

	rule := r.Resolve(types.TypeOf(value), to)
	if rule == nil {
		return nil, false
	}

	return rule.Convert(value)
}

// ConvertToFirst tries each target in order and returns the first success.
func (r *Registry) ConvertToFirst(value any, targets ...types.Token) (any, bool) {
	r.mustBeClosed("convert")

	for _, to := range targets {
		if out, ok := r.Convert(value, to); ok {
			return out, true
		}
	}

	return nil, false
}

// ConvertArray converts each value independently, dropping the failures.
func (r *Registry) ConvertArray(values []any, to types.Token) []any {
	r.mustBeClosed("convert")

	out := make([]any, 0, len(values))

	for _, v := range values {
		if converted, ok := r.Convert(v, to); ok {
			out = append(out, converted)
		}
	}

	return out
}

// ConvertStrictly is Convert returning a *errors.ConversionError on failure.
func (r *Registry) ConvertStrictly(value any, to types.Token) (any, error) {
	out, ok := r.Convert(value, to)
	if !ok {
		return nil, errors.CannotConvert(value, to)
	}

	return out, nil
}

// ConvertArrayStrictly converts every value or fails on the first that cannot be.
func (r *Registry) ConvertArrayStrictly(values []any, to types.Token) ([]any, error) {
	r.mustBeClosed("convert")

	out := make([]any, len(values))

	for i, v := range values {
		converted, err := r.ConvertStrictly(v, to)
		if err != nil {
			return nil, err
		}

		out[i] = converted
	}

	return out, nil
}

// To converts value to T.
func To[T any](r *Registry, value any) (T, bool) {
	var zero T

	out, ok := r.Convert(value, types.Of[T]())
	if !ok {
		return zero, false
	}

	typed, ok := out.(T)
	if !ok {
		return zero, false
	}

	return typed, true
}

// StrictlyTo converts value to T or returns a conversion error.
func StrictlyTo[T any](r *Registry, value any) (T, error) {
	typed, ok := To[T](r, value)
	if !ok {
		return typed, errors.CannotConvert(value, types.Of[T]())
	}

	return typed, nil
}

// SliceTo converts each value to T, dropping the failures.
func SliceTo[T any](r *Registry, values []any) []T {
	out := make([]T, 0, len(values))

	for _, v := range values {
		if typed, ok := To[T](r, v); ok {
			out = append(out, typed)
		}
	}

	return out
}
