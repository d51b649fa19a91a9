// Runtime type tokens for the conversion and comparison engine.
// This is the only place where host type introspection is used.

package types

import (
	"reflect"
)

// Token is a runtime handle identifying a Go type.
// The zero Token is invalid and matches nothing.
type Token struct {
	rt reflect.Type
}

// Any is the universal type marker. Every valid token is a subtype of Any.
var Any = Token{rt: reflect.TypeOf((*any)(nil)).Elem()}

// Of returns the token of the static type T.
func Of[T any]() Token {
	return Token{rt: reflect.TypeOf((*T)(nil)).Elem()}
}

// TypeOf returns the token of the dynamic type of v.
// A nil interface value yields the invalid token.
func TypeOf(v any) Token {
	if v == nil {
		return Token{}
	}

	return Token{rt: reflect.TypeOf(v)}
}

// IsValid reports whether the token identifies a type.
func (t Token) IsValid() bool {
	return t.rt != nil
}

// IsAny reports whether t is the universal marker.
func (t Token) IsAny() bool {
	return t.rt != nil && t.rt == Any.rt
}

// IsInterface reports whether t names an interface type. Interface tokens can
// have proper subtypes; concrete tokens only have themselves.
func (t Token) IsInterface() bool {
	return t.rt != nil && t.rt.Kind() == reflect.Interface
}

// IsSupertypeOf reports whether every value of other is also a value of t:
// the types are identical, or t is an interface that other implements.
func (t Token) IsSupertypeOf(other Token) bool {
	if t.rt == nil || other.rt == nil {
		return false
	}

	if t.rt == other.rt {
		return true
	}

	if !t.IsInterface() {
		return false
	}

	return other.rt.Implements(t.rt)
}

// IsSubtypeOf is the mirror of IsSupertypeOf.
func (t Token) IsSubtypeOf(other Token) bool {
	return other.IsSupertypeOf(t)
}

// Related reports whether either token is a supertype of the other.
func (t Token) Related(other Token) bool {
	return t.IsSupertypeOf(other) || other.IsSupertypeOf(t)
}

// Accepts reports whether the runtime value v is an instance of t.
func (t Token) Accepts(v any) bool {
	if v == nil {
		return false
	}

	return t.IsSupertypeOf(TypeOf(v))
}

// String returns the Go spelling of the type.
func (t Token) String() string {
	if t.rt == nil {
		return "<invalid>"
	}

	if t.IsAny() {
		return "any"
	}

	return t.rt.String()
}

// Pair is an ordered pair of tokens, used as a memo key by the registries.
type Pair struct {
	First  Token
	Second Token
}

// PairOf builds a Pair.
func PairOf(first, second Token) Pair {
	return Pair{First: first, Second: second}
}

// Swapped returns the pair with its members exchanged.
func (p Pair) Swapped() Pair {
	return Pair{First: p.Second, Second: p.First}
}

// String renders the pair as "first -> second".
func (p Pair) String() string {
	return p.First.String() + " -> " + p.Second.String()
}
