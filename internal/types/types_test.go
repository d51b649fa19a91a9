package types

import (
	"errors"
	"fmt"
	"io"
	"os"
	"testing"
)

type celsius float64

func (c celsius) String() string { return fmt.Sprintf("%.1fC", float64(c)) }

func TestTokenSubtyping(t *testing.T) {
	tests := []struct {
		name  string
		super Token
		sub   Token
		want  bool
	}{
		{"identical concrete", TypeInt, TypeInt, true},
		{"unrelated concrete", TypeInt, TypeInt64, false},
		{"any accepts concrete", Any, TypeString, true},
		{"any accepts interface", Any, TypeError, true},
		{"concrete is not supertype of any", TypeString, Any, false},
		{"interface implemented", TypeStringer, Of[celsius](), true},
		{"interface not implemented", TypeStringer, TypeFloat64, false},
		{"interface embeds interface", Of[io.Reader](), Of[io.ReadWriter](), true},
		{"narrower interface is not supertype", Of[io.ReadWriter](), Of[io.Reader](), false},
		{"pointer implements interface", Of[io.Reader](), Of[*os.File](), true},
		{"invalid never matches", Token{}, TypeInt, false},
		{"invalid is never matched", Any, Token{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.super.IsSupertypeOf(tt.sub); got != tt.want {
				t.Errorf("%s.IsSupertypeOf(%s) = %v, want %v", tt.super, tt.sub, got, tt.want)
			}

			if got := tt.sub.IsSubtypeOf(tt.super); got != tt.want {
				t.Errorf("%s.IsSubtypeOf(%s) = %v, want %v", tt.sub, tt.super, got, tt.want)
			}
		})
	}
}

func TestTypeOf(t *testing.T) {
	if TypeOf(nil).IsValid() {
		t.Error("Expected nil value to yield the invalid token")
	}

	if got := TypeOf(5); got != TypeInt {
		t.Errorf("Expected int token, got %s", got)
	}

	var err error = errors.New("boom")
	if got := TypeOf(err); got == TypeError {
		t.Error("Dynamic type of an error value should be its concrete type")
	}

	if !TypeError.Accepts(err) {
		t.Error("error token should accept an error value")
	}

	if Any.Accepts(nil) {
		t.Error("No token accepts nil")
	}

	if !TypeError.IsInterface() || !Any.IsInterface() || TypeInt.IsInterface() {
		t.Error("Expected only interface tokens to report IsInterface")
	}
}

func TestTokenString(t *testing.T) {
	if Any.String() != "any" {
		t.Errorf("Expected any, got %s", Any.String())
	}

	if (Token{}).String() != "<invalid>" {
		t.Errorf("Expected <invalid>, got %s", Token{}.String())
	}

	if got := PairOf(TypeInt, TypeString).String(); got != "int -> string" {
		t.Errorf("Expected int -> string, got %s", got)
	}

	if got := PairOf(TypeInt, TypeString).Swapped(); got.First != TypeString || got.Second != TypeInt {
		t.Errorf("Swapped pair is wrong: %s", got)
	}
}

func TestRegistry(t *testing.T) {
	registry := NewRegistry()

	if token, ok := registry.Lookup("Float64"); !ok || token != TypeFloat64 {
		t.Errorf("Expected float64 lookup to succeed, got %v %v", token, ok)
	}

	if _, err := registry.MustLookup("celsius"); err == nil {
		t.Error("Expected unknown type error")
	}

	registry.Register("celsius", Of[celsius]())

	if token, err := registry.MustLookup(" celsius "); err != nil || token != Of[celsius]() {
		t.Errorf("Expected registered celsius token, got %v %v", token, err)
	}

	names := registry.Names()
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Fatalf("Names not sorted: %v", names)
		}
	}
}
