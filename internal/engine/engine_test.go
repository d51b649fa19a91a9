package engine

import (
	"bytes"
	"context"
	stderrors "errors"
	"log"
	"strconv"
	"strings"
	"testing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/orizon-lang/typeconv/internal/addon"
	"github.com/orizon-lang/typeconv/internal/compare"
	"github.com/orizon-lang/typeconv/internal/config"
	"github.com/orizon-lang/typeconv/internal/convert"
	"github.com/orizon-lang/typeconv/internal/errors"
	"github.com/orizon-lang/typeconv/internal/relation"
	"github.com/orizon-lang/typeconv/internal/types"
)

type customX struct{ name string }

type unrelated struct{}

func attach(t *testing.T, e *Engine, name string) *Registrar {
	t.Helper()

	reg, err := e.Attach(addon.MustNew(name, "1.0.0", "^1"))
	if err != nil {
		t.Fatalf("Attach(%s): %v", name, err)
	}

	return reg
}

func numericEngine(t *testing.T) *Engine {
	t.Helper()

	e := New()
	reg := attach(t, e, "numbers")

	steps := []error{
		Conversion(reg, convert.Always(strconv.Itoa), convert.ChainAll),
		Conversion(reg, convert.Always(func(i int) int64 { return int64(i) }), convert.ChainAll),
		Conversion(reg, convert.Always(func(i int64) float64 { return float64(i) }), convert.ChainAll),
		Comparison(reg, func(a, b int) relation.Relation {
			return relation.FromInt(a - b)
		}, compare.WithOrdering()),
	}

	for _, err := range steps {
		if err != nil {
			t.Fatalf("register: %v", err)
		}
	}

	e.Close(context.Background())

	return e
}

func TestScenarios(t *testing.T) {
	e := numericEngine(t)

	t.Run("stringify", func(t *testing.T) {
		if e.ResolveConversion(types.TypeInt, types.TypeString) == nil {
			t.Fatal("Expected int -> string")
		}

		if out, ok := e.Convert(5, types.TypeString); !ok || out != "5" {
			t.Errorf("Expected \"5\", got %v", out)
		}
	})

	t.Run("chained", func(t *testing.T) {
		rule := e.ResolveConversion(types.TypeInt, types.TypeFloat64)
		if rule == nil || rule.Kind != convert.KindChained {
			t.Fatalf("Expected chained conversion, got %v", rule)
		}

		if out, ok := e.Convert(5, types.TypeFloat64); !ok || out != 5.0 {
			t.Errorf("Expected 5.0, got %v", out)
		}
	})

	t.Run("ordering", func(t *testing.T) {
		want := map[[2]int]relation.Relation{
			{3, 5}: relation.Smaller,
			{5, 5}: relation.Equal,
			{5, 3}: relation.Greater,
		}

		for p, rel := range want {
			if got := e.Compare(p[0], p[1]); got != rel {
				t.Errorf("Compare(%d, %d) = %s, want %s", p[0], p[1], got, rel)
			}
		}

		if rule := e.ResolveComparison(types.TypeInt, types.TypeInt); rule.Kind != compare.KindExact {
			t.Errorf("Expected the exact rule without inversion, got %s", rule)
		}
	})

	t.Run("unrelated", func(t *testing.T) {
		if got := e.Compare("s", customX{name: "x"}); got != relation.NotEqual {
			t.Errorf("Expected NotEqual, got %s", got)
		}

		if e.ResolveConversion(types.TypeString, types.Of[customX]()) != nil {
			t.Error("Expected no conversion")
		}
	})

	t.Run("strict", func(t *testing.T) {
		_, err := e.ConvertStrictly(5, types.Of[unrelated]())

		var convErr *errors.ConversionError
		if !stderrors.As(err, &convErr) {
			t.Fatalf("Expected ConversionError, got %v", err)
		}

		if convErr.Value != 5 || convErr.To != types.Of[unrelated]() {
			t.Errorf("Unexpected payload %+v", convErr)
		}
	})

	t.Run("array", func(t *testing.T) {
		out := e.ConvertArray([]any{1, "x", 2}, types.TypeFloat64)
		if len(out) != 2 || out[0] != 1.0 || out[1] != 2.0 {
			t.Errorf("Expected [1 2], got %v", out)
		}
	})

	t.Run("check", func(t *testing.T) {
		if !e.Check(7, relation.GreaterOrEqual, 3) {
			t.Error("Expected 7 >= 3")
		}
	})
}

func TestDuplicateRegistrationKeepsOriginal(t *testing.T) {
	e := New()
	core := attach(t, e, "core")
	other := attach(t, e, "other")

	if err := Conversion(core, convert.Always(strconv.Itoa), convert.ChainAll); err != nil {
		t.Fatalf("register: %v", err)
	}

	err := Conversion(other, convert.Always(func(i int) string { return "other" }), convert.ChainAll)
	if !stderrors.Is(err, errors.ErrDuplicateRule) {
		t.Fatalf("Expected duplicate rule error, got %v", err)
	}

	var std *errors.StandardError
	if !stderrors.As(err, &std) || std.Context["existing"] != "core@1.0.0" || std.Context["incoming"] != "other@1.0.0" {
		t.Errorf("Expected both origins in the error context, got %v", std)
	}

	e.Close(context.Background())

	rule := e.ResolveConversion(types.TypeInt, types.TypeString)
	if rule.Origin != "core@1.0.0" {
		t.Errorf("Expected the core rule to remain, got origin %q", rule.Origin)
	}

	if out, _ := e.Convert(9, types.TypeString); out != "9" {
		t.Errorf("Expected \"9\", got %v", out)
	}
}

func TestLifecycle(t *testing.T) {
	e := New()

	func() {
		defer func() {
			rec := recover()
			err, ok := rec.(error)
			if !ok || !stderrors.Is(err, errors.ErrRegistryOpen) {
				t.Errorf("Expected lifecycle panic, got %v", rec)
			}
		}()

		e.Convert(1, types.TypeString)
	}()

	func() {
		defer func() {
			if rec := recover(); rec == nil {
				t.Error("Expected compare before close to panic")
			}
		}()

		e.Compare(1, 2)
	}()

	e.Close(context.Background())
	e.Close(context.Background())

	if err := e.RegisterConversion(types.TypeInt, types.TypeString, convert.Func(func(v any) (any, bool) { return "", true }), convert.ChainAll); !stderrors.Is(err, errors.ErrRegistryClosed) {
		t.Errorf("Expected closed error for conversions, got %v", err)
	}

	if err := e.RegisterComparison(types.TypeInt, types.TypeInt, compare.Func(func(a, b any) relation.Relation { return relation.Equal })); !stderrors.Is(err, errors.ErrRegistryClosed) {
		t.Errorf("Expected closed error for comparisons, got %v", err)
	}

	if _, err := e.Attach(addon.MustNew("late", "1.0.0", "")); !stderrors.Is(err, errors.ErrRegistryClosed) {
		t.Errorf("Expected closed error for addons, got %v", err)
	}
}

func TestAttachChecksAPIVersion(t *testing.T) {
	e := New()

	if _, err := e.Attach(addon.MustNew("future", "0.1.0", "^2")); !stderrors.Is(err, errors.ErrIncompatible) {
		t.Errorf("Expected incompatible addon, got %v", err)
	}

	if _, err := e.Attach(addon.MustNew("units", "0.1.0", ">=1.0.0")); err != nil {
		t.Fatalf("Attach: %v", err)
	}

	if _, err := e.Attach(addon.MustNew("units", "0.2.0", "")); !stderrors.Is(err, errors.ErrDuplicateAddon) {
		t.Errorf("Expected duplicate addon, got %v", err)
	}

	if addons := e.Addons(); len(addons) != 1 || addons[0].Name != "units" {
		t.Errorf("Unexpected addons %v", addons)
	}

	if e.API().String() != APIVersion {
		t.Errorf("Expected API %s, got %s", APIVersion, e.API())
	}
}

func TestCloseIsTraced(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	e := New(WithTracerProvider(provider))
	reg := attach(t, e, "numbers")

	if err := Conversion(reg, convert.Always(func(i int) int64 { return int64(i) }), convert.ChainAll); err != nil {
		t.Fatal(err)
	}

	if err := Conversion(reg, convert.Always(func(i int64) float64 { return float64(i) }), convert.ChainAll); err != nil {
		t.Fatal(err)
	}

	e.Close(context.Background())
	e.Close(context.Background())

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("Expected one span, got %d", len(spans))
	}

	if spans[0].Name() != "typeconv.Close" {
		t.Errorf("Unexpected span name %q", spans[0].Name())
	}

	attrs := map[string]int64{}
	for _, kv := range spans[0].Attributes() {
		attrs[string(kv.Key)] = kv.Value.AsInt64()
	}

	if attrs["typeconv.conversions.registered"] != 2 || attrs["typeconv.conversions.synthesized"] != 1 {
		t.Errorf("Unexpected span attributes %v", attrs)
	}
}

func TestLoggingAndConfig(t *testing.T) {
	var buf bytes.Buffer

	cfg := config.Default()
	cfg.Debug = true

	e := New(WithLogger(log.New(&buf, "", 0)), WithConfig(cfg))
	reg := attach(t, e, "numbers")

	if err := Conversion(reg, convert.Always(func(i int) int64 { return int64(i) }), convert.ChainAll); err != nil {
		t.Fatal(err)
	}

	if err := Conversion(reg, convert.Always(func(i int64) float64 { return float64(i) }), convert.ChainAll); err != nil {
		t.Fatal(err)
	}

	e.Close(context.Background())

	out := buf.String()
	for _, want := range []string{"attached addon numbers@1.0.0", "synthesized int -> float64", "engine closed"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected log to contain %q, got:\n%s", want, out)
		}
	}
}
