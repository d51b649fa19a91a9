package config

import (
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TYPECONV_DEBUG", "")
	t.Setenv("TYPECONV_MAX_CLOSURE_PASSES", "")
	t.Setenv("TYPECONV_OTEL_ENABLED", "")
	t.Setenv("TYPECONV_OTEL_ENDPOINT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg != Default() {
		t.Errorf("Expected defaults %+v, got %+v", Default(), cfg)
	}

	if cfg.TracingEnabled() {
		t.Error("Tracing must be off without an endpoint")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("TYPECONV_DEBUG", "true")
	t.Setenv("TYPECONV_MAX_CLOSURE_PASSES", "3")
	t.Setenv("TYPECONV_OTEL_ENDPOINT", "http://localhost:4318")
	t.Setenv("TYPECONV_OTEL_ENABLED", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if !cfg.Debug || cfg.MaxClosurePasses != 3 || !cfg.TracingEnabled() {
		t.Errorf("Unexpected config %+v", cfg)
	}

	t.Setenv("TYPECONV_OTEL_ENABLED", "false")

	cfg, err = Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.TracingEnabled() {
		t.Error("Tracing must honour TYPECONV_OTEL_ENABLED=false")
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Setenv("TYPECONV_MAX_CLOSURE_PASSES", "-1")

	if _, err := Load(); err == nil {
		t.Error("Expected negative pass bound to be rejected")
	}

	t.Setenv("TYPECONV_MAX_CLOSURE_PASSES", "many")

	if _, err := Load(); err == nil {
		t.Error("Expected parse error")
	}
}
