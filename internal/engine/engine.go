// Package engine owns the conversion and comparison registries of one
// embedding system and switches them from registration to queries together.
package engine

import (
	"context"
	"io"
	"log"

	"github.com/Masterminds/semver/v3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/orizon-lang/typeconv/internal/addon"
	"github.com/orizon-lang/typeconv/internal/compare"
	"github.com/orizon-lang/typeconv/internal/config"
	"github.com/orizon-lang/typeconv/internal/convert"
	"github.com/orizon-lang/typeconv/internal/errors"
	"github.com/orizon-lang/typeconv/internal/relation"
	"github.com/orizon-lang/typeconv/internal/types"
)

// APIVersion is the rule registration API version addons are checked against.
const APIVersion = "1.0.0"

const tracerName = "github.com/orizon-lang/typeconv/internal/engine"

// Engine holds both registries behind a single OPEN -> CLOSED switch.
type Engine struct {
	conversions *convert.Registry
	comparisons *compare.Registry
	addons      *addon.Set
	api         *semver.Version

	logger *log.Logger
	tracer trace.Tracer
}

type options struct {
	logger   *log.Logger
	provider trace.TracerProvider
	cfg      config.Config
}

// Option configures an Engine.
type Option func(*options)

// WithLogger sets the engine logger. The default discards output.
func WithLogger(logger *log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithTracerProvider sets the provider for engine spans. The default is the
// global provider.
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(o *options) {
		o.provider = provider
	}
}

// WithConfig applies environment settings.
func WithConfig(cfg config.Config) Option {
	return func(o *options) {
		o.cfg = cfg
	}
}

// New creates an open engine.
func New(opts ...Option) *Engine {
	o := options{cfg: config.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	if o.logger == nil {
		o.logger = log.New(io.Discard, "", 0)
	}

	if o.provider == nil {
		o.provider = otel.GetTracerProvider()
	}

	conversions := convert.NewRegistry(
		convert.WithLogger(o.logger),
		convert.WithDebug(o.cfg.Debug),
		convert.WithMaxPasses(o.cfg.MaxClosurePasses),
	)

	return &Engine{
		conversions: conversions,
		comparisons: compare.NewRegistry(conversions),
		addons:      addon.NewSet(),
		api:         semver.MustParse(APIVersion),
		logger:      o.logger,
		tracer:      o.provider.Tracer(tracerName),
	}
}

// Conversions returns the conversion registry.
func (e *Engine) Conversions() *convert.Registry {
	return e.conversions
}

// Comparisons returns the comparison registry.
func (e *Engine) Comparisons() *compare.Registry {
	return e.comparisons
}

// API returns the engine API version.
func (e *Engine) API() *semver.Version {
	return e.api
}

// IsClosed reports whether the engine serves queries.
func (e *Engine) IsClosed() bool {
	return e.comparisons.IsClosed()
}

// Close ends registration, building the conversion closure. Idempotent.
func (e *Engine) Close(ctx context.Context) {
	if e.IsClosed() {
		return
	}

	_, span := e.tracer.Start(ctx, "typeconv.Close")
	defer span.End()

	e.comparisons.Close()

	stats := e.conversions.Stats()
	span.SetAttributes(
		attribute.Int("typeconv.conversions.registered", stats.Registered),
		attribute.Int("typeconv.conversions.synthesized", stats.Synthesized),
		attribute.Int("typeconv.conversions.passes", stats.Passes),
		attribute.Bool("typeconv.conversions.truncated", stats.Truncated),
		attribute.Int("typeconv.comparisons.registered", len(e.comparisons.Rules())),
		attribute.Int("typeconv.addons", len(e.addons.List())),
	)

	e.logger.Printf("engine closed: %d conversion rules (%d synthesized), %d comparison rules, %d addons",
		stats.Registered+stats.Synthesized, stats.Synthesized, len(e.comparisons.Rules()), len(e.addons.List()))
}

// ====== Build-time API ======

// RegisterConversion adds an exact conversion rule.
func (e *Engine) RegisterConversion(from, to types.Token, fn convert.Converter, flags convert.Flags, opts ...convert.RuleOption) error {
	return e.conversions.RegisterConverter(from, to, fn, flags, opts...)
}

// RegisterComparison adds an exact comparison rule.
func (e *Engine) RegisterComparison(first, second types.Token, fn compare.Comparator, opts ...compare.RuleOption) error {
	return e.comparisons.RegisterComparator(first, second, fn, opts...)
}

// Attach admits an addon whose API requirement the engine satisfies and
// returns a registrar stamping the addon as origin of its rules.
func (e *Engine) Attach(a *addon.Addon) (*Registrar, error) {
	if e.IsClosed() {
		return nil, errors.RegistryClosed("addon")
	}

	if err := e.addons.Add(a, e.api); err != nil {
		return nil, err
	}

	e.logger.Printf("attached addon %s", a)

	return &Registrar{engine: e, origin: a.String()}, nil
}

// Addons lists the attached addons by name.
func (e *Engine) Addons() []*addon.Addon {
	return e.addons.List()
}

// ====== Query API ======

// ResolveConversion returns the rule converting from -> to, or nil.
func (e *Engine) ResolveConversion(from, to types.Token) *convert.Rule {
	return e.conversions.Resolve(from, to)
}

// Convert converts value to the type to.
func (e *Engine) Convert(value any, to types.Token) (any, bool) {
	return e.conversions.Convert(value, to)
}

// ConvertArray converts each value, dropping the failures.
func (e *Engine) ConvertArray(values []any, to types.Token) []any {
	return e.conversions.ConvertArray(values, to)
}

// ConvertStrictly converts value or returns a *errors.ConversionError.
func (e *Engine) ConvertStrictly(value any, to types.Token) (any, error) {
	return e.conversions.ConvertStrictly(value, to)
}

// ResolveComparison returns the rule comparing first with second, or nil.
func (e *Engine) ResolveComparison(first, second types.Token) *compare.Rule {
	return e.comparisons.Resolve(first, second)
}

// Compare returns the relation between a and b.
func (e *Engine) Compare(a, b any) relation.Relation {
	return e.comparisons.Compare(a, b)
}

// Check reports whether a rel b holds.
func (e *Engine) Check(a any, rel relation.Relation, b any) bool {
	return e.comparisons.Check(a, rel, b)
}
