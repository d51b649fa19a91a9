package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/orizon-lang/typeconv/internal/cli"
	"github.com/orizon-lang/typeconv/internal/config"
	"github.com/orizon-lang/typeconv/internal/diagnostic"
	"github.com/orizon-lang/typeconv/internal/engine"
	"github.com/orizon-lang/typeconv/internal/stdrules"
	"github.com/orizon-lang/typeconv/internal/telemetry"
	"github.com/orizon-lang/typeconv/internal/types"
)

// typeconv: query the standard conversion and comparison rules.
// Flags:
//
//	-resolve from:to   print the conversion rule for a pair of type names.
//	-convert value     convert value (read as -from) to -to.
//	-compare a,b       compare two values read as the types in -types.
//	-rules             list every conversion and comparison rule.
//	-list-types        list the known type names.
//	-version           print version and attached addons (-json for JSON).
//	-lang tag          language for diagnostics (en, de).
//	-v                 log engine activity to stderr.
func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	resolve   string
	convert   string
	from      string
	to        string
	compare   string
	types     string
	rules     bool
	listTypes bool
	version   bool
	json      bool
	lang      string
	verbose   bool
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options

	fs := flag.NewFlagSet("typeconv", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.resolve, "resolve", "", "print the conversion rule for from:to")
	fs.StringVar(&o.convert, "convert", "", "value to convert")
	fs.StringVar(&o.from, "from", "string", "type the -convert value is read as")
	fs.StringVar(&o.to, "to", "string", "type to convert to")
	fs.StringVar(&o.compare, "compare", "", "two comma-separated values to compare")
	fs.StringVar(&o.types, "types", "string,string", "comma-separated types of the -compare values")
	fs.BoolVar(&o.rules, "rules", false, "list all rules")
	fs.BoolVar(&o.listTypes, "list-types", false, "list known type names")
	fs.BoolVar(&o.version, "version", false, "print version information")
	fs.BoolVar(&o.json, "json", false, "print -version as JSON")
	fs.StringVar(&o.lang, "lang", "en", "language for diagnostics")
	fs.BoolVar(&o.verbose, "v", false, "log engine activity")

	if err := fs.Parse(args); err != nil {
		return o, err
	}

	return o, nil
}

func run(args []string, stdout, stderr io.Writer) int {
	o, err := parseFlags(args, stderr)
	if err != nil {
		return 2
	}

	printer, err := diagnostic.NewPrinter(o.lang)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	report := diagnostic.NewCollector(diagnostic.DiagnosticConfig{ShowSuggestions: true})

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	ctx := context.Background()

	shutdown, err := telemetry.Setup(ctx, cfg, "typeconv")
	if err != nil {
		fmt.Fprintln(stderr, "telemetry:", err)
		return 1
	}
	defer func() { _ = shutdown(ctx) }()

	logOut := io.Discard
	if o.verbose || cfg.Debug {
		logOut = stderr
	}

	e := engine.New(engine.WithConfig(cfg), engine.WithLogger(log.New(logOut, "typeconv: ", 0)))
	if err := stdrules.Install(e); err != nil {
		report.AddError(err)
		fmt.Fprintln(stderr, report.Format(printer))
		return 1
	}

	e.Close(ctx)

	names := types.NewRegistry()
	names.Register("semver", types.Of[*semver.Version]())

	q := &query{engine: e, names: names, out: stdout, report: report}

	switch {
	case o.version:
		var addons []string
		for _, a := range e.Addons() {
			addons = append(addons, a.String())
		}

		if err := cli.WriteVersion(stdout, "typeconv", cli.NewVersionInfo(e.API().String(), addons), o.json); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
	case o.listTypes:
		q.listTypes()
	case o.rules:
		q.listRules()
	case o.resolve != "":
		q.resolve(o.resolve)
	case o.convert != "":
		q.convert(o.convert, o.from, o.to)
	case o.compare != "":
		q.compare(o.compare, o.types)
	default:
		fmt.Fprintln(stderr, "one of -resolve, -convert, -compare, -rules, -list-types or -version is required")
		return 2
	}

	if report.HasErrors() {
		fmt.Fprintln(stderr, report.Format(printer))
		return 1
	}

	return 0
}

type query struct {
	engine *engine.Engine
	names  *types.Registry
	out    io.Writer
	report *diagnostic.Collector
}

func (q *query) lookup(name string) (types.Token, bool) {
	token, err := q.names.MustLookup(strings.TrimSpace(name))
	if err != nil {
		q.report.AddError(err)
		return types.Token{}, false
	}

	return token, true
}

// read converts the command line text s to the named type.
func (q *query) read(s, typeName string) (any, bool) {
	token, ok := q.lookup(typeName)
	if !ok {
		return nil, false
	}

	v, err := q.engine.ConvertStrictly(s, token)
	if err != nil {
		q.report.AddError(err)
		return nil, false
	}

	return v, true
}

func (q *query) listTypes() {
	for _, name := range q.names.Names() {
		token, _ := q.names.Lookup(name)
		fmt.Fprintf(q.out, "%-10s %s\n", name, token)
	}
}

func (q *query) listRules() {
	fmt.Fprintln(q.out, "conversions:")

	for _, rule := range q.engine.Conversions().Rules() {
		fmt.Fprintf(q.out, "  %s [%s] %s\n", rule, rule.Flags, rule.Origin)
	}

	fmt.Fprintln(q.out, "comparisons:")

	for _, rule := range q.engine.Comparisons().Rules() {
		fmt.Fprintf(q.out, "  %s %s\n", rule, rule.Origin)
	}

	stats := q.engine.Conversions().Stats()
	fmt.Fprintf(q.out, "%d registered, %d synthesized in %d passes\n", stats.Registered, stats.Synthesized, stats.Passes)
}

func (q *query) resolve(pair string) {
	from, to, found := strings.Cut(pair, ":")
	if !found {
		q.report.AddError(fmt.Errorf("-resolve expects from:to, got %q", pair))
		return
	}

	fromType, ok := q.lookup(from)
	if !ok {
		return
	}

	toType, ok := q.lookup(to)
	if !ok {
		return
	}

	rule := q.engine.ResolveConversion(fromType, toType)
	if rule == nil {
		fmt.Fprintf(q.out, "no conversion from %s to %s\n", fromType, toType)
		return
	}

	fmt.Fprintln(q.out, rule)
}

func (q *query) convert(value, from, to string) {
	v, ok := q.read(value, from)
	if !ok {
		return
	}

	toType, ok := q.lookup(to)
	if !ok {
		return
	}

	out, err := q.engine.ConvertStrictly(v, toType)
	if err != nil {
		q.report.AddError(err)
		return
	}

	fmt.Fprintf(q.out, "%v\n", out)
}

func (q *query) compare(values, typeNames string) {
	left, right, found := strings.Cut(values, ",")
	if !found {
		q.report.AddError(fmt.Errorf("-compare expects a,b, got %q", values))
		return
	}

	leftType, rightType, found := strings.Cut(typeNames, ",")
	if !found {
		q.report.AddError(fmt.Errorf("-types expects t1,t2, got %q", typeNames))
		return
	}

	a, ok := q.read(strings.TrimSpace(left), leftType)
	if !ok {
		return
	}

	b, ok := q.read(strings.TrimSpace(right), rightType)
	if !ok {
		return
	}

	rel := q.engine.Compare(a, b)
	fmt.Fprintf(q.out, "%v %s %v (%s)\n", a, rel.Symbol(), b, rel)
}
