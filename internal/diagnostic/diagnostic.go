// Diagnostic reporting for registration, lifecycle and conversion errors.
// Renders engine errors as localized, human-readable messages.

package diagnostic

import (
	stderrors "errors"
	"fmt"
	"sort"
	"strings"

	"github.com/orizon-lang/typeconv/internal/errors"
)

// DiagnosticLevel represents the severity level of a diagnostic message.
type DiagnosticLevel int

const (
	DiagnosticError DiagnosticLevel = iota
	DiagnosticWarning
	DiagnosticInfo
)

func (dl DiagnosticLevel) String() string {
	switch dl {
	case DiagnosticError:
		return "error"
	case DiagnosticWarning:
		return "warning"
	case DiagnosticInfo:
		return "info"
	default:
		return "unknown"
	}
}

// Diagnostic represents a single diagnostic message.
// Title and Message are looked up by Code at render time; Args fills the message.
type Diagnostic struct {
	Code        string
	Detail      string
	Args        map[string]interface{}
	Suggestions []string
	Category    errors.ErrorCategory
	Level       DiagnosticLevel
}

// DiagnosticBuilder helps construct diagnostic messages with fluent API.
type DiagnosticBuilder struct {
	diagnostic *Diagnostic
}

// NewDiagnostic creates a new diagnostic builder.
func NewDiagnostic() *DiagnosticBuilder {
	return &DiagnosticBuilder{
		diagnostic: &Diagnostic{
			Args:        make(map[string]interface{}),
			Suggestions: make([]string, 0),
		},
	}
}

func (db *DiagnosticBuilder) Error() *DiagnosticBuilder {
	db.diagnostic.Level = DiagnosticError

	return db
}

func (db *DiagnosticBuilder) Warning() *DiagnosticBuilder {
	db.diagnostic.Level = DiagnosticWarning

	return db
}

func (db *DiagnosticBuilder) Category(category errors.ErrorCategory) *DiagnosticBuilder {
	db.diagnostic.Category = category

	return db
}

func (db *DiagnosticBuilder) Code(code string) *DiagnosticBuilder {
	db.diagnostic.Code = code

	return db
}

// Detail sets the message used when the code has no catalog entry.
func (db *DiagnosticBuilder) Detail(detail string) *DiagnosticBuilder {
	db.diagnostic.Detail = detail

	return db
}

func (db *DiagnosticBuilder) Arg(key string, value interface{}) *DiagnosticBuilder {
	db.diagnostic.Args[key] = value

	return db
}

func (db *DiagnosticBuilder) Suggest(key string) *DiagnosticBuilder {
	db.diagnostic.Suggestions = append(db.diagnostic.Suggestions, key)

	return db
}

func (db *DiagnosticBuilder) Build() *Diagnostic {
	return db.diagnostic
}

// FromError builds a diagnostic from an engine error. Errors that are not
// *errors.StandardError keep their text as the detail.
func FromError(err error) *Diagnostic {
	var std *errors.StandardError
	if !stderrors.As(err, &std) {
		return NewDiagnostic().Error().Code("UNKNOWN").Detail(err.Error()).Build()
	}

	db := NewDiagnostic().Error().Category(std.Category).Code(std.Code).Detail(std.Message)
	for k, v := range std.Context {
		db.Arg(k, v)
	}

	switch std.Code {
	case errors.CodeDuplicateRule, errors.CodeDuplicateAddon:
		db.Suggest(hintSingleOwner)
	case errors.CodeRegistryClosed:
		db.Suggest(hintRegisterEarly)
	case errors.CodeRegistryOpen:
		db.Suggest(hintCloseFirst)
	case errors.CodeCannotConvert:
		db.Suggest(hintRegisterConversion)
	case errors.CodeIncompatible:
		db.Suggest(hintUpgrade)
	}

	return db.Build()
}

// DiagnosticConfig controls diagnostic behavior.
type DiagnosticConfig struct {
	IgnoreCodes      []string
	MaxErrors        int
	WarningsAsErrors bool
	ShowSuggestions  bool
}

// Collector gathers diagnostics for a single report.
type Collector struct {
	diagnostics []Diagnostic
	config      DiagnosticConfig
}

// NewCollector creates a new diagnostic collector.
func NewCollector(config DiagnosticConfig) *Collector {
	return &Collector{
		diagnostics: make([]Diagnostic, 0),
		config:      config,
	}
}

// Add adds a diagnostic to the collector.
func (c *Collector) Add(diagnostic *Diagnostic) {
	if c.shouldIgnore(diagnostic) {
		return
	}

	if c.config.WarningsAsErrors && diagnostic.Level == DiagnosticWarning {
		diagnostic.Level = DiagnosticError
	}

	c.diagnostics = append(c.diagnostics, *diagnostic)
}

// AddError adds the diagnostic for err. Nil errors are ignored.
func (c *Collector) AddError(err error) {
	if err != nil {
		c.Add(FromError(err))
	}
}

func (c *Collector) shouldIgnore(diagnostic *Diagnostic) bool {
	for _, code := range c.config.IgnoreCodes {
		if diagnostic.Code == code {
			return true
		}
	}

	// Stop adding errors once the limit is reached.
	if c.config.MaxErrors > 0 && diagnostic.Level == DiagnosticError && len(c.Errors()) >= c.config.MaxErrors {
		return true
	}

	return false
}

// Diagnostics returns all diagnostics.
func (c *Collector) Diagnostics() []Diagnostic {
	return c.diagnostics
}

// Errors returns only error-level diagnostics.
func (c *Collector) Errors() []Diagnostic {
	return c.byLevel(DiagnosticError)
}

// Warnings returns only warning-level diagnostics.
func (c *Collector) Warnings() []Diagnostic {
	return c.byLevel(DiagnosticWarning)
}

func (c *Collector) byLevel(level DiagnosticLevel) []Diagnostic {
	out := make([]Diagnostic, 0)

	for _, diag := range c.diagnostics {
		if diag.Level == level {
			out = append(out, diag)
		}
	}

	return out
}

// HasErrors returns true if there are any errors.
func (c *Collector) HasErrors() bool {
	return len(c.Errors()) > 0
}

// Clear removes all diagnostics.
func (c *Collector) Clear() {
	c.diagnostics = c.diagnostics[:0]
}

// Sort orders diagnostics by severity, then by code.
func (c *Collector) Sort() {
	sort.SliceStable(c.diagnostics, func(i, j int) bool {
		a, b := c.diagnostics[i], c.diagnostics[j]
		if a.Level != b.Level {
			return a.Level < b.Level
		}

		return a.Code < b.Code
	})
}

// Format renders all diagnostics and a summary line with p.
func (c *Collector) Format(p *Printer) string {
	if len(c.diagnostics) == 0 {
		return p.Summary(0, 0)
	}

	c.Sort()

	var result strings.Builder

	for i := range c.diagnostics {
		if i > 0 {
			result.WriteString("\n")
		}

		result.WriteString(p.Format(&c.diagnostics[i], c.config.ShowSuggestions))
	}

	result.WriteString("\n")
	result.WriteString(p.Summary(len(c.Errors()), len(c.Warnings())))

	return result.String()
}

func argString(args map[string]interface{}, key string) string {
	v, ok := args[key]
	if !ok {
		return "?"
	}

	return fmt.Sprint(v)
}
