package diagnostic

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"github.com/orizon-lang/typeconv/internal/errors"
)

// Message keys. The English text doubles as the key.
const (
	titleDuplicateRule  = "duplicate rule"
	titleForbiddenRule  = "forbidden rule"
	titleRegistryClosed = "registry closed"
	titleRegistryOpen   = "registry still open"
	titleCannotConvert  = "cannot convert"
	titleIncompatible   = "incompatible addon"
	titleDuplicateAddon = "duplicate addon"
	titleUnknown        = "unexpected error"

	msgDuplicateRule  = "%[1]s rule for %[2]s is already registered by %[3]s"
	msgForbiddenRule  = "%[1]s rule for %[2]s is not allowed: %[3]s"
	msgRegistryClosed = "the %[1]s registry no longer accepts rules"
	msgRegistryOpen   = "cannot %[1]s before the %[2]s registry is closed"
	msgCannotConvert  = "no conversion from %[1]s to %[2]s applies to %[3]s"
	msgIncompatible   = "%[1]s requires engine API %[2]s, have %[3]s"
	msgDuplicateAddon = "%[1]s is already attached as %[2]s"

	hintSingleOwner        = "register each rule from a single addon"
	hintRegisterEarly      = "register rules before closing the engine"
	hintCloseFirst         = "close the engine before running queries"
	hintRegisterConversion = "register a conversion rule for these types"
	hintUpgrade            = "use an addon release built for this engine API"

	labelHint    = "hint"
	labelSummary = "%[1]d error(s), %[2]d warning(s)"
	labelClean   = "no issues found"
)

var supported = []language.Tag{language.English, language.German}

var matcher = language.NewMatcher(supported)

var translations = map[language.Tag]map[string]string{
	language.German: {
		titleDuplicateRule:  "doppelte Regel",
		titleForbiddenRule:  "unzulässige Regel",
		titleRegistryClosed: "Registry geschlossen",
		titleRegistryOpen:   "Registry noch offen",
		titleCannotConvert:  "Konvertierung nicht möglich",
		titleIncompatible:   "inkompatibles Addon",
		titleDuplicateAddon: "doppeltes Addon",
		titleUnknown:        "unerwarteter Fehler",

		msgDuplicateRule:  "%[1]s-Regel für %[2]s ist bereits von %[3]s registriert",
		msgForbiddenRule:  "%[1]s-Regel für %[2]s ist nicht erlaubt: %[3]s",
		msgRegistryClosed: "die %[1]s-Registry nimmt keine Regeln mehr an",
		msgRegistryOpen:   "%[1]s ist erst möglich, wenn die %[2]s-Registry geschlossen ist",
		msgCannotConvert:  "keine Konvertierung von %[1]s nach %[2]s passt auf %[3]s",
		msgIncompatible:   "%[1]s benötigt Engine-API %[2]s, vorhanden ist %[3]s",
		msgDuplicateAddon: "%[1]s ist bereits als %[2]s eingebunden",

		hintSingleOwner:        "jede Regel nur aus einem Addon registrieren",
		hintRegisterEarly:      "Regeln vor dem Schließen der Engine registrieren",
		hintCloseFirst:         "die Engine vor Abfragen schließen",
		hintRegisterConversion: "eine Konvertierungsregel für diese Typen registrieren",
		hintUpgrade:            "eine für diese Engine-API gebaute Addon-Version verwenden",

		labelHint:    "Hinweis",
		labelSummary: "%[1]d Fehler, %[2]d Warnung(en)",
		labelClean:   "keine Probleme gefunden",
	},
}

// Catalog returns the message catalog for all supported languages.
func Catalog() (*catalog.Builder, error) {
	b := catalog.NewBuilder(catalog.Fallback(language.English))

	for tag, msgs := range translations {
		for key, msg := range msgs {
			if err := b.SetString(tag, key, msg); err != nil {
				return nil, fmt.Errorf("catalog %s %q: %w", tag, key, err)
			}
		}
	}

	return b, nil
}

// Printer renders diagnostics in one language.
type Printer struct {
	tag language.Tag
	p   *message.Printer
}

// NewPrinter creates a printer for the best supported match of lang, e.g.
// "de" or "en-US". Unknown or empty tags render in English.
func NewPrinter(lang string) (*Printer, error) {
	b, err := Catalog()
	if err != nil {
		return nil, err
	}

	tag := language.English
	if lang != "" {
		desired, parseErr := language.Parse(lang)
		if parseErr == nil {
			_, idx, conf := matcher.Match(desired)
			if conf != language.No {
				tag = supported[idx]
			}
		}
	}

	return &Printer{tag: tag, p: message.NewPrinter(tag, message.Catalog(b))}, nil
}

// Language returns the language the printer renders in.
func (pr *Printer) Language() language.Tag {
	return pr.tag
}

// Title returns the localized title for d's code.
func (pr *Printer) Title(d *Diagnostic) string {
	return pr.p.Sprintf(titleFor(d.Code))
}

// Message returns the localized message for d, falling back to its detail.
func (pr *Printer) Message(d *Diagnostic) string {
	a := d.Args

	switch d.Code {
	case errors.CodeDuplicateRule:
		return pr.p.Sprintf(msgDuplicateRule, argString(a, "kind"), argString(a, "pair"), argString(a, "existing"))
	case errors.CodeForbiddenRule:
		return pr.p.Sprintf(msgForbiddenRule, argString(a, "kind"), argString(a, "pair"), argString(a, "reason"))
	case errors.CodeRegistryClosed:
		return pr.p.Sprintf(msgRegistryClosed, argString(a, "registry"))
	case errors.CodeRegistryOpen:
		return pr.p.Sprintf(msgRegistryOpen, argString(a, "operation"), argString(a, "registry"))
	case errors.CodeCannotConvert:
		return pr.p.Sprintf(msgCannotConvert, argString(a, "from"), argString(a, "to"), fmt.Sprintf("%#v", a["value"]))
	case errors.CodeIncompatible:
		return pr.p.Sprintf(msgIncompatible, argString(a, "addon"), argString(a, "required"), argString(a, "api"))
	case errors.CodeDuplicateAddon:
		return pr.p.Sprintf(msgDuplicateAddon, argString(a, "incoming"), argString(a, "existing"))
	default:
		return d.Detail
	}
}

// Format renders one diagnostic as "level[CODE]: title" followed by its
// message and, if requested, its hints.
func (pr *Printer) Format(d *Diagnostic, suggestions bool) string {
	var result strings.Builder

	result.WriteString(fmt.Sprintf("%s[%s]: %s\n", d.Level, d.Code, pr.Title(d)))

	if msg := pr.Message(d); msg != "" {
		result.WriteString(fmt.Sprintf("  %s\n", msg))
	}

	if suggestions {
		for _, hint := range d.Suggestions {
			result.WriteString(fmt.Sprintf("  %s: %s\n", pr.p.Sprintf(labelHint), pr.p.Sprintf(hint)))
		}
	}

	return result.String()
}

// Summary renders the closing line of a report.
func (pr *Printer) Summary(errorCount, warningCount int) string {
	if errorCount == 0 && warningCount == 0 {
		return pr.p.Sprintf(labelClean)
	}

	return pr.p.Sprintf(labelSummary, errorCount, warningCount)
}

func titleFor(code string) string {
	switch code {
	case errors.CodeDuplicateRule:
		return titleDuplicateRule
	case errors.CodeForbiddenRule:
		return titleForbiddenRule
	case errors.CodeRegistryClosed:
		return titleRegistryClosed
	case errors.CodeRegistryOpen:
		return titleRegistryOpen
	case errors.CodeCannotConvert:
		return titleCannotConvert
	case errors.CodeIncompatible:
		return titleIncompatible
	case errors.CodeDuplicateAddon:
		return titleDuplicateAddon
	default:
		return titleUnknown
	}
}
