// Package errors provides standardized errors for the conversion engine
package errors

import (
	"fmt"
	"runtime"

	"github.com/orizon-lang/typeconv/internal/types"
)

// ErrorCategory represents different categories of errors
type ErrorCategory string

const (
	CategoryRegistration ErrorCategory = "REGISTRATION"
	CategoryLifecycle    ErrorCategory = "LIFECYCLE"
	CategoryConversion   ErrorCategory = "CONVERSION"
)

// Error codes
const (
	CodeDuplicateRule  = "DUPLICATE_RULE"
	CodeForbiddenRule  = "FORBIDDEN_RULE"
	CodeRegistryClosed = "REGISTRY_CLOSED"
	CodeRegistryOpen   = "REGISTRY_OPEN"
	CodeCannotConvert  = "CANNOT_CONVERT"
	CodeIncompatible   = "INCOMPATIBLE_ADDON"
	CodeDuplicateAddon = "DUPLICATE_ADDON"
)

// Sentinels for errors.Is; they match any StandardError with the same code.
var (
	ErrDuplicateRule  = &StandardError{Category: CategoryRegistration, Code: CodeDuplicateRule}
	ErrForbiddenRule  = &StandardError{Category: CategoryRegistration, Code: CodeForbiddenRule}
	ErrRegistryClosed = &StandardError{Category: CategoryLifecycle, Code: CodeRegistryClosed}
	ErrRegistryOpen   = &StandardError{Category: CategoryLifecycle, Code: CodeRegistryOpen}
	ErrCannotConvert  = &StandardError{Category: CategoryConversion, Code: CodeCannotConvert}
	ErrIncompatible   = &StandardError{Category: CategoryRegistration, Code: CodeIncompatible}
	ErrDuplicateAddon = &StandardError{Category: CategoryRegistration, Code: CodeDuplicateAddon}
)

// StandardError provides a consistent error format
type StandardError struct {
	Category ErrorCategory
	Code     string
	Message  string
	Context  map[string]interface{}
	Caller   string
}

// Error implements the error interface
func (e *StandardError) Error() string {
	return fmt.Sprintf("[%s:%s] %s (caller: %s)", e.Category, e.Code, e.Message, e.Caller)
}

// Is matches errors carrying the same code.
func (e *StandardError) Is(target error) bool {
	t, ok := target.(*StandardError)
	if !ok {
		return false
	}

	return e.Code == t.Code
}

func newStandardError(skip int, category ErrorCategory, code, message string, context map[string]interface{}) *StandardError {
	pc, _, _, ok := runtime.Caller(skip)
	caller := "unknown"
	if ok {
		if fn := runtime.FuncForPC(pc); fn != nil {
			caller = fn.Name()
		}
	}

	return &StandardError{
		Category: category,
		Code:     code,
		Message:  message,
		Context:  context,
		Caller:   caller,
	}
}

// ConversionError reports that a value could not be converted to a type.
type ConversionError struct {
	*StandardError
	Value any
	From  types.Token
	To    types.Token
}

// Unwrap exposes the standard error for errors.As and errors.Is.
func (e *ConversionError) Unwrap() error {
	return e.StandardError
}

// Common error constructors
func DuplicateRule(kind string, pair types.Pair, existing, incoming string) *StandardError {
	return newStandardError(2, CategoryRegistration, CodeDuplicateRule,
		fmt.Sprintf("A %s rule for %s is already registered", kind, pair),
		map[string]interface{}{"kind": kind, "pair": pair.String(), "existing": existing, "incoming": incoming})
}

func ForbiddenRule(kind string, pair types.Pair, reason string) *StandardError {
	return newStandardError(2, CategoryRegistration, CodeForbiddenRule,
		fmt.Sprintf("Cannot register %s rule for %s: %s", kind, pair, reason),
		map[string]interface{}{"kind": kind, "pair": pair.String(), "reason": reason})
}

func RegistryClosed(registry string) *StandardError {
	return newStandardError(2, CategoryLifecycle, CodeRegistryClosed,
		fmt.Sprintf("The %s registry is closed and accepts no new rules", registry),
		map[string]interface{}{"registry": registry})
}

func RegistryOpen(registry, operation string) *StandardError {
	return newStandardError(2, CategoryLifecycle, CodeRegistryOpen,
		fmt.Sprintf("Cannot %s before the %s registry is closed", operation, registry),
		map[string]interface{}{"registry": registry, "operation": operation})
}

func Incompatible(addon, required, api string) *StandardError {
	return newStandardError(2, CategoryRegistration, CodeIncompatible,
		fmt.Sprintf("Addon %s requires engine API %s, have %s", addon, required, api),
		map[string]interface{}{"addon": addon, "required": required, "api": api})
}

func DuplicateAddon(name, existing, incoming string) *StandardError {
	return newStandardError(2, CategoryRegistration, CodeDuplicateAddon,
		fmt.Sprintf("Addon %s is already attached as %s", incoming, existing),
		map[string]interface{}{"name": name, "existing": existing, "incoming": incoming})
}

func CannotConvert(value any, to types.Token) *ConversionError {
	from := types.TypeOf(value)

	return &ConversionError{
		StandardError: newStandardError(2, CategoryConversion, CodeCannotConvert,
			fmt.Sprintf("Cannot convert value of type %s to type %s", from, to),
			map[string]interface{}{"value": value, "from": from.String(), "to": to.String()}),
		Value: value,
		From:  from,
		To:    to,
	}
}
