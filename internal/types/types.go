// Named type table for the engine's command line and embedders
// that refer to types by name rather than by Go type parameter.

package types

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// ====== Built-in Tokens ======

var (
	TypeBool     = Of[bool]()
	TypeInt      = Of[int]()
	TypeInt8     = Of[int8]()
	TypeInt16    = Of[int16]()
	TypeInt32    = Of[int32]()
	TypeInt64    = Of[int64]()
	TypeUint     = Of[uint]()
	TypeUint8    = Of[uint8]()
	TypeUint16   = Of[uint16]()
	TypeUint32   = Of[uint32]()
	TypeUint64   = Of[uint64]()
	TypeFloat32  = Of[float32]()
	TypeFloat64  = Of[float64]()
	TypeString   = Of[string]()
	TypeDuration = Of[time.Duration]()
	TypeTime     = Of[time.Time]()
	TypeError    = Of[error]()
	TypeStringer = Of[fmt.Stringer]()
)

// ====== Name Registry ======

// Registry maps names to tokens.
type Registry struct {
	mu    sync.RWMutex
	names map[string]Token
}

// NewRegistry creates a registry pre-populated with the built-in tokens.
func NewRegistry() *Registry {
	registry := &Registry{
		names: make(map[string]Token),
	}

	registry.Register("any", Any)
	registry.Register("bool", TypeBool)
	registry.Register("int", TypeInt)
	registry.Register("int8", TypeInt8)
	registry.Register("int16", TypeInt16)
	registry.Register("int32", TypeInt32)
	registry.Register("int64", TypeInt64)
	registry.Register("uint", TypeUint)
	registry.Register("uint8", TypeUint8)
	registry.Register("uint16", TypeUint16)
	registry.Register("uint32", TypeUint32)
	registry.Register("uint64", TypeUint64)
	registry.Register("float32", TypeFloat32)
	registry.Register("float64", TypeFloat64)
	registry.Register("string", TypeString)
	registry.Register("duration", TypeDuration)
	registry.Register("time", TypeTime)
	registry.Register("error", TypeError)
	registry.Register("stringer", TypeStringer)

	return registry
}

// Register binds name to token, replacing any previous binding.
// Names are case-insensitive.
func (r *Registry) Register(name string, token Token) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.names[strings.ToLower(name)] = token
}

// Lookup returns the token bound to name.
func (r *Registry) Lookup(name string) (Token, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	token, exists := r.names[strings.ToLower(strings.TrimSpace(name))]

	return token, exists
}

// MustLookup is Lookup returning an error naming the missing type.
func (r *Registry) MustLookup(name string) (Token, error) {
	token, ok := r.Lookup(name)
	if !ok {
		return Token{}, fmt.Errorf("unknown type %q", name)
	}

	return token, nil
}

// Names returns all registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]string, 0, len(r.names))
	for name := range r.names {
		result = append(result, name)
	}

	sort.Strings(result)

	return result
}
