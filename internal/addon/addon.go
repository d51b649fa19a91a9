// Package addon identifies the providers of conversion and comparison rules
// and checks them against the engine API version.
package addon

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"

	"github.com/orizon-lang/typeconv/internal/errors"
)

// Addon is a named, versioned provider of rules.
type Addon struct {
	Name     string
	Version  *semver.Version
	Requires *semver.Constraints
}

// New parses version and the required engine API constraint.
// An empty constraint accepts any API version.
func New(name, version, requires string) (*Addon, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("addon name is required")
	}

	v, err := semver.NewVersion(version)
	if err != nil {
		return nil, fmt.Errorf("addon %s: invalid version %q: %w", name, version, err)
	}

	c, err := parseConstraint(requires)
	if err != nil {
		return nil, fmt.Errorf("addon %s: invalid requirement %q: %w", name, requires, err)
	}

	return &Addon{Name: name, Version: v, Requires: c}, nil
}

// MustNew is New panicking on error, for static addon declarations.
func MustNew(name, version, requires string) *Addon {
	a, err := New(name, version, requires)
	if err != nil {
		panic(err)
	}

	return a
}

func parseConstraint(expr string) (*semver.Constraints, error) {
	if strings.TrimSpace(expr) == "" {
		// Empty means any version
		return semver.NewConstraint(">=0.0.0")
	}

	return semver.NewConstraint(expr)
}

// CheckAPI fails when api does not satisfy the addon's requirement.
func (a *Addon) CheckAPI(api *semver.Version) error {
	if a.Requires != nil && !a.Requires.Check(api) {
		return errors.Incompatible(a.String(), a.Requires.String(), api.String())
	}

	return nil
}

// String renders name@version, used as the origin of the addon's rules.
func (a *Addon) String() string {
	if a.Version == nil {
		return a.Name
	}

	return a.Name + "@" + a.Version.String()
}

// Set is the collection of attached addons, unique by name.
type Set struct {
	mu     sync.RWMutex
	byName map[string]*Addon
}

// NewSet creates an empty set.
func NewSet() *Set {
	return &Set{byName: make(map[string]*Addon)}
}

// Add attaches a after checking it against api.
func (s *Set) Add(a *Addon, api *semver.Version) error {
	if err := a.CheckAPI(api); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(a.Name)
	if existing, ok := s.byName[key]; ok {
		return errors.DuplicateAddon(a.Name, existing.String(), a.String())
	}

	s.byName[key] = a

	return nil
}

// Lookup returns the addon attached under name.
func (s *Set) Lookup(name string) (*Addon, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.byName[strings.ToLower(name)]

	return a, ok
}

// List returns the attached addons sorted by name.
func (s *Set) List() []*Addon {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Addon, 0, len(s.byName))
	for _, a := range s.byName {
		out = append(out, a)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	return out
}
