package analyze

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

// Kind is the analyzer family, the registry ID prefix before the slash.
type Kind string

// Analyzer families.
const (
	KindHistory Kind = "history"
	KindStatic  Kind = "static"
	KindMeta    Kind = "meta"
)

// KindOf extracts the family from a registry ID.
func KindOf(id string) Kind {
	if idx := strings.IndexByte(id, '/'); idx > 0 {
		return Kind(id[:idx])
	}

	return Kind(id)
}

var (
	// ErrUnknownAnalyzer indicates a selection pattern matched nothing.
	ErrUnknownAnalyzer = errors.New("unknown analyzer")

	// ErrDuplicateAnalyzer indicates an ID registered twice.
	ErrDuplicateAnalyzer = errors.New("duplicate analyzer")
)

// Registration binds a stable ID to an analyzer constructor.
type Registration struct {
	ID          string
	Description string
	New         func() Analyzer
}

// Registry maps stable IDs to analyzer constructors, preserving registration
// order for deterministic runs.
type Registry struct {
	order []string
	byID  map[string]Registration
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]Registration)}
}

// Register adds one registration.
func (r *Registry) Register(reg Registration) error {
	if _, exists := r.byID[reg.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateAnalyzer, reg.ID)
	}

	r.byID[reg.ID] = reg
	r.order = append(r.order, reg.ID)

	return nil
}

// IDs returns all registered IDs in registration order.
func (r *Registry) IDs() []string {
	ids := make([]string, len(r.order))
	copy(ids, r.order)

	return ids
}

// Get looks up one registration by exact ID.
func (r *Registry) Get(id string) (Registration, bool) {
	reg, ok := r.byID[id]

	return reg, ok
}

// Select resolves selection patterns to registrations in registration
// order. Patterns are exact IDs, bare flags ("classify"), or path globs
// ("history/*"); "*" selects everything, as does an empty selection.
// A pattern matching nothing is an error.
func (r *Registry) Select(patterns []string) ([]Registration, error) {
	if len(patterns) == 0 {
		return r.all(), nil
	}

	seen := make(map[string]struct{}, len(r.order))

	for _, raw := range patterns {
		pattern := strings.TrimSpace(raw)
		if pattern == "" {
			continue
		}

		matched := false

		for _, id := range r.order {
			if matchesPattern(pattern, id) {
				matched = true
				seen[id] = struct{}{}
			}
		}

		if !matched {
			return nil, fmt.Errorf("%w: %s", ErrUnknownAnalyzer, pattern)
		}
	}

	selected := make([]Registration, 0, len(seen))

	for _, id := range r.order {
		if _, ok := seen[id]; ok {
			selected = append(selected, r.byID[id])
		}
	}

	return selected, nil
}

func (r *Registry) all() []Registration {
	regs := make([]Registration, 0, len(r.order))
	for _, id := range r.order {
		regs = append(regs, r.byID[id])
	}

	return regs
}

func matchesPattern(pattern, id string) bool {
	if pattern == "*" || pattern == id {
		return true
	}

	if matched, err := path.Match(pattern, id); err == nil && matched {
		return true
	}

	// Bare flag shorthand: "classify" selects "history/classify".
	if idx := strings.IndexByte(id, '/'); idx >= 0 && id[idx+1:] == pattern {
		return true
	}

	return false
}
