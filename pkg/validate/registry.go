package validate

import (
	"cmp"
	"slices"
	"strings"
	"sync"
)

// Registry holds validation rules, addressable by ID or name.
type Registry struct {
	mu     sync.RWMutex
	byID   map[string]Rule
	byName map[string]Rule
}

// NewRegistry creates an empty rule registry.
func NewRegistry() *Registry {
	return &Registry{
		byID:   make(map[string]Rule),
		byName: make(map[string]Rule),
	}
}

// NewDefaultRegistry creates a registry holding every built-in rule.
func NewDefaultRegistry() *Registry {
	reg := NewRegistry()
	RegisterBuiltins(reg)
	return reg
}

// Register adds a rule to the registry.
// If a rule with the same ID already exists, it is replaced.
func (r *Registry) Register(rule Rule) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.byID[rule.ID()]; ok {
		delete(r.byName, old.Name())
	}
	r.byID[rule.ID()] = rule
	r.byName[rule.Name()] = rule
}

// Get retrieves a rule by ID (case-insensitive) or name.
func (r *Registry) Get(key string) (Rule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if rule, ok := r.byID[strings.ToUpper(key)]; ok {
		return rule, true
	}
	if rule, ok := r.byName[strings.ToLower(key)]; ok {
		return rule, true
	}
	return nil, false
}

// Rules returns all registered rules sorted by ID.
func (r *Registry) Rules() []Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Rule, 0, len(r.byID))
	for _, rule := range r.byID {
		result = append(result, rule)
	}

	slices.SortFunc(result, func(a, b Rule) int {
		return cmp.Compare(a.ID(), b.ID())
	})

	return result
}

// IDs returns all registered rule IDs in sorted order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]string, 0, len(r.byID))
	for id := range r.byID {
		result = append(result, id)
	}

	slices.Sort(result)
	return result
}
