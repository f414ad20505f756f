package thermo

import (
	"slices"
	"strings"
	"sync"

	"github.com/san-kum/thermokit/internal/eos"
)

// Routine computes one kind of thermodynamic property set.
type Routine func(model eos.Model, params Params) (Result, error)

// Key documents one parameter a routine reads.
type Key struct {
	Name     string
	Help     string
	Optional bool
}

// Calculation is a registered routine together with its documented
// parameter contract.
type Calculation struct {
	Name        string
	Description string
	Keys        []Key
	Run         Routine
}

// Registry maps calculation type names to calculations.
// It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	calcs map[string]Calculation
}

func NewRegistry() *Registry {
	return &Registry{calcs: make(map[string]Calculation)}
}

// Register adds c, replacing any calculation with the same name.
func (r *Registry) Register(c Calculation) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calcs[c.Name] = c
}

// RegisterFunc registers a bare routine with no documentation.
func (r *Registry) RegisterFunc(name string, fn Routine) {
	r.Register(Calculation{Name: name, Run: fn})
}

func (r *Registry) Lookup(name string) (Calculation, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.calcs[name]
	return c, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.calcs))
	for name := range r.calcs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Calculations returns every registered calculation sorted by name.
func (r *Registry) Calculations() []Calculation {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Calculation, 0, len(r.calcs))
	for _, c := range r.calcs {
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b Calculation) int {
		return strings.Compare(a.Name, b.Name)
	})
	return out
}
