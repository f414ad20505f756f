package eos

import (
	"fmt"
	"math"
	"slices"
)

// R is the molar gas constant in J/(mol·K).
const R = 8.314462618

// Model is an equation of state for a mixture of NumComponents species.
type Model interface {
	Name() string
	NumComponents() int
	ComponentNames() []string

	// Pressure returns P in Pa at molar density rho and temperature T.
	Pressure(rho, T float64, x []float64) (float64, error)

	// MaxDensity returns the upper bound on rho for composition x.
	MaxDensity(x []float64) (float64, error)

	// ChemicalPotential returns μᵢʳᵉˢ(T, V)/RT for each component. The
	// log fugacity coefficient at the same state is this minus ln Z.
	ChemicalPotential(rho, T float64, x []float64) ([]float64, error)
}

// Component holds the pure-component constants the bundled models use.
type Component struct {
	Name  string  `yaml:"name" json:"name"`
	Tc    float64 `yaml:"tc" json:"tc"`
	Pc    float64 `yaml:"pc" json:"pc"`
	Omega float64 `yaml:"omega" json:"omega"`
}

// Config selects and parameterises a model.
type Config struct {
	Type       string      `yaml:"type" json:"type"`
	Components []Component `yaml:"components" json:"components"`
	Kij        [][]float64 `yaml:"kij,omitempty" json:"kij,omitempty"`
}

// allocators holds all available models; type name => constructor
var allocators = map[string]func(Config) (Model, error){
	"ideal_gas":     func(c Config) (Model, error) { return NewIdealGas(c.Components) },
	"van_der_waals": func(c Config) (Model, error) { return NewCubic(VanDerWaals, c.Components, c.Kij) },
	"peng_robinson": func(c Config) (Model, error) { return NewCubic(PengRobinson, c.Components, c.Kij) },
}

// New builds the model named by cfg.Type.
func New(cfg Config) (Model, error) {
	alloc, ok := allocators[cfg.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownModel, cfg.Type, Types())
	}
	return alloc(cfg)
}

// Types returns the registered model type names in sorted order.
func Types() []string {
	names := make([]string, 0, len(allocators))
	for name := range allocators {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Normalize returns x scaled to sum to one after checking its length.
func Normalize(x []float64, n int) ([]float64, error) {
	if len(x) != n {
		return nil, fmt.Errorf("%w: %d mole fractions for %d components", ErrComposition, len(x), n)
	}
	sum := 0.0
	for _, v := range x {
		if v < 0 || math.IsNaN(v) {
			return nil, fmt.Errorf("%w: mole fraction %v", ErrComposition, v)
		}
		sum += v
	}
	if sum <= 0 {
		return nil, fmt.Errorf("%w: mole fractions sum to zero", ErrComposition)
	}
	out := make([]float64, n)
	for i, v := range x {
		out[i] = v / sum
	}
	return out, nil
}

func checkState(rho, T float64) error {
	if !(T > 0) || math.IsInf(T, 0) {
		return fmt.Errorf("%w: T=%v", ErrTemperature, T)
	}
	if !(rho > 0) || math.IsInf(rho, 0) {
		return fmt.Errorf("%w: rho=%v", ErrDensityBounds, rho)
	}
	return nil
}

func componentNames(cs []Component) []string {
	names := make([]string, len(cs))
	for i, c := range cs {
		names[i] = c.Name
		if names[i] == "" {
			names[i] = fmt.Sprintf("comp%d", i)
		}
	}
	return names
}
