package eos

import "fmt"

// idealMaxDensity caps the search range for models without a packing
// limit, roughly ten times the density of liquid water.
const idealMaxDensity = 5e5

// IdealGas is P = ρRT with zero residual properties.
type IdealGas struct {
	names []string
}

func NewIdealGas(components []Component) (*IdealGas, error) {
	if len(components) == 0 {
		return nil, fmt.Errorf("%w: no components", ErrComponent)
	}
	return &IdealGas{names: componentNames(components)}, nil
}

func (g *IdealGas) Name() string { return "ideal_gas" }

func (g *IdealGas) NumComponents() int { return len(g.names) }

func (g *IdealGas) ComponentNames() []string { return append([]string(nil), g.names...) }

func (g *IdealGas) Pressure(rho, T float64, x []float64) (float64, error) {
	if _, err := Normalize(x, len(g.names)); err != nil {
		return 0, err
	}
	if err := checkState(rho, T); err != nil {
		return 0, err
	}
	return rho * R * T, nil
}

func (g *IdealGas) MaxDensity(x []float64) (float64, error) {
	if _, err := Normalize(x, len(g.names)); err != nil {
		return 0, err
	}
	return idealMaxDensity, nil
}

func (g *IdealGas) ChemicalPotential(rho, T float64, x []float64) ([]float64, error) {
	if _, err := Normalize(x, len(g.names)); err != nil {
		return nil, err
	}
	if err := checkState(rho, T); err != nil {
		return nil, err
	}
	return make([]float64, len(g.names)), nil
}
