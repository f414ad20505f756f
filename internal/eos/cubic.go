package eos

import (
	"fmt"
	"math"
)

// CubicKind fixes the attractive term and the a, b constants of a cubic
// equation of state written as
//
//	P = RT/(v - b) - a(T)/((v + δ₁b)(v + δ₂b))
type CubicKind struct {
	name   string
	delta1 float64
	delta2 float64
	omegaA float64
	omegaB float64
	alpha  func(c Component, T float64) float64
}

var (
	VanDerWaals = CubicKind{
		name:   "van_der_waals",
		omegaA: 27.0 / 64.0,
		omegaB: 1.0 / 8.0,
		alpha:  func(Component, float64) float64 { return 1 },
	}

	PengRobinson = CubicKind{
		name:   "peng_robinson",
		delta1: 1 + math.Sqrt2,
		delta2: 1 - math.Sqrt2,
		omegaA: 0.45724,
		omegaB: 0.07780,
		alpha: func(c Component, T float64) float64 {
			kappa := 0.37464 + 1.54226*c.Omega - 0.26992*c.Omega*c.Omega
			s := 1 + kappa*(1-math.Sqrt(T/c.Tc))
			return s * s
		},
	}
)

// Cubic is a cubic equation of state with van der Waals one-fluid mixing
// rules: a = ΣΣ xᵢxⱼ√(aᵢaⱼ)(1 - kᵢⱼ), b = Σ xᵢbᵢ.
type Cubic struct {
	kind       CubicKind
	components []Component
	names      []string
	kij        [][]float64
	b          []float64
}

func NewCubic(kind CubicKind, components []Component, kij [][]float64) (*Cubic, error) {
	n := len(components)
	if n == 0 {
		return nil, fmt.Errorf("%w: no components", ErrComponent)
	}
	for i, c := range components {
		if !(c.Tc > 0) || !(c.Pc > 0) {
			return nil, fmt.Errorf("%w: component %d (%s) needs positive tc and pc", ErrComponent, i, c.Name)
		}
	}

	k := make([][]float64, n)
	for i := range k {
		k[i] = make([]float64, n)
	}
	if len(kij) > 0 {
		if len(kij) != n {
			return nil, fmt.Errorf("%w: kij has %d rows for %d components", ErrComponent, len(kij), n)
		}
		for i, row := range kij {
			if len(row) != n {
				return nil, fmt.Errorf("%w: kij row %d has %d entries for %d components", ErrComponent, i, len(row), n)
			}
			copy(k[i], row)
		}
	}

	b := make([]float64, n)
	for i, c := range components {
		b[i] = kind.omegaB * R * c.Tc / c.Pc
	}

	return &Cubic{
		kind:       kind,
		components: append([]Component(nil), components...),
		names:      componentNames(components),
		kij:        k,
		b:          b,
	}, nil
}

func (m *Cubic) Name() string { return m.kind.name }

func (m *Cubic) NumComponents() int { return len(m.components) }

func (m *Cubic) ComponentNames() []string { return append([]string(nil), m.names...) }

func (m *Cubic) pureA(T float64) []float64 {
	a := make([]float64, len(m.components))
	for i, c := range m.components {
		a[i] = m.kind.omegaA * R * R * c.Tc * c.Tc / c.Pc * m.kind.alpha(c, T)
	}
	return a
}

// mix returns the mixture a and b together with āᵢ = Σⱼ xⱼaᵢⱼ.
func (m *Cubic) mix(T float64, x []float64) (a, b float64, abar []float64) {
	ai := m.pureA(T)
	n := len(ai)
	abar = make([]float64, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			aij := math.Sqrt(ai[i]*ai[j]) * (1 - m.kij[i][j])
			abar[i] += x[j] * aij
		}
		a += x[i] * abar[i]
		b += x[i] * m.b[i]
	}
	return a, b, abar
}

func (m *Cubic) MaxDensity(x []float64) (float64, error) {
	xn, err := Normalize(x, len(m.components))
	if err != nil {
		return 0, err
	}
	b := 0.0
	for i := range xn {
		b += xn[i] * m.b[i]
	}
	return 1 / b, nil
}

func (m *Cubic) prepare(rho, T float64, x []float64) ([]float64, error) {
	xn, err := Normalize(x, len(m.components))
	if err != nil {
		return nil, err
	}
	if err := checkState(rho, T); err != nil {
		return nil, err
	}
	rhoMax, _ := m.MaxDensity(xn)
	if rho >= rhoMax {
		return nil, fmt.Errorf("%w: rho=%v exceeds packing limit %v", ErrDensityBounds, rho, rhoMax)
	}
	return xn, nil
}

func (m *Cubic) Pressure(rho, T float64, x []float64) (float64, error) {
	xn, err := m.prepare(rho, T, x)
	if err != nil {
		return 0, err
	}
	a, b, _ := m.mix(T, xn)
	d1, d2 := m.kind.delta1, m.kind.delta2
	return R*T*rho/(1-b*rho) - a*rho*rho/((1+d1*b*rho)*(1+d2*b*rho)), nil
}

func (m *Cubic) ChemicalPotential(rho, T float64, x []float64) ([]float64, error) {
	xn, err := m.prepare(rho, T, x)
	if err != nil {
		return nil, err
	}
	a, b, abar := m.mix(T, xn)
	d1, d2 := m.kind.delta1, m.kind.delta2
	v := 1 / rho
	RT := R * T

	// g = ∂(attractive Helmholtz term)/∂a per unit a, gB its b derivative.
	var g, gB float64
	if d1 == d2 {
		g = rho
	} else {
		dd := d1 - d2
		g = math.Log((1+d1*b*rho)/(1+d2*b*rho)) / (b * dd)
		gB = -g/b + (d1/(v+d1*b)-d2/(v+d2*b))/(b*dd)
	}

	rep := -math.Log(1 - b*rho)
	mu := make([]float64, len(xn))
	for i := range mu {
		mu[i] = rep + m.b[i]*rho/(1-b*rho) - 2*abar[i]*g/RT - a*m.b[i]*gB/RT
	}
	return mu, nil
}
