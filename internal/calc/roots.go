package calc

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/thermokit/internal/eos"
)

var (
	ErrNoRoot          = errors.New("calc: no density root at requested pressure")
	ErrSupercritical   = errors.New("calc: no vapor-liquid region at this temperature")
	ErrNotConverged    = errors.New("calc: iteration did not converge")
	ErrTrivialSolution = errors.New("calc: phases collapsed to the same density")
	ErrBadInput        = errors.New("calc: invalid input")
)

const (
	gridPoints    = 600
	bisectIters   = 200
	bisectRelTol  = 1e-13
	maxOuterIters = 300
	maxInnerIters = 100
	convergedTol  = 1e-10
)

// densityGrid returns log-spaced densities spanning (lo, rhoMax).
func densityGrid(lo, rhoMax float64) []float64 {
	hi := rhoMax * (1 - 1e-9)
	grid := make([]float64, gridPoints)
	ratio := math.Log(hi / lo)
	for k := range grid {
		grid[k] = lo * math.Exp(ratio*float64(k)/float64(gridPoints-1))
	}
	return grid
}

// stableRoots returns, in ascending order, the densities at which the
// model pressure equals P with dP/dρ > 0.
func stableRoots(m eos.Model, P, T float64, x []float64) ([]float64, error) {
	if !(P > 0) {
		return nil, fmt.Errorf("%w: pressure must be positive, got %v", ErrBadInput, P)
	}
	rhoMax, err := m.MaxDensity(x)
	if err != nil {
		return nil, err
	}
	lo := math.Min(rhoMax*1e-10, 0.01*P/(eos.R*T))

	grid := densityGrid(lo, rhoMax)
	f := make([]float64, len(grid))
	for k, rho := range grid {
		p, err := m.Pressure(rho, T, x)
		if err != nil {
			return nil, err
		}
		f[k] = p - P
	}

	var roots []float64
	for k := 0; k+1 < len(grid); k++ {
		if f[k] < 0 && f[k+1] >= 0 {
			r, err := bisect(func(rho float64) (float64, error) {
				p, err := m.Pressure(rho, T, x)
				return p - P, err
			}, grid[k], grid[k+1])
			if err != nil {
				return nil, err
			}
			roots = append(roots, r)
		}
	}
	if len(roots) == 0 {
		return nil, fmt.Errorf("%w: P=%v T=%v", ErrNoRoot, P, T)
	}
	return roots, nil
}

func liquidRoot(m eos.Model, P, T float64, x []float64) (float64, error) {
	roots, err := stableRoots(m, P, T, x)
	if err != nil {
		return 0, err
	}
	return roots[len(roots)-1], nil
}

func vaporRoot(m eos.Model, P, T float64, x []float64) (float64, error) {
	roots, err := stableRoots(m, P, T, x)
	if err != nil {
		return 0, err
	}
	return roots[0], nil
}

// bisect finds a sign change of fn in [lo, hi], with fn(lo) < 0 <= fn(hi).
func bisect(fn func(float64) (float64, error), lo, hi float64) (float64, error) {
	for i := 0; i < bisectIters; i++ {
		mid := 0.5 * (lo + hi)
		v, err := fn(mid)
		if err != nil {
			return 0, err
		}
		if v < 0 {
			lo = mid
		} else {
			hi = mid
		}
		if hi-lo <= bisectRelTol*hi {
			break
		}
	}
	return 0.5 * (lo + hi), nil
}

// lnPhi returns the log fugacity coefficients and the pressure at (rho, T, x).
func lnPhi(m eos.Model, rho, T float64, x []float64) ([]float64, float64, error) {
	P, err := m.Pressure(rho, T, x)
	if err != nil {
		return nil, 0, err
	}
	if !(P > 0) {
		return nil, 0, fmt.Errorf("%w: non-positive pressure %v at rho=%v", ErrBadInput, P, rho)
	}
	mu, err := m.ChemicalPotential(rho, T, x)
	if err != nil {
		return nil, 0, err
	}
	lnZ := math.Log(P / (rho * eos.R * T))
	out := make([]float64, len(mu))
	for i, v := range mu {
		out[i] = v - lnZ
	}
	return out, P, nil
}

// spinodals locates the vapor spinodal (first local maximum of P(ρ)) and
// the liquid spinodal (the following local minimum).
func spinodals(m eos.Model, T float64, x []float64) (pMax, pMin float64, err error) {
	rhoMax, err := m.MaxDensity(x)
	if err != nil {
		return 0, 0, err
	}
	grid := densityGrid(rhoMax*1e-10, rhoMax)
	p := make([]float64, len(grid))
	for k, rho := range grid {
		if p[k], err = m.Pressure(rho, T, x); err != nil {
			return 0, 0, err
		}
	}

	iMax := -1
	for k := 1; k+1 < len(p); k++ {
		if iMax < 0 && p[k] >= p[k-1] && p[k] > p[k+1] {
			iMax = k
			continue
		}
		if iMax >= 0 && p[k] <= p[k-1] && p[k] < p[k+1] {
			return p[iMax], p[k], nil
		}
	}
	return 0, 0, fmt.Errorf("%w: T=%v", ErrSupercritical, T)
}

func unitVector(n, i int) []float64 {
	x := make([]float64, n)
	x[i] = 1
	return x
}
