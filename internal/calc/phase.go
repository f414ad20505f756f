package calc

import (
	"fmt"
	"math"

	"github.com/san-kum/thermokit/internal/eos"
	"github.com/san-kum/thermokit/internal/thermo"
)

func pressureIsotherm(m eos.Model, params thermo.Params) (thermo.Result, error) {
	T, err := params.Float("T")
	if err != nil {
		return nil, err
	}
	rholist, err := params.Floats("rholist")
	if err != nil {
		return nil, err
	}
	x := []float64{1}
	if params.Has("xi") {
		if x, err = params.Floats("xi"); err != nil {
			return nil, err
		}
	}
	if x, err = eos.Normalize(x, m.NumComponents()); err != nil {
		return nil, err
	}

	P := make([]float64, len(rholist))
	for i, rho := range rholist {
		if P[i], err = m.Pressure(rho, T, x); err != nil {
			return nil, fmt.Errorf("rho=%v: %w", rho, err)
		}
	}
	return thermo.Result{
		"T":   T,
		"xi":  x,
		"rho": rholist,
		"P":   P,
	}, nil
}

// phaseRoot selects which stable density root a phase routine reports.
type phaseRoot func(m eos.Model, P, T float64, x []float64) (float64, error)

func phaseProperties(root phaseRoot, compKey, rhoKey, phiKey string) thermo.Routine {
	return func(m eos.Model, params thermo.Params) (thermo.Result, error) {
		sp, err := readStatePoints(m, params, compKey, true)
		if err != nil {
			return nil, err
		}
		rho := make([]float64, sp.Len())
		phi := make([][]float64, sp.Len())
		for i := range sp.T {
			if rho[i], err = root(m, sp.P[i], sp.T[i], sp.X[i]); err != nil {
				return nil, fmt.Errorf("T=%v P=%v: %w", sp.T[i], sp.P[i], err)
			}
			lp, _, err := lnPhi(m, rho[i], sp.T[i], sp.X[i])
			if err != nil {
				return nil, fmt.Errorf("T=%v P=%v: %w", sp.T[i], sp.P[i], err)
			}
			phi[i] = exps(lp)
		}
		return thermo.Result{
			"T":     sp.T,
			"P":     sp.P,
			compKey: sp.X,
			rhoKey:  rho,
			phiKey:  phi,
		}, nil
	}
}

func activityCoefficient(m eos.Model, params thermo.Params) (thermo.Result, error) {
	sp, err := readStatePoints(m, params, "xilist", true)
	if err != nil {
		return nil, err
	}
	n := m.NumComponents()
	rhol := make([]float64, sp.Len())
	gamma := make([][]float64, sp.Len())
	for k := range sp.T {
		T, P, x := sp.T[k], sp.P[k], sp.X[k]
		if rhol[k], err = liquidRoot(m, P, T, x); err != nil {
			return nil, fmt.Errorf("T=%v P=%v: %w", T, P, err)
		}
		lmix, _, err := lnPhi(m, rhol[k], T, x)
		if err != nil {
			return nil, err
		}
		gamma[k] = make([]float64, n)
		for i := 0; i < n; i++ {
			pure := unitVector(n, i)
			rhoPure, err := liquidRoot(m, P, T, pure)
			if err != nil {
				return nil, fmt.Errorf("pure component %d at T=%v P=%v: %w", i, T, P, err)
			}
			lpure, _, err := lnPhi(m, rhoPure, T, pure)
			if err != nil {
				return nil, err
			}
			gamma[k][i] = math.Exp(lmix[i] - lpure[i])
		}
	}
	return thermo.Result{
		"T":      sp.T,
		"P":      sp.P,
		"xilist": sp.X,
		"rhol":   rhol,
		"gamma":  gamma,
	}, nil
}

func exps(v []float64) []float64 {
	out := make([]float64, len(v))
	for i, e := range v {
		out[i] = math.Exp(e)
	}
	return out
}
