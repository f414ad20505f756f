// Package eos provides equation-of-state models for fluid mixtures.
//
// Every model implements [Model]:
//
//   - [Model.Pressure]: P(ρ, T, x)
//   - [Model.MaxDensity]: packing limit of the molar density
//   - [Model.ChemicalPotential]: residual chemical potential μᵢʳᵉˢ/RT at (T, V)
//
// Units are SI throughout: temperature in K, pressure in Pa, molar density
// in mol/m³. Compositions are mole fractions; they are normalised before
// use and must match [Model.NumComponents] in length.
//
// # Example
//
//	m, _ := eos.New(eos.Config{
//		Type: "peng_robinson",
//		Components: []eos.Component{
//			{Name: "methane", Tc: 190.56, Pc: 4.599e6, Omega: 0.011},
//		},
//	})
//	p, _ := m.Pressure(5000, 150, []float64{1})
//
// Models are immutable after construction and safe for concurrent use.
package eos
