package calc

import "github.com/san-kum/thermokit/internal/thermo"

var (
	keyT      = thermo.Key{Name: "Tlist", Help: "temperatures [K]"}
	keyP      = thermo.Key{Name: "Plist", Help: "pressures [Pa], default 101325", Optional: true}
	keyXi     = thermo.Key{Name: "xilist", Help: "liquid mole fractions, one row per point; optional for one component", Optional: true}
	keyYi     = thermo.Key{Name: "yilist", Help: "vapor mole fractions, one row per point; optional for one component", Optional: true}
	keyComp   = thermo.Key{Name: "component", Help: "component name or index; optional for one component", Optional: true}
	keyTpoint = thermo.Key{Name: "T", Help: "temperature [K]"}
	keyRho    = thermo.Key{Name: "rholist", Help: "molar densities [mol/m³]"}
	keyXpoint = thermo.Key{Name: "xi", Help: "mole fractions; optional for one component", Optional: true}
)

// Calculations returns every bundled calculation.
func Calculations() []thermo.Calculation {
	return []thermo.Calculation{
		{
			Name:        "pressure",
			Description: "pressure along an isotherm at the given densities",
			Keys:        []thermo.Key{keyTpoint, keyRho, keyXpoint},
			Run:         pressureIsotherm,
		},
		{
			Name:        "liquid_properties",
			Description: "liquid density and fugacity coefficients at T, P, x",
			Keys:        []thermo.Key{keyT, keyP, keyXi},
			Run:         phaseProperties(liquidRoot, "xilist", "rhol", "phil"),
		},
		{
			Name:        "vapor_properties",
			Description: "vapor density and fugacity coefficients at T, P, y",
			Keys:        []thermo.Key{keyT, keyP, keyYi},
			Run:         phaseProperties(vaporRoot, "yilist", "rhov", "phiv"),
		},
		{
			Name:        "saturation_properties",
			Description: "saturation pressure and coexisting densities of a pure component",
			Keys:        []thermo.Key{keyT, keyComp},
			Run:         saturationProperties,
		},
		{
			Name:        "bubble_pressure",
			Description: "bubble point pressure and incipient vapor composition",
			Keys:        []thermo.Key{keyT, keyXi},
			Run:         saturationPoint(bubblePoint, "xilist"),
		},
		{
			Name:        "dew_pressure",
			Description: "dew point pressure and incipient liquid composition",
			Keys:        []thermo.Key{keyT, keyYi},
			Run:         saturationPoint(dewPoint, "yilist"),
		},
		{
			Name:        "activity_coefficient",
			Description: "liquid activity coefficients relative to the pure liquids at T, P",
			Keys:        []thermo.Key{keyT, keyP, keyXi},
			Run:         activityCoefficient,
		},
	}
}

// Register adds every bundled calculation to r.
func Register(r *thermo.Registry) {
	for _, c := range Calculations() {
		r.Register(c)
	}
}

// NewRegistry returns a registry holding every bundled calculation.
func NewRegistry() *thermo.Registry {
	r := thermo.NewRegistry()
	Register(r)
	return r
}
