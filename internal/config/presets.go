package config

import (
	"slices"

	"github.com/san-kum/thermokit/internal/eos"
	"github.com/san-kum/thermokit/internal/thermo"
)

var (
	methane = eos.Component{Name: "methane", Tc: 190.56, Pc: 4.599e6, Omega: 0.011}
	propane = eos.Component{Name: "propane", Tc: 369.83, Pc: 4.248e6, Omega: 0.152}
	butane  = eos.Component{Name: "butane", Tc: 425.12, Pc: 3.796e6, Omega: 0.200}
	water   = eos.Component{Name: "water", Tc: 647.10, Pc: 22.064e6, Omega: 0.345}
)

func preset(eosType string, calc thermo.Params, cs ...eos.Component) *Config {
	return &Config{
		EOS:         eos.Config{Type: eosType, Components: cs},
		OutputFile:  DefaultOutputFile,
		Calculation: calc,
	}
}

// Presets holds example inputs; calculation type => preset name => config.
var Presets = map[string]map[string]*Config{
	"saturation_properties": {
		"propane": preset("peng_robinson", thermo.Params{
			"calculation_type": "saturation_properties",
			"Tlist":            []float64{230, 250, 270, 290, 310, 330, 350},
		}, propane),
		"water": preset("peng_robinson", thermo.Params{
			"calculation_type": "saturation_properties",
			"Tlist":            []float64{300, 350, 400, 450, 500, 550, 600},
		}, water),
		"methane_vdw": preset("van_der_waals", thermo.Params{
			"calculation_type": "saturation_properties",
			"Tlist":            []float64{120, 140, 160, 180},
		}, methane),
	},
	"bubble_pressure": {
		"propane_butane": preset("peng_robinson", thermo.Params{
			"calculation_type": "bubble_pressure",
			"Tlist":            []float64{300},
			"xilist":           [][]float64{{0.1, 0.9}, {0.3, 0.7}, {0.5, 0.5}, {0.7, 0.3}, {0.9, 0.1}},
		}, propane, butane),
	},
	"dew_pressure": {
		"propane_butane": preset("peng_robinson", thermo.Params{
			"calculation_type": "dew_pressure",
			"Tlist":            []float64{300},
			"yilist":           [][]float64{{0.1, 0.9}, {0.3, 0.7}, {0.5, 0.5}, {0.7, 0.3}, {0.9, 0.1}},
		}, propane, butane),
	},
	"pressure": {
		"methane_isotherm": preset("peng_robinson", thermo.Params{
			"calculation_type": "pressure",
			"T":                150.0,
			"rholist":          []float64{100, 500, 1000, 2000, 4000, 8000, 12000, 16000, 20000, 24000},
		}, methane),
	},
	"liquid_properties": {
		"compressed_propane": preset("peng_robinson", thermo.Params{
			"calculation_type": "liquid_properties",
			"Tlist":            []float64{280, 300, 320},
			"Plist":            []float64{5e6},
		}, propane),
	},
	"vapor_properties": {
		"propane_butane": preset("peng_robinson", thermo.Params{
			"calculation_type": "vapor_properties",
			"Tlist":            []float64{350},
			"Plist":            []float64{1e5, 3e5, 5e5},
			"yilist":           [][]float64{{0.5, 0.5}},
		}, propane, butane),
	},
	"activity_coefficient": {
		"propane_butane": preset("peng_robinson", thermo.Params{
			"calculation_type": "activity_coefficient",
			"Tlist":            []float64{280},
			"Plist":            []float64{2e6},
			"xilist":           [][]float64{{0.2, 0.8}, {0.5, 0.5}, {0.8, 0.2}},
		}, propane, butane),
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(calculationType, name string) *Config {
	byName, ok := Presets[calculationType]
	if !ok {
		return nil
	}
	cfg, ok := byName[name]
	if !ok {
		return nil
	}
	out := *cfg
	out.Calculation = cfg.Calculation.Clone()
	return &out
}

// ListPresets returns the preset names for a calculation type in sorted
// order, or nil when there are none.
func ListPresets(calculationType string) []string {
	byName, ok := Presets[calculationType]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
