package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.EOS.Type != "peng_robinson" {
		t.Errorf("expected peng_robinson, got %s", cfg.EOS.Type)
	}
	if cfg.OutputFile != DefaultOutputFile {
		t.Errorf("expected output file %s, got %s", DefaultOutputFile, cfg.OutputFile)
	}
}

func TestParseInline(t *testing.T) {
	doc := `
eos:
  type: van_der_waals
  components:
    - {name: methane, tc: 190.56, pc: 4.599e6, omega: 0.011}
calculation_type: saturation_properties
Tlist: [120, 140]
output_file: methane.txt
`
	cfg, err := Parse([]byte(doc), "")
	if err != nil {
		t.Fatal(err)
	}

	if cfg.EOS.Type != "van_der_waals" || len(cfg.EOS.Components) != 1 {
		t.Errorf("unexpected eos config: %+v", cfg.EOS)
	}
	if cfg.OutputFile != "methane.txt" {
		t.Errorf("expected methane.txt, got %s", cfg.OutputFile)
	}
	if cfg.Calculation["calculation_type"] != "saturation_properties" {
		t.Errorf("unexpected calculation: %v", cfg.Calculation)
	}
	for _, k := range reserved {
		if cfg.Calculation.Has(k) {
			t.Errorf("reserved key %s leaked into calculation", k)
		}
	}
	if len(cfg.Calculation) != 2 {
		t.Errorf("expected 2 calculation keys, got %v", cfg.Calculation)
	}
}

func TestParseJSON(t *testing.T) {
	doc := `{"eos": {"type": "ideal_gas", "components": [{"name": "argon"}]},
	         "calculation_type": "vapor_properties", "Tlist": [300], "Plist": [1e5]}`
	cfg, err := Parse([]byte(doc), "")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := cfg.NewModel(); err != nil {
		t.Errorf("model: %v", err)
	}
	if cfg.OutputFile != DefaultOutputFile {
		t.Errorf("expected default output file, got %s", cfg.OutputFile)
	}
}

func TestParseEOSFile(t *testing.T) {
	dir := t.TempDir()
	eosDoc := "type: peng_robinson\ncomponents:\n  - {name: propane, tc: 369.83, pc: 4.248e6, omega: 0.152}\n"
	if err := os.WriteFile(filepath.Join(dir, "propane.yaml"), []byte(eosDoc), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Parse([]byte("eos: propane.yaml\ncalculation_type: saturation_properties\n"), dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.EOS.Components) != 1 || cfg.EOS.Components[0].Name != "propane" {
		t.Errorf("unexpected eos from file: %+v", cfg.EOS)
	}

	if _, err := Parse([]byte("eos: missing.yaml\n"), dir); err == nil {
		t.Error("expected error for missing eos file")
	}
}

func TestParseNoEOS(t *testing.T) {
	if _, err := Parse([]byte("calculation_type: pressure\n"), ""); err == nil {
		t.Error("expected error without eos section")
	}
}

func TestRequestsInherit(t *testing.T) {
	doc := `
eos: {type: ideal_gas, components: [{name: a}]}
Plist: [1e5]
calculations:
  - {calculation_type: vapor_properties, Tlist: [300]}
  - {calculation_type: liquid_properties, Tlist: [250], Plist: [2e5]}
`
	cfg, err := Parse([]byte(doc), "")
	if err != nil {
		t.Fatal(err)
	}
	reqs := cfg.Requests()
	if len(reqs) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(reqs))
	}
	if p, _ := reqs[0].Floats("Plist"); len(p) != 1 || p[0] != 1e5 {
		t.Errorf("first request should inherit Plist, got %v", reqs[0])
	}
	if p, _ := reqs[1].Floats("Plist"); len(p) != 1 || p[0] != 2e5 {
		t.Errorf("second request should override Plist, got %v", reqs[1])
	}
	if reqs[0]["calculation_type"] != "vapor_properties" {
		t.Errorf("unexpected first request %v", reqs[0])
	}
}

func TestSetCalculationTypeOverridesBatch(t *testing.T) {
	doc := `
eos: {type: ideal_gas, components: [{name: a}]}
calculation_type: pressure
calculations:
  - {calculation_type: vapor_properties}
  - {Tlist: [250]}
`
	cfg, err := Parse([]byte(doc), "")
	if err != nil {
		t.Fatal(err)
	}
	cfg.SetCalculationType("liquid_properties")

	for i, req := range cfg.Requests() {
		if req["calculation_type"] != "liquid_properties" {
			t.Errorf("request %d: calculation_type = %v", i, req["calculation_type"])
		}
	}
}

func TestSetCalculationTypeSingle(t *testing.T) {
	cfg := &Config{}
	cfg.SetCalculationType("pressure")
	reqs := cfg.Requests()
	if len(reqs) != 1 || reqs[0]["calculation_type"] != "pressure" {
		t.Errorf("unexpected requests %v", reqs)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	cfg := GetPreset("bubble_pressure", "propane_butane")
	path := filepath.Join(t.TempDir(), "input.yaml")
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path, "")
	if err != nil {
		t.Fatal(err)
	}
	if loaded.EOS.Type != cfg.EOS.Type || len(loaded.EOS.Components) != 2 {
		t.Errorf("eos mismatch: %+v", loaded.EOS)
	}
	X, err := loaded.Calculation.Matrix("xilist")
	if err != nil || len(X) != 5 {
		t.Errorf("xilist = %v, %v", X, err)
	}
	if _, err := loaded.NewModel(); err != nil {
		t.Errorf("model: %v", err)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("saturation_properties", "propane")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.EOS.Components[0].Name != "propane" {
		t.Errorf("expected propane, got %s", cfg.EOS.Components[0].Name)
	}

	cfg.Calculation["Tlist"] = 1
	if _, ok := Presets["saturation_properties"]["propane"].Calculation["Tlist"].([]float64); !ok {
		t.Error("mutating a returned preset changed the preset table")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if GetPreset("saturation_properties", "nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if GetPreset("nonexistent", "propane") != nil {
		t.Error("expected nil for nonexistent calculation type")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets("saturation_properties")
	if len(presets) != 3 || presets[0] != "methane_vdw" {
		t.Errorf("unexpected presets %v", presets)
	}
	if ListPresets("nonexistent") != nil {
		t.Error("expected nil for nonexistent calculation type")
	}
}

func TestPresetsBuildModels(t *testing.T) {
	for calc, byName := range Presets {
		for name, cfg := range byName {
			if _, err := cfg.NewModel(); err != nil {
				t.Errorf("%s/%s: %v", calc, name, err)
			}
			if cfg.Calculation["calculation_type"] != calc {
				t.Errorf("%s/%s: calculation_type is %v", calc, name, cfg.Calculation["calculation_type"])
			}
		}
	}
}

func TestParseEnv(t *testing.T) {
	t.Setenv("THERMOKIT_DATA_DIR", "/tmp/runs")
	t.Setenv("THERMOKIT_WORKERS", "4")

	e, err := ParseEnv()
	if err != nil {
		t.Fatal(err)
	}
	if e.DataDir != "/tmp/runs" || e.Workers != 4 {
		t.Errorf("unexpected env %+v", e)
	}
	if e.LogLevel != "warn" {
		t.Errorf("expected default log level warn, got %s", e.LogLevel)
	}
}

func TestVerbosityLevel(t *testing.T) {
	tests := []struct {
		base  slog.Level
		count int
		want  slog.Level
	}{
		{slog.LevelError, 0, slog.LevelError},
		{slog.LevelError, 1, slog.LevelWarn},
		{slog.LevelWarn, 2, slog.LevelInfo},
		{slog.LevelWarn, 5, slog.LevelDebug},
		{slog.LevelDebug, 1, slog.LevelDebug},
	}
	for _, tt := range tests {
		if got := VerbosityLevel(tt.base, tt.count); got != tt.want {
			t.Errorf("VerbosityLevel(%v, %d) = %v, want %v", tt.base, tt.count, got, tt.want)
		}
	}
	if _, err := Level("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}
