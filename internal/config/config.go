package config

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/thermokit/internal/eos"
	"github.com/san-kum/thermokit/internal/thermo"
)

const (
	DefaultOutputFile = "thermokit_out.txt"
	DefaultDataDir    = ".thermokit"
)

// Config is one input file. Every top-level key other than eos,
// output_file and calculations belongs to Calculation.
type Config struct {
	EOS          eos.Config      `yaml:"eos"`
	OutputFile   string          `yaml:"output_file,omitempty"`
	Calculation  thermo.Params   `yaml:"-"`
	Calculations []thermo.Params `yaml:"calculations,omitempty"`
}

// reserved keys are consumed by Config itself.
var reserved = []string{"eos", "output_file", "calculations"}

type fileLayout struct {
	EOS          yaml.Node       `yaml:"eos"`
	OutputFile   string          `yaml:"output_file"`
	Calculations []thermo.Params `yaml:"calculations"`
}

func DefaultConfig() *Config {
	return &Config{
		EOS:         eos.Config{Type: "peng_robinson"},
		OutputFile:  DefaultOutputFile,
		Calculation: thermo.Params{},
	}
}

// Load reads a YAML or JSON input file. When the eos entry is a string it
// names a separate model file, resolved against libraryDir when relative.
func Load(path, libraryDir string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data, libraryDir)
}

func Parse(data []byte, libraryDir string) (*Config, error) {
	var layout fileLayout
	if err := yaml.Unmarshal(data, &layout); err != nil {
		return nil, fmt.Errorf("parse input: %w", err)
	}
	var rest thermo.Params
	if err := yaml.Unmarshal(data, &rest); err != nil {
		return nil, fmt.Errorf("parse input: %w", err)
	}
	for _, k := range reserved {
		delete(rest, k)
	}

	cfg := DefaultConfig()
	if layout.OutputFile != "" {
		cfg.OutputFile = layout.OutputFile
	}
	cfg.Calculations = layout.Calculations
	if rest != nil {
		cfg.Calculation = rest
	}

	switch layout.EOS.Kind {
	case 0:
		return nil, fmt.Errorf("parse input: no eos section")
	case yaml.ScalarNode:
		eosCfg, err := LoadEOS(resolve(layout.EOS.Value, libraryDir))
		if err != nil {
			return nil, err
		}
		cfg.EOS = *eosCfg
	default:
		if err := layout.EOS.Decode(&cfg.EOS); err != nil {
			return nil, fmt.Errorf("parse eos section: %w", err)
		}
	}
	return cfg, nil
}

// LoadEOS reads a standalone model file.
func LoadEOS(path string) (*eos.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read eos file: %w", err)
	}
	var cfg eos.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse eos file %s: %w", path, err)
	}
	return &cfg, nil
}

func resolve(path, dir string) string {
	if filepath.IsAbs(path) || dir == "" {
		return path
	}
	return filepath.Join(dir, path)
}

// Save writes cfg in the same layout Load reads.
func Save(path string, cfg *Config) error {
	doc := map[string]any{}
	maps.Copy(doc, cfg.Calculation)
	doc["eos"] = cfg.EOS
	if cfg.OutputFile != "" {
		doc["output_file"] = cfg.OutputFile
	}
	if len(cfg.Calculations) > 0 {
		doc["calculations"] = cfg.Calculations
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Requests returns the calculation mappings to dispatch. Entries of a
// calculations list inherit every top-level key they do not set.
func (c *Config) Requests() []thermo.Params {
	if len(c.Calculations) == 0 {
		return []thermo.Params{c.Calculation.Clone()}
	}
	out := make([]thermo.Params, len(c.Calculations))
	for i, calc := range c.Calculations {
		merged := c.Calculation.Clone()
		if merged == nil {
			merged = thermo.Params{}
		}
		maps.Copy(merged, calc)
		out[i] = merged
	}
	return out
}

// SetCalculationType makes name the calculation type of every request,
// including calculations entries that set their own.
func (c *Config) SetCalculationType(name string) {
	if c.Calculation == nil {
		c.Calculation = thermo.Params{}
	}
	c.Calculation[thermo.CalculationTypeKey] = name
	for i := range c.Calculations {
		if c.Calculations[i] == nil {
			c.Calculations[i] = thermo.Params{}
		}
		c.Calculations[i][thermo.CalculationTypeKey] = name
	}
}

// NewModel builds the equation of state the config describes.
func (c *Config) NewModel() (eos.Model, error) {
	return eos.New(c.EOS)
}
