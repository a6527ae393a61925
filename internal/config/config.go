package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/grav2d/internal/morton"
	"github.com/san-kum/grav2d/internal/sim"
)

const (
	DefaultDt       = 0.01
	DefaultSteps    = 1000
	DefaultAngleDeg = 30.0
	DefaultSamples  = 30
	DefaultG        = 1.0
)

type Config struct {
	Scene            string  `yaml:"scene"`
	Integrator       string  `yaml:"integrator"`
	Dt               float64 `yaml:"dt"`
	Steps            int     `yaml:"steps"`
	Seed             int64   `yaml:"seed"`
	G                float64 `yaml:"g"`
	AngleDeg         float64 `yaml:"angle_deg"`
	Precision        float64 `yaml:"precision"`
	MonteCarloPoints int     `yaml:"monte_carlo_points"`
	FarFieldCutoff   float64 `yaml:"far_field_cutoff"`
	ParticleCap      int     `yaml:"particle_cap"`
	Workers          int     `yaml:"workers"`
}

func DefaultConfig() *Config {
	return &Config{
		Scene:            "galaxies",
		Integrator:       "velocity_verlet",
		Dt:               DefaultDt,
		Steps:            DefaultSteps,
		G:                DefaultG,
		AngleDeg:         DefaultAngleDeg,
		Precision:        morton.DefaultPrecision,
		MonteCarloPoints: DefaultSamples,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Params translates the file representation into driver parameters. The
// opening angle moves from degrees to its tangent here.
func (c *Config) Params() (sim.Params, error) {
	if c.AngleDeg < 0 || c.AngleDeg >= 90 {
		return sim.Params{}, fmt.Errorf("angle_deg must be in [0, 90), got %g", c.AngleDeg)
	}
	p := sim.DefaultParams()
	p.G = c.G
	p.TanAngle = math.Tan(c.AngleDeg * math.Pi / 180)
	p.Integrator = c.Integrator
	p.Samples = c.MonteCarloPoints
	p.FarFieldCutoff = c.FarFieldCutoff
	p.ParticleCap = c.ParticleCap
	p.Workers = c.Workers
	if c.Precision > 0 {
		p.Precision = c.Precision
	}
	return p, nil
}
