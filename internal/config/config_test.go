package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Integrator != "velocity_verlet" {
		t.Errorf("default integrator = %q", cfg.Integrator)
	}
	if cfg.Dt != DefaultDt || cfg.Steps != DefaultSteps {
		t.Errorf("default dt/steps = %g/%d", cfg.Dt, cfg.Steps)
	}
	if _, err := cfg.Params(); err != nil {
		t.Errorf("default config does not translate: %v", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	cfg := DefaultConfig()
	cfg.Scene = "figure8"
	cfg.Dt = 0.04
	cfg.Steps = 158
	cfg.AngleDeg = 0
	cfg.Seed = 42

	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if *loaded != *cfg {
		t.Errorf("round trip changed the config:\n got %+v\nwant %+v", loaded, cfg)
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "partial.yaml")
	if err := os.WriteFile(path, []byte("scene: orbit\ndt: 0.005\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Scene != "orbit" || cfg.Dt != 0.005 {
		t.Errorf("explicit fields lost: %+v", cfg)
	}
	if cfg.Integrator != "velocity_verlet" || cfg.MonteCarloPoints != DefaultSamples {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("missing file did not error")
	}
}

func TestParamsAngleConversion(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AngleDeg = 45
	p, err := cfg.Params()
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(p.TanAngle-1) > 1e-12 {
		t.Errorf("tan(45 deg) = %g, want 1", p.TanAngle)
	}

	cfg.AngleDeg = 0
	p, err = cfg.Params()
	if err != nil {
		t.Fatal(err)
	}
	if p.TanAngle != 0 {
		t.Errorf("tan(0) = %g, want 0", p.TanAngle)
	}

	cfg.AngleDeg = 90
	if _, err := cfg.Params(); err == nil {
		t.Error("90 degrees accepted")
	}
	cfg.AngleDeg = -1
	if _, err := cfg.Params(); err == nil {
		t.Error("negative angle accepted")
	}
}

func TestPresetsTranslate(t *testing.T) {
	for name, cfg := range Presets {
		if _, err := cfg.Params(); err != nil {
			t.Errorf("preset %q does not translate: %v", name, err)
		}
		if cfg.Scene == "" {
			t.Errorf("preset %q names no scene", name)
		}
	}
}
