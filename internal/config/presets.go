package config

var Presets = map[string]*Config{
	"figure8": {
		Scene: "figure8", Integrator: "yoshida4", Dt: 0.04, Steps: 158,
		G: 1, AngleDeg: 0, MonteCarloPoints: DefaultSamples,
	},
	"orbit": {
		Scene: "orbit", Integrator: "velocity_verlet", Dt: 0.005, Steps: 5000,
		G: 1, AngleDeg: DefaultAngleDeg, MonteCarloPoints: DefaultSamples,
	},
	"galaxies": {
		Scene: "galaxies", Integrator: "velocity_verlet", Dt: 0.01, Steps: 2000,
		G: 1, AngleDeg: DefaultAngleDeg, MonteCarloPoints: DefaultSamples,
		FarFieldCutoff: 200, ParticleCap: 4096, Seed: 1,
	},
	"galaxies-exact": {
		Scene: "galaxies", Integrator: "velocity_verlet", Dt: 0.01, Steps: 500,
		G: 1, AngleDeg: 0, MonteCarloPoints: DefaultSamples,
		FarFieldCutoff: 200, ParticleCap: 1024, Seed: 1,
	},
}
