// Package scene builds canned initial conditions for the particle table.
package scene

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/san-kum/grav2d/internal/body"
	"github.com/san-kum/grav2d/internal/geom"
)

const (
	meanMass   = 1.0
	meanRadius = 0.05
	sdevMass   = 1.0
	sdevRadius = 1.25
)

// New builds the named scene. Random scenes draw from rng; limit caps the
// particle count where the scene is open-ended.
func New(name string, rng *rand.Rand, limit int) ([]body.Particle, error) {
	switch name {
	case "figure8":
		return Figure8(), nil
	case "orbit":
		return Orbit(), nil
	case "galaxies":
		return Galaxies(rng, limit), nil
	default:
		return nil, fmt.Errorf("unknown scene %q", name)
	}
}

// Names lists the accepted scene names.
func Names() []string { return []string{"figure8", "galaxies", "orbit"} }

// Figure8 places three equal bodies on the stable figure-eight choreography.
// Periodic with G = 1; the period is close to 6.32.
func Figure8() []body.Particle {
	c0 := geom.Vec2{X: -0.97000436, Y: 0.24308753}
	v0 := geom.Vec2{X: 0.4662036850, Y: 0.4323657300}
	v1 := geom.Vec2{X: -0.93240737, Y: -0.86473146}
	return []body.Particle{
		{Pos: c0, Vel: v0, Mass: meanMass, Radius: meanRadius},
		{Pos: geom.Vec2{}, Vel: v1, Mass: meanMass, Radius: meanRadius},
		{Pos: c0.Scale(-1), Vel: v0, Mass: meanMass, Radius: meanRadius},
	}
}

// Orbit is a light body on a circular orbit around a heavy one. With G = 1
// the speed at unit distance from a unit mass is exactly 1.
func Orbit() []body.Particle {
	return []body.Particle{
		{Pos: geom.Vec2{}, Vel: geom.Vec2{}, Mass: 1, Radius: meanRadius},
		{Pos: geom.Vec2{X: 1}, Vel: geom.Vec2{Y: 1}, Mass: 1e-9, Radius: meanRadius / 10},
	}
}

// Galaxies scatters elliptical clusters of log-normal particles. Each
// cluster gets its own ellipse shape, a panned center, and a common spin
// factor that doubles as a velocity-free rotation of the whole cluster.
func Galaxies(rng *rand.Rand, limit int) []body.Particle {
	particles := make([]body.Particle, 0, limit)
	countDist := logNormal(math.Log(math.Sqrt(float64(limit))), 1)
	for len(particles) < limit {
		n := int(math.Min(countDist(rng), float64(limit-len(particles))))
		if n <= 0 {
			break
		}
		first := len(particles)
		for i := 0; i < n; i++ {
			particles = append(particles, randomParticle(rng))
		}
		axes := geom.Vec2{
			X: math.Exp(rng.NormFloat64()*0.5 - 0.5),
			Y: math.Exp(rng.NormFloat64()*0.5 - 0.5),
		}
		pan := geom.Vec2{X: rng.NormFloat64(), Y: rng.NormFloat64()}.Scale(4)
		spinAngle := rng.Float64() * 2 * math.Pi
		cs, sn := math.Cos(spinAngle), math.Sin(spinAngle)
		for i := first; i < len(particles); i++ {
			p := geom.Vec2{
				X: rng.NormFloat64() * axes.X / 2,
				Y: rng.NormFloat64() * axes.Y / 2,
			}.Add(pan)
			particles[i].Pos = geom.Vec2{
				X: 4 * (p.X*cs - p.Y*sn),
				Y: 4 * (p.X*sn + p.Y*cs),
			}
		}
	}
	return particles
}

func randomParticle(rng *rand.Rand) body.Particle {
	mass := logNormal(math.Log(meanMass), math.Log(sdevMass))(rng)
	radius := logNormal(math.Log(meanRadius), math.Log(sdevRadius))(rng)
	return body.Particle{Mass: mass, Radius: radius}
}

func logNormal(mu, sigma float64) func(*rand.Rand) float64 {
	return func(rng *rand.Rand) float64 {
		return math.Exp(mu + sigma*rng.NormFloat64())
	}
}
