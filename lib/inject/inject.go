/*package inject samples momenta for injected particles from drifting thermal
distributions. Invalid physical parameters abort the run: continuing with a
negative temperature or a superluminal drift would produce physically
meaningless results.*/
package inject

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/plasmago/picell/lib/error"
)

const speedOfLight = 299792458.0

// GetTemperature returns the local temperature theta = kT/(m c^2) at a
// position. Spatially uniform profiles can use Constant.
type GetTemperature func(x, y, z float64) float64

// GetVelocity returns the local bulk velocity beta = v/c at a position.
type GetVelocity func(x, y, z float64) [3]float64

// Constant returns a spatially uniform temperature profile.
func Constant(theta float64) GetTemperature {
	return func(x, y, z float64) float64 { return theta }
}

// Drift returns a spatially uniform bulk-velocity profile.
func Drift(beta [3]float64) GetVelocity {
	return func(x, y, z float64) [3]float64 { return beta }
}

// Gaussian samples momenta from a drifting non-relativistic thermal
// distribution: each proper-velocity component is Gaussian with spread
// sqrt(theta), boosted along the local bulk velocity.
type Gaussian struct {
	velocity    GetVelocity
	temperature GetTemperature
	norm        distuv.Normal
}

// NewGaussian creates a sampler with the given profiles and seed.
func NewGaussian(beta GetVelocity, theta GetTemperature, seed uint64) *Gaussian {
	return &Gaussian{
		velocity: beta, temperature: theta,
		norm: distuv.Normal{ Mu: 0, Sigma: 1, Src: rand.NewSource(seed) },
	}
}

// Sample draws a momentum u = gamma*v (in m/s) for a particle at the given
// position.
func (g *Gaussian) Sample(x, y, z float64) [3]float64 {
	theta := g.temperature(x, y, z)
	if theta < 0 {
		error.External("Negative temperature parameter theta encountered, " +
			"which is not allowed.")
	}
	beta := checkBeta(g.velocity(x, y, z))

	vave := math.Sqrt(theta)
	u := [3]float64{
		vave * g.norm.Rand(), vave * g.norm.Rand(), vave * g.norm.Rand(),
	}
	return boost(u, beta)
}

// MaxwellJuttner samples momenta from a drifting relativistic thermal
// distribution with the Sobol rejection method. The method degenerates for
// cold plasmas, so temperatures below MinJuttnerTheta abort.
type MaxwellJuttner struct {
	velocity    GetVelocity
	temperature GetTemperature
	uniform     distuv.Uniform
}

// MinJuttnerTheta is the lowest temperature the Sobol sampling method
// handles; colder species should use the Gaussian sampler.
const MinJuttnerTheta = 0.1

// NewMaxwellJuttner creates a sampler with the given profiles and seed.
func NewMaxwellJuttner(
	beta GetVelocity, theta GetTemperature, seed uint64,
) *MaxwellJuttner {
	return &MaxwellJuttner{
		velocity: beta, temperature: theta,
		uniform: distuv.Uniform{ Min: 0, Max: 1, Src: rand.NewSource(seed) },
	}
}

// Sample draws a momentum u = gamma*v (in m/s) for a particle at the given
// position.
func (m *MaxwellJuttner) Sample(x, y, z float64) [3]float64 {
	theta := m.temperature(x, y, z)
	if theta < MinJuttnerTheta {
		error.External("Temperature parameter theta is less than minimum " +
			"%g allowed for Maxwell-Juttner.", MinJuttnerTheta)
	}
	beta := checkBeta(m.velocity(x, y, z))

	// Sobol rejection sampling for |u|.
	var u float64
	for {
		r1, r2, r3 := m.uniform.Rand(), m.uniform.Rand(), m.uniform.Rand()
		u = -theta * math.Log(r1*r2*r3)
		eta := -theta * math.Log(r1*r2*r3*m.uniform.Rand())
		if eta*eta-u*u > 1 { break }
	}

	// Isotropic direction.
	cosT := 2*m.uniform.Rand() - 1
	sinT := math.Sqrt(1 - cosT*cosT)
	sinP, cosP := math.Sincos(2 * math.Pi * m.uniform.Rand())

	return boost([3]float64{
		u * sinT * cosP, u * sinT * sinP, u * cosT,
	}, beta)
}

// checkBeta aborts on superluminal bulk velocities.
func checkBeta(beta [3]float64) [3]float64 {
	b2 := beta[0]*beta[0] + beta[1]*beta[1] + beta[2]*beta[2]
	if b2 >= 1 {
		error.External("beta = v/c magnitude greater than or equal to 1.")
	}
	return beta
}

// boost applies a Lorentz boost with bulk velocity beta to a thermal proper
// velocity u (both in units of c) and converts to m/s: the component along
// the drift picks up gammaBulk*(uPar + beta*gammaThermal), the perpendicular
// components are unchanged.
func boost(u, beta [3]float64) [3]float64 {
	b := math.Sqrt(beta[0]*beta[0] + beta[1]*beta[1] + beta[2]*beta[2])
	if b == 0 {
		return [3]float64{
			u[0] * speedOfLight, u[1] * speedOfLight, u[2] * speedOfLight,
		}
	}

	n := [3]float64{ beta[0] / b, beta[1] / b, beta[2] / b }
	uPar := u[0]*n[0] + u[1]*n[1] + u[2]*n[2]
	gammaTh := math.Sqrt(1 + u[0]*u[0] + u[1]*u[1] + u[2]*u[2])
	gammaB := 1 / math.Sqrt(1-b*b)
	shift := gammaB*(uPar+b*gammaTh) - uPar

	out := [3]float64{ }
	for i := range out {
		out[i] = (u[i] + shift*n[i]) * speedOfLight
	}
	return out
}
