package inject

import (
	"math"
	"testing"
)

func TestGaussianColdLimit(t *testing.T) {
	g := NewGaussian(Drift([3]float64{ }), Constant(0), 42)
	u := g.Sample(0, 0, 0)
	for i := range u {
		if u[i] != 0 {
			t.Errorf("Expected zero thermal spread at theta = 0, got u = %v.", u)
			break
		}
	}
}

func TestGaussianPureDrift(t *testing.T) {
	beta := 0.6
	g := NewGaussian(Drift([3]float64{ 0, 0, beta }), Constant(0), 42)
	u := g.Sample(0, 0, 0)

	// A cold drifting species moves at exactly gamma*beta*c along the drift.
	gamma := 1 / math.Sqrt(1-beta*beta)
	want := gamma * beta * speedOfLight
	if math.Abs(u[2]-want) > 1e-6*want {
		t.Errorf("Expected uz = %g, got %g.", want, u[2])
	}
	if u[0] != 0 || u[1] != 0 {
		t.Errorf("Expected no transverse momentum, got u = %v.", u)
	}
}

func TestGaussianSpread(t *testing.T) {
	theta := 0.01
	g := NewGaussian(Drift([3]float64{ }), Constant(theta), 42)

	n := 20000
	sum, sum2 := 0.0, 0.0
	for i := 0; i < n; i++ {
		u := g.Sample(0, 0, 0)
		ux := u[0] / speedOfLight
		sum += ux
		sum2 += ux * ux
	}
	mean := sum / float64(n)
	variance := sum2/float64(n) - mean*mean

	if math.Abs(mean) > 5*math.Sqrt(theta/float64(n)) {
		t.Errorf("Expected zero mean, got %g.", mean)
	}
	if math.Abs(variance-theta)/theta > 0.1 {
		t.Errorf("Expected variance %g, got %g.", theta, variance)
	}
}

func TestGaussianProfiles(t *testing.T) {
	// Position-dependent profiles are evaluated at the sample position.
	theta := func(x, y, z float64) float64 {
		if z > 0 { return 0 }
		return 1
	}
	beta := func(x, y, z float64) [3]float64 {
		if z > 0 { return [3]float64{ 0, 0, 0.5 } }
		return [3]float64{ }
	}

	g := NewGaussian(beta, theta, 42)
	u := g.Sample(0, 0, 1)
	gamma := 1 / math.Sqrt(1-0.25)
	want := gamma * 0.5 * speedOfLight
	if math.Abs(u[2]-want) > 1e-6*want {
		t.Errorf("Expected the z > 0 profile values, got u = %v.", u)
	}
}

func TestMaxwellJuttnerMeanEnergy(t *testing.T) {
	// For a Maxwell-Juttner distribution at theta >> 1 the mean Lorentz
	// factor approaches 3*theta.
	theta := 10.0
	m := NewMaxwellJuttner(Drift([3]float64{ }), Constant(theta), 42)

	n := 20000
	sum := 0.0
	for i := 0; i < n; i++ {
		u := m.Sample(0, 0, 0)
		ux := u[0] / speedOfLight
		uy := u[1] / speedOfLight
		uz := u[2] / speedOfLight
		sum += math.Sqrt(1 + ux*ux + uy*uy + uz*uz)
	}
	mean := sum / float64(n)

	if math.Abs(mean-3*theta)/(3*theta) > 0.1 {
		t.Errorf("Expected mean gamma near %g, got %g.", 3*theta, mean)
	}
}

func TestMaxwellJuttnerIsotropy(t *testing.T) {
	m := NewMaxwellJuttner(Drift([3]float64{ }), Constant(1), 42)

	n := 20000
	sum := [3]float64{ }
	for i := 0; i < n; i++ {
		u := m.Sample(0, 0, 0)
		for j := range sum {
			sum[j] += u[j] / speedOfLight
		}
	}
	for j := range sum {
		mean := sum[j] / float64(n)
		if math.Abs(mean) > 0.2 {
			t.Errorf("Expected zero mean momentum along axis %d, got %g.", j, mean)
		}
	}
}

func TestBoostTransverse(t *testing.T) {
	// Transverse components are unchanged by the boost.
	u := boost([3]float64{ 0.3, 0, 0 }, [3]float64{ 0, 0, 0.5 })
	if math.Abs(u[0]-0.3*speedOfLight) > 1e-9*speedOfLight {
		t.Errorf("Expected ux unchanged by a z boost, got %g.", u[0])
	}
	if u[1] != 0 {
		t.Errorf("Expected uy = 0, got %g.", u[1])
	}

	// The parallel component picks up gammaBulk*beta*gammaThermal.
	gammaTh := math.Sqrt(1 + 0.09)
	gammaB := 1 / math.Sqrt(1-0.25)
	want := gammaB * 0.5 * gammaTh * speedOfLight
	if math.Abs(u[2]-want) > 1e-9*want {
		t.Errorf("Expected uz = %g, got %g.", want, u[2])
	}
}
