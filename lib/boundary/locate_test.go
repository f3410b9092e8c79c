package boundary

import (
	"math"
	"testing"

	"github.com/plasmago/picell/lib/geom"
	"github.com/plasmago/picell/lib/particles"
)

// linearFieldZ samples phi(z) = z - zSurface on [0, 10].
func linearFieldZ(t *testing.T, zSurface float64) *geom.DistanceField {
	n := 101
	phi := make([]float64, n)
	for i := range phi {
		phi[i] = float64(i)*0.1 - zSurface
	}
	f, err := geom.NewDistanceField(
		[]float64{ 0 }, []float64{ 10 }, []int{ n }, phi,
	)
	if err != nil {
		t.Fatalf("Could not create distance field: %s", err.Error())
	}
	return f
}

func TestBisect(t *testing.T) {
	root := bisect(func(x float64) float64 { return x - 0.3 }, 0, 1)
	if math.Abs(root-0.3) > BisectTol {
		t.Errorf("Expected root 0.3, got %g.", root)
	}

	// Decreasing target functions bracket the same way.
	root = bisect(func(x float64) float64 { return 0.7 - x }, 0, 1)
	if math.Abs(root-0.7) > BisectTol {
		t.Errorf("Expected root 0.7, got %g.", root)
	}
}

func TestEBMatcherPredicate(t *testing.T) {
	d := descriptor1DZ(t, false, true)
	m := NewEBMatcher(d, linearFieldZ(t, 2), 1)

	tile := tile1DZ(t, []float64{ 1, 3 })
	pred := m.Bind(tile)
	if !pred(0) {
		t.Errorf("Expected the particle at z = 1 (phi < 0) to match.")
	}
	if pred(1) {
		t.Errorf("Expected the particle at z = 3 (phi > 0) not to match.")
	}
}

func TestEBTransformFindsCrossing(t *testing.T) {
	d := descriptor1DZ(t, false, true)
	dt := 1.0
	m := NewEBMatcher(d, linearFieldZ(t, 2), dt)

	// A particle moving in -z crossed the surface at z = 2 halfway through
	// the step: it started at z = 3 and ended at z = 1. Momenta are small
	// against c, so gamma is 1 and the analytic crossing fraction is 0.5.
	tile := tile1DZ(t, []float64{ 1 })
	copy(tile.Float("uz"), []float64{ -2 })

	m.Transform(tile, []int{ 0 })

	z := tile.Float("z")[0]
	if math.Abs(z-2) > 10*BisectTol {
		t.Errorf("Expected the stored position to be the surface crossing z = 2, got %g.", z)
	}

	// The stored position must satisfy the matching field to within the
	// bisection tolerance.
	phi := linearFieldZ(t, 2).At([]float64{ z })
	if math.Abs(phi) > 10*BisectTol {
		t.Errorf("Expected the stored position to lie on the surface, got phi = %g.", phi)
	}
}

func TestEBTransformRZRewritesTheta(t *testing.T) {
	d, err := geom.NewDescriptor(
		geom.CartesianRZ, []float64{ 0, 0 }, []float64{ 10, 10 },
		[]bool{ false, false }, [][]float64{ { 10, 10 } }, true,
	)
	if err != nil {
		t.Fatalf("Could not create descriptor: %s", err.Error())
	}

	// phi(r, z) = r - 2: a cylindrical surface at r = 2.
	n := 101
	phi := make([]float64, n*n)
	idx := 0
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			phi[idx] = float64(i)*0.1 - 2
			idx++
		}
	}
	field, err := geom.NewDistanceField(
		[]float64{ 0, 0 }, []float64{ 10, 10 }, []int{ n, n }, phi,
	)
	if err != nil {
		t.Fatalf("Could not create distance field: %s", err.Error())
	}

	schema, err := particles.BaseSchema(geom.CartesianRZ, nil, nil)
	if err != nil {
		t.Fatalf("Could not create schema: %s", err.Error())
	}
	tile := particles.NewTile(schema)
	tile.Resize(1)

	// The particle moved inward along x (theta = 0): from r = 3 to r = 1
	// over the step.
	copy(tile.Float("r"), []float64{ 1 })
	copy(tile.Float("theta"), []float64{ 0 })
	copy(tile.Float("z"), []float64{ 5 })
	copy(tile.Float("ux"), []float64{ -2 })

	m := NewEBMatcher(d, field, 1)
	m.Transform(tile, []int{ 0 })

	if r := tile.Float("r")[0]; math.Abs(r-2) > 10*BisectTol {
		t.Errorf("Expected the radial coordinate on the surface r = 2, got %g.", r)
	}
	if theta := tile.Float("theta")[0]; math.Abs(theta) > 1e-12 {
		t.Errorf("Expected theta to stay 0 for inward motion along x, got %g.", theta)
	}
	if z := tile.Float("z")[0]; math.Abs(z-5) > 1e-12 {
		t.Errorf("Expected z to be unchanged, got %g.", z)
	}
}
