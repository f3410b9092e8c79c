package boundary

/* This file contains the embedded-boundary matcher: the signed-distance
predicate and the bisection search that moves matched particles back onto the
boundary surface. */

import (
	"math"

	"github.com/plasmago/picell/lib/geom"
	"github.com/plasmago/picell/lib/particles"
)

const (
	// SpeedOfLight is in m/s. Momenta are stored as u = gamma*v per unit
	// mass, so position updates divide by the Lorentz factor.
	SpeedOfLight = 299792458.0

	// The bisection runs until the bracketing interval is below BisectTol
	// or the iteration cap is hit.
	BisectTol     = 1e-6
	bisectMaxIter = 100
)

// EBMatcher flags particles whose interpolated signed distance to the
// embedded boundary is negative, and relocates matched particles to the
// point where their trajectory crossed the surface.
type EBMatcher struct {
	dim geom.Dim
	phi *geom.DistanceField
	dt  float64
}

// NewEBMatcher builds the embedded-boundary matcher for one refinement level.
// phi is that level's signed-distance field and dt its time-step size.
func NewEBMatcher(d *geom.Descriptor, phi *geom.DistanceField, dt float64) *EBMatcher {
	return &EBMatcher{ d.Dim, phi, dt }
}

func (m *EBMatcher) Bind(src *particles.Tile) func(i int) bool {
	pos := make([]float64, len(m.phi.N))
	read := bindPosition(m.dim, src)
	return func(i int) bool {
		x, y, z := read(i)
		fieldCoords(m.dim, x, y, z, pos)
		return m.phi.At(pos) < 0
	}
}

// Transform refines the crossing point of each matched row. A bisection over
// the fraction f of the step finds where the signed distance along the
// backward trajectory crosses zero; the row's position is overwritten with
// the surface-intersection position the fraction implies.
func (m *EBMatcher) Transform(dst *particles.Tile, rows []int) {
	ux, uy, uz := dst.Float("ux"), dst.Float("uy"), dst.Float("uz")
	read := bindPosition(m.dim, dst)
	pos := make([]float64, len(m.phi.N))

	for _, i := range rows {
		x, y, z := read(i)
		u0, u1, u2 := ux[i], uy[i], uz[i]

		frac := bisect(func(f float64) float64 {
			bx, by, bz := pushPosition(x, y, z, u0, u1, u2, -f*m.dt)
			fieldCoords(m.dim, bx, by, bz, pos)
			return m.phi.At(pos)
		}, 0, 1)

		bx, by, bz := pushPosition(x, y, z, u0, u1, u2, -frac*m.dt)
		writePosition(m.dim, dst, i, bx, by, bz)
	}
}

// pushPosition advances a Cartesian position by dt with the relativistic
// update x += u*dt/gamma.
func pushPosition(x, y, z, ux, uy, uz, dt float64) (float64, float64, float64) {
	u2 := ux*ux + uy*uy + uz*uz
	invGamma := 1 / math.Sqrt(1+u2/(SpeedOfLight*SpeedOfLight))
	return x + ux*invGamma*dt, y + uy*invGamma*dt, z + uz*invGamma*dt
}

// bisect finds a root of f on [lo, hi] by interval halving. The endpoints
// are assumed to bracket a sign change.
func bisect(f func(float64) float64, lo, hi float64) float64 {
	flo := f(lo)
	for it := 0; it < bisectMaxIter && hi-lo > BisectTol; it++ {
		mid := 0.5 * (lo + hi)
		fmid := f(mid)
		if (fmid < 0) == (flo < 0) {
			lo, flo = mid, fmid
		} else {
			hi = mid
		}
	}
	return 0.5 * (lo + hi)
}

// bindPosition returns a reader for the Cartesian-equivalent position of one
// tile's rows. Axes the mode does not store read as zero; axisymmetric runs
// reconstruct x and y from (r, theta).
func bindPosition(dim geom.Dim, t *particles.Tile) func(i int) (x, y, z float64) {
	switch dim {
	case geom.Cartesian1DZ:
		z := t.Float("z")
		return func(i int) (float64, float64, float64) {
			return 0, 0, z[i]
		}
	case geom.CartesianXZ:
		x, z := t.Float("x"), t.Float("z")
		return func(i int) (float64, float64, float64) {
			return x[i], 0, z[i]
		}
	case geom.CartesianRZ:
		r, theta, z := t.Float("r"), t.Float("theta"), t.Float("z")
		return func(i int) (float64, float64, float64) {
			sin, cos := math.Sincos(theta[i])
			return r[i] * cos, r[i] * sin, z[i]
		}
	default:
		x, y, z := t.Float("x"), t.Float("y"), t.Float("z")
		return func(i int) (float64, float64, float64) {
			return x[i], y[i], z[i]
		}
	}
}

// writePosition stores a Cartesian position into row i's coordinate subset.
// Axisymmetric runs recompute the radial coordinate and the azimuthal angle.
func writePosition(dim geom.Dim, t *particles.Tile, i int, x, y, z float64) {
	switch dim {
	case geom.Cartesian1DZ:
		t.Float("z")[i] = z
	case geom.CartesianXZ:
		t.Float("x")[i] = x
		t.Float("z")[i] = z
	case geom.CartesianRZ:
		t.Float("r")[i] = math.Sqrt(x*x + y*y)
		t.Float("theta")[i] = math.Atan2(y, x)
		t.Float("z")[i] = z
	default:
		t.Float("x")[i] = x
		t.Float("y")[i] = y
		t.Float("z")[i] = z
	}
}

// fieldCoords converts a Cartesian position to the distance field's axes:
// the stored coordinate subset, with the radial coordinate recomputed for
// axisymmetric runs.
func fieldCoords(dim geom.Dim, x, y, z float64, out []float64) {
	switch dim {
	case geom.Cartesian1DZ:
		out[0] = z
	case geom.CartesianXZ:
		out[0], out[1] = x, z
	case geom.CartesianRZ:
		out[0], out[1] = math.Sqrt(x*x+y*y), z
	default:
		out[0], out[1], out[2] = x, y, z
	}
}
