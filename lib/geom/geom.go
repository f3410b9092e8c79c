/*package geom describes the simulation domain: its dimensionality mode, its
bounds and periodicity, the enumeration of its loss boundaries, and the nodal
signed-distance fields used for embedded boundaries.*/
package geom

import (
	"fmt"
)

// Dim selects the dimensionality mode of a run. The mode fixes the number of
// domain axes, the set of stored position attributes, and the boundary count.
type Dim int

const (
	// Cartesian1DZ is a 1D run along z.
	Cartesian1DZ Dim = iota
	// CartesianXZ is a 2D run in the x-z plane.
	CartesianXZ
	// CartesianRZ is a 2D axisymmetric run. Particles store (r, z) plus a
	// "theta" attribute holding the azimuthal angle.
	CartesianRZ
	// Cartesian3D is a full 3D run.
	Cartesian3D
)

// SpaceDim returns the number of domain axes for the mode.
func (d Dim) SpaceDim() int {
	switch d {
	case Cartesian1DZ:
		return 1
	case CartesianXZ, CartesianRZ:
		return 2
	default:
		return 3
	}
}

func (d Dim) String() string {
	switch d {
	case Cartesian1DZ:
		return "1d-z"
	case CartesianXZ:
		return "2d-xz"
	case CartesianRZ:
		return "2d-rz"
	default:
		return "3d"
	}
}

// AxisNames returns the names of the domain axes, which are also used to name
// boundary faces. Axisymmetric runs name their radial faces "xlo"/"xhi" so
// that configuration keys are shared between the XZ and RZ modes.
func (d Dim) AxisNames() []string {
	switch d {
	case Cartesian1DZ:
		return []string{ "z" }
	case CartesianXZ, CartesianRZ:
		return []string{ "x", "z" }
	default:
		return []string{ "x", "y", "z" }
	}
}

// PositionAttrs returns the names of the stored position attributes for the
// mode, in storage order.
func (d Dim) PositionAttrs() []string {
	switch d {
	case Cartesian1DZ:
		return []string{ "z" }
	case CartesianXZ:
		return []string{ "x", "z" }
	case CartesianRZ:
		return []string{ "r", "z" }
	default:
		return []string{ "x", "y", "z" }
	}
}

// Side picks one of the two faces along an axis.
type Side int

const (
	Low Side = iota
	High
)

func (s Side) String() string {
	if s == Low { return "lo" }
	return "hi"
}

// Boundary identifies one loss boundary: a domain face or the embedded
// boundary. Face boundaries are numbered 2*axis+side; the embedded boundary,
// if present, is last and has Axis == -1.
type Boundary struct {
	Index int
	Axis  int
	Side  Side
	Name  string
}

// EB reports whether the boundary is the embedded boundary.
func (b Boundary) EB() bool { return b.Axis == -1 }

// Descriptor holds the run-wide domain geometry. It is immutable once
// constructed.
type Descriptor struct {
	Dim      Dim
	Lo, Hi   []float64
	Periodic []bool
	// InvDx is the inverse cell size, indexed as [level][axis].
	InvDx [][]float64
	HasEB bool
}

// NewDescriptor validates and builds a Descriptor. lo, hi, and periodic must
// have one entry per domain axis, lo must be strictly below hi on every axis,
// and every refinement level of invDx must supply a positive inverse cell
// size per axis.
func NewDescriptor(
	dim Dim, lo, hi []float64, periodic []bool,
	invDx [][]float64, hasEB bool,
) (*Descriptor, error) {
	n := dim.SpaceDim()
	if len(lo) != n || len(hi) != n {
		return nil, fmt.Errorf("The %s mode has %d axes, but the domain bounds have lengths %d and %d.",
			dim, n, len(lo), len(hi))
	}
	if len(periodic) != n {
		return nil, fmt.Errorf("The %s mode has %d axes, but the periodicity flags have length %d.",
			dim, n, len(periodic))
	}
	for a := 0; a < n; a++ {
		if lo[a] >= hi[a] {
			return nil, fmt.Errorf("The domain's low bound along axis %d, %g, is not below its high bound, %g.",
				a, lo[a], hi[a])
		}
	}
	if len(invDx) == 0 {
		return nil, fmt.Errorf("At least one refinement level of inverse cell sizes must be given.")
	}
	for lev := range invDx {
		if len(invDx[lev]) != n {
			return nil, fmt.Errorf("Level %d supplies %d inverse cell sizes, but the %s mode has %d axes.",
				lev, len(invDx[lev]), dim, n)
		}
		for a := range invDx[lev] {
			if invDx[lev][a] <= 0 {
				return nil, fmt.Errorf("Level %d's inverse cell size along axis %d is %g, which is not positive.",
					lev, a, invDx[lev][a])
			}
		}
	}

	return &Descriptor{ dim, lo, hi, periodic, invDx, hasEB }, nil
}

// NumLevels returns the number of refinement levels.
func (d *Descriptor) NumLevels() int { return len(d.InvDx) }

// NumBoundaries returns the number of loss boundaries: two faces per axis,
// plus one if an embedded boundary is present.
func (d *Descriptor) NumBoundaries() int {
	n := 2 * d.Dim.SpaceDim()
	if d.HasEB { n++ }
	return n
}

// EBIndex returns the boundary index of the embedded boundary, or -1 if the
// run has none.
func (d *Descriptor) EBIndex() int {
	if !d.HasEB { return -1 }
	return 2 * d.Dim.SpaceDim()
}

// Boundaries enumerates the loss boundaries in index order: faces in
// axis-major, side-minor order ("xlo", "xhi", ..., "zhi"), then "eb".
func (d *Descriptor) Boundaries() []Boundary {
	names := d.Dim.AxisNames()
	out := []Boundary{ }
	for a := 0; a < d.Dim.SpaceDim(); a++ {
		for _, side := range []Side{ Low, High } {
			out = append(out, Boundary{
				Index: len(out), Axis: a, Side: side,
				Name: names[a] + side.String(),
			})
		}
	}
	if d.HasEB {
		out = append(out, Boundary{ Index: len(out), Axis: -1, Name: "eb" })
	}
	return out
}
