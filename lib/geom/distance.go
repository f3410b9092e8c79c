package geom

/* This file contains the nodal signed-distance field used to detect and
locate embedded-boundary crossings. */

import (
	"fmt"
	"math"
)

// DistanceField is a signed distance to the embedded boundary, sampled at the
// nodes of one refinement level's grid. Negative values lie inside/behind the
// embedded surface. Values are stored axis-0 fastest, so the node (i, j, k)
// lives at index i + N[0]*(j + N[1]*k).
type DistanceField struct {
	Lo    []float64
	InvDx []float64
	N     []int
	Phi   []float64
}

// NewDistanceField validates and builds a DistanceField. lo gives the
// position of the first node along each axis, invDx the inverse node spacing,
// and n the node counts; phi must hold exactly prod(n) samples and every axis
// needs at least two nodes.
func NewDistanceField(
	lo, invDx []float64, n []int, phi []float64,
) (*DistanceField, error) {
	if len(lo) != len(n) || len(invDx) != len(n) {
		return nil, fmt.Errorf("The field's axis counts disagree: %d origin components, %d inverse spacings, %d node counts.",
			len(lo), len(invDx), len(n))
	}
	if len(n) < 1 || len(n) > 3 {
		return nil, fmt.Errorf("Distance fields must have 1 to 3 axes, not %d.", len(n))
	}
	tot := 1
	for a := range n {
		if n[a] < 2 {
			return nil, fmt.Errorf("Axis %d has %d nodes, but nodal interpolation needs at least 2.", a, n[a])
		}
		if invDx[a] <= 0 {
			return nil, fmt.Errorf("Axis %d's inverse spacing is %g, which is not positive.", a, invDx[a])
		}
		tot *= n[a]
	}
	if len(phi) != tot {
		return nil, fmt.Errorf("The node counts imply %d samples, but %d were given.", tot, len(phi))
	}

	return &DistanceField{ lo, invDx, n, phi }, nil
}

// At interpolates the field at pos using nodal (multi-linear) weights. pos
// must have one coordinate per field axis. Positions outside the grid are
// linearly extrapolated from the outermost cell, which keeps the bisection
// target smooth for particles that stepped slightly past the sampled region.
func (f *DistanceField) At(pos []float64) float64 {
	d := len(f.N)
	var i [3]int
	var w [3]float64
	for a := 0; a < d; a++ {
		t := (pos[a] - f.Lo[a]) * f.InvDx[a]
		ia := int(math.Floor(t))
		if ia < 0 { ia = 0 }
		if ia > f.N[a]-2 { ia = f.N[a] - 2 }
		i[a], w[a] = ia, t-float64(ia)
	}

	phi := 0.0
	for corner := 0; corner < 1<<d; corner++ {
		idx, weight, stride := 0, 1.0, 1
		for a := 0; a < d; a++ {
			off := (corner >> a) & 1
			idx += (i[a] + off) * stride
			stride *= f.N[a]
			if off == 1 {
				weight *= w[a]
			} else {
				weight *= 1 - w[a]
			}
		}
		phi += weight * f.Phi[idx]
	}
	return phi
}
