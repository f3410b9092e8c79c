/*package boundary implements the particle boundary-interaction pipeline: the
per-boundary classification predicates, the embedded-boundary crossing
locator, and the buffer manager that gathers matched particles into
per-boundary, per-species containers.*/
package boundary

/* This file contains the Matcher capability and the domain-face matcher. */

import (
	"github.com/plasmago/picell/lib/geom"
	"github.com/plasmago/picell/lib/particles"
)

// Matcher is the capability one boundary exposes to the gather. A matcher is
// picked per boundary at setup time: domain faces classify on a coordinate
// bound, the embedded boundary classifies on the signed-distance field and
// corrects matched positions afterwards.
type Matcher interface {
	// Bind prepares the matcher for one source tile and returns its per-row
	// predicate. The returned closure must not be shared across tiles.
	Bind(src *particles.Tile) func(i int) bool
	// Transform post-processes the given buffer rows after they have been
	// copied from the source tile.
	Transform(dst *particles.Tile, rows []int)
}

// FaceMatcher flags particles that lie outside one planar domain face: on the
// low side, a coordinate strictly below the low bound; on the high side, a
// coordinate at or above the high bound.
type FaceMatcher struct {
	attr  string
	bound float64
	side  geom.Side
}

// NewFaceMatcher builds the matcher for one face boundary of the domain.
func NewFaceMatcher(d *geom.Descriptor, b geom.Boundary) *FaceMatcher {
	attr := d.Dim.PositionAttrs()[b.Axis]
	if b.Side == geom.Low {
		return &FaceMatcher{ attr, d.Lo[b.Axis], geom.Low }
	}
	return &FaceMatcher{ attr, d.Hi[b.Axis], geom.High }
}

func (m *FaceMatcher) Bind(src *particles.Tile) func(i int) bool {
	x := src.Float(m.attr)
	if m.side == geom.Low {
		return func(i int) bool { return x[i] < m.bound }
	}
	return func(i int) bool { return x[i] >= m.bound }
}

// Transform is a no-op for domain faces: the copied position is kept as-is.
func (m *FaceMatcher) Transform(dst *particles.Tile, rows []int) { }
