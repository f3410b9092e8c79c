package boundary

/* This file contains the buffer manager, which owns the per-boundary,
per-species buffer containers and the per-step gather. */

import (
	"fmt"
	"io"
	"sync"

	"github.com/plasmago/picell/lib/error"
	"github.com/plasmago/picell/lib/geom"
	"github.com/plasmago/picell/lib/particles"
)

// Saver is the configuration surface of the buffer manager: a per-species
// boolean toggle for each boundary name ("xlo", ..., "zhi", "eb") saying
// whether that species' lost/crossing particles are retained.
type Saver interface {
	Save(species, boundaryName string) bool
}

// Manager owns one buffer container slot per (boundary, species) pair. Slots
// start undefined and are lazily backed by a container on the first match;
// once defined, a container persists for the run and only ever grows between
// explicit clears.
type Manager struct {
	geom       *geom.Descriptor
	boundaries []geom.Boundary
	species    []string
	speciesID  map[string]int

	active    [][]bool
	anyActive []bool
	buffers   [][]*particles.Container
}

// NewManager allocates the buffer slots for every (boundary, species) pair
// and reads the per-species activation flags from cfg. The species list is
// fixed from the registry; the boundary list from the geometry.
func NewManager(
	g *geom.Descriptor, mpc *particles.MultiContainer, cfg Saver,
) *Manager {
	m := &Manager{
		geom:       g,
		boundaries: g.Boundaries(),
		species:    mpc.SpeciesNames(),
		speciesID:  map[string]int{ },
	}

	m.active = make([][]bool, len(m.boundaries))
	m.anyActive = make([]bool, len(m.boundaries))
	m.buffers = make([][]*particles.Container, len(m.boundaries))
	for b, bd := range m.boundaries {
		m.active[b] = make([]bool, len(m.species))
		m.buffers[b] = make([]*particles.Container, len(m.species))
		for s, name := range m.species {
			m.active[b][s] = cfg.Save(name, bd.Name)
			if m.active[b][s] { m.anyActive[b] = true }
		}
	}
	for s, name := range m.species {
		m.speciesID[name] = s
	}

	return m
}

// NumBoundaries returns the number of loss boundaries the manager tracks.
func (m *Manager) NumBoundaries() int { return len(m.boundaries) }

// Boundaries returns the tracked boundaries in index order.
func (m *Manager) Boundaries() []geom.Boundary { return m.boundaries }

// SpeciesNames returns the species names in registry order.
func (m *Manager) SpeciesNames() []string { return m.species }

// Active reports whether a (boundary, species) pair buffers particles.
func (m *Manager) Active(boundary, species int) bool {
	return m.active[boundary][species]
}

// Gather runs one boundary-interaction pass over every live particle tile.
// For every non-periodic domain face and, if present, the embedded boundary,
// each active species' matched particles are appended to the corresponding
// buffer with their full attribute set, their capture step in "timestamp",
// and, for the embedded boundary, their position corrected to the surface
// intersection. Source particles are never mutated or removed.
//
// A particle that exited through a corner can match several faces in one
// step; each face pass is independent, so it is appended to each matched
// face's buffer.
//
// step is the current simulation step, dt the per-level time-step sizes, and
// distanceToEB the per-level signed-distance fields (ignored when the
// geometry has no embedded boundary).
func (m *Manager) Gather(
	mpc *particles.MultiContainer, distanceToEB []*geom.DistanceField,
	step int, dt []float64,
) {
	for _, bd := range m.boundaries {
		if bd.EB() { continue }
		if m.geom.Periodic[bd.Axis] { continue }
		if !m.anyActive[bd.Index] { continue }

		matcher := NewFaceMatcher(m.geom, bd)
		for s := range m.species {
			if !m.active[bd.Index][s] { continue }
			pc := mpc.Container(s)
			buf := m.define(bd.Index, s, pc)
			for lev := 0; lev < pc.NumLevels(); lev++ {
				m.gatherLevel(pc, buf, lev, matcher, step)
			}
		}
	}

	eb := m.geom.EBIndex()
	if eb < 0 || !m.anyActive[eb] { return }

	if len(distanceToEB) != m.geom.NumLevels() {
		error.Internal("Gather was given %d distance-to-boundary fields, " +
			"but the geometry has %d levels.",
			len(distanceToEB), m.geom.NumLevels())
	}
	if len(dt) != m.geom.NumLevels() {
		error.Internal("Gather was given %d time-step sizes, but the " +
			"geometry has %d levels.", len(dt), m.geom.NumLevels())
	}

	for s := range m.species {
		if !m.active[eb][s] { continue }
		pc := mpc.Container(s)
		buf := m.define(eb, s, pc)
		for lev := 0; lev < pc.NumLevels(); lev++ {
			if distanceToEB[lev] == nil {
				error.Internal("Gather was given no distance-to-boundary " +
					"field for level %d.", lev)
			}
			matcher := NewEBMatcher(m.geom, distanceToEB[lev], dt[lev])
			m.gatherLevel(pc, buf, lev, matcher, step)
		}
	}
}

// define returns the buffer for a (boundary, species) pair, backing the slot
// on first use with an empty container alike the live one plus the
// "timestamp" attribute.
func (m *Manager) define(
	boundary, s int, pc *particles.Container,
) *particles.Container {
	if m.buffers[boundary][s] == nil {
		buf := pc.MakeAlike()
		if err := buf.AddIntAttr("timestamp"); err != nil {
			error.Internal("Could not add the timestamp attribute to the " +
				"'%s' buffer at boundary %d: %s",
				pc.Species(), boundary, err.Error())
		}
		m.buffers[boundary][s] = buf
	}
	return m.buffers[boundary][s]
}

// gatherLevel processes one refinement level. Tiles are independent, so each
// gets a worker goroutine; the destination tile is defined before the worker
// starts so that only one goroutine ever touches a given tile pair.
func (m *Manager) gatherLevel(
	pc, buf *particles.Container, lev int, matcher Matcher, step int,
) {
	wg := &sync.WaitGroup{ }
	for i, src := range pc.Tiles(lev) {
		if src == nil || src.Len() == 0 { continue }
		dst := buf.DefineTile(lev, i)
		wg.Add(1)
		go func(src, dst *particles.Tile) {
			defer wg.Done()
			gatherTile(src, dst, matcher, step)
		}(src, dst)
	}
	wg.Wait()
}

// gatherTile runs the three sequenced phases on one tile pair: count the
// matches, grow the destination exactly once, then stream-compact the matched
// rows with their attribute copy, timestamp, and boundary transform. A tile
// with zero matches grows nothing.
func gatherTile(src, dst *particles.Tile, m Matcher, step int) {
	n := src.Len()
	pred := m.Bind(src)

	count := 0
	for i := 0; i < n; i++ {
		if pred(i) { count++ }
	}
	if count == 0 { return }

	base := dst.Len()
	dst.Resize(base + count)

	from, to := make([]int, 0, count), make([]int, 0, count)
	for i := 0; i < n; i++ {
		if pred(i) {
			from = append(from, i)
			to = append(to, base+len(to))
		}
	}

	if err := src.Transfer(dst, from, to); err != nil {
		error.Internal("Gather could not copy matched particles into the " +
			"buffer: %s", err.Error())
	}

	ts := dst.Int("timestamp")
	for _, i := range to {
		ts[i] = int64(step)
	}

	m.Transform(dst, to)
}

// ClearAll empties every defined buffer while preserving its defined state.
func (m *Manager) ClearAll() {
	for b := range m.boundaries {
		m.Clear(b)
	}
}

// Clear empties the defined buffers of one boundary while preserving their
// defined state. Clearing an already-empty buffer is a no-op.
func (m *Manager) Clear(boundary int) {
	m.checkBoundary(boundary)
	for _, buf := range m.buffers[boundary] {
		if buf != nil { buf.Clear() }
	}
}

// Redistribute reorganizes every defined buffer's parallel layout, discarding
// buffered particles whose id is negative. Undefined slots are skipped. All
// parallel workers must call it together; it is not interleaved with Gather.
func (m *Manager) Redistribute() {
	for b := range m.boundaries {
		for _, buf := range m.buffers[b] {
			if buf != nil { buf.Redistribute() }
		}
	}
}

// NumParticlesInContainer returns the number of particles buffered for one
// species at one boundary, 0 if the slot is undefined. local selects the
// rank-local count under a parallel decomposition.
func (m *Manager) NumParticlesInContainer(
	species string, boundary int, local bool,
) int {
	m.checkBoundary(boundary)
	s, ok := m.speciesID[species]
	if !ok {
		error.Internal("No species named '%s' is registered with the " +
			"boundary buffer.", species)
	}
	buf := m.buffers[boundary][s]
	if buf == nil { return 0 }
	return buf.NumParticles(local)
}

// Buffer returns one (species, boundary) buffer container for external read
// access. Requesting a pair that is not configured to buffer, or one that no
// particle has been gathered into yet, is a caller logic error and aborts.
func (m *Manager) Buffer(species string, boundary int) *particles.Container {
	m.checkBoundary(boundary)
	s, ok := m.speciesID[species]
	if !ok {
		error.Internal("No species named '%s' is registered with the " +
			"boundary buffer.", species)
	}
	if !m.active[boundary][s] {
		error.Internal("Attempted to get particle buffer for boundary %d " +
			"('%s'), which is not used!",
			boundary, m.boundaries[boundary].Name)
	}
	if m.buffers[boundary][s] == nil {
		error.Internal("Tried to get a buffer that is not defined!")
	}
	return m.buffers[boundary][s]
}

// PrintNumParticles writes the current per-boundary, per-species counts to w.
// It is a debugging aid for drivers.
func (m *Manager) PrintNumParticles(w io.Writer) {
	for _, bd := range m.boundaries {
		for s, name := range m.species {
			np := 0
			if buf := m.buffers[bd.Index][s]; buf != nil {
				np = buf.NumParticles(false)
			}
			fmt.Fprintf(w, "Species %s has %d particles in the boundary " +
				"buffer for %s\n", name, np, bd.Name)
		}
	}
}

func (m *Manager) checkBoundary(boundary int) {
	if boundary < 0 || boundary >= len(m.boundaries) {
		error.Internal("Boundary index %d is out of range: this run has %d " +
			"boundaries.", boundary, len(m.boundaries))
	}
}
