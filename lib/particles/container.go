package particles

/* This file contains the per-species Container and the MultiContainer
species registry. */

import (
	"fmt"
)

// Container is the per-species, per-refinement-level, tiled particle store.
// The same type backs both live particle stores and boundary buffers; buffers
// are created with MakeAlike and extended with AddIntAttr before use.
type Container struct {
	species string
	index   int
	schema  *Schema
	levels  [][]*Tile
}

// NewContainer creates an empty container for one species.
func NewContainer(
	species string, index int, schema *Schema, numLevels int,
) *Container {
	return &Container{ species, index, schema, make([][]*Tile, numLevels) }
}

// Species returns the species name.
func (c *Container) Species() string { return c.species }

// Index returns the species index in the registry.
func (c *Container) Index() int { return c.index }

// Schema returns the container's attribute schema.
func (c *Container) Schema() *Schema { return c.schema }

// NumLevels returns the number of refinement levels.
func (c *Container) NumLevels() int { return len(c.levels) }

// Tiles returns the tiles of one level. Unoccupied tile slots are nil.
func (c *Container) Tiles(lev int) []*Tile { return c.levels[lev] }

// AddTile appends a new empty tile to a level and returns it.
func (c *Container) AddTile(lev int) *Tile {
	t := NewTile(c.schema)
	c.levels[lev] = append(c.levels[lev], t)
	return t
}

// DefineTile returns the tile at (lev, i), creating it (and any missing slots
// before it) on first use. Buffer containers use this to keep their tiles
// aligned with the source container's tile indices.
func (c *Container) DefineTile(lev, i int) *Tile {
	for len(c.levels[lev]) <= i {
		c.levels[lev] = append(c.levels[lev], nil)
	}
	if c.levels[lev][i] == nil {
		c.levels[lev][i] = NewTile(c.schema)
	}
	return c.levels[lev][i]
}

// MakeAlike returns a new empty container with the same species, schema, and
// level count, backed by host-resident storage. It is how boundary buffers
// are created from live containers.
func (c *Container) MakeAlike() *Container {
	return NewContainer(c.species, c.index, c.schema, len(c.levels))
}

// AddIntAttr extends the container's schema by one i64 attribute. Only empty
// containers can be extended, since existing rows would have no values for
// the new attribute.
func (c *Container) AddIntAttr(name string) error {
	if c.NumParticles(true) != 0 {
		return fmt.Errorf("Cannot add the attribute '%s' to a container that already holds particles.", name)
	}

	schema, err := c.schema.WithIntAttr(name)
	if err != nil { return err }
	c.schema = schema

	// Tiles defined before the extension are empty, so rebuilding them with
	// the new schema loses nothing.
	for lev := range c.levels {
		for i, t := range c.levels[lev] {
			if t != nil {
				c.levels[lev][i] = NewTile(schema)
			}
		}
	}
	return nil
}

// NumParticles returns the number of particles in the container. In a
// single-process run the global count and the rank-local count coincide;
// local selects the rank-local count under a parallel decomposition.
func (c *Container) NumParticles(local bool) int {
	_ = local
	n := 0
	for lev := range c.levels {
		for _, t := range c.levels[lev] {
			if t != nil { n += t.Len() }
		}
	}
	return n
}

// Clear empties every tile while keeping the container (and its tiles)
// defined. Counting after a Clear returns 0, not an error.
func (c *Container) Clear() {
	for lev := range c.levels {
		for _, t := range c.levels[lev] {
			if t != nil { t.Resize(0) }
		}
	}
}

// Redistribute reorganizes the container's parallel layout. Any particle
// whose id is negative has been invalidated by an external collaborator and
// is permanently discarded. In a single-process run the only work left is
// that compaction.
func (c *Container) Redistribute() {
	for lev := range c.levels {
		for _, t := range c.levels[lev] {
			if t == nil || t.Len() == 0 { continue }
			compactValid(t)
		}
	}
}

// compactValid removes the rows of t whose id is negative, preserving the
// order and attribute values of the remainder.
func compactValid(t *Tile) {
	id := t.Int("id")
	from, to := []int{ }, []int{ }
	for i := range id {
		if id[i] < 0 { continue }
		from = append(from, i)
		to = append(to, len(to))
	}

	if len(to) == t.Len() { return }

	// Transfer into the same tile: every from index is at or after its to
	// index, so the copy never overwrites a row it still needs.
	if err := t.Transfer(t, from, to); err != nil {
		// Same schema on both sides, so this cannot fail.
		panic(err)
	}
	t.Resize(len(to))
}

// MultiContainer is the registry of live particle containers, one per
// species. The species list is fixed at configuration time.
type MultiContainer struct {
	species []*Container
	index   map[string]int
}

// NewMultiContainer builds the registry. Species names must be unique and
// each container's index must match its registry position.
func NewMultiContainer(containers ...*Container) (*MultiContainer, error) {
	m := &MultiContainer{ containers, map[string]int{ } }
	for i, c := range containers {
		if _, ok := m.index[c.Species()]; ok {
			return nil, fmt.Errorf("The species name '%s' is used more than once.", c.Species())
		}
		if c.Index() != i {
			return nil, fmt.Errorf("The species '%s' has index %d, but sits at registry position %d.",
				c.Species(), c.Index(), i)
		}
		m.index[c.Species()] = i
	}
	return m, nil
}

// NumSpecies returns the number of registered species.
func (m *MultiContainer) NumSpecies() int { return len(m.species) }

// SpeciesNames returns the registered species names in index order.
func (m *MultiContainer) SpeciesNames() []string {
	names := make([]string, len(m.species))
	for i, c := range m.species {
		names[i] = c.Species()
	}
	return names
}

// Container returns the live container of species i.
func (m *MultiContainer) Container(i int) *Container { return m.species[i] }

// SpeciesID returns the index of a species by name.
func (m *MultiContainer) SpeciesID(name string) (int, error) {
	i, ok := m.index[name]
	if !ok {
		return -1, fmt.Errorf("No species named '%s' is registered.", name)
	}
	return i, nil
}
