/*package particles contains the tiled, schema'd attribute containers that
hold live particles and boundary-buffer particles.*/
package particles

/* This file contains the attribute schema and the Tile type, the unit of
particle storage and of parallel processing. */

import (
	"fmt"

	p_error "github.com/plasmago/picell/lib/error"
	"github.com/plasmago/picell/lib/geom"
)

// Kind is the storage type of one particle attribute.
type Kind int

const (
	Float64Kind Kind = iota
	Int64Kind
)

func (k Kind) String() string {
	if k == Float64Kind { return "f64" }
	return "i64"
}

// Attr names one particle attribute and gives its storage type.
type Attr struct {
	Name string
	Kind Kind
}

// Schema is the ordered attribute layout shared by every tile of a container.
// It is immutable; extending a schema produces a new one.
type Schema struct {
	attrs      []Attr
	index      map[string]int
	slot       []int
	nF64, nI64 int
}

// NewSchema builds a Schema from an attribute list. Attribute names must be
// unique, and an "id" attribute with i64 storage must be present: ids are
// signed so that external collaborators can invalidate a particle by negating
// its id.
func NewSchema(attrs []Attr) (*Schema, error) {
	s := &Schema{
		attrs: make([]Attr, len(attrs)),
		index: map[string]int{ },
		slot:  make([]int, len(attrs)),
	}
	copy(s.attrs, attrs)

	for i, a := range attrs {
		if _, ok := s.index[a.Name]; ok {
			return nil, fmt.Errorf("The attribute name '%s' is used more than once.", a.Name)
		}
		s.index[a.Name] = i

		switch a.Kind {
		case Float64Kind:
			s.slot[i] = s.nF64
			s.nF64++
		case Int64Kind:
			s.slot[i] = s.nI64
			s.nI64++
		default:
			return nil, fmt.Errorf("The attribute '%s' has the unknown kind %d.", a.Name, a.Kind)
		}
	}

	if a, ok := s.Lookup("id"); !ok || a.Kind != Int64Kind {
		return nil, fmt.Errorf("Every schema must contain an 'id' attribute with i64 storage.")
	}

	return s, nil
}

// BaseSchema returns the schema of a live particle container for the given
// dimensionality mode: the mode's position attributes, the momentum components
// "ux", "uy", "uz", the weight "w", and the signed "id", plus any runtime
// real and integer attributes the species carries. Axisymmetric runs always
// carry the azimuthal angle "theta" as a runtime real attribute.
func BaseSchema(dim geom.Dim, runtimeReal, runtimeInt []string) (*Schema, error) {
	attrs := []Attr{ }
	for _, name := range dim.PositionAttrs() {
		attrs = append(attrs, Attr{ name, Float64Kind })
	}
	for _, name := range []string{ "ux", "uy", "uz", "w" } {
		attrs = append(attrs, Attr{ name, Float64Kind })
	}
	attrs = append(attrs, Attr{ "id", Int64Kind })

	if dim == geom.CartesianRZ {
		attrs = append(attrs, Attr{ "theta", Float64Kind })
	}
	for _, name := range runtimeReal {
		attrs = append(attrs, Attr{ name, Float64Kind })
	}
	for _, name := range runtimeInt {
		attrs = append(attrs, Attr{ name, Int64Kind })
	}

	return NewSchema(attrs)
}

// Attrs returns the schema's attributes in storage order.
func (s *Schema) Attrs() []Attr { return s.attrs }

// Len returns the number of attributes.
func (s *Schema) Len() int { return len(s.attrs) }

// Lookup returns the named attribute, if present.
func (s *Schema) Lookup(name string) (Attr, bool) {
	i, ok := s.index[name]
	if !ok { return Attr{ }, false }
	return s.attrs[i], true
}

// WithIntAttr returns a new schema extended by one i64 attribute.
func (s *Schema) WithIntAttr(name string) (*Schema, error) {
	attrs := make([]Attr, len(s.attrs), len(s.attrs)+1)
	copy(attrs, s.attrs)
	return NewSchema(append(attrs, Attr{ name, Int64Kind }))
}

// Tile is one rank-local chunk of particles, stored column-wise according to
// a Schema. Tiles are the unit of parallel processing during gathers.
type Tile struct {
	schema *Schema
	f64    [][]float64
	i64    [][]int64
}

// NewTile creates an empty tile with the given schema.
func NewTile(schema *Schema) *Tile {
	return &Tile{
		schema: schema,
		f64:    make([][]float64, schema.nF64),
		i64:    make([][]int64, schema.nI64),
	}
}

// Schema returns the tile's schema.
func (t *Tile) Schema() *Schema { return t.schema }

// Len returns the number of particles in the tile.
func (t *Tile) Len() int {
	if len(t.i64) > 0 { return len(t.i64[0]) }
	return 0
}

// Resize changes the number of particles in the tile while preserving the
// retained prefix. Gathers only ever grow tiles; shrinking is used when
// clearing and redistributing buffers.
func (t *Tile) Resize(n int) {
	for i := range t.f64 {
		if add := n - cap(t.f64[i]); add > 0 {
			t.f64[i] = append(t.f64[i][:cap(t.f64[i])], make([]float64, add)...)
		}
		t.f64[i] = t.f64[i][:n]
	}
	for i := range t.i64 {
		if add := n - cap(t.i64[i]); add > 0 {
			t.i64[i] = append(t.i64[i][:cap(t.i64[i])], make([]int64, add)...)
		}
		t.i64[i] = t.i64[i][:n]
	}
}

// Float returns the storage of a f64 attribute. Asking for an attribute the
// schema does not carry is a caller logic error and aborts.
func (t *Tile) Float(name string) []float64 {
	i, ok := t.schema.index[name]
	if !ok || t.schema.attrs[i].Kind != Float64Kind {
		p_error.Internal("Tile.Float called for '%s', which is not a f64 " +
			"attribute of the schema.", name)
	}
	return t.f64[t.schema.slot[i]]
}

// Int returns the storage of an i64 attribute. Asking for an attribute the
// schema does not carry is a caller logic error and aborts.
func (t *Tile) Int(name string) []int64 {
	i, ok := t.schema.index[name]
	if !ok || t.schema.attrs[i].Kind != Int64Kind {
		p_error.Internal("Tile.Int called for '%s', which is not an i64 " +
			"attribute of the schema.", name)
	}
	return t.i64[t.schema.slot[i]]
}

// Transfer copies every attribute of the tile into the same-named attributes
// of dst. Particles are copied from the indices 'from' to the indices 'to'.
// These indices are passed as arrays to amortize the cost of error handling.
// dst may carry attributes beyond the source schema (such as a buffer's
// "timestamp"); those are left untouched.
func (t *Tile) Transfer(dst *Tile, from, to []int) error {
	if len(from) != len(to) {
		return fmt.Errorf("'from' index array has length %d, but 'to' has length %d.", len(from), len(to))
	}

	for i, a := range t.schema.attrs {
		j, ok := dst.schema.index[a.Name]
		if !ok {
			return fmt.Errorf("Destination tile does not contain the attribute '%s'.", a.Name)
		}
		if dst.schema.attrs[j].Kind != a.Kind {
			return fmt.Errorf("Attribute '%s' has kind %s in the destination tile, but %s in the source.",
				a.Name, dst.schema.attrs[j].Kind, a.Kind)
		}

		switch a.Kind {
		case Float64Kind:
			src, dstCol := t.f64[t.schema.slot[i]], dst.f64[dst.schema.slot[j]]
			for k := range from {
				dstCol[to[k]] = src[from[k]]
			}
		case Int64Kind:
			src, dstCol := t.i64[t.schema.slot[i]], dst.i64[dst.schema.slot[j]]
			for k := range from {
				dstCol[to[k]] = src[from[k]]
			}
		}
	}

	return nil
}
