package diag

import (
	"io/ioutil"
	"math"
	"testing"

	"github.com/plasmago/picell/lib/eq"
	"github.com/plasmago/picell/lib/geom"
	"github.com/plasmago/picell/lib/particles"
)

func testContainer(t *testing.T) *particles.Container {
	schema, err := particles.BaseSchema(geom.Cartesian1DZ, nil, nil)
	if err != nil {
		t.Fatalf("Could not create schema: %s", err.Error())
	}

	c := particles.NewContainer("electron", 0, schema, 1)
	tile := c.AddTile(0)
	tile.Resize(3)
	copy(tile.Float("z"), []float64{ 1, 2, 3 })
	copy(tile.Float("ux"), []float64{ 1, 0, 0 })
	copy(tile.Float("uz"), []float64{ 0, 2, 4 })
	copy(tile.Float("w"), []float64{ 2, 1, 1 })
	copy(tile.Int("id"), []int64{ 1, 2, 3 })
	return c
}

func TestSpeciesMomentum(t *testing.T) {
	c := testContainer(t)
	mass := 2.0
	p := SpeciesMomentum(c, mass)

	// Total[i] = mass * sum(u_i * w), Weight = sum(w).
	if math.Abs(p.Total[0]-4) > 1e-12 {
		t.Errorf("Expected total x momentum 4, got %g.", p.Total[0])
	}
	if p.Total[1] != 0 {
		t.Errorf("Expected total y momentum 0, got %g.", p.Total[1])
	}
	if math.Abs(p.Total[2]-12) > 1e-12 {
		t.Errorf("Expected total z momentum 12, got %g.", p.Total[2])
	}
	if math.Abs(p.Weight-4) > 1e-12 {
		t.Errorf("Expected total weight 4, got %g.", p.Weight)
	}
	if math.Abs(p.Mean[2]-3) > 1e-12 {
		t.Errorf("Expected mean z momentum 3, got %g.", p.Mean[2])
	}
}

func TestSpeciesMomentumEmpty(t *testing.T) {
	schema, err := particles.BaseSchema(geom.Cartesian1DZ, nil, nil)
	if err != nil {
		t.Fatalf("Could not create schema: %s", err.Error())
	}
	c := particles.NewContainer("electron", 0, schema, 1)

	p := SpeciesMomentum(c, 1)
	if p.Weight != 0 || p.Mean != ([3]float64{ }) {
		t.Errorf("Expected a zero reduction over an empty container, got %+v.", p)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	c := testContainer(t)
	fname := t.TempDir() + "/buffer.snap"

	if err := WriteSnapshot(fname, c); err != nil {
		t.Fatalf("Could not write snapshot: %s", err.Error())
	}
	got, err := ReadSnapshot(fname)
	if err != nil {
		t.Fatalf("Could not read snapshot: %s", err.Error())
	}

	if got.Species() != "electron" {
		t.Errorf("Expected species 'electron', got '%s'.", got.Species())
	}
	if got.NumParticles(true) != 3 {
		t.Fatalf("Expected 3 particles, got %d.", got.NumParticles(true))
	}

	src, dst := c.Tiles(0)[0], got.Tiles(0)[0]
	for _, name := range []string{ "z", "ux", "uy", "uz", "w" } {
		if !eq.Float64s(src.Float(name), dst.Float(name)) {
			t.Errorf("Expected attribute '%s' to round-trip, got %v.",
				name, dst.Float(name))
		}
	}
	if !eq.Int64s(src.Int("id"), dst.Int("id")) {
		t.Errorf("Expected ids to round-trip, got %v.", dst.Int("id"))
	}
}

func TestSnapshotFlattensTiles(t *testing.T) {
	schema, err := particles.BaseSchema(geom.Cartesian1DZ, nil, nil)
	if err != nil {
		t.Fatalf("Could not create schema: %s", err.Error())
	}
	c := particles.NewContainer("electron", 0, schema, 1)
	for i := 0; i < 3; i++ {
		tile := c.AddTile(0)
		tile.Resize(2)
		copy(tile.Float("z"), []float64{ float64(2 * i), float64(2*i + 1) })
		copy(tile.Int("id"), []int64{ int64(2 * i), int64(2*i + 1) })
	}

	fname := t.TempDir() + "/buffer.snap"
	if err := WriteSnapshot(fname, c); err != nil {
		t.Fatalf("Could not write snapshot: %s", err.Error())
	}
	got, err := ReadSnapshot(fname)
	if err != nil {
		t.Fatalf("Could not read snapshot: %s", err.Error())
	}

	tile := got.Tiles(0)[0]
	if !eq.Float64s([]float64{ 0, 1, 2, 3, 4, 5 }, tile.Float("z")) {
		t.Errorf("Expected tiles flattened in insertion order, got %v.",
			tile.Float("z"))
	}
}

func TestSnapshotRejectsWrongMagic(t *testing.T) {
	fname := t.TempDir() + "/buffer.snap"
	c := testContainer(t)
	if err := WriteSnapshot(fname, c); err != nil {
		t.Fatalf("Could not write snapshot: %s", err.Error())
	}

	// Flip the magic number.
	raw := readFile(t, fname)
	raw[0]++
	writeFile(t, fname, raw)

	if _, err := ReadSnapshot(fname); err == nil {
		t.Errorf("Expected a corrupted magic number to be rejected.")
	}
}

func readFile(t *testing.T, fname string) []byte {
	b, err := ioutil.ReadFile(fname)
	if err != nil {
		t.Fatalf("Could not read '%s': %s", fname, err.Error())
	}
	return b
}

func writeFile(t *testing.T, fname string, b []byte) {
	if err := ioutil.WriteFile(fname, b, 0644); err != nil {
		t.Fatalf("Could not write '%s': %s", fname, err.Error())
	}
}
