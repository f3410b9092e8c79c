package diag

/* This file contains the boundary-buffer snapshot format: a small header
describing the schema, then one zstd-compressed block of little-endian column
data per attribute. Buffered particles are flattened across levels and tiles
in insertion order. */

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/DataDog/zstd"

	"github.com/plasmago/picell/lib/particles"
)

const (
	// MagicNumber is an arbitrary number at the start of all picell buffer
	// snapshots which should help identify when the code is run on something
	// else by accident.
	MagicNumber = 0x70696342
	SnapshotVersion = 1
)

// WriteSnapshot writes a buffer container to fname. The level/tile structure
// is not preserved: snapshot consumers see one flat particle list per
// attribute.
func WriteSnapshot(fname string, c *particles.Container) error {
	fp, err := os.Create(fname)
	if err != nil { return err }
	defer fp.Close()
	return writeSnapshot(fp, c)
}

func writeSnapshot(w io.Writer, c *particles.Container) error {
	order := binary.LittleEndian
	attrs := c.Schema().Attrs()
	n := c.NumParticles(true)

	if err := binary.Write(w, order, uint32(MagicNumber)); err != nil {
		return err
	}
	if err := binary.Write(w, order, uint32(SnapshotVersion)); err != nil {
		return err
	}
	if err := writeString(w, order, c.Species()); err != nil { return err }

	if err := binary.Write(w, order, uint32(len(attrs))); err != nil {
		return err
	}
	for _, a := range attrs {
		if err := writeString(w, order, a.Name); err != nil { return err }
		if err := binary.Write(w, order, uint32(a.Kind)); err != nil {
			return err
		}
	}
	if err := binary.Write(w, order, uint64(n)); err != nil { return err }

	// One compressed column block per attribute.
	raw := &bytes.Buffer{ }
	for _, a := range attrs {
		raw.Reset()
		for lev := 0; lev < c.NumLevels(); lev++ {
			for _, t := range c.Tiles(lev) {
				if t == nil || t.Len() == 0 { continue }
				var err error
				if a.Kind == particles.Float64Kind {
					err = binary.Write(raw, order, t.Float(a.Name))
				} else {
					err = binary.Write(raw, order, t.Int(a.Name))
				}
				if err != nil { return err }
			}
		}

		block, err := zstd.CompressLevel(nil, raw.Bytes(), 1)
		if err != nil { return err }
		if err := binary.Write(w, order, uint64(len(block))); err != nil {
			return err
		}
		if _, err := w.Write(block); err != nil { return err }
	}

	return nil
}

// ReadSnapshot reads a snapshot back into a single-level, single-tile
// container.
func ReadSnapshot(fname string) (*particles.Container, error) {
	fp, err := os.Open(fname)
	if err != nil { return nil, err }
	defer fp.Close()
	return readSnapshot(fp)
}

func readSnapshot(r io.Reader) (*particles.Container, error) {
	order := binary.LittleEndian

	var magic, version uint32
	if err := binary.Read(r, order, &magic); err != nil { return nil, err }
	if magic != MagicNumber {
		return nil, fmt.Errorf("The file does not start with the snapshot magic number: got %#x.", magic)
	}
	if err := binary.Read(r, order, &version); err != nil { return nil, err }
	if version != SnapshotVersion {
		return nil, fmt.Errorf("The file has snapshot version %d, but this code reads version %d.",
			version, SnapshotVersion)
	}

	species, err := readString(r, order)
	if err != nil { return nil, err }

	var nAttrs uint32
	if err := binary.Read(r, order, &nAttrs); err != nil { return nil, err }
	attrs := make([]particles.Attr, nAttrs)
	for i := range attrs {
		name, err := readString(r, order)
		if err != nil { return nil, err }
		var kind uint32
		if err := binary.Read(r, order, &kind); err != nil { return nil, err }
		attrs[i] = particles.Attr{ name, particles.Kind(kind) }
	}

	var n uint64
	if err := binary.Read(r, order, &n); err != nil { return nil, err }

	schema, err := particles.NewSchema(attrs)
	if err != nil { return nil, err }
	c := particles.NewContainer(species, 0, schema, 1)
	t := c.AddTile(0)
	t.Resize(int(n))

	for _, a := range attrs {
		var blockLen uint64
		if err := binary.Read(r, order, &blockLen); err != nil {
			return nil, err
		}
		block := make([]byte, blockLen)
		if _, err := io.ReadFull(r, block); err != nil { return nil, err }
		raw, err := zstd.Decompress(nil, block)
		if err != nil { return nil, err }

		if a.Kind == particles.Float64Kind {
			err = binary.Read(bytes.NewReader(raw), order, t.Float(a.Name))
		} else {
			err = binary.Read(bytes.NewReader(raw), order, t.Int(a.Name))
		}
		if err != nil { return nil, err }
	}

	return c, nil
}

func writeString(w io.Writer, order binary.ByteOrder, s string) error {
	if err := binary.Write(w, order, uint32(len(s))); err != nil { return err }
	_, err := w.Write([]byte(s))
	return err
}

func readString(r io.Reader, order binary.ByteOrder) (string, error) {
	var n uint32
	if err := binary.Read(r, order, &n); err != nil { return "", err }
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil { return "", err }
	return string(b), nil
}
