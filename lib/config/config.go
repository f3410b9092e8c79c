/*package config reads the per-species boundary-buffering configuration from
gcfg-style config files.*/
package config

import (
	"fmt"

	"gopkg.in/gcfg.v1"
)

const (
	// ExampleConfig shows every key the boundary-buffering configuration
	// accepts. Keys for axes the run's dimensionality mode does not have are
	// ignored, as is SaveParticlesAtEB when the run has no embedded boundary.
	ExampleConfig = `[Species "electron"]

# Each flag independently controls whether particles of this species which
# are lost at the named domain face are retained in that face's boundary
# buffer. Faces are named by axis and side: xlo, xhi, ylo, yhi, zlo, zhi.
# Axisymmetric (RZ) runs name their radial faces xlo/xhi, the same keys as
# x-z runs. All flags default to false.
SaveParticlesAtXLo = true
SaveParticlesAtXHi = false
SaveParticlesAtYLo = false
SaveParticlesAtYHi = false
SaveParticlesAtZLo = true
SaveParticlesAtZHi = true

# Whether particles of this species which cross the embedded boundary are
# retained in the "eb" buffer, with their position refined to the surface
# intersection.
SaveParticlesAtEB = true

[Species "proton"]

# A species with no section, or a section with no flags set, buffers nothing.
SaveParticlesAtZLo = true`
)

// Species holds one species' buffering flags.
type Species struct {
	SaveParticlesAtXLo bool
	SaveParticlesAtXHi bool
	SaveParticlesAtYLo bool
	SaveParticlesAtYHi bool
	SaveParticlesAtZLo bool
	SaveParticlesAtZHi bool
	SaveParticlesAtEB  bool
}

// File is the parsed configuration. It implements boundary.Saver.
type File struct {
	Species map[string]*Species
}

// Parse reads a configuration file.
func Parse(fname string) (*File, error) {
	f := &File{ }
	if err := gcfg.ReadFileInto(f, fname); err != nil {
		return nil, fmt.Errorf("Could not parse the config file '%s': %s",
			fname, err.Error())
	}
	return f, nil
}

// ParseString reads a configuration from an in-memory string.
func ParseString(src string) (*File, error) {
	f := &File{ }
	if err := gcfg.ReadStringInto(f, src); err != nil {
		return nil, fmt.Errorf("Could not parse the config text: %s",
			err.Error())
	}
	return f, nil
}

// Save reports whether the named species buffers particles lost at the named
// boundary ("xlo", ..., "zhi", "eb"). Species without a config section save
// nothing.
func (f *File) Save(species, boundaryName string) bool {
	sp := f.Species[species]
	if sp == nil { return false }

	switch boundaryName {
	case "xlo":
		return sp.SaveParticlesAtXLo
	case "xhi":
		return sp.SaveParticlesAtXHi
	case "ylo":
		return sp.SaveParticlesAtYLo
	case "yhi":
		return sp.SaveParticlesAtYHi
	case "zlo":
		return sp.SaveParticlesAtZLo
	case "zhi":
		return sp.SaveParticlesAtZHi
	case "eb":
		return sp.SaveParticlesAtEB
	}
	return false
}
