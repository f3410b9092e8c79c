package main

/* boundary_demo runs a toy free-streaming simulation in a 1D box and buffers
the particles lost at the low-z wall and at an embedded plane, then prints the
buffer contents and writes a snapshot. It is a smoke test for the full
boundary pipeline, not science. */

import (
	"fmt"
	"math"
	"os"

	"github.com/plasmago/picell/lib/boundary"
	"github.com/plasmago/picell/lib/config"
	"github.com/plasmago/picell/lib/diag"
	"github.com/plasmago/picell/lib/error"
	"github.com/plasmago/picell/lib/geom"
	"github.com/plasmago/picell/lib/inject"
	"github.com/plasmago/picell/lib/particles"
	"github.com/plasmago/picell/lib/thread"
	"github.com/plasmago/picell/lib/warn"
)

const (
	NParticles = 1000
	NSteps     = 50
	Dt         = 1e-10
	ZLo, ZHi   = 0.0, 10.0
	ZSurface   = 8.0

	Theta = 0.05
	Seed  = 1337

	ElectronMass = 9.1093837015e-31
	SpeedOfLight = 299792458.0

	SnapshotName = "zlo_buffer.snap"
)

func main() {
	thread.Set(-1)

	cfg, err := config.ParseString(`[Species "electron"]
SaveParticlesAtZLo = true
SaveParticlesAtEB = true`)
	if err != nil { error.External(err.Error()) }

	d, err := geom.NewDescriptor(
		geom.Cartesian1DZ, []float64{ ZLo }, []float64{ ZHi },
		[]bool{ false }, [][]float64{ { 1 / ((ZHi - ZLo) / 100) } }, true,
	)
	if err != nil { error.External(err.Error()) }

	// An absorbing plane at z = ZSurface: negative beyond it.
	phi := make([]float64, 101)
	for i := range phi {
		phi[i] = ZSurface - (ZLo + float64(i)*(ZHi-ZLo)/100)
	}
	field, err := geom.NewDistanceField(
		[]float64{ ZLo }, []float64{ 100 / (ZHi - ZLo) },
		[]int{ 101 }, phi,
	)
	if err != nil { error.External(err.Error()) }

	mpc := setupElectrons()
	warnings := warn.NewManager(nil)
	m := boundary.NewManager(d, mpc, cfg)

	for step := 0; step < NSteps; step++ {
		push(mpc.Container(0), Dt)
		m.Gather(mpc, []*geom.DistanceField{ field }, step, []float64{ Dt })
		drop(mpc.Container(0), m, warnings, step)
	}

	m.PrintNumParticles(os.Stdout)

	p := diag.SpeciesMomentum(m.Buffer("electron", 0), ElectronMass)
	fmt.Printf("Lost momentum at zlo: pz = %.4g kg m/s over weight %.4g\n",
		p.Total[2], p.Weight)

	if err := diag.WriteSnapshot(SnapshotName, m.Buffer("electron", 0)); err != nil {
		error.External("Could not write '%s': %s", SnapshotName, err.Error())
	}
	fmt.Printf("Wrote %s\n", SnapshotName)

	warnings.PrintReport()
}

// setupElectrons fills one tile with electrons spread through the box below
// the absorbing plane, with thermal momenta.
func setupElectrons() *particles.MultiContainer {
	schema, err := particles.BaseSchema(geom.Cartesian1DZ, nil, nil)
	if err != nil { error.External(err.Error()) }

	c := particles.NewContainer("electron", 0, schema, 1)
	tile := c.AddTile(0)
	tile.Resize(NParticles)

	sampler := inject.NewGaussian(
		inject.Drift([3]float64{ }), inject.Constant(Theta), Seed,
	)
	z := tile.Float("z")
	ux, uy, uz := tile.Float("ux"), tile.Float("uy"), tile.Float("uz")
	w, id := tile.Float("w"), tile.Int("id")
	for i := 0; i < NParticles; i++ {
		z[i] = ZLo + (ZSurface-ZLo)*(float64(i)+0.5)/NParticles
		u := sampler.Sample(0, 0, z[i])
		ux[i], uy[i], uz[i] = u[0], u[1], u[2]
		w[i] = 1
		id[i] = int64(i) + 1
	}

	mpc, err := particles.NewMultiContainer(c)
	if err != nil { error.External(err.Error()) }
	return mpc
}

// push free-streams every particle for one step.
func push(c *particles.Container, dt float64) {
	for _, t := range c.Tiles(0) {
		z := t.Float("z")
		ux, uy, uz := t.Float("ux"), t.Float("uy"), t.Float("uz")
		for i := range z {
			u2 := ux[i]*ux[i] + uy[i]*uy[i] + uz[i]*uz[i]
			gamma := math.Sqrt(1 + u2/(SpeedOfLight*SpeedOfLight))
			z[i] += uz[i] * dt / gamma
		}
	}
}

// drop invalidates the particles the gather just matched, then compacts. A
// step that loses a large fraction of the remaining population is worth a
// warning.
func drop(
	c *particles.Container, m *boundary.Manager,
	warnings *warn.Manager, step int,
) {
	lost := 0
	for _, t := range c.Tiles(0) {
		z := t.Float("z")
		id := t.Int("id")
		for i := range z {
			if z[i] < ZLo || z[i] >= ZSurface {
				if id[i] > 0 { lost++ }
				id[i] = -1
			}
		}
	}

	before := c.NumParticles(true)
	c.Redistribute()
	m.Redistribute()

	if before > 0 && float64(lost)/float64(before) > 0.1 {
		warnings.Record("Particles",
			fmt.Sprintf("Species electron lost more than 10%% of its "+
				"remaining particles in one step (step %d).", step),
			warn.Medium)
	}
}
