/*package diag computes reduced diagnostics over particle containers and
writes boundary-buffer snapshots for external consumers.*/
package diag

import (
	"gonum.org/v1/gonum/floats"

	"github.com/plasmago/picell/lib/particles"
)

// Momentum is the result of a total-momentum reduction over one container.
type Momentum struct {
	// Total is the weight-summed relativistic momentum, sum over particles
	// of m*u*w, per Cartesian component.
	Total [3]float64
	// Mean is Total divided by the total weight; zero if the container holds
	// no weight.
	Mean [3]float64
	// Weight is the summed particle weight.
	Weight float64
}

// SpeciesMomentum reduces the total relativistic momentum of a container,
// live or buffered. mass is the species' particle mass in kg.
func SpeciesMomentum(c *particles.Container, mass float64) Momentum {
	out := Momentum{ }
	for lev := 0; lev < c.NumLevels(); lev++ {
		for _, t := range c.Tiles(lev) {
			if t == nil || t.Len() == 0 { continue }
			w := t.Float("w")
			out.Total[0] += mass * floats.Dot(t.Float("ux"), w)
			out.Total[1] += mass * floats.Dot(t.Float("uy"), w)
			out.Total[2] += mass * floats.Dot(t.Float("uz"), w)
			out.Weight += floats.Sum(w)
		}
	}

	if out.Weight > 0 {
		for i := range out.Mean {
			out.Mean[i] = out.Total[i] / out.Weight
		}
	}
	return out
}
