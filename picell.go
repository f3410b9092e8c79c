/*package picell implements the particle boundary-interaction pipeline of a
particle-in-cell plasma simulation: classifying particles against domain faces
and embedded boundaries, locating exact boundary-crossing points by bisection
on a signed-distance field, and collecting matched particles into per-boundary,
per-species buffer containers.

The heavy lifting is done by the subpackages under lib/. lib/boundary owns the
buffer manager and the gather pipeline, lib/particles the tiled attribute
containers, and lib/geom the domain descriptor and distance fields. The field
solver, time-stepping driver, and output writers are external collaborators
and are consumed only through the narrow interfaces those packages expose.
*/
package picell

var (
	// Version can be used to differentiate between breaking changes to the
	// buffer snapshot format.
	Version uint64 = 0x1
)
