/*package thread contains functions useful for multi-threading.*/
package thread

import (
	"runtime"

	"github.com/plasmago/picell/lib/error"
)

// Set sets the number of OS threads used by tile-level workers. Passing -1
// uses every core on the node.
func Set(n int) {
	if n == -1 {
		n = runtime.NumCPU()
	} else if n > runtime.NumCPU() {
		error.External("%d threads requested, but your system only has %d " +
			"cores per node. If you want picell to use the maximum number " +
			"of threads per node, set Threads=-1.", n, runtime.NumCPU())
	} else if n <= 0 {
		error.External("%d threads requested, but the thread count must be " +
			"positive (or -1 for all cores).", n)
	}

	runtime.GOMAXPROCS(n)
}
