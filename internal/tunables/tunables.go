// Package tunables holds the channel-depth / worker-pool defaults for
// the parallel ingest pipeline of spec.md section 5, following
// eutils/utils.go's chanDepth/farmSize/SetTunings convention: a handful
// of package-level defaults derivable from CPU topology. No CLI flag,
// environment variable or config file overrides them.
package tunables

import (
	"runtime"

	"github.com/klauspost/cpuid"
)

// Defaults bundles the tuning knobs the reader/ingest pipeline needs.
type Defaults struct {
	ChanDepth int
	Workers   int
}

// Compute derives defaults from the host's CPU topology, the way
// eutils/utils.go.SetTunings sizes its worker pool from
// cpuid.CPU.ThreadsPerCore.
func Compute() Defaults {
	n := runtime.NumCPU()
	if n < 1 {
		n = 1
	}
	workers := n
	if cpuid.CPU.ThreadsPerCore > 1 {
		if cores := n / cpuid.CPU.ThreadsPerCore; cores > 0 {
			workers = cores
		}
	}
	return Defaults{ChanDepth: 64, Workers: workers}
}
