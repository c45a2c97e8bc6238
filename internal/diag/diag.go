// Package diag reports runtime memory and CPU topology, the same
// diagnostic block eutils/utils.go prints ("Mmry %d" / "Core %d" /
// "Sock %d"), reused for --output-memory-usage and index-visualization.
package diag

import (
	"fmt"
	"io"
	"runtime"

	"github.com/klauspost/cpuid"
	"github.com/pbnjay/memory"
)

// Snapshot is one point-in-time resource reading.
type Snapshot struct {
	TotalMemoryGiB float64
	FreeMemoryGiB  float64
	LogicalCores   int
	PhysicalCores  int
	Sockets        int
	CPUBrand       string
}

const gib = 1024 * 1024 * 1024

// Take samples the current process/host resource state.
func Take() Snapshot {
	s := Snapshot{
		TotalMemoryGiB: float64(memory.TotalMemory()) / gib,
		FreeMemoryGiB:  float64(memory.FreeMemory()) / gib,
		LogicalCores:   runtime.NumCPU(),
		CPUBrand:       cpuid.CPU.BrandName,
	}
	if cpuid.CPU.ThreadsPerCore > 0 {
		s.PhysicalCores = s.LogicalCores / cpuid.CPU.ThreadsPerCore
	} else {
		s.PhysicalCores = s.LogicalCores
	}
	if cpuid.CPU.LogicalCores > 0 {
		s.Sockets = s.LogicalCores / cpuid.CPU.LogicalCores
		if s.Sockets < 1 {
			s.Sockets = 1
		}
	} else {
		s.Sockets = 1
	}
	return s
}

// WriteLines writes the teacher's compact per-field diagnostic lines:
// one "Mmry", "Core", and "Sock" line, matching eutils/utils.go.
func WriteLines(w io.Writer, s Snapshot) {
	fmt.Fprintf(w, "Mmry %d\n", int(s.TotalMemoryGiB))
	fmt.Fprintf(w, "Core %d\n", s.PhysicalCores)
	fmt.Fprintf(w, "Sock %d\n", s.Sockets)
}
