// This file implements adaptive candidate generation based on hardware
// characteristics.

package calibration

import "runtime"

// CandidateWorkerCounts generates the list of worker counts to benchmark
// based on the number of available CPU cores.
//
// The rationale:
// - Single-core: only one worker makes sense
// - 2-4 cores: small counts, parallelism overhead is relatively high
// - 8+ cores: include mid-range counts
// - 16+ cores: cap at 16, beyond which workers contend for cores
func CandidateWorkerCounts() []int {
	return candidatesFor(runtime.NumCPU())
}

func candidatesFor(numCPU int) []int {
	if numCPU <= 1 {
		return []int{1}
	}

	var candidates []int
	switch {
	case numCPU <= 4:
		candidates = []int{1, 2, numCPU}
	case numCPU <= 8:
		candidates = []int{1, 2, 4, numCPU}
	case numCPU <= 16:
		candidates = []int{1, 2, 4, 8, numCPU}
	default:
		candidates = []int{1, 2, 4, 8, 16}
	}

	return dedupe(candidates)
}

// dedupe removes duplicates from an already ascending candidate list
// (numCPU may collide with a base count).
func dedupe(counts []int) []int {
	out := counts[:0]
	prev := 0
	for _, c := range counts {
		if c != prev {
			out = append(out, c)
			prev = c
		}
	}
	return out
}
