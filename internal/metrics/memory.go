package metrics

import "runtime"

// MemorySnapshot holds a point-in-time memory reading used for run
// provenance and verbose diagnostics.
type MemorySnapshot struct {
	HeapAlloc   uint64 // bytes in use by application
	Sys         uint64 // total bytes obtained from OS
	TotalAlloc  uint64 // cumulative bytes allocated
	NumGC       uint32 // number of completed GC cycles
	HeapObjects uint64 // number of allocated heap objects
}

// MemoryCollector reads runtime memory statistics.
type MemoryCollector struct{}

// NewMemoryCollector creates a new memory collector.
func NewMemoryCollector() *MemoryCollector {
	return &MemoryCollector{}
}

// Snapshot reads current memory statistics.
func (mc *MemoryCollector) Snapshot() MemorySnapshot {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return MemorySnapshot{
		HeapAlloc:   m.HeapAlloc,
		Sys:         m.Sys,
		TotalAlloc:  m.TotalAlloc,
		NumGC:       m.NumGC,
		HeapObjects: m.HeapObjects,
	}
}

// Delta returns the allocation growth between two snapshots taken around a
// run. GC counts are reported as the difference in completed cycles.
func (s MemorySnapshot) Delta(before MemorySnapshot) MemorySnapshot {
	return MemorySnapshot{
		HeapAlloc:   s.HeapAlloc - min(s.HeapAlloc, before.HeapAlloc),
		Sys:         s.Sys - min(s.Sys, before.Sys),
		TotalAlloc:  s.TotalAlloc - before.TotalAlloc,
		NumGC:       s.NumGC - before.NumGC,
		HeapObjects: s.HeapObjects - min(s.HeapObjects, before.HeapObjects),
	}
}
