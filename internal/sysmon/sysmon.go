// Package sysmon provides system-wide CPU and memory usage sampling, used to
// record machine load alongside calibration and verbose run output.
package sysmon

import (
	"fmt"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

// Stats holds a single snapshot of system-wide resource usage.
type Stats struct {
	CPUPercent float64 // 0.0 .. 100.0
	MemPercent float64 // 0.0 .. 100.0
	NumCPU     int
}

// Sample collects a single system-wide CPU and memory snapshot.
// CPU uses interval=0 (delta since last call). Returns zero values on error.
func Sample() Stats {
	var s Stats
	cpuPcts, err := cpu.Percent(0, false)
	if err == nil && len(cpuPcts) > 0 {
		s.CPUPercent = cpuPcts[0]
	}
	if counts, err := cpu.Counts(true); err == nil {
		s.NumCPU = counts
	}
	vmem, err := mem.VirtualMemory()
	if err == nil && vmem != nil {
		s.MemPercent = vmem.UsedPercent
	}
	return s
}

// String renders the snapshot for log and verbose output.
func (s Stats) String() string {
	return fmt.Sprintf("cpu=%.1f%% mem=%.1f%% cores=%d", s.CPUPercent, s.MemPercent, s.NumCPU)
}
