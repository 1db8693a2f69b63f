package system

import (
	"fmt"
	"log"
	"syscall"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// InitResourceLimits raises the open-file limit so large exports (one
// PNG per interaction per breakpoint) don't trip the default cap.
func InitResourceLimits() {
	var rLimit syscall.Rlimit
	err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &rLimit)
	if err != nil {
		log.Printf("[!] Could not read file limit: %v", err)
		return
	}

	rLimit.Cur = 2048
	if rLimit.Cur > rLimit.Max {
		rLimit.Cur = rLimit.Max
	}

	err = syscall.Setrlimit(syscall.RLIMIT_NOFILE, &rLimit)
	if err != nil {
		log.Printf("[!] Could not raise file limit: %v", err)
	} else {
		fmt.Printf("[*] Open file limit raised to %d\n", rLimit.Cur)
	}
}

// Stats is a point-in-time snapshot of host load, taken around export
// runs for the performance report.
type Stats struct {
	LogicalCores int
	CPUPercent   float64
	MemUsedMB    float64
	MemTotalMB   float64
}

// Snapshot collects host stats. Failures degrade to zero values; the
// report is informational only.
func Snapshot() Stats {
	var s Stats

	if cores, err := cpu.Counts(true); err == nil {
		s.LogicalCores = cores
	}
	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		s.CPUPercent = percents[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		s.MemUsedMB = float64(vm.Used) / 1024 / 1024
		s.MemTotalMB = float64(vm.Total) / 1024 / 1024
	}

	return s
}

// Report summarizes one export run.
type Report struct {
	Slides   int
	Frames   int
	Duration time.Duration
	Stats    Stats
}

// Print writes the report in the standard format.
func (r Report) Print() {
	fps := 0.0
	if r.Duration > 0 {
		fps = float64(r.Frames) / r.Duration.Seconds()
	}
	fmt.Printf(
		"--- [PERFORMANCE REPORT] ---\n"+
			"Slides: %d\n"+
			"Frames: %d\n"+
			"Total Time: %.2fs\n"+
			"Effective FPS: %.2f\n"+
			"CPU: %d cores @ %.1f%%\n"+
			"Memory: %.0f/%.0f MB\n"+
			"----------------------------\n",
		r.Slides, r.Frames, r.Duration.Seconds(), fps,
		r.Stats.LogicalCores, r.Stats.CPUPercent,
		r.Stats.MemUsedMB, r.Stats.MemTotalMB,
	)
}
