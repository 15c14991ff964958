package sysmon

import (
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v4/cpu"
	xcpu "golang.org/x/sys/cpu"
)

// HostInfo describes the machine the run executes on.
type HostInfo struct {
	ModelName     string
	LogicalCPUs   int
	PhysicalCores int
	GOMAXPROCS    int
	Arch          string
	Features      []string
}

// Host gathers HostInfo. Fields that cannot be determined are left zero.
func Host() HostInfo {
	info := HostInfo{
		LogicalCPUs: runtime.NumCPU(),
		GOMAXPROCS:  runtime.GOMAXPROCS(0),
		Arch:        runtime.GOARCH,
		Features:    cpuFeatures(),
	}
	if cores, err := cpu.Counts(false); err == nil {
		info.PhysicalCores = cores
	}
	if infos, err := cpu.Info(); err == nil && len(infos) > 0 {
		info.ModelName = strings.TrimSpace(infos[0].ModelName)
	}
	return info
}

// cpuFeatures lists the SIMD extensions relevant to tight integer loops.
func cpuFeatures() []string {
	var features []string
	switch runtime.GOARCH {
	case "amd64", "386":
		if xcpu.X86.HasSSE42 {
			features = append(features, "sse4.2")
		}
		if xcpu.X86.HasAVX2 {
			features = append(features, "avx2")
		}
		if xcpu.X86.HasAVX512F {
			features = append(features, "avx512f")
		}
	case "arm64":
		if xcpu.ARM64.HasASIMD {
			features = append(features, "asimd")
		}
		if xcpu.ARM64.HasSVE {
			features = append(features, "sve")
		}
	}
	return features
}
