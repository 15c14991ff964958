package sysmon

import (
	"runtime"
	"testing"
)

func TestSample_ReturnsValidRanges(t *testing.T) {
	s := Sample()
	if s.CPUPercent < 0 || s.CPUPercent > 100 {
		t.Errorf("CPUPercent out of range: %f", s.CPUPercent)
	}
	if s.MemPercent < 0 || s.MemPercent > 100 {
		t.Errorf("MemPercent out of range: %f", s.MemPercent)
	}
}

func TestPerCPU_ValidRanges(t *testing.T) {
	for i, p := range PerCPU() {
		if p < 0 || p > 100 {
			t.Errorf("cpu %d percent out of range: %f", i, p)
		}
	}
}

func TestHost(t *testing.T) {
	h := Host()
	if h.LogicalCPUs != runtime.NumCPU() {
		t.Errorf("LogicalCPUs = %d, want %d", h.LogicalCPUs, runtime.NumCPU())
	}
	if h.GOMAXPROCS < 1 {
		t.Errorf("GOMAXPROCS = %d, want >= 1", h.GOMAXPROCS)
	}
	if h.Arch != runtime.GOARCH {
		t.Errorf("Arch = %q, want %q", h.Arch, runtime.GOARCH)
	}
}
