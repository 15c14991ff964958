package tui

import (
	"fmt"
	"strings"

	"github.com/agbru/rangesum/internal/format"
)

const sparklineSamples = 40

// SystemModel renders host load sparklines and runtime memory figures.
type SystemModel struct {
	cpu   *LoadHistory
	mem   *LoadHistory
	stats MemStatsMsg
	width int
}

// NewSystemModel creates an empty system panel.
func NewSystemModel() SystemModel {
	return SystemModel{
		cpu: NewLoadHistory(sparklineSamples),
		mem: NewLoadHistory(sparklineSamples),
	}
}

// UpdateSysStats appends a host sample.
func (s *SystemModel) UpdateSysStats(cpu, mem float64) {
	s.cpu.Add(cpu)
	s.mem.Add(mem)
}

// UpdateMemStats replaces the runtime memory figures.
func (s *SystemModel) UpdateMemStats(msg MemStatsMsg) {
	s.stats = msg
}

// SetWidth updates the available width and resizes the sample history to fit.
func (s *SystemModel) SetWidth(width int) {
	s.width = width
	s.cpu.SetLimit(s.sparkWidth())
	s.mem.SetLimit(s.sparkWidth())
}

func (s SystemModel) sparkWidth() int {
	if n := s.width - 20; n > 0 {
		return min(n, sparklineSamples)
	}
	return sparklineSamples
}

// Reset clears the sample history.
func (s *SystemModel) Reset() {
	s.cpu.Clear()
	s.mem.Clear()
	s.stats = MemStatsMsg{}
}

// View renders the panel.
func (s SystemModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("System") + "\n")
	fmt.Fprintf(&b, "%s %s %5.1f%%\n", labelStyle.Render("CPU"),
		cpuSparklineStyle.Render(Sparkline(s.cpu.Samples(), s.sparkWidth())), s.cpu.Last())
	fmt.Fprintf(&b, "%s %s %5.1f%%\n", labelStyle.Render("MEM"),
		memSparklineStyle.Render(Sparkline(s.mem.Samples(), s.sparkWidth())), s.mem.Last())
	fmt.Fprintf(&b, "%s %s  %s %s  %s %s",
		labelStyle.Render("Heap"), valueStyle.Render(format.FormatBytes(s.stats.HeapAlloc)),
		labelStyle.Render("GC"), valueStyle.Render(fmt.Sprint(s.stats.NumGC)),
		labelStyle.Render("Goroutines"), valueStyle.Render(fmt.Sprint(s.stats.NumGoroutine)))
	return panelStyle.Width(max(0, s.width-2)).Render(b.String())
}
