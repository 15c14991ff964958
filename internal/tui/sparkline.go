package tui

import "strings"

// sparkLevels are the eight block heights, lowest first.
var sparkLevels = []rune("▁▂▃▄▅▆▇█")

// LoadHistory keeps the most recent percentage samples of one host gauge.
// Samples are clamped to [0, 100] on entry.
type LoadHistory struct {
	samples []float64
	limit   int
}

// NewLoadHistory returns an empty history holding at most limit samples.
func NewLoadHistory(limit int) *LoadHistory {
	return &LoadHistory{limit: max(1, limit)}
}

// Add appends a sample, discarding the oldest once the limit is reached.
func (h *LoadHistory) Add(percent float64) {
	h.samples = append(h.samples, min(100, max(0, percent)))
	if over := len(h.samples) - h.limit; over > 0 {
		h.samples = append(h.samples[:0], h.samples[over:]...)
	}
}

// SetLimit changes the retained sample count, keeping the newest samples.
func (h *LoadHistory) SetLimit(limit int) {
	h.limit = max(1, limit)
	if over := len(h.samples) - h.limit; over > 0 {
		h.samples = append(h.samples[:0], h.samples[over:]...)
	}
}

// Last returns the newest sample, or 0 when empty.
func (h *LoadHistory) Last() float64 {
	if len(h.samples) == 0 {
		return 0
	}
	return h.samples[len(h.samples)-1]
}

// Len returns the number of retained samples.
func (h *LoadHistory) Len() int { return len(h.samples) }

// Samples returns a copy of the retained samples, oldest first.
func (h *LoadHistory) Samples() []float64 {
	return append([]float64(nil), h.samples...)
}

// Clear drops every sample.
func (h *LoadHistory) Clear() { h.samples = h.samples[:0] }

// Sparkline renders the newest width samples as block characters, right
// aligned and left padded with spaces so the line length stays constant.
// A non-positive width renders every sample.
func Sparkline(samples []float64, width int) string {
	if width <= 0 {
		width = len(samples)
	}
	if len(samples) > width {
		samples = samples[len(samples)-width:]
	}
	var b strings.Builder
	b.WriteString(strings.Repeat(" ", width-len(samples)))
	top := len(sparkLevels) - 1
	for _, v := range samples {
		b.WriteRune(sparkLevels[min(top, int(v/100*float64(top)))])
	}
	return b.String()
}
