package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/rangesum/internal/format"
	"github.com/agbru/rangesum/internal/orchestration"
)

// HeaderModel renders the top bar: title, plan and elapsed time.
type HeaderModel struct {
	startTime time.Time
	endTime   time.Time
	version   string
	plan      orchestration.Plan
	width     int
}

// NewHeaderModel creates a new header.
func NewHeaderModel(version string, plan orchestration.Plan) HeaderModel {
	return HeaderModel{
		startTime: time.Now(),
		version:   version,
		plan:      plan,
	}
}

// SetDone freezes the elapsed timer at the current time.
func (h *HeaderModel) SetDone() {
	h.endTime = time.Now()
}

// Reset restarts the elapsed timer.
func (h *HeaderModel) Reset() {
	h.startTime = time.Now()
	h.endTime = time.Time{}
}

// SetWidth updates the available width.
func (h *HeaderModel) SetWidth(w int) {
	h.width = w
}

// Elapsed returns the time since the run started, frozen once done.
func (h HeaderModel) Elapsed() time.Duration {
	if !h.endTime.IsZero() {
		return h.endTime.Sub(h.startTime)
	}
	return time.Since(h.startTime)
}

// View renders the header.
func (h HeaderModel) View() string {
	titleText := "rangesum"
	if h.version != "" && h.version != "dev" {
		titleText += " " + h.version
	}
	pipe := dimStyle.Render(" | ")
	planText := fmt.Sprintf("%s elements, %d workers, remainder %s",
		format.FormatUint(h.plan.DataSize), h.plan.Workers, h.plan.Policy)
	elapsed := accentStyle.Render("Elapsed: " + format.FormatExecutionDuration(h.Elapsed()))

	row := titleStyle.Render(titleText) + pipe + planText + pipe + elapsed
	if gap := h.width - 2 - lipgloss.Width(row); gap > 0 {
		row += spaces(gap)
	}
	return headerStyle.Width(h.width).Render(row)
}

// spaces returns a string of n space characters.
func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}
