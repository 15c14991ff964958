package tui

import (
	"fmt"
	"strings"
	"time"

	bprogress "github.com/charmbracelet/bubbles/progress"

	"github.com/agbru/rangesum/internal/format"
	"github.com/agbru/rangesum/internal/partition"
	"github.com/agbru/rangesum/internal/worker"
)

const minBarWidth = 10

// WorkersModel renders one progress bar per worker.
type WorkersModel struct {
	ranges    []partition.WorkRange
	values    []float64
	done      []bool
	durations []time.Duration
	average   float64
	eta       time.Duration
	bar       bprogress.Model
	width     int
}

// NewWorkersModel creates a panel for the given ranges.
func NewWorkersModel(ranges []partition.WorkRange) WorkersModel {
	return WorkersModel{
		ranges:    ranges,
		values:    make([]float64, len(ranges)),
		done:      make([]bool, len(ranges)),
		durations: make([]time.Duration, len(ranges)),
		bar:       newBar(),
	}
}

func newBar() bprogress.Model {
	if barFullColor == "" {
		return bprogress.New(bprogress.WithSolidFill(""), bprogress.WithFillCharacters('#', '-'))
	}
	return bprogress.New(bprogress.WithGradient(barFullColor, barEmptyColor))
}

// SetProgress records a worker's completed fraction and the run average.
func (w *WorkersModel) SetProgress(index int, value, average float64, eta time.Duration) {
	if index < 0 || index >= len(w.values) {
		return
	}
	if value > w.values[index] {
		w.values[index] = value
	}
	w.average = average
	w.eta = eta
}

// SetDone marks a worker as finished.
func (w *WorkersModel) SetDone(res worker.PartialResult) {
	if res.Index < 0 || res.Index >= len(w.done) {
		return
	}
	w.values[res.Index] = 1
	w.done[res.Index] = true
	w.durations[res.Index] = res.Duration
}

// Completed returns the number of finished workers.
func (w WorkersModel) Completed() int {
	n := 0
	for _, d := range w.done {
		if d {
			n++
		}
	}
	return n
}

// Reset clears all progress.
func (w *WorkersModel) Reset() {
	*w = NewWorkersModel(w.ranges)
}

// SetWidth updates the available width.
func (w *WorkersModel) SetWidth(width int) {
	w.width = width
}

// View renders the worker list, at most maxRows bars followed by a summary
// line for the rest.
func (w WorkersModel) View(maxRows int) string {
	labelWidth := len(fmt.Sprintf("W%d", len(w.ranges)-1))
	rangeWidth := 0
	for _, r := range w.ranges {
		rangeWidth = max(rangeWidth, len(r.String()))
	}

	bar := w.bar
	bar.Width = max(minBarWidth, w.width-labelWidth-rangeWidth-24)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Workers"))
	fmt.Fprintf(&b, "  %s %d/%d done, %.1f%%, ETA %s\n",
		labelStyle.Render("status"), w.Completed(), len(w.ranges),
		w.average*100, format.FormatETA(w.eta))

	shown := len(w.ranges)
	if maxRows > 0 && shown > maxRows {
		shown = maxRows
	}
	for i := 0; i < shown; i++ {
		status := dimStyle.Render("running")
		if w.done[i] {
			status = workerDoneStyle.Render("done " + format.FormatExecutionDuration(w.durations[i]))
		}
		fmt.Fprintf(&b, "%-*s %-*s %s %s\n",
			labelWidth, fmt.Sprintf("W%d", i),
			rangeWidth, w.ranges[i].String(),
			bar.ViewAs(w.values[i]),
			status)
	}
	if rest := len(w.ranges) - shown; rest > 0 {
		fmt.Fprintf(&b, "%s\n", dimStyle.Render(fmt.Sprintf("... %d more workers", rest)))
	}
	return panelStyle.Width(max(0, w.width-2)).Render(strings.TrimRight(b.String(), "\n"))
}
