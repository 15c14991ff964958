package orchestration

import (
	"io"
	"sync"

	"github.com/agbru/rangesum/internal/progress"
	"github.com/agbru/rangesum/internal/worker"
)

// ProgressReporter defines the interface for displaying worker progress.
// This interface decouples the orchestration layer from the presentation
// layer: implementations handle the visual representation (spinners,
// progress bars, dashboards) while the coordinator runs the workers.
type ProgressReporter interface {
	// DisplayProgress consumes progress updates until progressChan is
	// closed, then calls wg.Done.
	//
	// Parameters:
	//   - wg: A WaitGroup to signal when display is complete.
	//   - progressChan: Channel receiving progress updates from workers.
	//   - numWorkers: The number of concurrent workers being tracked.
	//   - out: The writer for progress output.
	DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numWorkers int, out io.Writer)
}

// ProgressReporterFunc is a function adapter that implements ProgressReporter.
type ProgressReporterFunc func(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numWorkers int, out io.Writer)

// DisplayProgress calls the underlying function.
func (f ProgressReporterFunc) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numWorkers int, out io.Writer) {
	f(wg, progressChan, numWorkers, out)
}

// NullProgressReporter is a no-op implementation of ProgressReporter.
// It drains the progress channel without displaying anything.
type NullProgressReporter struct{}

// DisplayProgress drains the channel without output.
func (NullProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, _ int, _ io.Writer) {
	defer wg.Done()
	DrainChannel(progressChan)
}

// WorkerObserver is notified as each worker finishes and once the run has
// been aggregated. Implementations must be safe for concurrent use.
type WorkerObserver interface {
	WorkerDone(res worker.PartialResult)
	RunDone(report Report)
}

// ResultPresenter renders a finished run.
type ResultPresenter interface {
	// PresentReport writes the report to out.
	PresentReport(report Report, out io.Writer)
}
