package orchestration

import (
	"github.com/agbru/rangesum/internal/metrics"
	"github.com/agbru/rangesum/internal/worker"
)

// RecorderObserver feeds run events into a metrics.RunRecorder.
type RecorderObserver struct {
	Recorder *metrics.RunRecorder
}

// WorkerDone records the worker's range length and duration.
func (o RecorderObserver) WorkerDone(res worker.PartialResult) {
	o.Recorder.WorkerDone(res)
}

// RunDone records the aggregate gauges.
func (o RecorderObserver) RunDone(report Report) {
	o.Recorder.RunDone(metrics.RunSummary{
		Workers:  report.WorkerCount,
		DataSize: report.DataSize,
		Dropped:  report.Dropped,
		TotalSum: report.TotalSum,
		Mean:     report.Mean,
		Elapsed:  report.Elapsed,
	})
}

type multiObserver []WorkerObserver

func (m multiObserver) WorkerDone(res worker.PartialResult) {
	for _, o := range m {
		o.WorkerDone(res)
	}
}

func (m multiObserver) RunDone(report Report) {
	for _, o := range m {
		o.RunDone(report)
	}
}

// Observers fans events out to every non-nil observer. It returns nil when
// none remain.
func Observers(observers ...WorkerObserver) WorkerObserver {
	var m multiObserver
	for _, o := range observers {
		if o != nil {
			m = append(m, o)
		}
	}
	switch len(m) {
	case 0:
		return nil
	case 1:
		return m[0]
	}
	return m
}
