package tui

import (
	"time"

	"github.com/agbru/rangesum/internal/orchestration"
	"github.com/agbru/rangesum/internal/worker"
)

// ProgressMsg carries one worker progress update and the running average.
type ProgressMsg struct {
	WorkerIndex     int
	Value           float64
	AverageProgress float64
	ETA             time.Duration
	Generation      uint64
}

// ProgressDoneMsg is sent once the progress channel has been closed.
type ProgressDoneMsg struct {
	Generation uint64
}

// WorkerDoneMsg is sent when a worker returns its partial sum.
type WorkerDoneMsg struct {
	Result     worker.PartialResult
	Generation uint64
}

// RunCompleteMsg is sent when the coordinator has joined all workers.
type RunCompleteMsg struct {
	Report     orchestration.Report
	Err        error
	Generation uint64
}

// TickMsg drives periodic sampling.
type TickMsg time.Time

// MemStatsMsg carries a runtime memory snapshot.
type MemStatsMsg struct {
	HeapAlloc    uint64
	NumGC        uint32
	NumGoroutine int
}

// SysStatsMsg carries a system-wide CPU and memory sample.
type SysStatsMsg struct {
	CPUPercent float64
	MemPercent float64
}

// ContextCancelledMsg is sent when the run context ends.
type ContextCancelledMsg struct {
	Err        error
	Generation uint64
}
