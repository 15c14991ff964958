package cli

import (
	"io"

	"github.com/agbru/rangesum/internal/metrics"
	"github.com/agbru/rangesum/internal/orchestration"
	"github.com/agbru/rangesum/internal/sysmon"
)

// CLIProgressReporter renders worker progress with a spinner and progress bar.
var CLIProgressReporter orchestration.ProgressReporter = orchestration.ProgressReporterFunc(DisplayProgress)

// CLIResultPresenter implements orchestration.ResultPresenter for the
// command line.
type CLIResultPresenter struct {
	// Quiet prints only the mean.
	Quiet bool
	// Details appends the per-worker table and diagnostics.
	Details bool
	// VerifyErr is the closed-form verification outcome shown in details mode.
	VerifyErr error
	// Memory and Host are shown in details mode.
	Memory metrics.MemorySnapshot
	Host   sysmon.HostInfo
	Load   sysmon.Stats
}

var _ orchestration.ResultPresenter = CLIResultPresenter{}

// PresentReport writes the report lines that follow the header.
func (p CLIResultPresenter) PresentReport(report orchestration.Report, out io.Writer) {
	if p.Quiet {
		DisplayQuietReport(report, out)
		return
	}
	DisplayReport(report, out)
	if p.Details {
		DisplayDetails(report, p.VerifyErr, out)
		DisplayMemoryStats(p.Memory, out)
		DisplayHostInfo(p.Host, p.Load, out)
	}
}
