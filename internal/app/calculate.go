package app

import (
	"context"
	"io"
	"time"

	"github.com/agbru/rangesum/internal/cli"
	apperrors "github.com/agbru/rangesum/internal/errors"
	"github.com/agbru/rangesum/internal/metrics"
	"github.com/agbru/rangesum/internal/orchestration"
	"github.com/agbru/rangesum/internal/sysmon"
)

// runCalculate prints the header, runs the coordinator with a spinner on
// stderr, and presents the report on out.
func (a *Application) runCalculate(ctx context.Context, recorder *metrics.RunRecorder, out io.Writer) int {
	plan := orchestration.PlanFromConfig(a.Config)

	if !a.Config.Quiet {
		cli.PrintHeader(plan.Workers, out)
	}

	// Progress goes to stderr so stdout keeps its fixed lines.
	var reporter orchestration.ProgressReporter = orchestration.NullProgressReporter{}
	progressOut := io.Discard
	if !a.Config.Quiet && isTerminal(a.ErrWriter) {
		reporter = cli.CLIProgressReporter
		progressOut = a.ErrWriter
	}

	coordinator := orchestration.NewCoordinator(
		orchestration.WithLogger(a.Logger),
		orchestration.WithObserver(observerFor(recorder)),
	)

	start := time.Now()
	report, err := coordinator.Run(ctx, plan, reporter, progressOut)
	if err != nil {
		return a.handleError(err, time.Since(start))
	}
	return a.finish(report, recorder, out)
}

// finish presents a successful report and writes the optional output and
// metrics files. In details mode a failed closed-form check sets the exit code.
func (a *Application) finish(report orchestration.Report, recorder *metrics.RunRecorder, out io.Writer) int {
	presenter := cli.CLIResultPresenter{Quiet: a.Config.Quiet, Details: a.Config.Details}
	var verifyErr error
	if a.Config.Details {
		verifyErr = orchestration.VerifyReport(report)
		presenter.VerifyErr = verifyErr
		presenter.Memory = metrics.NewMemoryCollector().Snapshot()
		presenter.Host = sysmon.Host()
		presenter.Load = sysmon.Sample()
	}
	presenter.PresentReport(report, out)

	exitCode := apperrors.ExitSuccess
	if err := cli.WriteReportToFile(report, a.Config.OutputFile); err != nil {
		exitCode = a.reportWriteError(apperrors.WrapError(err, "saving report to %s", a.Config.OutputFile))
	}
	if recorder != nil {
		if err := recorder.WriteTextfile(a.Config.MetricsFile); err != nil {
			exitCode = a.reportWriteError(apperrors.WrapError(err, "writing metrics to %s", a.Config.MetricsFile))
		}
	}
	if verifyErr != nil {
		a.Logger.Error("verification failed", verifyErr)
		return apperrors.ExitCodeFor(verifyErr)
	}
	return exitCode
}

// reportWriteError logs a failed file write after a successful run and
// returns the generic exit code.
func (a *Application) reportWriteError(err error) int {
	a.Logger.Error("output write failed", err)
	a.warnf("Error %v", err)
	return apperrors.ExitErrorGeneric
}
