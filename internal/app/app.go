// Package app wires configuration, logging, the coordinator and the
// presentation layers into the rangesum command.
package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"

	"github.com/agbru/rangesum/internal/cli"
	"github.com/agbru/rangesum/internal/config"
	apperrors "github.com/agbru/rangesum/internal/errors"
	"github.com/agbru/rangesum/internal/logging"
	"github.com/agbru/rangesum/internal/metrics"
	"github.com/agbru/rangesum/internal/orchestration"
	"github.com/agbru/rangesum/internal/tui"
	"github.com/agbru/rangesum/internal/ui"
)

// Application represents the rangesum application instance.
type Application struct {
	Config    config.AppConfig
	ErrWriter io.Writer
	Logger    logging.Logger
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithLogger replaces the stderr logger built from -log-level.
func WithLogger(l logging.Logger) AppOption {
	return func(a *Application) { a.Logger = l }
}

// New creates a new Application instance by parsing command-line arguments.
// args includes the program name.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{ErrWriter: errWriter}
	for _, opt := range opts {
		opt(app)
	}

	programName := "rangesum"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter)
	if err != nil {
		return nil, err
	}
	app.Config = cfg
	return app, nil
}

// Run executes the application and returns the process exit code.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	if a.Config.Version {
		PrintVersion(out)
		return apperrors.ExitSuccess
	}

	level, _ := logging.ParseLevel(a.Config.LogLevel)
	zerolog.SetGlobalLevel(level)
	ui.InitTheme(a.Config.NoColor || !isTerminal(out))
	if a.Logger == nil {
		a.Logger = a.newLogger()
	}

	ctx, cancelTimeout := context.WithTimeout(ctx, a.Config.Timeout)
	defer cancelTimeout()
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	var recorder *metrics.RunRecorder
	if a.Config.MetricsFile != "" {
		recorder = metrics.NewRunRecorder()
	}

	if a.Config.TUI {
		return a.runTUI(ctx, recorder, out)
	}
	return a.runCalculate(ctx, recorder, out)
}

// newLogger writes human-readable entries when stderr is a terminal and
// JSON lines otherwise.
func (a *Application) newLogger() logging.Logger {
	if isTerminal(a.ErrWriter) {
		return logging.NewConsoleLogger(a.ErrWriter, "rangesum", a.Config.NoColor)
	}
	return logging.NewLogger(a.ErrWriter, "rangesum")
}

// runTUI runs the dashboard, then prints the standard report once it closes.
func (a *Application) runTUI(ctx context.Context, recorder *metrics.RunRecorder, out io.Writer) int {
	plan := orchestration.PlanFromConfig(a.Config)
	start := time.Now()

	report, err := tui.Run(ctx, plan, tui.Options{
		Version:  Version,
		Logger:   logging.NewZerologAdapter(zerolog.Nop()),
		Observer: observerFor(recorder),
	})
	if err != nil {
		return a.handleError(err, time.Since(start))
	}

	cli.PrintHeader(plan.Workers, out)
	return a.finish(report, recorder, out)
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}

// handleError turns a run error into an exit code, reporting it on stderr.
func (a *Application) handleError(err error, elapsed time.Duration) int {
	if errors.Is(err, context.DeadlineExceeded) {
		err = apperrors.TimeoutError{Operation: "range sum", Limit: a.Config.Timeout}
	}
	if !apperrors.IsContextError(err) {
		a.Logger.Error("run failed", err)
	}
	return apperrors.HandleRunError(err, elapsed, a.ErrWriter)
}

// observerFor returns a nil interface, not a typed nil, when there is no
// recorder.
func observerFor(recorder *metrics.RunRecorder) orchestration.WorkerObserver {
	if recorder == nil {
		return nil
	}
	return orchestration.RecorderObserver{Recorder: recorder}
}

// isTerminal reports whether w is a terminal file descriptor.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (a *Application) warnf(format string, args ...any) {
	fmt.Fprintf(a.ErrWriter, format+"\n", args...)
}
