package app

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	apperrors "github.com/agbru/rangesum/internal/errors"
	"github.com/agbru/rangesum/internal/logging"
)

func newTestApp(t *testing.T, args ...string) (*Application, *bytes.Buffer) {
	t.Helper()
	t.Chdir(t.TempDir()) // no stray .env
	var errBuf bytes.Buffer
	application, err := New(append([]string{"rangesum"}, args...), &errBuf,
		WithLogger(logging.NewStdLoggerAdapter(log.New(io.Discard, "", 0))))
	if err != nil {
		t.Fatalf("New(%v): %v\nstderr: %s", args, err, errBuf.String())
	}
	return application, &errBuf
}

func TestNew_ParsesArguments(t *testing.T) {
	application, _ := newTestApp(t, "-size", "1000", "-remainder", "absorb", "4")
	if application.Config.Workers != 4 || application.Config.DataSize != 1000 || application.Config.Remainder != "absorb" {
		t.Errorf("unexpected config %+v", application.Config)
	}
}

func TestNew_Help(t *testing.T) {
	t.Chdir(t.TempDir())
	_, err := New([]string{"rangesum", "-h"}, io.Discard)
	if !IsHelpError(err) {
		t.Errorf("expected help error, got %v", err)
	}
}

func TestNew_InvalidSize(t *testing.T) {
	t.Chdir(t.TempDir())
	var errBuf bytes.Buffer
	_, err := New([]string{"rangesum", "-size", "0"}, &errBuf)
	if code := apperrors.ExitCodeFor(err); code != apperrors.ExitErrorConfig {
		t.Errorf("exit code = %d, want %d (err %v)", code, apperrors.ExitErrorConfig, err)
	}
	if !strings.Contains(errBuf.String(), "-size") {
		t.Errorf("stderr should explain the error, got %q", errBuf.String())
	}
}

var elapsedLine = regexp.MustCompile(`^Elapsed Time: \d+\.\d{3} seconds$`)

func TestRun_StandardReport(t *testing.T) {
	application, _ := newTestApp(t, "-size", "1000", "4")
	var out bytes.Buffer

	if code := application.Run(context.Background(), &out); code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d", code)
	}

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %d:\n%s", len(lines), out.String())
	}
	want := []string{
		"Operation Type: CPU Bound Simulation with Worker Threads",
		"Worker Count: 4",
		"...",
		"Mean: 500.5",
	}
	for i, w := range want {
		if lines[i] != w {
			t.Errorf("line %d = %q, want %q", i+1, lines[i], w)
		}
	}
	if !elapsedLine.MatchString(lines[4]) {
		t.Errorf("line 5 = %q, want Elapsed Time with 3 decimals", lines[4])
	}
}

func TestRun_InvalidWorkerArgumentFallsBack(t *testing.T) {
	for _, arg := range []string{"abc", "0", "-1"} {
		t.Run(arg, func(t *testing.T) {
			application, _ := newTestApp(t, "-size", "100", arg)
			var out bytes.Buffer
			if code := application.Run(context.Background(), &out); code != apperrors.ExitSuccess {
				t.Fatalf("exit code = %d", code)
			}
			if strings.Contains(out.String(), "Worker Count: 0") || !strings.Contains(out.String(), "Worker Count: ") {
				t.Errorf("expected a positive default worker count, got:\n%s", out.String())
			}
		})
	}
}

func TestRun_Quiet(t *testing.T) {
	application, _ := newTestApp(t, "-q", "-size", "10", "-remainder", "absorb", "3")
	var out bytes.Buffer
	if code := application.Run(context.Background(), &out); code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d", code)
	}
	if out.String() != "5.5\n" {
		t.Errorf("quiet output = %q, want %q", out.String(), "5.5\n")
	}
}

func TestRun_Details(t *testing.T) {
	application, _ := newTestApp(t, "-d", "-no-color", "-size", "10", "3")
	var out bytes.Buffer
	if code := application.Run(context.Background(), &out); code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d", code)
	}
	for _, want := range []string{"Mean: 4.5", "Worker Details", "Dropped:", "match the closed form", "Memory Stats", "Host:"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("details output should contain %q", want)
		}
	}
}

func TestRun_WritesOutputAndMetricsFiles(t *testing.T) {
	dir := t.TempDir()
	reportPath := filepath.Join(dir, "out", "report.txt")
	metricsPath := filepath.Join(dir, "rangesum.prom")

	application, _ := newTestApp(t, "-size", "1000", "-o", reportPath, "-metrics-file", metricsPath, "2")
	if code := application.Run(context.Background(), io.Discard); code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d", code)
	}

	report, err := os.ReadFile(reportPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(report), "Total Sum: 500500") {
		t.Errorf("report file missing total:\n%s", report)
	}
	prom, err := os.ReadFile(metricsPath)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"rangesum_workers 2", "rangesum_workers_completed_total 2", "rangesum_mean 500.5"} {
		if !strings.Contains(string(prom), want) {
			t.Errorf("metrics file should contain %q", want)
		}
	}
}

func TestRun_UnwritableOutputFile(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	reportPath := filepath.Join(blocker, "report.txt")

	application, errBuf := newTestApp(t, "-size", "100", "-o", reportPath, "2")
	var out bytes.Buffer
	if code := application.Run(context.Background(), &out); code != apperrors.ExitErrorGeneric {
		t.Errorf("exit code = %d, want %d", code, apperrors.ExitErrorGeneric)
	}
	if !strings.Contains(out.String(), "Mean: 50.5") {
		t.Errorf("report should still be printed, got:\n%s", out.String())
	}
	if !strings.Contains(errBuf.String(), "saving report to "+reportPath) {
		t.Errorf("stderr should name the failed path, got %q", errBuf.String())
	}
}

func TestRun_Canceled(t *testing.T) {
	application, errBuf := newTestApp(t, "-size", "1000000000", "2")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if code := application.Run(ctx, io.Discard); code != apperrors.ExitErrorCanceled {
		t.Errorf("exit code = %d, want %d", code, apperrors.ExitErrorCanceled)
	}
	if !strings.Contains(errBuf.String(), "Canceled") {
		t.Errorf("stderr should report cancellation, got %q", errBuf.String())
	}
}

func TestRun_Timeout(t *testing.T) {
	application, errBuf := newTestApp(t, "-size", "1000000000", "-timeout", "1ns", "1")
	if code := application.Run(context.Background(), io.Discard); code != apperrors.ExitErrorTimeout {
		t.Errorf("exit code = %d, want %d", code, apperrors.ExitErrorTimeout)
	}
	if !strings.Contains(errBuf.String(), "Timeout") {
		t.Errorf("stderr should report the timeout, got %q", errBuf.String())
	}
}

func TestRun_Version(t *testing.T) {
	application, _ := newTestApp(t, "-version")
	var out bytes.Buffer
	if code := application.Run(context.Background(), &out); code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.HasPrefix(out.String(), "rangesum "+Version) {
		t.Errorf("unexpected banner %q", out.String())
	}
}

func TestHasVersionFlag(t *testing.T) {
	tests := []struct {
		args []string
		want bool
	}{
		{nil, false},
		{[]string{"4"}, false},
		{[]string{"--version"}, true},
		{[]string{"-size", "10", "-version"}, true},
		{[]string{"-V"}, true},
		{[]string{"--", "-version"}, false},
	}
	for _, tt := range tests {
		if got := HasVersionFlag(tt.args); got != tt.want {
			t.Errorf("HasVersionFlag(%v) = %v, want %v", tt.args, got, tt.want)
		}
	}
}

func TestIsHelpError(t *testing.T) {
	if IsHelpError(errors.New("other")) || IsHelpError(nil) {
		t.Error("only flag.ErrHelp is a help error")
	}
}
