// # Naming Conventions
//
//   - Print* and Display* functions write formatted output to an [io.Writer].
//   - Format* functions return a string without performing I/O.
//   - Write* functions write data to files on the filesystem.

package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/agbru/rangesum/internal/format"
	"github.com/agbru/rangesum/internal/metrics"
	"github.com/agbru/rangesum/internal/orchestration"
	"github.com/agbru/rangesum/internal/sysmon"
	"github.com/agbru/rangesum/internal/ui"
	"github.com/agbru/rangesum/internal/worker"
)

// OperationType is the first line of every report.
const OperationType = "CPU Bound Simulation with Worker Threads"

// PrintHeader writes the lines printed before the workers are spawned.
func PrintHeader(workers int, out io.Writer) {
	fmt.Fprintf(out, "Operation Type: %s\n", OperationType)
	fmt.Fprintf(out, "Worker Count: %d\n", workers)
	fmt.Fprintln(out, "...")
}

// DisplayReport writes the mean and elapsed time lines.
func DisplayReport(report orchestration.Report, out io.Writer) {
	fmt.Fprintf(out, "Mean: %s\n", format.FormatMean(report.Mean))
	fmt.Fprintf(out, "Elapsed Time: %s seconds\n", format.FormatElapsedSeconds(report.Elapsed))
}

// FormatQuietReport returns the mean alone.
func FormatQuietReport(report orchestration.Report) string {
	return format.FormatMean(report.Mean)
}

// DisplayQuietReport writes the mean alone, for scripting.
func DisplayQuietReport(report orchestration.Report, out io.Writer) {
	fmt.Fprintln(out, FormatQuietReport(report))
}

// DisplayDetails writes the per-worker table, the totals and the outcome of
// closed-form verification.
func DisplayDetails(report orchestration.Report, verifyErr error, out io.Writer) {
	fmt.Fprintf(out, "\n%s--- Worker Details ---%s\n", ui.ColorBold(), ui.ColorReset())
	writeWorkerTable(report.Partials, out)

	fmt.Fprintf(out, "\nTotal sum:  %s\n", ui.Paint(ui.ColorCyan(), format.FormatUint(report.TotalSum)))
	fmt.Fprintf(out, "Data size:  %s (%s covered, remainder %s)\n",
		format.FormatUint(report.DataSize), format.FormatUint(report.Covered), report.Policy)
	if report.Dropped > 0 {
		fmt.Fprintf(out, "%sDropped:    %s element(s) not summed%s\n",
			ui.ColorYellow(), format.FormatUint(report.Dropped), ui.ColorReset())
	}
	if verifyErr != nil {
		fmt.Fprintf(out, "Verification: %s\n", ui.Paint(ui.ColorRed(), "FAILED: "+verifyErr.Error()))
	} else {
		fmt.Fprintf(out, "Verification: %s\n", ui.Paint(ui.ColorGreen(), "all partial sums match the closed form"))
	}
}

func writeWorkerTable(partials []worker.PartialResult, out io.Writer) {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Worker\tRange\tElements\tPartial Sum\tDuration")
	for _, p := range partials {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			p.Index, p.Range, format.FormatUint(p.Range.Len()), format.FormatUint(p.Sum),
			format.FormatExecutionDuration(p.Duration))
	}
	tw.Flush()
}

// DisplayMemoryStats shows runtime memory statistics after a run.
func DisplayMemoryStats(snap metrics.MemorySnapshot, out io.Writer) {
	fmt.Fprintf(out, "\nMemory Stats:\n")
	fmt.Fprintf(out, "  Heap in use:     %s\n", format.FormatBytes(snap.HeapAlloc))
	fmt.Fprintf(out, "  Total allocated: %s\n", format.FormatBytes(snap.TotalAlloc))
	fmt.Fprintf(out, "  GC cycles:       %d\n", snap.NumGC)
	fmt.Fprintf(out, "  GC pause total:  %.2fms\n", float64(snap.PauseTotalNs)/1e6)
}

// DisplayHostInfo shows the host the run executed on.
func DisplayHostInfo(host sysmon.HostInfo, load sysmon.Stats, out io.Writer) {
	fmt.Fprintf(out, "\nHost:\n")
	if host.ModelName != "" {
		fmt.Fprintf(out, "  CPU:        %s\n", host.ModelName)
	}
	fmt.Fprintf(out, "  Logical:    %d (physical %d, GOMAXPROCS %d, %s)\n",
		host.LogicalCPUs, host.PhysicalCores, host.GOMAXPROCS, host.Arch)
	features := "none detected"
	if len(host.Features) > 0 {
		features = strings.Join(host.Features, ", ")
	}
	fmt.Fprintf(out, "  Features:   %s\n", features)
	fmt.Fprintf(out, "  Load:       CPU %.1f%%, memory %.1f%%\n", load.CPUPercent, load.MemPercent)
}

// WriteReportToFile writes the full plain-text report, including the
// per-worker table, to path. Parent directories are created as needed.
func WriteReportToFile(report orchestration.Report, path string) error {
	if path == "" {
		return nil
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	fmt.Fprintf(file, "# Range Sum Report\n")
	fmt.Fprintf(file, "# Generated: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(file, "# Data size: %d\n", report.DataSize)
	fmt.Fprintf(file, "# Remainder: %s\n", report.Policy)
	fmt.Fprintf(file, "\n")
	PrintHeader(report.WorkerCount, file)
	DisplayReport(report, file)
	fmt.Fprintf(file, "Total Sum: %d\n\n", report.TotalSum)
	writeWorkerTable(report.Partials, file)

	return file.Close()
}
