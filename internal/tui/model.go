package tui

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/rangesum/internal/logging"
	"github.com/agbru/rangesum/internal/metrics"
	"github.com/agbru/rangesum/internal/orchestration"
	"github.com/agbru/rangesum/internal/sysmon"
)

// Options configures a dashboard session.
type Options struct {
	// Version is shown in the header.
	Version string
	// Logger receives coordinator log entries. It must not write to the
	// terminal the dashboard owns.
	Logger logging.Logger
	// Observer is notified alongside the dashboard, e.g. a metrics recorder.
	Observer orchestration.WorkerObserver
}

// ExecutionState holds the execution-related fields of a dashboard session.
type ExecutionState struct {
	ctx        context.Context
	cancel     context.CancelFunc
	generation uint64
	done       bool
	report     orchestration.Report
	err        error
}

// Model is the root bubbletea model for the dashboard.
type Model struct {
	header  HeaderModel
	workers WorkersModel
	system  SystemModel
	footer  FooterModel

	keymap KeyMap

	ExecutionState

	width  int
	height int

	parentCtx context.Context
	plan      orchestration.Plan
	opts      Options
	ref       *programRef
	paused    bool
	memory    *metrics.MemoryCollector
}

// NewModel creates a new dashboard model for plan.
func NewModel(parentCtx context.Context, plan orchestration.Plan, opts Options) Model {
	ctx, cancel := context.WithCancel(parentCtx)
	km := DefaultKeyMap()

	return Model{
		header:  NewHeaderModel(opts.Version, plan),
		workers: NewWorkersModel(plan.Ranges()),
		system:  NewSystemModel(),
		footer:  NewFooterModel(km),
		keymap:  km,
		ExecutionState: ExecutionState{
			ctx:    ctx,
			cancel: cancel,
		},
		parentCtx: parentCtx,
		plan:      plan,
		opts:      opts,
		ref:       &programRef{},
		memory:    metrics.NewMemoryCollector(),
	}
}

// Init returns the initial commands.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		startRunCmd(m.ref, m.ctx, m.plan, m.opts, m.generation),
		watchContextCmd(m.ctx, m.generation),
	)
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layoutPanels()
		return m, nil

	case ProgressMsg:
		if msg.Generation == m.generation && !m.paused {
			m.workers.SetProgress(msg.WorkerIndex, msg.Value, msg.AverageProgress, msg.ETA)
		}
		return m, nil

	case ProgressDoneMsg:
		return m, nil

	case WorkerDoneMsg:
		if msg.Generation == m.generation {
			m.workers.SetDone(msg.Result)
		}
		return m, nil

	case RunCompleteMsg:
		if msg.Generation != m.generation {
			return m, nil // stale message from a restarted run
		}
		m.done = true
		m.report = msg.Report
		m.err = msg.Err
		m.header.SetDone()
		m.footer.SetDone(true, msg.Err)
		return m, nil

	case TickMsg:
		if m.done {
			return m, nil
		}
		if !m.paused {
			return m, tea.Batch(sampleMemStatsCmd(m.memory), sampleSysStatsCmd(), tickCmd())
		}
		return m, tickCmd()

	case MemStatsMsg:
		m.system.UpdateMemStats(msg)
		return m, nil

	case SysStatsMsg:
		m.system.UpdateSysStats(msg.CPUPercent, msg.MemPercent)
		return m, nil

	case ContextCancelledMsg:
		if msg.Generation != m.generation || m.done {
			return m, nil
		}
		m.err = msg.Err
		m.header.SetDone()
		m.footer.SetDone(true, msg.Err)
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		if !m.done {
			m.err = context.Canceled
		}
		m.cancel()
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Pause):
		m.paused = !m.paused
		m.footer.SetPaused(m.paused)
		return m, nil

	case key.Matches(msg, m.keymap.Help):
		m.footer.ToggleHelp()
		return m, nil

	case key.Matches(msg, m.keymap.Restart):
		m.cancel()

		m.generation++
		ctx, cancel := context.WithCancel(m.parentCtx)
		m.ctx = ctx
		m.cancel = cancel

		m.header.Reset()
		m.workers.Reset()
		m.system.Reset()
		m.footer.SetDone(false, nil)
		m.footer.SetPaused(false)
		m.done = false
		m.paused = false
		m.report = orchestration.Report{}
		m.err = nil

		return m, tea.Batch(
			tickCmd(),
			startRunCmd(m.ref, m.ctx, m.plan, m.opts, m.generation),
			watchContextCmd(m.ctx, m.generation),
		)
	}

	return m, nil
}

// Layout constants for the dashboard.
const (
	headerHeight = 1
	footerHeight = 1
	// systemPanelHeight is the system panel's content plus borders.
	systemPanelHeight = 6
	// workersChrome is the workers panel title line plus borders.
	workersChrome = 3
)

// visibleWorkers returns how many worker bars fit on screen.
func (m Model) visibleWorkers() int {
	rows := m.height - headerHeight - footerHeight - systemPanelHeight - workersChrome - 1
	return max(1, rows)
}

// View renders the entire dashboard.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.header.View(),
		m.workers.View(m.visibleWorkers()),
		m.system.View(),
		m.footer.View(),
	)
}

func (m *Model) layoutPanels() {
	m.header.SetWidth(m.width)
	m.workers.SetWidth(m.width)
	m.system.SetWidth(m.width)
	m.footer.SetWidth(m.width)
}

// Run is the entry point for dashboard mode. It runs plan while showing
// per-worker progress and returns the report of the last completed run once
// the user quits. If the user quits before the run completes, or ctx is
// canceled, the error is context.Canceled (or ctx's error).
func Run(ctx context.Context, plan orchestration.Plan, opts Options) (orchestration.Report, error) {
	initTUIStyles()

	model := NewModel(ctx, plan, opts)
	defer model.cancel()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	model.ref.SetProgram(p)

	finalModel, err := p.Run()
	if m, ok := finalModel.(Model); ok {
		m.cancel()
		if m.err != nil {
			return orchestration.Report{}, m.err
		}
		if m.done {
			return m.report, nil
		}
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return orchestration.Report{}, ctxErr
		}
		return orchestration.Report{}, err
	}
	return orchestration.Report{}, context.Canceled
}

// startRunCmd returns a tea.Cmd that runs the coordinator.
func startRunCmd(ref *programRef, ctx context.Context, plan orchestration.Plan, opts Options, gen uint64) tea.Cmd {
	return func() tea.Msg {
		coordOpts := []orchestration.Option{
			orchestration.WithObserver(orchestration.Observers(&TUIObserver{ref: ref, generation: gen}, opts.Observer)),
		}
		if opts.Logger != nil {
			coordOpts = append(coordOpts, orchestration.WithLogger(opts.Logger))
		}
		reporter := &TUIProgressReporter{ref: ref, generation: gen}
		report, err := orchestration.NewCoordinator(coordOpts...).Run(ctx, plan, reporter, io.Discard)
		return RunCompleteMsg{Report: report, Err: err, Generation: gen}
	}
}

// tickCmd returns a command that sends a TickMsg after 500ms.
func tickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// sampleMemStatsCmd reads runtime memory stats and returns a MemStatsMsg.
func sampleMemStatsCmd(mc *metrics.MemoryCollector) tea.Cmd {
	return func() tea.Msg {
		snap := mc.Snapshot()
		return MemStatsMsg{
			HeapAlloc:    snap.HeapAlloc,
			NumGC:        snap.NumGC,
			NumGoroutine: snap.NumGoroutine,
		}
	}
}

// sampleSysStatsCmd reads system-wide CPU and memory stats and returns a SysStatsMsg.
func sampleSysStatsCmd() tea.Cmd {
	return func() tea.Msg {
		s := sysmon.Sample()
		return SysStatsMsg{
			CPUPercent: s.CPUPercent,
			MemPercent: s.MemPercent,
		}
	}
}

// watchContextCmd waits for context cancellation and sends a message.
func watchContextCmd(ctx context.Context, gen uint64) tea.Cmd {
	return func() tea.Msg {
		<-ctx.Done()
		return ContextCancelledMsg{Err: ctx.Err(), Generation: gen}
	}
}
