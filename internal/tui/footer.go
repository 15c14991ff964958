package tui

import (
	"github.com/charmbracelet/bubbles/help"
)

// FooterModel renders the key help and the run status.
type FooterModel struct {
	help   help.Model
	keymap KeyMap
	paused bool
	done   bool
	err    error
	width  int
}

// NewFooterModel creates a footer for the given key bindings.
func NewFooterModel(km KeyMap) FooterModel {
	return FooterModel{help: help.New(), keymap: km}
}

// SetPaused sets the paused indicator.
func (f *FooterModel) SetPaused(p bool) { f.paused = p }

// SetDone marks the run as finished, with an optional error.
func (f *FooterModel) SetDone(done bool, err error) {
	f.done = done
	f.err = err
}

// ToggleHelp switches between the short and the full help.
func (f *FooterModel) ToggleHelp() { f.help.ShowAll = !f.help.ShowAll }

// SetWidth updates the available width.
func (f *FooterModel) SetWidth(w int) {
	f.width = w
	f.help.Width = w
}

// Status returns the unstyled run status.
func (f FooterModel) Status() string {
	switch {
	case f.err != nil:
		return "ERROR: " + f.err.Error()
	case f.done:
		return "DONE"
	case f.paused:
		return "PAUSED"
	default:
		return "RUNNING"
	}
}

// View renders the footer.
func (f FooterModel) View() string {
	var status string
	switch {
	case f.err != nil:
		status = statusErrorStyle.Render(f.Status())
	case f.done:
		status = statusDoneStyle.Render(f.Status())
	case f.paused:
		status = statusPausedStyle.Render(f.Status())
	default:
		status = statusRunningStyle.Render(f.Status())
	}
	return " " + status + "  " + f.help.View(f.keymap)
}
