// Package commands provides TUI command constructors and message types.
//
// Commands run off the UI goroutine, so they only ever receive plain data;
// the booking engine itself is driven synchronously from Update.
package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
)

// StatusDuration is how long a status message stays visible.
const StatusDuration = 3 * time.Second

// ErrMsg is sent when an error occurs.
type ErrMsg struct {
	Err error
}

// StatusMsg is sent for temporary status messages.
type StatusMsg struct {
	Msg string
}

// ClearStatusMsg is sent to clear the status message.
type ClearStatusMsg struct{}

// writeClipboard is swapped in tests.
var writeClipboard = clipboard.WriteAll

// writeFile is swapped in tests.
var writeFile = os.WriteFile

// Status shows msg in the status line.
func Status(msg string) tea.Cmd {
	return func() tea.Msg {
		return StatusMsg{Msg: msg}
	}
}

// ClearStatusAfter clears the status line after d.
func ClearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}

// CopyAgenda puts a rendered agenda on the system clipboard.
func CopyAgenda(text string) tea.Cmd {
	return func() tea.Msg {
		if err := writeClipboard(text); err != nil {
			return ErrMsg{Err: fmt.Errorf("copy failed: %w", err)}
		}
		return StatusMsg{Msg: "Copied agenda to clipboard"}
	}
}

// WriteExport saves an exported calendar to path.
func WriteExport(path string, data []byte) tea.Cmd {
	return func() tea.Msg {
		if err := writeFile(path, data, 0o644); err != nil {
			return ErrMsg{Err: fmt.Errorf("export failed: %w", err)}
		}
		return StatusMsg{Msg: "Exported " + path}
	}
}
