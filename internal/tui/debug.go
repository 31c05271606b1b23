package tui

import (
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/javiermolinar/slotbook/internal/interaction"
)

// DebugLogPath is the fixed path for debug logs
const DebugLogPath = "slotbook-debug.log"

// NewDebugLogger returns a JSON-lines logger writing to DebugLogPath when
// enabled, and a disabled logger otherwise. The returned closer is never nil.
func NewDebugLogger(enabled bool) (zerolog.Logger, io.Closer, error) {
	if !enabled {
		return zerolog.Nop(), io.NopCloser(nil), nil
	}

	f, err := os.Create(DebugLogPath)
	if err != nil {
		return zerolog.Nop(), io.NopCloser(nil), fmt.Errorf("creating debug log: %w", err)
	}

	zerolog.TimeFieldFormat = "15:04:05.000"
	logger := zerolog.New(f).With().Timestamp().Logger().Level(zerolog.DebugLevel)
	logger.Info().Str("log_file", DebugLogPath).Str("started", time.Now().Format(time.RFC3339)).Msg("debug start")
	return logger, f, nil
}

// logKeyPress logs a key press event.
func (m Model) logKeyPress(msg tea.KeyMsg) {
	m.logger.Debug().Str("key", msg.String()).Str("mode", m.mode.String()).Msg("key")
}

// logModeChange logs a mode change.
func (m Model) logModeChange(to Mode, reason string) {
	if m.mode == to {
		return
	}
	m.logger.Debug().Str("from", m.mode.String()).Str("to", to.String()).Str("reason", reason).Msg("mode change")
}

// logMove records a move request and its outcome.
func (m Model) logMove(source string, res interaction.MoveResult) {
	ev := m.logger.Debug()
	if res.Outcome == interaction.Missing {
		ev = m.logger.Warn()
	}
	ev.Str("source", source).
		Str("outcome", res.Outcome.String()).
		Str("id", res.Appointment.ID).
		Str("resource", res.Appointment.ResourceID).
		Int("start", res.Appointment.StartIndex).
		AnErr("err", res.Err).
		Msg("move")
}
