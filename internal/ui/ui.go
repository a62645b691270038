// Package ui implements a command-line user interface using [tea].
package ui

import (
	"context"
	"fmt"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsweep/fsweep/internal/sweep"
)

// progressSource defines the snapshot method the interface polls,
// implemented by [sweep.Handler].
type progressSource interface {
	Progress() sweep.Progress
}

// Handler is the principal implementation of a user interface [Handler].
type Handler struct {
	sweeper progressSource
	program *tea.Program

	LogWriter *TeaLogWriter

	Ready  atomic.Bool
	Failed atomic.Bool
}

// NewHandler returns a pointer to a new user interface [Handler].
func NewHandler(ctx context.Context, cancel context.CancelFunc, sweeper progressSource) *Handler {
	handler := &Handler{
		sweeper: sweeper,
	}

	model := NewTeaModel(handler, sweeper, cancel)
	handler.program = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	handler.LogWriter = NewTeaLogWriter(handler.program)

	return handler
}

// Launch starts the command-line user interface (the [tea.Program]).
func (uiHandler *Handler) Launch() error {
	defer uiHandler.LogWriter.Stop()

	if _, err := uiHandler.program.Run(); err != nil {
		uiHandler.Failed.Store(true)

		return fmt.Errorf("(ui) %w", err)
	}

	return nil
}
