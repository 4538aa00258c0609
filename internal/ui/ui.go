// Package ui implements a command-line directory browser using [tea].
package ui

import (
	"context"
	"fmt"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/clayne/physfs/internal/platform"
)

type platformProvider interface {
	Enumerate(dirName string, omitSymlinks bool, cb platform.EnumerateCallback)
	Stat(path string) (bool, *platform.StatInfo, error)
	CvtToDependent(prefix, dirName, suffix string) string
}

type verifyProvider interface {
	HashFile(path string) (string, error)
}

// Handler is the principal implementation of a user interface [Handler].
type Handler struct {
	program *tea.Program

	Ready  atomic.Bool
	Failed atomic.Bool
}

// NewHandler returns a pointer to a new user interface [Handler] browsing
// startDir.
func NewHandler(ctx context.Context, platformOps platformProvider, verifyOps verifyProvider, startDir string, omitSymlinks bool) *Handler {
	handler := &Handler{}

	model := NewTeaModel(handler, platformOps, verifyOps, startDir, omitSymlinks)
	handler.program = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	return handler
}

// Launch starts the command-line user interface (the [tea.Program]).
func (uiHandler *Handler) Launch() error {
	if _, err := uiHandler.program.Run(); err != nil {
		uiHandler.Failed.Store(true)

		return fmt.Errorf("(ui) %w", err)
	}

	return nil
}
