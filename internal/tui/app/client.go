// Package app provides TUI application adapters for command wiring.
package app

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cristianoliveira/pushdesk/internal/colors"
	"github.com/cristianoliveira/pushdesk/internal/tui/state"
)

// ProgramRunner defines the interface for running a bubbletea program.
type ProgramRunner interface {
	// Run starts the bubbletea program with the given model.
	Run(model tea.Model) error
}

// DefaultProgramRunner wraps tea.NewProgram with the alternate screen.
type DefaultProgramRunner struct{}

// NewDefaultProgramRunner creates a new DefaultProgramRunner.
func NewDefaultProgramRunner() *DefaultProgramRunner {
	return &DefaultProgramRunner{}
}

// Run starts a bubbletea program with the given model.
func (r *DefaultProgramRunner) Run(model tea.Model) error {
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Client defines dependencies needed by the tui command.
type Client interface {
	CreateModel(deps state.Deps) (*state.Model, error)
	RunProgram(model *state.Model) error
}

// DefaultClient is the adapter used by CLI wiring.
type DefaultClient struct {
	programRunner ProgramRunner
}

// NewDefaultClient creates a default TUI client adapter.
// If programRunner is nil, a DefaultProgramRunner will be used.
func NewDefaultClient(programRunner ProgramRunner) *DefaultClient {
	if programRunner == nil {
		programRunner = NewDefaultProgramRunner()
	}
	return &DefaultClient{programRunner: programRunner}
}

// CreateModel builds the roster screen.
func (d *DefaultClient) CreateModel(deps state.Deps) (model *state.Model, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("create tui model: %v", r)
		}
	}()
	return state.NewModel(deps), nil
}

// RunProgram runs the screen until the user quits. Console and structured
// output are silenced while the program owns the terminal.
func (d *DefaultClient) RunProgram(model *state.Model) error {
	colors.DisableStructuredLogging()
	colors.SetOutput(io.Discard, io.Discard)
	defer func() {
		colors.SetOutput(nil, nil)
		colors.EnableStructuredLogging()
		model.Close()
	}()

	if err := d.programRunner.Run(model); err != nil {
		colors.SetOutput(nil, nil)
		colors.Error(fmt.Sprintf("Error running TUI: %v", err))
		return err
	}
	return nil
}
