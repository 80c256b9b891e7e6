// Package errors routes user-facing notices to the console or to the TUI.
package errors

import (
	stderrors "errors"
	"sync"

	"github.com/cristianoliveira/pushdesk/internal/colors"
)

// ErrorHandler receives notices produced by commands and views.
type ErrorHandler interface {
	Error(msg string)
	Warning(msg string)
	Info(msg string)
	Success(msg string)
}

// UserMessenger is implemented by errors that carry a message fit for end users.
type UserMessenger interface {
	UserMessage() string
}

// Describe returns the text shown to a user for err. The first error in the
// chain that implements UserMessenger wins; otherwise err.Error() is used.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	var um UserMessenger
	if stderrors.As(err, &um) {
		if msg := um.UserMessage(); msg != "" {
			return msg
		}
	}
	return err.Error()
}

// Report sends err to h as an error notice. Nil errors are ignored.
func Report(h ErrorHandler, err error) {
	if h == nil || err == nil {
		return
	}
	h.Error(Describe(err))
}

// ColorOutput is the console printer used by CLIHandler.
type ColorOutput interface {
	Error(msgs ...string)
	Warning(msgs ...string)
	Info(msgs ...string)
	Success(msgs ...string)
}

// CLIHandler prints notices to stdout/stderr.
type CLIHandler struct {
	out        ColorOutput
	mu         sync.Mutex
	inHandling bool
}

func NewCLIHandler(out ColorOutput) *CLIHandler {
	return &CLIHandler{out: out}
}

// NewDefaultCLIHandler creates a CLI handler backed by the colors package.
func NewDefaultCLIHandler() *CLIHandler {
	return NewCLIHandler(colorsOutput{})
}

// Error prints msg. A nested call made while printing skips the guard so a
// failing printer cannot loop.
func (h *CLIHandler) Error(msg string) {
	h.mu.Lock()
	if h.inHandling {
		h.mu.Unlock()
		h.out.Error(msg)
		return
	}
	h.inHandling = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		h.inHandling = false
		h.mu.Unlock()
	}()
	h.out.Error(msg)
}

func (h *CLIHandler) Warning(msg string) { h.out.Warning(msg) }
func (h *CLIHandler) Info(msg string)    { h.out.Info(msg) }
func (h *CLIHandler) Success(msg string) { h.out.Success(msg) }

type colorsOutput struct{}

func (colorsOutput) Error(msgs ...string)   { colors.Error(msgs...) }
func (colorsOutput) Warning(msgs ...string) { colors.Warning(msgs...) }
func (colorsOutput) Info(msgs ...string)    { colors.Info(msgs...) }
func (colorsOutput) Success(msgs ...string) { colors.Success(msgs...) }
