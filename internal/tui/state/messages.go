package state

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cristianoliveira/pushdesk/internal/gateway"
)

// clientsLoadedMsg carries the result of a roster fetch and the token it was issued with.
type clientsLoadedMsg struct {
	token  uint64
	result gateway.FetchResult
	err    error
}

// pushSentMsg carries the result of a dispatch to count recipients.
type pushSentMsg struct {
	outcome gateway.Outcome
	err     error
	count   int
}

// clientCreatedMsg carries the result of a create request.
type clientCreatedMsg struct {
	result gateway.CreateResult
	err    error
}

// statusClearMsg clears the status line if it still shows message seq.
type statusClearMsg struct {
	seq int
}

// statusClearAfter returns a command that clears status message seq after d.
func statusClearAfter(seq int, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return statusClearMsg{seq: seq}
	})
}
