package main

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/cristianoliveira/pushdesk/internal/colors"
	"github.com/cristianoliveira/pushdesk/internal/domain"
	"github.com/cristianoliveira/pushdesk/internal/i18n"
	"github.com/cristianoliveira/pushdesk/internal/session"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func enableStructuredDebug(t *testing.T) {
	t.Helper()
	colors.EnableStructuredLogging()
	colors.SetDebug(true)
	t.Cleanup(func() {
		colors.EnableStructuredLogging()
		colors.SetDebug(false)
	})
}

func TestRunNonTUILogsStartupAndCompletion(t *testing.T) {
	enableStructuredDebug(t)
	output := captureConsole(t)

	exitCode := run([]string{"list"}, func() error { return nil })

	assert.Equal(t, 0, exitCode)
	assert.Contains(t, output.String(), `"component":"startup"`)
	assert.Contains(t, output.String(), `"status":"started"`)
	assert.Contains(t, output.String(), `"status":"completed"`)
}

func TestRunNonTUILogsFailure(t *testing.T) {
	enableStructuredDebug(t)
	output := captureConsole(t)

	exitCode := run([]string{"list"}, func() error { return errors.New("boom") })

	assert.Equal(t, 1, exitCode)
	assert.Contains(t, output.String(), `"status":"failed"`)
	assert.Contains(t, output.String(), `"error":"boom"`)
}

func TestRunTUISkipsStartupStructuredLogs(t *testing.T) {
	enableStructuredDebug(t)
	output := captureConsole(t)

	exitCode := run([]string{"tui"}, func() error { return nil })

	assert.Equal(t, 0, exitCode)
	assert.Empty(t, output.String())
}

type fakeAuth bool

func (f fakeAuth) IsAuthenticated() bool { return bool(f) }

func newGatedRoot(authenticated bool) (*cobra.Command, *bool) {
	ran := false
	root := NewRootCmd(fakeAuth(authenticated), i18n.New("en-US"))
	root.AddCommand(
		requireAuth(&cobra.Command{Use: "secret", RunE: func(*cobra.Command, []string) error { ran = true; return nil }}),
		&cobra.Command{Use: "open", RunE: func(*cobra.Command, []string) error { ran = true; return nil }},
	)
	return root, &ran
}

func TestRootRequiresSessionForAnnotatedCommands(t *testing.T) {
	tests := []struct {
		name          string
		authenticated bool
		args          []string
		wantRan       bool
		wantErr       bool
	}{
		{name: "gated without session", args: []string{"secret"}, wantErr: true},
		{name: "gated with session", authenticated: true, args: []string{"secret"}, wantRan: true},
		{name: "open without session", args: []string{"open"}, wantRan: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, ran := newGatedRoot(tt.authenticated)
			root.SetArgs(tt.args)

			err := root.Execute()
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, session.ErrNotAuthenticated)
				assert.Contains(t, err.Error(), "Sign in first")
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantRan, *ran)
		})
	}
}

func TestNewRootCmdPanicsWhenAuthIsNil(t *testing.T) {
	expectPanic(t, func() { NewRootCmd(nil, nil) })
}

func TestRootHelpListsCommandsInOrder(t *testing.T) {
	root := NewRootCmd(fakeAuth(false), nil)
	for _, name := range []string{"version", "list", "login"} {
		root.AddCommand(&cobra.Command{Use: name, Short: name + " short", Run: func(*cobra.Command, []string) {}})
	}
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"--help"})

	require.NoError(t, root.Execute())

	help := out.String()
	assert.Contains(t, help, "USAGE:\n    pushdesk [COMMAND] [OPTIONS]")
	assert.Less(t, bytes.Index(out.Bytes(), []byte("login")), bytes.Index(out.Bytes(), []byte("    list")))
	assert.Less(t, bytes.Index(out.Bytes(), []byte("    list")), bytes.Index(out.Bytes(), []byte("    version")))
}

type recordingHandler struct {
	errors   []string
	warnings []string
}

func (r *recordingHandler) Error(msg string)   { r.errors = append(r.errors, msg) }
func (r *recordingHandler) Warning(msg string) { r.warnings = append(r.warnings, msg) }
func (r *recordingHandler) Info(string)        {}
func (r *recordingHandler) Success(string)     {}

func TestReportLocalizesErrors(t *testing.T) {
	loc := i18n.New("en-US")

	h := &recordingHandler{}
	report(h, loc, fmt.Errorf("x: %w", session.ErrNotAuthenticated))
	assert.Equal(t, []string{"Sign in first: pushdesk login"}, h.warnings)

	h = &recordingHandler{}
	report(h, loc, domain.ErrNoSelection)
	assert.Equal(t, []string{"Select clients to send a push notification"}, h.errors)

	h = &recordingHandler{}
	report(h, loc, domain.Draft{}.ValidateForm())
	assert.Equal(t, []string{"name: This field is required"}, h.errors)
}
