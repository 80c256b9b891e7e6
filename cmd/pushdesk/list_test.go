package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/cristianoliveira/pushdesk/internal/domain"
	"github.com/cristianoliveira/pushdesk/internal/i18n"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runList(t *testing.T, backend *fakeBackend, args ...string) (string, error) {
	t.Helper()
	cmd := NewListCmd(backend, i18n.New("en-US"))
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(append([]string{}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func lines(s string) []string {
	return strings.Split(strings.TrimRight(s, "\n"), "\n")
}

func TestNewListCmdPanicsWhenClientIsNil(t *testing.T) {
	expectPanic(t, func() { NewListCmd(nil, nil) })
}

func TestListSortsAndFormats(t *testing.T) {
	captureConsole(t)

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "arrival order without sort",
			args: []string{"--template", "ids"},
			want: []string{"1", "2", "3", "4", "5"},
		},
		{
			name: "name ascending",
			args: []string{"--sort", "name", "--template", "ids"},
			want: []string{"1", "5", "3", "4", "2"},
		},
		{
			name: "name descending",
			args: []string{"--sort", "name", "--order", "desc", "--template", "ids"},
			want: []string{"2", "4", "3", "5", "1"},
		},
		{
			name: "search narrows the roster",
			args: []string{"--search", "петрова", "--template", "{{id}} {{name}}"},
			want: []string{"2 Мария Петрова"},
		},
		{
			name: "compact format prints names",
			args: []string{"--search", "Морозов", "--format", "compact"},
			want: []string{"Андрей Морозов"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runList(t, newFakeBackend(), tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, lines(out))
		})
	}
}

func TestListRejectsInvalidOptions(t *testing.T) {
	captureConsole(t)

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "unknown column", args: []string{"--sort", "age"}, wantErr: "invalid column"},
		{name: "phone is not sortable", args: []string{"--sort", "phone"}, wantErr: "cannot be sorted"},
		{name: "unknown order", args: []string{"--order", "up"}, wantErr: "invalid sort order"},
		{name: "unknown format", args: []string{"--format", "xml"}, wantErr: "invalid format"},
		{name: "journal preset", args: []string{"--template", "journal"}, wantErr: "renders entry records"},
		{name: "unknown variable", args: []string{"--template", "{{age}}"}, wantErr: "unknown variable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runList(t, newFakeBackend(), tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestListWarnsWhenOffline(t *testing.T) {
	console := captureConsole(t)
	backend := newFakeBackend()
	backend.offline = true

	out, err := runList(t, backend, "--template", "ids")
	require.NoError(t, err)

	assert.Len(t, lines(out), 5)
	assert.Contains(t, console.String(), "Server connection unavailable")
}

func TestListFallsBackToDemoRosterOnLoadError(t *testing.T) {
	console := captureConsole(t)
	backend := newFakeBackend()
	backend.loadErr = errors.New("boom")

	out, err := runList(t, backend, "--template", "ids")
	require.NoError(t, err)

	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, lines(out))
	assert.Contains(t, console.String(), "Server connection unavailable")
}

func TestListEmptyRoster(t *testing.T) {
	console := captureConsole(t)
	backend := newFakeBackend()
	backend.clients = []domain.Client{}

	out, err := runList(t, backend)
	require.NoError(t, err)

	assert.Empty(t, out)
	assert.Contains(t, console.String(), "No clients found")
}

func TestListJSONOfEmptyRosterIsArray(t *testing.T) {
	captureConsole(t)
	backend := newFakeBackend()
	backend.clients = []domain.Client{}

	out, err := runList(t, backend, "--format", "json")
	require.NoError(t, err)
	assert.JSONEq(t, "[]", out)
}
