package main

import (
	"context"
	"testing"

	"github.com/cristianoliveira/pushdesk/internal/fallback"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServeMockCmdPanicsWhenSourceIsNil(t *testing.T) {
	expectPanic(t, func() { NewServeMockCmd(nil, nil) })
}

func TestServeMockStopsWithContext(t *testing.T) {
	console := captureConsole(t)
	cmd := NewServeMockCmd(fallback.NewSource(), nil)
	cmd.SetArgs([]string{"--addr", "127.0.0.1:0", "--login", "admin", "--password", "secret", "--require-auth"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, cmd.ExecuteContext(ctx))
	assert.Contains(t, console.String(), "Mock API listening on http://127.0.0.1:0/api")
}
