package main

import (
	"context"
	"errors"
	"testing"

	"github.com/cristianoliveira/pushdesk/internal/domain"
	"github.com/cristianoliveira/pushdesk/internal/gateway"
	"github.com/cristianoliveira/pushdesk/internal/tui/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTUIClient struct {
	deps      state.Deps
	createErr error
	runErr    error
	ran       *state.Model
}

func (f *fakeTUIClient) CreateModel(deps state.Deps) (*state.Model, error) {
	f.deps = deps
	if f.createErr != nil {
		return nil, f.createErr
	}
	return state.NewModel(deps), nil
}

func (f *fakeTUIClient) RunProgram(model *state.Model) error {
	f.ran = model
	return f.runErr
}

type stubCreator struct{}

func (stubCreator) Create(context.Context, domain.Draft) (gateway.CreateResult, error) {
	return gateway.CreateResult{}, nil
}

type stubTUIDeps struct{ backend *fakeBackend }

func (s stubTUIDeps) TUIDeps() state.Deps {
	return state.Deps{Roster: s.backend.NewRoster(), Creator: stubCreator{}, User: "operator"}
}

func TestNewTUICmdPanicsOnNilDependencies(t *testing.T) {
	expectPanic(t, func() { NewTUICmd(nil, stubTUIDeps{}) })
	expectPanic(t, func() { NewTUICmd(&fakeTUIClient{}, nil) })
}

func TestTUICmdRunsModel(t *testing.T) {
	client := &fakeTUIClient{}
	cmd := NewTUICmd(client, stubTUIDeps{backend: newFakeBackend()})
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())

	require.NotNil(t, client.ran)
	assert.Equal(t, "operator", client.deps.User)
}

func TestTUICmdPropagatesErrors(t *testing.T) {
	tests := []struct {
		name   string
		client *fakeTUIClient
		want   string
	}{
		{name: "create", client: &fakeTUIClient{createErr: errors.New("no roster")}, want: "no roster"},
		{name: "run", client: &fakeTUIClient{runErr: errors.New("no tty")}, want: "no tty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := NewTUICmd(tt.client, stubTUIDeps{backend: newFakeBackend()})
			cmd.SetArgs([]string{})
			assert.EqualError(t, cmd.Execute(), tt.want)
		})
	}
}
