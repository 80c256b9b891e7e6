package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/cristianoliveira/pushdesk/internal/domain"
	"github.com/cristianoliveira/pushdesk/internal/gateway"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCreateClient struct {
	calls    int
	captured domain.Draft
	offline  bool
	err      error
}

func (f *fakeCreateClient) Create(ctx context.Context, draft domain.Draft) (gateway.CreateResult, error) {
	f.calls++
	f.captured = draft
	if f.err != nil {
		return gateway.CreateResult{}, f.err
	}
	return gateway.CreateResult{
		Client: domain.Client{
			ID:      "6",
			Name:    draft.Name,
			Email:   draft.Email,
			Phone:   draft.Phone,
			Company: draft.Company,
			Status:  draft.Status,
		},
		UsedFallback: f.offline,
	}, nil
}

func TestNewCreateCmdPanicsWhenClientIsNil(t *testing.T) {
	expectPanic(t, func() { NewCreateCmd(nil, nil) })
}

func TestCreateSendsNormalizedDraft(t *testing.T) {
	console := captureConsole(t)
	client := &fakeCreateClient{}
	cmd := NewCreateCmd(client, nil)
	cmd.SetArgs([]string{
		"--name", "  Ольга Смирнова ",
		"--email", "olga@example.com",
		"--phone", "+7 (999) 123-45-67",
		"--status", " Pending ",
	})

	require.NoError(t, cmd.Execute())

	require.Equal(t, 1, client.calls)
	assert.Equal(t, domain.Draft{
		Name:   "Ольга Смирнова",
		Email:  "olga@example.com",
		Phone:  "+7 (999) 123-45-67",
		Status: domain.StatusPending,
	}, client.captured)
	assert.Contains(t, console.String(), `Client "Ольга Смирнова" created`)
}

func TestCreateDefaultsStatus(t *testing.T) {
	captureConsole(t)
	client := &fakeCreateClient{}
	cmd := NewCreateCmd(client, nil)
	cmd.SetArgs([]string{"--name", "Ольга"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, domain.StatusActive, client.captured.Status)
}

func TestCreateReportsLocalSave(t *testing.T) {
	console := captureConsole(t)
	client := &fakeCreateClient{offline: true}
	cmd := NewCreateCmd(client, nil)
	cmd.SetArgs([]string{"--name", "Ольга"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, console.String(), "saved locally")
}

func TestCreateValidatesBeforeCalling(t *testing.T) {
	captureConsole(t)

	tests := []struct {
		name  string
		args  []string
		field string
	}{
		{name: "missing name", args: []string{"--email", "a@b.co"}, field: "name"},
		{name: "short name", args: []string{"--name", "A"}, field: "name"},
		{name: "bad email", args: []string{"--name", "Ольга", "--email", "nope"}, field: "email"},
		{name: "bad phone", args: []string{"--name", "Ольга", "--phone", "12"}, field: "phone"},
		{name: "bad status", args: []string{"--name", "Ольга", "--status", "gone"}, field: "status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeCreateClient{}
			cmd := NewCreateCmd(client, nil)
			cmd.SetArgs(tt.args)

			err := cmd.Execute()
			require.Error(t, err)
			var verr *domain.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.True(t, verr.Has(tt.field))
			assert.Zero(t, client.calls)
		})
	}
}

func TestCreatePrintsRecordWithFormat(t *testing.T) {
	captureConsole(t)
	cmd := NewCreateCmd(&fakeCreateClient{}, nil)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--name", "Ольга", "--format", "compact"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "Ольга\n", out.String())
}

func TestCreateRejectsUnknownFormat(t *testing.T) {
	client := &fakeCreateClient{}
	cmd := NewCreateCmd(client, nil)
	cmd.SetArgs([]string{"--name", "Ольга", "--format", "xml"})

	require.Error(t, cmd.Execute())
	assert.Zero(t, client.calls)
}

func TestCreatePropagatesGatewayError(t *testing.T) {
	captureConsole(t)
	client := &fakeCreateClient{err: errors.New("disk full")}
	cmd := NewCreateCmd(client, nil)
	cmd.SetArgs([]string{"--name", "Ольга"})

	assert.EqualError(t, cmd.Execute(), "disk full")
}
