package main

import (
	"github.com/cristianoliveira/pushdesk/internal/tui/app"
	"github.com/cristianoliveira/pushdesk/internal/tui/state"
	"github.com/spf13/cobra"
)

type tuiDepsProvider interface {
	TUIDeps() state.Deps
}

// NewTUICmd creates the tui command with explicit dependencies.
func NewTUICmd(client app.Client, deps tuiDepsProvider) *cobra.Command {
	if client == nil {
		panic("NewTUICmd: client dependency cannot be nil")
	}
	if deps == nil {
		panic("NewTUICmd: deps dependency cannot be nil")
	}

	return &cobra.Command{
		Use:   "tui",
		Short: "Interactive client roster",
		Long: `Interactive client roster.

Search, sort and select clients, send push notifications to the selection and
create new clients. The key bindings are listed in the footer.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			model, err := client.CreateModel(deps.TUIDeps())
			if err != nil {
				return err
			}
			return client.RunProgram(model)
		},
	}
}
