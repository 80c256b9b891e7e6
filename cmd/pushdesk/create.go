package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/cristianoliveira/pushdesk/internal/colors"
	"github.com/cristianoliveira/pushdesk/internal/domain"
	"github.com/cristianoliveira/pushdesk/internal/format"
	"github.com/cristianoliveira/pushdesk/internal/gateway"
	"github.com/cristianoliveira/pushdesk/internal/i18n"
	"github.com/spf13/cobra"
)

type createClient interface {
	Create(ctx context.Context, draft domain.Draft) (gateway.CreateResult, error)
}

const createCommandLong = `Create a client.

USAGE:
    pushdesk create --name <name> [OPTIONS]

OPTIONS:
    --name <name>        Client name, 2 to 100 characters (required)
    --email <email>      Email address
    --phone <phone>      Phone number, e.g. +7 (999) 123-45-67
    --company <company>  Company name
    --status <status>    active (default), inactive, pending
    --format=<format>    Print the created record: simple, table, compact, json

When the server cannot be reached the client is kept in the local demo roster
for the rest of the session.`

// NewCreateCmd creates the create command with explicit dependencies.
func NewCreateCmd(client createClient, loc *i18n.Localizer) *cobra.Command {
	if client == nil {
		panic("NewCreateCmd: client dependency cannot be nil")
	}
	if loc == nil {
		loc = i18n.New(i18n.BaseLocale)
	}

	var draft domain.Draft
	var statusFlag string
	var formatFlag string

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a client",
		Long:  createCommandLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if formatFlag != "" && !format.IsValidType(formatFlag) {
				return fmt.Errorf("invalid format: %s (must be simple, table, compact or json)", formatFlag)
			}
			d := draft
			d.Status = domain.Status(strings.ToLower(strings.TrimSpace(statusFlag)))
			if err := d.ValidateForm(); err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout())
			defer cancel()

			res, err := client.Create(ctx, d.Normalize())
			if err != nil {
				return err
			}
			if res.UsedFallback {
				colors.Success(loc.T("client.created_offline", res.Client.Name))
			} else {
				colors.Success(loc.T("client.created", res.Client.Name))
			}
			if formatFlag == "" {
				return nil
			}
			return format.GetFormatter(formatFlag, loc).FormatClients([]domain.Client{res.Client}, cmd.OutOrStdout())
		},
	}

	createCmd.Flags().StringVar(&draft.Name, "name", "", "Client name (required)")
	createCmd.Flags().StringVar(&draft.Email, "email", "", "Email address")
	createCmd.Flags().StringVar(&draft.Phone, "phone", "", "Phone number")
	createCmd.Flags().StringVar(&draft.Company, "company", "", "Company name")
	createCmd.Flags().StringVar(&statusFlag, "status", "", "Status: active, inactive, pending")
	createCmd.Flags().StringVar(&formatFlag, "format", "", "Print the created record: simple, table, compact, json")

	return createCmd
}
