package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cristianoliveira/pushdesk/internal/apiclient"
	"github.com/cristianoliveira/pushdesk/internal/colors"
	"github.com/cristianoliveira/pushdesk/internal/i18n"
	"github.com/cristianoliveira/pushdesk/internal/session"
	"github.com/spf13/cobra"
)

type loginClient interface {
	Login(ctx context.Context, login, password string) (session.User, error)
}

type logoutClient interface {
	Logout() error
}

const loginCommandLong = `Sign in to the client-management API.

The token is stored in state_dir/session.json and reused by later commands.
Outside production a forbidden or unreachable server signs you in with a
locally issued demo token.

USAGE:
    pushdesk login --login <name> [--password <password>]

When --password is omitted the password is read from the first line of stdin.`

// NewLoginCmd creates the login command with explicit dependencies.
func NewLoginCmd(client loginClient, loc *i18n.Localizer) *cobra.Command {
	if client == nil {
		panic("NewLoginCmd: client dependency cannot be nil")
	}
	if loc == nil {
		loc = i18n.New(i18n.BaseLocale)
	}

	var loginFlag string
	var passwordFlag string

	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session",
		Long:  loginCommandLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			password := passwordFlag
			if password == "" {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("read password: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout())
			defer cancel()

			user, err := client.Login(ctx, loginFlag, password)
			if err != nil {
				return describeLoginError(loc, err)
			}
			if user.Mock {
				colors.Success(loc.T("auth.signed_in_demo", user.Login))
			} else {
				colors.Success(loc.T("auth.signed_in", user.Login))
			}
			return nil
		},
	}

	loginCmd.Flags().StringVar(&loginFlag, "login", "", "Operator login")
	loginCmd.Flags().StringVar(&passwordFlag, "password", "", "Operator password (read from stdin when empty)")

	return loginCmd
}

// describeLoginError prefixes server-side failures with a localized reason.
// Validation errors pass through untouched.
func describeLoginError(loc *i18n.Localizer, err error) error {
	switch {
	case errors.Is(err, session.ErrLoginRejected):
		return fmt.Errorf("%s: %w", loc.T("auth.failed"), err)
	case apiclient.IsForbiddenOrUnreachable(err):
		return fmt.Errorf("%s: %w", loc.T("auth.unreachable"), err)
	default:
		return err
	}
}

// NewLogoutCmd creates the logout command with explicit dependencies.
func NewLogoutCmd(client logoutClient, loc *i18n.Localizer) *cobra.Command {
	if client == nil {
		panic("NewLogoutCmd: client dependency cannot be nil")
	}
	if loc == nil {
		loc = i18n.New(i18n.BaseLocale)
	}

	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Long:  `Forget the stored session and remove state_dir/session.json.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Logout(); err != nil {
				return fmt.Errorf("logout: %w", err)
			}
			colors.Success(loc.T("auth.signed_out"))
			return nil
		},
	}
}
