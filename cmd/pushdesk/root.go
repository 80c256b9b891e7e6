package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cristianoliveira/pushdesk/internal/i18n"
	"github.com/cristianoliveira/pushdesk/internal/session"
	"github.com/cristianoliveira/pushdesk/internal/version"
	"github.com/spf13/cobra"
)

// annotationAuth marks commands that need a signed-in operator.
const annotationAuth = "pushdesk/auth"

type authChecker interface {
	IsAuthenticated() bool
}

// NewRootCmd creates the root command. Subcommands annotated with
// requireAuth fail before running when no session is active.
func NewRootCmd(auth authChecker, loc *i18n.Localizer) *cobra.Command {
	if auth == nil {
		panic("NewRootCmd: auth dependency cannot be nil")
	}
	if loc == nil {
		loc = i18n.New(i18n.BaseLocale)
	}

	rootCmd := &cobra.Command{
		Use:           "pushdesk",
		Short:         "Operator console for the client-management API.",
		Long:          `Operator console for the client-management API: list and create clients, push notifications to them.`,
		Version:       version.String(),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations[annotationAuth] == "" || auth.IsAuthenticated() {
				return nil
			}
			return fmt.Errorf("%s: %w", loc.T("auth.required"), session.ErrNotAuthenticated)
		},
	}
	rootCmd.CompletionOptions.HiddenDefaultCmd = true
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if cmd != cmd.Root() {
			fmt.Fprint(cmd.OutOrStdout(), cmd.UsageString())
			return
		}
		fmt.Fprint(cmd.OutOrStdout(), helpText(cmd))
	})
	return rootCmd
}

func requireAuth(cmd *cobra.Command) *cobra.Command {
	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	cmd.Annotations[annotationAuth] = "required"
	return cmd
}

// commandOrder is the order of commands in the root help.
var commandOrder = []string{
	"login",
	"logout",
	"list",
	"create",
	"push",
	"journal",
	"tui",
	"serve-mock",
	"version",
}

func helpText(root *cobra.Command) string {
	var cmdLines []string
	for _, name := range commandOrder {
		for _, c := range root.Commands() {
			if c.Name() == name {
				cmdLines = append(cmdLines, fmt.Sprintf("    %-16s %s", c.Name(), c.Short))
				break
			}
		}
	}

	return fmt.Sprintf(`pushdesk v%s

%s

USAGE:
    pushdesk [COMMAND] [OPTIONS]

COMMANDS:
%s

OPTIONS:
    -h, --help      Show help message
`, root.Version, root.Short, strings.Join(cmdLines, "\n"))
}

// isAuthError reports whether err came from the authentication gate.
func isAuthError(err error) bool {
	return errors.Is(err, session.ErrNotAuthenticated)
}
