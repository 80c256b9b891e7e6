package main

import (
	"time"

	"github.com/cristianoliveira/pushdesk/internal/colors"
	"github.com/cristianoliveira/pushdesk/internal/fallback"
	"github.com/cristianoliveira/pushdesk/internal/i18n"
	"github.com/cristianoliveira/pushdesk/internal/mockserver"
	"github.com/spf13/cobra"
)

const serveMockCommandLong = `Serve a local stub of the client-management API.

The stub answers GET/POST /clients, POST /push and POST /test-auth-only from
the demo roster. Point api_url at it to exercise the real HTTP path.

USAGE:
    pushdesk serve-mock [--addr host:port] [OPTIONS]`

// NewServeMockCmd creates the serve-mock command with explicit dependencies.
func NewServeMockCmd(source *fallback.Source, loc *i18n.Localizer) *cobra.Command {
	if source == nil {
		panic("NewServeMockCmd: source dependency cannot be nil")
	}
	if loc == nil {
		loc = i18n.New(i18n.BaseLocale)
	}

	var addrFlag string
	var prefixFlag string
	var loginFlag string
	var passwordFlag string
	var requireAuthFlag bool
	var tokenTTLFlag time.Duration

	serveCmd := &cobra.Command{
		Use:   "serve-mock",
		Short: "Serve a local stub of the API",
		Long:  serveMockCommandLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := []mockserver.Option{
				mockserver.WithPrefix(prefixFlag),
				mockserver.WithRequireAuth(requireAuthFlag),
			}
			if loginFlag != "" {
				opts = append(opts, mockserver.WithCredentials(loginFlag, passwordFlag))
			}
			if tokenTTLFlag > 0 {
				opts = append(opts, mockserver.WithTokenTTL(tokenTTLFlag))
			}
			srv := mockserver.New(source, opts...)

			colors.Info(loc.T("cli.mock_serving", addrFlag, prefixFlag))
			return srv.ListenAndServe(cmd.Context(), addrFlag)
		},
	}

	serveCmd.Flags().StringVar(&addrFlag, "addr", "127.0.0.1:8080", "Address to listen on")
	serveCmd.Flags().StringVar(&prefixFlag, "prefix", mockserver.DefaultPrefix, "Path the API is mounted under")
	serveCmd.Flags().StringVar(&loginFlag, "login", "", "Accept only this login (any login when empty)")
	serveCmd.Flags().StringVar(&passwordFlag, "password", "", "Password required with --login")
	serveCmd.Flags().BoolVar(&requireAuthFlag, "require-auth", false, "Reject client and push calls without a token issued by this server")
	serveCmd.Flags().DurationVar(&tokenTTLFlag, "token-ttl", 0, "Lifetime of issued tokens (server default when 0)")

	return serveCmd
}
