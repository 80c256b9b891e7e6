// Command pushdesk is the operator console for the client-management API.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/cristianoliveira/pushdesk/internal/colors"
	"github.com/cristianoliveira/pushdesk/internal/config"
	"github.com/cristianoliveira/pushdesk/internal/errors"
	"github.com/cristianoliveira/pushdesk/internal/i18n"
	"github.com/cristianoliveira/pushdesk/internal/logging"
	"github.com/cristianoliveira/pushdesk/internal/tui/app"
	"github.com/spf13/cobra"
)

func main() {
	args := os.Args[1:]
	os.Exit(run(args, func() error { return execute(args) }))
}

// run wraps execute with startup logs and maps its error to an exit code. The
// tui command owns the terminal, so no JSON lines are written around it.
func run(args []string, execute func() error) int {
	structured := len(args) == 0 || args[0] != "tui"
	if structured {
		colors.StructuredInfo("startup", "main", "started", nil, "", nil)
	}
	if err := execute(); err != nil {
		if structured {
			colors.StructuredError("startup", "main", "failed", err, "", nil)
		}
		return 1
	}
	if structured {
		colors.StructuredInfo("startup", "main", "completed", nil, "", nil)
	}
	return 0
}

// execute loads configuration, wires the services and runs the command line.
// Failures are printed here.
func execute(args []string) error {
	config.Load()
	colors.SetDebug(config.GetBool("debug", false) || colors.DebugEnabled())
	colors.SetQuiet(config.GetBool("quiet", false))
	if err := logging.InitGlobal(); err != nil {
		colors.Warning("File logging disabled: " + err.Error())
	}
	defer func() { _ = logging.ShutdownGlobal() }()

	rt := newRuntime()
	defer func() { _ = rt.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newCommandTree(rt)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err != nil {
		report(errors.NewDefaultCLIHandler(), rt.loc, err)
	}
	return err
}

// newCommandTree attaches every command to a root bound to rt.
func newCommandTree(rt *runtime) *cobra.Command {
	root := NewRootCmd(rt.session, rt.loc)
	root.AddCommand(
		NewLoginCmd(rt.session, rt.loc),
		NewLogoutCmd(rt.session, rt.loc),
		requireAuth(NewListCmd(rt, rt.loc)),
		requireAuth(NewCreateCmd(rt.clients, rt.loc)),
		requireAuth(NewPushCmd(rt, rt.loc)),
		NewJournalCmd(rt.Journal(), rt.loc),
		requireAuth(NewTUICmd(app.NewDefaultClient(nil), rt)),
		NewServeMockCmd(rt.source, rt.loc),
		NewVersionCmd(buildInfo{}),
	)
	return root
}

// report prints err in the operator's language.
func report(h errors.ErrorHandler, loc *i18n.Localizer, err error) {
	if isAuthError(err) {
		h.Warning(loc.T("auth.required"))
		return
	}
	h.Error(loc.Error(err))
}
