package commands

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/portald-dev/portald/internal/portal"
)

// ErrNotAuthenticated is returned by commands that need a stored session
var ErrNotAuthenticated = errors.New("not authenticated. Please run 'portald login' first")

// NewDashCmd creates the dash command
func NewDashCmd(g *GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "dash",
		Short: "Show the account dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnv(cmd, g)
			if err != nil {
				return err
			}
			return runDash(env)
		},
	}
}

func runDash(env *Env) error {
	ctrl, _ := env.controller(portal.DashboardPath)
	if ctrl.ResolveInitialView() != portal.ViewDashboard {
		return ErrNotAuthenticated
	}

	renderDashboard(env.Out, ctrl.Dashboard())
	return nil
}

func renderDashboard(out io.Writer, user portal.DashboardModel) {
	fmt.Fprintf(out, "MyApp                                [%s] %s\n\n", user.Initial, user.DisplayName)
	fmt.Fprintf(out, "Hello, %s\n", user.DisplayName)
	fmt.Fprintln(out, "Here's a quick overview of your account today.")
	fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  Sessions\t29")
	fmt.Fprintln(w, "  Security\t2FA On")
	fmt.Fprintln(w, "  Plan\tFree")
	w.Flush()
}
