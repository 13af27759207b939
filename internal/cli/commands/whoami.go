package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/portald-dev/portald/internal/portal"
)

// NewWhoamiCmd creates the whoami command
func NewWhoamiCmd(g *GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Print the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnv(cmd, g)
			if err != nil {
				return err
			}
			return runWhoami(env)
		},
	}
}

func runWhoami(env *Env) error {
	ctrl, _ := env.controller(portal.DashboardPath)
	if ctrl.CurrentView() != portal.ViewDashboard {
		fmt.Fprintln(env.Out, "Not logged in.")
		return nil
	}

	fmt.Fprintf(env.Out, "Logged in as %s\n", ctrl.Dashboard().DisplayName)
	return nil
}
