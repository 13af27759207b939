package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/portald-dev/portald/internal/portal"
)

// NewLogoutCmd creates the logout command
func NewLogoutCmd(g *GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnv(cmd, g)
			if err != nil {
				return err
			}
			return runLogout(env)
		},
	}
}

func runLogout(env *Env) error {
	ctrl, _ := env.controller(portal.DashboardPath)
	ctrl.Logout()

	fmt.Fprintln(env.Out, "Logged out.")
	return nil
}
