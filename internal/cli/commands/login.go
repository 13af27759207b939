package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/portald-dev/portald/internal/portal"
)

// NewLoginCmd creates the login command
func NewLoginCmd(g *GlobalOptions) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnv(cmd, g)
			if err != nil {
				return err
			}
			return runLogin(cmd.Context(), env, email, password)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address (or set PORTALD_EMAIL)")
	cmd.Flags().StringVar(&password, "password", "", "Password (or set PORTALD_PASSWORD, will prompt if not provided)")

	return cmd
}

func runLogin(ctx context.Context, env *Env, email, password string) error {
	ctrl, nav := env.controller(portal.RootPath)

	// Same guard as the web form: an existing session goes straight to the dashboard
	if ctrl.ResolveInitialView() == portal.ViewDashboard {
		fmt.Fprintln(env.Out, "Already logged in. Run 'portald logout' to switch accounts.")
		return env.follow(nav)
	}

	email, err := valueOrPrompt(env.Prompter, email, "PORTALD_EMAIL", "Email", false)
	if err != nil {
		return err
	}

	password, err = valueOrPrompt(env.Prompter, password, "PORTALD_PASSWORD", "Password", true)
	if err != nil {
		return err
	}

	if err := ctrl.SubmitForm(ctx, portal.ModeLogin, portal.Fields{Email: email, Password: password}); err != nil {
		return err
	}

	form := ctrl.Form()
	if !form.StatusIsSuccess {
		return errors.New(form.StatusMessage)
	}

	fmt.Fprintf(env.Out, "✓ %s\n", form.StatusMessage)
	return env.follow(nav)
}
