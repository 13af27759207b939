package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/portald-dev/portald/internal/portal"
)

// NewSignupCmd creates the signup command
func NewSignupCmd(g *GlobalOptions) *cobra.Command {
	var fullName, email, password string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create a new account",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnv(cmd, g)
			if err != nil {
				return err
			}
			return runSignup(cmd.Context(), env, portal.Fields{FullName: fullName, Email: email, Password: password})
		},
	}

	cmd.Flags().StringVar(&fullName, "full-name", "", "Full name (or set PORTALD_FULL_NAME)")
	cmd.Flags().StringVar(&email, "email", "", "Email address (or set PORTALD_EMAIL)")
	cmd.Flags().StringVar(&password, "password", "", "Password (or set PORTALD_PASSWORD, will prompt if not provided)")

	return cmd
}

func runSignup(ctx context.Context, env *Env, fields portal.Fields) error {
	var err error

	if fields.FullName, err = valueOrPrompt(env.Prompter, fields.FullName, "PORTALD_FULL_NAME", "Full Name", false); err != nil {
		return err
	}
	if fields.Email, err = valueOrPrompt(env.Prompter, fields.Email, "PORTALD_EMAIL", "Email", false); err != nil {
		return err
	}
	if fields.Password, err = valueOrPrompt(env.Prompter, fields.Password, "PORTALD_PASSWORD", "Password", true); err != nil {
		return err
	}

	ctrl, _ := env.controller(portal.RootPath, portal.WithMode(portal.ModeSignup))
	if err := ctrl.SubmitForm(ctx, portal.ModeSignup, fields); err != nil {
		return err
	}

	form := ctrl.Form()
	if !form.StatusIsSuccess {
		return errors.New(form.StatusMessage)
	}

	fmt.Fprintf(env.Out, "✓ %s\n", form.StatusMessage)
	fmt.Fprintln(env.Out, "  Run 'portald login' to sign in.")
	return nil
}
