package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/portald-dev/portald/internal/cli/commands"
)

var version = "dev" // Will be set during build

var globals commands.GlobalOptions

var rootCmd = &cobra.Command{
	Use:   "portald",
	Short: "Portald - sign in to your account from the terminal",
	Long: `Portald CLI - log in, sign up and view your dashboard.

The session token is kept in the OS keychain (or a file with --store file)
and shared by every command until you log out.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&globals.APIBase, "api-base", "", "Auth API base URL (overrides API_BASE_URL and saved config)")
	rootCmd.PersistentFlags().StringVar(&globals.Store, "store", "", "Session store: keyring or file")
	rootCmd.PersistentFlags().StringVar(&globals.LogLevel, "log-level", "warn", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "portald version %s\n", version)
		},
	})

	rootCmd.AddCommand(commands.NewLoginCmd(&globals))
	rootCmd.AddCommand(commands.NewSignupCmd(&globals))
	rootCmd.AddCommand(commands.NewLogoutCmd(&globals))
	rootCmd.AddCommand(commands.NewDashCmd(&globals))
	rootCmd.AddCommand(commands.NewWhoamiCmd(&globals))
	rootCmd.AddCommand(commands.NewUseCmd())
}

// Execute runs the root command
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
