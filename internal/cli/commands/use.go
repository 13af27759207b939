package commands

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/portald-dev/portald/internal/cli/userconfig"
)

// NewUseCmd creates the use command, which remembers the Auth API base URL
func NewUseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "use <api-base-url>",
		Short: "Remember the Auth API base URL for later commands",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			baseURL, err := normalizeBaseURL(args[0])
			if err != nil {
				return err
			}

			if err := userconfig.SetAPIBaseURL(baseURL); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Using %s\n", baseURL)
			return nil
		},
	}
}

func normalizeBaseURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("invalid URL %q: %w", raw, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("invalid URL %q: expected http(s)://host", raw)
	}
	return strings.TrimRight(u.String(), "/"), nil
}
