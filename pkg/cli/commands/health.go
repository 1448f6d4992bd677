package commands

import (
	"fmt"

	"github.com/Giri-Aayush/sui-faucet-console/pkg/cli/ui"
	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check backend health",
	Long: `Show the backend health report. Some deployments only answer this for
logged-in admins.

Example:
  sui-faucet health`,
	RunE: runHealth,
}

func runHealth(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd.Context())
	if err != nil {
		return err
	}

	health, err := e.client.System.GetHealth(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to get health: %w", err)
	}

	if jsonOut {
		return printJSON(cmd.OutOrStdout(), health)
	}
	ui.PrintHealth(health)
	return nil
}
