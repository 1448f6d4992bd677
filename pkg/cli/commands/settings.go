package commands

import (
	"errors"
	"fmt"

	"github.com/Giri-Aayush/sui-faucet-console/internal/dashboard"
	"github.com/Giri-Aayush/sui-faucet-console/internal/models"
	"github.com/Giri-Aayush/sui-faucet-console/pkg/cli/ui"
	"github.com/Giri-Aayush/sui-faucet-console/pkg/client"
	"github.com/spf13/cobra"
)

var (
	setAmount           float64
	setLimitPerIP       int
	setTTLPerIP         int
	setFaucetEnabled    bool
	setRateLimitEnabled bool
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change faucet settings",
	Long: `Show the faucet settings. With any of the flags below, submit a change.

Examples:
  sui-faucet settings
  sui-faucet settings --limit-per-ip 10`,
	RunE: runSettings,
}

func init() {
	settingsCmd.Flags().Float64Var(&setAmount, "amount", 0, "SUI sent per request")
	settingsCmd.Flags().IntVar(&setLimitPerIP, "limit-per-ip", 0, "Requests allowed per IP and window")
	settingsCmd.Flags().IntVar(&setTTLPerIP, "ttl-per-ip", 0, "Per-IP window in seconds")
	settingsCmd.Flags().BoolVar(&setFaucetEnabled, "faucet-enabled", true, "Enable or disable the faucet")
	settingsCmd.Flags().BoolVar(&setRateLimitEnabled, "rate-limit-enabled", true, "Enable or disable rate limiting")
}

func runSettings(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd.Context())
	if err != nil {
		return err
	}

	editor := dashboard.NewSettingsEditor(e.client.System, e.logger)
	current, err := editor.Load(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	flags := cmd.Flags()
	if err := editor.Edit(func(s *models.SystemSettings) {
		if flags.Changed("amount") {
			s.NormalizedAmount = setAmount
		}
		if flags.Changed("limit-per-ip") {
			s.LimitPerIP = setLimitPerIP
		}
		if flags.Changed("ttl-per-ip") {
			s.TTLPerIP = setTTLPerIP
		}
		if flags.Changed("faucet-enabled") {
			s.IsFaucetEnabled = setFaucetEnabled
		}
		if flags.Changed("rate-limit-enabled") {
			s.IsRateLimitEnabled = setRateLimitEnabled
		}
	}); err != nil {
		return err
	}

	if !editor.Dirty() {
		if jsonOut {
			return printJSON(cmd.OutOrStdout(), current)
		}
		ui.PrintSettings(current)
		return nil
	}

	saved, err := editor.Save(cmd.Context())
	if err != nil {
		if !jsonOut && errors.Is(err, client.ErrSettingsUpdateUnsupported) {
			ui.PrintWarning(err.Error())
		}
		return err
	}

	if jsonOut {
		return printJSON(cmd.OutOrStdout(), saved)
	}
	ui.PrintSuccess("Settings updated")
	ui.PrintSettings(saved)
	return nil
}
