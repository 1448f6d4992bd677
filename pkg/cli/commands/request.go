package commands

import (
	"fmt"

	"github.com/Giri-Aayush/sui-faucet-console/internal/models"
	"github.com/Giri-Aayush/sui-faucet-console/pkg/cli/ui"
	"github.com/Giri-Aayush/sui-faucet-console/pkg/utils"
	"github.com/spf13/cobra"
)

var requestCmd = &cobra.Command{
	Use:   "request <ADDRESS>",
	Short: "Request testnet SUI",
	Long: `Request testnet SUI for an address.

The faucet limits requests per IP. When the limit is hit the request is
rejected and nothing is sent; try again later.

Example:
  sui-faucet request 0x8d9a...d7e8`,
	Args: cobra.ExactArgs(1),
	RunE: runRequest,
}

func runRequest(cmd *cobra.Command, args []string) error {
	address := utils.NormalizeSuiAddress(args[0])

	// Validate address
	if err := utils.ValidateSuiAddress(address); err != nil {
		return fmt.Errorf("invalid address: %w", err)
	}

	e, err := setup(cmd.Context())
	if err != nil {
		return err
	}

	if jsonOut {
		resp, err := e.client.Faucet.RequestTokens(cmd.Context(), address)
		if err != nil {
			return err
		}
		withExplorerURL(e, resp)
		return printJSON(cmd.OutOrStdout(), resp)
	}

	ui.PrintBanner()
	ui.PrintInfo(fmt.Sprintf("Requesting SUI for %s", ui.ShortenHash(address)))
	fmt.Println()

	s := ui.NewSpinner("Submitting request...")
	s.Start()
	resp, err := e.client.Faucet.RequestTokens(cmd.Context(), address)
	s.Stop()
	if err != nil {
		ui.PrintError(err.Error())
		return err
	}

	withExplorerURL(e, resp)
	ui.PrintSuccess("Request accepted!")
	ui.PrintFaucetResponse(resp)
	return nil
}

func withExplorerURL(e *env, resp *models.FaucetResponse) {
	if resp.TxHash != "" && resp.ExplorerURL == "" {
		resp.ExplorerURL = e.cfg.GetExplorerURL(resp.TxHash)
	}
}
