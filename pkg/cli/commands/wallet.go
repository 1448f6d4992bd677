package commands

import (
	"fmt"

	"github.com/Giri-Aayush/sui-faucet-console/pkg/cli/ui"
	"github.com/spf13/cobra"
)

var addressCmd = &cobra.Command{
	Use:   "address",
	Short: "Show the faucet wallet address",
	RunE:  runAddress,
}

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Show the faucet wallet balance",
	RunE:  runBalance,
}

func runAddress(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd.Context())
	if err != nil {
		return err
	}

	address, err := e.client.Faucet.GetAddress(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to get faucet address: %w", err)
	}

	if jsonOut {
		return printJSON(cmd.OutOrStdout(), map[string]string{"address": address})
	}
	fmt.Fprintln(cmd.OutOrStdout(), address)
	return nil
}

func runBalance(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd.Context())
	if err != nil {
		return err
	}

	balance, err := e.client.Faucet.GetBalance(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to get faucet balance: %w", err)
	}

	if jsonOut {
		return printJSON(cmd.OutOrStdout(), map[string]float64{"balance": balance})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%g SUI\n", balance)
	return nil
}

var walletDays int

var walletCmd = &cobra.Command{
	Use:   "wallet <ADDRESS>",
	Short: "Show faucet activity of an address",
	Long: `Show how often an address used the faucet and its recent transactions.

Example:
  sui-faucet wallet 0x8d9a...d7e8 --days 30`,
	Args: cobra.ExactArgs(1),
	RunE: runWallet,
}

func init() {
	walletCmd.Flags().IntVar(&walletDays, "days", 30, "Days of history to include")
}

func runWallet(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd.Context())
	if err != nil {
		return err
	}

	report := e.client.Analytics.GetWalletActivity(cmd.Context(), args[0], walletDays)

	if jsonOut {
		return printJSON(cmd.OutOrStdout(), report)
	}
	ui.PrintWalletReport(report)
	return nil
}
