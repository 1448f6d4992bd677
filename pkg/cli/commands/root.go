package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Giri-Aayush/sui-faucet-console/internal/config"
	"github.com/Giri-Aayush/sui-faucet-console/internal/session"
	"github.com/Giri-Aayush/sui-faucet-console/pkg/client"
	"github.com/Giri-Aayush/sui-faucet-console/pkg/utils"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	apiURL    string
	verbose   bool
	jsonOut   bool
	tokenFile string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "sui-faucet",
	Short: "SUI Testnet Faucet CLI",
	Long: `A CLI for the SUI testnet faucet: request tokens, inspect the faucet
wallet and browse the analytics dashboard.

Examples:
  sui-faucet request 0xYOUR_ADDRESS     # Request testnet SUI
  sui-faucet balance                    # Faucet wallet balance
  sui-faucet stats                      # Dashboard summary
  sui-faucet wallet 0xYOUR_ADDRESS      # Activity of one address
  sui-faucet login -u admin             # Open an admin session
  sui-faucet watch                      # Live dashboard, refreshed every 30s

Configuration is read from the environment (and .env). Flags override it.`,
	Version:       "0.3.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Faucet API URL (default $API_BASE_URL)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringVar(&tokenFile, "token-file", "", "Where the admin session token is kept (default $TOKEN_FILE)")

	// Add subcommands
	rootCmd.AddCommand(requestCmd)
	rootCmd.AddCommand(addressCmd)
	rootCmd.AddCommand(balanceCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(walletCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(watchCmd)
}

// env is what every command works with
type env struct {
	cfg     *config.Config
	logger  *zap.Logger
	session *session.Session
	client  *client.Client
}

// setup loads config, applies global flags and restores the session. The CLI
// always keeps its token in a file.
func setup(ctx context.Context) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if apiURL != "" {
		cfg.APIBaseURL = strings.TrimRight(apiURL, "/")
	}
	if tokenFile != "" {
		cfg.TokenFile = tokenFile
	}

	logger := zap.NewNop()
	if verbose {
		logger, err = utils.NewLogger("debug")
		if err != nil {
			return nil, fmt.Errorf("failed to create logger: %w", err)
		}
	}

	sess, err := session.New(ctx, session.NewFileStore(cfg.TokenFile), logger)
	if err != nil {
		return nil, err
	}

	return &env{
		cfg:     cfg,
		logger:  logger,
		session: sess,
		client:  client.NewFromConfig(cfg, sess, logger, nil),
	}, nil
}

func printJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}
