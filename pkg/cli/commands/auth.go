package commands

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Giri-Aayush/sui-faucet-console/internal/models"
	"github.com/Giri-Aayush/sui-faucet-console/pkg/cli/ui"
	"github.com/Giri-Aayush/sui-faucet-console/pkg/client"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"
)

var (
	username string
	password string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Open an admin session",
	Long: `Log in as a faucet admin. The session token is stored in the token file
and sent with every admin request until you log out or it is rejected.

Example:
  sui-faucet login -u admin`,
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Drop the admin session",
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current admin session",
	RunE:  runWhoami,
}

func init() {
	loginCmd.Flags().StringVarP(&username, "username", "u", "", "Admin username")
	loginCmd.Flags().StringVarP(&password, "password", "p", "", "Admin password (prompted when omitted)")
}

func runLogin(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd.Context())
	if err != nil {
		return err
	}

	reader := bufio.NewReader(cmd.InOrStdin())
	user := strings.TrimSpace(username)
	if user == "" {
		fmt.Print("Username: ")
		user, err = readLine(reader)
		if err != nil {
			return err
		}
	}

	pass := password
	if pass == "" {
		fmt.Print("Password: ")
		pass, err = readPassword(reader)
		fmt.Println()
		if err != nil {
			return err
		}
	}

	resp, err := e.client.Auth.Login(cmd.Context(), user, pass)
	if err != nil {
		if !jsonOut {
			ui.PrintError(err.Error())
		}
		return err
	}

	info := sessionInfo(e)
	info.User = resp.User
	if jsonOut {
		return printJSON(cmd.OutOrStdout(), info)
	}
	ui.PrintSuccess(fmt.Sprintf("Logged in as %s", user))
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd.Context())
	if err != nil {
		return err
	}

	if err := e.client.Auth.Logout(cmd.Context()); err != nil {
		return fmt.Errorf("failed to remove stored token: %w", err)
	}

	if jsonOut {
		return printJSON(cmd.OutOrStdout(), models.SessionInfo{})
	}
	ui.PrintSuccess("Logged out")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd.Context())
	if err != nil {
		return err
	}

	info := sessionInfo(e)
	if info.Authenticated {
		profile, err := e.client.Auth.GetProfile(cmd.Context())
		switch {
		case errors.Is(err, client.ErrUnauthorized):
			// the rejected token is gone now
			info = models.SessionInfo{}
		case err != nil:
			e.logger.Debug("Profile unavailable", zap.Error(err))
		default:
			info.User = profile
		}
	}

	if jsonOut {
		return printJSON(cmd.OutOrStdout(), info)
	}
	ui.PrintSession(info, time.Now())
	return nil
}

func sessionInfo(e *env) models.SessionInfo {
	info := models.SessionInfo{Authenticated: e.client.Auth.IsAuthenticated()}
	if !info.Authenticated {
		return info
	}
	if claims, err := e.client.Auth.Claims(); err == nil {
		info.Subject = claims.Subject
		info.ExpiresAt = claims.ExpiresAt
	}
	return info
}

func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// readPassword hides input on a terminal and falls back to a plain line
// when stdin is piped
func readPassword(r *bufio.Reader) (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		raw, err := term.ReadPassword(fd)
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(raw), nil
	}
	return readLine(r)
}
