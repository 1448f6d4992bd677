package ui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Giri-Aayush/sui-faucet-console/internal/models"
	"github.com/briandowns/spinner"
	"github.com/fatih/color"
)

var (
	// Colors
	cyan   = color.New(color.FgCyan).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()

	// Symbols
	checkMark = green("✓")
	xMark     = red("✗")
	arrow     = cyan("→")
	warnMark  = yellow("!")
)

const timeLayout = "January 02, 2006 at 3:04 PM"

// PrintBanner prints the faucet banner
func PrintBanner() {
	banner := `
   ███████╗██╗   ██╗██╗    ███████╗ █████╗ ██╗   ██╗ ██████╗███████╗████████╗
   ██╔════╝██║   ██║██║    ██╔════╝██╔══██╗██║   ██║██╔════╝██╔════╝╚══██╔══╝
   ███████╗██║   ██║██║    █████╗  ███████║██║   ██║██║     █████╗     ██║
   ╚════██║██║   ██║██║    ██╔══╝  ██╔══██║██║   ██║██║     ██╔══╝     ██║
   ███████║╚██████╔╝██║    ██║     ██║  ██║╚██████╔╝╚██████╗███████╗   ██║
   ╚══════╝ ╚═════╝ ╚═╝    ╚═╝     ╚═╝  ╚═╝ ╚═════╝  ╚═════╝╚══════╝   ╚═╝
`
	fmt.Println(cyan(banner))
}

// PrintSuccess prints a success message
func PrintSuccess(message string) {
	fmt.Printf("%s %s\n", checkMark, message)
}

// PrintError prints an error message
func PrintError(message string) {
	fmt.Printf("%s %s\n", xMark, red(message))
}

// PrintInfo prints an info message
func PrintInfo(message string) {
	fmt.Printf("%s %s\n", arrow, message)
}

// PrintWarning prints a warning message
func PrintWarning(message string) {
	fmt.Printf("%s %s\n", warnMark, yellow(message))
}

// NewSpinner creates a new spinner with a message
func NewSpinner(message string) *spinner.Spinner {
	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond)
	s.Suffix = " " + message
	_ = s.Color("cyan")
	return s
}

// PrintFaucetResponse prints a nicely formatted faucet response
func PrintFaucetResponse(resp *models.FaucetResponse) {
	fmt.Println()
	fmt.Println(strings.Repeat("━", 50))
	if resp.Amount > 0 {
		fmt.Printf("  %s  %s SUI\n", bold("Amount:"), formatAmount(resp.Amount))
	}
	if resp.TxHash != "" {
		fmt.Printf("  %s  %s\n", bold("TX Hash:"), ShortenHash(resp.TxHash))
	}
	if resp.Message != "" {
		fmt.Printf("  %s  %s\n", bold("Message:"), resp.Message)
	}
	if resp.ExplorerURL != "" {
		fmt.Println()
		fmt.Printf("  🔗 %s\n", cyan(resp.ExplorerURL))
	}
	fmt.Println(strings.Repeat("━", 50))
	fmt.Println()
	if resp.Success {
		PrintSuccess("Tokens are on their way.")
	} else {
		PrintError("The faucet did not send tokens.")
	}
	fmt.Println()
}

// PrintStats prints the dashboard summary
func PrintStats(stats *models.AnalyticsStats) {
	fmt.Println()
	fmt.Println(bold("Faucet Statistics"))
	fmt.Println(strings.Repeat("─", 50))
	fmt.Printf("  Total requests:     %d\n", stats.TotalRequests)
	fmt.Printf("  Total distributed:  %s SUI\n", formatAmount(stats.TotalDistributed))
	fmt.Printf("  Success rate:       %d%%\n", stats.SuccessRate)
	fmt.Printf("  Active users (24h): %d\n", stats.ActiveUsers24h)
	fmt.Printf("  Avg response time:  %.0f ms\n", stats.AverageResponseTime)
	fmt.Println()

	if len(stats.RequestsOverTime) > 0 {
		fmt.Println(bold("Requests (last 7 days):"))
		peak := 0
		for _, d := range stats.RequestsOverTime {
			peak = max(peak, d.Requests)
		}
		for _, d := range stats.RequestsOverTime {
			fmt.Printf("  %s  %s %d\n", d.Date, bar(d.Requests, peak, 30), d.Requests)
		}
		fmt.Println()
	}

	if len(stats.TopCountries) > 0 {
		fmt.Println(bold("Top countries:"))
		for i, c := range stats.TopCountries {
			fmt.Printf("  %d. %-20s %d\n", i+1, c.Country, c.Requests)
		}
		fmt.Println()
	}

	if len(stats.RecentTransactions) > 0 {
		fmt.Println(bold("Recent transactions:"))
		for _, tx := range stats.RecentTransactions {
			fmt.Printf("  %s %s  %s SUI  %s\n",
				statusMark(tx.Status), ShortenHash(tx.Address), formatAmount(tx.Amount), formatTimestamp(tx.Timestamp))
		}
		fmt.Println()
	}
}

// PrintWalletReport prints the activity report of one address
func PrintWalletReport(report models.WalletActivityReport) {
	fmt.Println()
	fmt.Printf("%s %s\n\n", bold("Address:"), ShortenHash(report.Address))
	fmt.Printf("  Requests:       %d\n", report.TotalRequests)
	fmt.Printf("  Success rate:   %.0f%%\n", report.SuccessRate)
	fmt.Printf("  Total received: %s SUI\n", formatAmount(report.TotalAmount))
	if report.LastActivity != "" {
		fmt.Printf("  Last activity:  %s\n", formatTimestamp(report.LastActivity))
	}
	if report.Country != "" {
		fmt.Printf("  Country:        %s\n", report.Country)
	}
	if report.AverageResponseTime != nil {
		fmt.Printf("  Avg response:   %.0f ms\n", *report.AverageResponseTime)
	}
	fmt.Println()

	for _, tx := range report.Transactions {
		fmt.Printf("  %s %s  %s SUI  %s\n",
			statusMark(tx.Status), ShortenHash(tx.TxHash), formatAmount(tx.Amount), formatTimestamp(tx.Timestamp))
	}
	fmt.Println()
}

// PrintSettings prints the faucet settings
func PrintSettings(s models.SystemSettings) {
	fmt.Println()
	fmt.Println(bold("Faucet Settings"))
	fmt.Println(strings.Repeat("─", 50))
	fmt.Printf("  Amount per request: %s SUI\n", formatAmount(s.NormalizedAmount))
	fmt.Printf("  Requests per IP:    %d\n", s.LimitPerIP)
	fmt.Printf("  IP window:          %s\n", FormatDuration(time.Duration(s.TTLPerIP)*time.Second))
	fmt.Printf("  Faucet enabled:     %s\n", yesNo(s.IsFaucetEnabled))
	fmt.Printf("  Rate limit enabled: %s\n", yesNo(s.IsRateLimitEnabled))
	fmt.Println()
}

// PrintHealth prints the backend health report
func PrintHealth(h *models.HealthStatus) {
	fmt.Println()
	if h.Status == "ok" {
		PrintSuccess("Backend is healthy")
	} else {
		PrintError(fmt.Sprintf("Backend status: %s", h.Status))
	}

	names := make([]string, 0, len(h.Details))
	for name := range h.Details {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		status := "unknown"
		if detail, ok := h.Details[name].(map[string]any); ok {
			if s, ok := detail["status"].(string); ok {
				status = s
			}
		}
		fmt.Printf("  %s %-12s %s\n", statusMark(status), name, status)
	}
	fmt.Println()
}

// PrintSession prints who is logged in
func PrintSession(info models.SessionInfo, now time.Time) {
	fmt.Println()
	if !info.Authenticated {
		PrintInfo("Not logged in. Run 'sui-faucet login' to open an admin session.")
		fmt.Println()
		return
	}

	PrintSuccess("Logged in")
	if info.Subject != "" {
		fmt.Printf("  Subject:  %s\n", info.Subject)
	}
	if username, ok := info.User["username"].(string); ok {
		fmt.Printf("  User:     %s\n", username)
	}
	if info.ExpiresAt != nil {
		if info.ExpiresAt.After(now) {
			fmt.Printf("  Expires:  %s (in %s)\n", info.ExpiresAt.Local().Format(timeLayout), FormatDuration(info.ExpiresAt.Sub(now)))
		} else {
			PrintWarning("Token expired " + info.ExpiresAt.Local().Format(timeLayout))
		}
	}
	fmt.Println()
}

// Helper functions

// ShortenHash shortens a long address or hash for display
func ShortenHash(hash string) string {
	if len(hash) <= 20 {
		return hash
	}
	return hash[:10] + "..." + hash[len(hash)-8:]
}

// FormatDuration renders d in days, hours and minutes
func FormatDuration(d time.Duration) string {
	hours := d.Hours()
	if hours >= 24 {
		days := int(hours / 24)
		remainingHours := int(hours) % 24
		if remainingHours == 0 {
			return fmt.Sprintf("%d day%s", days, pluralize(days))
		}
		return fmt.Sprintf("%d day%s %d hour%s", days, pluralize(days), remainingHours, pluralize(remainingHours))
	}

	if hours >= 1 {
		h := int(hours)
		minutes := int((hours - float64(h)) * 60)
		if minutes == 0 {
			return fmt.Sprintf("%d hour%s", h, pluralize(h))
		}
		return fmt.Sprintf("%d hour%s %d minute%s", h, pluralize(h), minutes, pluralize(minutes))
	}

	minutes := int(hours * 60)
	return fmt.Sprintf("%d minute%s", minutes, pluralize(minutes))
}

func pluralize(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

func formatAmount(v float64) string {
	s := fmt.Sprintf("%.4f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

func formatTimestamp(ts string) string {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return ts
	}
	return t.Local().Format(timeLayout)
}

func statusMark(status string) string {
	switch strings.ToLower(status) {
	case "success", "up", "ok":
		return checkMark
	default:
		return xMark
	}
}

func yesNo(b bool) string {
	if b {
		return green("yes")
	}
	return red("no")
}

func bar(value, peak, width int) string {
	if peak <= 0 {
		return ""
	}
	n := value * width / peak
	return cyan(strings.Repeat("█", n)) + strings.Repeat(" ", width-n)
}
