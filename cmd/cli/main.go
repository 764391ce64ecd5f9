package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL   string
	authToken string
	timeout   time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "drawerledger-cli",
		Short: "Drawer ledger CLI tool",
		Long:  `A command line interface for interacting with the drawer ledger API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the drawer ledger API")
	rootCmd.PersistentFlags().StringVar(&authToken, "token", "", "Bearer token for authenticated deployments")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	// Ledger commands
	ledgerCmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}

	consistencyCmd := &cobra.Command{
		Use:   "consistency",
		Short: "Recompute every drawer balance from its ledger entries",
		Run: func(cmd *cobra.Command, args []string) {
			checkConsistency()
		},
	}

	ledgerCmd.AddCommand(consistencyCmd)
	rootCmd.AddCommand(ledgerCmd)

	// Alert commands
	alertsCmd := &cobra.Command{
		Use:   "alerts",
		Short: "Alert operations",
	}

	lowBalanceCmd := &cobra.Command{
		Use:   "low-balance",
		Short: "List drawer balances below their alert threshold",
		Run: func(cmd *cobra.Command, args []string) {
			listLowBalance()
		},
	}

	alertsCmd.AddCommand(lowBalanceCmd)
	rootCmd.AddCommand(alertsCmd)

	// Drawer commands
	drawersCmd := &cobra.Command{
		Use:   "drawers",
		Short: "Drawer operations",
	}

	listDrawersCmd := &cobra.Command{
		Use:   "list",
		Short: "List all drawers",
		Run: func(cmd *cobra.Command, args []string) {
			listDrawers()
		},
	}

	balancesCmd := &cobra.Command{
		Use:   "balances <drawer-id>",
		Short: "List a drawer's currency balances",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			listBalances(args[0])
		},
	}

	drawersCmd.AddCommand(listDrawersCmd)
	drawersCmd.AddCommand(balancesCmd)
	rootCmd.AddCommand(drawersCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func checkConsistency() {
	body := get("/api/v1/ledger/consistency")

	var result struct {
		Consistent bool `json:"consistent"`
		Violations []struct {
			DrawerID string `json:"drawer_id"`
			Currency string `json:"currency"`
			Stored   string `json:"stored"`
			Computed string `json:"computed"`
		} `json:"violations"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	if result.Consistent {
		fmt.Println("Consistency check PASSED")
		return
	}

	fmt.Printf("Consistency check FAILED: %d violation(s)\n", len(result.Violations))
	for _, v := range result.Violations {
		fmt.Printf("  drawer=%s currency=%s stored=%s computed=%s\n", v.DrawerID, v.Currency, v.Stored, v.Computed)
	}
	os.Exit(1)
}

func listLowBalance() {
	body := get("/api/v1/alerts/low-balance")

	var alerts []map[string]any
	if err := json.Unmarshal(body, &alerts); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	if len(alerts) == 0 {
		fmt.Println("No low-balance alerts")
		return
	}

	printJSON(alerts)
}

func listDrawers() {
	body := get("/api/v1/drawers")

	var drawers []map[string]any
	if err := json.Unmarshal(body, &drawers); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	printJSON(drawers)
}

func listBalances(drawerID string) {
	body := get("/api/v1/drawers/" + drawerID + "/balances")

	var balances []map[string]any
	if err := json.Unmarshal(body, &balances); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	printJSON(balances)
}

// get performs an authenticated GET and exits on any failure.
func get(path string) []byte {
	client := &http.Client{Timeout: timeout}

	req, err := http.NewRequest(http.MethodGet, baseURL+path, nil)
	if err != nil {
		fmt.Printf("Error building request: %v\n", err)
		os.Exit(1)
	}
	if authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}

	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Request failed (Status: %d)\nResponse: %s\n", resp.StatusCode, truncate(string(body), 500))
		os.Exit(1)
	}

	return body
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("Failed to render response: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
