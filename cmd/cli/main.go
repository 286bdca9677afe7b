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
	baseURL string
	token   string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gowallet-cli",
		Short: "gowallet CLI tool",
		Long:  `A command line interface for interacting with the gowallet API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the gowallet API")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("GOWALLET_TOKEN"), "Bearer token (defaults to GOWALLET_TOKEN)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Reporting operations",
	}

	reportCmd.AddCommand(&cobra.Command{
		Use:   "totals",
		Short: "Total transferred per sender",
		Run: func(cmd *cobra.Command, args []string) {
			printJSON("/api/v1/reports/total-transferred")
		},
	})

	reportCmd.AddCommand(&cobra.Command{
		Use:   "averages",
		Short: "Average transferred per sender",
		Run: func(cmd *cobra.Command, args []string) {
			printJSON("/api/v1/reports/average-transferred")
		},
	})

	var outFile string
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Download the user balances CSV",
		Run: func(cmd *cobra.Command, args []string) {
			exportCSV(outFile)
		},
	}
	exportCmd.Flags().StringVarP(&outFile, "out", "o", "user_balances.csv", "Output file")
	reportCmd.AddCommand(exportCmd)

	ledgerCmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}

	ledgerCmd.AddCommand(&cobra.Command{
		Use:   "consistency",
		Short: "Check ledger consistency",
		Run: func(cmd *cobra.Command, args []string) {
			checkConsistency()
		},
	})

	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(ledgerCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func get(path string) (*http.Response, error) {
	client := &http.Client{Timeout: timeout}

	req, err := http.NewRequest(http.MethodGet, baseURL+path, nil)
	if err != nil {
		return nil, err
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return client.Do(req)
}

func printJSON(path string) {
	resp, err := get(path)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Request failed (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	var pretty any
	if err := json.Unmarshal(body, &pretty); err != nil {
		fmt.Println(string(body))
		return
	}

	out, _ := json.MarshalIndent(pretty, "", "  ")
	fmt.Println(string(out))
}

func exportCSV(outFile string) {
	resp, err := get("/api/v1/reports/balances/csv")
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		fmt.Printf("Export failed (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	f, err := os.Create(outFile)
	if err != nil {
		fmt.Printf("Failed to create file: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		fmt.Printf("Failed to write file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Saved %s\n", outFile)
}

func checkConsistency() {
	resp, err := get("/api/v1/reports/consistency")
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Consistency check FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	var result map[string]any
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Total balance:     %v\n", result["total_balance"])
	fmt.Printf("Total transferred: %v\n", result["total_transferred"])
}
