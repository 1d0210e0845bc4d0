package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	authToken string
	apiURL    string = "http://localhost:8787"
	output    string = "text" // "text" or "json"
	version          = "dev"
)

var rootCmd = &cobra.Command{
	Use:     "inkwell",
	Short:   "Inkwell CLI - Talk to an Inkwell backend from the terminal",
	Version: version,
	Long: `Inkwell CLI provides command-line access to an Inkwell backend.
Mint development tokens, write posts, and read feeds.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// AUTH_JWT_SECRET for `token` usually lives in the backend's .env
		_ = godotenv.Load()
		if authToken == "" {
			authToken = os.Getenv("INKWELL_TOKEN")
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&authToken, "token", "", "Identity token (defaults to INKWELL_TOKEN env var)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", apiURL, "API server URL")
	rootCmd.PersistentFlags().StringVar(&output, "output", output, "Output format: text or json")

	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(meCmd)
	rootCmd.AddCommand(postCmd)
	rootCmd.AddCommand(feedCmd)
	rootCmd.AddCommand(followCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
