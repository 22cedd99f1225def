package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfg    *Config
	client *Client
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "swissctl",
		Short: "CLI tool for the Swiss pairing API",
		Long: `swissctl talks to the Swiss pairing server's JSON API.

It manages tournament enrollments, fetches or resets round pairings,
and prints final rankings.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Output != "text" && cfg.Output != "json" {
				return fmt.Errorf("invalid output format %q: must be text or json", cfg.Output)
			}
			client = NewClient(cfg.ServerURL, cfg.Timeout, cfg.Retries)
			if cfg.Verbose {
				fmt.Fprintf(cmd.ErrOrStderr(), "server: %s\n", cfg.ServerURL)
			}
			return nil
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Server URL (env: SWISSCTL_SERVER)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json")
	rootCmd.PersistentFlags().DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "HTTP request timeout")
	rootCmd.PersistentFlags().IntVar(&cfg.Retries, "retries", cfg.Retries, "Retries while the tournament is busy")
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Verbose output")

	// Add subcommands
	rootCmd.AddCommand(newHealthCmd())
	rootCmd.AddCommand(newCompetitorsCmd())
	rootCmd.AddCommand(newPairingsCmd())
	rootCmd.AddCommand(newRankingsCmd())
	rootCmd.AddCommand(newReportCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
