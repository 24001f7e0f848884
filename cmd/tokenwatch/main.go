package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const (
	appName = "tokenwatch"
	version = "v1.0.0"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	if term.IsTerminal(int(os.Stderr.Fd())) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}

	rootCmd := &cobra.Command{
		Use:     appName,
		Version: version,
		Short:   "Live token screener data pipeline",
		Long: `tokenwatch acquires a live-updating table of tradable tokens from a
primary market-data provider, falls back to CoinGecko, and synthesizes
plausible data when no network source is reachable.`,
	}

	rootCmd.PersistentFlags().String("config", "config/tokenwatch.yaml", "Path to YAML config")
	rootCmd.PersistentFlags().String("log-level", "", "Override log level (trace|debug|info|warn|error)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the refresh controller and HTTP API",
		Long:  "Periodic refresh over the fallback chain, served via JSON API, websocket stream and /metrics",
		RunE:  runServe,
	}
	serveCmd.Flags().Int("interval", 0, "Refresh interval seconds (overrides config)")
	serveCmd.Flags().Int("tick", 0, "Simulated tick interval seconds, 0 disables (overrides config)")
	serveCmd.Flags().Bool("simulate", false, "Serve synthetic tokens only, no network calls")

	fetchCmd := &cobra.Command{
		Use:   "fetch",
		Short: "Run one fetch cycle and print the collection as JSON",
		RunE:  runFetch,
	}
	fetchCmd.Flags().Bool("simulate", false, "Generate synthetic tokens instead of calling providers")

	rootCmd.AddCommand(serveCmd, fetchCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func applyLogLevel(level string) {
	if level == "" {
		return
	}
	if parsed, err := zerolog.ParseLevel(level); err == nil {
		zerolog.SetGlobalLevel(parsed)
	}
}
