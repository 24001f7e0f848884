package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/sawpanic/tokenwatch/internal/config"
)

// runFetch executes a single fallback-chain cycle and prints the resulting
// collection, which makes the pipeline scriptable without the server.
func runFetch(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	logLevel, _ := cmd.Flags().GetString("log-level")
	simulate, _ := cmd.Flags().GetBool("simulate")

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if logLevel == "" {
		logLevel = cfg.Log.Level
	}
	applyLogLevel(logLevel)

	chain := buildChain(cfg, simulate, nil)
	tokens := chain.Fetch(context.Background())

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(tokens)
}
