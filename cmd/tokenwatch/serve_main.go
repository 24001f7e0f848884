package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/sawpanic/tokenwatch/internal/config"
	httpapi "github.com/sawpanic/tokenwatch/internal/interfaces/http"
	"github.com/sawpanic/tokenwatch/internal/metrics"
	"github.com/sawpanic/tokenwatch/internal/snapshot"
)

func runServe(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	logLevel, _ := cmd.Flags().GetString("log-level")
	interval, _ := cmd.Flags().GetInt("interval")
	tick, _ := cmd.Flags().GetInt("tick")
	simulate, _ := cmd.Flags().GetBool("simulate")

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if logLevel == "" {
		logLevel = cfg.Log.Level
	}
	applyLogLevel(logLevel)

	if interval > 0 {
		cfg.Refresh.IntervalSecs = interval
	}
	if tick > 0 {
		cfg.Refresh.TickSecs = tick
	}
	if simulate && cfg.Refresh.TickSecs == 0 {
		// The simulation variant ticks every 3s between full refreshes.
		cfg.Refresh.TickSecs = 3
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	registry := prometheus.NewRegistry()
	set := metrics.NewSet(registry)

	chain := buildChain(cfg, simulate, set)
	controller := snapshot.NewController(chain, snapshot.Config{
		RefreshInterval: cfg.Refresh.GetRefreshInterval(),
		TickInterval:    cfg.Refresh.GetTickInterval(),
	})

	controller.Start(ctx)
	defer controller.Stop()

	handlers := httpapi.NewHandlers(controller, 2*time.Second)
	server := httpapi.NewServer(httpapi.ServerConfig{
		Host:         cfg.HTTP.Host,
		Port:         cfg.HTTP.Port,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeout) * time.Second,
	}, handlers, registry)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	log.Info().
		Bool("simulate", simulate).
		Int("interval_secs", cfg.Refresh.IntervalSecs).
		Int("tick_secs", cfg.Refresh.TickSecs).
		Msg("tokenwatch serving")

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
