package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/hireloop/hireloop/internal/ai"
	"github.com/hireloop/hireloop/internal/api"
	"github.com/hireloop/hireloop/internal/config"
	"github.com/hireloop/hireloop/internal/logging"
	"github.com/hireloop/hireloop/internal/tui"
	"github.com/hireloop/hireloop/internal/workflow"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the recruitment API server",
	Long:  `Starts the workflow engine and exposes the recruiter API, the public careers read path and Prometheus metrics over HTTP.`,
	Run: func(cmd *cobra.Command, args []string) {
		// Local development keys live in .env; absence is fine.
		_ = godotenv.Load()

		configPath, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(configPath)
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			os.Exit(1)
		}
		logger := logging.New(logging.ParseLevel(cfg.LogLevel))

		store, closeStore, err := openStore(cfg)
		if err != nil {
			fmt.Printf("Error opening store: %v\n", err)
			os.Exit(1)
		}
		defer closeStore()

		locker, closeLocker := openLocker(cfg)
		defer closeLocker()

		generator, err := ai.NewGenerator(cfg.AI.AnthropicAPIKey, cfg.AI.AnthropicModel)
		if err != nil {
			fmt.Printf("Error initializing JD generator: %v\n", err)
			os.Exit(1)
		}
		collab := workflow.Collaborators{
			Generator:   generator,
			Ranker:      ai.NewRanker(cfg.AI.EmbeddingURL, cfg.AI.EmbeddingAPIKey),
			Prescreener: ai.NewVoiceAgent(cfg.AI.VoiceAgentURL),
			Scheduler:   ai.NewScheduler("recruiting@hireloop.dev"),
		}

		engineCfg := cfg.EngineConfig()
		registry := prometheus.NewRegistry()
		graph := workflow.NewGraph(workflow.NewNodes(collab, engineCfg), engineCfg)
		engine := workflow.NewEngine(graph, store, engineCfg,
			workflow.WithLocker(locker),
			workflow.WithLogger(logger),
			workflow.WithMetrics(workflow.NewMetrics(registry)),
		)

		server := api.NewServer(engine, engineCfg, api.WithLogger(logger))
		srv := &http.Server{
			Addr:              cfg.Server.Addr,
			Handler:           server.Handler(registry),
			ReadHeaderTimeout: 10 * time.Second,
		}

		tui.PrintBanner()

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			logger.Info("starting hireloop server", "addr", srv.Addr, "store", cfg.Store)
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			logger.Info("starting shutdown", "signal", sig.String())

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				logger.Error("graceful shutdown did not complete", "err", err)
				if err := srv.Close(); err != nil {
					logger.Error("error killing server", "err", err)
				}
			}
			logger.Info("hireloop server stopped")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
