package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/aretw0/turing/internal/cli"
	"github.com/aretw0/turing/internal/metrics"
	httpAdapter "github.com/aretw0/turing/pkg/adapters/http"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Serves the interpreter as a JSON API: parse and run programs, list the
library and drive persistent sessions. Prometheus metrics are exposed on /metrics.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(cmd)
		exitOnError("Error loading config", err)

		logger, closer, err := cli.NewLogger(cfg)
		exitOnError("Error creating logger", err)
		defer closer.Close()

		lib, err := cli.OpenLibrary(cfg)
		exitOnError("Error opening library", err)

		backend, err := cli.OpenBackend(cfg)
		exitOnError("Error opening session store", err)
		defer backend.Close()

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		hooks := metrics.New(reg).Hooks()

		handler, err := httpAdapter.NewHandler(httpAdapter.Config{
			Library:  lib,
			Sessions: cli.NewManager(cfg, backend, logger),
			Hooks:    hooks,
			Gatherer: reg,
			MaxSteps: cfg.MaxSteps,
			Logger:   logger,
		})
		exitOnError("Error initializing server", err)

		srv := &http.Server{
			Addr:              ":" + strconv.Itoa(cfg.HTTP.Port),
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			logger.Info("Starting Turing Server", "addr", srv.Addr, "store", cfg.Store)
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			logger.Info("Start shutdown", "signal", sig.String())

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				logger.Error("Graceful shutdown did not complete", "timeout", 5*time.Second, "err", err)
				if err := srv.Close(); err != nil {
					logger.Error("Error killing server", "err", err)
				}
			}
			logger.Info("Turing Server stopped gracefully")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
	serveCmd.Flags().Int("max-steps", 0, "Default step budget of /v1/run")
	serveCmd.Flags().String("store", "", "Session store: memory, file or redis")
	serveCmd.Flags().String("store-dir", "", "Directory of the file session store")
	serveCmd.Flags().String("redis-addr", "", "Redis address of the redis session store")
	serveCmd.Flags().Int("checkpoint-every", 0, "Save sessions every n transitions")
}
