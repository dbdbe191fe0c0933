package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"invoice-extractor/internal/handlers"
	"invoice-extractor/internal/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve extractions and schema probes over HTTP",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("server")

	svc, db, err := newExtractionService(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	router := handlers.SetupRouter(svc, cfg)

	srv := &http.Server{
		Addr:         cfg.ServerAddress,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("address", cfg.ServerAddress).Str("environment", cfg.Environment).Msg("Server is running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return err
	case <-quit:
	}
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}
	log.Info().Msg("Server exited gracefully")
	return nil
}
