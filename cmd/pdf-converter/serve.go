package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/spherical/pdf-converter/internal/convert"
	"github.com/spherical/pdf-converter/internal/pdf"
	"github.com/spherical/pdf-converter/internal/server"
)

// newServeCmd creates the serve subcommand.
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP upload server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func runServer() error {
	svc, err := convert.NewService(pdf.NewEngine(cfg.Conversion.ImageDPI), convert.Config{
		ScratchDir:     cfg.Conversion.ScratchDir,
		MaxUploadBytes: cfg.Conversion.MaxUploadBytes,
	}, logger)
	if err != nil {
		return fmt.Errorf("create conversion service: %w", err)
	}

	handler := server.NewHandler(logger, svc, cfg.Conversion.MaxUploadBytes)
	router := server.NewRouter(logger, handler, server.RouterConfig{
		RequestTimeout:    cfg.Server.RequestTimeout,
		CORSOrigins:       cfg.HTTP.CORSOrigins,
		RequestsPerMinute: cfg.HTTP.RequestsPerMinute,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	logger.Info().
		Str("addr", srv.Addr).
		Str("scratch_dir", cfg.Conversion.ScratchDir).
		Int64("max_upload_bytes", cfg.Conversion.MaxUploadBytes).
		Msg("Starting PDF converter")

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("HTTP server listening")
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case sig := <-shutdown:
		logger.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulShutdown)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Graceful shutdown failed")
		if err := srv.Close(); err != nil {
			logger.Error().Err(err).Msg("Forced shutdown failed")
		}
	}

	logger.Info().Msg("Server stopped")
	return nil
}
