package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/torredebabel/icfes/internal/config"
	"github.com/torredebabel/icfes/internal/proxy"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP proxy in front of the learning backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Server.Addr = addr
		}
		if backend, _ := cmd.Flags().GetString("backend"); backend != "" {
			cfg.Server.BackendURL = backend
			if err := cfg.Server.Validate(); err != nil {
				return err
			}
		}

		log, closeLog, err := config.NewLogger(cfg.Log, os.Stderr)
		if err != nil {
			return err
		}
		defer closeLog()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		server := proxy.New(cfg.Server, log)
		errc := make(chan error, 1)
		go func() {
			log.WithField("addr", cfg.Server.Addr).WithField("backend", cfg.Server.BackendURL).Info("proxy listening")
			errc <- server.Listen(cfg.Server.Addr)
		}()

		select {
		case err := <-errc:
			return fmt.Errorf("proxy server: %w", err)
		case <-ctx.Done():
		}

		log.Info("shutting down proxy")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.ShutdownWithContext(shutdownCtx); err != nil {
			return fmt.Errorf("proxy shutdown: %w", err)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
	serveCmd.Flags().String("backend", "", "Backend base URL (overrides server.backend_url)")
}
