package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/NUMNIMx/noteflow/internal/platform"
	"github.com/NUMNIMx/noteflow/internal/remoteserver"
)

var (
	serveAddr      string
	serveProvision bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve documents until interrupted",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if cfg.Remote.Kind == platform.RemoteHTTP {
			fatal("Invalid backing store", errors.New("remote.kind http would proxy to itself"))
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger := slog.Default()
		store, closeStore, err := platform.OpenRemote(cfg.Remote, logger)
		if err != nil {
			fatal("Failed to open backing store", err)
		}
		defer func() { _ = closeStore() }()
		if store == nil {
			fatal("Invalid backing store", platform.ErrNoRemote)
		}

		if serveProvision {
			if err := platform.Provision(ctx, store); err != nil {
				fatal("Failed to provision backing store", err)
			}
		}

		srv, err := remoteserver.New(remoteserver.Config{
			Store:     store,
			JWTSecret: []byte(cfg.Server.JWTSecret),
			RateRPS:   cfg.Server.RateRPS,
			RateBurst: cfg.Server.RateBurst,
			Logger:    logger,
		})
		if err != nil {
			fatal("Invalid server config", err)
		}

		addr := cfg.Server.Addr
		if serveAddr != "" {
			addr = serveAddr
		}
		logger.Debug("backing store ready", "kind", cfg.Remote.Kind)
		if err := srv.ListenAndServe(ctx, addr); err != nil {
			fatal("Server stopped", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default: server.addr)")
	serveCmd.Flags().BoolVar(&serveProvision, "provision", false, "Create the table or bucket before serving")
}
