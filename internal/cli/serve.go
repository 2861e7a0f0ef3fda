package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/faizmokh/gaji/internal/config"
	"github.com/faizmokh/gaji/internal/logging"
	"github.com/faizmokh/gaji/internal/server"
	"github.com/faizmokh/gaji/internal/store/sqlite"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(ctx context.Context, d *deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the record store over HTTP, backed by SQLite.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := d.config()
			if err != nil {
				return err
			}
			logger := logging.New(cmd.ErrOrStderr(), cfg.LogLevel)

			repo, err := sqlite.Open(cfg.DBPath, logger)
			if err != nil {
				return err
			}
			defer repo.Close()

			ln, err := net.Listen("tcp", cfg.Listen)
			if err != nil {
				return fmt.Errorf("listen on %s: %w", cfg.Listen, err)
			}

			sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := &http.Server{
				Handler:           server.NewHandler(repo, logger),
				ReadHeaderTimeout: 5 * time.Second,
			}
			return runServer(sigCtx, srv, ln, logger)
		},
	}

	cmd.Flags().String(config.KeyListen, config.DefaultListen, "Address to listen on")
	// The flag exists, so binding cannot fail.
	_ = d.viper.BindPFlag(config.KeyListen, cmd.Flags().Lookup(config.KeyListen))

	return cmd
}

// runServer serves on ln until ctx is done, then shuts down gracefully.
func runServer(ctx context.Context, srv *http.Server, ln net.Listener, logger *slog.Logger) error {
	logger = logging.Component(logger, logging.ComponentServer)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
