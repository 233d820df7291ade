package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"

	"blogapi/cmd/app"
	"blogapi/internal/config"
)

const portFlag = "port"

// serveFunc starts the server. port is the raw --port value, empty when the
// flag was not given.
type serveFunc func(cmd *cobra.Command, port string) error

// newServeFlags returns a fresh flag set. Each command needs its own because
// a registered flag remembers the command it was bound to.
func newServeFlags() map[string]cobraflags.Flag {
	return map[string]cobraflags.Flag{
		portFlag: &cobraflags.StringFlag{
			Name:  portFlag,
			Value: "",
			Usage: "Port to listen on. Overrides SERVER_PORT when set",
		},
	}
}

func newServeCommand(serve serveFunc) *cobra.Command {
	flags := newServeFlags()
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Apply migrations and start the HTTP server",
		Long: `Connect to PostgreSQL and MinIO, apply pending migrations and serve the
GraphQL endpoint together with the upload routes.

SIGINT and SIGTERM drain in-flight requests before exiting.`,
		RunE: serveRunE(flags, serve),
	}

	cobraflags.RegisterMap(serveCmd, flags)
	return serveCmd
}

func serveRunE(flags map[string]cobraflags.Flag, serve serveFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		return serve(cmd, flags[portFlag].GetString())
	}
}

// applyPort overrides the configured port when --port was given.
func applyPort(cfg *config.Config, port string) error {
	if port == "" {
		return nil
	}

	p, err := strconv.Atoi(port)
	if err != nil || p <= 0 || p > 65535 {
		return fmt.Errorf("invalid port %q", port)
	}
	cfg.ServerPort = p
	return nil
}

func runServer(cmd *cobra.Command, port string) error {
	cfg := loadConfig()
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := applyPort(cfg, port); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer application.Close()

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           application.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server started", "port", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	slog.Info("server stopped")
	return nil
}
