package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"userdesk/internal/delivery/http/handler"
	"userdesk/internal/delivery/http/router"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Start the userdesk HTTP API.

On startup the directory is loaded once (remote first, local store as the
fallback) so the store is seeded before the first request. The server runs
until interrupted (Ctrl+C) or it receives SIGTERM.`,
		RunE: runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mux := router.Setup(router.Handlers{
		User: handler.NewUserHandler(a.users, a.logger),
	}, router.Options{
		AllowedOrigins: a.cfg.AllowedOrigins(),
		Logger:         a.logger,
	})

	srv := &http.Server{
		Addr:              a.cfg.Addr(),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	a.logger.Info("starting server",
		"addr", srv.Addr,
		"backend", a.cfg.Store.Backend,
		"slot", a.cfg.Store.SlotKey,
		"latency", a.cfg.Latency.Duration().String(),
		"remote", a.cfg.RemoteEnabled(),
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		users, source, err := a.users.Load(gctx)
		if err != nil {
			a.logger.Warn("initial load failed", "error", err)
			return nil
		}
		a.logger.Info("initial load complete", "source", source, "count", len(users))
		return nil
	})

	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	a.logger.Info("shutdown complete")
	return nil
}
