package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/runnerr0/pulse/internal/report"
	"github.com/runnerr0/pulse/internal/server"
	"github.com/runnerr0/pulse/internal/storage"
)

const shutdownTimeout = 10 * time.Second

// Execute implements the go-flags Commander interface for ServeCommand.
func (c *ServeCommand) Execute(args []string) error {
	rt, err := loadRuntime(c.globals)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store storage.Store
	if !c.NoStore {
		s, db, err := openStore(ctx, rt.cfg)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer db.Close()
		defer s.Close()
		store = s
	}

	return c.serve(ctx, c.buildServer(rt, store), rt)
}

// buildServer applies the listen overrides and wires the server.
func (c *ServeCommand) buildServer(rt *runtime, store storage.Store) *server.Server {
	cfg := *rt.cfg
	if c.Host != "" {
		cfg.Server.Host = c.Host
	}
	if c.Port != 0 {
		cfg.Server.Port = c.Port
	}

	return server.New(server.Options{
		Config:  &cfg,
		Version: c.version,
		Builder: report.NewBuilder(cfg.Report.MaxPosts),
		Store:   store,
		Logger:  rt.logger,
	})
}

// serve runs srv until ctx is cancelled, then shuts it down gracefully.
func (c *ServeCommand) serve(ctx context.Context, srv *server.Server, rt *runtime) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	rt.logger.Info("Shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}
