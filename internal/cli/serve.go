package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	httpAdapter "github.com/aretw0/motionplan/pkg/adapters/http"
	"github.com/aretw0/motionplan/pkg/batch"
	"github.com/aretw0/motionplan/pkg/domain"
)

// NewHTTPServer builds the report API. With a batch config, POST /runs
// starts the batch in the background and task events stream on /events.
func NewHTTPServer(app *App, version string) (*httpAdapter.Server, error) {
	opts := []httpAdapter.Option{
		httpAdapter.WithSolutions(app.Solutions),
		httpAdapter.WithGatherer(app.Registry),
		httpAdapter.WithVersion(version),
		httpAdapter.WithLogger(app.Logger),
	}
	if app.Loader != nil {
		// fail at startup, not on the first POST /runs
		if _, err := app.Orchestrator(); err != nil {
			return nil, err
		}
		opts = append(opts, httpAdapter.WithRunner(func(ctx context.Context, hooks domain.LifecycleHooks) (*domain.Report, error) {
			orch, err := app.Orchestrator(batch.WithHooks(hooks))
			if err != nil {
				return nil, err
			}
			return orch.Run(ctx, app.Batch)
		}))
	}
	return httpAdapter.NewServer(app.Reports, opts...), nil
}

// Serve runs the HTTP API on port until ctx is done.
func Serve(ctx context.Context, opts Options, port int, version string) error {
	app, err := NewApp(opts)
	if err != nil {
		return err
	}
	defer app.Close()

	srv, err := NewHTTPServer(app, version)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		app.Logger.Info("Starting motionplan server", "address", httpServer.Addr, "store", opts.Store)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		app.Logger.Info("Shutdown signal received, stopping server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			_ = httpServer.Close()
			return fmt.Errorf("graceful shutdown did not complete: %w", err)
		}
		// a background run is bounded by its per-task timeouts
		srv.Wait()
		app.Logger.Info("Server stopped gracefully")
		return nil
	}
}
