// Package bootstrap runs long-lived processes until they fail or the process is signalled.
package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

// DefaultShutdownTimeout bounds the time shutdown hooks get after a signal.
const DefaultShutdownTimeout = 10 * time.Second

// App runs a process and stops its components on SIGINT or SIGTERM.
type App struct {
	ShutdownTimeout time.Duration

	mu    sync.Mutex
	hooks []func(ctx context.Context) error
}

func New() *App {
	return &App{ShutdownTimeout: DefaultShutdownTimeout}
}

// AddShutdownHook registers fn to stop a component. Hooks run in reverse
// registration order. Safe to call from inside the run function.
func (a *App) AddShutdownHook(fn func(ctx context.Context) error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.hooks = append(a.hooks, fn)
}

// Run calls run and waits until it returns or ctx is done. When ctx is done first,
// the shutdown hooks run and their joined errors are returned.
func (a *App) Run(ctx context.Context, run func(ctx context.Context) error) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- run(ctx)
	}()

	select {
	case <-ctx.Done():
		slog.Default().Info("shutting down", "hooks", a.hookCount())
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), a.ShutdownTimeout)
		defer cancelShutdown()
		return a.shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (a *App) hookCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.hooks)
}

func (a *App) shutdown(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	var errs []error
	for i := len(a.hooks) - 1; i >= 0; i-- {
		if err := a.hooks[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
