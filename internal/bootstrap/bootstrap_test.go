package bootstrap

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestApp_Run(t *testing.T) {
	t.Run("run returns nil", func(t *testing.T) {
		err := New().Run(context.Background(), func(ctx context.Context) error {
			return nil
		})
		assert.NoError(t, err)
	})

	t.Run("run error is returned without shutting down", func(t *testing.T) {
		app := New()
		hookCalled := false
		app.AddShutdownHook(func(ctx context.Context) error {
			hookCalled = true
			return nil
		})

		want := errors.New("listen tcp :8080: address already in use")
		err := app.Run(context.Background(), func(ctx context.Context) error {
			return want
		})
		assert.ErrorIs(t, err, want)
		assert.False(t, hookCalled)
	})

	t.Run("hooks run in reverse order when the context ends", func(t *testing.T) {
		app := New()
		var mu sync.Mutex
		var order []string
		for _, name := range []string{"database", "scheduler", "http"} {
			app.AddShutdownHook(func(ctx context.Context) error {
				mu.Lock()
				defer mu.Unlock()
				order = append(order, name)
				return nil
			})
		}

		ctx, cancel := context.WithCancel(context.Background())
		err := app.Run(ctx, func(ctx context.Context) error {
			cancel()
			<-ctx.Done()
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"http", "scheduler", "database"}, order)
	})

	t.Run("hook errors are joined", func(t *testing.T) {
		app := New()
		errHTTP := errors.New("http shutdown")
		errCron := errors.New("cron shutdown")
		app.AddShutdownHook(func(ctx context.Context) error { return errCron })
		app.AddShutdownHook(func(ctx context.Context) error { return errHTTP })

		ctx, cancel := context.WithCancel(context.Background())
		err := app.Run(ctx, func(ctx context.Context) error {
			cancel()
			<-ctx.Done()
			return nil
		})
		assert.ErrorIs(t, err, errHTTP)
		assert.ErrorIs(t, err, errCron)
	})

	t.Run("hooks get a deadline", func(t *testing.T) {
		app := New()
		app.ShutdownTimeout = time.Second
		var deadline time.Time
		var ok bool
		ctx, cancel := context.WithCancel(context.Background())
		err := app.Run(ctx, func(ctx context.Context) error {
			app.AddShutdownHook(func(ctx context.Context) error {
				deadline, ok = ctx.Deadline()
				return nil
			})
			cancel()
			<-ctx.Done()
			return nil
		})
		require.NoError(t, err)
		assert.True(t, ok)
		assert.False(t, deadline.IsZero())
	})
}
